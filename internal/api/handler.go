package api

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salesboard/internal/ai"
	"salesboard/internal/models"
	"salesboard/internal/service"
)

// Handler holds the API handlers and their dependencies
type Handler struct {
	svc       service.Service
	uploadDir string
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service, uploadDir string) *Handler {
	return &Handler{
		svc:       svc,
		uploadDir: uploadDir,
	}
}

// SetupRoutes registers all API routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.POST("/api/auth/login", h.Login)

	authorized := router.Group("/api", AuthMiddleware())

	// Customer view: any authenticated user sees their own records
	authorized.GET("/my/records", h.CustomerRecords)

	admin := authorized.Group("", AdminOnly())
	admin.GET("/records", h.ListRecords)
	admin.GET("/records/columns", h.Columns)
	admin.POST("/records", h.SaveRecord)
	admin.DELETE("/records/:id", h.DeleteRecord)
	admin.POST("/records/preview-ids", h.PreviewIDs)
	admin.POST("/records/images", h.UploadImage)

	admin.GET("/users", h.ListUsers)
	admin.PUT("/users/:id/role", h.UpdateUserRole)
	admin.PUT("/users/:id/password", h.UpdateUserPassword)

	admin.GET("/visibility/customer", h.CustomerVisibility)
	admin.PUT("/visibility/customer", h.SetCustomerVisibility)

	admin.POST("/analysis", h.StartAnalysis)
	admin.GET("/analysis", h.AnalysisStatus)
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Status:  "error",
				Code:    "UNAUTHORIZED",
				Message: "Invalid username or password",
			})
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListRecords(c *gin.Context) {
	var filter models.RecordFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}

	records, err := h.svc.ListRecords(c.Request.Context(), filter)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.RecordsResponse{Status: "success", Records: records})
}

func (h *Handler) Columns(c *gin.Context) {
	columns, err := h.svc.Columns(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ColumnsResponse{Status: "success", Columns: columns})
}

func (h *Handler) SaveRecord(c *gin.Context) {
	var req models.SaveRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	record, err := h.svc.SaveRecord(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrRecordInvalid) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Status:  "error",
				Code:    "INVALID_RECORD",
				Message: err.Error(),
			})
			return
		}
		internalError(c, err)
		return
	}

	status := http.StatusOK
	if req.ID == 0 {
		status = http.StatusCreated
	}
	c.JSON(status, models.SaveRecordResponse{Status: "success", Record: *record})
}

func (h *Handler) DeleteRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}

	if err := h.svc.DeleteRecord(c.Request.Context(), id); err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Status: "success", Message: "Record deleted"})
}

func (h *Handler) PreviewIDs(c *gin.Context) {
	var req models.PreviewIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	customerID, productID, err := h.svc.PreviewIDs(c.Request.Context(), req.CustomerName, req.ProductName)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PreviewIDsResponse{
		Status:     "success",
		CustomerID: customerID,
		ProductID:  productID,
	})
}

func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		badRequest(c, err)
		return
	}

	// The stored name is opaque; only the extension survives
	name := uuid.New().String() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, name)); err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.UploadImageResponse{
		Status: "success",
		URL:    "/uploads/" + name,
	})
}

func (h *Handler) CustomerRecords(c *gin.Context) {
	var filter models.RecordFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}

	username := c.GetString("username")
	columns, records, err := h.svc.CustomerRecords(c.Request.Context(), username, filter)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CustomerRecordsResponse{
		Status:  "success",
		Columns: columns,
		Records: records,
	})
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.UsersResponse{Status: "success", Users: users})
}

func (h *Handler) UpdateUserRole(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}

	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.svc.UpdateUserRole(c.Request.Context(), id, req.Role); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			notFound(c, "User not found")
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Status: "success", Message: "Role updated"})
}

func (h *Handler) UpdateUserPassword(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}

	var req models.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.svc.UpdateUserPassword(c.Request.Context(), id, req.Password); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			notFound(c, "User not found")
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Status: "success", Message: "Password updated"})
}

func (h *Handler) CustomerVisibility(c *gin.Context) {
	fields, err := h.svc.CustomerVisibility(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.VisibilityResponse{Status: "success", Fields: fields})
}

func (h *Handler) SetCustomerVisibility(c *gin.Context) {
	var fields models.Visibility
	if err := c.ShouldBindJSON(&fields); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.svc.SetCustomerVisibility(c.Request.Context(), fields); err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.VisibilityResponse{Status: "success", Fields: fields})
}

func (h *Handler) StartAnalysis(c *gin.Context) {
	var filter models.RecordFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.svc.StartAnalysis(c.Request.Context(), filter); err != nil {
		if errors.Is(err, ai.ErrAnalysisInProgress) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Status:  "error",
				Code:    "ANALYSIS_IN_PROGRESS",
				Message: "An analysis is already running",
			})
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, models.AnalysisResponse{Status: "success", State: ai.StateRunning})
}

func (h *Handler) AnalysisStatus(c *gin.Context) {
	state, analysis := h.svc.AnalysisStatus()
	c.JSON(http.StatusOK, models.AnalysisResponse{
		Status:   "success",
		State:    state,
		Analysis: analysis,
	})
}

// Error helpers
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "BAD_REQUEST",
		Message: err.Error(),
	})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Status:  "error",
		Code:    "NOT_FOUND",
		Message: message,
	})
}

func internalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Status:  "error",
		Code:    "INTERNAL_ERROR",
		Message: err.Error(),
	})
}
