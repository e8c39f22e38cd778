package models

// Request models
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SaveRecordRequest carries the form fields for creating or editing a
// sale record. Discount is the whole-number percentage the form shows;
// it is converted to the stored fraction exactly once, on save.
type SaveRecordRequest struct {
	ID           int64   `json:"id"`
	Date         string  `json:"date" binding:"required"`
	Time         string  `json:"time" binding:"required"`
	CustomerName string  `json:"customerName" binding:"required"`
	ProductName  string  `json:"productName" binding:"required"`
	Salesperson  string  `json:"salesperson" binding:"required"`
	Region       string  `json:"region" binding:"required"`
	Quantity     int64   `json:"quantity" binding:"min=0"`
	UnitPrice    float64 `json:"unitPrice" binding:"min=0"`
	Discount     float64 `json:"discount"`
	Image        string  `json:"image"`
}

type PreviewIDsRequest struct {
	CustomerName string `json:"customerName"`
	ProductName  string `json:"productName"`
}

type UpdateRoleRequest struct {
	Role Role `json:"role" binding:"required,oneof=Admin Customer"`
}

type UpdatePasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// RecordFilter holds the optional date/time range bounds. An empty
// string means no constraint on that side.
type RecordFilter struct {
	DateFrom string `form:"dateFrom"`
	DateTo   string `form:"dateTo"`
	TimeFrom string `form:"timeFrom"`
	TimeTo   string `form:"timeTo"`
}

// Response models
type AuthResponse struct {
	Status    string `json:"status"`
	UserID    int64  `json:"userId,omitempty"`
	Username  string `json:"username,omitempty"`
	Role      Role   `json:"role,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

type RecordsResponse struct {
	Status  string       `json:"status"`
	Records []SaleRecord `json:"records"`
}

type SaveRecordResponse struct {
	Status string     `json:"status"`
	Record SaleRecord `json:"record"`
}

type ColumnsResponse struct {
	Status  string   `json:"status"`
	Columns []string `json:"columns"`
}

type PreviewIDsResponse struct {
	Status     string `json:"status"`
	CustomerID string `json:"customerId"`
	ProductID  string `json:"productId"`
}

// CustomerRecordsResponse pairs the customer-visible columns with rows
// already projected down to those columns.
type CustomerRecordsResponse struct {
	Status  string           `json:"status"`
	Columns []string         `json:"columns"`
	Records []map[string]any `json:"records"`
}

type UsersResponse struct {
	Status string `json:"status"`
	Users  []User `json:"users"`
}

type VisibilityResponse struct {
	Status string     `json:"status"`
	Fields Visibility `json:"fields"`
}

type UploadImageResponse struct {
	Status string `json:"status"`
	URL    string `json:"url"`
}

type AnalysisResponse struct {
	Status   string `json:"status"`
	State    string `json:"state"`
	Analysis string `json:"analysis,omitempty"`
}

type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
