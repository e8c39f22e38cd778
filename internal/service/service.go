package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"salesboard/internal/ai"
	"salesboard/internal/engine"
	"salesboard/internal/models"
	"salesboard/internal/repository"
)

var (
	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserNotFound is returned when a user id does not exist
	ErrUserNotFound = errors.New("user not found")
	// ErrRecordInvalid is returned when the name fragments are too short to
	// derive a product id; the save is blocked until they are valid
	ErrRecordInvalid = errors.New("customer name must be at least 3 characters and product name at least 2")
)

// Service defines all the business logic operations
type Service interface {
	// Authentication
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)

	// Record operations
	ListRecords(ctx context.Context, filter models.RecordFilter) ([]models.SaleRecord, error)
	Columns(ctx context.Context) ([]string, error)
	PreviewIDs(ctx context.Context, customerName, productName string) (string, string, error)
	SaveRecord(ctx context.Context, req models.SaveRecordRequest) (*models.SaleRecord, error)
	DeleteRecord(ctx context.Context, id int64) error

	// Customer view
	CustomerRecords(ctx context.Context, username string, filter models.RecordFilter) ([]string, []map[string]any, error)

	// User management
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserRole(ctx context.Context, id int64, role models.Role) error
	UpdateUserPassword(ctx context.Context, id int64, password string) error

	// Customer visibility configuration
	CustomerVisibility(ctx context.Context) (models.Visibility, error)
	SetCustomerVisibility(ctx context.Context, fields models.Visibility) error

	// AI analysis
	StartAnalysis(ctx context.Context, filter models.RecordFilter) error
	AnalysisStatus() (string, string)
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo          repository.Store
	analyzer      *ai.Analyzer
	jwtSecret     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(repo repository.Store, analyzer *ai.Analyzer, jwtSecret string) *DefaultService {
	return &DefaultService{
		repo:          repo,
		analyzer:      analyzer,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 24 * time.Hour, // 24 hours token validity
		now:           time.Now,
	}
}

// Authentication methods
func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	// Passwords are stored and compared as plain text. Auto-provisioned
	// customers log in with their customer id, and admins can read the
	// stored value back in user management.
	if user == nil || user.Password != req.Password {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthResponse{
		Status:    "success",
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Token:     token,
		ExpiresIn: int(s.tokenDuration.Seconds()),
	}, nil
}

// Record operations
func (s *DefaultService) ListRecords(ctx context.Context, filter models.RecordFilter) ([]models.SaleRecord, error) {
	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing records: %w", err)
	}

	return engine.FilterByRange(records, filter.DateFrom, filter.DateTo, filter.TimeFrom, filter.TimeTo), nil
}

func (s *DefaultService) Columns(ctx context.Context) ([]string, error) {
	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing records: %w", err)
	}

	return engine.DeriveColumns(records), nil
}

// PreviewIDs derives the identifiers the save path would assign for the
// given names, so the record form can show them before submission.
func (s *DefaultService) PreviewIDs(ctx context.Context, customerName, productName string) (string, string, error) {
	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		return "", "", fmt.Errorf("error listing records: %w", err)
	}

	customerID := engine.NextCustomerID(records, customerName)
	productID := engine.NextProductID(records, customerName, productName)
	return customerID, productID, nil
}

// SaveRecord creates or fully replaces a sale record. The total is always
// recomputed from quantity, unit price and the discount percentage; a
// caller-supplied total is never trusted. Saving a brand-new record for an
// unseen customer name auto-provisions a Customer login.
func (s *DefaultService) SaveRecord(ctx context.Context, req models.SaveRecordRequest) (*models.SaleRecord, error) {
	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing records: %w", err)
	}

	discountPercent := engine.ClampDiscountPercent(req.Discount)
	record := models.SaleRecord{
		ID:           req.ID,
		Date:         req.Date,
		Time:         req.Time,
		CustomerName: req.CustomerName,
		ProductName:  req.ProductName,
		Salesperson:  req.Salesperson,
		Region:       req.Region,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		Discount:     discountPercent / 100,
		TotalAmount:  engine.ComputeTotal(req.Quantity, req.UnitPrice, discountPercent),
		Image:        req.Image,
	}

	if req.ID != 0 {
		existing := findRecordByID(records, req.ID)
		if existing == nil {
			// Editing an id that no longer exists leaves the store untouched
			return &record, nil
		}
		// Identifiers are minted at creation and survive edits unchanged
		record.CustomerID = existing.CustomerID
		record.ProductID = existing.ProductID

		if err := s.repo.UpsertRecord(ctx, &record); err != nil {
			return nil, fmt.Errorf("error saving record: %w", err)
		}
		return &record, nil
	}

	record.ProductID = engine.NextProductID(records, req.CustomerName, req.ProductName)
	if record.ProductID == "" {
		return nil, ErrRecordInvalid
	}
	record.CustomerID = engine.NextCustomerID(records, req.CustomerName)
	record.ID = s.now().UnixMilli()

	if err := s.repo.UpsertRecord(ctx, &record); err != nil {
		return nil, fmt.Errorf("error saving record: %w", err)
	}

	if err := s.provisionCustomer(ctx, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

// provisionCustomer creates a Customer login for a newly seen customer name.
// The username is the mapped display name and the password is the customer id.
func (s *DefaultService) provisionCustomer(ctx context.Context, record *models.SaleRecord) error {
	username := engine.ToUsername(record.CustomerName)

	existing, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("error checking user existence: %w", err)
	}
	if existing != nil {
		return nil
	}

	user := &models.User{
		ID:       s.now().UnixMilli(),
		Username: username,
		Password: record.CustomerID,
		Role:     models.RoleCustomer,
	}
	if err := s.repo.UpsertUser(ctx, user); err != nil {
		return fmt.Errorf("error creating customer user: %w", err)
	}

	logrus.WithField("username", username).Info("auto-provisioned customer account")
	return nil
}

func (s *DefaultService) DeleteRecord(ctx context.Context, id int64) error {
	// Deleting a nonexistent id is a no-op by contract
	if err := s.repo.DeleteRecordByID(ctx, id); err != nil {
		return fmt.Errorf("error deleting record: %w", err)
	}
	return nil
}

// Customer view
// CustomerRecords returns the customer-visible columns and the projected
// rows for the records whose mapped customer name equals the caller's
// username.
func (s *DefaultService) CustomerRecords(ctx context.Context, username string, filter models.RecordFilter) ([]string, []map[string]any, error) {
	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error listing records: %w", err)
	}

	own := make([]models.SaleRecord, 0, len(records))
	for _, r := range records {
		if engine.ToUsername(r.CustomerName) == username {
			own = append(own, r)
		}
	}
	own = engine.FilterByRange(own, filter.DateFrom, filter.DateTo, filter.TimeFrom, filter.TimeTo)

	visibility, err := s.repo.GetCustomerVisibility(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting visibility: %w", err)
	}

	columns := []string{}
	for _, col := range engine.DeriveColumns(own) {
		if visibility[col] {
			columns = append(columns, col)
		}
	}

	rows := make([]map[string]any, 0, len(own))
	for _, r := range own {
		rows = append(rows, engine.Project(r, visibility))
	}

	return columns, rows, nil
}

// User management
func (s *DefaultService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

func (s *DefaultService) UpdateUserRole(ctx context.Context, id int64, role models.Role) error {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	user.Role = role
	if err := s.repo.UpsertUser(ctx, user); err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

func (s *DefaultService) UpdateUserPassword(ctx context.Context, id int64, password string) error {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	user.Password = password
	if err := s.repo.UpsertUser(ctx, user); err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

// Customer visibility configuration
func (s *DefaultService) CustomerVisibility(ctx context.Context) (models.Visibility, error) {
	fields, err := s.repo.GetCustomerVisibility(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting visibility: %w", err)
	}
	return fields, nil
}

func (s *DefaultService) SetCustomerVisibility(ctx context.Context, fields models.Visibility) error {
	// The record id is never a configurable field
	delete(fields, "id")

	if err := s.repo.SetCustomerVisibility(ctx, fields); err != nil {
		return fmt.Errorf("error setting visibility: %w", err)
	}
	return nil
}

// AI analysis
func (s *DefaultService) StartAnalysis(ctx context.Context, filter models.RecordFilter) error {
	records, err := s.ListRecords(ctx, filter)
	if err != nil {
		return err
	}
	return s.analyzer.Start(records)
}

func (s *DefaultService) AnalysisStatus() (string, string) {
	return s.analyzer.Status()
}

// Helper methods
func (s *DefaultService) generateJWT(user *models.User) (string, error) {
	expirationTime := s.now().Add(s.tokenDuration)

	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(user.ID, 10), // subject
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      expirationTime.Unix(),
		"iat":      s.now().Unix(), // issued at
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func findRecordByID(records []models.SaleRecord, id int64) *models.SaleRecord {
	for i := range records {
		if records[i].ID == id {
			return &records[i]
		}
	}
	return nil
}
