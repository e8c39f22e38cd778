package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"salesboard/internal/models"
)

// Store defines the record, user and visibility collaborators the engine and
// service operate against. Implementations hold all state; the engine only
// ever sees snapshots.
type Store interface {
	// Record operations
	ListRecords(ctx context.Context) ([]models.SaleRecord, error)
	UpsertRecord(ctx context.Context, record *models.SaleRecord) error
	DeleteRecordByID(ctx context.Context, id int64) error

	// User operations
	ListUsers(ctx context.Context) ([]models.User, error)
	UpsertUser(ctx context.Context, user *models.User) error
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// Customer visibility configuration
	GetCustomerVisibility(ctx context.Context) (models.Visibility, error)
	SetCustomerVisibility(ctx context.Context, fields models.Visibility) error
}

// SQLiteStore implements the Store interface over the in-memory SQLite
// database opened by config.SetupDatabase.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore creates a new SQLite-backed store
func NewSQLiteStore(db *sqlx.DB) *SQLiteStore {
	return &SQLiteStore{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (s *SQLiteStore) GetDB() *sqlx.DB {
	return s.db
}

// Record store methods
func (s *SQLiteStore) ListRecords(ctx context.Context) ([]models.SaleRecord, error) {
	// Minted ids are monotonic, so id order is insertion order
	query := `SELECT * FROM sale_records ORDER BY id ASC`

	records := []models.SaleRecord{}
	if err := s.db.SelectContext(ctx, &records, query); err != nil {
		return nil, err
	}

	return records, nil
}

func (s *SQLiteStore) UpsertRecord(ctx context.Context, record *models.SaleRecord) error {
	query := `
		INSERT INTO sale_records (
			id, date, time, customer_id, customer_name, product_name,
			product_id, salesperson, region, quantity, unit_price, discount,
			total_amount, image
		) VALUES (
			:id, :date, :time, :customer_id, :customer_name, :product_name,
			:product_id, :salesperson, :region, :quantity, :unit_price,
			:discount, :total_amount, :image
		)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			time = excluded.time,
			customer_id = excluded.customer_id,
			customer_name = excluded.customer_name,
			product_name = excluded.product_name,
			product_id = excluded.product_id,
			salesperson = excluded.salesperson,
			region = excluded.region,
			quantity = excluded.quantity,
			unit_price = excluded.unit_price,
			discount = excluded.discount,
			total_amount = excluded.total_amount,
			image = excluded.image
	`

	_, err := s.db.NamedExecContext(ctx, query, record)
	return err
}

func (s *SQLiteStore) DeleteRecordByID(ctx context.Context, id int64) error {
	// Deleting a nonexistent id is a no-op, not an error
	_, err := s.db.ExecContext(ctx, `DELETE FROM sale_records WHERE id = ?`, id)
	return err
}

// User store methods
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT * FROM users ORDER BY id ASC`

	users := []models.User{}
	if err := s.db.SelectContext(ctx, &users, query); err != nil {
		return nil, err
	}

	return users, nil
}

func (s *SQLiteStore) UpsertUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, password, role)
		VALUES (:id, :username, :password, :role)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			password = excluded.password,
			role = excluded.role
	`

	_, err := s.db.NamedExecContext(ctx, query, user)
	return err
}

func (s *SQLiteStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT * FROM users WHERE username = ?`

	var user models.User
	err := s.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT * FROM users WHERE id = ?`

	var user models.User
	err := s.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // User not found
		}
		return nil, err
	}

	return &user, nil
}

// Customer visibility methods
func (s *SQLiteStore) GetCustomerVisibility(ctx context.Context) (models.Visibility, error) {
	rows, err := s.db.QueryxContext(ctx, `SELECT field, visible FROM customer_visibility`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := models.Visibility{}
	for rows.Next() {
		var field string
		var visible bool
		if err := rows.Scan(&field, &visible); err != nil {
			return nil, err
		}
		fields[field] = visible
	}

	return fields, rows.Err()
}

func (s *SQLiteStore) SetCustomerVisibility(ctx context.Context, fields models.Visibility) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	_, err = tx.ExecContext(ctx, `DELETE FROM customer_visibility`)
	if err != nil {
		return err
	}

	for field, visible := range fields {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO customer_visibility (field, visible) VALUES (?, ?)`,
			field, visible)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
