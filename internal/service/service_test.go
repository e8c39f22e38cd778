package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"salesboard/internal/ai"
	"salesboard/internal/config"
	"salesboard/internal/models"
	"salesboard/internal/repository"
)

func newTestService(t *testing.T) (*DefaultService, repository.Store) {
	cfg := config.LoadConfig()
	cfg.Database.Name = "service_test_" + uuid.New().String()

	db, err := config.SetupDatabase(cfg)
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := repository.NewSQLiteStore(db)
	assert.NoError(t, store.SeedDemoData(context.Background()))

	analyzer := ai.NewAnalyzer(ai.NewGeminiClient("", "gemini-2.5-flash"))
	return NewDefaultService(store, analyzer, "test-secret-key"), store
}

func TestSaveRecordMintsWallClockID(t *testing.T) {
	svc, _ := newTestService(t)
	fixed := time.Date(2023, 11, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	record, err := svc.SaveRecord(context.Background(), models.SaveRecordRequest{
		Date:         "2023-11-01",
		Time:         "10:00",
		CustomerName: "Oscorp",
		ProductName:  "Glider",
		Salesperson:  "Norman Osborn",
		Region:       "North America",
		Quantity:     5,
		UnitPrice:    2000,
		Discount:     10,
	})
	assert.NoError(t, err)
	assert.Equal(t, fixed.UnixMilli(), record.ID)
}

func TestSaveRecordDerivationChain(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	first, err := svc.SaveRecord(ctx, models.SaveRecordRequest{
		Date:         "2023-11-01",
		Time:         "10:00",
		CustomerName: "Oscorp",
		ProductName:  "Glider",
		Salesperson:  "Norman Osborn",
		Region:       "North America",
		Quantity:     5,
		UnitPrice:    2000,
		Discount:     10,
	})
	assert.NoError(t, err)
	assert.Equal(t, "OSCGL1", first.ProductID)
	assert.Equal(t, "CIOSCOR001", first.CustomerID)
	assert.Equal(t, 9000.0, first.TotalAmount)

	// A Customer login was provisioned with the customer id as password
	user, err := store.FindUserByUsername(ctx, "OSCORP")
	assert.NoError(t, err)
	if assert.NotNil(t, user) {
		assert.Equal(t, "CIOSCOR001", user.Password)
		assert.Equal(t, models.RoleCustomer, user.Role)
	}

	// A second sale for the same customer reuses the customer id, advances
	// the product counter, and provisions no second user
	second, err := svc.SaveRecord(ctx, models.SaveRecordRequest{
		Date:         "2023-11-02",
		Time:         "11:00",
		CustomerName: "oscorp",
		ProductName:  "Glider",
		Salesperson:  "Norman Osborn",
		Region:       "North America",
		Quantity:     1,
		UnitPrice:    2000,
	})
	assert.NoError(t, err)
	assert.Equal(t, "CIOSCOR001", second.CustomerID)
	assert.Equal(t, "OSCGL2", second.ProductID)

	users, err := store.ListUsers(ctx)
	assert.NoError(t, err)
	assert.Len(t, users, 4) // 3 seeded + Oscorp
}

func TestSaveRecordRejectsShortNames(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SaveRecord(context.Background(), models.SaveRecordRequest{
		Date:         "2023-11-01",
		Time:         "10:00",
		CustomerName: "Ox",
		ProductName:  "G",
		Salesperson:  "Someone",
		Region:       "EMEA",
		Quantity:     1,
		UnitPrice:    100,
	})
	assert.ErrorIs(t, err, ErrRecordInvalid)
}

func TestSaveRecordIgnoresCallerSuppliedTotal(t *testing.T) {
	svc, _ := newTestService(t)

	// The request carries no total at all; the edit path recomputes it and
	// keeps the identifiers minted at creation
	record, err := svc.SaveRecord(context.Background(), models.SaveRecordRequest{
		ID:           1,
		Date:         "2023-10-26",
		Time:         "14:30",
		CustomerName: "Stark Industries",
		ProductName:  "Arc Reactor Core",
		Salesperson:  "Tony Stark",
		Region:       "North America",
		Quantity:     10,
		UnitPrice:    50000,
		Discount:     10,
	})
	assert.NoError(t, err)
	assert.Equal(t, "P001", record.ProductID)
	assert.Equal(t, "CISTARK001", record.CustomerID)
	assert.Equal(t, 450000.0, record.TotalAmount)
	assert.Equal(t, 0.1, record.Discount)
}

func TestEditNonexistentRecordLeavesStoreUntouched(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.SaveRecord(ctx, models.SaveRecordRequest{
		ID:           99999,
		Date:         "2023-11-01",
		Time:         "10:00",
		CustomerName: "Ghost Corp",
		ProductName:  "Nothing",
		Salesperson:  "No One",
		Region:       "Nowhere",
		Quantity:     1,
		UnitPrice:    1,
	})
	assert.NoError(t, err)

	records, err := store.ListRecords(ctx)
	assert.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestLoginComparesPlaintext(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, models.LoginRequest{Username: "admin", Password: "password"})
	assert.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.Role)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(ctx, models.LoginRequest{Username: "admin", Password: "PASSWORD"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, models.LoginRequest{Username: "ghost", Password: "password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCustomerRecordsMatchesMappedUsername(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	columns, records, err := svc.CustomerRecords(ctx, "STARKINDUSTRIES", models.RecordFilter{})
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.NotContains(t, columns, "region")

	// Another customer's username matches nothing of Stark's
	columns, records, err = svc.CustomerRecords(ctx, "WAYNEENTERPRISES", models.RecordFilter{})
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.NotEmpty(t, columns)

	// An unknown identity sees nothing, and with no sample record there
	// are no columns either
	columns, records, err = svc.CustomerRecords(ctx, "GHOST", models.RecordFilter{})
	assert.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, columns)
}

func TestSetCustomerVisibilityDropsID(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	assert.NoError(t, svc.SetCustomerVisibility(ctx, models.Visibility{"id": true, "date": true}))

	fields, err := store.GetCustomerVisibility(ctx)
	assert.NoError(t, err)
	assert.NotContains(t, fields, "id")
	assert.True(t, fields["date"])
}
