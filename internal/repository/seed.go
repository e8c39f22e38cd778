package repository

import (
	"context"

	"salesboard/internal/models"
)

const (
	starkCustomerID = "CISTARK001"
	wayneCustomerID = "CIWAYNE001"
)

var seedUsers = []models.User{
	{ID: 1, Username: "admin", Password: "password", Role: models.RoleAdmin},
	{ID: 2, Username: "STARKINDUSTRIES", Password: starkCustomerID, Role: models.RoleCustomer},
	{ID: 3, Username: "WAYNEENTERPRISES", Password: wayneCustomerID, Role: models.RoleCustomer},
}

var seedRecords = []models.SaleRecord{
	{
		ID:           1,
		Date:         "2023-10-26",
		Time:         "14:30",
		CustomerID:   starkCustomerID,
		CustomerName: "Stark Industries",
		ProductName:  "Arc Reactor Core",
		ProductID:    "P001",
		Salesperson:  "Tony Stark",
		Region:       "North America",
		Quantity:     10,
		UnitPrice:    50000,
		Discount:     0.1,
		TotalAmount:  450000,
	},
	{
		ID:           2,
		Date:         "2023-10-27",
		Time:         "09:15",
		CustomerID:   wayneCustomerID,
		CustomerName: "Wayne Enterprises",
		ProductName:  "Grappling Hook",
		ProductID:    "P002",
		Salesperson:  "Lucius Fox",
		Region:       "North America",
		Quantity:     100,
		UnitPrice:    1500,
		Discount:     0.05,
		TotalAmount:  142500,
	},
	{
		ID:           3,
		Date:         "2023-10-27",
		Time:         "13:45",
		CustomerID:   starkCustomerID,
		CustomerName: "Stark Industries",
		ProductName:  "Repulsor Gauntlet",
		ProductID:    "P003",
		Salesperson:  "Pepper Potts",
		Region:       "EMEA",
		Quantity:     2,
		UnitPrice:    120000,
		Discount:     0,
		TotalAmount:  240000,
	},
}

var seedVisibility = models.Visibility{
	"date":         true,
	"time":         true,
	"customerId":   true,
	"customerName": true,
	"productName":  true,
	"productId":    true,
	"salesperson":  true,
	"region":       false,
	"quantity":     true,
	"unitPrice":    true,
	"discount":     false,
	"totalAmount":  true,
	"image":        true,
}

// SeedDemoData loads the demo users, sale records and default customer
// visibility map. It does nothing when users already exist, so a store is
// never seeded twice.
func (s *SQLiteStore) SeedDemoData(ctx context.Context) error {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for i := range seedUsers {
		user := seedUsers[i]
		if err := s.UpsertUser(ctx, &user); err != nil {
			return err
		}
	}

	for i := range seedRecords {
		record := seedRecords[i]
		if err := s.UpsertRecord(ctx, &record); err != nil {
			return err
		}
	}

	return s.SetCustomerVisibility(ctx, seedVisibility)
}
