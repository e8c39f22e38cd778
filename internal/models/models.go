package models

// Role determines what a logged-in user may do
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleCustomer Role = "Customer"
)

// User represents a login identity in the system
type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Password string `db:"password" json:"password,omitempty"`
	Role     Role   `db:"role" json:"role"`
}

// SaleRecord represents one sale transaction line.
// Date is an ISO calendar date (YYYY-MM-DD) and Time a zero-padded 24-hour
// time (HH:MM); both formats sort lexicographically in chronological order,
// which the filter engine relies on.
type SaleRecord struct {
	ID           int64   `db:"id" json:"id"`
	Date         string  `db:"date" json:"date"`
	Time         string  `db:"time" json:"time"`
	CustomerID   string  `db:"customer_id" json:"customerId"`
	CustomerName string  `db:"customer_name" json:"customerName"`
	ProductName  string  `db:"product_name" json:"productName"`
	ProductID    string  `db:"product_id" json:"productId"`
	Salesperson  string  `db:"salesperson" json:"salesperson"`
	Region       string  `db:"region" json:"region"`
	Quantity     int64   `db:"quantity" json:"quantity"`
	UnitPrice    float64 `db:"unit_price" json:"unitPrice"`
	Discount     float64 `db:"discount" json:"discount"`
	TotalAmount  float64 `db:"total_amount" json:"totalAmount"`
	Image        string  `db:"image" json:"image,omitempty"`
}

// Visibility maps a SaleRecord field name (its JSON name) to whether the
// field is shown. The record id is never part of a visibility map.
type Visibility map[string]bool
