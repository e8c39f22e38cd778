// Package engine holds the record derivation and filtering rules: identifier
// generation, total computation, username mapping and the field
// projector/filter. Every function is pure over the snapshot it is given.
package engine

import (
	"fmt"
	"strconv"
	"strings"

	"salesboard/internal/models"
)

// NextProductID derives a product id from the first three characters of the
// customer name plus the first two of the product name, followed by a running
// per-prefix counter scanned from existing records. It returns "" when either
// name is too short after trimming; callers must block the save until both
// names are long enough.
func NextProductID(records []models.SaleRecord, customerName, productName string) string {
	customer := []rune(strings.ToUpper(strings.TrimSpace(customerName)))
	product := []rune(strings.ToUpper(strings.TrimSpace(productName)))
	if len(customer) < 3 || len(product) < 2 {
		return ""
	}

	// Length checks and slices count runes so multibyte names are never
	// cut mid-character.
	prefix := string(customer[:3]) + string(product[:2])
	maxIndex := 0
	for _, r := range records {
		if !strings.HasPrefix(r.ProductID, prefix) {
			continue
		}
		// Suffixes that fail to parse are skipped, never an error.
		if idx, err := strconv.Atoi(r.ProductID[len(prefix):]); err == nil && idx > maxIndex {
			maxIndex = idx
		}
	}
	return prefix + strconv.Itoa(maxIndex+1)
}

// NextCustomerID returns the customer id for the given name. A name already
// present in the records (case-insensitive) reuses that record's id verbatim,
// so one customer name always maps to one id. Otherwise a new id is built
// from a "CI" prefix plus the first five alphanumeric characters of the name
// (padded with 'X') and a zero-padded 3-digit counter. The padding deliberately
// differs from product ids.
func NextCustomerID(records []models.SaleRecord, customerName string) string {
	name := strings.TrimSpace(customerName)
	if name == "" {
		return ""
	}

	upper := strings.ToUpper(name)
	for _, r := range records {
		if strings.ToUpper(r.CustomerName) == upper {
			return r.CustomerID
		}
	}

	prefix := "CI" + alnumPrefix(upper)
	maxIndex := 0
	for _, r := range records {
		if !strings.HasPrefix(r.CustomerID, prefix) {
			continue
		}
		if idx, err := strconv.Atoi(r.CustomerID[len(prefix):]); err == nil && idx > maxIndex {
			maxIndex = idx
		}
	}
	return fmt.Sprintf("%s%03d", prefix, maxIndex+1)
}

// alnumPrefix keeps the first five A-Z/0-9 characters of an already
// uppercased name, right-padded with 'X' to exactly five.
func alnumPrefix(upper string) string {
	var b strings.Builder
	for _, c := range upper {
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
			if b.Len() == 5 {
				break
			}
		}
	}
	for b.Len() < 5 {
		b.WriteByte('X')
	}
	return b.String()
}
