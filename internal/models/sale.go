package models

import (
	"fmt"
	"time"

	"github.com/aromalab/retailgen/internal/utils"
)

// Invoice is one purchase event on one date. It never persists on its own;
// it exists to stamp identity onto its line items.
type Invoice struct {
	ID         string
	CustomerID int64
	Date       time.Time
	StoreID    string
}

// InvoiceID builds the composite invoice identifier: customer id, the
// invoice's year+month, and the zero-padded per-customer sequence number.
// The year-month component makes chronology recoverable from the id alone.
func InvoiceID(customerID int64, date time.Time, seq int) string {
	return fmt.Sprintf("%d-%s-%05d", customerID, date.Format("200601"), seq)
}

// SaleLine is one product line within an invoice, the row unit of the
// sales_transactions output. Quantity is negative for returns and Revenue
// always carries the quantity's sign.
type SaleLine struct {
	InvoiceID   string
	CustomerID  int64
	InvoiceDate time.Time
	ProductID   int64
	Quantity    int
	Revenue     utils.Money
	StoreID     string
}

// SaleColumns is the exported column contract for sales transactions.
// Downstream loaders depend on exactly these seven columns.
var SaleColumns = []string{
	"invoice_id",
	"customer_id",
	"invoice_date",
	"product_id",
	"quantity",
	"revenue",
	"store_id",
}

// IsReturn reports whether the line reverses a sale
func (l *SaleLine) IsReturn() bool {
	return l.Quantity < 0
}
