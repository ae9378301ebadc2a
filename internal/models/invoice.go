package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	InvoiceUnpaid    = "unpaid"
	InvoicePaid      = "paid"
	InvoiceOverdue   = "overdue"
	InvoiceCancelled = "cancelled"
)

type Invoice struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	CompanyID      uuid.UUID       `json:"company_id" db:"company_id"`
	OrganizationID uuid.UUID       `json:"organization_id" db:"organization_id"`
	AllocationID   uuid.UUID       `json:"allocation_id" db:"allocation_id"`
	InvoiceNumber  string          `json:"invoice_number" db:"invoice_number"`
	BillingPeriod  string          `json:"billing_period" db:"billing_period"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	TaxRate        decimal.Decimal `json:"tax_rate" db:"tax_rate"`
	CGST           decimal.Decimal `json:"cgst" db:"cgst"`
	SGST           decimal.Decimal `json:"sgst" db:"sgst"`
	TaxAmount      decimal.Decimal `json:"tax_amount" db:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status         string          `json:"status" db:"status"`
	IssuedDate     time.Time       `json:"issued_date" db:"issued_date"`
	DueDate        time.Time       `json:"due_date" db:"due_date"`
	PaidDate       *time.Time      `json:"paid_date" db:"paid_date"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// InvoiceFilter narrows invoice list queries.
type InvoiceFilter struct {
	Status         string     `query:"status"`
	OrganizationID *uuid.UUID `query:"-"`
	BillingPeriod  string     `query:"billing_period"`
}

// FinancialTotals is the aggregate of a company's invoices.
type FinancialTotals struct {
	TotalInvoiced decimal.Decimal `json:"total_invoiced" db:"total_invoiced"`
	Collected     decimal.Decimal `json:"collected" db:"collected"`
	Outstanding   decimal.Decimal `json:"outstanding" db:"outstanding"`
	Overdue       decimal.Decimal `json:"overdue" db:"overdue"`
	InvoiceCount  int64           `json:"invoice_count" db:"invoice_count"`
	PaidCount     int64           `json:"paid_count" db:"paid_count"`
	UnpaidCount   int64           `json:"unpaid_count" db:"unpaid_count"`
	OverdueCount  int64           `json:"overdue_count" db:"overdue_count"`
}

// MonthlyRevenue is one billing month of invoiced and collected totals.
type MonthlyRevenue struct {
	Month     string          `json:"month" db:"month"`
	Invoiced  decimal.Decimal `json:"invoiced" db:"invoiced"`
	Collected decimal.Decimal `json:"collected" db:"collected"`
}
