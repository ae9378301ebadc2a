package models

import "time"

// DashboardSummary is the cached landing view of one company.
type DashboardSummary struct {
	Financial   FinancialTotals    `json:"financial"`
	Revenue     []MonthlyRevenue   `json:"revenue"`
	Occupancy   []*GodownOccupancy `json:"occupancy"`
	Expiring    []*ExpiringItem    `json:"expiring"`
	GeneratedAt time.Time          `json:"generated_at"`
}
