package models

// FeeLine is one tuition or activity fee obligation with its payment state.
type FeeLine struct {
	Name          string  `db:"name" json:"name"`
	Fee           float64 `db:"fee" json:"fee"`
	PaidAmount    float64 `db:"paid_amount" json:"paid_amount"`
	PendingAmount float64 `db:"-" json:"pending_amount"`
	Status        string  `db:"status" json:"status"`
}

// FeeSummary totals a set of fee lines.
type FeeSummary struct {
	TotalFees    float64 `json:"total_fees"`
	TotalPaid    float64 `json:"total_paid"`
	TotalPending float64 `json:"total_pending"`
}

// FinancialStatus is the full read-side view of a student's balances.
type FinancialStatus struct {
	Majors            []FeeLine  `json:"majors"`
	MajorsSummary     FeeSummary `json:"majors_summary"`
	Activities        []FeeLine  `json:"activities"`
	ActivitiesSummary FeeSummary `json:"activities_summary"`
	OverallSummary    FeeSummary `json:"overall_summary"`
}
