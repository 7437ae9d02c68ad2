package models

import "time"

// FilterState is the session's current selection. The zero value selects
// every row.
type FilterState struct {
	Search  string
	Start   *time.Time
	End     *time.Time
	Creator string
}

// CreatorRank is a leaderboard entry.
type CreatorRank struct {
	Name     string `json:"name"`
	AvgViews int64  `json:"avg_views"`
}

// ProductViews is a product's summed view count.
type ProductViews struct {
	Name  string `json:"name"`
	Views int64  `json:"views"`
}

// ProductCount is how many videos featured a product.
type ProductCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// LabelCount is a row count for one content-type label.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MonthPayment is the summed payment for one month label.
type MonthPayment struct {
	Month   string `json:"month"`
	Payment int64  `json:"payment"`
}

// AccountViews is an account's summed view count.
type AccountViews struct {
	Name  string `json:"name"`
	Views int64  `json:"views"`
}

// StatusBreakdown counts videos by pass/fail status.
type StatusBreakdown struct {
	Passed int `json:"passed"`
	Failed int `json:"failed"`
	Other  int `json:"other"`
}

// Report holds the aggregates computed over one filtered row sequence.
type Report struct {
	TotalPayment        int64           `json:"total_payment"`
	TotalCreators       int             `json:"total_creators"`
	Leaderboard         []CreatorRank   `json:"leaderboard"`
	TopProductsByViews  []ProductViews  `json:"top_products_by_views"`
	TopProductsByCount  []ProductCount  `json:"top_products_by_count"`
	ContentDistribution []LabelCount    `json:"content_distribution"`
	PaymentByMonth      []MonthPayment  `json:"payment_by_month"`
	Status              StatusBreakdown `json:"status"`
	ViewsByAccount      []AccountViews  `json:"views_by_account"`
}

// View is everything presentation needs after one pipeline evaluation.
type View struct {
	State      FilterState
	Headers    []string
	Filtered   []*Row
	Creators   []string
	Page       []*Row
	PageNumber int
	TotalPages int
	Report     *Report
}
