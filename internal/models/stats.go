package models

import "github.com/shopspring/decimal"

// Granularity selects the bucket size of a stats rollup.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// ParseGranularity validates a granularity label. Empty defaults to day.
func ParseGranularity(s string) (Granularity, bool) {
	switch Granularity(s) {
	case "":
		return GranularityDay, true
	case GranularityDay, GranularityMonth, GranularityYear:
		return Granularity(s), true
	}
	return "", false
}

// StatsPoint is one bucket of a collection time series. Labels are
// YYYY-MM-DD, YYYY-MM or YYYY depending on granularity.
type StatsPoint struct {
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

// CollectionStats bundles a bucketed series with point aggregates.
// Empty buckets are omitted from the series; point totals are zero,
// never null, when nothing was collected.
type CollectionStats struct {
	Granularity      Granularity      `json:"granularity"`
	Series           []StatsPoint     `json:"series"`
	AllTimeTotal     decimal.Decimal  `json:"all_time_total"`
	MonthTotal       decimal.Decimal  `json:"month_total"`
	DayTotal         decimal.Decimal  `json:"day_total"`
	HandlingFeeTotal *decimal.Decimal `json:"handling_fee_total,omitempty"` // collector view only
}
