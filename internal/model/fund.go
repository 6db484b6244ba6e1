package model

// FundRecord is the canonical, normalized unit of work: one fund's unit
// price for one valuation date, ready for persistence.
type FundRecord struct {
	FundID          string   `json:"idFund"`
	Date            string   `json:"date"` // YYYY-MM-DD
	Price           float64  `json:"price"`
	TargetIncome    *float64 `json:"targetIncome"`
	FormattedIncome *string  `json:"formattedTargetIncome"`
}

// RawRecord is the narrow shape a source must provide before
// normalization: a valuation date, a unit price, and the profitability
// value already selected for the fund's window (nil when the source
// omits it).
type RawRecord struct {
	Date   string
	Price  *float64
	Income *float64
}

// ExtractedRecord is one candidate row produced by AI extraction of a
// PDF report. The fund identifier is the canonical UUID embedded in the
// extraction schema.
type ExtractedRecord struct {
	FundID string   `json:"idFund"`
	Date   string   `json:"date"`
	Price  *float64 `json:"price"`
}
