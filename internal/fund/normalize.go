package fund

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"FondoSync/internal/model"
)

// ErrIncompleteRecord is returned when a source record is missing its
// valuation date or unit price. This is expected upstream data quality,
// not a system fault: callers drop the record and continue.
var ErrIncompleteRecord = errors.New("incomplete record")

// Normalize maps one raw source record onto the canonical FundRecord,
// applying the fund's profitability labeling rules. Deterministic; the
// only side effect is logging.
func Normalize(raw model.RawRecord, p Profile) (model.FundRecord, error) {
	if raw.Date == "" {
		return model.FundRecord{}, fmt.Errorf("fund %s: missing date: %w", p.Code, ErrIncompleteRecord)
	}
	if raw.Price == nil {
		return model.FundRecord{}, fmt.Errorf("fund %s: missing price: %w", p.Code, ErrIncompleteRecord)
	}

	rec := model.FundRecord{
		FundID: p.ID,
		Date:   truncateDate(raw.Date),
		Price:  *raw.Price,
	}

	switch {
	case p.NewFund:
		// No profitability history regardless of what the source sent.
		label := NewFundLabel
		rec.FormattedIncome = &label
	case raw.Income == nil:
		// Valid but loggable: the source omitted the profitability field.
		log.Printf("[WARN] fund %s: profitability field %q absent from source", p.Code, p.RentabilityField)
	default:
		v := *raw.Income
		formatted := formatIncome(v, p.WindowLabel)
		rec.TargetIncome = &v
		rec.FormattedIncome = &formatted
	}

	return rec, nil
}

// truncateDate drops any time component from a valuation date, keeping
// the YYYY-MM-DD portion only.
func truncateDate(date string) string {
	if i := strings.IndexByte(date, 'T'); i >= 0 {
		return date[:i]
	}
	return date
}

// formatIncome renders "12.34% E.A. Últimos 6 meses" style labels. The
// shortest round-trip float representation keeps source values intact.
func formatIncome(value float64, windowLabel string) string {
	return strconv.FormatFloat(value, 'f', -1, 64) + "% " + windowLabel
}
