package fund

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// ErrUnknownFund is returned when an identifier is not in the closed
// fund set. Callers skip the record and continue with the batch.
var ErrUnknownFund = errors.New("unknown fund")

// DefaultRentabilityField is the profitability field read from the API
// response unless a fund's profile overrides it.
const DefaultRentabilityField = "rentabilidad365"

// Window labels appended to the formatted profitability value.
const (
	WindowLastYear     = "E.A. Último año"
	WindowLastSixMonth = "E.A. Últimos 6 meses"
)

// NewFundLabel is the sentinel shown for funds with no profitability
// history yet.
const NewFundLabel = "Fondo nuevo"

// Profile describes one fund of the closed set: its source identifiers,
// canonical UUID, and the business rules for deriving its profitability
// label.
type Profile struct {
	Code             string `yaml:"code"`              // numeric code used by the REST API
	ID               string `yaml:"id"`                // canonical UUID
	Name             string `yaml:"name"`              // display name as printed in the PDF report; empty if absent from the report
	RentabilityField string `yaml:"rentability_field"` // API field holding the profitability percentage
	WindowLabel      string `yaml:"window_label"`      // human label for the profitability window
	NewFund          bool   `yaml:"new_fund"`          // no profitability history yet
}

// DefaultProfiles returns the production fund set. Fund 43 reports a
// 6-month window; fund 50 is newly launched and does not appear in the
// PDF report.
func DefaultProfiles() []Profile {
	return []Profile{
		{Code: "43", ID: "6073f1cf-40df-4999-9df3-0072a673d8d5", Name: "FONDO DE INVERSION COLECTIVA ACCIONES USA VOO", RentabilityField: "rentabilidad180", WindowLabel: WindowLastSixMonth},
		{Code: "1", ID: "6073f1cf-40df-4999-9df3-0072a673d8d9", Name: "FONDO DE INVERSION COLECTIVA ACCIVAL VISTA"},
		{Code: "38", ID: "6073f1cf-40df-4999-9df3-0072a673d8d8", Name: "FIC ACCICUENTA CONSERVADOR"},
		{Code: "39", ID: "6073f1cf-40df-4999-9df3-0072a673d8d7", Name: "FIC ACCICUENTA MODERADO"},
		{Code: "40", ID: "6073f1cf-40df-4999-9df3-0072a673d8d6", Name: "FIC ABIERTO ACCICUENTAMAYOR RIESGO"},
		{Code: "50", ID: "6073f1cf-40df-4999-9df3-0072a673d8d10", NewFund: true},
	}
}

// Registry is an immutable lookup table over the closed fund set. It is
// built once at startup and injected wherever identity resolution is
// needed, so tests can swap in their own table.
type Registry struct {
	codes  []string
	byCode map[string]Profile
	byID   map[string]Profile
}

// NewRegistry builds a Registry from profiles, filling in per-fund
// defaults. Duplicate codes or IDs are rejected.
func NewRegistry(profiles []Profile) (*Registry, error) {
	r := &Registry{
		byCode: make(map[string]Profile, len(profiles)),
		byID:   make(map[string]Profile, len(profiles)),
	}
	for _, p := range profiles {
		if p.Code == "" || p.ID == "" {
			return nil, fmt.Errorf("fund profile needs both code and id, got code=%q id=%q", p.Code, p.ID)
		}
		if p.RentabilityField == "" {
			p.RentabilityField = DefaultRentabilityField
		}
		if p.WindowLabel == "" {
			p.WindowLabel = WindowLastYear
		}
		if _, dup := r.byCode[p.Code]; dup {
			return nil, fmt.Errorf("duplicate fund code %q", p.Code)
		}
		if _, dup := r.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate fund id %q", p.ID)
		}
		// Legacy ids in production data are not all strictly RFC 4122,
		// so a parse failure is reported but not rejected.
		if _, err := uuid.Parse(p.ID); err != nil {
			log.Printf("[WARN] fund %s: id %q is not a canonical UUID", p.Code, p.ID)
		}
		r.byCode[p.Code] = p
		r.byID[p.ID] = p
		r.codes = append(r.codes, p.Code)
	}
	if len(r.codes) == 0 {
		return nil, fmt.Errorf("fund registry is empty")
	}
	return r, nil
}

// Codes returns the fund codes in registration order; the batch
// collector iterates these.
func (r *Registry) Codes() []string {
	out := make([]string, len(r.codes))
	copy(out, r.codes)
	return out
}

// ResolveCode maps a REST API fund code to its profile.
func (r *Registry) ResolveCode(code string) (Profile, error) {
	p, ok := r.byCode[code]
	if !ok {
		return Profile{}, fmt.Errorf("code %q: %w", code, ErrUnknownFund)
	}
	return p, nil
}

// ResolveID validates that a canonical fund UUID belongs to the closed
// set and returns its profile.
func (r *Registry) ResolveID(id string) (Profile, error) {
	p, ok := r.byID[id]
	if !ok {
		return Profile{}, fmt.Errorf("id %q: %w", id, ErrUnknownFund)
	}
	return p, nil
}

// ReportProfiles returns the funds expected in the PDF report, i.e.
// those with a report name. Used to build the extraction prompt.
func (r *Registry) ReportProfiles() []Profile {
	var out []Profile
	for _, code := range r.codes {
		p := r.byCode[code]
		if p.Name != "" {
			out = append(out, p)
		}
	}
	return out
}
