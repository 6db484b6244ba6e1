package fund

import (
	"errors"
	"testing"
)

func TestRegistry_IdentityClosure(t *testing.T) {
	r, err := NewRegistry(DefaultProfiles())
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	for _, code := range r.Codes() {
		p, err := r.ResolveCode(code)
		if err != nil {
			t.Errorf("code %s: unexpected error: %v", code, err)
		}
		if p.ID == "" {
			t.Errorf("code %s: empty fund id", code)
		}
		// The id must resolve back to the same profile
		back, err := r.ResolveID(p.ID)
		if err != nil {
			t.Errorf("id %s: unexpected error: %v", p.ID, err)
		}
		if back.Code != code {
			t.Errorf("id %s resolved to code %s, want %s", p.ID, back.Code, code)
		}
	}
}

func TestRegistry_UnknownFund(t *testing.T) {
	r, err := NewRegistry(DefaultProfiles())
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	if _, err := r.ResolveCode("99"); !errors.Is(err, ErrUnknownFund) {
		t.Errorf("expected ErrUnknownFund for code 99, got %v", err)
	}
	if _, err := r.ResolveID("not-a-known-uuid"); !errors.Is(err, ErrUnknownFund) {
		t.Errorf("expected ErrUnknownFund for unknown id, got %v", err)
	}
}

func TestRegistry_Defaults(t *testing.T) {
	r, err := NewRegistry([]Profile{{Code: "7", ID: "6073f1cf-40df-4999-9df3-0072a673d8aa"}})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	p, err := r.ResolveCode("7")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.RentabilityField != DefaultRentabilityField {
		t.Errorf("rentability field = %q, want %q", p.RentabilityField, DefaultRentabilityField)
	}
	if p.WindowLabel != WindowLastYear {
		t.Errorf("window label = %q, want %q", p.WindowLabel, WindowLastYear)
	}
}

func TestRegistry_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		profiles []Profile
	}{
		{"empty", nil},
		{"missing id", []Profile{{Code: "1"}}},
		{"duplicate code", []Profile{
			{Code: "1", ID: "6073f1cf-40df-4999-9df3-0072a673d8d9"},
			{Code: "1", ID: "6073f1cf-40df-4999-9df3-0072a673d8d8"},
		}},
		{"duplicate id", []Profile{
			{Code: "1", ID: "6073f1cf-40df-4999-9df3-0072a673d8d9"},
			{Code: "2", ID: "6073f1cf-40df-4999-9df3-0072a673d8d9"},
		}},
	}
	for _, tt := range tests {
		if _, err := NewRegistry(tt.profiles); err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
		}
	}
}

func TestRegistry_ReportProfiles(t *testing.T) {
	r, err := NewRegistry(DefaultProfiles())
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	report := r.ReportProfiles()
	if len(report) != 5 {
		t.Fatalf("expected 5 report funds, got %d", len(report))
	}
	for _, p := range report {
		if p.Code == "50" {
			t.Error("fund 50 must not appear in the report set")
		}
	}
}
