package extractor

import (
	"errors"
	"testing"
)

func TestParseRecords_BareArray(t *testing.T) {
	out := `[{"idFund":"6073f1cf-40df-4999-9df3-0072a673d8d9","date":"2025-06-18","price":1234.54}]`

	records, err := ParseRecords(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.FundID != "6073f1cf-40df-4999-9df3-0072a673d8d9" || rec.Date != "2025-06-18" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Price == nil || *rec.Price != 1234.54 {
		t.Errorf("price = %v, want 1234.54", rec.Price)
	}
}

func TestParseRecords_ArrayInProse(t *testing.T) {
	out := "Here are the extracted values:\n```json\n" +
		`[{"idFund":"a","date":"2025-06-18","price":10},{"idFund":"b","date":"2025-06-18","price":20}]` +
		"\n```\nLet me know if you need anything else."

	records, err := ParseRecords(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
}

func TestParseRecords_NullPrice(t *testing.T) {
	records, err := ParseRecords(`[{"idFund":"a","date":"2025-06-18","price":null}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].Price != nil {
		t.Errorf("null price must decode to nil, got %v", records[0].Price)
	}
}

func TestParseRecords_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t"},
		{"prose only", "I could not find any fund data in this document."},
		{"json object", `{"error":"no data"}`},
		{"truncated array", `[{"idFund":"a","date":"2025-06-18"`},
		{"wrong element type", `[1,2,3]`},
	}
	for _, tt := range tests {
		if _, err := ParseRecords(tt.in); !errors.Is(err, ErrMalformedOutput) {
			t.Errorf("%s: expected ErrMalformedOutput, got %v", tt.name, err)
		}
	}
}

func TestParseRecords_EmptyArray(t *testing.T) {
	records, err := ParseRecords("[]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}
