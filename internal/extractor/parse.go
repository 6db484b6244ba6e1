package extractor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"FondoSync/internal/model"
)

// ErrMalformedOutput is returned when the model's output cannot be
// parsed as the expected JSON array. The document contributes zero
// records; the batch continues.
var ErrMalformedOutput = errors.New("malformed extraction output")

// ParseRecords parses the model's free-form output into extracted
// records. The output is untrusted: the array is located by bracket
// scan to tolerate surrounding prose, then decoded strictly. Valid JSON
// that is not an array (e.g. an error object) also yields
// ErrMalformedOutput.
func ParseRecords(text string) ([]model.ExtractedRecord, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty output: %w", ErrMalformedOutput)
	}

	start := strings.IndexByte(text, '[')
	end := strings.LastIndexByte(text, ']')
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array found: %w", ErrMalformedOutput)
	}

	var records []model.ExtractedRecord
	if err := json.Unmarshal([]byte(text[start:end+1]), &records); err != nil {
		return nil, fmt.Errorf("decode array: %v: %w", err, ErrMalformedOutput)
	}
	return records, nil
}
