package collector

import (
	"context"

	"FondoSync/internal/model"
)

// MockFetcher returns controllable fixed payloads for development and
// testing.
type MockFetcher struct {
	Payloads map[string]Payload // keyed by fund code
	Errs     map[string]error   // per-code fetch errors
	AuthErr  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Authenticate(_ context.Context) error { return m.AuthErr }

func (m *MockFetcher) FetchFund(_ context.Context, code, _ string) (Payload, error) {
	if err := m.Errs[code]; err != nil {
		return nil, err
	}
	return m.Payloads[code], nil
}

// MockAttachmentSource serves in-memory attachments.
type MockAttachmentSource struct {
	Items []Attachment
	Err   error
}

func (m *MockAttachmentSource) Name() string { return "mock-mail" }

func (m *MockAttachmentSource) FetchDailyAttachments(_ context.Context) ([]Attachment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Items, nil
}

// MockExtractor returns fixed extraction results per filename.
type MockExtractor struct {
	Records map[string][]model.ExtractedRecord
	Errs    map[string]error
}

func (m *MockExtractor) Extract(_ context.Context, att Attachment) ([]model.ExtractedRecord, error) {
	if err := m.Errs[att.Filename]; err != nil {
		return nil, err
	}
	return m.Records[att.Filename], nil
}
