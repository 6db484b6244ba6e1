package collector

import (
	"context"

	"FondoSync/internal/model"
)

// Payload is one fund's raw API response body. Profitability fields are
// selected by name per fund, so the shape stays dynamic.
type Payload map[string]any

// Fetcher retrieves one fund's data from the REST source.
type Fetcher interface {
	// Authenticate obtains source credentials. A failure here is fatal
	// for the whole run.
	Authenticate(ctx context.Context) error
	// FetchFund returns the raw payload for one fund code and valuation
	// date, or an error treated as a per-fund failure.
	FetchFund(ctx context.Context, code, date string) (Payload, error)
	Name() string
}

// Attachment is one PDF report pulled from the mailbox, held in memory.
type Attachment struct {
	Filename string
	Data     []byte
}

// AttachmentSource retrieves the day's PDF report attachments.
type AttachmentSource interface {
	FetchDailyAttachments(ctx context.Context) ([]Attachment, error)
	Name() string
}

// Extractor turns one PDF attachment into candidate fund records.
type Extractor interface {
	Extract(ctx context.Context, att Attachment) ([]model.ExtractedRecord, error)
}
