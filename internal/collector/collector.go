package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"FondoSync/internal/fund"
	"FondoSync/internal/model"
)

// APICollector drives per-fund retrieval across the full fund set via
// the REST source, tolerating individual failures.
type APICollector struct {
	Fetcher  Fetcher
	Registry *fund.Registry
	Now      func() time.Time // nil means time.Now
}

// NewAPICollector creates an APICollector.
func NewAPICollector(fetcher Fetcher, registry *fund.Registry) *APICollector {
	return &APICollector{Fetcher: fetcher, Registry: registry}
}

func (c *APICollector) Source() string { return c.Fetcher.Name() }

// CollectDaily fetches yesterday's unit values for every fund in the
// registry. Per-fund fetch or normalization failures are logged and
// skipped; only an authentication failure aborts the run.
func (c *APICollector) CollectDaily(ctx context.Context) (*model.BatchResult, error) {
	if err := c.Fetcher.Authenticate(ctx); err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	// Unit values are published for the previous business day.
	date := now().AddDate(0, 0, -1).Format("2006-01-02")

	result := &model.BatchResult{}
	for _, code := range c.Registry.Codes() {
		result.Attempted++

		profile, err := c.Registry.ResolveCode(code)
		if err != nil {
			log.Printf("[ERROR] resolve fund %s: %v", code, err)
			continue
		}

		payload, err := c.Fetcher.FetchFund(ctx, code, date)
		if err != nil {
			log.Printf("[ERROR] fetch fund %s: %v", code, err)
			continue
		}

		rec, err := fund.Normalize(adaptPayload(payload, profile), profile)
		if err != nil {
			log.Printf("[WARN] normalize fund %s: %v", code, err)
			continue
		}

		result.Records = append(result.Records, rec)
		result.Succeeded++
	}

	log.Printf("[INFO] api collection for %s: %d/%d funds", date, result.Succeeded, result.Attempted)
	return result, nil
}

// adaptPayload projects the dynamic API payload onto the narrow raw
// record the normalizer consumes, selecting the profitability field the
// fund's profile names.
func adaptPayload(p Payload, profile fund.Profile) model.RawRecord {
	return model.RawRecord{
		Date:   getString(p, "fecha"),
		Price:  getFloat(p, "vlr_Unidad"),
		Income: getFloat(p, profile.RentabilityField),
	}
}

func getString(p Payload, key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

func getFloat(p Payload, key string) *float64 {
	switch n := p[key].(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	default:
		return nil
	}
}

// MailCollector drives AI extraction over the day's emailed PDF
// reports. Each attachment yields zero or more candidate records.
type MailCollector struct {
	Attachments AttachmentSource
	Extractor   Extractor
	Registry    *fund.Registry
}

// NewMailCollector creates a MailCollector.
func NewMailCollector(source AttachmentSource, extractor Extractor, registry *fund.Registry) *MailCollector {
	return &MailCollector{Attachments: source, Extractor: extractor, Registry: registry}
}

func (c *MailCollector) Source() string { return c.Attachments.Name() }

// CollectDaily retrieves today's report attachments and extracts fund
// records from each. An unparseable extraction counts as zero records
// for that document; unknown or incomplete records are skipped.
func (c *MailCollector) CollectDaily(ctx context.Context) (*model.BatchResult, error) {
	attachments, err := c.Attachments.FetchDailyAttachments(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch attachments: %w", err)
	}
	if len(attachments) == 0 {
		log.Println("[INFO] no report attachments found today")
		return &model.BatchResult{}, nil
	}

	result := &model.BatchResult{}
	for _, att := range attachments {
		extracted, err := c.Extractor.Extract(ctx, att)
		if err != nil {
			log.Printf("[WARN] extraction failed for %s: %v", att.Filename, err)
			continue
		}

		for _, ex := range extracted {
			result.Attempted++

			profile, err := c.Registry.ResolveID(ex.FundID)
			if err != nil {
				log.Printf("[WARN] extracted record from %s: %v", att.Filename, err)
				continue
			}

			rec, err := fund.Normalize(model.RawRecord{Date: ex.Date, Price: ex.Price}, profile)
			if err != nil {
				log.Printf("[WARN] normalize extracted fund %s: %v", profile.Code, err)
				continue
			}

			result.Records = append(result.Records, rec)
			result.Succeeded++
		}
	}

	log.Printf("[INFO] mail collection: %d/%d extracted records", result.Succeeded, result.Attempted)
	return result, nil
}
