// Package mail retrieves the daily fund report PDFs from a Gmail
// mailbox via the Gmail REST API.
package mail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"FondoSync/internal/collector"
)

const (
	gmailBaseURL  = "https://gmail.googleapis.com/gmail/v1/users/me"
	tokenEndpoint = "https://oauth2.googleapis.com/token"
)

// GmailSource implements collector.AttachmentSource over the Gmail
// REST API using a stored OAuth2 refresh token.
type GmailSource struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	Sender       string
	Subject      string
	Client       *http.Client

	accessToken string
	Now         func() time.Time // nil means time.Now
}

// Options configures the Gmail source.
type Options struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	Sender       string
	Subject      string
	Proxy        string
}

// NewGmailSource creates the source.
func NewGmailSource(opts Options) *GmailSource {
	transport := &http.Transport{}
	if opts.Proxy != "" {
		if u, err := url.Parse(opts.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &GmailSource{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		RefreshToken: opts.RefreshToken,
		Sender:       opts.Sender,
		Subject:      opts.Subject,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (g *GmailSource) Name() string { return "gmail" }

// FetchDailyAttachments finds today's report email from the configured
// sender and returns its PDF attachments. Only the most recent matching
// message is processed. Missing credentials are fatal for the run.
func (g *GmailSource) FetchDailyAttachments(ctx context.Context) ([]collector.Attachment, error) {
	if err := g.refreshAccessToken(ctx); err != nil {
		return nil, fmt.Errorf("gmail auth: %w", err)
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	query := fmt.Sprintf("from:%s after:%s has:attachment filename:pdf subject:%q",
		g.Sender, now().Format("2006/01/02"), g.Subject)

	ids, err := g.listMessages(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		log.Println("[INFO] no matching report emails today")
		return nil, nil
	}
	if len(ids) > 1 {
		log.Printf("[INFO] %d matching emails found, processing only the most recent", len(ids))
	}

	return g.messageAttachments(ctx, ids[0])
}

func (g *GmailSource) refreshAccessToken(ctx context.Context) error {
	if g.ClientID == "" || g.ClientSecret == "" || g.RefreshToken == "" {
		return fmt.Errorf("gmail credentials not configured")
	}

	form := url.Values{
		"client_id":     {g.ClientID},
		"client_secret": {g.ClientSecret},
		"refresh_token": {g.RefreshToken},
		"grant_type":    {"refresh_token"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("refresh token: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	if result.AccessToken == "" {
		return fmt.Errorf("token response has no access_token")
	}
	g.accessToken = result.AccessToken
	return nil
}

func (g *GmailSource) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.accessToken)

	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("gmail request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gmail: status %d, body: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (g *GmailSource) listMessages(ctx context.Context, query string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/messages?q=%s", gmailBaseURL, url.QueryEscape(query))

	var result struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	if err := g.get(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	ids := make([]string, 0, len(result.Messages))
	for _, m := range result.Messages {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// messagePart mirrors the subset of the Gmail payload tree we walk.
type messagePart struct {
	Filename string `json:"filename"`
	Body     struct {
		AttachmentID string `json:"attachmentId"`
		Data         string `json:"data"`
	} `json:"body"`
	Parts []messagePart `json:"parts"`
}

func (g *GmailSource) messageAttachments(ctx context.Context, messageID string) ([]collector.Attachment, error) {
	var msg struct {
		Payload messagePart `json:"payload"`
	}
	if err := g.get(ctx, fmt.Sprintf("%s/messages/%s", gmailBaseURL, messageID), &msg); err != nil {
		return nil, fmt.Errorf("get message %s: %w", messageID, err)
	}

	var attachments []collector.Attachment
	var walk func(p messagePart) error
	walk = func(p messagePart) error {
		if strings.HasSuffix(strings.ToLower(p.Filename), ".pdf") {
			data, err := g.attachmentData(ctx, messageID, p)
			if err != nil {
				return err
			}
			log.Printf("[INFO] fetched pdf attachment %s (%d bytes)", p.Filename, len(data))
			attachments = append(attachments, collector.Attachment{Filename: p.Filename, Data: data})
		}
		for _, child := range p.Parts {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(msg.Payload); err != nil {
		return nil, err
	}
	return attachments, nil
}

func (g *GmailSource) attachmentData(ctx context.Context, messageID string, p messagePart) ([]byte, error) {
	encoded := p.Body.Data
	if encoded == "" {
		var att struct {
			Data string `json:"data"`
		}
		endpoint := fmt.Sprintf("%s/messages/%s/attachments/%s", gmailBaseURL, messageID, p.Body.AttachmentID)
		if err := g.get(ctx, endpoint, &att); err != nil {
			return nil, fmt.Errorf("get attachment %s: %w", p.Filename, err)
		}
		encoded = att.Data
	}
	return decodeBase64URL(encoded)
}

// decodeBase64URL handles the web-safe base64 Gmail uses, padded or not.
func decodeBase64URL(s string) ([]byte, error) {
	if data, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	data, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode attachment body: %w", err)
	}
	return data, nil
}
