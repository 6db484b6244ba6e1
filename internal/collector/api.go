package collector

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const (
	authEndpoint = "/AyV/Autenticacion/GenerateAppToken"
	dataEndpoint = "/AyV/v3/Pocket/GetProfitabilityByFund"
)

// AcciFetcher implements Fetcher against the fund administrator's REST
// API: bearer-token auth plus optional mTLS client certificates.
type AcciFetcher struct {
	BaseURL   string
	Password  string
	CodigoApp string
	Client    *http.Client

	token string
}

// AcciOptions configures the fetcher transport.
type AcciOptions struct {
	BaseURL    string
	Password   string
	CodigoApp  string
	ClientCert string // PEM content, optional
	ClientKey  string // PEM content, optional
	Proxy      string
}

// NewAcciFetcher creates the fetcher. Missing mTLS material is a
// warning, not an error: the API accepts plain TLS in some
// environments.
func NewAcciFetcher(opts AcciOptions) (*AcciFetcher, error) {
	transport := &http.Transport{}
	if opts.Proxy != "" {
		if u, err := url.Parse(opts.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}

	if opts.ClientCert != "" && opts.ClientKey != "" {
		cert, err := tls.X509KeyPair([]byte(opts.ClientCert), []byte(opts.ClientKey))
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		transport.TLSClientConfig = &tls.Config{Certificates: []tls.Certificate{cert}}
		log.Println("[INFO] mTLS client certificate loaded")
	} else {
		log.Println("[WARN] mTLS client certificate not configured, continuing without client TLS")
	}

	return &AcciFetcher{
		BaseURL:   opts.BaseURL,
		Password:  opts.Password,
		CodigoApp: opts.CodigoApp,
		Client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: transport,
		},
	}, nil
}

func (f *AcciFetcher) Name() string { return "acci-api" }

// Authenticate obtains a bearer token. Missing credentials or a failed
// token exchange abort the whole run.
func (f *AcciFetcher) Authenticate(ctx context.Context) error {
	if f.Password == "" || f.CodigoApp == "" {
		return fmt.Errorf("api credentials not configured")
	}

	payload, err := json.Marshal(map[string]string{
		"password":   f.Password,
		"codigo_App": f.CodigoApp,
	})
	if err != nil {
		return fmt.Errorf("marshal auth payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.BaseURL+authEndpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request app token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request app token: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode auth response: %w", err)
	}
	if result.Token == "" {
		return fmt.Errorf("auth response has no token")
	}

	f.token = result.Token
	log.Println("[INFO] bearer token obtained")
	return nil
}

// apiEnvelope is the wrapper every data response arrives in.
type apiEnvelope struct {
	Succeeded bool    `json:"succeeded"`
	Message   string  `json:"message"`
	Data      Payload `json:"data"`
}

func (f *AcciFetcher) FetchFund(ctx context.Context, code, date string) (Payload, error) {
	if f.token == "" {
		return nil, fmt.Errorf("not authenticated")
	}

	endpoint := fmt.Sprintf("%s%s?Fondo=%s&Fecha=%s", f.BaseURL, dataEndpoint, url.QueryEscape(code), url.QueryEscape(date))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+f.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch fund %s: %w", code, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch fund %s: status %d, body: %s", code, resp.StatusCode, string(body))
	}

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode fund %s response: %w", code, err)
	}
	if !envelope.Succeeded {
		return nil, fmt.Errorf("api rejected fund %s: %s", code, envelope.Message)
	}
	return envelope.Data, nil
}
