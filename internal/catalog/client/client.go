// Package client calls the public procurement shopping-mall product API
// (multiple-award contract product list).
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ASEODA/narashop-estimate/platform/config"
	"github.com/ASEODA/narashop-estimate/platform/logger"

	"golang.org/x/time/rate"
)

const (
	defaultHTTPTimeout = 15 * time.Second
	maxBodyBytes       = 4 << 20
	pageSize           = 100
	inquiryByProductID = "1"
)

// Result codes the API reports in response.header.resultCode that still carry
// a usable (possibly empty) body.
var acceptedResultCodes = map[string]bool{"": true, "00": true, "0": true, "03": true}

// ErrMissingServiceKey is returned when no API credential is configured.
var ErrMissingServiceKey = errors.New("catalog service key is not configured")

// UpstreamError describes a response the API answered with but that cannot
// be used. Body holds the upstream payload for echoing to callers.
type UpstreamError struct {
	StatusCode int
	Body       any
	Reason     string
}

func (e *UpstreamError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("catalog api status %d: %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("catalog api status %d", e.StatusCode)
}

// Client fetches raw product payloads. Calls are paced by a shared limiter so
// concurrent quotations cannot burst the upstream quota.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	serviceKey   string
	inquiryBegin string
	inquiryEnd   string
	limiter      *rate.Limiter
	log          *logger.Logger
}

// New creates a catalog API client from configuration.
func New(cfg config.CatalogConfig, log *logger.Logger) *Client {
	timeout := cfg.GetCatalogTimeout()
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	limit := rate.Inf
	if r := cfg.GetCatalogRatePerSec(); r > 0 {
		limit = rate.Limit(r)
	}
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      cfg.GetCatalogBaseURL(),
		serviceKey:   cfg.GetCatalogServiceKey(),
		inquiryBegin: cfg.GetCatalogInquiryBegin(),
		inquiryEnd:   cfg.GetCatalogInquiryEnd(),
		limiter:      rate.NewLimiter(limit, 1),
		log:          log,
	}
}

// HasServiceKey reports whether a credential is configured.
func (c *Client) HasServiceKey() bool {
	return c.serviceKey != ""
}

// Fetch returns the raw JSON payload for one product identifier.
func (c *Client) Fetch(ctx context.Context, catalogID string) (json.RawMessage, error) {
	if c.serviceKey == "" {
		return nil, ErrMissingServiceKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL, err := c.buildURL(catalogID)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug("catalog api request", "catalog_id", catalogID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: echoBody(body)}
	}
	if !json.Valid(body) {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: echoBody(body), Reason: "non-json response"}
	}
	if code, msg := resultCode(body); !acceptedResultCodes[code] {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: json.RawMessage(body), Reason: code + " " + msg}
	}

	return json.RawMessage(body), nil
}

// buildURL assembles the query string. The portal issues the service key in
// both an encoded and a decoded form; an encoded key is unescaped once so it
// is not double escaped.
func (c *Client) buildURL(catalogID string) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid catalog base url: %w", err)
	}
	key := c.serviceKey
	if strings.Contains(key, "%") {
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
	}

	params := base.Query()
	params.Set("serviceKey", key)
	params.Set("numOfRows", strconv.Itoa(pageSize))
	params.Set("pageNo", "1")
	params.Set("inqryDiv", inquiryByProductID)
	params.Set("inqryBgnDt", c.inquiryBegin)
	params.Set("inqryEndDt", c.inquiryEnd)
	params.Set("prdctIdntNo", catalogID)
	params.Set("type", "json")
	base.RawQuery = params.Encode()
	return base.String(), nil
}

func resultCode(body []byte) (string, string) {
	var envelope struct {
		Response struct {
			Header struct {
				ResultCode string `json:"resultCode"`
				ResultMsg  string `json:"resultMsg"`
			} `json:"header"`
		} `json:"response"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", ""
	}
	return envelope.Response.Header.ResultCode, envelope.Response.Header.ResultMsg
}

// echoBody keeps JSON payloads structured and truncates anything else.
func echoBody(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	const maxEcho = 512
	if len(body) > maxEcho {
		body = body[:maxEcho]
	}
	return string(body)
}
