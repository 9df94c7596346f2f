package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ASEODA/narashop-estimate/internal/catalog/client"
	"github.com/ASEODA/narashop-estimate/platform/apperr"
	"github.com/ASEODA/narashop-estimate/platform/logger"
)

type fetcherStub struct {
	payload string
	err     error
	calls   []string
}

func (f *fetcherStub) Fetch(_ context.Context, id string) (json.RawMessage, error) {
	f.calls = append(f.calls, id)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.payload), nil
}

func TestResolveNormalizesPayload(t *testing.T) {
	fetcher := &fetcherStub{payload: `{"response":{"body":{"items":{"item":{"prdctIdntNo":"24234567","cntrctPrceAmt":"10000","prdctClsfcNoNm":"모니터"}}}}}`}
	svc := New(fetcher, logger.Nop())

	product, err := svc.Resolve(context.Background(), " 24234567 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.UnitPrice != 10000 || product.DisplayName != "모니터" {
		t.Fatalf("unexpected product %+v", product)
	}
	if len(fetcher.calls) != 1 || fetcher.calls[0] != "24234567" {
		t.Fatalf("expected trimmed id to be fetched, got %v", fetcher.calls)
	}
}

func TestLookupErrors(t *testing.T) {
	svc := New(&fetcherStub{}, logger.Nop())
	if _, err := svc.Lookup(context.Background(), "  "); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	body := json.RawMessage(`{"error":"boom"}`)
	svc = New(&fetcherStub{err: &client.UpstreamError{StatusCode: 500, Body: body}}, logger.Nop())
	_, err := svc.Lookup(context.Background(), "1")
	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) || domainErr.Kind != apperr.KindUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if string(domainErr.Details.(json.RawMessage)) != string(body) {
		t.Fatalf("expected upstream body as details, got %v", domainErr.Details)
	}
}
