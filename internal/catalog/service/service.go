// Package service exposes catalog lookups to HTTP handlers and to the
// quotation resolver.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/ASEODA/narashop-estimate/internal/catalog/client"
	"github.com/ASEODA/narashop-estimate/internal/catalog/normalizer"
	"github.com/ASEODA/narashop-estimate/platform/apperr"
	"github.com/ASEODA/narashop-estimate/platform/logger"
)

const msgLookupFailed = "API 호출 실패"

// Fetcher returns the raw catalog payload for one identifier.
type Fetcher interface {
	Fetch(ctx context.Context, catalogID string) (json.RawMessage, error)
}

type Service struct {
	fetcher Fetcher
	log     *logger.Logger
}

func New(fetcher Fetcher, log *logger.Logger) *Service {
	return &Service{fetcher: fetcher, log: log}
}

// Lookup returns the upstream payload unchanged. Failures are typed as
// upstream errors carrying the upstream body as details when one exists.
func (s *Service) Lookup(ctx context.Context, catalogID string) (json.RawMessage, error) {
	catalogID = strings.TrimSpace(catalogID)
	if catalogID == "" {
		return nil, apperr.Validation("제품번호를 입력해주세요.")
	}

	raw, err := s.fetcher.Fetch(ctx, catalogID)
	if err != nil {
		s.log.WithContext(ctx).UpstreamError("catalog", "lookup", err, "catalog_id", catalogID)
		upstream := apperr.Upstream(msgLookupFailed, err).WithOp("catalog.Lookup")
		var apiErr *client.UpstreamError
		if errors.As(err, &apiErr) {
			upstream = upstream.WithDetails(apiErr.Body)
		}
		return nil, upstream
	}
	return raw, nil
}

// Resolve looks up catalogID and normalizes the payload into a product.
func (s *Service) Resolve(ctx context.Context, catalogID string) (normalizer.Product, error) {
	raw, err := s.Lookup(ctx, catalogID)
	if err != nil {
		return normalizer.Product{}, err
	}
	payload := normalizer.Decode(raw)
	s.log.WithContext(ctx).Debug("catalog payload normalized",
		"catalog_id", catalogID, "shape", normalizer.ShapeOf(payload))
	return normalizer.Normalize(payload, strings.TrimSpace(catalogID)), nil
}
