// Package service orchestrates quotation generation: item resolution,
// composition, serialization and the generated-estimate event.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ASEODA/narashop-estimate/internal/events"
	"github.com/ASEODA/narashop-estimate/internal/quotes/document"
	"github.com/ASEODA/narashop-estimate/internal/quotes/transport"
	"github.com/ASEODA/narashop-estimate/platform/apperr"
	"github.com/ASEODA/narashop-estimate/platform/config"
	"github.com/ASEODA/narashop-estimate/platform/logger"
	"github.com/ASEODA/narashop-estimate/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgNoProducts       = "제품 정보를 입력해주세요."
	msgGenerationFailed = "견적서 생성 실패"
	msgAmountTooLarge   = "견적 금액이 처리 가능한 범위를 초과했습니다."

	defaultCustomerName = "고객사"
	defaultProjectName  = "견적 건"
)

// Estimate is a generated quotation document.
type Estimate struct {
	ID           uuid.UUID
	Filename     string
	Content      []byte
	CustomerName string
	ProjectName  string
	Totals       document.Totals
	ItemCount    int
}

// Service provides quotation generation.
type Service struct {
	resolver *Resolver
	issuer   config.CompanyProfile
	seal     []byte
	location *time.Location
	now      func() time.Time
	eventBus events.Bus // optional
	log      *logger.Logger
}

// New creates a quotation service issuing documents as issuer.
func New(resolver *Resolver, issuer config.CompanyProfile, log *logger.Logger) *Service {
	return &Service{
		resolver: resolver,
		issuer:   issuer,
		location: time.UTC,
		now:      time.Now,
		log:      log,
	}
}

// SetEventBus injects the bus that receives EstimateGenerated.
func (s *Service) SetEventBus(bus events.Bus) {
	s.eventBus = bus
}

// SetSeal injects the company seal image printed next to the company name.
func (s *Service) SetSeal(png []byte) {
	s.seal = png
}

// SetLocation sets the time zone used for the issue date and file name.
func (s *Service) SetLocation(loc *time.Location) {
	if loc != nil {
		s.location = loc
	}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Generate resolves every requested item in order, composes the quotation
// and serializes it. Per-item failures never abort the document.
func (s *Service) Generate(ctx context.Context, username string, req transport.GenerateEstimateRequest) (*Estimate, error) {
	if len(req.Products) == 0 {
		return nil, apperr.Validation(msgNoProducts)
	}

	issuedAt := s.now().In(s.location)
	qc := s.quoteContext(ctx, req.CustomerInfo, issuedAt)

	reqs := make([]ItemRequest, 0, len(req.Products))
	for _, p := range req.Products {
		reqs = append(reqs, ItemRequest{CatalogID: p.ID(), Quantity: int64(p.Quantity)})
	}
	items := s.resolver.ResolveAll(ctx, reqs)
	if err := document.CheckAmounts(items); err != nil {
		return nil, apperr.Validation(msgAmountTooLarge).WithOp("quotes.Generate")
	}

	content, err := document.Render(document.Compose(items, qc))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, msgGenerationFailed, err).WithOp("quotes.Generate")
	}

	estimate := &Estimate{
		ID:           uuid.New(),
		Filename:     Filename(qc.CustomerName, qc.ProjectName, issuedAt),
		Content:      content,
		CustomerName: qc.CustomerName,
		ProjectName:  qc.ProjectName,
		Totals:       document.CalculateTotals(items),
		ItemCount:    len(items),
	}

	s.log.WithContext(ctx).Info("estimate generated",
		"estimate_id", estimate.ID,
		"items", estimate.ItemCount,
		"total", estimate.Totals.Total,
		"bytes", len(content))

	s.publish(ctx, username, req, estimate)
	return estimate, nil
}

// Filename builds "<customer>_<project>_<YYYYMMDD>.xlsx" from the sanitized
// names.
func Filename(customer, project string, issuedAt time.Time) string {
	return fmt.Sprintf("%s_%s_%s.xlsx",
		sanitize.FilenamePart(customer), sanitize.FilenamePart(project), issuedAt.Format("20060102"))
}

func (s *Service) quoteContext(ctx context.Context, info *transport.CustomerInfo, issuedAt time.Time) document.QuoteContext {
	if info == nil {
		info = &transport.CustomerInfo{}
	}
	if !transport.Flag(info.IncludeFee) {
		s.log.WithContext(ctx).Warn("includeFee=false ignored, procurement fee is always applied")
	}

	return document.QuoteContext{
		CustomerName: orDefault(info.CustomerName, defaultCustomerName),
		ProjectName:  orDefault(info.ProjectName, defaultProjectName),
		Issuer: document.Issuer{
			Name:             orDefault(info.CompanyName, s.issuer.Name),
			Phone:            orDefault(info.CompanyPhone, s.issuer.Phone),
			Address:          orDefault(info.CompanyAddress, s.issuer.Address),
			Representative:   orDefault(info.CompanyRep, s.issuer.Representative),
			Fax:              orDefault(info.CompanyFax, s.issuer.Fax),
			BusinessNumber:   orDefault(info.CompanyBizNo, s.issuer.BusinessNumber),
			BusinessCategory: orDefault(info.CompanyCategory, s.issuer.BusinessCategory),
		},
		IncludeFee:     true,
		IncludeVAT:     transport.Flag(info.IncludeVat),
		IncludeInstall: transport.Flag(info.IncludeInstall),
		IssuedAt:       issuedAt,
		Seal:           s.seal,
	}
}

func (s *Service) publish(ctx context.Context, username string, req transport.GenerateEstimateRequest, e *Estimate) {
	if s.eventBus == nil {
		return
	}
	raw, err := json.Marshal(req)
	if err != nil {
		s.log.WithContext(ctx).BestEffortFailure("estimate.encode_request", err, "estimate_id", e.ID)
		raw = nil
	}
	s.eventBus.Publish(ctx, events.EstimateGenerated{
		BaseEvent:    events.NewBaseEvent(),
		EstimateID:   e.ID,
		Username:     username,
		CustomerName: e.CustomerName,
		ProjectName:  e.ProjectName,
		TotalAmount:  e.Totals.Total,
		ItemCount:    e.ItemCount,
		Filename:     e.Filename,
		Request:      raw,
		Document:     e.Content,
	})
}

// orDefault strips markup from caller-supplied text and falls back when
// nothing is left.
func orDefault(v, fallback string) string {
	if v = sanitize.Text(v); v != "" {
		return v
	}
	return fallback
}
