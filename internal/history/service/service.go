// Package service exposes quotation history to handlers and records new
// quotations from domain events.
package service

import (
	"context"

	"github.com/ASEODA/narashop-estimate/internal/adapters/storage"
	"github.com/ASEODA/narashop-estimate/internal/history/repository"
	"github.com/ASEODA/narashop-estimate/platform/apperr"

	"github.com/google/uuid"
)

const (
	msgHistoryUnavailable = "견적 이력을 불러오지 못했습니다."
	msgDocumentNotStored  = "보관된 견적서가 없습니다."
)

// URLSigner creates short-lived download links for archived documents.
type URLSigner interface {
	GenerateDownloadURL(ctx context.Context, bucket, fileKey, downloadName string) (*storage.PresignedURL, error)
}

type Service struct {
	store  repository.Store
	limit  int
	signer URLSigner // optional
	bucket string
}

func New(store repository.Store, limit int) *Service {
	return &Service{store: store, limit: limit}
}

// SetSigner enables document downloads from bucket.
func (s *Service) SetSigner(signer URLSigner, bucket string) {
	s.signer = signer
	s.bucket = bucket
}

// Recent lists the newest entries.
func (s *Service) Recent(ctx context.Context) ([]repository.Entry, error) {
	entries, err := s.store.Recent(ctx, s.limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, msgHistoryUnavailable, err).WithOp("history.Recent")
	}
	return entries, nil
}

// DocumentURL returns a download link for an archived quotation.
func (s *Service) DocumentURL(ctx context.Context, id uuid.UUID) (*storage.PresignedURL, error) {
	entry, err := s.store.Find(ctx, id)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindUnknown {
			return nil, apperr.Wrap(apperr.KindInternal, msgHistoryUnavailable, err).WithOp("history.DocumentURL")
		}
		return nil, err
	}
	if entry.DocumentKey == "" || s.signer == nil {
		return nil, apperr.NotFound(msgDocumentNotStored)
	}
	return s.signer.GenerateDownloadURL(ctx, s.bucket, entry.DocumentKey, entry.Filename)
}
