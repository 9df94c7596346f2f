package service

import (
	"context"
	"iter"
	"slices"

	"github.com/ASEODA/narashop-estimate/internal/catalog/normalizer"
	"github.com/ASEODA/narashop-estimate/internal/quotes/document"
	"github.com/ASEODA/narashop-estimate/platform/logger"
)

// CatalogResolver resolves one identifier to a normalized product.
type CatalogResolver interface {
	Resolve(ctx context.Context, catalogID string) (normalizer.Product, error)
}

// ImageFetcher downloads and resizes a product image.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ItemRequest is one (identifier, quantity) pair in request order.
type ItemRequest struct {
	CatalogID string
	Quantity  int64
}

// Resolver turns item requests into line items one at a time. Lookups are
// never issued concurrently so a quotation cannot burst the upstream quota.
type Resolver struct {
	catalog CatalogResolver
	images  ImageFetcher // optional
	log     *logger.Logger
}

// NewResolver creates a resolver. images may be nil to skip product images.
func NewResolver(catalog CatalogResolver, images ImageFetcher, log *logger.Logger) *Resolver {
	return &Resolver{catalog: catalog, images: images, log: log}
}

// Items yields one line item per request, in order, numbering from 1.
// A failed lookup yields a placeholder row; a failed image is dropped.
func (r *Resolver) Items(ctx context.Context, reqs []ItemRequest) iter.Seq[document.LineItem] {
	return func(yield func(document.LineItem) bool) {
		for i, req := range reqs {
			if !yield(r.resolve(ctx, i+1, req)) {
				return
			}
		}
	}
}

// ResolveAll collects Items into a slice.
func (r *Resolver) ResolveAll(ctx context.Context, reqs []ItemRequest) []document.LineItem {
	return slices.Collect(r.Items(ctx, reqs))
}

func (r *Resolver) resolve(ctx context.Context, seq int, req ItemRequest) document.LineItem {
	log := r.log.WithContext(ctx)

	product, err := r.catalog.Resolve(ctx, req.CatalogID)
	if err != nil {
		log.Warn("catalog lookup failed, using placeholder", "catalog_id", req.CatalogID, "seq", seq, "error", err)
		return document.LineItem{
			Seq:       seq,
			Name:      document.FailedName,
			Spec:      document.FailedSpec,
			CatalogID: req.CatalogID,
			Quantity:  req.Quantity,
			Remark:    document.FailedRemark,
		}
	}

	item := document.LineItem{
		Seq:       seq,
		Name:      product.DisplayName,
		Supplier:  product.Supplier,
		Spec:      product.Spec,
		CatalogID: product.CatalogID,
		Quantity:  req.Quantity,
		UnitPrice: product.UnitPrice,
	}

	if product.ImageURL != "" && r.images != nil {
		img, err := r.images.Fetch(ctx, product.ImageURL)
		if err != nil {
			log.Warn("product image skipped", "catalog_id", req.CatalogID, "url", product.ImageURL, "error", err)
		} else {
			item.Image = img
		}
	}
	return item
}
