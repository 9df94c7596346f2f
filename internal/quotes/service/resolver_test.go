package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ASEODA/narashop-estimate/internal/catalog/normalizer"
	"github.com/ASEODA/narashop-estimate/internal/quotes/document"
	"github.com/ASEODA/narashop-estimate/platform/logger"
)

type catalogStub struct {
	products map[string]normalizer.Product
	calls    []string
}

func (s *catalogStub) Resolve(_ context.Context, id string) (normalizer.Product, error) {
	s.calls = append(s.calls, id)
	p, ok := s.products[id]
	if !ok {
		return normalizer.Product{}, errors.New("lookup failed")
	}
	return p, nil
}

type imageStub struct {
	images map[string][]byte
}

func (s imageStub) Fetch(_ context.Context, url string) ([]byte, error) {
	if img, ok := s.images[url]; ok {
		return img, nil
	}
	return nil, errors.New("image unavailable")
}

func TestResolverContainsLookupFailure(t *testing.T) {
	catalog := &catalogStub{products: map[string]normalizer.Product{
		"A": {CatalogID: "A", DisplayName: "모니터", Spec: "27", UnitPrice: 100},
		"C": {CatalogID: "C", DisplayName: "키보드", Spec: "104", UnitPrice: 30},
	}}
	r := NewResolver(catalog, nil, logger.Nop())

	items := r.ResolveAll(context.Background(), []ItemRequest{
		{CatalogID: "A", Quantity: 1},
		{CatalogID: "B", Quantity: 2},
		{CatalogID: "C", Quantity: 3},
	})

	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, item := range items {
		if item.Seq != i+1 {
			t.Fatalf("item %d: expected seq %d, got %d", i, i+1, item.Seq)
		}
	}
	failed := items[1]
	if failed.Remark != document.FailedRemark || failed.UnitPrice != 0 || failed.Name != document.FailedName || failed.Spec != document.FailedSpec {
		t.Fatalf("unexpected placeholder %+v", failed)
	}
	if failed.CatalogID != "B" || failed.Quantity != 2 {
		t.Fatalf("placeholder must keep the request, got %+v", failed)
	}
	if items[2].UnitPrice != 30 || items[2].Remark != "" {
		t.Fatalf("unexpected third item %+v", items[2])
	}
	if got := len(catalog.calls); got != 3 || catalog.calls[0] != "A" || catalog.calls[2] != "C" {
		t.Fatalf("expected ordered lookups, got %v", catalog.calls)
	}
}

func TestResolverImageFailureKeepsItem(t *testing.T) {
	catalog := &catalogStub{products: map[string]normalizer.Product{
		"A": {CatalogID: "A", DisplayName: "A", UnitPrice: 5, ImageURL: "http://img/a"},
		"B": {CatalogID: "B", DisplayName: "B", UnitPrice: 7, ImageURL: "http://img/missing"},
	}}
	images := imageStub{images: map[string][]byte{"http://img/a": []byte("png")}}
	r := NewResolver(catalog, images, logger.Nop())

	items := r.ResolveAll(context.Background(), []ItemRequest{{CatalogID: "A", Quantity: 1}, {CatalogID: "B", Quantity: 1}})
	if string(items[0].Image) != "png" {
		t.Fatalf("expected image for A, got %q", items[0].Image)
	}
	if items[1].Image != nil || items[1].UnitPrice != 7 || items[1].Remark != "" {
		t.Fatalf("image failure must only drop the image, got %+v", items[1])
	}
}

func TestResolverItemsStopsEarly(t *testing.T) {
	catalog := &catalogStub{products: map[string]normalizer.Product{}}
	r := NewResolver(catalog, nil, logger.Nop())

	for item := range r.Items(context.Background(), []ItemRequest{{CatalogID: "1"}, {CatalogID: "2"}, {CatalogID: "3"}}) {
		if item.Seq == 2 {
			break
		}
	}
	if len(catalog.calls) != 2 {
		t.Fatalf("expected iteration to stop after 2 lookups, got %d", len(catalog.calls))
	}
}
