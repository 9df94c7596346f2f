package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ASEODA/narashop-estimate/internal/catalog/normalizer"
	"github.com/ASEODA/narashop-estimate/internal/quotes/service"
	"github.com/ASEODA/narashop-estimate/platform/config"
	"github.com/ASEODA/narashop-estimate/platform/httpkit"
	"github.com/ASEODA/narashop-estimate/platform/logger"
	"github.com/ASEODA/narashop-estimate/platform/validator"

	"github.com/gin-gonic/gin"
)

type catalogStub struct{}

func (catalogStub) Resolve(_ context.Context, id string) (normalizer.Product, error) {
	if id == "24234567" {
		return normalizer.Product{CatalogID: id, DisplayName: "모니터", Spec: "27인치", UnitPrice: 10000}, nil
	}
	return normalizer.Product{}, errors.New("not found")
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	svc := service.New(service.NewResolver(catalogStub{}, nil, log), config.DefaultCompanyProfile(), log)
	svc.SetClock(func() time.Time { return time.Date(2026, 10, 16, 3, 0, 0, 0, time.UTC) })
	h := New(svc, validator.New())

	r := gin.New()
	r.POST("/api/generate-estimate", h.Generate)
	return r
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate-estimate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	return rec
}

func TestGenerateReturnsWorkbook(t *testing.T) {
	rec := post(newRouter(), `{"products":[{"catalogId":"24234567","quantity":"2"}],"customerInfo":{"customerName":"ACME","projectName":"Install"}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != contentTypeXLSX {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, `attachment; filename="ACME_Install_20261016.xlsx"`) {
		t.Fatalf("unexpected disposition %q", cd)
	}
	// XLSX is a zip archive.
	if !strings.HasPrefix(rec.Body.String(), "PK") {
		t.Fatal("expected a zip payload")
	}
}

func TestGenerateEncodesHangulFilename(t *testing.T) {
	rec := post(newRouter(), `{"products":[{"productNo":"24234567","quantity":1}],"customerInfo":{"customerName":"조달청!","projectName":"교체 건"}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cd := rec.Header().Get("Content-Disposition")
	want := "%EC%A1%B0%EB%8B%AC%EC%B2%AD_%EA%B5%90%EC%B2%B4%EA%B1%B4_20261016.xlsx"
	if !strings.Contains(cd, `filename="`+want+`"`) || !strings.Contains(cd, "filename*=UTF-8''"+want) {
		t.Fatalf("unexpected disposition %q", cd)
	}
}

func TestGenerateRejectsMissingProducts(t *testing.T) {
	cases := []string{
		`{"products":[]}`,
		`{"customerInfo":{"customerName":"x"}}`,
		`{"products":"nope"}`,
		`not json`,
	}
	for _, body := range cases {
		rec := post(newRouter(), body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
		var resp httpkit.ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Error != msgNoProducts {
			t.Fatalf("%s: unexpected body %s", body, rec.Body.String())
		}
	}
}

func TestGenerateRejectsQuantityAboveLimit(t *testing.T) {
	rec := post(newRouter(), `{"products":[{"catalogId":"24234567","quantity":1},{"catalogId":"24234567","quantity":"9223372036854775807"}]}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp httpkit.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Error != msgQuantityTooLarge {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	if rec := post(newRouter(), `{"products":[{"catalogId":"24234567","quantity":1000000}]}`); rec.Code != http.StatusOK {
		t.Fatalf("limit itself must be accepted, got %d", rec.Code)
	}
}
