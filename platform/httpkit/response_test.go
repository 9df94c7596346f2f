package httpkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ASEODA/narashop-estimate/platform/apperr"

	"github.com/gin-gonic/gin"
)

func TestHandleErrorMapsTypedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name        string
		err         error
		wantStatus  int
		wantError   string
		wantMessage string
	}{
		{
			name:       "validation",
			err:        apperr.Validation("제품 정보를 입력해주세요."),
			wantStatus: http.StatusBadRequest,
			wantError:  "제품 정보를 입력해주세요.",
		},
		{
			name:        "wrapped upstream",
			err:         fmt.Errorf("lookup: %w", apperr.Upstream("API 호출 실패", errors.New("timeout"))),
			wantStatus:  http.StatusInternalServerError,
			wantError:   "API 호출 실패",
			wantMessage: "timeout",
		},
		{
			name:       "untyped",
			err:        errors.New("bad"),
			wantStatus: http.StatusBadRequest,
			wantError:  "bad",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			if !HandleError(c, tc.err) {
				t.Fatal("expected error to be handled")
			}
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != tc.wantError || body.Message != tc.wantMessage {
				t.Fatalf("unexpected body %+v", body)
			}
		})
	}
}

func TestHandleErrorNil(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	if HandleError(c, nil) {
		t.Fatal("nil error must not be handled")
	}
}
