package transport

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// MaxQuantity is the largest item count a request may carry.
const MaxQuantity = 1_000_000

// Quantity is a non-negative item count that accepts a JSON number or a
// numeric string. Anything else decodes to 0.
type Quantity int64

func (q *Quantity) UnmarshalJSON(data []byte) error {
	*q = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	text := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		text = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	}

	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		*q = Quantity(max(n, 0))
		return nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && f > 0 && f < math.MaxInt64 {
		*q = Quantity(f)
	}
	return nil
}

// ProductRequest is one requested line. productNo is accepted as an alias
// of catalogId.
type ProductRequest struct {
	CatalogID string   `json:"catalogId"`
	ProductNo string   `json:"productNo,omitempty"`
	Quantity  Quantity `json:"quantity" validate:"max=1000000"`
}

// ID returns the requested catalog identifier.
func (p ProductRequest) ID() string {
	if id := strings.TrimSpace(p.CatalogID); id != "" {
		return id
	}
	return strings.TrimSpace(p.ProductNo)
}

// CustomerInfo overrides the quotation context. Empty strings fall back to
// defaults; flags default to true unless explicitly false.
type CustomerInfo struct {
	CustomerName    string `json:"customerName"`
	ProjectName     string `json:"projectName"`
	CompanyName     string `json:"companyName,omitempty"`
	CompanyPhone    string `json:"companyPhone,omitempty"`
	CompanyAddress  string `json:"companyAddress,omitempty"`
	CompanyRep      string `json:"companyRep,omitempty"`
	CompanyFax      string `json:"companyFax,omitempty"`
	CompanyBizNo    string `json:"companyBizNo,omitempty"`
	CompanyCategory string `json:"companyCategory,omitempty"`
	IncludeFee      *bool  `json:"includeFee,omitempty"`
	IncludeVat      *bool  `json:"includeVat,omitempty"`
	IncludeInstall  *bool  `json:"includeInstall,omitempty"`
}

// GenerateEstimateRequest is the body of POST /api/generate-estimate.
type GenerateEstimateRequest struct {
	Products     []ProductRequest `json:"products" validate:"required,min=1,dive"`
	CustomerInfo *CustomerInfo    `json:"customerInfo,omitempty"`
}

// Flag reads an optional boolean that defaults to true.
func Flag(v *bool) bool {
	return v == nil || *v
}
