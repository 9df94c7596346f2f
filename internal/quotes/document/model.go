// Package document lays out quotation spreadsheets. Composition is pure and
// produces a Layout; Render serializes a Layout to XLSX bytes.
package document

import "time"

// Failure markers used when a catalog lookup for an item fails.
const (
	FailedName   = "조회 실패"
	FailedSpec   = "-"
	FailedRemark = "조회 실패"
)

// LineItem is one resolved row of a quotation.
type LineItem struct {
	Seq       int
	Name      string
	Supplier  string
	Spec      string
	CatalogID string
	Quantity  int64
	UnitPrice int64
	Image     []byte // PNG, nil when unavailable
	Remark    string
}

// Amount is quantity times unit price.
func (li LineItem) Amount() int64 {
	return li.Quantity * li.UnitPrice
}

// Issuer is the quoting company shown in the party block.
type Issuer struct {
	Name             string
	Phone            string
	Address          string
	Representative   string
	Fax              string
	BusinessNumber   string
	BusinessCategory string
}

// QuoteContext carries everything except the line items.
type QuoteContext struct {
	CustomerName   string
	ProjectName    string
	Issuer         Issuer
	IncludeFee     bool
	IncludeVAT     bool
	IncludeInstall bool
	IssuedAt       time.Time
	Seal           []byte // optional PNG stamped next to the company name
}
