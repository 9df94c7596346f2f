package document

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strings"

	"github.com/ASEODA/narashop-estimate/platform/sanitize"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Grid columns. A and K are padding for the card frame.
const (
	colPadLeft = iota + 1
	colNo
	colName
	colImage
	colSpec
	colCatalogID
	colQuantity
	colUnitPrice
	colAmount
	colRemark
	colPadRight
)

const (
	firstContentCol = colNo
	lastContentCol  = colRemark
	partyFirstCol   = colCatalogID
)

// Column widths in character units, A through K.
var columnWidths = []float64{2, 5, 20, 18, 30, 13, 8, 12, 15, 15, 2}

// HeaderLabels are the table header captions, columns B through J.
var HeaderLabels = []string{"NO", "품명(회사명)", "제품사진", "모델명,규격", "조달번호", "수량", "단가", "금액", "비고"}

// Labels of the summary band.
const (
	TitleText          = "견     적     서"
	SubtotalLabel      = "물품 금액"
	FeeLabel           = "조달 수수료 (" + FeeRateLabel + ")"
	GrandTotalLabel    = "총 결제 금액 (대금 + 수수료)"
	DefaultSheetName   = "견적서"
	validityFooterText = "※ 본 견적서의 유효기간은 견적일로부터 30일입니다."
)

const (
	paddingHeight  = 12
	titleHeight    = 45
	lineHeight     = 20
	totalHeight    = 30
	headerHeight   = 25
	dataRowHeight  = 120
	summaryHeight  = 22
	grandRowHeight = 28

	productImageBox = 110
	sealImageBox    = 60

	backgroundColor = "EDEFF2"
	numberFormat    = "#,##0"
)

var (
	titleStyle = Style{
		Bold: true, FontSize: 24, FontColor: "FFFFFF",
		Gradient: [2]string{"1F4E79", "5B9BD5"},
		HAlign:   "center", VAlign: "center",
	}
	plainRight  = Style{HAlign: "right", VAlign: "center"}
	plainLeft   = Style{HAlign: "left", VAlign: "center"}
	headerStyle = Style{
		Bold: true, FontColor: "FFFFFF", Fill: "2F5597",
		HAlign: "center", VAlign: "center",
		Left: BorderThin, Top: BorderThin, Right: BorderThin, Bottom: BorderMedium,
	}
	announceStyle = Style{
		Bold: true, FontSize: 14, Fill: "E6F3FF",
		HAlign: "center", VAlign: "center",
	}.Boxed()
	zebraFill = "F2F7FC"
)

var won = message.NewPrinter(language.Korean)

// FormatWon renders n with thousands separators.
func FormatWon(n int64) string {
	return won.Sprintf("%d", n)
}

// TotalLine is the legal amount sentence shown above the table.
func TotalLine(total int64, qc QuoteContext) string {
	line := fmt.Sprintf("총 결제 금액 : 一金 %s원정 (₩%s)", KoreanNumeral(total), FormatWon(total))
	var notes []string
	if qc.IncludeVAT {
		notes = append(notes, "부가세")
	}
	if qc.IncludeInstall {
		notes = append(notes, "설치비")
	}
	if len(notes) > 0 {
		line += fmt.Sprintf(" (%s 포함)", strings.Join(notes, ","))
	}
	return line
}

// FormatDate renders a calendar date the way Korean business documents print dates.
func FormatDate(year int, month int, day int) string {
	return fmt.Sprintf("%d년 %d월 %d일", year, month, day)
}

// Compose lays out a quotation band by band. It has no side effects.
func Compose(items []LineItem, qc QuoteContext) *Layout {
	l := NewLayout(sanitize.SheetName(qc.ProjectName, DefaultSheetName), columnWidths)
	totals := CalculateTotals(items)

	l.SetHeight(l.Next(), paddingHeight)
	composeTitle(l)
	composeDate(l, qc)
	composeParties(l, qc)
	l.SetHeight(l.Next(), lineHeight/2)
	composeAnnouncement(l, totals, qc)
	l.SetHeight(l.Next(), lineHeight/2)
	first, last := composeTable(l, items)
	l.SetHeight(l.Next(), lineHeight/2)
	composeSummary(l, first, last, totals)
	composeFooter(l)
	l.SetHeight(l.Next(), paddingHeight)

	l.Backdrop(backgroundColor)
	return l
}

func composeTitle(l *Layout) {
	row := l.Next()
	l.SetHeight(row, titleHeight)
	l.Merge(row, firstContentCol, lastContentCol, TitleText, titleStyle)
}

func composeDate(l *Layout, qc QuoteContext) {
	row := l.Next()
	l.SetHeight(row, lineHeight)
	l.Set(row, colUnitPrice, "견적일자 :", plainRight)
	y, m, d := qc.IssuedAt.Date()
	l.Merge(row, colAmount, colRemark, FormatDate(y, int(m), d), plainRight)
}

type partyLine struct {
	text      string
	issuerRow bool
}

func composeParties(l *Layout, qc QuoteContext) {
	issuer := qc.Issuer
	var lines []partyLine
	if issuer.BusinessNumber != "" {
		lines = append(lines, partyLine{text: "사업자번호 " + issuer.BusinessNumber})
	}
	lines = append(lines, partyLine{issuerRow: true})
	if issuer.Address != "" {
		lines = append(lines, partyLine{text: issuer.Address})
	}
	if issuer.BusinessCategory != "" {
		lines = append(lines, partyLine{text: "업태/종목 : " + issuer.BusinessCategory})
	}
	if issuer.Phone != "" || issuer.Fax != "" {
		lines = append(lines, partyLine{text: fmt.Sprintf("TEL.%s   FAX.%s", issuer.Phone, issuer.Fax)})
	}

	// Left side needs customer, project and the greeting line.
	span := max(len(lines), 3)
	top := l.Row() + 1
	for i := 0; i < span; i++ {
		row := l.Next()
		l.SetHeight(row, lineHeight)

		switch i {
		case 0:
			l.Merge(row, firstContentCol, colSpec, qc.CustomerName+" 귀하",
				Style{Bold: true, FontSize: 14, HAlign: "left", VAlign: "center"})
		case 1:
			l.Merge(row, firstContentCol, colSpec, "건명 : "+qc.ProjectName, plainLeft)
		case span - 1:
			l.Merge(row, firstContentCol, colSpec, "아래와 같이 견적합니다", plainLeft)
		}

		if i >= len(lines) {
			continue
		}
		line := lines[i]
		if !line.issuerRow {
			l.Merge(row, partyFirstCol, lastContentCol, line.text, plainRight)
			continue
		}
		l.Merge(row, partyFirstCol, colUnitPrice, issuer.Name,
			Style{Bold: true, FontSize: 12, HAlign: "right", VAlign: "center"})
		l.Merge(row, colAmount, lastContentCol, "대     표   :   "+issuer.Representative, plainRight)
		if w, h, ok := fitInside(qc.Seal, sealImageBox); ok {
			l.Place(Placement{Image: qc.Seal, At: Ref{row, colUnitPrice}, OffsetX: 30, Width: w, Height: h})
		}
	}

	l.Frame(Range{From: Ref{top, partyFirstCol}, To: Ref{l.Row(), lastContentCol}}, BorderThin)
}

func composeAnnouncement(l *Layout, totals Totals, qc QuoteContext) {
	row := l.Next()
	l.SetHeight(row, totalHeight)
	l.Merge(row, firstContentCol, lastContentCol, TotalLine(totals.Total, qc), announceStyle)
}

// composeTable writes the header and one row per item. It returns the first
// and last data rows; last < first when there are no items.
func composeTable(l *Layout, items []LineItem) (int, int) {
	header := l.Next()
	l.SetHeight(header, headerHeight)
	for i, label := range HeaderLabels {
		l.Set(header, firstContentCol+i, label, headerStyle)
	}

	first := header + 1
	for i, item := range items {
		row := l.Next()
		l.SetHeight(row, dataRowHeight)

		fill := ""
		if i%2 == 1 {
			fill = zebraFill
		}
		centered := Style{HAlign: "center", VAlign: "center", Fill: fill}.Boxed()
		wrapped := centered
		wrapped.Wrap = true
		quantity := centered
		quantity.NumFmt = numberFormat
		money := Style{Bold: true, HAlign: "right", VAlign: "center", Fill: fill, NumFmt: numberFormat}.Boxed()

		name := item.Name
		if item.Supplier != "" {
			name += "\n(" + item.Supplier + ")"
		}

		l.Set(row, colNo, item.Seq, centered)
		l.Set(row, colName, name, wrapped)
		l.Set(row, colImage, "", centered)
		l.Set(row, colSpec, item.Spec, wrapped)
		l.Set(row, colCatalogID, item.CatalogID, centered)
		l.Set(row, colQuantity, item.Quantity, quantity)
		l.Set(row, colUnitPrice, item.UnitPrice, money)
		l.SetFormula(row, colAmount, fmt.Sprintf("%s*%s", Ref{row, colQuantity}.Name(), Ref{row, colUnitPrice}.Name()),
			item.Amount(), money)
		l.Set(row, colRemark, item.Remark, wrapped)

		if w, h, ok := fitInside(item.Image, productImageBox); ok {
			l.Place(Placement{
				Image:   item.Image,
				At:      Ref{row, colImage},
				OffsetX: max((columnPixels(columnWidths[colImage-1])-w)/2, 0),
				OffsetY: max((rowPixels(dataRowHeight)-h)/2, 0),
				Width:   w,
				Height:  h,
			})
		}
	}
	return first, l.Row()
}

func composeSummary(l *Layout, first, last int, totals Totals) {
	label := Style{Bold: true, HAlign: "right", VAlign: "center"}.Boxed()
	value := Style{Bold: true, HAlign: "right", VAlign: "center", NumFmt: numberFormat}.Boxed()
	blank := Style{}.Boxed()

	subRow := l.Next()
	l.SetHeight(subRow, summaryHeight)
	subtotal := "0"
	if last >= first {
		subtotal = fmt.Sprintf("SUM(%s:%s)", Ref{first, colAmount}.Name(), Ref{last, colAmount}.Name())
	}
	l.Merge(subRow, firstContentCol, colUnitPrice, SubtotalLabel, label)
	l.SetFormula(subRow, colAmount, subtotal, totals.Subtotal, value)
	l.Set(subRow, colRemark, "", blank)

	feeRow := l.Next()
	l.SetHeight(feeRow, summaryHeight)
	l.Merge(feeRow, firstContentCol, colUnitPrice, FeeLabel, label)
	l.SetFormula(feeRow, colAmount,
		fmt.Sprintf("ROUND(%s*%s,0)", Ref{subRow, colAmount}.Name(), feeRateDecimal()), totals.Fee, value)
	l.Set(feeRow, colRemark, "", blank)

	grand := Style{Bold: true, FontSize: 13, Fill: "FFCC99", VAlign: "center",
		Left: BorderThin, Right: BorderThin, Top: BorderMedium, Bottom: BorderMedium}
	grandLabel, grandValue := grand, grand
	grandLabel.HAlign = "right"
	grandValue.HAlign = "right"
	grandValue.NumFmt = numberFormat

	totalRow := l.Next()
	l.SetHeight(totalRow, grandRowHeight)
	l.Merge(totalRow, firstContentCol, colUnitPrice, GrandTotalLabel, grandLabel)
	l.SetFormula(totalRow, colAmount,
		fmt.Sprintf("SUM(%s,%s)", Ref{subRow, colAmount}.Name(), Ref{feeRow, colAmount}.Name()), totals.Total, grandValue)
	l.Set(totalRow, colRemark, "", grand)
}

func composeFooter(l *Layout) {
	l.SetHeight(l.Next(), lineHeight/2)
	row := l.Next()
	l.SetHeight(row, lineHeight)
	l.Merge(row, firstContentCol, lastContentCol, validityFooterText,
		Style{Italic: true, FontSize: 9, FontColor: "595959", HAlign: "left", VAlign: "center"})
}

func feeRateDecimal() string {
	return fmt.Sprintf("%.4f", float64(FeeRateBps)/10000)
}

// fitInside scales the image's pixel size down to fit a box x box square.
// Smaller images keep their size. It reports false when data is empty or not
// a decodable image.
func fitInside(data []byte, box int) (int, int, bool) {
	if len(data) == 0 {
		return 0, 0, false
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return 0, 0, false
	}
	scale := math.Min(1, math.Min(float64(box)/float64(cfg.Width), float64(box)/float64(cfg.Height)))
	return max(int(math.Round(float64(cfg.Width)*scale)), 1), max(int(math.Round(float64(cfg.Height)*scale)), 1), true
}

// columnPixels approximates how spreadsheet applications size a column of
// the given character width.
func columnPixels(width float64) int {
	return int(math.Ceil(width*7 + 0.5))
}

func rowPixels(points float64) int {
	return int(math.Round(points * 4 / 3))
}
