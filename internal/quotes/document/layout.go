package document

import (
	"sort"

	"github.com/xuri/excelize/v2"
)

// Border weights.
const (
	BorderNone = iota
	BorderThin
	BorderMedium
)

// Style is a comparable cell style description. The renderer maps each
// distinct Style to one workbook style.
type Style struct {
	Bold      bool
	Italic    bool
	FontSize  float64
	FontColor string
	Fill      string    // solid fill, hex RGB
	Gradient  [2]string // horizontal two-stop fill, takes precedence over Fill
	HAlign    string
	VAlign    string
	Wrap      bool
	NumFmt    string
	Left      int
	Top       int
	Right     int
	Bottom    int
}

func (s Style) filled() bool {
	return s.Fill != "" || s.Gradient[0] != ""
}

// Boxed returns s with thin borders on every side.
func (s Style) Boxed() Style {
	s.Left, s.Top, s.Right, s.Bottom = BorderThin, BorderThin, BorderThin, BorderThin
	return s
}

// Ref addresses a cell by 1-based row and column.
type Ref struct {
	Row int
	Col int
}

// Name returns the A1 name of the cell.
func (r Ref) Name() string {
	name, _ := excelize.CoordinatesToCellName(r.Col, r.Row)
	return name
}

// Range is an inclusive rectangle of cells.
type Range struct {
	From Ref
	To   Ref
}

// Cell holds a literal value or, when Formula is set, a formula with the
// result it evaluates to.
type Cell struct {
	Value   any
	Formula string
	Style   Style
}

// Placement anchors an image inside one cell. Offsets and extent are pixels.
type Placement struct {
	Image   []byte
	At      Ref
	OffsetX int
	OffsetY int
	Width   int
	Height  int
}

// Layout is the working state of one document. A Layout belongs to a single
// request and is discarded once rendered.
type Layout struct {
	SheetName  string
	Widths     []float64
	RowHeights map[int]float64
	Cells      map[Ref]*Cell
	Merges     []Range
	Images     []Placement

	row int
}

// NewLayout returns an empty layout with the given column widths.
func NewLayout(sheetName string, widths []float64) *Layout {
	return &Layout{
		SheetName:  sheetName,
		Widths:     widths,
		RowHeights: map[int]float64{},
		Cells:      map[Ref]*Cell{},
	}
}

// Next advances the row cursor and returns the new row. Rows are never reused.
func (l *Layout) Next() int {
	l.row++
	return l.row
}

// Row returns the current cursor position.
func (l *Layout) Row() int {
	return l.row
}

// Columns is the width of the grid.
func (l *Layout) Columns() int {
	return len(l.Widths)
}

// SetHeight fixes the height of row in points.
func (l *Layout) SetHeight(row int, points float64) {
	l.RowHeights[row] = points
}

// Cell returns the cell at ref, creating it when absent.
func (l *Layout) Cell(ref Ref) *Cell {
	c, ok := l.Cells[ref]
	if !ok {
		c = &Cell{}
		l.Cells[ref] = c
	}
	return c
}

// Set writes a literal value and style.
func (l *Layout) Set(row, col int, value any, style Style) {
	c := l.Cell(Ref{row, col})
	c.Value = value
	c.Style = style
}

// SetFormula writes a formula with its evaluated result so readers that do
// not recalculate still show the right number.
func (l *Layout) SetFormula(row, col int, formula string, result int64, style Style) {
	c := l.Cell(Ref{row, col})
	c.Value = result
	c.Formula = formula
	c.Style = style
}

// Merge joins columns from..to of row, writes value to the top-left cell and
// applies style to every cell of the range so borders stay continuous.
func (l *Layout) Merge(row, from, to int, value any, style Style) {
	l.Set(row, from, value, style)
	for col := from + 1; col <= to; col++ {
		l.Cell(Ref{row, col}).Style = style
	}
	if to > from {
		l.Merges = append(l.Merges, Range{From: Ref{row, from}, To: Ref{row, to}})
	}
}

// Frame draws the outline of the rectangle by setting only the sides of
// each cell that face outward. Interior borders are left untouched.
func (l *Layout) Frame(r Range, weight int) {
	for row := r.From.Row; row <= r.To.Row; row++ {
		for col := r.From.Col; col <= r.To.Col; col++ {
			c := l.Cell(Ref{row, col})
			if row == r.From.Row {
				c.Style.Top = weight
			}
			if row == r.To.Row {
				c.Style.Bottom = weight
			}
			if col == r.From.Col {
				c.Style.Left = weight
			}
			if col == r.To.Col {
				c.Style.Right = weight
			}
		}
	}
}

// Place anchors an image in a cell.
func (l *Layout) Place(p Placement) {
	l.Images = append(l.Images, p)
}

// Backdrop fills every cell of the outer padding ring with background and
// every other unfilled cell in the used range with white.
func (l *Layout) Backdrop(background string) {
	last := l.row
	cols := l.Columns()
	for row := 1; row <= last; row++ {
		for col := 1; col <= cols; col++ {
			c := l.Cell(Ref{row, col})
			switch {
			case row == 1 || row == last || col == 1 || col == cols:
				c.Style.Fill = background
				c.Style.Gradient = [2]string{}
			case !c.Style.filled():
				c.Style.Fill = "FFFFFF"
			}
		}
	}
}

// SortedRefs returns the populated cells in row-major order.
func (l *Layout) SortedRefs() []Ref {
	refs := make([]Ref, 0, len(l.Cells))
	for ref := range l.Cells {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Row != refs[j].Row {
			return refs[i].Row < refs[j].Row
		}
		return refs[i].Col < refs[j].Col
	})
	return refs
}
