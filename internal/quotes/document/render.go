package document

import (
	"bytes"
	"fmt"
	"image"
	"sort"

	"github.com/xuri/excelize/v2"
)

const (
	defaultFont     = "맑은 고딕"
	defaultFontSize = 11
	paperA4         = 9
)

// Render serializes l into an XLSX workbook with a single worksheet.
func Render(l *Layout) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := l.SheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	r := &renderer{file: f, sheet: sheet, styles: map[Style]int{}}
	steps := []func(*Layout) error{
		r.columns,
		r.rows,
		r.cells,
		r.merges,
		r.images,
		r.page,
	}
	for _, step := range steps {
		if err := step(l); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type renderer struct {
	file   *excelize.File
	sheet  string
	styles map[Style]int
}

func (r *renderer) columns(l *Layout) error {
	for i, width := range l.Widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := r.file.SetColWidth(r.sheet, col, col, width); err != nil {
			return fmt.Errorf("column %s width: %w", col, err)
		}
	}
	return nil
}

func (r *renderer) rows(l *Layout) error {
	rows := make([]int, 0, len(l.RowHeights))
	for row := range l.RowHeights {
		rows = append(rows, row)
	}
	sort.Ints(rows)
	for _, row := range rows {
		if err := r.file.SetRowHeight(r.sheet, row, l.RowHeights[row]); err != nil {
			return fmt.Errorf("row %d height: %w", row, err)
		}
	}
	return nil
}

// cells writes values before formulas so each formula cell keeps its
// evaluated result as the cached value.
func (r *renderer) cells(l *Layout) error {
	for _, ref := range l.SortedRefs() {
		c := l.Cells[ref]
		name := ref.Name()
		if c.Value != nil {
			if err := r.file.SetCellValue(r.sheet, name, c.Value); err != nil {
				return fmt.Errorf("cell %s: %w", name, err)
			}
		}
		if c.Formula != "" {
			if err := r.file.SetCellFormula(r.sheet, name, c.Formula); err != nil {
				return fmt.Errorf("formula %s: %w", name, err)
			}
		}
		id, err := r.style(c.Style)
		if err != nil {
			return err
		}
		if err := r.file.SetCellStyle(r.sheet, name, name, id); err != nil {
			return fmt.Errorf("style %s: %w", name, err)
		}
	}
	return nil
}

func (r *renderer) merges(l *Layout) error {
	for _, m := range l.Merges {
		if err := r.file.MergeCell(r.sheet, m.From.Name(), m.To.Name()); err != nil {
			return fmt.Errorf("merge %s:%s: %w", m.From.Name(), m.To.Name(), err)
		}
	}
	return nil
}

// images anchors each picture to its cell with one-cell positioning: it
// moves with the cell but is not a cell value.
func (r *renderer) images(l *Layout) error {
	for _, p := range l.Images {
		cfg, format, err := image.DecodeConfig(bytes.NewReader(p.Image))
		if err != nil {
			return fmt.Errorf("image at %s: %w", p.At.Name(), err)
		}
		pic := &excelize.Picture{
			Extension: "." + format,
			File:      p.Image,
			Format: &excelize.GraphicOptions{
				OffsetX:         p.OffsetX,
				OffsetY:         p.OffsetY,
				ScaleX:          float64(p.Width) / float64(cfg.Width),
				ScaleY:          float64(p.Height) / float64(cfg.Height),
				LockAspectRatio: true,
				Positioning:     "oneCell",
			},
		}
		if err := r.file.AddPictureFromBytes(r.sheet, p.At.Name(), pic); err != nil {
			return fmt.Errorf("image at %s: %w", p.At.Name(), err)
		}
	}
	return nil
}

func (r *renderer) page(_ *Layout) error {
	if err := r.file.SetSheetView(r.sheet, 0, &excelize.ViewOptions{ShowGridLines: ptr(false)}); err != nil {
		return fmt.Errorf("sheet view: %w", err)
	}
	if err := r.file.SetSheetProps(r.sheet, &excelize.SheetPropsOptions{FitToPage: ptr(true)}); err != nil {
		return fmt.Errorf("sheet props: %w", err)
	}
	if err := r.file.SetPageLayout(r.sheet, &excelize.PageLayoutOptions{
		Size:        ptr(paperA4),
		Orientation: ptr("portrait"),
		FitToWidth:  ptr(1),
		FitToHeight: ptr(0),
	}); err != nil {
		return fmt.Errorf("page layout: %w", err)
	}
	if err := r.file.SetCalcProps(&excelize.CalcPropsOptions{FullCalcOnLoad: ptr(true)}); err != nil {
		return fmt.Errorf("calc props: %w", err)
	}
	return nil
}

func (r *renderer) style(s Style) (int, error) {
	if id, ok := r.styles[s]; ok {
		return id, nil
	}
	id, err := r.file.NewStyle(excelStyle(s))
	if err != nil {
		return 0, fmt.Errorf("new style: %w", err)
	}
	r.styles[s] = id
	return id, nil
}

func excelStyle(s Style) *excelize.Style {
	size := s.FontSize
	if size == 0 {
		size = defaultFontSize
	}
	st := &excelize.Style{
		Font: &excelize.Font{Bold: s.Bold, Italic: s.Italic, Size: size, Color: s.FontColor, Family: defaultFont},
	}

	switch {
	case s.Gradient[0] != "":
		st.Fill = excelize.Fill{Type: "gradient", Color: []string{s.Gradient[0], s.Gradient[1]}, Shading: 0}
	case s.Fill != "":
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.Fill}}
	}

	if s.HAlign != "" || s.VAlign != "" || s.Wrap {
		st.Alignment = &excelize.Alignment{Horizontal: s.HAlign, Vertical: s.VAlign, WrapText: s.Wrap}
	}

	for _, side := range []struct {
		name   string
		weight int
	}{{"left", s.Left}, {"top", s.Top}, {"right", s.Right}, {"bottom", s.Bottom}} {
		if side.weight != BorderNone {
			st.Border = append(st.Border, excelize.Border{Type: side.name, Color: "000000", Style: side.weight})
		}
	}

	if s.NumFmt != "" {
		numFmt := s.NumFmt
		st.CustomNumFmt = &numFmt
	}
	return st
}

func ptr[T any](v T) *T { return &v }
