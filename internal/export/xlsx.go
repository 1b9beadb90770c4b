package export

import (
	"bytes"
	"fmt"
	"strings"

	"smeta/internal/estimate"
	"smeta/internal/model"

	"github.com/xuri/excelize/v2"
)

var headers = map[estimate.Lang][]string{
	estimate.LangRU: {"Уровень", "Ссылка", "Шифр", "Наименование", "Тип ресурса", "Количество"},
	estimate.LangEN: {"Level", "Ref", "Code", "Name", "Resource type", "Quantity"},
}

var columns = []string{"A", "B", "C", "D", "E", "F"}

// WriteXLSX renders the tree as a single-sheet workbook, one row per node in
// outline order. Chapter rows are bold; names are indented by depth.
func WriteXLSX(t *estimate.Tree, sheet string, lang estimate.Lang) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet = sheetName(sheet)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	widths := []float64{12, 14, 20, 60, 14, 12}
	for i, col := range columns {
		if err := f.SetColWidth(sheet, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	chapterStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#C8DCFF"}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create chapter style: %w", err)
	}
	rowStyle, err := f.NewStyle(&excelize.Style{Border: thinBorders()})
	if err != nil {
		return nil, fmt.Errorf("create row style: %w", err)
	}

	hs := headers[lang]
	if hs == nil {
		hs = headers[estimate.LangRU]
	}
	for i, h := range hs {
		if err := f.SetCellValue(sheet, columns[i]+"1", h); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "F1", headerStyle); err != nil {
		return nil, err
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	row := 2
	var werr error
	t.Walk(func(_ int, n *estimate.Node, depth int) bool {
		if werr = writeRow(f, sheet, row, n, depth, lang); werr != nil {
			return false
		}
		style := rowStyle
		if n.Kind() == model.KindChapter {
			style = chapterStyle
		}
		r := fmt.Sprint(row)
		if werr = f.SetCellStyle(sheet, "A"+r, "F"+r, style); werr != nil {
			return false
		}
		row++
		return true
	})
	if werr != nil {
		return nil, fmt.Errorf("write rows: %w", werr)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, n *estimate.Node, depth int, lang estimate.Lang) error {
	var code, resType string
	var qty any
	switch {
	case n.Work != nil:
		code, qty = n.Work.Code, n.Work.Quantity
	case n.Resource != nil:
		code, resType, qty = n.Resource.Code, n.Resource.Type, n.Resource.Quantity
	}
	values := []any{
		estimate.KindWord(n.Kind(), lang),
		n.Ref.String(),
		sanitizeCell(code),
		strings.Repeat("  ", depth) + sanitizeCell(n.Title),
		sanitizeCell(resType),
		qty,
	}
	for i, v := range values {
		if v == nil {
			continue
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", columns[i], row), v); err != nil {
			return err
		}
	}
	return nil
}

func sheetName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, s)
	if s == "" {
		return "Смета"
	}
	if r := []rune(s); len(r) > 31 {
		s = string(r[:31])
	}
	return s
}

// sanitizeCell keeps spreadsheet apps from evaluating imported text as formulas.
func sanitizeCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	out := make([]excelize.Border, len(sides))
	for i, side := range sides {
		out[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return out
}
