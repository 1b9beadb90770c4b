package export

import (
	"bytes"
	"testing"

	"smeta/internal/estimate"
	"smeta/internal/model"

	"github.com/xuri/excelize/v2"
)

func demoTree(t *testing.T) *estimate.Tree {
	t.Helper()
	tr, err := estimate.Build(model.Records{
		Chapters:  []model.Chapter{{ID: 1, Name: "Земляные работы"}},
		Works:     []model.Work{{ID: 10, ChapterID: 1, Code: "ФЕР01", Description: "Разработка грунта", Quantity: 1.25}},
		Resources: []model.Resource{{ID: 100, WorkID: 10, Type: "machine", Code: "=cmd", Description: "Экскаватор", Quantity: 22.4}},
	}, estimate.BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return tr
}

func TestWriteXLSX_RowsInOutlineOrder(t *testing.T) {
	t.Parallel()
	b, err := WriteXLSX(demoTree(t), "Объект 1", estimate.LangEN)
	if err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("not a workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Объект 1" {
		t.Fatalf("unexpected sheets: %v", sheets)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d: %v", len(rows), rows)
	}
	if rows[0][0] != "Level" || rows[0][5] != "Quantity" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "chapter:1" || rows[2][1] != "work:10" || rows[3][1] != "resource:100" {
		t.Fatalf("unexpected order: %v", rows)
	}
	if rows[3][3] != "    Экскаватор" || rows[3][4] != "machine" {
		t.Fatalf("unexpected resource row: %v", rows[3])
	}
	if rows[3][2] != "'=cmd" {
		t.Fatalf("expected sanitized code, got %q", rows[3][2])
	}
	if rows[2][5] != "1.25" {
		t.Fatalf("unexpected quantity: %q", rows[2][5])
	}
}

func TestWriteXLSX_LevelColumnIgnoresDisplayKind(t *testing.T) {
	t.Parallel()
	tr := demoTree(t)
	n, _ := tr.Lookup(model.NodeRef{Kind: model.KindResource, ID: 100})
	n.DisplayKind = model.KindChapter

	b, err := WriteXLSX(tr, "", estimate.LangEN)
	if err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("not a workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetList()[0])
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if rows[3][0] != "Resource" {
		t.Fatalf("expected structural level, got %q", rows[3][0])
	}
}

func TestWriteXLSX_EmptyTree(t *testing.T) {
	t.Parallel()
	tr, _ := estimate.Build(model.Records{}, estimate.BuildOptions{})
	b, err := WriteXLSX(tr, "", estimate.LangRU)
	if err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("not a workbook: %v", err)
	}
	defer f.Close()
	if got := f.GetSheetList(); got[0] != "Смета" {
		t.Fatalf("unexpected default sheet: %v", got)
	}
}

func TestSheetName(t *testing.T) {
	t.Parallel()
	if got := sheetName("a/b:c"); got != "a_b_c" {
		t.Fatalf("got %q", got)
	}
	long := "Очень длинное название сметы для проверки обрезки"
	if got := []rune(sheetName(long)); len(got) != 31 {
		t.Fatalf("expected 31 runes, got %d", len(got))
	}
}
