package format

import (
	"bytes"
	"strings"
	"testing"
)

type row struct {
	Ref      string   `json:"ref"`
	ExcelRow *int64   `json:"excelRow"`
	Quantity float64  `json:"quantity"`
	Tags     []string `json:"tags,omitempty"`
}

func TestWrite_JSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := Write(&buf, row{Ref: "work:10", Quantity: 1.25}, "", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := buf.String(); got != `{"ref":"work:10","excelRow":null,"quantity":1.25}`+"\n" {
		t.Fatalf("unexpected json: %q", got)
	}
}

func TestWrite_EDN(t *testing.T) {
	t.Parallel()
	n := int64(12)
	var buf bytes.Buffer
	v := []row{{Ref: "chapter:1", ExcelRow: &n, Quantity: 2, Tags: []string{"a", "b"}}}
	if err := Write(&buf, v, "edn", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := `[{:excel-row 12 :quantity 2 :ref "chapter:1" :tags ["a" "b"]}]` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected edn:\n got %q\nwant %q", got, want)
	}
}

func TestWrite_EDNPretty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]any{"a": []int{1}, "b": map[string]any{}}, true); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "{\n  :a [\n    1\n  ]\n  :b {}\n}\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected edn:\n got %q\nwant %q", got, want)
	}
}

func TestWrite_YAMLUsesJSONNames(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := Write(&buf, row{Ref: "resource:100", Quantity: 22.4}, "yaml", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := buf.String()
	for _, want := range []string{"ref: resource:100\n", "quantity: 22.4\n", "excelRow: null\n"} {
		if !strings.Contains(got, want) {
			t.Fatalf("yaml missing %q:\n%s", want, got)
		}
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()
	if err := Write(&bytes.Buffer{}, 1, "xml", false); err == nil {
		t.Fatalf("expected error")
	}
}
