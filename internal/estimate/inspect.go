package estimate

import (
	"strconv"
	"strings"

	"smeta/internal/model"
)

type Field struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Properties is the read-only record shown in the properties panel.
type Properties struct {
	Ref    model.NodeRef `json:"ref" yaml:"ref"`
	Kind   model.Kind    `json:"kind" yaml:"kind"`
	Title  string        `json:"title" yaml:"title"`
	Fields []Field       `json:"fields,omitempty" yaml:"fields,omitempty"`
}

func Inspect(t *Tree, n *Node) Properties {
	p := Properties{Ref: n.Ref, Kind: n.DisplayKind, Title: n.Title}
	add := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		p.Fields = append(p.Fields, Field{Name: name, Value: value})
	}
	switch {
	case n.Chapter != nil:
		if n.Chapter.ExcelRow != nil {
			add("excelRow", strconv.FormatInt(*n.Chapter.ExcelRow, 10))
		}
	case n.Work != nil:
		add("code", n.Work.Code)
		add("quantity", formatQuantity(n.Work.Quantity))
	case n.Resource != nil:
		add("type", n.Resource.Type)
		add("code", n.Resource.Code)
		add("quantity", formatQuantity(n.Resource.Quantity))
	}
	if parent := t.Node(n.Parent); parent != nil {
		add("parent", parent.Ref.String())
	}
	if n.DisplayKind != n.Kind() {
		add("level", string(n.Kind()))
	}
	return p
}

var fieldLabels = map[Lang]map[string]string{
	LangRU: {
		"kind":     "Тип",
		"title":    "Название",
		"code":     "Код",
		"quantity": "Количество",
		"type":     "Тип ресурса",
		"excelRow": "Строка Excel",
		"parent":   "Родитель",
		"level":    "Уровень",
	},
	LangEN: {
		"kind":     "Type",
		"title":    "Title",
		"code":     "Code",
		"quantity": "Quantity",
		"type":     "Resource type",
		"excelRow": "Excel row",
		"parent":   "Parent",
		"level":    "Level",
	},
}

func fieldLabel(lang Lang, name string) string {
	if m, ok := fieldLabels[lang]; ok {
		if s, ok := m[name]; ok {
			return s
		}
	}
	return name
}

// Text renders the properties as "Label: value" lines, kind and title first.
func (p Properties) Text(lang Lang) string {
	lines := []string{
		fieldLabel(lang, "kind") + ": " + string(p.Kind),
		fieldLabel(lang, "title") + ": " + p.Title,
	}
	for _, f := range p.Fields {
		lines = append(lines, fieldLabel(lang, f.Name)+": "+f.Value)
	}
	return strings.Join(lines, "\n")
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
