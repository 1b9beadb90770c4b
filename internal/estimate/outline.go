package estimate

import (
	"fmt"
	"io"
	"strings"

	"smeta/internal/model"

	"github.com/ddddddO/gtree"
)

type Lang string

const (
	LangRU Lang = "ru"
	LangEN Lang = "en"
)

func ParseLang(s string) (Lang, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ru", "rus", "russian":
		return LangRU, nil
	case "en", "eng", "english":
		return LangEN, nil
	default:
		return LangRU, fmt.Errorf("unknown language: %s (ru|en)", s)
	}
}

var kindWords = map[Lang]map[model.Kind]string{
	LangRU: {
		model.KindChapter:  "Раздел",
		model.KindWork:     "Работа",
		model.KindResource: "Ресурс",
	},
	LangEN: {
		model.KindChapter:  "Chapter",
		model.KindWork:     "Work",
		model.KindResource: "Resource",
	},
}

// KindWord returns the localized word for k, falling back to Russian and then to k itself.
func KindWord(k model.Kind, lang Lang) string {
	if words, ok := kindWords[lang]; ok {
		if w, ok := words[k]; ok {
			return w
		}
	}
	if w, ok := kindWords[LangRU][k]; ok {
		return w
	}
	return string(k)
}

// Label is the outline text for a node: "<kind-word>: <title>".
func Label(n *Node, lang Lang) string {
	return KindWord(n.Kind(), lang) + ": " + n.Title
}

type OutlineLine struct {
	Ref   model.NodeRef `json:"ref" yaml:"ref"`
	Depth int           `json:"depth" yaml:"depth"`
	Label string        `json:"label" yaml:"label"`
}

// Outline projects the tree into pre-order labelled lines, one per node.
func Outline(t *Tree, lang Lang) []OutlineLine {
	out := make([]OutlineLine, 0, t.Len())
	t.Walk(func(_ int, n *Node, depth int) bool {
		out = append(out, OutlineLine{Ref: n.Ref, Depth: depth, Label: Label(n, lang)})
		return true
	})
	return out
}

func OutlineText(lines []OutlineLine) string {
	var b strings.Builder
	for _, ln := range lines {
		b.WriteString(strings.Repeat("  ", ln.Depth))
		b.WriteString(ln.Label)
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderOutline draws the tree with box-drawing branches under a single root line.
func RenderOutline(w io.Writer, t *Tree, rootTitle string, lang Lang) error {
	if strings.TrimSpace(rootTitle) == "" {
		rootTitle = "."
	}
	root := gtree.NewRoot(rootTitle, gtree.WithDuplicationAllowed())
	nodes := make(map[int]*gtree.Node, t.Len())
	t.Walk(func(idx int, n *Node, _ int) bool {
		parent := root
		if p, ok := nodes[n.Parent]; ok {
			parent = p
		}
		nodes[idx] = parent.Add(Label(n, lang))
		return true
	})
	return gtree.OutputFromRoot(w, root)
}
