package publish

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"smeta/internal/estimate"
	"smeta/internal/model"
)

type RenderOptions struct {
	Title string
	Lang  estimate.Lang
	// IncludeRefs appends `kind:id` after each entry.
	IncludeRefs bool
}

// RenderMarkdown writes the estimate as a Markdown report: H1 title, H2 per
// chapter, a bullet per work and nested bullets for its resources.
func RenderMarkdown(t *estimate.Tree, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = "Смета"
	}
	writeLn("# " + title)
	writeLn("")

	c := t.Counts()
	writeLn(fmt.Sprintf("%s: %d · %s: %d · %s: %d",
		estimate.KindWord(model.KindChapter, opt.Lang), c[model.KindChapter],
		estimate.KindWord(model.KindWork, opt.Lang), c[model.KindWork],
		estimate.KindWord(model.KindResource, opt.Lang), c[model.KindResource],
	))

	if len(t.Roots) == 0 {
		writeLn("")
		writeLn("_(empty)_")
		return buf.String()
	}

	t.Walk(func(_ int, n *estimate.Node, depth int) bool {
		switch depth {
		case 0:
			writeLn("")
			writeLn("## " + heading(n, opt))
			if len(n.Children) > 0 {
				writeLn("")
			}
		default:
			writeLn(strings.Repeat("  ", depth-1) + "- " + bullet(n, opt))
		}
		return true
	})
	return buf.String()
}

func heading(n *estimate.Node, opt RenderOptions) string {
	s := escape(n.Title)
	if n.DisplayKind != n.Kind() {
		s += " _(" + estimate.KindWord(n.DisplayKind, opt.Lang) + ")_"
	}
	if opt.IncludeRefs {
		s += " `" + n.Ref.String() + "`"
	}
	return s
}

func bullet(n *estimate.Node, opt RenderOptions) string {
	var b strings.Builder
	code, qty := "", 0.0
	switch {
	case n.Work != nil:
		code, qty = n.Work.Code, n.Work.Quantity
	case n.Resource != nil:
		code, qty = n.Resource.Code, n.Resource.Quantity
	}
	if code != "" {
		b.WriteString("**" + escape(code) + "** ")
	}
	b.WriteString(escape(n.Title))
	if qty != 0 {
		b.WriteString(" × " + strconv.FormatFloat(qty, 'f', -1, 64))
	}
	if n.Resource != nil && n.Resource.Type != "" {
		b.WriteString(" (" + escape(n.Resource.Type) + ")")
	}
	if n.DisplayKind != n.Kind() {
		b.WriteString(" _(" + estimate.KindWord(n.DisplayKind, opt.Lang) + ")_")
	}
	if opt.IncludeRefs {
		b.WriteString(" `" + n.Ref.String() + "`")
	}
	return b.String()
}

var mdEscaper = strings.NewReplacer(`*`, `\*`, `_`, `\_`, "`", "\\`", `#`, `\#`)

func escape(s string) string {
	return mdEscaper.Replace(strings.TrimSpace(s))
}
