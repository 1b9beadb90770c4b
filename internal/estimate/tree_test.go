package estimate

import (
	"errors"
	"reflect"
	"testing"

	"smeta/internal/model"
)

func sampleRecords() model.Records {
	return model.Records{
		Chapters: []model.Chapter{{ID: 1, Name: "Earthworks"}},
		Works:    []model.Work{{ID: 10, ChapterID: 1, Description: "Excavation"}},
		Resources: []model.Resource{
			{ID: 100, WorkID: 10, Description: "Excavator-hours"},
		},
	}
}

func refsInOrder(t *Tree) []model.NodeRef {
	var out []model.NodeRef
	t.Walk(func(_ int, n *Node, _ int) bool {
		out = append(out, n.Ref)
		return true
	})
	return out
}

func TestBuild_EndToEndExample(t *testing.T) {
	rec := sampleRecords()
	rec.Resources = append(rec.Resources, model.Resource{ID: 101, WorkID: 999, Description: "Lost"})

	tr, err := Build(rec, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(tr.Roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(tr.Roots))
	}
	ch := tr.Node(tr.Roots[0])
	if ch.Title != "Earthworks" || ch.Kind() != model.KindChapter || ch.DisplayKind != model.KindChapter {
		t.Fatalf("unexpected chapter node: %+v", ch)
	}
	if len(ch.Children) != 1 {
		t.Fatalf("expected 1 work, got %d", len(ch.Children))
	}
	w := tr.Node(ch.Children[0])
	if w.Title != "Excavation" || len(w.Children) != 1 {
		t.Fatalf("unexpected work node: %+v", w)
	}
	r := tr.Node(w.Children[0])
	if r.Title != "Excavator-hours" || len(r.Children) != 0 {
		t.Fatalf("unexpected resource node: %+v", r)
	}

	lines := Outline(tr, LangEN)
	want := "Chapter: Earthworks\n  Work: Excavation\n    Resource: Excavator-hours\n"
	if got := OutlineText(lines); got != want {
		t.Fatalf("outline:\n got: %q\nwant: %q", got, want)
	}
	if len(tr.Orphans) != 0 {
		t.Fatalf("drop policy must not record orphans: %+v", tr.Orphans)
	}
}

func TestBuild_PreservesInputOrderAtEveryLevel(t *testing.T) {
	rec := model.Records{
		Chapters: []model.Chapter{{ID: 3, Name: "C"}, {ID: 1, Name: "A"}, {ID: 2, Name: "B"}},
		Works: []model.Work{
			{ID: 30, ChapterID: 1, Description: "w30"},
			{ID: 10, ChapterID: 3, Description: "w10"},
			{ID: 20, ChapterID: 1, Description: "w20"},
			{ID: 5, ChapterID: 3, Description: "w5"},
		},
		Resources: []model.Resource{
			{ID: 9, WorkID: 20, Description: "r9"},
			{ID: 1, WorkID: 30, Description: "r1"},
			{ID: 4, WorkID: 20, Description: "r4"},
			{ID: 2, WorkID: 10, Description: "r2"},
		},
	}
	tr, err := Build(rec, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ref := func(k model.Kind, id int64) model.NodeRef { return model.NodeRef{Kind: k, ID: id} }
	want := []model.NodeRef{
		ref(model.KindChapter, 3),
		ref(model.KindWork, 10),
		ref(model.KindResource, 2),
		ref(model.KindWork, 5),
		ref(model.KindChapter, 1),
		ref(model.KindWork, 30),
		ref(model.KindResource, 1),
		ref(model.KindWork, 20),
		ref(model.KindResource, 9),
		ref(model.KindResource, 4),
		ref(model.KindChapter, 2),
	}
	if got := refsInOrder(tr); !reflect.DeepEqual(got, want) {
		t.Fatalf("pre-order:\n got: %v\nwant: %v", got, want)
	}
}

func TestBuild_DropsDanglingReferences(t *testing.T) {
	rec := model.Records{
		Chapters: []model.Chapter{{ID: 1, Name: "A"}},
		Works: []model.Work{
			{ID: 10, ChapterID: 1, Description: "kept"},
			{ID: 11, ChapterID: 42, Description: "orphan work"},
		},
		Resources: []model.Resource{
			{ID: 100, WorkID: 10, Description: "kept"},
			// Parent work exists in the input but was itself dropped.
			{ID: 101, WorkID: 11, Description: "child of orphan"},
			{ID: 102, WorkID: 999, Description: "orphan resource"},
		},
	}

	tr, err := Build(rec, BuildOptions{Orphans: OrphanDrop})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, gone := range []model.NodeRef{
		{Kind: model.KindWork, ID: 11},
		{Kind: model.KindResource, ID: 101},
		{Kind: model.KindResource, ID: 102},
	} {
		if _, ok := tr.Lookup(gone); ok {
			t.Fatalf("expected %s to be dropped", gone)
		}
	}
	if tr.Len() != 3 {
		t.Fatalf("expected 3 nodes, got %d", tr.Len())
	}
	if got := tr.Counts(); got[model.KindChapter] != 1 || got[model.KindWork] != 1 || got[model.KindResource] != 1 {
		t.Fatalf("unexpected counts: %v", got)
	}
}

func TestBuild_WarnPolicyRecordsOrphans(t *testing.T) {
	rec := sampleRecords()
	rec.Works = append(rec.Works, model.Work{ID: 11, ChapterID: 7})
	rec.Resources = append(rec.Resources, model.Resource{ID: 101, WorkID: 999})

	tr, err := Build(rec, BuildOptions{Orphans: OrphanWarn})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []Orphan{
		{Ref: model.NodeRef{Kind: model.KindWork, ID: 11}, Parent: model.NodeRef{Kind: model.KindChapter, ID: 7}},
		{Ref: model.NodeRef{Kind: model.KindResource, ID: 101}, Parent: model.NodeRef{Kind: model.KindWork, ID: 999}},
	}
	if !reflect.DeepEqual(tr.Orphans, want) {
		t.Fatalf("orphans:\n got: %+v\nwant: %+v", tr.Orphans, want)
	}
	if tr.Len() != 3 {
		t.Fatalf("orphans must still be dropped; got %d nodes", tr.Len())
	}
}

func TestBuild_StrictPolicyFails(t *testing.T) {
	rec := sampleRecords()
	rec.Resources = append(rec.Resources, model.Resource{ID: 101, WorkID: 999})

	tr, err := Build(rec, BuildOptions{Orphans: OrphanStrict})
	if err == nil {
		t.Fatalf("expected error, got tree with %d nodes", tr.Len())
	}
	var oe *OrphanError
	if !errors.As(err, &oe) {
		t.Fatalf("expected *OrphanError, got %T", err)
	}
	if len(oe.Orphans) != 1 || oe.Orphans[0].Ref.String() != "resource:101" {
		t.Fatalf("unexpected orphans: %+v", oe.Orphans)
	}

	if _, err := Build(sampleRecords(), BuildOptions{Orphans: OrphanStrict}); err != nil {
		t.Fatalf("strict build of clean data: %v", err)
	}
}

func TestBuild_DuplicateChapterIDAttachesToFirst(t *testing.T) {
	rec := model.Records{
		Chapters: []model.Chapter{{ID: 1, Name: "first"}, {ID: 1, Name: "second"}},
		Works:    []model.Work{{ID: 10, ChapterID: 1, Description: "w"}},
	}
	tr, err := Build(rec, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(tr.Roots) != 2 {
		t.Fatalf("expected both chapters as roots, got %d", len(tr.Roots))
	}
	if n := len(tr.Node(tr.Roots[0]).Children); n != 1 {
		t.Fatalf("expected first chapter to own the work, got %d children", n)
	}
	if n := len(tr.Node(tr.Roots[1]).Children); n != 0 {
		t.Fatalf("expected second chapter to be empty, got %d children", n)
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	tr, err := Build(model.Records{}, BuildOptions{Orphans: OrphanStrict})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tr.Len() != 0 || len(tr.Roots) != 0 {
		t.Fatalf("expected empty tree")
	}
	if got := Outline(tr, LangRU); len(got) != 0 {
		t.Fatalf("expected empty outline, got %+v", got)
	}
}

func TestParseOrphanPolicy(t *testing.T) {
	for in, want := range map[string]OrphanPolicy{"": OrphanDrop, "drop": OrphanDrop, "WARN": OrphanWarn, "strict": OrphanStrict} {
		got, err := ParseOrphanPolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParseOrphanPolicy(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseOrphanPolicy("sometimes"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
