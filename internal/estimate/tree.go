package estimate

import (
	"fmt"
	"strings"

	"smeta/internal/model"
)

// OrphanPolicy controls what Build does with works/resources whose parent id
// does not resolve.
type OrphanPolicy int

const (
	// OrphanDrop discards orphans without a trace.
	OrphanDrop OrphanPolicy = iota
	// OrphanWarn discards orphans but records them in Tree.Orphans.
	OrphanWarn
	// OrphanStrict fails the build with *OrphanError.
	OrphanStrict
)

func (p OrphanPolicy) String() string {
	switch p {
	case OrphanWarn:
		return "warn"
	case OrphanStrict:
		return "strict"
	default:
		return "drop"
	}
}

func ParseOrphanPolicy(s string) (OrphanPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop", "silent":
		return OrphanDrop, nil
	case "warn", "warning":
		return OrphanWarn, nil
	case "strict", "fail", "error":
		return OrphanStrict, nil
	default:
		return OrphanDrop, fmt.Errorf("unknown orphan policy: %s (drop|warn|strict)", s)
	}
}

type BuildOptions struct {
	Orphans OrphanPolicy
}

// Orphan is a record that was not attached because its parent is missing.
type Orphan struct {
	Ref    model.NodeRef `json:"ref" yaml:"ref"`
	Parent model.NodeRef `json:"parent" yaml:"parent"`
}

type OrphanError struct {
	Orphans []Orphan
}

func (e *OrphanError) Error() string {
	parts := make([]string, 0, len(e.Orphans))
	for _, o := range e.Orphans {
		parts = append(parts, o.Ref.String()+" -> "+o.Parent.String())
	}
	return fmt.Sprintf("%d record(s) reference a missing parent: %s", len(e.Orphans), strings.Join(parts, ", "))
}

// Node is one entry of the tree arena. Parent and Children are indexes into Tree.Nodes.
type Node struct {
	Ref model.NodeRef
	// DisplayKind starts equal to Ref.Kind and may be changed without moving the node.
	DisplayKind model.Kind
	Title       string
	Parent      int
	Children    []int

	Chapter  *model.Chapter
	Work     *model.Work
	Resource *model.Resource
}

// Kind is the structural kind (tree level) of the node.
func (n *Node) Kind() model.Kind { return n.Ref.Kind }

type Tree struct {
	Nodes   []Node
	Roots   []int
	Orphans []Orphan

	index map[model.NodeRef]int
}

// Build assembles chapters, works and resources into a forest. Input order is
// preserved at every level; nothing is sorted or validated beyond parent lookup.
func Build(rec model.Records, opt BuildOptions) (*Tree, error) {
	t := &Tree{
		Nodes: make([]Node, 0, len(rec.Chapters)+len(rec.Works)+len(rec.Resources)),
		index: make(map[model.NodeRef]int, len(rec.Chapters)+len(rec.Works)+len(rec.Resources)),
	}

	for i := range rec.Chapters {
		c := rec.Chapters[i]
		idx := t.add(Node{
			Ref:     model.NodeRef{Kind: model.KindChapter, ID: c.ID},
			Title:   c.Name,
			Parent:  -1,
			Chapter: &c,
		})
		t.Roots = append(t.Roots, idx)
	}

	var orphans []Orphan
	for i := range rec.Works {
		w := rec.Works[i]
		parentRef := model.NodeRef{Kind: model.KindChapter, ID: w.ChapterID}
		parent, ok := t.index[parentRef]
		if !ok {
			orphans = append(orphans, Orphan{Ref: model.NodeRef{Kind: model.KindWork, ID: w.ID}, Parent: parentRef})
			continue
		}
		idx := t.add(Node{
			Ref:    model.NodeRef{Kind: model.KindWork, ID: w.ID},
			Title:  w.Description,
			Parent: parent,
			Work:   &w,
		})
		t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
	}

	// Only works that made it into the tree can own resources.
	for i := range rec.Resources {
		r := rec.Resources[i]
		parentRef := model.NodeRef{Kind: model.KindWork, ID: r.WorkID}
		parent, ok := t.index[parentRef]
		if !ok {
			orphans = append(orphans, Orphan{Ref: model.NodeRef{Kind: model.KindResource, ID: r.ID}, Parent: parentRef})
			continue
		}
		idx := t.add(Node{
			Ref:      model.NodeRef{Kind: model.KindResource, ID: r.ID},
			Title:    r.Description,
			Parent:   parent,
			Resource: &r,
		})
		t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
	}

	switch opt.Orphans {
	case OrphanStrict:
		if len(orphans) > 0 {
			return nil, &OrphanError{Orphans: orphans}
		}
	case OrphanWarn:
		t.Orphans = orphans
	}
	return t, nil
}

func (t *Tree) add(n Node) int {
	n.DisplayKind = n.Ref.Kind
	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, n)
	// Duplicate ids keep the first node as the attach target.
	if _, exists := t.index[n.Ref]; !exists {
		t.index[n.Ref] = idx
	}
	return idx
}

func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Nodes)
}

func (t *Tree) Node(idx int) *Node {
	if t == nil || idx < 0 || idx >= len(t.Nodes) {
		return nil
	}
	return &t.Nodes[idx]
}

func (t *Tree) Lookup(ref model.NodeRef) (*Node, bool) {
	if t == nil {
		return nil, false
	}
	idx, ok := t.index[ref]
	if !ok {
		return nil, false
	}
	return &t.Nodes[idx], true
}

// IndexOf returns the arena index for ref, or -1.
func (t *Tree) IndexOf(ref model.NodeRef) int {
	if t == nil {
		return -1
	}
	idx, ok := t.index[ref]
	if !ok {
		return -1
	}
	return idx
}

// Walk visits every node in pre-order. Returning false from fn skips the node's subtree.
func (t *Tree) Walk(fn func(idx int, n *Node, depth int) bool) {
	if t == nil {
		return
	}
	var visit func(idx, depth int)
	visit = func(idx, depth int) {
		n := &t.Nodes[idx]
		if !fn(idx, n, depth) {
			return
		}
		for _, ch := range n.Children {
			visit(ch, depth+1)
		}
	}
	for _, r := range t.Roots {
		visit(r, 0)
	}
}

// Counts returns the number of attached chapters, works and resources.
func (t *Tree) Counts() map[model.Kind]int {
	out := map[model.Kind]int{}
	if t == nil {
		return out
	}
	for i := range t.Nodes {
		out[t.Nodes[i].Ref.Kind]++
	}
	return out
}
