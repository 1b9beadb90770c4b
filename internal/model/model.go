package model

import (
	"fmt"
	"strconv"
	"strings"
)

type Kind string

const (
	KindChapter  Kind = "chapter"
	KindWork     Kind = "work"
	KindResource Kind = "resource"
)

// Kinds lists the node kinds in tree-level order.
var Kinds = []Kind{KindChapter, KindWork, KindResource}

func (k Kind) Valid() bool {
	switch k {
	case KindChapter, KindWork, KindResource:
		return true
	default:
		return false
	}
}

type Chapter struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	// ExcelRow is the row the chapter was imported from; provenance only.
	ExcelRow *int64 `json:"excelRow,omitempty" yaml:"excelRow,omitempty"`
}

type Work struct {
	ID          int64   `json:"id" yaml:"id"`
	ChapterID   int64   `json:"chapterId" yaml:"chapterId"`
	Code        string  `json:"code,omitempty" yaml:"code,omitempty"`
	Description string  `json:"description" yaml:"description"`
	Quantity    float64 `json:"quantity" yaml:"quantity"`
}

type Resource struct {
	ID          int64   `json:"id" yaml:"id"`
	WorkID      int64   `json:"workId" yaml:"workId"`
	Type        string  `json:"type,omitempty" yaml:"type,omitempty"`
	Code        string  `json:"code,omitempty" yaml:"code,omitempty"`
	Description string  `json:"description" yaml:"description"`
	Quantity    float64 `json:"quantity" yaml:"quantity"`
}

// Records is one snapshot of the three estimate tables, in fetch order.
type Records struct {
	Chapters  []Chapter  `json:"chapters" yaml:"chapters"`
	Works     []Work     `json:"works" yaml:"works"`
	Resources []Resource `json:"resources" yaml:"resources"`
}

// NodeRef identifies a record by table and primary key, e.g. "work:10".
type NodeRef struct {
	Kind Kind  `json:"kind" yaml:"kind"`
	ID   int64 `json:"id" yaml:"id"`
}

func (r NodeRef) String() string {
	return string(r.Kind) + ":" + strconv.FormatInt(r.ID, 10)
}

func (r NodeRef) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *NodeRef) UnmarshalText(b []byte) error {
	ref, err := ParseNodeRef(string(b))
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

func ParseNodeRef(s string) (NodeRef, error) {
	s = strings.TrimSpace(s)
	kind, id, ok := strings.Cut(s, ":")
	if !ok {
		return NodeRef{}, fmt.Errorf("invalid node ref %q (want kind:id, e.g. work:10)", s)
	}
	k := Kind(strings.ToLower(strings.TrimSpace(kind)))
	if !k.Valid() {
		return NodeRef{}, fmt.Errorf("invalid node ref %q: unknown kind %q", s, kind)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return NodeRef{}, fmt.Errorf("invalid node ref %q: bad id", s)
	}
	return NodeRef{Kind: k, ID: n}, nil
}

// LooksLikeNodeRef reports whether s has the kind:id shape, without validating the id.
func LooksLikeNodeRef(s string) bool {
	kind, id, ok := strings.Cut(strings.TrimSpace(s), ":")
	return ok && Kind(strings.ToLower(kind)).Valid() && id != ""
}
