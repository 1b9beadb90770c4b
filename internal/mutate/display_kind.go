package mutate

import (
	"strings"

	"smeta/internal/estimate"
	"smeta/internal/model"
)

type SetDisplayKindResult struct {
	Node     *estimate.Node
	Previous model.Kind
	Changed  bool
}

// NormalizeKind maps user input (English or Russian, any case) to a node kind.
func NormalizeKind(kind string) (model.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "chapter", "c", "раздел":
		return model.KindChapter, nil
	case "work", "w", "работа":
		return model.KindWork, nil
	case "resource", "r", "ресурс":
		return model.KindResource, nil
	default:
		return "", ErrInvalidKind
	}
}

// SetDisplayKind changes only the display tag of the node at ref.
// Tree membership and order are untouched; callers decide whether to persist.
func SetDisplayKind(t *estimate.Tree, ref model.NodeRef, kind string) (SetDisplayKindResult, error) {
	n, ok := t.Lookup(ref)
	if !ok {
		return SetDisplayKindResult{}, NotFoundError{Kind: string(ref.Kind), ID: ref.String()}
	}
	next, err := NormalizeKind(kind)
	if err != nil {
		return SetDisplayKindResult{}, err
	}
	prev := n.DisplayKind
	if prev == next {
		return SetDisplayKindResult{Node: n, Previous: prev, Changed: false}, nil
	}
	n.DisplayKind = next
	return SetDisplayKindResult{Node: n, Previous: prev, Changed: true}, nil
}
