package store

import (
	"context"
	"time"

	"smeta/internal/estimate"
	"smeta/internal/model"
	"smeta/internal/mutate"

	"go.uber.org/zap"
)

// Source yields one snapshot of the estimate tables.
type Source interface {
	Fetch(ctx context.Context) (model.Records, error)
}

// KindStore persists display-type overrides.
type KindStore interface {
	LoadDisplayKinds(ctx context.Context) (map[model.NodeRef]model.Kind, error)
	SaveDisplayKind(ctx context.Context, ref model.NodeRef, kind model.Kind) error
}

type SessionOptions struct {
	Build estimate.BuildOptions
	// PersistKinds writes display-type changes through to Kinds.
	PersistKinds bool
	Logger       *zap.Logger
}

// Session owns the current estimate tree. Load replaces it wholesale; a failed
// load leaves the previous tree in place.
type Session struct {
	src   Source
	kinds KindStore
	opt   SessionOptions
	log   *zap.Logger

	tree     *estimate.Tree
	loadedAt time.Time
}

// NewSession creates a session; kinds may be nil when overrides are not stored.
func NewSession(src Source, kinds KindStore, opt SessionOptions) *Session {
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{src: src, kinds: kinds, opt: opt, log: log}
}

func (s *Session) Tree() *estimate.Tree { return s.tree }

func (s *Session) LoadedAt() time.Time { return s.loadedAt }

func (s *Session) Options() SessionOptions { return s.opt }

func (s *Session) Load(ctx context.Context) (*estimate.Tree, error) {
	start := time.Now()
	rec, err := s.src.Fetch(ctx)
	if err != nil {
		s.log.Warn("load failed", zap.Error(err))
		return s.tree, err
	}
	tree, err := estimate.Build(rec, s.opt.Build)
	if err != nil {
		s.log.Warn("build failed", zap.Error(err))
		return s.tree, err
	}
	if s.kinds != nil {
		overrides, err := s.kinds.LoadDisplayKinds(ctx)
		if err != nil {
			s.log.Warn("load display types failed", zap.Error(err))
			return s.tree, err
		}
		for ref, k := range overrides {
			if n, ok := tree.Lookup(ref); ok {
				n.DisplayKind = k
			}
		}
	}
	for _, o := range tree.Orphans {
		s.log.Warn("dropped record with missing parent",
			zap.Stringer("ref", o.Ref),
			zap.Stringer("parent", o.Parent),
		)
	}

	s.tree = tree
	s.loadedAt = time.Now()
	counts := tree.Counts()
	s.log.Info("estimate loaded",
		zap.Int("chapters", counts[model.KindChapter]),
		zap.Int("works", counts[model.KindWork]),
		zap.Int("resources", counts[model.KindResource]),
		zap.Int("orphans", len(tree.Orphans)),
		zap.Duration("took", time.Since(start)),
	)
	return tree, nil
}

// SetDisplayKind changes the display type of one node and, if enabled, persists it.
// A persistence failure reverts the in-memory change.
func (s *Session) SetDisplayKind(ctx context.Context, ref model.NodeRef, kind string) (mutate.SetDisplayKindResult, error) {
	res, err := mutate.SetDisplayKind(s.tree, ref, kind)
	if err != nil || !res.Changed {
		return res, err
	}
	if s.opt.PersistKinds && s.kinds != nil {
		if err := s.kinds.SaveDisplayKind(ctx, ref, res.Node.DisplayKind); err != nil {
			res.Node.DisplayKind = res.Previous
			return mutate.SetDisplayKindResult{}, err
		}
	}
	s.log.Info("display type changed",
		zap.Stringer("ref", ref),
		zap.String("from", string(res.Previous)),
		zap.String("to", string(res.Node.DisplayKind)),
		zap.Bool("persisted", s.opt.PersistKinds && s.kinds != nil),
	)
	return res, nil
}
