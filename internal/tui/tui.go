package tui

import (
	"context"

	"smeta/internal/estimate"
	"smeta/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Backend is an open estimate database.
type Backend interface {
	store.Source
	store.KindStore
	Close() error
}

type ConnectFunc func(ctx context.Context, p store.ConnParams) (Backend, error)

type Options struct {
	// Params pre-fill the connection form.
	Params       store.ConnParams
	Build        estimate.BuildOptions
	PersistKinds bool
	Lang         estimate.Lang
	Logger       *zap.Logger

	// SaveParams is called after a successful connect.
	SaveParams func(store.ConnParams) error
	// Connect defaults to store.Connect.
	Connect ConnectFunc
}

func Run(opt Options) error {
	applyThemePreference()
	applyColorProfilePreference()

	m := newAppModel(opt)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if fm, ok := final.(appModel); ok {
		fm.closeBackend()
	}
	return err
}

func connectStore(ctx context.Context, p store.ConnParams) (Backend, error) {
	conn, err := store.Connect(ctx, p)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
