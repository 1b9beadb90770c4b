package tui

import (
	"strings"
	"testing"

	"smeta/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func TestConnectForm_SQLiteHidesServerFields(t *testing.T) {
	t.Parallel()
	f := newConnectForm(store.DefaultConnParams())
	if got := f.visibleFields(); len(got) != 2 {
		t.Fatalf("expected type + db name for sqlite, got %v", got)
	}
	if strings.Contains(f.view(80), "Хост") {
		t.Fatalf("host must be hidden for sqlite")
	}
}

func TestConnectForm_CycleTypeFillsDefaultPort(t *testing.T) {
	t.Parallel()
	f := newConnectForm(store.DefaultConnParams())
	f.update(tea.KeyMsg{Type: tea.KeyRight})
	if f.dbType != store.DBTypeMySQL || f.inputs[fieldPort].Value() != "3306" {
		t.Fatalf("expected mysql/3306, got %s/%s", f.dbType, f.inputs[fieldPort].Value())
	}
	f.update(tea.KeyMsg{Type: tea.KeyRight})
	if f.dbType != store.DBTypePostgres || f.inputs[fieldPort].Value() != "5432" {
		t.Fatalf("expected postgres/5432, got %s/%s", f.dbType, f.inputs[fieldPort].Value())
	}
	if len(f.visibleFields()) != 6 {
		t.Fatalf("expected all fields for postgres")
	}
	f.update(tea.KeyMsg{Type: tea.KeyLeft})
	f.update(tea.KeyMsg{Type: tea.KeyLeft})
	if f.dbType != store.DBTypeSQLite || f.inputs[fieldPort].Value() != "" {
		t.Fatalf("expected sqlite with no port, got %s/%q", f.dbType, f.inputs[fieldPort].Value())
	}
}

func TestConnectForm_CustomPortSurvivesTypeChange(t *testing.T) {
	t.Parallel()
	f := newConnectForm(store.ConnParams{DBType: store.DBTypePostgres, Host: "db", Port: 6543, User: "u", DBName: "est"})
	f.update(tea.KeyMsg{Type: tea.KeyLeft})
	if f.dbType != store.DBTypeMySQL || f.inputs[fieldPort].Value() != "6543" {
		t.Fatalf("custom port should be kept, got %q", f.inputs[fieldPort].Value())
	}
}

func TestConnectForm_TypingAndParams(t *testing.T) {
	t.Parallel()
	f := newConnectForm(store.ConnParams{DBType: store.DBTypePostgres})
	f.update(tea.KeyMsg{Type: tea.KeyTab})
	if f.focus != fieldHost {
		t.Fatalf("expected host focus, got %v", f.focus)
	}
	f.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("db.local")})
	f.update(tea.KeyMsg{Type: tea.KeyTab})
	f.inputs[fieldPort].SetValue("x")
	if _, err := f.params(); err == nil {
		t.Fatalf("expected port error")
	}
	f.inputs[fieldPort].SetValue("5433")

	// Enter advances until the last field, where it submits.
	var submit bool
	for i := 0; i < 3 && !submit; i++ {
		_, submit = f.update(tea.KeyMsg{Type: tea.KeyEnter})
	}
	if submit || f.focus != fieldDBName {
		t.Fatalf("expected db name focus before submit, focus=%v", f.focus)
	}
	f.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("smeta")})
	if _, submit = f.update(tea.KeyMsg{Type: tea.KeyEnter}); !submit {
		t.Fatalf("expected submit on last field")
	}

	p, err := f.params()
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if p.Host != "db.local" || p.Port != 5433 || p.DBName != "smeta" || p.DBType != store.DBTypePostgres {
		t.Fatalf("unexpected params: %+v", p)
	}
}

func TestConnectForm_ShiftTabWraps(t *testing.T) {
	t.Parallel()
	f := newConnectForm(store.DefaultConnParams())
	f.update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if f.focus != fieldDBName {
		t.Fatalf("expected wrap to last field, got %v", f.focus)
	}
}
