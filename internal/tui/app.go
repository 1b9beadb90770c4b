package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smeta/internal/estimate"
	"smeta/internal/model"
	"smeta/internal/publish"
	"smeta/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type screen int

const (
	screenConnect screen = iota
	screenBrowse
)

const opTimeout = 30 * time.Second

type connectedMsg struct {
	params  store.ConnParams
	backend Backend
	session *store.Session
	tree    *estimate.Tree
	err     error
}

type reloadedMsg struct {
	tree *estimate.Tree
	err  error
}

type appModel struct {
	opt     Options
	connect ConnectFunc
	log     *zap.Logger
	keys    keyMap
	help    help.Model

	width  int
	height int

	screen screen
	form   connectForm
	busy   string

	backend Backend
	session *store.Session
	tree    *estimate.Tree
	diagram estimate.Diagram

	rows       []outlineRow
	collapsed  map[model.NodeRef]bool
	selected   int
	showReport bool

	err    error
	status string
}

func newAppModel(opt Options) appModel {
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	connect := opt.Connect
	if connect == nil {
		connect = connectStore
	}
	return appModel{
		opt:       opt,
		connect:   connect,
		log:       log,
		keys:      defaultKeyMap(),
		help:      help.New(),
		screen:    screenConnect,
		form:      newConnectForm(opt.Params),
		collapsed: map[model.NodeRef]bool{},
	}
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case connectedMsg:
		m.busy = ""
		if msg.err != nil {
			// Stay on the form; the user can fix the settings and retry.
			m.err = msg.err
			return m, nil
		}
		m.backend = msg.backend
		m.session = msg.session
		m.screen = screenBrowse
		m.err = nil
		m.collapsed = map[model.NodeRef]bool{}
		m.selected = 0
		m.setTree(msg.tree)
		m.status = "подключено: " + msg.params.Describe()
		if m.opt.SaveParams != nil {
			if err := m.opt.SaveParams(msg.params); err != nil {
				m.err = fmt.Errorf("save settings: %w", err)
			}
		}
		return m, nil

	case reloadedMsg:
		m.busy = ""
		if msg.err != nil {
			// The previous tree stays on screen.
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.setTree(msg.tree)
		m.status = "обновлено " + time.Now().Format("15:04:05")
		return m, nil

	case tea.KeyMsg:
		if m.screen == screenConnect {
			return m.updateConnect(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m appModel) updateConnect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.err = nil
		return m, nil
	}
	if m.busy != "" {
		return m, nil
	}
	cmd, submit := m.form.update(msg)
	if !submit {
		return m, cmd
	}
	p, err := m.form.params()
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.busy = "подключение…"
	return m, m.connectCmd(p)
}

func (m appModel) connectCmd(p store.ConnParams) tea.Cmd {
	connect := m.connect
	opt := m.opt
	log := m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		if p.Port == 0 {
			p.Port = store.DefaultPort(p.DBType)
		}
		log.Info("connecting", zap.String("target", p.Describe()))
		b, err := connect(ctx, p)
		if err != nil {
			log.Warn("connect failed", zap.Error(err))
			return connectedMsg{err: err}
		}
		s := store.NewSession(b, b, store.SessionOptions{
			Build:        opt.Build,
			PersistKinds: opt.PersistKinds,
			Logger:       log,
		})
		tree, err := s.Load(ctx)
		if err != nil {
			_ = b.Close()
			return connectedMsg{err: err}
		}
		return connectedMsg{params: p, backend: b, session: s, tree: tree}
	}
}

func (m appModel) reloadCmd() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		tree, err := s.Load(ctx)
		return reloadedMsg{tree: tree, err: err}
	}
}

func (m appModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Dismiss):
		switch {
		case m.err != nil:
			m.err = nil
		case m.help.ShowAll:
			m.help.ShowAll = false
		case m.showReport:
			m.showReport = false
		}
		return m, nil
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	if m.busy != "" {
		return m, nil
	}

	switch {
	case key.Matches(msg, k.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, k.Down):
		if m.selected < len(m.rows)-1 {
			m.selected++
		}
	case key.Matches(msg, k.Collapse):
		m.collapseSelected()
	case key.Matches(msg, k.Expand):
		if r, ok := m.selectedRow(); ok && r.hasChildren && r.collapsed {
			delete(m.collapsed, r.ref)
			m.refreshRows(r.ref)
		}
	case key.Matches(msg, k.SetChapter):
		m.setDisplayKind(model.KindChapter)
	case key.Matches(msg, k.SetWork):
		m.setDisplayKind(model.KindWork)
	case key.Matches(msg, k.SetRes):
		m.setDisplayKind(model.KindResource)
	case key.Matches(msg, k.Report):
		m.showReport = !m.showReport
	case key.Matches(msg, k.Reload):
		m.busy = "загрузка…"
		return m, m.reloadCmd()
	case key.Matches(msg, k.Disconnect):
		m.closeBackend()
		m.backend, m.session, m.tree, m.rows = nil, nil, nil, nil
		m.diagram = estimate.Diagram{}
		m.screen = screenConnect
		m.status = ""
		m.err = nil
	}
	return m, nil
}

// collapseSelected folds the selected node, or jumps to its parent when it is
// already folded or a leaf.
func (m *appModel) collapseSelected() {
	r, ok := m.selectedRow()
	if !ok {
		return
	}
	if r.hasChildren && !r.collapsed {
		m.collapsed[r.ref] = true
		m.refreshRows(r.ref)
		return
	}
	if n, ok := m.tree.Lookup(r.ref); ok {
		if p := m.tree.Node(n.Parent); p != nil {
			m.selectRef(p.Ref)
		}
	}
}

// setDisplayKind mirrors the original context menu: only the display tag changes.
func (m *appModel) setDisplayKind(k model.Kind) {
	r, ok := m.selectedRow()
	if !ok || m.session == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	res, err := m.session.SetDisplayKind(ctx, r.ref, string(k))
	if err != nil {
		m.err = err
		return
	}
	if res.Changed {
		m.status = fmt.Sprintf("%s → %s", r.ref, estimate.KindWord(k, m.opt.Lang))
	}
	m.refreshRows(r.ref)
}

func (m *appModel) setTree(t *estimate.Tree) {
	var keep model.NodeRef
	if r, ok := m.selectedRow(); ok {
		keep = r.ref
	}
	m.tree = t
	m.refreshRows(keep)
}

// refreshRows rebuilds the visible rows and the diagram, keeping ref selected when present.
func (m *appModel) refreshRows(ref model.NodeRef) {
	m.rows = flattenTree(m.tree, m.collapsed, m.opt.Lang)
	if m.tree != nil {
		m.diagram = estimate.Layout(m.tree, estimate.DefaultLayout())
	}
	if !m.selectRef(ref) {
		m.selected = min(m.selected, max(len(m.rows)-1, 0))
	}
}

func (m *appModel) selectRef(ref model.NodeRef) bool {
	for i, r := range m.rows {
		if r.ref == ref {
			m.selected = i
			return true
		}
	}
	return false
}

func (m appModel) selectedRow() (outlineRow, bool) {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return outlineRow{}, false
	}
	return m.rows[m.selected], true
}

func (m appModel) closeBackend() {
	if m.backend != nil {
		if err := m.backend.Close(); err != nil {
			m.log.Warn("close failed", zap.Error(err))
		}
	}
}

func (m appModel) View() string {
	width, height := m.width, m.height
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 30
	}

	var footer []string
	if m.err != nil {
		footer = append(footer, m.errorBanner(width))
	}
	if m.busy != "" {
		footer = append(footer, styleMuted().Render(m.busy))
	}

	if m.screen == screenConnect {
		return lipgloss.JoinVertical(lipgloss.Left, append([]string{m.form.view(width)}, footer...)...)
	}

	if m.status != "" {
		footer = append(footer, styleMuted().Render(m.status))
	}
	footer = append(footer, m.help.View(m.keys))
	bodyHeight := max(height-lipgloss.Height(strings.Join(footer, "\n")), 1)

	leftW, rightW := splitWidths(width)
	left := normalizePane(renderOutline(m.rows, m.selected, leftW, bodyHeight, m.opt.Lang), leftW, bodyHeight)
	body := left
	if rightW > 0 {
		sep := normalizePane(strings.TrimRight(strings.Repeat("│\n", bodyHeight), "\n"), 1, bodyHeight)
		right := normalizePane(m.sidePanel(rightW-1), rightW, bodyHeight)
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, styleMuted().Render(sep), " "+right)
	}
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{body}, footer...)...)
}

func (m appModel) errorBanner(width int) string {
	st := lipgloss.NewStyle().Background(colorErrorBg).Foreground(colorErrorFg).Padding(0, 1)
	return st.Render(fitLine("Ошибка: "+m.err.Error()+"  (esc)", max(width-2, 1)))
}

// sidePanel is the properties panel, or the rendered report when toggled.
func (m appModel) sidePanel(width int) string {
	if m.tree == nil {
		return ""
	}
	if m.showReport {
		return RenderMarkdown(publish.RenderMarkdown(m.tree, publish.RenderOptions{Lang: m.opt.Lang}), width)
	}
	r, ok := m.selectedRow()
	if !ok {
		return styleMuted().Render("Нет данных")
	}
	n, ok := m.tree.Lookup(r.ref)
	if !ok {
		return ""
	}
	props := estimate.Inspect(m.tree, n)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Свойства"))
	b.WriteString("  ")
	b.WriteString(kindBadge(n.DisplayKind).Render(estimate.KindWord(n.DisplayKind, m.opt.Lang)))
	b.WriteString("\n\n")
	b.WriteString(props.Text(m.opt.Lang))
	b.WriteString("\n\n")
	if box, ok := m.diagram.Box(r.ref); ok {
		b.WriteString(styleMuted().Render(fmt.Sprintf("Блок: x=%g y=%g  %g×%g", box.X, box.Y, box.Width, box.Height)))
		b.WriteString("\n")
	}
	b.WriteString(styleMuted().Render(fmt.Sprintf("Дочерних: %d  · ссылка %s", len(n.Children), n.Ref)))
	return b.String()
}
