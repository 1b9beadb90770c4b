package tui

import (
	"fmt"
	"strconv"
	"strings"

	"smeta/internal/store"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type formField int

const (
	fieldDBType formField = iota
	fieldHost
	fieldPort
	fieldUser
	fieldPassword
	fieldDBName
)

var fieldLabels = map[formField]string{
	fieldDBType:   "Тип БД",
	fieldHost:     "Хост",
	fieldPort:     "Порт",
	fieldUser:     "Пользователь",
	fieldPassword: "Пароль",
	fieldDBName:   "База данных",
}

// connectForm collects connection parameters. The db type is a cycle picker;
// server fields are hidden for sqlite.
type connectForm struct {
	dbType store.DBType
	inputs map[formField]*textinput.Model
	focus  formField
}

func newConnectForm(p store.ConnParams) connectForm {
	f := connectForm{dbType: p.DBType, inputs: map[formField]*textinput.Model{}}
	if f.dbType == "" {
		f.dbType = store.DBTypeSQLite
	}
	mk := func(field formField, value, placeholder string) {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholder
		in.CharLimit = 256
		in.Width = 40
		in.SetValue(value)
		f.inputs[field] = &in
	}
	port := ""
	if p.Port != 0 {
		port = strconv.Itoa(p.Port)
	}
	mk(fieldHost, p.Host, "localhost")
	mk(fieldPort, port, strconv.Itoa(store.DefaultPort(store.DBTypePostgres)))
	mk(fieldUser, p.User, "")
	mk(fieldPassword, p.Password, "")
	mk(fieldDBName, p.DBName, store.DefaultConnParams().DBName)
	f.inputs[fieldPassword].EchoMode = textinput.EchoPassword
	f.inputs[fieldPassword].EchoCharacter = '•'
	f.focus = fieldDBType
	return f
}

func (f connectForm) visibleFields() []formField {
	if f.dbType == store.DBTypeSQLite {
		return []formField{fieldDBType, fieldDBName}
	}
	return []formField{fieldDBType, fieldHost, fieldPort, fieldUser, fieldPassword, fieldDBName}
}

func (f *connectForm) move(delta int) tea.Cmd {
	fields := f.visibleFields()
	pos := 0
	for i, fl := range fields {
		if fl == f.focus {
			pos = i
		}
	}
	pos = (pos + delta + len(fields)) % len(fields)
	return f.setFocus(fields[pos])
}

func (f *connectForm) setFocus(field formField) tea.Cmd {
	for fl, in := range f.inputs {
		if fl != field {
			in.Blur()
		}
	}
	f.focus = field
	if in, ok := f.inputs[field]; ok {
		return in.Focus()
	}
	return nil
}

// cycleType switches the db type and fills in the default port for it.
func (f *connectForm) cycleType(delta int) {
	idx := 0
	for i, t := range store.DBTypes {
		if t == f.dbType {
			idx = i
		}
	}
	n := len(store.DBTypes)
	prev := f.dbType
	f.dbType = store.DBTypes[(idx+delta+n)%n]

	port := f.inputs[fieldPort]
	if v := strings.TrimSpace(port.Value()); v == "" || v == strconv.Itoa(store.DefaultPort(prev)) {
		if def := store.DefaultPort(f.dbType); def != 0 {
			port.SetValue(strconv.Itoa(def))
		} else {
			port.SetValue("")
		}
	}
}

// update handles one key. submit is true when the user asked to connect.
func (f *connectForm) update(msg tea.KeyMsg) (cmd tea.Cmd, submit bool) {
	switch msg.String() {
	case "enter":
		fields := f.visibleFields()
		if f.focus == fields[len(fields)-1] {
			return nil, true
		}
		return f.move(1), false
	case "ctrl+s":
		return nil, true
	case "tab", "down":
		return f.move(1), false
	case "shift+tab", "up":
		return f.move(-1), false
	}
	if f.focus == fieldDBType {
		switch msg.String() {
		case "left", "h":
			f.cycleType(-1)
		case "right", "l", " ":
			f.cycleType(1)
		}
		return nil, false
	}
	in := f.inputs[f.focus]
	updated, cmd := in.Update(msg)
	*in = updated
	return cmd, false
}

func (f connectForm) params() (store.ConnParams, error) {
	p := store.ConnParams{
		DBType: f.dbType,
		DBName: strings.TrimSpace(f.inputs[fieldDBName].Value()),
	}
	if f.dbType == store.DBTypeSQLite {
		return p, nil
	}
	p.Host = strings.TrimSpace(f.inputs[fieldHost].Value())
	p.User = strings.TrimSpace(f.inputs[fieldUser].Value())
	p.Password = f.inputs[fieldPassword].Value()
	if v := strings.TrimSpace(f.inputs[fieldPort].Value()); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return store.ConnParams{}, fmt.Errorf("port must be a number: %q", v)
		}
		p.Port = port
	}
	return p, nil
}

func (f connectForm) view(width int) string {
	labelStyle := lipgloss.NewStyle().Width(14).Foreground(colorMuted)
	focusLabel := labelStyle.Foreground(colorAccent).Bold(true)
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Подключение к базе данных"))
	b.WriteString("\n\n")
	for _, fl := range f.visibleFields() {
		ls := labelStyle
		if fl == f.focus {
			ls = focusLabel
		}
		b.WriteString(ls.Render(fieldLabels[fl]))
		if fl == fieldDBType {
			b.WriteString(f.typePicker())
		} else {
			b.WriteString(f.inputs[fl].View())
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styleMuted().Render("tab/↑↓ field · ←/→ type · enter connect · ctrl+c quit"))
	return lipgloss.NewStyle().Padding(1, 2).MaxWidth(max(width, 0)).Render(b.String())
}

func (f connectForm) typePicker() string {
	parts := make([]string, 0, len(store.DBTypes))
	for _, t := range store.DBTypes {
		if t == f.dbType {
			parts = append(parts, lipgloss.NewStyle().Background(colorAccent).Foreground(colorAccentFg).Padding(0, 1).Render(string(t)))
			continue
		}
		parts = append(parts, styleMuted().Padding(0, 1).Render(string(t)))
	}
	return strings.Join(parts, " ")
}
