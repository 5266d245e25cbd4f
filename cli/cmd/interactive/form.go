package interactive

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/runtpl/log"
	"github.com/ardnew/runtpl/tpl"
)

const (
	formPrompt   = "➜ "
	defaultWidth = 60
	listHint     = "JSON array or comma-separated values"
)

// Styles.
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	focusedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// field is one input of the form, bound to a path of the scaffold.
type field struct {
	path  []string
	list  bool
	input textinput.Model
}

func (f field) label() string { return strings.Join(f.path, ".") }

// value converts the text entered into the value bound to the field.
// List fields accept a JSON array, or else split on commas.
func (f field) value() tpl.Value {
	text := f.input.Value()
	if !f.list {
		return tpl.String(text)
	}

	if v, err := tpl.ParseJSON([]byte(text)); err == nil {
		if _, ok := v.AsList(); ok {
			return v
		}
	}

	var items []string

	for item := range strings.SplitSeq(text, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return tpl.Strings(items...)
}

// form is the Bubble Tea model of the variable form.
type form struct {
	fields    []field
	focus     int
	submitted bool
	canceled  bool
}

func newForm(scaffold *tpl.Object) form {
	var m form

	m.addFields(nil, scaffold)

	if len(m.fields) > 0 {
		m.fields[0].input.Focus()
	}

	return m
}

// addFields adds one field per leaf of obj, depth first.
func (m *form) addFields(prefix []string, obj *tpl.Object) {
	for key, val := range obj.All() {
		path := append(prefix[:len(prefix):len(prefix)], key)

		if sub, ok := val.AsObject(); ok {
			m.addFields(path, sub)

			continue
		}

		ti := textinput.New()
		ti.Prompt = formPrompt
		ti.Width = defaultWidth

		_, isList := val.AsList()
		if isList {
			ti.Placeholder = listHint

			if items, _ := val.AsList(); len(items) > 0 {
				if example, err := val.MarshalJSON(); err == nil {
					ti.Placeholder = string(example)
				}
			}
		}

		m.fields = append(m.fields, field{path: path, list: isList, input: ti})
	}
}

// result assembles the entered values into a context object.
func (m form) result() *tpl.Object {
	root := tpl.NewObject()

	for _, f := range m.fields {
		obj := root

		for _, seg := range f.path[:len(f.path)-1] {
			next, _ := obj.Get(seg)

			sub, ok := next.AsObject()
			if !ok {
				sub = tpl.NewObject()
				obj.Set(seg, tpl.ObjectValue(sub))
			}

			obj = sub
		}

		obj.Set(f.path[len(f.path)-1], f.value())
	}

	return root
}

func (m form) Init() tea.Cmd {
	return textinput.Blink
}

func (m form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.canceled = true

			return m, tea.Quit

		case "enter":
			if m.focus == len(m.fields)-1 {
				m.submitted = true

				return m, tea.Quit
			}

			return m.move(1)

		case "tab", "down":
			return m.move(1)

		case "shift+tab", "up":
			return m.move(-1)
		}

	case tea.WindowSizeMsg:
		for i := range m.fields {
			m.fields[i].input.Width = max(msg.Width-len(formPrompt)-2, 1)
		}

		return m, nil
	}

	if len(m.fields) == 0 {
		return m, nil
	}

	var cmd tea.Cmd

	m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)

	return m, cmd
}

// move shifts focus by delta, wrapping around.
func (m form) move(delta int) (tea.Model, tea.Cmd) {
	if len(m.fields) == 0 {
		return m, nil
	}

	m.fields[m.focus].input.Blur()
	m.focus = (m.focus + delta + len(m.fields)) % len(m.fields)

	return m, m.fields[m.focus].input.Focus()
}

func (m form) View() string {
	if m.submitted || m.canceled {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Template variables"))
	sb.WriteString("\n\n")

	for i, f := range m.fields {
		style := labelStyle
		if i == m.focus {
			style = focusedStyle
		}

		sb.WriteString(style.Render(f.label()))

		if f.list {
			sb.WriteString(" " + hintStyle.Render("(list)"))
		}

		sb.WriteString("\n" + f.input.View() + "\n\n")
	}

	sb.WriteString(hintStyle.Render(
		"tab/shift+tab: move • enter: next or submit • esc: cancel"))
	sb.WriteString("\n")

	return sb.String()
}

// Form asks for each leaf of scaffold in a terminal form and returns the
// entered values. It returns [ErrCanceled] if the user leaves the form.
func Form(
	ctx context.Context,
	scaffold *tpl.Object,
	in io.Reader,
	out io.Writer,
	logger log.Logger,
) (*tpl.Object, error) {
	m := newForm(scaffold)

	logger.TraceContext(ctx, "form start", slog.Int("field_count", len(m.fields)))

	if len(m.fields) == 0 {
		return tpl.NewObject(), nil
	}

	final, err := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	).Run()
	if err != nil {
		return nil, err
	}

	done, ok := final.(form)
	if !ok || !done.submitted {
		return nil, ErrCanceled
	}

	return done.result(), nil
}
