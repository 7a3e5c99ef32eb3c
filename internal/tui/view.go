package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/roach88/valet/internal/editor"
	"github.com/roach88/valet/internal/license"
	"github.com/roach88/valet/internal/notes"
)

const (
	labelWidth  = 16
	maxContentW = 96
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	modeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	labelStyle    = lipgloss.NewStyle().Width(labelWidth).Foreground(lipgloss.Color("245"))
	focusStyle    = labelStyle.Foreground(lipgloss.Color("212")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	faintStyle    = lipgloss.NewStyle().Faint(true)
	disabledStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
)

func (m Model) View() string {
	var body string
	if m.screen == screenDetail && m.ctrl != nil {
		body = m.detailView()
	} else {
		body = m.listView()
	}
	return body + "\n" + m.footerBlock()
}

func (m Model) contentWidth() int {
	w := m.width
	if w <= 0 {
		w = 80
	}
	if w > maxContentW {
		w = maxContentW
	}
	return w
}

func (m Model) listView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Licenses"))
	b.WriteString(faintStyle.Render(fmt.Sprintf("  %d", len(m.visible))))
	b.WriteString("\n")
	if m.filter.Focused() || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.visible) == 0 {
		b.WriteString(faintStyle.Render("No licenses"))
		b.WriteString("\n")
		return b.String()
	}

	w := m.contentWidth()
	for i, l := range m.visible {
		line := l.DisplayName()
		if l.RegisteredToName != "" {
			line += "  " + faintStyle.Render(l.RegisteredToName)
		}
		if xansi.StringWidth(line) > w-2 {
			line = xansi.Truncate(line, w-2, "…")
		}
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> ") + line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) detailView() string {
	var b strings.Builder
	rec := m.ctrl.Record()

	b.WriteString(titleStyle.Render(rec.DisplayName()))
	if m.ctrl.Editing() {
		b.WriteString("  " + modeStyle.Render("[editing]"))
	}
	b.WriteString("\n\n")

	if m.ctrl.Editing() {
		for i, f := range editor.Fields {
			style := labelStyle
			if i == m.focus {
				style = focusStyle
			}
			var field string
			if f == editor.FieldNotes {
				field = m.notes.View()
			} else {
				in := m.inputs[f]
				field = in.View()
			}
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, style.Render(f.Label()), field))
			b.WriteString("\n")
		}
		return b.String()
	}

	for _, f := range editor.Fields {
		if f == editor.FieldNotes {
			continue
		}
		value := editor.NewDraft(rec).Get(f)
		if f == editor.FieldURL {
			if kind := rec.Link(); kind != license.LinkNone {
				value += "  " + faintStyle.Render("("+kind.String()+")")
			}
		}
		b.WriteString(labelStyle.Render(f.Label()) + value + "\n")
	}
	if rec.Icon != "" {
		b.WriteString(labelStyle.Render("Icon") + faintStyle.Render(rec.Icon) + "\n")
	}

	if text := notes.PlainText(rec.Notes); text != "" {
		b.WriteString("\n" + labelStyle.Render(editor.FieldNotes.Label()) + "\n")
		b.WriteString(lipgloss.NewStyle().Width(m.contentWidth()).Render(text))
		b.WriteString("\n")
	}

	if len(rec.Attachments) > 0 {
		b.WriteString("\n" + labelStyle.Render("Attachments") + "\n")
		for _, a := range rec.Attachments {
			b.WriteString(fmt.Sprintf("  %s  %s\n", a.Name, faintStyle.Render(humanize.Bytes(uint64(a.Size)))))
		}
	}
	return b.String()
}

func (m Model) footerBlock() string {
	return m.minibufferView() + "\n" + m.helpView()
}

func (m Model) minibufferView() string {
	w := m.contentWidth()
	txt := strings.TrimSpace(strings.ReplaceAll(m.toast, "\n", " "))
	if txt == "" {
		txt = " "
	}
	innerW := w - 2
	if xansi.StringWidth(txt) > innerW {
		txt = xansi.Cut(txt, 0, innerW-1) + "…"
	}
	return lipgloss.NewStyle().
		Width(w).
		Padding(0, 1).
		Background(lipgloss.Color("236")).
		Foreground(lipgloss.Color("255")).
		Render(txt)
}

// helpView lists the bindings for the current screen. Save is always
// listed while editing and rendered struck through when there is nothing
// to save.
func (m Model) helpView() string {
	var parts []string
	add := func(b key.Binding, enabled bool) {
		h := b.Help()
		text := h.Key + " " + h.Desc
		if enabled {
			parts = append(parts, faintStyle.Render(text))
		} else {
			parts = append(parts, disabledStyle.Render(text))
		}
	}

	switch {
	case m.screen == screenList && m.filter.Focused():
		add(m.keys.Open, true)
		add(m.keys.Back, true)
	case m.screen == screenList:
		add(m.keys.Up, true)
		add(m.keys.Down, true)
		add(m.keys.Open, true)
		add(m.keys.Filter, true)
		add(m.keys.Quit, true)
	case m.ctrl != nil && m.ctrl.Editing():
		add(m.keys.Save, m.ctrl.CanSave())
		add(m.keys.Cancel, true)
		add(m.keys.Next, true)
		add(m.keys.Prev, true)
	default:
		add(m.keys.Edit, true)
		for _, b := range m.keys.Copy {
			add(b, true)
		}
		add(m.keys.Back, true)
		add(m.keys.Quit, true)
	}
	return strings.Join(parts, "  ")
}
