// Package tui is the interactive terminal interface: a filterable license
// list and a detail screen that switches between viewing and editing.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/roach88/valet/internal/clipboard"
	"github.com/roach88/valet/internal/config"
	"github.com/roach88/valet/internal/editor"
	"github.com/roach88/valet/internal/license"
)

// Catalog is the license collection the UI browses and saves through.
// *store.Catalog satisfies it.
type Catalog interface {
	editor.Gateway
	Licenses() []license.License
	Search(query string) []license.License
	Find(id string) (license.License, bool)
}

// Options tune the UI. Zero values fall back to the config defaults and
// the system clipboard.
type Options struct {
	Clipboard         clipboard.Writer
	ToastDuration     time.Duration
	DisableAnimations bool
	Logger            *slog.Logger
}

type screen int

const (
	screenList screen = iota
	screenDetail
)

type toastExpiredMsg struct {
	seq int
}

// Model is the root Bubble Tea model.
type Model struct {
	catalog Catalog
	opts    Options
	logger  *slog.Logger
	keys    keyMap

	width  int
	height int

	screen  screen
	filter  textinput.Model
	visible []license.License
	cursor  int

	ctrl   *editor.Controller
	inputs map[editor.Field]textinput.Model
	notes  textarea.Model
	focus  int

	toast    string
	toastSeq int
}

// New builds the UI over a loaded catalog.
func New(catalog Catalog, opts Options) Model {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.System()
	}
	if opts.ToastDuration == 0 {
		opts.ToastDuration = config.DefaultToastDuration
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	m := Model{
		catalog: catalog,
		opts:    opts,
		logger:  opts.Logger,
		keys:    defaultKeyMap(),
		screen:  screenList,
		inputs:  make(map[editor.Field]textinput.Model),
	}

	m.filter = textinput.New()
	m.filter.Prompt = "/ "
	m.filter.Placeholder = "filter"
	m.filter.CharLimit = 120

	for _, f := range editor.Fields {
		if f == editor.FieldNotes {
			continue
		}
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = f.Label()
		in.CharLimit = 500
		m.inputs[f] = in
	}

	m.notes = textarea.New()
	m.notes.Placeholder = "Notes (markdown)"
	m.notes.ShowLineNumbers = false
	m.notes.SetHeight(6)

	m.applyFilter()
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.notes.SetWidth(m.contentWidth() - labelWidth)
		return m, nil

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.opts.DisableAnimations {
			m.toast = ""
		}
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.screen == screenDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}

	return m.forward(msg)
}

// forward passes non-key messages (cursor blink) to whichever input has
// focus.
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.screen == screenList && m.filter.Focused():
		m.filter, cmd = m.filter.Update(msg)
	case m.screen == screenDetail && m.ctrl != nil && m.ctrl.Editing():
		f := editor.Fields[m.focus]
		if f == editor.FieldNotes {
			m.notes, cmd = m.notes.Update(msg)
		} else {
			in := m.inputs[f]
			in, cmd = in.Update(msg)
			m.inputs[f] = in
		}
	}
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filter.Focused() {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.filter.SetValue("")
			m.filter.Blur()
			m.applyFilter()
			return m, nil
		case key.Matches(msg, m.keys.Open):
			m.filter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Filter):
		cmd := m.filter.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Open):
		if len(m.visible) > 0 {
			m.openDetail(m.visible[m.cursor])
		}
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ctrl.Editing() {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.ctrl.Toggle()
			m.blurAll()
			return m, nil
		case key.Matches(msg, m.keys.Save):
			return m.save()
		case key.Matches(msg, m.keys.Next):
			cmd := m.focusField((m.focus + 1) % len(editor.Fields))
			return m, cmd
		case key.Matches(msg, m.keys.Prev):
			cmd := m.focusField((m.focus + len(editor.Fields) - 1) % len(editor.Fields))
			return m, cmd
		}
		return m.updateField(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.ctrl = nil
		m.screen = screenList
		m.applyFilter()
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		m.ctrl.Toggle()
		if !m.ctrl.Editing() {
			return m, nil
		}
		m.loadDraft()
		cmd := m.focusField(0)
		return m, cmd
	}
	for i, b := range m.keys.Copy {
		if key.Matches(msg, b) {
			cmd := m.copyField(clipboard.Copyable[i])
			return m, cmd
		}
	}
	return m, nil
}

// updateField forwards a key to the focused input and turns any resulting
// value change into a FieldChange for the controller.
func (m Model) updateField(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := editor.Fields[m.focus]

	var cmd tea.Cmd
	var value string
	if f == editor.FieldNotes {
		m.notes, cmd = m.notes.Update(msg)
		value = m.notes.Value()
	} else {
		in := m.inputs[f]
		in, cmd = in.Update(msg)
		m.inputs[f] = in
		value = in.Value()
	}

	if value != m.ctrl.Draft().Get(f) {
		if err := m.ctrl.Apply(editor.FieldChange{Field: f, Value: value}); err != nil {
			m.logger.Debug("field change rejected", "field", f, "error", err)
		}
	}
	return m, cmd
}

func (m Model) save() (tea.Model, tea.Cmd) {
	err := m.ctrl.Save(context.Background())
	switch {
	case errors.Is(err, editor.ErrSaveDisabled):
		return m, nil
	case err != nil:
		cmd := m.showToast("Save failed: " + err.Error())
		return m, cmd
	}

	m.blurAll()
	if stored, ok := m.catalog.Find(m.ctrl.Record().ID); ok {
		if err := m.ctrl.Reload(stored); err != nil {
			m.logger.Warn("reload after save failed", "id", stored.ID, "error", err)
		}
	}
	m.applyFilter()
	cmd := m.showToast("Saved")
	return m, cmd
}

func (m *Model) copyField(f editor.Field) tea.Cmd {
	if err := clipboard.CopyField(m.opts.Clipboard, m.ctrl.Record(), f); err != nil {
		return m.showToast("Clipboard error: " + err.Error())
	}
	return m.showToast("Copied to Clipboard")
}

// showToast sets the minibuffer text and schedules its removal. With
// animations disabled the toast stays until the next key press.
func (m *Model) showToast(text string) tea.Cmd {
	m.toast = text
	m.toastSeq++
	if m.opts.DisableAnimations || m.opts.ToastDuration <= 0 {
		return nil
	}
	seq := m.toastSeq
	return tea.Tick(m.opts.ToastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func (m *Model) openDetail(l license.License) {
	m.ctrl = editor.New(m.catalog, l, editor.WithLogger(m.logger))
	m.screen = screenDetail
	m.focus = 0
}

// applyFilter recomputes the visible rows from the catalog.
func (m *Model) applyFilter() {
	m.visible = m.catalog.Search(m.filter.Value())
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// loadDraft copies the controller's draft into the form inputs.
func (m *Model) loadDraft() {
	d := m.ctrl.Draft()
	for f, in := range m.inputs {
		in.SetValue(d.Get(f))
		in.CursorEnd()
		m.inputs[f] = in
	}
	m.notes.SetValue(d.Notes)
}

func (m *Model) focusField(i int) tea.Cmd {
	m.blurAll()
	m.focus = i
	f := editor.Fields[i]
	if f == editor.FieldNotes {
		return m.notes.Focus()
	}
	in := m.inputs[f]
	cmd := in.Focus()
	m.inputs[f] = in
	return cmd
}

func (m *Model) blurAll() {
	for f, in := range m.inputs {
		in.Blur()
		m.inputs[f] = in
	}
	m.notes.Blur()
}
