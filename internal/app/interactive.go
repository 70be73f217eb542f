package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vk/scriptui/internal/engine"
	"github.com/vk/scriptui/internal/gui"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

type keyMap struct {
	Quit   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Click  key.Binding
	Toggle key.Binding
	Close  key.Binding
	Reload key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next widget"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous widget"),
	),
	Click: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "click"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "collapse window"),
	),
	Close: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "close window"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload script"),
	),
}

// frameModel is the bubbletea model of the interactive loop. Every key
// press queues input and runs a new frame.
type frameModel struct {
	app      *App
	ctx      context.Context
	sink     framePublisher
	viewport viewport.Model
	ready    bool

	focus    int
	targets  []string
	frameNr  uint64
	text     string
	lastErr  error
	quitting bool
}

func newFrameModel(ctx context.Context, a *App, sink framePublisher) frameModel {
	m := frameModel{app: a, ctx: ctx, sink: sink, viewport: viewport.New(80, 20)}
	m.runFrame()
	return m
}

func (m frameModel) Init() tea.Cmd { return nil }

// focused is the id of the widget input is directed at.
func (m frameModel) focused() string {
	if len(m.targets) == 0 {
		return ""
	}
	return m.targets[m.focus%len(m.targets)]
}

// window is the area id of the focused widget.
func (m frameModel) window() string {
	id := m.focused()
	if i := strings.Index(id, "/"); i >= 0 {
		return id[:i]
	}
	return id
}

func (m *frameModel) runFrame() {
	frame, text, err := m.app.frame(m.ctx, m.sink, m.focused())
	m.lastErr = err
	var missing *engine.EntryPointError
	switch {
	case errors.As(err, &missing):
		// The script may still be mid-edit; a reload can fix it.
		m.app.logger.Warn("Entry point is missing; waiting for reload.", "entry", missing.Name, "found", missing.Found)
	case err != nil:
		m.app.logger.Error("Frame failed.", "error", err)
	}
	if frame != nil {
		m.frameNr = frame.Number
		m.targets = frame.Interactive()
		if m.focus >= len(m.targets) {
			m.focus = 0
		}
		// Render again so the highlight follows the refreshed targets.
		text = gui.Render(frame, m.focused())
	}
	m.text = text
	m.viewport.SetContent(text)
}

func (m frameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 1)
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Next):
			if len(m.targets) > 0 {
				m.focus = (m.focus + 1) % len(m.targets)
			}
		case key.Matches(msg, keys.Prev):
			if len(m.targets) > 0 {
				m.focus = (m.focus - 1 + len(m.targets)) % len(m.targets)
			}
		case key.Matches(msg, keys.Click):
			if id := m.focused(); id != "" {
				m.app.gui.QueueClick(id)
			}
		case key.Matches(msg, keys.Toggle):
			if w := m.window(); w != "" {
				m.app.gui.QueueToggle(w)
			}
		case key.Matches(msg, keys.Close):
			if w := m.window(); w != "" {
				m.app.gui.QueueClose(w)
			}
		case key.Matches(msg, keys.Reload):
			if err := m.app.host.Reload(m.ctx); err != nil {
				m.lastErr = err
				m.app.logger.Error("Reload failed.", "error", err)
				return m, nil
			}
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		m.runFrame()
		return m, nil
	}
	return m, nil
}

func (m frameModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("scriptui · frame %d · %s", m.frameNr, m.focused())))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.lastErr != nil {
		b.WriteString(errorStyle.Render(m.lastErr.Error()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("tab: next · enter: click · c: collapse · x: close · r: reload · q: quit"))
	return b.String()
}

func (a *App) runInteractive(ctx context.Context, sink framePublisher) error {
	p := tea.NewProgram(
		newFrameModel(ctx, a, sink),
		tea.WithContext(ctx),
		tea.WithInput(os.Stdin),
		tea.WithOutput(os.Stderr),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive session failed: %w", err)
	}
	return nil
}
