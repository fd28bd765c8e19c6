package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/getrandom/entropy"
	"github.com/wippyai/getrandom/host"
	"github.com/wippyai/getrandom/host/sim"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// maxShown caps the hex dump so large draws stay readable.
const maxShown = 256

type interactiveModel struct {
	err      error
	env      host.Env
	ec       *entropy.Context
	input    textinput.Model
	hosts    []string
	result   []byte
	selected int
	chunks   int
}

type fillMsg struct {
	err    error
	result []byte
	chunks int
}

func newInteractiveModel(hostName string) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "32"
	ti.Prompt = "bytes: "
	ti.Width = 12
	ti.Focus()

	m := &interactiveModel{
		hosts: hostNames(),
		input: ti,
	}
	for i, name := range m.hosts {
		if name == hostName {
			m.selected = i
		}
	}
	m.resetContext()
	return m
}

// resetContext starts a new execution context on the selected host.
func (m *interactiveModel) resetContext() {
	m.env = hosts[m.hosts[m.selected]]()
	m.ec = entropy.NewContext(m.env)
	m.result = nil
	m.err = nil
	m.chunks = 0
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "up":
			if m.selected > 0 {
				m.selected--
				m.resetContext()
			}
			return m, nil

		case "down":
			if m.selected < len(m.hosts)-1 {
				m.selected++
				m.resetContext()
			}
			return m, nil

		case "enter":
			return m, m.fill
		}

	case fillMsg:
		m.err = msg.err
		m.result = msg.result
		m.chunks = msg.chunks
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) fill() tea.Msg {
	n := 32
	if v := strings.TrimSpace(m.input.Value()); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return fillMsg{err: fmt.Errorf("invalid byte count %q", v)}
		}
		n = parsed
	}

	before := m.providerCalls()
	buf := make([]byte, n)
	if err := m.ec.Fill(buf); err != nil {
		return fillMsg{err: err}
	}
	if before < 0 {
		return fillMsg{result: buf, chunks: -1}
	}
	return fillMsg{result: buf, chunks: m.providerCalls() - before}
}

// providerCalls counts fill calls seen by a simulated host, -1 for native.
func (m *interactiveModel) providerCalls() int {
	env, ok := m.env.(*sim.Env)
	if !ok {
		return -1
	}
	calls := 0
	if g := env.Global(); g != nil {
		if c := g.CryptoObject(); c != nil {
			calls += len(c.Calls())
		}
		if c := g.MSCryptoObject(); c != nil {
			calls += len(c.Calls())
		}
	}
	if mod := env.Module(); mod != nil {
		calls += len(mod.Calls())
	}
	return calls
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("getrandom"))
	b.WriteString("\n\nHost:\n")
	for i, name := range m.hosts {
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + name))
		} else {
			b.WriteString("  " + name)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("source: "))
	if src := m.ec.Source(); src != nil {
		b.WriteString(src.Kind().String())
		if bs, ok := src.(*entropy.BrowserSource); ok {
			b.WriteString(" (self." + bs.Name() + ")")
		}
	} else {
		b.WriteString("unresolved")
	}
	b.WriteString(labelStyle.Render("  probes: "))
	b.WriteString(strconv.Itoa(m.ec.Attempts()))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	case m.result != nil:
		shown := m.result
		if len(shown) > maxShown {
			shown = shown[:maxShown]
		}
		b.WriteString(resultStyle.Render(hex.EncodeToString(shown)))
		if len(m.result) > maxShown {
			b.WriteString(helpStyle.Render(fmt.Sprintf(" ... (%d bytes)", len(m.result))))
		}
		b.WriteString("\n")
		if m.chunks >= 0 {
			b.WriteString(labelStyle.Render(fmt.Sprintf("provider calls: %d", m.chunks)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ host (new context) • enter fill • esc quit"))
	return b.String()
}

func runInteractive(hostName string) error {
	p := tea.NewProgram(newInteractiveModel(hostName), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
