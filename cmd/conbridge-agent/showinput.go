package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"golang.org/x/term"

	"github.com/conbridge/conbridge/internal/input"
	"github.com/conbridge/conbridge/internal/keymap"
	"github.com/conbridge/conbridge/internal/scraper"
)

var (
	showInputTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	showInputKeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	showInputHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// showInputEventColumn is the display-column width the event description
// is padded to before the trailing sequence number, measured with
// scraper.VisibleWidth rather than len/utf8.RuneCountInString because
// formatKeyEvent's return value already carries the SGR sequences
// showInputKeyStyle.Render wrapped it in.
const showInputEventColumn = 36

// keyEventMsg wraps one decoded input.Event as a tea.Msg, fed in from the
// raw stdin pump below rather than from bubbletea's own key reader.
type keyEventMsg input.Event

// showInputModel renders a scrolling log of the synthetic key events that
// internal/input.Translator would emit for what was typed, demonstrating
// the same byte-to-event pipeline the Agent runs against a real console
// session (§4.2).
type showInputModel struct {
	withMouse bool
	lines     []string
	quitting  bool
}

func (m *showInputModel) Init() tea.Cmd {
	return nil
}

func (m *showInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case keyEventMsg:
		seq := len(m.lines) + 1
		line := alignEventColumn(formatKeyEvent(input.Event(msg)), seq)
		m.lines = append(m.lines, line)
		if len(m.lines) > 200 {
			m.lines = m.lines[len(m.lines)-200:]
		}
		return m, nil

	case tea.QuitMsg:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *showInputModel) View() string {
	if m.quitting {
		return ""
	}

	header := showInputTitleStyle.Render("conbridge-agent --show-input")
	hint := showInputHintStyle.Render("decoded key events — Ctrl-D to quit")
	if m.withMouse {
		hint = showInputHintStyle.Render("decoded key events (mouse reporting on) — Ctrl-D to quit")
	}

	body := ""
	start := 0
	if len(m.lines) > 20 {
		start = len(m.lines) - 20
	}
	for _, l := range m.lines[start:] {
		body += l + "\n"
	}

	return fmt.Sprintf("%s\n%s\n\n%s", header, hint, body)
}

func formatKeyEvent(e input.Event) string {
	action := "release"
	if e.Press {
		action = "press  "
	}

	mods := ""
	if e.Modifiers&keymap.ModCtrl != 0 {
		mods += "Ctrl+"
	}
	if e.Modifiers&keymap.ModAlt != 0 {
		mods += "Alt+"
	}
	if e.Modifiers&keymap.ModShift != 0 {
		mods += "Shift+"
	}

	char := "·"
	if e.Unicode != 0 {
		char = string(e.Unicode)
	}

	return showInputKeyStyle.Render(fmt.Sprintf("%s vk=0x%02x %s%-3q", action, e.VirtualKey, mods, char))
}

// alignEventColumn pads a styled event line out to showInputEventColumn
// display columns before appending its sequence number, so the numbers
// line up regardless of how many bytes of SGR escape sequence
// showInputKeyStyle wrapped the text in.
func alignEventColumn(styled string, seq int) string {
	pad := showInputEventColumn - scraper.VisibleWidth(styled)
	if pad < 0 {
		pad = 0
	}
	return styled + strings.Repeat(" ", pad) + showInputHintStyle.Render(fmt.Sprintf("#%04d", seq))
}

// runShowInput drives the real input.Translator against raw stdin bytes
// and renders each decoded event through bubbletea, mirroring the reader
// pump / ticker / select shape of internal/agent.State.Run so the
// diagnostic exercises the same pipeline the Agent uses in production,
// not a parallel reimplementation of it.
func runShowInput(ctx context.Context, withMouse bool) error {
	fd := int(os.Stdin.Fd())
	var restore func()
	if term.IsTerminal(fd) {
		prevState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("show-input: enable raw mode: %w", err)
		}
		restore = func() { _ = term.Restore(fd, prevState) }
	} else {
		restore = func() {}
	}
	defer restore()

	// bubbletea never reads os.Stdin directly: it's handed a pipe this
	// goroutine never writes to, so the raw-byte pump below owns stdin
	// exclusively and feeds decoded events in through p.Send.
	dummyIn, dummyInWriter := io.Pipe()
	defer dummyInWriter.Close()

	model := &showInputModel{withMouse: withMouse}
	opts := []tea.ProgramOption{tea.WithInput(dummyIn)}
	if withMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(model, opts...)

	translator := input.NewTranslator(keymap.DefaultTrie)
	translator.SendDownstream = func(b []byte) error {
		_, err := os.Stdout.Write(b)
		return err
	}

	rawCh := make(chan []byte, 16)
	errCh := make(chan error, 1)
	go pumpStdin(rawCh, errCh)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				p.Send(tea.QuitMsg{})
				return

			case b, ok := <-rawCh:
				if !ok {
					p.Send(tea.QuitMsg{})
					return
				}
				for _, raw := range b {
					if raw == 0x04 {
						p.Send(tea.QuitMsg{})
						return
					}
				}
				events, err := translator.Feed(b)
				if err != nil {
					p.Send(tea.QuitMsg{})
					return
				}
				for _, ev := range events {
					p.Send(keyEventMsg(ev))
				}

			case now := <-ticker.C:
				events, err := translator.FlushTimeout(now)
				if err != nil {
					p.Send(tea.QuitMsg{})
					return
				}
				for _, ev := range events {
					p.Send(keyEventMsg(ev))
				}

			case err := <-errCh:
				_ = err
				p.Send(tea.QuitMsg{})
				return
			}
		}
	}()

	_, err := p.Run()
	return err
}

func pumpStdin(out chan<- []byte, errCh chan<- error) {
	buf := make([]byte, 256)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			out <- chunk
		}
		if err != nil {
			close(out)
			errCh <- err
			return
		}
	}
}
