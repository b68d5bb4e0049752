package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"launchkey/config"
	"launchkey/launcher"
	"launchkey/log"
)

// TUI message types
type ActivatedMsg struct{ Accepted bool }
type SessionStateMsg struct{ Active bool }
type SessionDoneMsg struct{ Result launcher.Result }
type CancelRequestedMsg struct{}
type tickMsg time.Time

const historySize = 8

type historyEntry struct {
	at     time.Time
	result launcher.Result
}

type tuiModel struct {
	hotkey    string
	cancelKey string
	items     int

	active      bool
	activeSince time.Time
	now         time.Time
	accepted    int
	dropped     int
	cancels     int
	history     []historyEntry
	width       int
	height      int
}

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	boldHelp     = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
	launchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	restoreStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

func newTUIModel(cfg *config.Config) tuiModel {
	return tuiModel{
		hotkey:    cfg.Hotkey,
		cancelKey: cfg.Cancel,
		items:     len(cfg.Names()),
		now:       time.Now(),
	}
}

// startTUI runs the status screen and returns a channel closed when the
// user quits it.
func startTUI(cfg *config.Config) <-chan struct{} {
	done := make(chan struct{})
	p := tea.NewProgram(newTUIModel(cfg), tea.WithAltScreen())
	tuiMu.Lock()
	tuiProgram = p
	tuiMu.Unlock()
	go func() {
		defer close(done)
		if _, err := p.Run(); err != nil {
			log.Errorf("TUI error: %v", err)
		}
	}()
	return done
}

func stopTUI() {
	tuiMu.Lock()
	p := tuiProgram
	tuiProgram = nil
	tuiMu.Unlock()
	if p != nil {
		p.Quit()
		p.Wait()
	}
}

func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// tuiSink forwards launcher events to the running program.
type tuiSink struct{}

func (tuiSink) Activated(accepted bool)       { tuiSend(ActivatedMsg{Accepted: accepted}) }
func (tuiSink) SessionState(active bool)      { tuiSend(SessionStateMsg{Active: active}) }
func (tuiSink) SessionDone(r launcher.Result) { tuiSend(SessionDoneMsg{Result: r}) }
func (tuiSink) CancelRequested()              { tuiSend(CancelRequestedMsg{}) }

func tuiTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case tickMsg:
		m.now = time.Time(msg)
		return m, tuiTick()

	case ActivatedMsg:
		if msg.Accepted {
			m.accepted++
		} else {
			m.dropped++
		}

	case SessionStateMsg:
		m.active = msg.Active
		if msg.Active {
			m.activeSince = time.Now()
		}

	case CancelRequestedMsg:
		m.cancels++

	case SessionDoneMsg:
		m.history = append([]historyEntry{{at: time.Now(), result: msg.Result}}, m.history...)
		if len(m.history) > historySize {
			m.history = m.history[:historySize]
		}
	}
	return m, nil
}

func (m tuiModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("launchkey") + " " + dimStyle.Render(version) + "\n\n")

	if m.active {
		elapsed := m.now.Sub(m.activeSince)
		if elapsed < 0 {
			elapsed = 0
		}
		b.WriteString(activeStyle.Render(fmt.Sprintf("● PICKER OPEN %.1fs", elapsed.Seconds())) + "\n")
	} else {
		b.WriteString(idleStyle.Render("○ LISTENING") + "\n")
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d items | activations %d | dropped %d | cancels %d",
		m.items, m.accepted, m.dropped, m.cancels)) + "\n\n")

	if len(m.history) == 0 {
		b.WriteString(idleStyle.Render("No sessions yet") + "\n")
	}
	for _, h := range m.history {
		b.WriteString(renderHistory(h) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(boldHelp.Render(m.hotkey) + helpStyle.Render(" to launch  "))
	b.WriteString(boldHelp.Render(m.cancelKey) + helpStyle.Render(" to cancel  "))
	b.WriteString(boldHelp.Render("q") + helpStyle.Render(" to quit") + "\n")

	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
	}
	return b.String()
}

func renderHistory(h historyEntry) string {
	r := h.result
	stamp := dimStyle.Render(h.at.Format("15:04:05"))
	var text string
	switch r.Ending {
	case launcher.Launched:
		text = launchStyle.Render("launched " + r.Choice)
	case launcher.UnknownItem:
		text = warnStyle.Render("unknown item " + r.Choice)
	case launcher.Restored:
		text = restoreStyle.Render("cancelled, restored " + r.Identity.String())
	case launcher.RestoreFailed:
		text = warnStyle.Render("cancelled, restore failed")
	default:
		text = restoreStyle.Render("cancelled")
	}
	if r.Err != nil {
		text += " " + warnStyle.Render("("+r.Err.Error()+")")
	}
	return stamp + "  " + text
}
