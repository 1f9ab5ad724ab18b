package rversion

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rt/internal/theme"
)

type scanFinishedMsg struct{}

type scannerModel struct {
	spinner  spinner.Model
	quitting bool
}

func newScannerModel() scannerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.Primary)

	return scannerModel{
		spinner: s,
	}
}

func (m scannerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m scannerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case scanFinishedMsg:
		m.quitting = true
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m scannerModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf(" %s Scanning for R installations...\n", m.spinner.View())
}

// WithScanner runs fn while showing a spinner and returns fn's error
func WithScanner(fn func() error) error {
	return runScanner(tea.NewProgram(newScannerModel()), fn)
}

// program is the part of *tea.Program the scanner drives
type program interface {
	Run() (tea.Model, error)
	Send(msg tea.Msg)
}

// runScanner returns only after fn has finished
func runScanner(p program, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		time.Sleep(50 * time.Millisecond) // Give UI time to start
		err := fn()
		p.Send(scanFinishedMsg{})
		done <- err
	}()

	if _, err := p.Run(); err != nil {
		if fnErr := <-done; fnErr != nil {
			return fnErr
		}
		return err
	}
	return <-done
}
