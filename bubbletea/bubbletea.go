// Package bubbletea provides the terminal chat for imagechat.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/imagechat"
)

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. When ctx is cancelled the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// SubmitDoneMsg carries the outcome of a submission back to the model.
type SubmitDoneMsg struct {
	Message imagechat.Message
	Err     error
}

// submit runs one submission off the UI goroutine.
func submit(orch *imagechat.Orchestrator, s imagechat.Submission) tea.Cmd {
	return func() tea.Msg {
		msg, err := orch.Submit(context.Background(), s)
		return SubmitDoneMsg{Message: msg, Err: err}
	}
}
