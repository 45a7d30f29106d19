package bubbletea_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/imagechat"
	bt "github.com/fwojciec/imagechat/bubbletea"
	"github.com/fwojciec/imagechat/mock"
	"github.com/stretchr/testify/require"
)

var png = imagechat.Image{URL: "data:image/png;base64,aGVsbG8=", MimeType: "image/png"}

// newOrchestrator creates an orchestrator over a greeting-seeded conversation
// with predictable message IDs (msg-1, msg-2, ...).
func newOrchestrator(t *testing.T, gen imagechat.Generator) *imagechat.Orchestrator {
	t.Helper()
	var n atomic.Int32
	conv := imagechat.NewConversation(imagechat.Greeting(time.Unix(0, 0)))
	return imagechat.NewOrchestrator(gen, conv,
		imagechat.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		imagechat.WithIDFunc(func() string { return fmt.Sprintf("msg-%d", n.Add(1)) }),
	)
}

// imageGenerator returns one image and no text per call.
func imageGenerator() *mock.Generator {
	return &mock.Generator{
		GenerateFn: func(context.Context, imagechat.GenerationRequest) (imagechat.GenerationResult, error) {
			return imagechat.GenerationResult{Images: []imagechat.Image{png}}, nil
		},
	}
}

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, orch *imagechat.Orchestrator, opts ...bt.Option) bt.Model {
	t.Helper()
	m := bt.New(orch, imagechat.DefaultTheme(), opts...)
	return updateModel(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

func press(t *testing.T, m bt.Model, key tea.KeyType) bt.Model {
	t.Helper()
	return updateModel(t, m, tea.KeyMsg{Type: key})
}

// enter types line into the prompt and presses Enter.
func enter(t *testing.T, m bt.Model, line string) (bt.Model, tea.Cmd) {
	t.Helper()
	m.Input.SetValue(line)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model, cmd
}

// collect runs cmd and any batched commands, returning the produced messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// submitAndWait submits line and feeds the completion back to the model.
func submitAndWait(t *testing.T, m bt.Model, line string) bt.Model {
	t.Helper()
	m, cmd := enter(t, m, line)
	require.True(t, m.Busy())
	for _, msg := range collect(cmd) {
		if done, ok := msg.(bt.SubmitDoneMsg); ok {
			return updateModel(t, m, done)
		}
	}
	t.Fatal("submission produced no SubmitDoneMsg")
	return m
}

// content returns the rendered conversation with wrapping undone.
func content(m bt.Model) string {
	return strings.Join(strings.Fields(bt.RenderContent(m)), " ")
}
