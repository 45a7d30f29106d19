package imagechat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Fixed user-facing texts.
const (
	SingleImageText  = "Aqui está sua imagem."
	MultiImageText   = "Aqui estão suas imagens."
	NoImageText      = "Não consegui gerar a imagem. Tente um prompt diferente."
	ApologyText      = "Desculpe, encontrei um erro ao processar sua imagem. Por favor, tente novamente."
	RegenerateNotice = "Para regenerar, por favor reenvie o comando. (Funcionalidade de retry rápido em desenvolvimento)"
)

// MaxVariations is the largest number of parallel generation calls per
// submission.
const MaxVariations = 3

// Submission is a user's request from the input area.
type Submission struct {
	Prompt      string
	AspectRatio AspectRatio
	Attachment  *Attachment
	Variations  int // 0 = 1
}

// Validate checks the submission before anything is appended to the log.
func (s Submission) Validate() error {
	if strings.TrimSpace(s.Prompt) == "" && s.Attachment == nil {
		return fmt.Errorf("prompt or reference image required: %w", ErrValidation)
	}
	if err := s.AspectRatio.Validate(); err != nil {
		return err
	}
	if s.Variations < 0 || s.Variations > MaxVariations {
		return fmt.Errorf("variations must be in [1, %d], got %d: %w", MaxVariations, s.Variations, ErrValidation)
	}
	return nil
}

func (s Submission) variations() int {
	if s.Variations == 0 {
		return 1
	}
	return s.Variations
}

// Orchestrator turns submissions into conversation messages. It appends the
// user's message, fans out one generation call per variation, and appends a
// single assistant message with the aggregated result.
type Orchestrator struct {
	generator    Generator
	conversation *Conversation
	logger       *slog.Logger
	newID        func() string
	now          func() time.Time

	busy atomic.Bool
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithLogger sets the diagnostics logger. Default is slog.Default().
func WithLogger(l *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) { o.logger = l }
}

// WithIDFunc sets the message ID generator. Default is uuid.NewString.
func WithIDFunc(f func() string) OrchestratorOption {
	return func(o *Orchestrator) { o.newID = f }
}

// WithClock sets the timestamp source. Default is time.Now.
func WithClock(f func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) { o.now = f }
}

// NewOrchestrator creates an Orchestrator that writes to conv.
func NewOrchestrator(gen Generator, conv *Conversation, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		generator:    gen,
		conversation: conv,
		logger:       slog.Default(),
		newID:        uuid.NewString,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Conversation returns the log the orchestrator appends to.
func (o *Orchestrator) Conversation() *Conversation { return o.conversation }

// Busy reports whether a submission is in flight. Submit does not refuse
// re-entrant calls; callers are expected to check Busy first.
func (o *Orchestrator) Busy() bool { return o.busy.Load() }

// Submit runs one submission to completion and returns the assistant message
// it appended. On failure the appended message is the error apology and the
// returned error holds the cause. Validation errors append nothing.
func (o *Orchestrator) Submit(ctx context.Context, s Submission) (Message, error) {
	if err := s.Validate(); err != nil {
		return Message{}, err
	}

	o.busy.Store(true)
	defer o.busy.Store(false)

	user := Message{
		ID:        o.newID(),
		Sender:    SenderUser,
		Text:      s.Prompt,
		Timestamp: o.now(),
	}
	if s.Attachment != nil {
		user.Images = []Image{s.Attachment.Preview()}
	}
	o.conversation.Append(user)

	results, err := o.fanOut(ctx, s)
	if err != nil {
		o.logger.Error("submission failed",
			"message_id", user.ID,
			"kind", errorKind(err),
			"variations", s.variations(),
			"error", err,
		)
		msg := Message{
			ID:        o.newID(),
			Sender:    SenderAI,
			Text:      ApologyText,
			Timestamp: o.now(),
			IsError:   true,
		}
		o.conversation.Append(msg)
		return msg, err
	}

	text, images := Aggregate(results)
	msg := Message{
		ID:        o.newID(),
		Sender:    SenderAI,
		Text:      Caption(text, len(images)),
		Images:    images,
		Timestamp: o.now(),
	}
	o.conversation.Append(msg)
	o.logger.Info("submission complete",
		"message_id", msg.ID,
		"variations", s.variations(),
		"images", len(images),
	)
	return msg, nil
}

// fanOut encodes the attachment and issues one Generate call per variation.
// Every call runs to completion; the first error fails the whole batch.
func (o *Orchestrator) fanOut(ctx context.Context, s Submission) ([]GenerationResult, error) {
	req := GenerationRequest{
		Prompt:      s.Prompt,
		AspectRatio: s.AspectRatio,
	}
	if s.Attachment != nil {
		data, mimeType, err := s.Attachment.Encode()
		if err != nil {
			return nil, err
		}
		req.ReferenceBase64 = data
		req.ReferenceMimeType = mimeType
	}

	results := make([]GenerationResult, s.variations())
	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			res, err := o.generator.Generate(withVariation(ctx, i), req)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

type variationKey struct{}

func withVariation(ctx context.Context, i int) context.Context {
	return context.WithValue(ctx, variationKey{}, i)
}

// VariationIndex returns the zero-based variation a Generate call serves
// within a submission. Calls made outside Submit report 0.
func VariationIndex(ctx context.Context) int {
	i, _ := ctx.Value(variationKey{}).(int)
	return i
}

// Aggregate merges variation results in call order. Images are concatenated.
// A non-empty text fragment is appended, separated by a blank line, unless
// the accumulated text already contains it verbatim.
func Aggregate(results []GenerationResult) (string, []Image) {
	var (
		text   string
		images []Image
	)
	for _, r := range results {
		images = append(images, r.Images...)
		if r.Text == "" || strings.Contains(text, r.Text) {
			continue
		}
		if text != "" {
			text += "\n\n"
		}
		text += r.Text
	}
	return text, images
}

// Caption returns text, or a fallback when the model produced no text.
func Caption(text string, imageCount int) string {
	switch {
	case text != "":
		return text
	case imageCount > 1:
		return MultiImageText
	case imageCount == 1:
		return SingleImageText
	default:
		return NoImageText
	}
}

// Regenerate is the quick-retry affordance for assistant messages. It never
// touches the log or the generator and always fails: with
// ErrRegenerateNotImplemented for a regenerable message, otherwise with
// ErrNotFound or ErrValidation. Callers surface RegenerateNotice to the user.
func (o *Orchestrator) Regenerate(id string) error {
	msg, err := o.conversation.Get(id)
	if err != nil {
		return err
	}
	if msg.Sender != SenderAI || msg.IsError {
		return fmt.Errorf("message %q cannot be regenerated: %w", id, ErrValidation)
	}
	return fmt.Errorf("message %q: %w", id, ErrRegenerateNotImplemented)
}
