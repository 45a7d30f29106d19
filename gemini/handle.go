package gemini

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/fwojciec/imagechat"
	"google.golang.org/genai"
)

// Credential environment variables, in lookup order.
const (
	EnvAPIKey       = "API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// Models is the subset of the genai models service used by Client.
type Models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ConnectFunc builds the remote models service from an API key.
type ConnectFunc func(ctx context.Context, apiKey string) (Models, error)

// Handle lazily creates and memoizes the remote client. The credential is
// looked up on first use rather than at startup, and the client is built at
// most once per Handle. A missing credential is not memoized, so a later
// call can still succeed once it is set.
type Handle struct {
	lookup  func() string
	connect ConnectFunc

	mu     sync.Mutex
	models Models
}

// NewHandle creates a Handle that reads the credential with lookup and builds
// the client with connect.
func NewHandle(lookup func() string, connect ConnectFunc) *Handle {
	return &Handle{lookup: lookup, connect: connect}
}

var (
	defaultHandle     *Handle
	defaultHandleOnce sync.Once
)

// DefaultHandle returns the process-wide Handle. It reads API_KEY, falling
// back to GEMINI_API_KEY, and connects to the Gemini API backend.
func DefaultHandle() *Handle {
	defaultHandleOnce.Do(func() {
		defaultHandle = NewHandle(LookupEnv, Connect)
	})
	return defaultHandle
}

// Models returns the memoized models service, creating it on first call.
// It fails with *imagechat.ConfigurationError when no credential is set.
func (h *Handle) Models(ctx context.Context) (Models, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.models != nil {
		return h.models, nil
	}
	key := h.lookup()
	if key == "" {
		return nil, &imagechat.ConfigurationError{Key: EnvAPIKey}
	}
	m, err := h.connect(ctx, key)
	if err != nil {
		return nil, &imagechat.GenerationError{Op: "connect", Err: err}
	}
	h.models = m
	return m, nil
}

// LookupEnv returns the API key from the process environment.
func LookupEnv() string {
	if v := os.Getenv(EnvAPIKey); v != "" {
		return v
	}
	return os.Getenv(EnvGeminiAPIKey)
}

// Connect creates a genai client for the Gemini API backend.
func Connect(ctx context.Context, apiKey string) (Models, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return gc.Models, nil
}
