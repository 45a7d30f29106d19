package gemini_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/imagechat"
	"github.com/fwojciec/imagechat/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_Models(t *testing.T) {
	t.Parallel()

	t.Run("memoizes the client", func(t *testing.T) {
		t.Parallel()
		var connects atomic.Int32
		fake := &fakeModels{}
		h := gemini.NewHandle(
			func() string { return "k" },
			func(ctx context.Context, apiKey string) (gemini.Models, error) {
				connects.Add(1)
				assert.Equal(t, "k", apiKey)
				return fake, nil
			},
		)

		first, err := h.Models(context.Background())
		require.NoError(t, err)
		second, err := h.Models(context.Background())
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, int32(1), connects.Load())
	})

	t.Run("concurrent first use connects once", func(t *testing.T) {
		t.Parallel()
		var connects atomic.Int32
		h := gemini.NewHandle(
			func() string { return "k" },
			func(ctx context.Context, apiKey string) (gemini.Models, error) {
				connects.Add(1)
				return &fakeModels{}, nil
			},
		)

		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := h.Models(context.Background())
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), connects.Load())
	})

	t.Run("missing credential is retried on next use", func(t *testing.T) {
		t.Parallel()
		var key atomic.Value
		key.Store("")
		h := gemini.NewHandle(
			func() string { return key.Load().(string) },
			func(ctx context.Context, apiKey string) (gemini.Models, error) { return &fakeModels{}, nil },
		)

		_, err := h.Models(context.Background())
		var cfgErr *imagechat.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)

		key.Store("now-set")
		m, err := h.Models(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, m)
	})

	t.Run("connect failure is a generation error and not memoized", func(t *testing.T) {
		t.Parallel()
		var connects atomic.Int32
		h := gemini.NewHandle(
			func() string { return "k" },
			func(ctx context.Context, apiKey string) (gemini.Models, error) {
				if connects.Add(1) == 1 {
					return nil, errors.New("dial failed")
				}
				return &fakeModels{}, nil
			},
		)

		_, err := h.Models(context.Background())
		var genErr *imagechat.GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, "connect", genErr.Op)

		_, err = h.Models(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(2), connects.Load())
	})
}

func TestDefaultHandle(t *testing.T) {
	t.Parallel()
	assert.Same(t, gemini.DefaultHandle(), gemini.DefaultHandle())
}

func TestConnect(t *testing.T) {
	t.Parallel()
	m, err := gemini.Connect(context.Background(), "gk-test")
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestLookupEnv(t *testing.T) {
	t.Setenv(gemini.EnvAPIKey, "")
	t.Setenv(gemini.EnvGeminiAPIKey, "fallback")
	assert.Equal(t, "fallback", gemini.LookupEnv())

	t.Setenv(gemini.EnvAPIKey, "primary")
	assert.Equal(t, "primary", gemini.LookupEnv())
}
