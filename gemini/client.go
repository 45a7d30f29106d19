package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/fwojciec/imagechat"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ imagechat.Generator = (*Client)(nil)

const defaultMimeType = "image/png"

// Client implements [imagechat.Generator] for the Google Gemini API.
type Client struct {
	handle *Handle
	model  string
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-2.5-flash-image.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithHandle sets the remote client handle. Default is [DefaultHandle].
func WithHandle(h *Handle) Option {
	return func(c *Client) { c.handle = h }
}

// New creates a Gemini [Client]. No connection is made and no credential is
// read until the first Generate call.
func New(opts ...Option) *Client {
	c := &Client{model: imagechat.DefaultModel}
	for _, o := range opts {
		o(c)
	}
	if c.handle == nil {
		c.handle = DefaultHandle()
	}
	return c
}

// Generate sends one generation request. The reference image, when present,
// is placed before the prompt.
func (c *Client) Generate(ctx context.Context, req imagechat.GenerationRequest) (imagechat.GenerationResult, error) {
	if err := req.AspectRatio.Validate(); err != nil {
		return imagechat.GenerationResult{}, &imagechat.GenerationError{Op: "request", Err: err}
	}
	contents, err := BuildContents(req)
	if err != nil {
		return imagechat.GenerationResult{}, &imagechat.GenerationError{Op: "request", Err: err}
	}

	models, err := c.handle.Models(ctx)
	if err != nil {
		return imagechat.GenerationResult{}, err
	}

	resp, err := models.GenerateContent(ctx, c.model, contents, BuildConfig(req))
	if err != nil {
		return imagechat.GenerationResult{}, &imagechat.GenerationError{
			Op:          "generate",
			Err:         err,
			RateLimited: isRateLimited(err),
		}
	}
	return ParseResponse(resp)
}

// BuildContents converts a request into the outbound content list.
// Exported for testing.
func BuildContents(req imagechat.GenerationRequest) ([]*genai.Content, error) {
	parts := make([]*genai.Part, 0, 2)
	if req.HasReference() {
		data, err := base64.StdEncoding.DecodeString(req.ReferenceBase64)
		if err != nil {
			return nil, fmt.Errorf("decode reference image: %w", err)
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				Data:     data,
				MIMEType: req.ReferenceMimeType,
			},
		})
	}
	parts = append(parts, &genai.Part{Text: req.Prompt})
	return []*genai.Content{{Role: genai.RoleUser, Parts: parts}}, nil
}

// BuildConfig returns the generation config carrying the aspect ratio.
// Exported for testing.
func BuildConfig(req imagechat.GenerationRequest) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: string(req.AspectRatio),
		},
	}
}

// ParseResponse partitions the first candidate's parts into images and
// concatenated text. A response with no candidates or no parts yields an
// empty result; a nil response is malformed.
func ParseResponse(resp *genai.GenerateContentResponse) (imagechat.GenerationResult, error) {
	if resp == nil {
		return imagechat.GenerationResult{}, &imagechat.GenerationError{
			Op:  "parse",
			Err: errors.New("nil response"),
		}
	}

	var result imagechat.GenerationResult
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return result, nil
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		switch {
		case part == nil:
			continue
		case part.InlineData != nil && len(part.InlineData.Data) > 0:
			mimeType := part.InlineData.MIMEType
			if mimeType == "" {
				mimeType = defaultMimeType
			}
			result.Images = append(result.Images, imagechat.Image{
				URL:      DataURI(mimeType, part.InlineData.Data),
				MimeType: mimeType,
			})
		case part.Thought:
			// Reasoning summaries are not part of the caption.
		case part.Text != "":
			result.Text += part.Text
		}
	}
	return result, nil
}

// DataURI encodes data as a base64 data URI.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func isRateLimited(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == 429 || apiErr.Status == "RESOURCE_EXHAUSTED"
}
