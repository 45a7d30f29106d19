// Package fs implements local file access for generated and reference
// images: decoding and saving data URIs, resolving attachment paths, and
// handing saved files to the platform viewer.
package fs

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/fwojciec/imagechat"
)

// DecodeDataURI decodes a base64 data URI into its payload and MIME type.
func DecodeDataURI(uri string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", fmt.Errorf("not a data URI: %w", imagechat.ErrValidation)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("data URI has no payload: %w", imagechat.ErrValidation)
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, "", fmt.Errorf("data URI is not base64: %w", imagechat.ErrValidation)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode data URI: %w", err)
	}
	return data, mimeType, nil
}
