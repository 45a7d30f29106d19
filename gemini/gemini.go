// Package gemini implements [imagechat.Generator] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating between imagechat's
// request and result types and the Gemini content types. The SDK client is
// created lazily by a shared [Handle] the first time an image is requested.
package gemini
