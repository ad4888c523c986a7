// Package generation talks to the hosted image model that renders product
// variations.
package generation

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"google.golang.org/genai"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash-image"

	defaultMime    = "image/jpeg"
	fallbackResult = "image/png"
)

var (
	// ErrGenerationFailure means no usable image came back, either because
	// the upstream call failed or because the model answered without one.
	ErrGenerationFailure = errors.New("generation failed")
	ErrMissingAPIKey     = errors.New("generation api key is not set")
)

var dataURIPrefix = regexp.MustCompile(`^data:image/(png|jpeg|jpg|webp);base64,`)

type Client struct {
	models *genai.Models
	model  string
}

type options struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

type Option func(*options)

func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

func WithBaseURL(u string) Option {
	return func(o *options) {
		if u != "" {
			o.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithModel(m string) Option {
	return func(o *options) {
		if m != "" {
			o.model = m
		}
	}
}

// NewClient builds a Gemini API client. No request is made until Generate.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	o := options{baseURL: DefaultBaseURL, model: DefaultModel}
	for _, opt := range opts {
		opt(&o)
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  o.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: o.baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Client{models: gc.Models, model: o.model}, nil
}

// SplitDataURI returns the media type and bare base64 payload of image.
// Inputs without a recognised data URI prefix are treated as bare JPEG data.
func SplitDataURI(image string) (mimeType, data string) {
	m := dataURIPrefix.FindStringSubmatch(image)
	if m == nil {
		return defaultMime, image
	}
	sub := m[1]
	if sub == "jpg" {
		sub = "jpeg"
	}
	return "image/" + sub, image[len(m[0]):]
}

// Generate sends sourceImage and instruction to the model and returns the
// first image it produces as a data URI.
func (c *Client) Generate(ctx context.Context, sourceImage, instruction string) (string, error) {
	mimeType, data := SplitDataURI(sourceImage)
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("source image is not valid base64: %w", err)
	}

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			genai.NewPartFromText(instruction),
			genai.NewPartFromBytes(raw, mimeType),
		},
	}}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: upstream request failed: %w", ErrGenerationFailure, err)
	}
	return firstImage(resp)
}

// firstImage picks the first inline image of the first candidate; any
// later images are ignored.
func firstImage(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no content generated", ErrGenerationFailure)
	}

	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.InlineData == nil || len(p.InlineData.Data) == 0 {
			continue
		}
		mime := p.InlineData.MIMEType
		if mime == "" {
			mime = fallbackResult
		}
		return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(p.InlineData.Data), nil
	}
	return "", fmt.Errorf("%w: no image data found in response", ErrGenerationFailure)
}
