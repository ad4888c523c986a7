package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentPart struct {
	Text       string `json:"text"`
	InlineData *struct {
		MimeType string `json:"mimeType"`
		Data     string `json:"data"`
	} `json:"inlineData"`
}

type sentRequest struct {
	Contents []struct {
		Role  string     `json:"role"`
		Parts []sentPart `json:"parts"`
	} `json:"contents"`
}

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithBaseURL(srv.URL), WithHTTPClient(srv.Client())}, opts...)
	c, err := NewClient(context.Background(), "secret", opts...)
	require.NoError(t, err)
	return c
}

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestSplitDataURI(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantMime string
		wantData string
	}{
		{"png", "data:image/png;base64,AAAA", "image/png", "AAAA"},
		{"jpeg", "data:image/jpeg;base64,BBBB", "image/jpeg", "BBBB"},
		{"jpg normalized", "data:image/jpg;base64,CCCC", "image/jpeg", "CCCC"},
		{"webp", "data:image/webp;base64,DDDD", "image/webp", "DDDD"},
		{"bare base64", "EEEE", "image/jpeg", "EEEE"},
		{"unsupported type", "data:image/gif;base64,FFFF", "image/jpeg", "data:image/gif;base64,FFFF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, data := SplitDataURI(tt.in)
			require.Equal(t, tt.wantMime, mime)
			require.Equal(t, tt.wantData, data)
		})
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), "")
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGenerateSendsRequest(t *testing.T) {
	var got sentRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		respond(`{"candidates":[{"content":{"role":"model","parts":[
			{"text":"here you go"},
			{"inlineData":{"mimeType":"image/webp","data":"UkVTVUxU"}}
		]}}]}`)(w, r)
	}, WithModel("test-model"))

	out, err := c.Generate(context.Background(), "data:image/png;base64,SU1H", "white background")
	require.NoError(t, err)
	require.Equal(t, "data:image/webp;base64,UkVTVUxU", out)

	require.Len(t, got.Contents, 1)
	parts := got.Contents[0].Parts
	require.Len(t, parts, 2)
	require.Equal(t, "white background", parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	require.Equal(t, "image/png", parts[1].InlineData.MimeType)
	require.Equal(t, "SU1H", parts[1].InlineData.Data)
}

func TestGenerateUsesFirstImage(t *testing.T) {
	c := newTestClient(t, respond(`{"candidates":[{"content":{"parts":[
		{"inlineData":{"mimeType":"image/png","data":"QQ=="}},
		{"inlineData":{"mimeType":"image/jpeg","data":"Qg=="}}
	]}}]}`))

	out, err := c.Generate(context.Background(), "QUJD", "prompt")
	require.NoError(t, err)
	require.Equal(t, "data:image/png;base64,QQ==", out)
}

func TestGenerateDefaultsResultMime(t *testing.T) {
	c := newTestClient(t, respond(`{"candidates":[{"content":{"parts":[{"inlineData":{"data":"QUJD"}}]}}]}`))

	out, err := c.Generate(context.Background(), "QUJD", "prompt")
	require.NoError(t, err)
	require.Equal(t, "data:image/png;base64,QUJD", out)
}

func TestGenerateRejectsInvalidSource(t *testing.T) {
	var called atomic.Bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called.Store(true) })

	_, err := c.Generate(context.Background(), "data:image/png;base64,!!!", "p")
	require.Error(t, err)
	require.False(t, called.Load())
}

func TestGenerateWithoutImage(t *testing.T) {
	bodies := map[string]string{
		"no candidates": `{"candidates":[]}`,
		"text only":     `{"candidates":[{"content":{"parts":[{"text":"sorry"}]}}]}`,
		"empty data":    `{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"image/png","data":""}}]}}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, respond(body))
			_, err := c.Generate(context.Background(), "QUJD", "p")
			require.ErrorIs(t, err, ErrGenerationFailure)
		})
	}
}

func TestGenerateUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := c.Generate(context.Background(), "QUJD", "p")
	require.ErrorIs(t, err, ErrGenerationFailure)
	require.Contains(t, err.Error(), "429")
	require.Contains(t, err.Error(), "quota exhausted")
}

func TestGenerateHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Generate(ctx, "QUJD", "p")
	require.ErrorIs(t, err, context.Canceled)
}
