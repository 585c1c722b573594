package appclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atelierd/pkg/types"
)

func TestGenerateImage(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/execution", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		var req text2imgRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a glowing dragon", req.Prompt)
		assert.Equal(t, "bright", req.Hints.Mood)
		_ = json.NewEncoder(w).Encode(text2imgResponse{Image: base64.StdEncoding.EncodeToString(png)})
	}))
	defer srv.Close()

	c := New(srv.URL, "", zerolog.Nop())
	got, err := c.GenerateImage(context.Background(), "a glowing dragon", types.StyleHints{Mood: "bright"})
	require.NoError(t, err)
	assert.Equal(t, png, got)
}

func TestGenerateObjectRoundTripsImage(t *testing.T) {
	img := []byte("png-bytes")
	glb := []byte("glb-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req img2objRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		decoded, err := base64.StdEncoding.DecodeString(req.Image)
		require.NoError(t, err)
		assert.Equal(t, img, decoded)
		assert.Equal(t, "low-poly", req.Params)
		_ = json.NewEncoder(w).Encode(img2objResponse{Object: base64.StdEncoding.EncodeToString(glb)})
	}))
	defer srv.Close()

	c := New("", srv.URL, zerolog.Nop())
	got, err := c.GenerateObject(context.Background(), img, "low-poly")
	require.NoError(t, err)
	assert.Equal(t, glb, got)
}

func TestUnconfiguredAppIsUnavailable(t *testing.T) {
	c := New("", "", zerolog.Nop())
	_, err := c.GenerateImage(context.Background(), "x", types.StyleHints{})
	require.Error(t, err)
	assert.True(t, IsAppUnavailable(err))
}

func TestServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	c := New(srv.URL, "", zerolog.Nop())
	_, err := c.GenerateImage(context.Background(), "x", types.StyleHints{})
	require.Error(t, err)
	assert.True(t, IsAppUnavailable(err))
}

func TestClientErrorIsNotUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad prompt", http.StatusBadRequest)
	}))
	defer srv.Close()
	c := New(srv.URL, "", zerolog.Nop())
	_, err := c.GenerateImage(context.Background(), "x", types.StyleHints{})
	require.Error(t, err)
	assert.False(t, IsAppUnavailable(err))
}

func TestMissingFieldRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	c := New(srv.URL, "", zerolog.Nop())
	_, err := c.GenerateImage(context.Background(), "x", types.StyleHints{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing image")
}

func TestBadBase64Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(text2imgResponse{Image: "!!not-base64!!"})
	}))
	defer srv.Close()
	c := New(srv.URL, "", zerolog.Nop())
	_, err := c.GenerateImage(context.Background(), "x", types.StyleHints{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad base64")
}

func TestCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()
	c := New(srv.URL, "", zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.GenerateImage(ctx, "x", types.StyleHints{})
	require.ErrorIs(t, err, context.Canceled)
}
