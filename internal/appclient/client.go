// Package appclient talks to the downstream generation services: the
// text-to-image app and the image-to-3D app. Both speak JSON over HTTP with
// base64-encoded binary payloads.
package appclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"atelierd/pkg/types"
)

// App identifiers used in errors and logs.
const (
	AppText2Img = "text2img"
	AppImg2Obj  = "img2obj"
)

const defaultCallTimeout = 5 * time.Minute

// Client calls the remote generation apps.
type Client struct {
	httpClient *http.Client
	baseURLs   map[string]string
	log        zerolog.Logger
}

// New builds a client for the two configured app endpoints. Empty URLs are
// allowed; calls to an unconfigured app fail with an unavailable error.
func New(text2imgURL, img2objURL string, log zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultCallTimeout},
		baseURLs: map[string]string{
			AppText2Img: text2imgURL,
			AppImg2Obj:  img2objURL,
		},
		log: log,
	}
}

// SetHTTPClient overrides the transport, primarily for tests.
func (c *Client) SetHTTPClient(h *http.Client) { c.httpClient = h }

type text2imgRequest struct {
	Prompt string           `json:"prompt"`
	Hints  types.StyleHints `json:"hints,omitempty"`
}

type text2imgResponse struct {
	Image string `json:"image"` // base64 PNG
}

type img2objRequest struct {
	Image  string `json:"image"` // base64 PNG
	Params string `json:"params,omitempty"`
}

type img2objResponse struct {
	Object string `json:"object"` // base64 GLB
}

// GenerateImage asks the text-to-image app to render the expanded prompt.
func (c *Client) GenerateImage(ctx context.Context, prompt string, hints types.StyleHints) ([]byte, error) {
	var resp text2imgResponse
	if err := c.call(ctx, AppText2Img, text2imgRequest{Prompt: prompt, Hints: hints}, &resp); err != nil {
		return nil, err
	}
	return decodeB64(AppText2Img, "image", resp.Image)
}

// GenerateObject asks the image-to-3D app to convert the rendered image.
func (c *Client) GenerateObject(ctx context.Context, image []byte, params string) ([]byte, error) {
	req := img2objRequest{Image: base64.StdEncoding.EncodeToString(image), Params: params}
	var resp img2objResponse
	if err := c.call(ctx, AppImg2Obj, req, &resp); err != nil {
		return nil, err
	}
	return decodeB64(AppImg2Obj, "object", resp.Object)
}

func (c *Client) call(ctx context.Context, app string, payload, out any) error {
	base := c.baseURLs[app]
	if base == "" {
		return appUnavailableError{app: app, msg: "app endpoint not configured"}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/execution", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return appUnavailableError{app: app, msg: err.Error()}
	}
	defer resp.Body.Close()
	c.log.Debug().Str("app", app).Int("status", resp.StatusCode).Dur("dur", time.Since(start)).Msg("app call")

	if resp.StatusCode >= 500 {
		return appUnavailableError{app: app, msg: resp.Status}
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return appError{app: app, msg: fmt.Sprintf("status %s: %s", resp.Status, bytes.TrimSpace(b))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appError{app: app, msg: "invalid response: " + err.Error()}
	}
	return nil
}

func decodeB64(app, field, v string) ([]byte, error) {
	if v == "" {
		return nil, appError{app: app, msg: "response missing " + field}
	}
	b, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		return nil, appError{app: app, msg: "bad base64 in " + field + ": " + err.Error()}
	}
	return b, nil
}
