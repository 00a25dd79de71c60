// Package backend talks to the analysis service: one multipart upload to
// prepare a run, one JSON call to analyze it.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mithrel/tally/pkg/api"
)

const (
	DefaultPreparePath = "/prepare"
	DefaultAnalyzePath = "/analyze"
	defaultTimeout     = 60 * time.Second
)

type Options struct {
	BaseURL     string
	PreparePath string
	AnalyzePath string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

type Client struct {
	baseURL     string
	preparePath string
	analyzePath string
	httpClient  *http.Client
	validate    *validator.Validate
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	c := &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		preparePath: opts.PreparePath,
		analyzePath: opts.AnalyzePath,
		httpClient:  hc,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
	if c.preparePath == "" {
		c.preparePath = DefaultPreparePath
	}
	if c.analyzePath == "" {
		c.analyzePath = DefaultAnalyzePath
	}
	return c
}

// Prepare uploads the file as the multipart field "file".
func (c *Client) Prepare(ctx context.Context, up api.Upload) (api.PrepareResponse, error) {
	var out api.PrepareResponse
	f, err := os.Open(up.Path)
	if err != nil {
		return out, &TransportError{Op: OpPrepare, Message: fmt.Sprintf("open upload: %v", err), Err: err}
	}
	defer f.Close()

	name := up.Name
	if name == "" {
		name = filepath.Base(up.Path)
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return out, &TransportError{Op: OpPrepare, Message: err.Error(), Err: err}
	}
	if _, err := io.Copy(part, f); err != nil {
		return out, &TransportError{Op: OpPrepare, Message: fmt.Sprintf("read upload: %v", err), Err: err}
	}
	if err := mw.Close(); err != nil {
		return out, &TransportError{Op: OpPrepare, Message: err.Error(), Err: err}
	}

	respBody, code, err := c.execRequest(ctx, OpPrepare, c.preparePath, mw.FormDataContentType(), &body)
	if err != nil {
		return out, err
	}
	if err := decodeOK(OpPrepare, code, respBody, &out); err != nil {
		return out, err
	}
	if err := c.validate.Struct(out); err != nil {
		return out, invalidResponse(OpPrepare, code, err)
	}
	return out, nil
}

// Analyze requests the report for a prepared run.
func (c *Client) Analyze(ctx context.Context, req api.AnalyzeRequest) (api.AnalyzeResponse, error) {
	var out api.AnalyzeResponse
	if err := c.validate.Struct(req); err != nil {
		return out, fmt.Errorf("analyze request: %w", err)
	}
	b, err := json.Marshal(req)
	if err != nil {
		return out, err
	}
	respBody, code, err := c.execRequest(ctx, OpAnalyze, c.analyzePath, "application/json", bytes.NewReader(b))
	if err != nil {
		return out, err
	}
	if err := decodeOK(OpAnalyze, code, respBody, &out); err != nil {
		return out, err
	}
	return out, nil
}

func (c *Client) execRequest(ctx context.Context, op Op, path, contentType string, body io.Reader) ([]byte, int, error) {
	logger := zerolog.Ctx(ctx)
	reqID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, 0, &TransportError{Op: op, Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	logger.Debug().Str("op", string(op)).Str("request_id", reqID).Str("url", req.URL.String()).Msg("backend request")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn().Err(err).Str("op", string(op)).Str("request_id", reqID).Msg("backend request failed")
		return nil, 0, &TransportError{Op: op, Message: fmt.Sprintf("%s request failed: %v", op, err), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	logger.Debug().
		Str("op", string(op)).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend response")
	if err != nil {
		return nil, resp.StatusCode, &TransportError{Op: op, Status: resp.StatusCode, Message: fmt.Sprintf("%s response read failed: %v", op, err), Err: err}
	}
	return respBody, resp.StatusCode, nil
}

// decodeOK applies the error-body convention: any non-2xx status becomes a
// TransportError carrying the server's "error" text or the fallback.
func decodeOK(op Op, code int, body []byte, dst any) error {
	if code < 200 || code >= 300 {
		msg := op.fallback()
		var eb api.ErrorBody
		if json.Unmarshal(body, &eb) == nil && strings.TrimSpace(eb.Error) != "" {
			msg = eb.Error
		}
		return &TransportError{Op: op, Status: code, Message: msg}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return invalidResponse(op, code, err)
	}
	return nil
}
