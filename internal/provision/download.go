package provision

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FetchResult summarizes a model download.
type FetchResult struct {
	Path     string
	Bytes    int64
	Attempts int
	Resumed  bool
	Skipped  bool
}

// VerifyError indicates the downloaded file does not match the manifest.
// It is terminal: retrying the same URL would fetch the same bytes.
type VerifyError struct{ Reason string }

func (e VerifyError) Error() string { return "model verification failed: " + e.Reason }

// IsVerifyError reports whether err indicates a manifest mismatch.
func IsVerifyError(err error) bool {
	var ve VerifyError
	return errors.As(err, &ve)
}

// FetchModel downloads the manifest's weight file into the models directory.
// The transfer goes to a ".part" file and is renamed into place only after
// size and digest verification, so a crashed run never leaves a truncated
// weight file at the final path. Interrupted transfers resume via HTTP Range.
// Already-present files that verify are skipped.
func (p *Provisioner) FetchModel(ctx context.Context) (FetchResult, error) {
	m := p.cfg.Model
	if m.URL == "" {
		return FetchResult{}, fmt.Errorf("model url not configured")
	}
	filename := m.Filename
	if filename == "" {
		filename = filepath.Base(m.URL)
	}
	dest := filepath.Join(p.cfg.ModelsDir, filename)
	part := dest + ".part"

	if fi, err := os.Stat(dest); err == nil && fi.Size() > 0 {
		if err := p.verify(dest); err == nil {
			p.log.Info().Str("path", dest).Int64("bytes", fi.Size()).Msg("model already present, skipping download")
			return FetchResult{Path: dest, Bytes: fi.Size(), Skipped: true}, nil
		}
		// Present but wrong content: refetch from scratch.
		p.log.Warn().Str("path", dest).Msg("existing model failed verification, refetching")
		if err := os.Remove(dest); err != nil {
			return FetchResult{}, err
		}
	}

	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	delay := p.RetryBaseDelay
	if delay <= 0 {
		delay = defaultRetryBaseDelay
	}

	res := FetchResult{Path: dest}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		res.Attempts = attempt
		if attempt > 1 {
			p.log.Warn().Int("attempt", attempt).Err(lastErr).Dur("backoff", delay).Msg("retrying model download")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return res, ctx.Err()
			}
			delay *= 2
		}
		resumed, err := p.fetchOnce(ctx, m.URL, part)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			lastErr = err
			continue
		}
		res.Resumed = res.Resumed || resumed

		if err := p.verify(part); err != nil {
			_ = os.Remove(part)
			return res, err
		}
		if err := os.Rename(part, dest); err != nil {
			return res, err
		}
		fi, err := os.Stat(dest)
		if err != nil {
			return res, err
		}
		res.Bytes = fi.Size()
		p.log.Info().Str("path", dest).Int64("bytes", res.Bytes).Int("attempts", attempt).Msg("model download complete")
		return res, nil
	}
	return res, fmt.Errorf("model download failed after %d attempts: %w", attempts, lastErr)
}

// fetchOnce performs a single transfer into partPath, resuming from its
// current size when the server honors Range requests.
func (p *Provisioner) fetchOnce(ctx context.Context, url, partPath string) (resumed bool, err error) {
	var offset int64
	if fi, statErr := os.Stat(partPath); statErr == nil {
		offset = fi.Size()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}
	client := p.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	flags := os.O_CREATE | os.O_WRONLY
	switch resp.StatusCode {
	case http.StatusOK:
		// Full body: any partial content is stale.
		flags |= os.O_TRUNC
		offset = 0
	case http.StatusPartialContent:
		flags |= os.O_APPEND
		resumed = true
	case http.StatusRequestedRangeNotSatisfiable:
		// Part file is at or past EOF per the server; restart clean.
		if rmErr := os.Remove(partPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return false, rmErr
		}
		return false, fmt.Errorf("server rejected range at offset %d, restarting", offset)
	default:
		return false, fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	f, err := os.OpenFile(partPath, flags, 0o644)
	if err != nil {
		return resumed, err
	}
	defer f.Close()

	pw := &progressWriter{prov: p, written: offset, total: offset + resp.ContentLength}
	if _, err := io.Copy(io.MultiWriter(f, pw), resp.Body); err != nil {
		return resumed, err
	}
	return resumed, f.Sync()
}

// verify checks size and SHA-256 digest against the manifest. Empty files
// always fail; unspecified manifest fields skip their check.
func (p *Provisioner) verify(path string) error {
	m := p.cfg.Model
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.Size() == 0 {
		return VerifyError{Reason: "file is empty"}
	}
	if m.SizeBytes > 0 && fi.Size() != m.SizeBytes {
		return VerifyError{Reason: fmt.Sprintf("size %d != expected %d", fi.Size(), m.SizeBytes)}
	}
	if m.SHA256 == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return err
	}
	sum := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(sum, m.SHA256) {
		return VerifyError{Reason: fmt.Sprintf("sha256 %s != expected %s", sum, m.SHA256)}
	}
	return nil
}

// progressWriter logs transfer progress at coarse intervals.
type progressWriter struct {
	prov     *Provisioner
	written  int64
	total    int64
	lastMark int64
}

const progressStep = 64 << 20 // 64 MiB

func (w *progressWriter) Write(b []byte) (int, error) {
	w.written += int64(len(b))
	if w.written-w.lastMark >= progressStep {
		w.lastMark = w.written
		ev := w.prov.log.Info().Int64("bytes", w.written)
		if w.total > 0 {
			ev = ev.Int64("total", w.total)
		}
		ev.Msg("download progress")
	}
	return len(b), nil
}
