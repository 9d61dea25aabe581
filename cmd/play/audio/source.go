// Package audio fetches audio sources (local paths or http(s) URLs) and
// decodes them into PCM buffers for playback and waveform analysis.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

var (
	ErrEmptySource       = errors.New("empty audio source")
	ErrSourceTooLarge    = errors.New("audio source too large")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// DefaultMaxSourceBytes caps how much of a single source is read into memory
// unless SetMaxSourceBytes says otherwise.
const DefaultMaxSourceBytes = 512 << 20

var maxSourceBytes atomic.Int64

func init() { maxSourceBytes.Store(DefaultMaxSourceBytes) }

// SetMaxSourceBytes changes the per-source read cap. n <= 0 restores the default.
func SetMaxSourceBytes(n int64) {
	if n <= 0 {
		n = DefaultMaxSourceBytes
	}
	maxSourceBytes.Store(n)
}

// MaxSourceBytes returns the current per-source read cap.
func MaxSourceBytes() int64 { return maxSourceBytes.Load() }

var httpClient = &http.Client{
	Timeout: 60 * time.Second,
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		if len(via) >= 10 {
			return fmt.Errorf("too many redirects")
		}
		return nil
	},
}

// IsRemote reports whether src is fetched over http(s).
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Fetch reads the whole source into memory.
func Fetch(ctx context.Context, src string) ([]byte, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmptySource
	}

	var body io.ReadCloser
	if IsRemote(src) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", src, err)
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", src, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: http error: %s", src, resp.Status)
		}
		body = resp.Body
	} else {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("open: %w", err)
		}
		body = f
	}
	defer body.Close()

	limit := MaxSourceBytes()
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(&ctxReader{ctx: ctx, r: body}, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	if n > limit {
		return nil, fmt.Errorf("%w: %s", ErrSourceTooLarge, src)
	}
	return buf.Bytes(), nil
}

// ctxReader stops a long local read once the owning player is gone.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
