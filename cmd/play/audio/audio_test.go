package audio

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

// constStreamer emits n stereo frames with left=l and right=r.
type constStreamer struct {
	n    int
	l, r float64
	pos  int
}

func (c *constStreamer) Stream(samples [][2]float64) (int, bool) {
	if c.pos >= c.n {
		return 0, false
	}
	i := 0
	for ; i < len(samples) && c.pos < c.n; i++ {
		samples[i][0] = c.l
		samples[i][1] = c.r
		c.pos++
	}
	return i, true
}

func (c *constStreamer) Err() error { return nil }

func writeWAV(t *testing.T, dir string, frames int, rate beep.SampleRate, l, r float64) string {
	t.Helper()
	path := filepath.Join(dir, "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create wav: %v", err)
	}
	defer f.Close()
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, &constStreamer{n: frames, l: l, r: r}, format); err != nil {
		t.Fatalf("Failed to encode wav: %v", err)
	}
	return path
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"wav", []byte("RIFF\x00\x00\x00\x00WAVEfmt "), FormatWAV},
		{"flac", []byte("fLaC\x00\x00"), FormatFLAC},
		{"ogg", []byte("OggS\x00\x02"), FormatVorbis},
		{"id3", []byte("ID3\x04\x00"), FormatMP3},
		{"mp3 frame sync", []byte{0xFF, 0xFB, 0x90, 0x00}, FormatMP3},
		{"text", []byte("hello world"), FormatUnknown},
		{"empty", nil, FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sniff(tt.data); got != tt.want {
				t.Errorf("Sniff() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadLocalWAV(t *testing.T) {
	path := writeWAV(t, t.TempDir(), 8000, 8000, 0.5, -0.25)

	dec, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if dec.Format != FormatWAV {
		t.Errorf("Format = %q, want wav", dec.Format)
	}
	if dec.SampleCount() != 8000 {
		t.Errorf("SampleCount() = %d, want 8000", dec.SampleCount())
	}
	if dec.Duration != time.Second {
		t.Errorf("Duration = %v, want 1s", dec.Duration)
	}
	// First channel only.
	for i, s := range dec.Samples[:10] {
		if math.Abs(s-0.5) > 1e-3 {
			t.Fatalf("Samples[%d] = %v, want ~0.5", i, s)
		}
	}
	if dec.Buffer.Len() != 8000 {
		t.Errorf("Buffer.Len() = %d, want 8000", dec.Buffer.Len())
	}
}

func TestLoadOverHTTP(t *testing.T) {
	path := writeWAV(t, t.TempDir(), 400, 8000, 0.1, 0.1)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read wav: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tracks/tone.wav" {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()

	dec, err := Load(context.Background(), srv.URL+"/tracks/tone.wav")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if dec.SampleCount() != 400 {
		t.Errorf("SampleCount() = %d, want 400", dec.SampleCount())
	}

	if _, err := Fetch(context.Background(), srv.URL+"/missing.mp3"); err == nil {
		t.Error("Fetch() of a 404 should fail")
	}
}

func TestLoadErrors(t *testing.T) {
	origLookPath := lookPath
	lookPath = func(string) (string, error) { return "", errors.New("not found") }
	defer func() { lookPath = origLookPath }()

	if _, err := Load(context.Background(), ""); !errors.Is(err, ErrEmptySource) {
		t.Errorf("Load(\"\") error = %v, want ErrEmptySource", err)
	}

	dir := t.TempDir()
	if _, err := Load(context.Background(), filepath.Join(dir, "nope.mp3")); err == nil {
		t.Error("Load() of a missing file should fail")
	}

	junk := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(junk, []byte("not audio at all"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := Load(context.Background(), junk); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(text file) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestFetchCanceled(t *testing.T) {
	path := writeWAV(t, t.TempDir(), 100, 8000, 0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Fetch(ctx, path); !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() with canceled context error = %v, want context.Canceled", err)
	}
}

func TestFetchSizeLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.bin")
	if err := os.WriteFile(path, make([]byte, 2048), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	SetMaxSourceBytes(1024)
	defer SetMaxSourceBytes(0)

	if _, err := Fetch(context.Background(), path); !errors.Is(err, ErrSourceTooLarge) {
		t.Errorf("Fetch() error = %v, want ErrSourceTooLarge", err)
	}

	SetMaxSourceBytes(0)
	if MaxSourceBytes() != DefaultMaxSourceBytes {
		t.Errorf("MaxSourceBytes() = %d after reset, want default", MaxSourceBytes())
	}
	if data, err := Fetch(context.Background(), path); err != nil || len(data) != 2048 {
		t.Errorf("Fetch() = %d bytes, %v", len(data), err)
	}
}
