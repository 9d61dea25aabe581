package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/GiGurra/cmder"
)

// ffmpegTimeout bounds a single fallback transcode.
const ffmpegTimeout = 2 * time.Minute

var lookPath = exec.LookPath

// FFmpegAvailable reports whether the ffmpeg fallback can be used.
func FFmpegAvailable() bool {
	_, err := lookPath("ffmpeg")
	return err == nil
}

// transcodeWithFFmpeg converts data into a 16-bit WAV file and returns its bytes.
func transcodeWithFFmpeg(ctx context.Context, data []byte, name string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "wavepost-ffmpeg-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "input"+filepath.Ext(name))
	out := filepath.Join(dir, "output.wav")
	if err := os.WriteFile(in, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write temp input: %w", err)
	}

	res := cmder.New("ffmpeg", "-hide_banner", "-loglevel", "error", "-y",
		"-i", in, "-f", "wav", "-acodec", "pcm_s16le", out).
		WithAttemptTimeout(ffmpegTimeout).
		Run(ctx)
	if res.Err != nil {
		return nil, fmt.Errorf("ffmpeg: %w", res.Err)
	}

	wavData, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("failed to read ffmpeg output: %w", err)
	}
	return wavData, nil
}
