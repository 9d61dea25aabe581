package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Format identifies a container/codec the decoder understands natively.
type Format string

const (
	FormatUnknown Format = ""
	FormatMP3     Format = "mp3"
	FormatWAV     Format = "wav"
	FormatFLAC    Format = "flac"
	FormatVorbis  Format = "ogg"
)

// Decoded is one fully decoded source.
type Decoded struct {
	Source     string
	Format     Format
	SampleRate beep.SampleRate
	Duration   time.Duration

	// Samples holds the first channel only, normalized to [-1,1].
	Samples []float64

	// Buffer holds both channels for playback.
	Buffer *beep.Buffer
}

// SampleCount returns the number of frames in the first channel.
func (d *Decoded) SampleCount() int {
	if d == nil {
		return 0
	}
	return len(d.Samples)
}

// Load fetches and decodes src. Formats beep cannot read are handed to
// ffmpeg when it is installed.
func Load(ctx context.Context, src string) (*Decoded, error) {
	data, err := Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	dec, err := DecodeBytes(data, src)
	if err == nil {
		return dec, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if !FFmpegAvailable() {
		return nil, err
	}
	wavData, ffErr := transcodeWithFFmpeg(ctx, data, src)
	if ffErr != nil {
		return nil, fmt.Errorf("%w (ffmpeg fallback: %v)", err, ffErr)
	}
	dec, err = DecodeBytes(wavData, src)
	if err != nil {
		return nil, fmt.Errorf("decode ffmpeg output: %w", err)
	}
	return dec, nil
}

// DecodeBytes decodes an in-memory file. name is only used as a format hint.
func DecodeBytes(data []byte, name string) (*Decoded, error) {
	format := Sniff(data)
	if format == FormatUnknown {
		format = formatFromExt(name)
	}

	var (
		streamer beep.StreamSeekCloser
		bf       beep.Format
		err      error
	)
	switch format {
	case FormatMP3:
		streamer, bf, err = mp3.Decode(nopCloser{bytes.NewReader(data)})
	case FormatWAV:
		streamer, bf, err = wav.Decode(bytes.NewReader(data))
	case FormatFLAC:
		streamer, bf, err = flac.Decode(bytes.NewReader(data))
	case FormatVorbis:
		streamer, bf, err = vorbis.Decode(nopCloser{bytes.NewReader(data)})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(name))
	}
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	defer streamer.Close()

	dec := FromStreamer(streamer, bf)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	dec.Source = name
	dec.Format = format
	return dec, nil
}

// FromStreamer drains s into a Decoded value.
func FromStreamer(s beep.Streamer, format beep.Format) *Decoded {
	buf := beep.NewBuffer(format)
	buf.Append(s)

	samples := make([]float64, 0, buf.Len())
	chunk := make([][2]float64, 4096)
	all := buf.Streamer(0, buf.Len())
	for {
		n, ok := all.Stream(chunk)
		for i := range n {
			samples = append(samples, chunk[i][0])
		}
		if !ok || n == 0 {
			break
		}
	}

	return &Decoded{
		SampleRate: format.SampleRate,
		Duration:   format.SampleRate.D(len(samples)),
		Samples:    samples,
		Buffer:     buf,
	}
}

// Sniff detects the format from magic bytes.
func Sniff(data []byte) Format {
	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return FormatWAV
	case len(data) >= 4 && string(data[0:4]) == "fLaC":
		return FormatFLAC
	case len(data) >= 4 && string(data[0:4]) == "OggS":
		return FormatVorbis
	case len(data) >= 3 && string(data[0:3]) == "ID3":
		return FormatMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return FormatMP3
	}
	return FormatUnknown
}

func formatFromExt(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3":
		return FormatMP3
	case ".wav", ".wave":
		return FormatWAV
	case ".flac":
		return FormatFLAC
	case ".ogg", ".oga":
		return FormatVorbis
	}
	return FormatUnknown
}

// nopCloser lets an in-memory reader satisfy io.ReadCloser.
type nopCloser struct {
	io.Reader
}

func (nopCloser) Close() error { return nil }
