package waveform

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/wavepost/cmd/common"
	"github.com/gigurra/wavepost/cmd/play/audio"
	"github.com/gigurra/wavepost/cmd/play/canvas"
	"github.com/gigurra/wavepost/cmd/play/colors"
	"github.com/gigurra/wavepost/cmd/play/config"
	"github.com/gigurra/wavepost/cmd/play/render"
	wave "github.com/gigurra/wavepost/cmd/play/waveform"
	"github.com/spf13/cobra"
)

type Params struct {
	Source string   `pos:"true" required:"true" help:"Audio file or http(s) URL."`
	At     string   `short:"a" optional:"true" help:"Draw progress up to this position, as a duration (1m30s) or a percentage (40%)."`
	Cols   int      `short:"w" optional:"true" help:"Width in terminal cells. Defaults to the terminal width."`
	Rows   int      `short:"r" optional:"true" help:"Height in terminal rows. Defaults to the configured canvas rows."`
	Colors []string `short:"c" optional:"true" help:"Gradient colors as hex, 1 to 8 of them."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "waveform",
		Short:       "Print the waveform of one audio source",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(cmd.Context(), params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "waveform: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func Run(ctx context.Context, params *Params, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	audio.SetMaxSourceBytes(cfg.MaxSourceBytes())

	seq := cfg.Sequence()
	if len(params.Colors) > 0 {
		if seq, err = colors.NewSequence(params.Colors...); err != nil {
			return err
		}
	}
	cols := params.Cols
	if cols <= 0 {
		cols = common.TermWidth(80)
	}
	rows := params.Rows
	if rows <= 0 {
		rows = cfg.CanvasRows
	}

	dec, err := audio.Load(ctx, params.Source)
	if err != nil {
		return err
	}
	pos, err := ParsePosition(params.At, dec.Duration)
	if err != nil {
		return err
	}

	fmt.Fprint(out, Draw(dec, pos, cols, rows, seq))
	fmt.Fprintf(out, "%s  %ds / %ds\n", params.Source, int(pos/time.Second), int(dec.Duration/time.Second))
	return nil
}

// Draw renders one frame of dec at pos on a cols x rows braille canvas.
func Draw(dec *audio.Decoded, pos time.Duration, cols, rows int, seq colors.Sequence) string {
	c := canvas.NewBraille(cols, rows)
	render.DrawWaveform(c, render.Scene{
		Profile:  wave.Build(dec, c.Width()),
		Position: pos,
		Duration: dec.Duration,
		Colors:   seq,
	})
	c.Present()
	return c.Render() + "\n"
}

// ParsePosition reads "" (start), a percentage like "40%" or a duration,
// clamped to [0,total].
func ParsePosition(s string, total time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	var pos time.Duration
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid position %q: %w", s, err)
		}
		pos = time.Duration(f / 100 * float64(total))
	} else {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid position %q: %w", s, err)
		}
		pos = d
	}
	return min(max(pos, 0), total), nil
}
