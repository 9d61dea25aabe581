// Package play is the interactive page of waveform players.
package play

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/wavepost/cmd/common"
	"github.com/gigurra/wavepost/cmd/common/logging"
	"github.com/gigurra/wavepost/cmd/common/notify"
	"github.com/gigurra/wavepost/cmd/play/audio"
	"github.com/gigurra/wavepost/cmd/play/config"
	"github.com/gigurra/wavepost/cmd/play/player"
	"github.com/gigurra/wavepost/cmd/play/tracks"
	"github.com/gigurra/wavepost/cmd/play/ui"
	"github.com/spf13/cobra"
)

type Params struct {
	Feed     string   `short:"f" optional:"true" help:"Track feed JSON file. Defaults to the configured feed, then the built-in tracks."`
	Style    string   `short:"s" optional:"true" help:"Player style: wave or bars."`
	FPS      int      `optional:"true" help:"Frames per second."`
	Rows     int      `short:"r" optional:"true" help:"Canvas height in terminal rows."`
	Colors   []string `short:"c" optional:"true" help:"Gradient colors as hex, 1 to 8 of them."`
	Notify   bool     `short:"n" optional:"true" help:"Desktop notification when a track starts."`
	LogLevel string   `optional:"true" help:"Log level: debug, info, warn or error."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "play",
		Short: "Browse and play the track feed",
		Long: `Shows every track in the feed as a waveform player.

Keys: ↑/↓ or j/k select, space/enter play or pause, ←/→ seek 5s,
0-9 jump to 0-90%, y copy the source, q quit. Click a waveform to seek.

Only one track plays at a time. Starting another pauses the current one.`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params); err != nil {
				fmt.Fprintf(os.Stderr, "play: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func Run(params *Params) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyParams(cfg, params); err != nil {
		return err
	}

	logFile, err := logging.Setup(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return err
	}
	defer logFile.Close()

	audio.SetMaxSourceBytes(cfg.MaxSourceBytes())

	feedPath := FeedPath(params.Feed, cfg)
	list, err := LoadFeed(feedPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return ui.Run(ctx, ui.Options{
		Tracks:     list,
		FeedPath:   feedPath,
		WidthRatio: cfg.WidthRatio,
		FPS:        cfg.FPS,
		Notifier:   notify.New(cfg.Notify.Enabled),
		Player: player.Options{
			Colors: cfg.Sequence(),
			Style:  cfg.Style,
			Rows:   cfg.CanvasRows,
		},
	})
}

// applyParams lets flags override the config file.
func applyParams(cfg *config.Config, params *Params) error {
	if params.Style != "" {
		cfg.Style = params.Style
	}
	if params.FPS != 0 {
		cfg.FPS = params.FPS
	}
	if params.Rows != 0 {
		cfg.CanvasRows = params.Rows
	}
	if len(params.Colors) > 0 {
		cfg.Colors = params.Colors
	}
	if params.Notify {
		cfg.Notify = &config.NotificationConfig{Enabled: true}
	}
	if params.LogLevel != "" {
		cfg.Log.Level = params.LogLevel
	}
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return err
	}
	return cfg.Validate()
}

// FeedPath picks the feed file: the flag, then the config. Empty means the
// built-in feed.
func FeedPath(flag string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	return cfg.Feed
}

// LoadFeed reads the feed at path, or returns the built-in feed for "".
func LoadFeed(path string) ([]tracks.Track, error) {
	if path == "" {
		return tracks.Default(), nil
	}
	return tracks.Load(path)
}
