// Package setup writes ~/.wavepost/config.json with every setting filled in.
package setup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/wavepost/cmd/common"
	"github.com/gigurra/wavepost/cmd/play/config"
	"github.com/spf13/cobra"
)

type Params struct {
	Feed   string `short:"f" optional:"true" help:"Feed file to store as the default feed."`
	Notify bool   `short:"n" optional:"true" help:"Enable now-playing notifications."`
	Force  bool   `long:"force" help:"Overwrite an existing config file"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "setup",
		Short:       "Write the config file",
		Long:        "Writes ~/.wavepost/config.json with defaults for every setting, so it can be edited by hand.",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "setup: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func Run(params *Params, out io.Writer) error {
	path := config.ConfigPath()
	if _, err := os.Stat(path); err == nil && !params.Force {
		return fmt.Errorf("%s already exists, use --force to rewrite it", path)
	}

	// Load keeps existing values when rewriting and fills the gaps.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if params.Feed != "" {
		feed, err := filepath.Abs(params.Feed)
		if err != nil {
			return err
		}
		cfg.Feed = feed
	}
	if params.Notify {
		cfg.Notify = &config.NotificationConfig{Enabled: true}
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}
