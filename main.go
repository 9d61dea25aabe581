package main

import (
	"runtime/debug"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/wavepost/cmd/list"
	"github.com/gigurra/wavepost/cmd/play"
	"github.com/gigurra/wavepost/cmd/setup"
	"github.com/gigurra/wavepost/cmd/waveform"
	"github.com/spf13/cobra"
)

func main() {
	boa.CmdT[boa.NoParams]{
		Use:     "wavepost",
		Short:   "Music feed with waveform players for the terminal",
		Version: appVersion(),
		SubCmds: []*cobra.Command{
			play.Cmd(),
			list.Cmd(),
			waveform.Cmd(),
			setup.Cmd(),
		},
	}.Run()
}

func appVersion() string {
	bi, hasBuilInfo := debug.ReadBuildInfo()
	if !hasBuilInfo {
		return "unknown-(no build info)"
	}

	versionString := bi.Main.Version
	if versionString == "" {
		versionString = "unknown-(no version)"
	}

	return versionString
}
