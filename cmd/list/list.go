package list

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/wavepost/cmd/common"
	"github.com/gigurra/wavepost/cmd/play"
	"github.com/gigurra/wavepost/cmd/play/config"
	"github.com/gigurra/wavepost/cmd/play/tracks"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

type Params struct {
	Feed string `short:"f" optional:"true" help:"Track feed JSON file. Defaults to the configured feed, then the built-in tracks."`
	JSON bool   `long:"json" help:"Output the quarter groups as JSON"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "list",
		Aliases:     []string{"ls"},
		Short:       "List the feed grouped by upload quarter",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "list: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

type jsonGroup struct {
	Quarter string         `json:"quarter"`
	Anchor  string         `json:"anchor"`
	Tracks  []tracks.Track `json:"tracks"`
}

func Run(params *Params, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	list, err := play.LoadFeed(play.FeedPath(params.Feed, cfg))
	if err != nil {
		return err
	}
	groups := tracks.GroupByQuarter(list)

	if params.JSON {
		payload := make([]jsonGroup, 0, len(groups))
		for _, g := range groups {
			payload = append(payload, jsonGroup{Quarter: g.Label(), Anchor: g.Anchor(), Tracks: g.Tracks})
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	renderTable(out, groups, common.TermWidth(120))
	fmt.Fprintf(out, "\n%d tracks in %d quarters\n", len(list), len(groups))
	return nil
}

func renderTable(out io.Writer, groups []tracks.QuarterGroup, width int) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.SetAllowedRowLength(width)

	t.AppendHeader(table.Row{"Quarter", "Date", "Title", "Artist", "Source"})
	for i, g := range groups {
		if i > 0 {
			t.AppendSeparator()
		}
		for j, tr := range g.Tracks {
			label := ""
			if j == 0 {
				label = text.FgCyan.Sprint(g.Label())
			}
			t.AppendRow(table.Row{label, tr.UploadDate, tr.Title, tr.Artist, tr.AudioSrc})
		}
	}
	t.Render()
}
