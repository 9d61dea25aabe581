package player

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gigurra/wavepost/cmd/play/colors"
	"github.com/mattn/go-runewidth"
)

// Layout of View, in terminal cells relative to its top-left corner.
const (
	headerLines  = 3
	boxInsetCols = 2 // border + padding
	boxInsetRows = 1 // border
	buttonWidth  = 3
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	artistStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	descStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	loadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	idleBorder   = lipgloss.Color("241")
	focusBorder  = lipgloss.Color("250")
)

// Box is a rectangle of terminal cells.
type Box struct {
	Col, Row   int
	Cols, Rows int
}

// Contains reports whether the cell (col,row) is inside the box.
func (b Box) Contains(col, row int) bool {
	return col >= b.Col && col < b.Col+b.Cols && row >= b.Row && row < b.Row+b.Rows
}

// CanvasBox is where the canvas sits inside View.
func (p *Player) CanvasBox() Box {
	return Box{Col: boxInsetCols, Row: boxInsetRows + headerLines, Cols: p.canvas.Cols(), Rows: p.canvas.Rows()}
}

// ButtonBox is where the play/pause glyph sits inside View.
func (p *Player) ButtonBox() Box {
	return Box{Col: boxInsetCols, Row: boxInsetRows + headerLines + p.canvas.Rows(), Cols: buttonWidth, Rows: 1}
}

// Height is the number of lines View returns.
func (p *Player) Height() int {
	return p.canvas.Rows() + headerLines + 1 + 2*boxInsetRows
}

// View renders the player. The border follows the color animation while
// the track plays.
func (p *Player) View(focused bool) string {
	cols := p.canvas.Cols()
	status, err := p.Status()
	state := p.ctrl.State()

	header := []string{
		titleStyle.Render(fit(p.track.Title, cols)),
		artistStyle.Render(fit(p.track.Artist+" · "+p.track.UploadDate, cols)),
		descStyle.Render(fit(p.track.Description, cols)),
	}

	glyph := "▶"
	if state.Playing {
		glyph = "⏸"
	}
	button := "[" + glyph + "]"
	if state.Playing {
		tint := p.opts.Colors.Cycle(p.elapsed(), 0.2).Over(colors.Black)
		button = lipgloss.NewStyle().Background(lipgloss.Color(tint.Hex())).Render(button)
	}

	readout := timeStyle.Render(formatSeconds(state.Position) + " / " + formatSeconds(state.Duration))
	switch status {
	case StatusLoading:
		readout = loadingStyle.Render("loading…")
	case StatusFailed:
		msg := "failed"
		if err != nil {
			msg = "failed: " + err.Error()
		}
		readout = errorStyle.Render(fit(msg, max(cols-buttonWidth-1, 1)))
	}
	gap := max(cols-buttonWidth-lipgloss.Width(readout), 1)
	controls := button + strings.Repeat(" ", gap) + readout

	body := strings.Join(append(header, p.canvas.Render(), controls), "\n")

	border := idleBorder
	if focused {
		border = focusBorder
	}
	if state.Playing {
		border = lipgloss.Color(p.opts.Colors.Cycle(p.elapsed(), 1).Hex())
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(cols + 2).
		Render(body)
}

// fit truncates s to at most width cells.
func fit(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
