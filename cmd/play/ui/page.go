// Package ui is the terminal page listing every track as a player.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gigurra/wavepost/cmd/common/notify"
	"github.com/gigurra/wavepost/cmd/play/player"
	"github.com/gigurra/wavepost/cmd/play/playback"
	"github.com/gigurra/wavepost/cmd/play/tracks"
	"github.com/samber/lo"
)

const (
	seekStep    = 5 * time.Second
	headerLines = 2
	footerLines = 1
)

var clipboardWriteAll = clipboard.WriteAll

var (
	pageTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	pageInfoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	statusErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Options configures the page.
type Options struct {
	Tracks     []tracks.Track
	FeedPath   string
	WidthRatio float64
	FPS        int
	Notifier   *notify.Notifier
	// Player is the template every player is built from. Cols is computed
	// from the terminal width and Registry is shared by the page.
	Player player.Options
}

type frameMsg time.Time

type feedChangedMsg struct{}

type feedReloadedMsg struct {
	tracks []tracks.Track
	err    error
}

type feedWatchFailedMsg struct{ err error }

type pageModel struct {
	ctx      context.Context
	opts     Options
	registry *playback.Registry
	players  []*player.Player
	focus    int
	top      int
	width    int
	height   int
	status   string
	isErr    bool
}

func newPageModel(ctx context.Context, opts Options) pageModel {
	if opts.WidthRatio <= 0 || opts.WidthRatio > 1 {
		opts.WidthRatio = 0.8
	}
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	reg := opts.Player.Registry
	if reg == nil {
		reg = playback.NewRegistry()
	}
	m := pageModel{ctx: ctx, opts: opts, registry: reg, width: 80, height: 24}
	m.players = lo.Map(opts.Tracks, func(t tracks.Track, _ int) *player.Player { return m.newPlayer(t) })
	return m
}

func (m pageModel) newPlayer(t tracks.Track) *player.Player {
	o := m.opts.Player
	o.Registry = m.registry
	o.Cols = m.canvasCols()
	o.FPS = m.opts.FPS
	return player.New(t, o)
}

// canvasCols is the canvas width in cells: a fraction of the terminal,
// leaving room for the player border.
func (m pageModel) canvasCols() int {
	cols := int(float64(m.width) * m.opts.WidthRatio)
	return max(min(cols, m.width-4), 1)
}

func (m pageModel) Init() tea.Cmd {
	cmds := lo.Map(m.players, func(p *player.Player, _ int) tea.Cmd { return p.Mount(m.ctx) })
	cmds = append(cmds, frameTickCmd(m.opts.FPS), watchFeedCmd(m.ctx, m.opts.FeedPath))
	return tea.Batch(cmds...)
}

func frameTickCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// watchFeedCmd waits for the feed file to change. It is restarted after
// every change.
func watchFeedCmd(ctx context.Context, path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		if err := tracks.WaitForChange(ctx, path); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return feedWatchFailedMsg{err: err}
		}
		return feedChangedMsg{}
	}
}

func reloadFeedCmd(path string) tea.Cmd {
	return func() tea.Msg {
		// Editors often truncate before writing.
		time.Sleep(50 * time.Millisecond)
		list, err := tracks.Load(path)
		return feedReloadedMsg{tracks: list, err: err}
	}
}

func (m pageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		cols := m.canvasCols()
		for _, p := range m.players {
			p.Resize(cols, m.opts.Player.Rows)
		}
		return m.ensureFocusVisible(), nil

	case frameMsg:
		return m, frameTickCmd(m.opts.FPS)

	case player.DecodedMsg:
		for _, p := range m.players {
			if p.HandleDecoded(msg) {
				break
			}
		}
		return m, nil

	case feedChangedMsg:
		return m, tea.Batch(reloadFeedCmd(m.opts.FeedPath), watchFeedCmd(m.ctx, m.opts.FeedPath))

	case feedReloadedMsg:
		if msg.err != nil {
			slog.Warn("feed reload failed", "path", m.opts.FeedPath, "error", msg.err)
			return m.setStatus("feed: "+msg.err.Error(), true), nil
		}
		return m.applyFeed(msg.tracks)

	case feedWatchFailedMsg:
		slog.Warn("feed watch stopped", "path", m.opts.FeedPath, "error", msg.err)
		return m.setStatus("no longer watching feed: "+msg.err.Error(), true), nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m pageModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		m.unmountAll()
		return m, tea.Quit
	case "up", "k":
		if m.focus > 0 {
			m.focus--
		}
		return m.ensureFocusVisible(), nil
	case "down", "j":
		if m.focus < len(m.players)-1 {
			m.focus++
		}
		return m.ensureFocusVisible(), nil
	case " ", "enter":
		return m.toggle(m.focus)
	case "left", "h":
		return m.seekBy(-seekStep), nil
	case "right", "l":
		return m.seekBy(seekStep), nil
	case "y":
		p := m.focused()
		if p == nil {
			return m, nil
		}
		if err := clipboardWriteAll(p.Track().AudioSrc); err != nil {
			return m.setStatus("copy failed: "+err.Error(), true), nil
		}
		return m.setStatus("copied "+p.Track().AudioSrc, false), nil
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			if p := m.focused(); p != nil {
				_ = p.SeekPercent(int(key[0]-'0') * 10)
			}
		}
	}
	return m, nil
}

func (m pageModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	row := headerLines
	for i := m.top; i < len(m.players); i++ {
		p := m.players[i]
		h := p.Height()
		if msg.Y >= row && msg.Y < row+h {
			m.focus = i
			x, y := msg.X, msg.Y-row
			if box := p.CanvasBox(); box.Contains(x, y) {
				_ = p.ClickAt(x - box.Col)
				return m, nil
			}
			if p.ButtonBox().Contains(x, y) {
				return m.toggle(i)
			}
			return m, nil
		}
		row += h + 1
	}
	return m, nil
}

func (m pageModel) toggle(i int) (tea.Model, tea.Cmd) {
	if i < 0 || i >= len(m.players) {
		return m, nil
	}
	p := m.players[i]
	if err := p.TogglePlay(); err != nil {
		return m.setStatus("cannot play: "+err.Error(), true), nil
	}
	m = m.setStatus("", false)
	if !p.Controller().Playing() || !m.opts.Notifier.Enabled() {
		return m, nil
	}
	t, n := p.Track(), m.opts.Notifier
	return m, func() tea.Msg {
		n.NowPlaying(t.Title, t.Artist)
		return nil
	}
}

func (m pageModel) seekBy(d time.Duration) pageModel {
	if p := m.focused(); p != nil {
		_ = p.SeekBy(d)
	}
	return m
}

// applyFeed keeps players whose track is unchanged, unmounts removed ones
// and mounts new ones in feed order.
func (m pageModel) applyFeed(list []tracks.Track) (tea.Model, tea.Cmd) {
	existing := lo.SliceToMap(m.players, func(p *player.Player) (tracks.Track, *player.Player) {
		return p.Track(), p
	})

	var cmds []tea.Cmd
	next := make([]*player.Player, 0, len(list))
	for _, t := range list {
		if p, ok := existing[t]; ok {
			next = append(next, p)
			delete(existing, t)
			continue
		}
		p := m.newPlayer(t)
		p.Resize(m.canvasCols(), m.opts.Player.Rows)
		next = append(next, p)
		cmds = append(cmds, p.Mount(m.ctx))
	}
	for _, p := range existing {
		p.Unmount()
	}

	m.players = next
	m.focus = min(m.focus, max(len(next)-1, 0))
	m = m.ensureFocusVisible()
	slog.Info("feed reloaded", "tracks", len(next), "added", len(cmds))
	return m.setStatus(fmt.Sprintf("feed reloaded: %d tracks", len(next)), false), tea.Batch(cmds...)
}

func (m pageModel) focused() *player.Player {
	if m.focus < 0 || m.focus >= len(m.players) {
		return nil
	}
	return m.players[m.focus]
}

func (m pageModel) setStatus(s string, isErr bool) pageModel {
	m.status, m.isErr = s, isErr
	return m
}

func (m pageModel) ensureFocusVisible() pageModel {
	if m.focus < m.top {
		m.top = m.focus
	}
	avail := m.height - headerLines - footerLines
	for m.top < m.focus {
		used := 0
		for i := m.top; i <= m.focus; i++ {
			used += m.players[i].Height() + 1
		}
		if used <= avail {
			break
		}
		m.top++
	}
	return m
}

func (m pageModel) unmountAll() {
	for _, p := range m.players {
		p.Unmount()
	}
}

func (m pageModel) View() string {
	var sb strings.Builder
	sb.WriteString(pageTitleStyle.Render("wavepost"))
	sb.WriteString(pageInfoStyle.Render(fmt.Sprintf("  %d tracks", len(m.players))))
	sb.WriteString("\n\n")

	used := headerLines
	avail := m.height - footerLines
	if len(m.players) == 0 {
		sb.WriteString(pageInfoStyle.Render("No tracks in the feed."))
		sb.WriteString("\n")
		used++
	}
	for i := m.top; i < len(m.players); i++ {
		p := m.players[i]
		if i > m.top && used+p.Height() > avail {
			break
		}
		sb.WriteString(p.View(i == m.focus))
		sb.WriteString("\n\n")
		used += p.Height() + 1
	}

	help := helpStyle.Render("↑/↓ select • space play/pause • ←/→ seek • 0-9 jump • click waveform to seek • y copy source • q quit")
	if m.status != "" {
		style := statusStyle
		if m.isErr {
			style = statusErrStyle
		}
		help = style.Render(m.status) + "  " + help
	}
	sb.WriteString(help)
	return sb.String()
}

// Run shows the page until the user quits.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newPageModel(ctx, opts)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)).Run()
	if fm, ok := final.(pageModel); ok {
		fm.unmountAll()
	} else {
		m.unmountAll()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
