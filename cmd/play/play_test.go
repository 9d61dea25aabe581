package play

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gigurra/wavepost/cmd/play/config"
	"github.com/gigurra/wavepost/cmd/play/player"
)

func TestApplyParams(t *testing.T) {
	cfg := config.DefaultConfig()
	err := applyParams(cfg, &Params{
		Style:    player.StyleBars,
		FPS:      60,
		Rows:     4,
		Colors:   []string{"#ff0000", "#00ff00"},
		Notify:   true,
		LogLevel: "debug",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Style != player.StyleBars || cfg.FPS != 60 || cfg.CanvasRows != 4 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Sequence().Len() != 2 || !cfg.Notify.Enabled || cfg.Log.Level != "debug" {
		t.Errorf("colors=%v notify=%v level=%q", cfg.Colors, cfg.Notify.Enabled, cfg.Log.Level)
	}
}

func TestApplyParamsKeepsConfigWhenUnset(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FPS = 24
	if err := applyParams(cfg, &Params{}); err != nil {
		t.Fatal(err)
	}
	if cfg.FPS != 24 || cfg.Style != player.StyleWave {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestApplyParamsRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"style", Params{Style: "dots"}},
		{"fps", Params{FPS: 500}},
		{"color", Params{Colors: []string{"#zzzzzz"}}},
		{"log level", Params{LogLevel: "loud"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := applyParams(config.DefaultConfig(), &tc.params); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFeedSelection(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Feed = "/etc/feed.json"
	if got := FeedPath("mine.json", cfg); got != "mine.json" {
		t.Errorf("FeedPath = %q", got)
	}
	if got := FeedPath("", cfg); got != "/etc/feed.json" {
		t.Errorf("FeedPath = %q", got)
	}

	list, err := LoadFeed("")
	if err != nil || len(list) != 3 {
		t.Fatalf("built-in feed = %d tracks, %v", len(list), err)
	}

	path := filepath.Join(t.TempDir(), "feed.json")
	if err := os.WriteFile(path, []byte(`[{"id":"a","audioSrc":"https://x/a.mp3"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	list, err = LoadFeed(path)
	if err != nil || len(list) != 1 || list[0].AudioSrc != "https://x/a.mp3" {
		t.Errorf("LoadFeed = %+v, %v", list, err)
	}
	if _, err := LoadFeed(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing feed loaded")
	}
}
