package list

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gigurra/wavepost/cmd/play/tracks"
)

var feed = []tracks.Track{
	{ID: "1", Title: "Summer Breeze", Artist: "Chill Vibes", AudioSrc: "a.mp3", UploadDate: "2025-03-15"},
	{ID: "2", Title: "Old Tape", Artist: "Lo", AudioSrc: "b.mp3", UploadDate: "2024-11-02"},
	{ID: "3", Title: "Neon Nights", Artist: "Synthwave Dreams", AudioSrc: "c.mp3", UploadDate: "2025-04-01"},
	{ID: "4", Title: "Mystery", AudioSrc: "d.mp3"},
}

func TestRenderTableOrdersQuarters(t *testing.T) {
	var buf bytes.Buffer
	renderTable(&buf, tracks.GroupByQuarter(feed), 200)
	out := buf.String()

	order := []string{"Q2 2025", "Q1 2025", "Q4 2024", "Undated"}
	last := -1
	for _, label := range order {
		i := strings.Index(out, label)
		if i < 0 {
			t.Fatalf("%q missing from\n%s", label, out)
		}
		if i < last {
			t.Errorf("%q out of order", label)
		}
		last = i
	}
	for _, tr := range feed {
		if !strings.Contains(out, tr.Title) {
			t.Errorf("title %q missing", tr.Title)
		}
	}
}

func TestRunJSON(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "feed.json")
	data, _ := json.Marshal(feed)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Run(&Params{Feed: path, JSON: true}, &buf); err != nil {
		t.Fatal(err)
	}
	var groups []jsonGroup
	if err := json.Unmarshal(buf.Bytes(), &groups); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(groups) != 4 || groups[0].Anchor != "2025-Q2" || groups[3].Quarter != "Undated" {
		t.Errorf("groups = %+v", groups)
	}
	if got := groups[1].Tracks[0].AudioSrc; got != filepath.Join(dir, "a.mp3") {
		t.Errorf("source not resolved against the feed: %q", got)
	}
}

func TestRunMissingFeed(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if err := Run(&Params{Feed: filepath.Join(t.TempDir(), "nope.json")}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for missing feed")
	}
}
