package tracks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestQuarter(t *testing.T) {
	tests := []struct {
		date      string
		year, q   int
		wantValid bool
	}{
		{"2025-01-10", 2025, 1, true},
		{"2025-03-31", 2025, 1, true},
		{"2025-04-01", 2025, 2, true},
		{"2024-12-24", 2024, 4, true},
		{"yesterday", 0, 0, false},
	}
	for _, tc := range tests {
		y, q, ok := Track{UploadDate: tc.date}.Quarter()
		if y != tc.year || q != tc.q || ok != tc.wantValid {
			t.Errorf("Quarter(%s) = %d,%d,%v want %d,%d,%v", tc.date, y, q, ok, tc.year, tc.q, tc.wantValid)
		}
	}
}

func TestGroupByQuarter(t *testing.T) {
	list := []Track{
		{ID: "a", UploadDate: "2025-01-10"},
		{ID: "b", UploadDate: "2024-11-01"},
		{ID: "c", UploadDate: "2025-03-15"},
		{ID: "d", UploadDate: "soon"},
		{ID: "e", UploadDate: "2025-05-02"},
	}
	groups := GroupByQuarter(list)

	want := []struct {
		label string
		ids   []string
	}{
		{"Q2 2025", []string{"e"}},
		{"Q1 2025", []string{"c", "a"}},
		{"Q4 2024", []string{"b"}},
		{"Undated", []string{"d"}},
	}
	if len(groups) != len(want) {
		t.Fatalf("got %d groups, want %d", len(groups), len(want))
	}
	for i, w := range want {
		g := groups[i]
		if g.Label() != w.label {
			t.Errorf("group %d label = %s, want %s", i, g.Label(), w.label)
		}
		if len(g.Tracks) != len(w.ids) {
			t.Errorf("group %s has %d tracks, want %d", w.label, len(g.Tracks), len(w.ids))
			continue
		}
		for j, id := range w.ids {
			if g.Tracks[j].ID != id {
				t.Errorf("group %s track %d = %s, want %s", w.label, j, g.Tracks[j].ID, id)
			}
		}
	}
	if groups[1].Anchor() != "2025-Q1" {
		t.Errorf("anchor = %s", groups[1].Anchor())
	}
}

func TestDefaultFeed(t *testing.T) {
	feed := Default()
	if len(feed) != 3 {
		t.Fatalf("default feed has %d tracks, want 3", len(feed))
	}
	if err := Validate(feed); err != nil {
		t.Errorf("default feed invalid: %v", err)
	}
	feed[0].Title = "changed"
	if Default()[0].Title == "changed" {
		t.Error("Default returned shared storage")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feed.json")
	body := `[
		{"id":"1","title":"One","artist":"A","audioSrc":"one.mp3","uploadDate":"2025-01-01"},
		{"id":"2","title":"Two","artist":"B","audioSrc":"https://example.com/two.mp3","uploadDate":"2025-02-01"},
		{"id":"3","title":"Three","artist":"C","audioSrc":"/abs/three.wav","uploadDate":"2025-03-01"}
	]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	list, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	wantSrc := []string{
		filepath.Join(dir, "one.mp3"),
		"https://example.com/two.mp3",
		"/abs/three.wav",
	}
	for i, w := range wantSrc {
		if list[i].AudioSrc != w {
			t.Errorf("track %d src = %s, want %s", i, list[i].AudioSrc, w)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"missing id", `[{"audioSrc":"a.mp3"}]`, ErrInvalidTrack},
		{"missing source", `[{"id":"1"}]`, ErrInvalidTrack},
		{"duplicate", `[{"id":"1","audioSrc":"a"},{"id":"1","audioSrc":"b"}]`, ErrDuplicateID},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "feed.json")
			_ = os.WriteFile(path, []byte(tc.body), 0o644)
			if _, err := Load(path); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(path, []byte("{"), 0o644)
	if _, err := Load(path); err == nil {
		t.Error("malformed JSON accepted")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestWaitForChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feed.json")
	_ = os.WriteFile(path, []byte("[]"), 0o644)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- WaitForChange(ctx, path) }()

	// Unrelated files in the same directory are ignored.
	time.Sleep(50 * time.Millisecond)
	_ = os.WriteFile(filepath.Join(dir, "other.json"), []byte("x"), 0o644)
	select {
	case err := <-done:
		t.Fatalf("returned on unrelated file: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	_ = os.WriteFile(path, []byte(`[{"id":"1","audioSrc":"a"}]`), 0o644)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitForChange: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change noticed")
	}
}

func TestWaitForChangeCanceled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := WaitForChange(ctx, path); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
