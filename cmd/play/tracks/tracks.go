// Package tracks reads the feed of tracks a page shows.
package tracks

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidTrack = errors.New("invalid track")
	ErrDuplicateID  = errors.New("duplicate track id")
)

// Track is one entry of the feed.
type Track struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Description string `json:"description"`
	AudioSrc    string `json:"audioSrc"`
	UploadDate  string `json:"uploadDate"`
}

// Date parses UploadDate.
func (t Track) Date() (time.Time, error) {
	return time.Parse(DateLayout, t.UploadDate)
}

// Quarter returns the calendar quarter of the upload date.
func (t Track) Quarter() (year, quarter int, ok bool) {
	d, err := t.Date()
	if err != nil {
		return 0, 0, false
	}
	return d.Year(), (int(d.Month())-1)/3 + 1, true
}

var defaultFeed = []Track{
	{
		ID:          "1",
		Title:       "Summer Breeze",
		Artist:      "Chill Vibes",
		Description: "A relaxing summer tune perfect for lazy afternoons.",
		AudioSrc:    "tracks/housey_jame_riff.mp3",
		UploadDate:  "2025-03-15",
	},
	{
		ID:          "2",
		Title:       "Neon Nights",
		Artist:      "Synthwave Dreams",
		Description: "An energetic synthwave track that takes you back to the 80s.",
		AudioSrc:    "tracks/testin_pistin_1.mp3",
		UploadDate:  "2025-02-28",
	},
	{
		ID:          "3",
		Title:       "Acoustic Serenity",
		Artist:      "Mellow Strings",
		Description: "A soothing acoustic guitar piece to calm your mind.",
		AudioSrc:    "tracks/testin_pistin_2.mp3",
		UploadDate:  "2025-01-10",
	},
}

// Default returns the built-in feed. Sources are relative to the working
// directory.
func Default() []Track {
	return slices.Clone(defaultFeed)
}

// Load reads a JSON array of tracks. Relative local sources are resolved
// against the feed file's directory.
func Load(path string) ([]Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	var list []Track
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", path, err)
	}
	if err := Validate(list); err != nil {
		return nil, fmt.Errorf("feed %s: %w", path, err)
	}

	base := filepath.Dir(path)
	return lo.Map(list, func(t Track, _ int) Track {
		t.AudioSrc = resolve(base, t.AudioSrc)
		return t
	}), nil
}

// Validate checks every track has an id and a source, and that ids are unique.
func Validate(list []Track) error {
	for i, t := range list {
		if strings.TrimSpace(t.ID) == "" {
			return fmt.Errorf("%w: entry %d has no id", ErrInvalidTrack, i)
		}
		if strings.TrimSpace(t.AudioSrc) == "" {
			return fmt.Errorf("%w: %q has no audioSrc", ErrInvalidTrack, t.ID)
		}
	}
	if dups := lo.FindDuplicatesBy(list, func(t Track) string { return t.ID }); len(dups) > 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateID, dups[0].ID)
	}
	return nil
}

func resolve(base, src string) string {
	if isRemote(src) || filepath.IsAbs(src) {
		return src
	}
	return filepath.Join(base, src)
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// QuarterGroup holds the tracks uploaded in one calendar quarter. Year 0
// collects tracks without a parseable date.
type QuarterGroup struct {
	Year    int
	Quarter int
	Tracks  []Track
}

func (g QuarterGroup) Label() string {
	if g.Year == 0 {
		return "Undated"
	}
	return fmt.Sprintf("Q%d %d", g.Quarter, g.Year)
}

// Anchor is a stable key for the group, like "2025-Q1".
func (g QuarterGroup) Anchor() string {
	if g.Year == 0 {
		return "undated"
	}
	return fmt.Sprintf("%d-Q%d", g.Year, g.Quarter)
}

// GroupByQuarter groups tracks newest quarter first. Inside a group tracks
// are newest first; undated tracks come last in feed order.
func GroupByQuarter(list []Track) []QuarterGroup {
	byKey := lo.GroupBy(list, func(t Track) int {
		y, q, ok := t.Quarter()
		if !ok {
			return 0
		}
		return y*10 + q
	})

	keys := lo.Keys(byKey)
	slices.Sort(keys)
	slices.Reverse(keys)

	return lo.Map(keys, func(k int, _ int) QuarterGroup {
		group := byKey[k]
		if k != 0 {
			slices.SortStableFunc(group, func(a, b Track) int {
				return strings.Compare(b.UploadDate, a.UploadDate)
			})
		}
		return QuarterGroup{Year: k / 10, Quarter: k % 10, Tracks: group}
	})
}
