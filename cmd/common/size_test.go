package common

import "testing"

func TestParseSize(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"0", 0},
		{"100", 100},
		{"100B", 100},
		{"1k", KB},
		{"1.5kb", KB + KB/2},
		{"512m", 512 * MB},
		{"1MB", MB},
		{"2g", 2 * GB},
		{"1TB", TB},
		{"  100  ", 100},
		{"10 m", 10 * MB},
		{" 1 g ", GB},
	}
	for _, tt := range tests {
		got, err := ParseSize(tt.input)
		if err != nil {
			t.Errorf("ParseSize(%q) returned error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseSizeInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "-10", "10x", "10 xyz", "m10", "1..5m"} {
		if _, err := ParseSize(in); err == nil {
			t.Errorf("ParseSize(%q) should return error", in)
		}
	}
}

func TestCacheDirFollowsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	if got := CacheDir(); got != "/tmp/xdg/wavepost" {
		t.Errorf("CacheDir() = %q", got)
	}
}
