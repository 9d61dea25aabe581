package notify

import (
	"errors"
	"testing"
	"time"
)

func TestNowPlaying(t *testing.T) {
	var sent []string
	origSend := sendFunc
	sendFunc = func(title, body string) error {
		sent = append(sent, title+": "+body)
		return nil
	}
	defer func() { sendFunc = origSend }()

	now := time.Unix(1000, 0)
	n := New(true)
	n.now = func() time.Time { return now }

	if !n.NowPlaying("Neon Nights", "Synthwave Dreams") {
		t.Fatal("first notification suppressed")
	}
	now = now.Add(time.Second)
	if n.NowPlaying("Summer Breeze", "") {
		t.Error("notification inside cooldown was sent")
	}
	now = now.Add(DefaultCooldown)
	if !n.NowPlaying("Summer Breeze", "") {
		t.Error("notification after cooldown suppressed")
	}

	want := []string{"Now playing: Synthwave Dreams - Neon Nights", "Now playing: Summer Breeze"}
	if len(sent) != len(want) {
		t.Fatalf("sent = %v, want %v", sent, want)
	}
	for i := range want {
		if sent[i] != want[i] {
			t.Errorf("sent[%d] = %q, want %q", i, sent[i], want[i])
		}
	}
}

func TestNowPlayingDisabledOrFailing(t *testing.T) {
	origSend := sendFunc
	defer func() { sendFunc = origSend }()

	calls := 0
	sendFunc = func(string, string) error { calls++; return errors.New("no dbus") }

	if New(false).NowPlaying("x", "y") {
		t.Error("disabled notifier sent")
	}
	var nilNotifier *Notifier
	if nilNotifier.NowPlaying("x", "y") {
		t.Error("nil notifier sent")
	}
	if calls != 0 {
		t.Errorf("send called %d times while disabled", calls)
	}
	if New(true).NowPlaying("x", "y") {
		t.Error("failed send reported as sent")
	}
}
