package models

import "testing"

func TestIsAudioFile(t *testing.T) {
	tests := map[string]bool{
		"a.wav":        true,
		"b.MP3":        true,
		"c.ogg":        true,
		"dir/d.m4a":    true,
		"e.flac":       false,
		"noext":        false,
		"video.mp4":    false,
		".hidden.m4a~": false,
	}
	for name, want := range tests {
		if got := IsAudioFile(name); got != want {
			t.Errorf("IsAudioFile(%q) = %v, want %v", name, got, want)
		}
	}
}
