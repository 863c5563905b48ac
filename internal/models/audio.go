package models

import (
	"path/filepath"
	"strings"
)

// AudioExtensions are the accepted audio file types.
var AudioExtensions = []string{".wav", ".mp3", ".ogg", ".m4a"}

// IsAudioFile reports whether name has one of AudioExtensions.
func IsAudioFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range AudioExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
