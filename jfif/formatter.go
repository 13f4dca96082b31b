package jfif

import (
	"fmt"
	"regexp"
	"strings"
)

var unsafeText = regexp.MustCompile(`(?i)[^a-z0-9äüöß .,_-]`)

// sanitize keeps letters, digits and a little punctuation, then trims
// surrounding spaces. Invalid UTF-8 sequences are dropped with the rest.
func sanitize(raw []byte) string {
	return strings.TrimSpace(unsafeText.ReplaceAllString(string(raw), ""))
}

// formatVersion renders a JFIF version as major.minor with a two digit minor
func formatVersion(major, minor byte) string {
	return fmt.Sprintf("%d.%02d", major, minor)
}
