package utils

const truncationMarker = " […truncated]"

// Truncate bounds text to at most 'limit' runes, marker included. Every
// prompt builder that embeds free text goes through this so no single
// narrative or opinion can blow up a completion request. Limits too small
// to carry the marker get a plain cut.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	markerLen := len([]rune(truncationMarker))
	if limit <= markerLen {
		return string(runes[:limit])
	}
	return string(runes[:limit-markerLen]) + truncationMarker
}
