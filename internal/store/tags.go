package store

import "strings"

// extractTags collects #word and @word tokens from a title. A marker glued
// to a preceding word (mail@host, issue#12) is not a tag.
func extractTags(text string) []string {
	var tags []string
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch != '#' && ch != '@' {
			continue
		}
		if i > 0 && isTagChar(text[i-1]) {
			continue
		}
		if i+1 >= len(text) || !isTagChar(text[i+1]) {
			continue
		}
		j := i + 1
		for j < len(text) && isTagChar(text[j]) {
			j++
		}
		tags = append(tags, strings.ToLower(text[i+1:j]))
		i = j - 1
	}
	return dedupeStrings(tags)
}

func isTagChar(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '-' || b == '_':
		return true
	}
	return false
}

// HasTag reports whether t carries tag, ignoring case and a leading marker.
func (t Todo) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimLeft(strings.TrimSpace(tag), "#@"))
	for _, have := range t.Tags {
		if strings.ToLower(have) == tag {
			return true
		}
	}
	return false
}
