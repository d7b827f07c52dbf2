package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// SnakeKey turns a free-form label like "Date/Time" into a stable
// record key like "date_time".
func SnakeKey(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	label = strings.ReplaceAll(label, "/", "_")
	label = whitespaceRegex.ReplaceAllString(label, "_")
	return label
}

// StripBrackets removes square brackets, e.g. "[Musical]" -> "Musical".
func StripBrackets(s string) string {
	s = strings.ReplaceAll(s, "[", "")
	s = strings.ReplaceAll(s, "]", "")
	return s
}
