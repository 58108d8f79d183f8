package loader

import (
	"regexp"
	"strings"
)

var wordSeparators = regexp.MustCompile(`[_\-\s]+`)

// DefaultLabeler derives an attribute name from a schema property name:
// "birth_date" and "birthDate" both become "Birth Date".
func DefaultLabeler(property string) string {
	var words []string
	for _, part := range wordSeparators.Split(property, -1) {
		for _, word := range strings.Fields(splitCamel(part)) {
			lower := strings.ToLower(word)
			words = append(words, strings.ToUpper(lower[:1])+lower[1:])
		}
	}
	return strings.Join(words, " ")
}

func splitCamel(input string) string {
	var out strings.Builder
	for i, r := range input {
		if i > 0 && camelBoundary(rune(input[i-1]), r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func camelBoundary(prev, r rune) bool {
	isUpper := func(r rune) bool { return r >= 'A' && r <= 'Z' }
	isLower := func(r rune) bool { return r >= 'a' && r <= 'z' }
	isDigit := func(r rune) bool { return r >= '0' && r <= '9' }
	isLetter := func(r rune) bool { return isUpper(r) || isLower(r) }
	return (isLower(prev) && isUpper(r)) || (isLetter(prev) && isDigit(r)) || (isDigit(prev) && isLetter(r))
}
