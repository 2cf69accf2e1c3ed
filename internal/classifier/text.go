package classifier

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var reTag = regexp.MustCompile(`<[^>]*>`)

// Sanitize removes client markup tags (<col=..>, <br>, ...) and folds
// compatibility characters such as non-breaking spaces into their plain form.
// Tags are dropped without inserting whitespace; the message templates account
// for that ("bearer.It now has", "to yourbank").
func Sanitize(s string) string {
	s = reTag.ReplaceAllString(s, "")
	return strings.TrimSpace(norm.NFKC.String(s))
}

// parseCount reads a captured count. The client spells out a count of one as
// "one" and, in a couple of messages, "a" or "a single".
func parseCount(s string) (int, bool) {
	switch strings.TrimSpace(s) {
	case "one", "a", "a single":
		return 1, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
