package render

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	timestampRe     = regexp.MustCompile(`\[([0-9]{2}):([0-9]{2})\]`)
	seekHrefRe      = regexp.MustCompile(`^#t([0-9]+)$`)
	timestampLineRe = regexp.MustCompile(`^\[?\d{2}:\d{2}\]?`)
)

// RewriteTimestamps turns every [MM:SS] marker in a Markdown body into a link
// to #t<seconds>, e.g. [04:32] becomes [04:32](#t272).
func RewriteTimestamps(body string) string {
	return timestampRe.ReplaceAllStringFunc(body, func(m string) string {
		sub := timestampRe.FindStringSubmatch(m)
		secs := TimestampSeconds(sub[1], sub[2])
		return "[" + sub[1] + ":" + sub[2] + "](#t" + strconv.Itoa(secs) + ")"
	})
}

// TimestampSeconds converts two-digit minute and second fields to seconds.
// Seconds above 59 are not rejected; [01:75] is 135.
func TimestampSeconds(mm, ss string) int {
	m, _ := strconv.Atoi(mm)
	s, _ := strconv.Atoi(ss)
	return m*60 + s
}

// SeekSeconds parses a #t<seconds> fragment.
func SeekSeconds(href string) (int, bool) {
	sub := seekHrefRe.FindStringSubmatch(strings.TrimSpace(href))
	if sub == nil {
		return 0, false
	}
	n, err := strconv.Atoi(sub[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// StartsWithTimestamp reports whether a list item's text opens with MM:SS,
// optionally bracketed.
func StartsWithTimestamp(text string) bool {
	return timestampLineRe.MatchString(strings.TrimLeft(text, " \t\r\n"))
}
