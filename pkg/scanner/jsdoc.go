package scanner

import "strings"

// parseJSDoc returns the text of a /** */ comment with the comment markers
// and leading asterisks removed. Lines are kept, tags included; runs of
// blank lines collapse to one. Any other comment yields "".
func parseJSDoc(comment string) string {
	comment = strings.TrimSpace(comment)
	if !strings.HasPrefix(comment, "/**") || !strings.HasSuffix(comment, "*/") || len(comment) < 5 {
		return ""
	}
	comment = strings.TrimSuffix(strings.TrimPrefix(comment, "/**"), "*/")

	var lines []string
	blank := false
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		if line == "" {
			blank = len(lines) > 0
			continue
		}
		if blank {
			lines = append(lines, "")
			blank = false
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
