package application

import (
	"regexp"
	"strings"
)

var (
	quoteHeaderPattern = regexp.MustCompile(`(?i)^on .{0,200}wrote:\s*$`)
	originalMessage    = regexp.MustCompile(`(?i)^-{2,}\s*(original|forwarded) message\s*-{2,}$`)
)

// ExtractReply strips quoted history and signatures from the raw plaintext
// body of an email, keeping only the freshly written reply.
func ExtractReply(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")

	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isSignatureDelimiter(line) || quoteHeaderPattern.MatchString(trimmed) || originalMessage.MatchString(trimmed) {
			break
		}
		if strings.HasPrefix(trimmed, ">") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func isSignatureDelimiter(line string) bool {
	// The RFC 3676 delimiter is "-- " but clients routinely trim the space.
	switch strings.TrimRight(line, " ") {
	case "--", "__":
		return true
	}
	return false
}
