package replyaddr

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Codec derives and matches the synthetic reply-routing address
// reply-<pid>@<hostname>. The hostname segment is fixed at construction and
// must match byte-for-byte on decode.
type Codec struct {
	hostname string
	pattern  *regexp.Regexp
}

func NewCodec(hostname string) Codec {
	return Codec{
		hostname: hostname,
		pattern:  regexp.MustCompile(`^reply-(\d+)@` + regexp.QuoteMeta(hostname) + `$`),
	}
}

// FromBaseURL builds a codec from the public base URL of the deployment,
// e.g. "https://forum.example/path" yields hostname "forum.example".
func FromBaseURL(raw string) (Codec, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Codec{}, fmt.Errorf("parse base url: %w", err)
	}
	hostname := parsed.Hostname()
	if hostname == "" {
		return Codec{}, errors.New("base url has no hostname")
	}
	return NewCodec(hostname), nil
}

func (c Codec) Hostname() string {
	return c.hostname
}

func (c Codec) Encode(pid int64) string {
	return fmt.Sprintf("reply-%d@%s", pid, c.hostname)
}

// Decode extracts the post id from a reply-routing address. The match is
// anchored at both ends; anything else reports no match.
func (c Codec) Decode(address string) (int64, bool) {
	if c.pattern == nil {
		return 0, false
	}
	match := c.pattern.FindStringSubmatch(address)
	if match == nil {
		return 0, false
	}
	pid, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}
