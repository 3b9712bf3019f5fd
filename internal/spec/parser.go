// Package spec parses clip specification lines from the downloads file.
//
// A line is a comma separated list of tokens interpreted by prefix:
//
//	s:00:00:05.000  trim start timestamp
//	e:00:00:10.000  trim end timestamp (00:00:00.000 means "use full duration")
//	u:somebody      explicit username override
//	p:youtube       explicit platform override
//	https://...     clip source URL
//
// Unrecognized tokens are ignored.
package spec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const ZeroTimestamp = "00:00:00.000"

// Request is one parsed clip specification.
type Request struct {
	URL      string
	Start    string
	End      string
	Username string
	Platform string
}

// Parse interprets a single trimmed, non-comment line. It is pure: the same
// line always yields the same Request. A line without a URL yields a Request
// with an empty URL, which callers must reject before fetching.
func Parse(line string) Request {
	req := Request{Start: ZeroTimestamp, End: ZeroTimestamp}

	for _, part := range strings.Split(line, ",") {
		switch {
		case strings.HasPrefix(part, "s:"):
			req.Start = part[2:]
		case strings.HasPrefix(part, "e:"):
			req.End = part[2:]
		case strings.HasPrefix(part, "u:"):
			req.Username = part[2:]
		case strings.HasPrefix(part, "p:"):
			req.Platform = part[2:]
		case strings.HasPrefix(part, "https://"), strings.HasPrefix(part, "http://"):
			if req.URL == "" {
				req.URL = part
			}
		}
	}

	return req
}

// Lines splits the content of a downloads file into clip spec lines,
// dropping blank lines and #-comments.
func Lines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// ParseTimestamp converts an HH:MM:SS.mmm timestamp to seconds.
func ParseTimestamp(ts string) (float64, error) {
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q: want HH:MM:SS.mmm", ts)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hours in %q: %w", ts, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in %q: %w", ts, err)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in %q: %w", ts, err)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || seconds < 0 || seconds >= 60 {
		return 0, fmt.Errorf("timestamp %q out of range", ts)
	}

	return float64(hours*3600+minutes*60) + seconds, nil
}

// FormatTimestamp converts seconds to HH:MM:SS.mmm, truncating to
// millisecond precision.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int64(math.Floor(seconds * 1000))
	h := millis / 3600000
	millis -= h * 3600000
	m := millis / 60000
	millis -= m * 60000
	s := millis / 1000
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
