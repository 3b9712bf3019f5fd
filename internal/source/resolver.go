// Package source classifies clip URLs into platform, channel and clip id.
package source

import (
	"fmt"
	"net/url"
	"strings"

	"clipforge/internal/spec"
)

type Platform string

const (
	PlatformTwitch  Platform = "twitch"
	PlatformYouTube Platform = "youtube"
)

// Clip identifies a clip on its originating platform.
type Clip struct {
	Platform   Platform
	Username   string
	PlatformID string
	URL        string
}

// UnsupportedPlatformError is returned when a URL's host maps to no known
// platform.
type UnsupportedPlatformError struct {
	Host string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform: %s", e.Host)
}

// UnsupportedInputError is returned when a URL belongs to a known platform
// but carries too little information to resolve a clip.
type UnsupportedInputError struct {
	Reason string
}

func (e *UnsupportedInputError) Error() string {
	return e.Reason
}

// Resolve derives platform, username and platform-native clip id from a
// request. Explicit u:/p: overrides always win over what the URL implies.
func Resolve(req spec.Request) (*Clip, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, &UnsupportedInputError{Reason: fmt.Sprintf("invalid url %q: %v", req.URL, err)}
	}

	clip := &Clip{
		Username: req.Username,
		Platform: Platform(req.Platform),
		URL:      req.URL,
	}

	switch {
	case strings.Contains(u.Host, "twitch.tv"):
		segments := strings.Split(u.Path, "/")
		if len(segments) < 4 {
			return nil, &UnsupportedInputError{Reason: fmt.Sprintf("not a twitch clip url: %s", req.URL)}
		}
		if clip.Username == "" {
			clip.Username = strings.ToLower(segments[1])
		}
		clip.PlatformID = segments[3]
		if clip.Platform == "" {
			clip.Platform = PlatformTwitch
		}

	case strings.Contains(u.Host, "youtube.com"):
		// YouTube URLs carry no channel segment, so the spec line must
		// provide one via u:username.
		if clip.Username == "" {
			return nil, &UnsupportedInputError{Reason: "youtube clips require a username to be set using u:username"}
		}
		clip.PlatformID = u.Query().Get("v")
		if clip.PlatformID == "" {
			return nil, &UnsupportedInputError{Reason: fmt.Sprintf("youtube url has no v parameter: %s", req.URL)}
		}
		if clip.Platform == "" {
			clip.Platform = PlatformYouTube
		}

	default:
		return nil, &UnsupportedPlatformError{Host: u.Host}
	}

	return clip, nil
}
