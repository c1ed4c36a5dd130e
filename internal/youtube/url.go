package youtube

import "regexp"

// videoIDPatterns covers the URL shapes we accept. Each pattern captures the
// 11-character video identifier.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:www\.|m\.)?youtube\.com/watch\?(?:.*&)?v=([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/v/([A-Za-z0-9_-]{11})`),
}

// ExtractVideoID pulls the 11-character video identifier out of a YouTube URL.
// It is a purely local check; URLs that match none of the known shapes fail
// with *InvalidURLError.
func ExtractVideoID(url string) (string, error) {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			return m[1], nil
		}
	}
	return "", &InvalidURLError{URL: url}
}
