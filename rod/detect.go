package rod

import (
	"strings"

	"newsgrab"
)

// botMarkers are phrases that identify a challenge page served in place of
// content. Matched case-insensitively as substrings.
var botMarkers = []string{
	"checking your browser",
	"enable javascript and cookies",
	"ddos protection",
	"ray id", // Cloudflare
	"cf-browser-verification",
	"please verify you are human",
	"detected unusual traffic",
	"automated requests from your",
	"unusual activity from your computer",
}

// shortContentThreshold is the length below which a page combined with a
// denial keyword is treated as a block page rather than content.
const shortContentThreshold = 500

// DetectBotChallenge reports whether the HTML looks like an anti-bot
// challenge was served instead of the requested page.
func DetectBotChallenge(html string) bool {
	lower := strings.ToLower(html)
	for _, marker := range botMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	if len(html) < shortContentThreshold &&
		(strings.Contains(lower, "access denied") || strings.Contains(lower, "forbidden")) {
		return true
	}

	return false
}

// ClassifyStatus maps an HTTP response status to a retryable error for the
// current attempt. 2xx and 3xx return nil.
func ClassifyStatus(status int) error {
	switch {
	case status == 403:
		return newsgrab.Errorf(newsgrab.EUNAVAILABLE, "access forbidden (HTTP 403), possible anti-bot block")
	case status == 429:
		return newsgrab.Errorf(newsgrab.ERATELIMITED, "rate limited (HTTP 429)")
	case status >= 500:
		return newsgrab.Errorf(newsgrab.EUNAVAILABLE, "server error (HTTP %d)", status)
	case status >= 400:
		return newsgrab.Errorf(newsgrab.EUNAVAILABLE, "HTTP error %d", status)
	}
	return nil
}
