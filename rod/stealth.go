package rod

import "math/rand"

// userAgents is the rotation pool of realistic browser identities.
// One is picked at random per browsing context.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// randomUserAgent returns a random entry from the user agent pool.
func randomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// extraHeaders are sent with every request to look like an interactive
// browser session.
var extraHeaders = []string{
	"Accept-Language", "en-US,en;q=0.9",
	"Accept-Encoding", "gzip, deflate, br",
	"Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Sec-Fetch-Site", "none",
	"Sec-Fetch-Mode", "navigate",
	"Sec-Fetch-User", "?1",
	"Sec-Fetch-Dest", "document",
}

// stealthScript runs at page-init time, before any site script, and masks
// the properties anti-bot heuristics probe on automated browsers.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', {
	get: () => undefined
});

Object.defineProperty(navigator, 'plugins', {
	get: () => [1, 2, 3, 4, 5]
});

Object.defineProperty(navigator, 'languages', {
	get: () => ['en-US', 'en']
});

window.chrome = {
	runtime: {}
};

const originalQuery = window.navigator.permissions.query;
window.navigator.permissions.query = (parameters) => (
	parameters.name === 'notifications' ?
		Promise.resolve({ state: Notification.permission }) :
		originalQuery(parameters)
);
`
