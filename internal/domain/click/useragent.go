package click

import "strings"

// botSignatures is a deny-list of case-insensitive substrings that
// identify known crawlers and automation tools. Unknown agents are
// presumed human.
var botSignatures = []string{
	"bot",
	"crawler",
	"spider",
	"slurp",
	"curl",
	"wget",
	"python-requests",
	"headlesschrome",
	"phantomjs",
	"facebookexternalhit",
	"twitterbot",
	"linkedinbot",
	"telegrambot",
	"whatsapp",
	"googlebot",
	"bingbot",
	"yandexbot",
	"duckduckbot",
	"baiduspider",
}

// IsBotUserAgent reports whether the user agent looks automated.
// An empty user agent is treated as suspicious by policy, not an error.
func IsBotUserAgent(userAgent string) bool {
	ua := strings.ToLower(strings.TrimSpace(userAgent))
	if ua == "" {
		return true
	}
	for _, sig := range botSignatures {
		if strings.Contains(ua, sig) {
			return true
		}
	}
	return false
}
