// Package device turns a register's User-Agent header into the short label
// stored on each sale, so an owner browsing history can tell which terminal
// rang it up.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

const unknownDevice = "Unknown Device"

// Label renders a User-Agent as "Browser on OS" ("Chrome on Windows",
// "Safari on iPhone"). Unparseable agents come back as "Unknown Device"
// rather than leaking the raw header into sale rows.
func Label(userAgentString string) string {
	if userAgentString == "" {
		return unknownDevice
	}

	ua := useragent.New(userAgentString)
	browser, _ := ua.Browser()

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	os := ua.OS()
	if browser == "" && os == "" {
		// Non-browser clients (curl, custom register builds) keep their
		// product token when it is short enough to be a name.
		if token, _, _ := strings.Cut(userAgentString, " "); token != "" && len(token) <= 64 {
			return token
		}
		return unknownDevice
	}
	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}
	return strings.TrimSpace(browser + " on " + os)
}
