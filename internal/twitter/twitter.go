package twitter

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/openclaw/twitter-media-telegram-bot/internal/domain"
	apperrors "github.com/openclaw/twitter-media-telegram-bot/pkg/errors"
)

// Hosts the canonical platform and its known mirrors publish posts under.
var acceptedHosts = map[string]struct{}{
	"twitter.com":        {},
	"www.twitter.com":    {},
	"mobile.twitter.com": {},
	"x.com":              {},
	"www.x.com":          {},
	"vxtwitter.com":      {},
	"www.vxtwitter.com":  {},
	"fixupx.com":         {},
	"www.fixupx.com":     {},
}

var statusPath = regexp.MustCompile(`^/([A-Za-z0-9_]{1,15})/status(?:es)?/(\d+)`)

var urlInText = regexp.MustCompile(`https?://[^\s]+`)

// ParsePostURL validates raw as a post URL and rewrites it to the embed
// mirror. It performs no I/O; malformed input never reaches the browser layer.
func ParsePostURL(raw string, mirrorHost string) (domain.PostRef, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return domain.PostRef{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return domain.PostRef{}, fmt.Errorf("%w: unsupported scheme %q", apperrors.ErrInvalidURL, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if _, ok := acceptedHosts[host]; !ok {
		return domain.PostRef{}, fmt.Errorf("%w: host %q", apperrors.ErrInvalidURL, host)
	}

	m := statusPath.FindStringSubmatch(u.Path)
	if m == nil {
		return domain.PostRef{}, fmt.Errorf("%w: no status segment in %q", apperrors.ErrInvalidURL, u.Path)
	}

	username, postID := m[1], m[2]
	mirror := url.URL{
		Scheme: "https",
		Host:   mirrorHost,
		Path:   fmt.Sprintf("/%s/status/%s", username, postID),
	}

	return domain.PostRef{
		OriginalURL: raw,
		MirrorURL:   mirror.String(),
		ID:          postID,
		Username:    username,
	}, nil
}

// FindPostURL scans free-form message text for the first accepted post URL.
func FindPostURL(text string) (string, bool) {
	for _, candidate := range urlInText.FindAllString(text, -1) {
		u, err := url.Parse(candidate)
		if err != nil {
			continue
		}
		if _, ok := acceptedHosts[strings.ToLower(u.Hostname())]; !ok {
			continue
		}
		if statusPath.MatchString(u.Path) {
			return candidate, true
		}
	}
	return "", false
}
