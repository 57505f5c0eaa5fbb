package scraperimpl

import (
	"regexp"
	"strings"

	"github.com/openclaw/twitter-media-telegram-bot/internal/domain"
)

// The animation-vs-video boundary is mirror-specific: animated GIFs live
// under tweet_video paths, ordinary videos under amplify or ext_tw paths.
var tweetVideoRe = regexp.MustCompile(`tweet_video(?:_thumb)?/([a-zA-Z0-9_-]+)(?:\.(?:jpg|png|mp4|gif))?`)

var imageNameParamRe = regexp.MustCompile(`([?&]name=)[A-Za-z0-9x]+`)

// animationURL reports whether src is a GIF thumbnail or source and rewrites
// it to the mp4 the platform serves for it.
func animationURL(src string) (string, bool) {
	m := tweetVideoRe.FindStringSubmatch(src)
	if m == nil {
		return "", false
	}
	return "https://video.twimg.com/tweet_video/" + m[1] + ".mp4", true
}

// isNoiseImage filters avatars, emoji sprites and video thumbnails that sit
// inside the article but are not post media.
func isNoiseImage(src string) bool {
	switch {
	case strings.Contains(src, "profile_images"):
		return true
	case strings.Contains(src, "/emoji/"):
		return true
	case strings.Contains(src, "abs-0.twimg.com"):
		return true
	case strings.Contains(src, "amplify_video_thumb"), strings.Contains(src, "video_thumb"):
		return true
	case strings.Contains(src, "_normal."):
		return true
	}
	return false
}

// postImageURL accepts real post images and upgrades them to full resolution.
func postImageURL(src string) (string, bool) {
	if strings.Contains(src, "pbs.twimg.com/media") {
		return upgradeImageURL(src), true
	}
	if strings.Contains(src, "pbs.twimg.com") && !strings.Contains(src, "tweet_video") {
		return src, true
	}
	return "", false
}

func upgradeImageURL(src string) string {
	if imageNameParamRe.MatchString(src) {
		return imageNameParamRe.ReplaceAllString(src, "${1}4096x4096")
	}
	if strings.Contains(src, "?") {
		return src + "&name=4096x4096"
	}
	return src + "?name=4096x4096"
}

func isPlatformVideo(src string) bool {
	return strings.Contains(src, "video.twimg.com")
}

func classifyVideoURL(src string) domain.MediaKind {
	if strings.Contains(src, "tweet_video") {
		return domain.MediaKindAnimation
	}
	return domain.MediaKindVideo
}
