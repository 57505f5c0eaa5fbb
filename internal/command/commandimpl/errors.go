package commandimpl

import (
	"context"

	apperrors "github.com/openclaw/twitter-media-telegram-bot/pkg/errors"
)

// userFacingError maps pipeline failures to a phrasing safe to show in chat.
func userFacingError(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidURL):
		return "That doesn't look like a Twitter/X post URL."
	case apperrors.Is(err, apperrors.ErrContentUnavailable):
		return "This post is unavailable. It may be deleted or from a protected account."
	case apperrors.Is(err, apperrors.ErrNoContentFound):
		return "I couldn't find any content in this post."
	case apperrors.Is(err, apperrors.ErrRenderTimeout), apperrors.Is(err, context.DeadlineExceeded):
		return "The post took too long to load. Please try again in a moment."
	case apperrors.Is(err, apperrors.ErrRenderNavigation):
		return "I couldn't open this post. Please try again later."
	default:
		return "Something went wrong while processing this post."
	}
}
