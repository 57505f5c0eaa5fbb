package fx

import (
	"github.com/openclaw/twitter-media-telegram-bot/internal/repositories/extraction"
	"go.uber.org/fx"
)

var Module = fx.Options(
	extraction.Module,
)
