package composerimpl

import (
	"fmt"
	"strings"

	"github.com/openclaw/twitter-media-telegram-bot/internal/composer"
	"github.com/openclaw/twitter-media-telegram-bot/internal/domain"
	"github.com/openclaw/twitter-media-telegram-bot/pkg/formatter"
	"github.com/openclaw/twitter-media-telegram-bot/pkg/logger"
	"go.uber.org/fx"
)

// Telegram caps media groups at ten items and rejects captions over 1024
// visible characters; the text budget leaves room for the author line,
// timestamp, source link and failure note.
const (
	maxAlbumSize      = 10
	maxTextLength     = 900
	timestampTemplate = "Jan 2, 2006 15:04 MST"
)

type Opts struct {
	fx.In

	Logger logger.Logger
}

type ComposerImpl struct {
	logger logger.Logger
}

func New(opts Opts) *ComposerImpl {
	return &ComposerImpl{logger: opts.Logger}
}

var _ composer.Client = (*ComposerImpl)(nil)

func (c *ComposerImpl) Compose(meta domain.PostMetadata, ref domain.PostRef, fetched []domain.FetchedMedia, failedCount int) []domain.DeliveryPlan {
	caption := buildCaption(meta, ref, len(fetched), failedCount)

	if len(fetched) == 0 {
		// Text-only post, or every download failed: a caption-only delivery
		// is still a successful request.
		return []domain.DeliveryPlan{{Caption: caption}}
	}

	var plans []domain.DeliveryPlan
	var group []domain.FetchedMedia

	flush := func() {
		if len(group) == 0 {
			return
		}
		plans = append(plans, domain.DeliveryPlan{Items: group})
		group = nil
	}

	for _, media := range fetched {
		switch media.Item.Kind {
		case domain.MediaKindImage, domain.MediaKindVideo:
			// Photos and videos mix fine inside one Telegram album.
			group = append(group, media)
			if len(group) == maxAlbumSize {
				flush()
			}
		case domain.MediaKindAnimation:
			// Animations cannot join a media group; they interrupt the
			// current album but relative order survives across the split.
			flush()
			plans = append(plans, domain.DeliveryPlan{Items: []domain.FetchedMedia{media}})
		}
	}
	flush()

	if len(plans) > 0 {
		plans[0].Caption = caption
	}

	c.logger.Debug("Composed delivery plans",
		"post_id", ref.ID,
		"plans", len(plans),
		"items", len(fetched),
		"failed", failedCount)

	return plans
}

// buildCaption assembles a MarkdownV2 caption. User-derived text is escaped;
// the markup characters are our own.
func buildCaption(meta domain.PostMetadata, ref domain.PostRef, fetchedCount, failedCount int) string {
	var sb strings.Builder

	switch {
	case meta.DisplayName != "" && meta.Handle != "":
		fmt.Fprintf(&sb, "*%s* \\(%s\\)\n",
			formatter.EscapeMarkdownV2(meta.DisplayName),
			formatter.EscapeMarkdownV2(meta.Handle))
	case meta.Handle != "":
		fmt.Fprintf(&sb, "*%s*\n", formatter.EscapeMarkdownV2(meta.Handle))
	case ref.Username != "":
		fmt.Fprintf(&sb, "*%s*\n", formatter.EscapeMarkdownV2("@"+ref.Username))
	}

	if meta.Text != "" {
		text := formatter.Truncate(meta.Text, maxTextLength)
		sb.WriteString("\n" + formatter.EscapeMarkdownV2(text) + "\n")
	}

	if !meta.PostedAt.IsZero() {
		sb.WriteString("\n" + formatter.EscapeMarkdownV2(meta.PostedAt.Format(timestampTemplate)) + "\n")
	}

	fmt.Fprintf(&sb, "\n🔗 [Open post](%s)", ref.OriginalURL)

	if failedCount > 0 {
		var note string
		if fetchedCount == 0 {
			note = fmt.Sprintf("⚠️ Media unavailable: %d item(s) could not be retrieved.", failedCount)
		} else {
			note = fmt.Sprintf("⚠️ %d media item(s) could not be retrieved.", failedCount)
		}
		sb.WriteString("\n\n" + formatter.EscapeMarkdownV2(note))
	}

	return sb.String()
}
