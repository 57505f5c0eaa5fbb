package extraction

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openclaw/twitter-media-telegram-bot/internal/domain"
)

var sqBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var ErrBadQuery = errors.New("bad query")

func NewPgx(pg *pgxpool.Pool) *Pgx {
	return &Pgx{
		pg: pg,
	}
}

var _ Repository = (*Pgx)(nil)

type Pgx struct {
	pg *pgxpool.Pool
}

func (p *Pgx) Create(ctx context.Context, extraction domain.Extraction) error {
	query, args, err := sqBuilder.
		Insert("extractions").
		Columns(
			"post_id",
			"post_url",
			"chat_id",
			"media_count",
			"failed_count",
			"created_at",
		).Values(
		extraction.PostID,
		extraction.PostURL,
		extraction.ChatID,
		extraction.MediaCount,
		extraction.FailedCount,
		extraction.CreatedAt,
	).ToSql()
	if err != nil {
		return ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	if err != nil {
		return errors.Join(err, ErrCannotCreate)
	}

	return nil
}

func (p *Pgx) GetLatestByPostID(ctx context.Context, postID string) (*domain.Extraction, error) {
	query, args, err := sqBuilder.
		Select("id", "post_id", "post_url", "chat_id", "media_count", "failed_count", "created_at").
		From("extractions").
		Where(sq.Eq{"post_id": postID}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, ErrBadQuery
	}

	e := domain.Extraction{}
	err = p.pg.QueryRow(ctx, query, args...).
		Scan(&e.ID, &e.PostID, &e.PostURL, &e.ChatID, &e.MediaCount, &e.FailedCount, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &e, nil
}

func (p *Pgx) CountSince(ctx context.Context, since time.Time) (int64, error) {
	query, args, err := sqBuilder.
		Select("COUNT(*)").
		From("extractions").
		Where(sq.GtOrEq{"created_at": since}).
		ToSql()
	if err != nil {
		return 0, ErrBadQuery
	}

	var count int64
	if err := p.pg.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (p *Pgx) CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	query, args, err := sqBuilder.
		Delete("extractions").
		Where(sq.Lt{"created_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, ErrBadQuery
	}

	tag, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old extractions: %w", err)
	}

	return tag.RowsAffected(), nil
}
