package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upCreateExtractions, downCreateExtractions)
}

func upCreateExtractions(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE extractions (
		id SERIAL PRIMARY KEY,
		post_id VARCHAR NOT NULL,
		post_url TEXT NOT NULL,
		chat_id BIGINT NOT NULL,
		media_count INT NOT NULL DEFAULT 0,
		failed_count INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX idx_extractions_post_id ON extractions (post_id);
	CREATE INDEX idx_extractions_created_at ON extractions (created_at);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downCreateExtractions(tx *sql.Tx) error {
	_, err := tx.Exec(`
	DROP TABLE extractions;
	`)
	if err != nil {
		return err
	}
	return nil
}
