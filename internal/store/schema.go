package store

import (
	"context"
	"fmt"
)

// poseSchema is the DDL for the poses table. Applied idempotently on startup.
const poseSchema = `
CREATE TABLE IF NOT EXISTS poses (
	id                uuid PRIMARY KEY,
	slug              text NOT NULL UNIQUE,
	image_filename    text UNIQUE,
	english_name      text NOT NULL,
	sanskrit_name     text,
	pronunciation     text,
	description       text,
	seo_description   text,
	difficulty        text NOT NULL DEFAULT 'beginner',
	category          text,
	primary_focus     text,
	focus_areas       text[] NOT NULL DEFAULT '{}',
	benefits          text[] NOT NULL DEFAULT '{}',
	cautions          text[] NOT NULL DEFAULT '{}',
	contraindications text[] NOT NULL DEFAULT '{}',
	steps             text[] NOT NULL DEFAULT '{}',
	cues              text[] NOT NULL DEFAULT '{}',
	modifications     text[] NOT NULL DEFAULT '{}',
	variations        text[] NOT NULL DEFAULT '{}',
	tags              text[] NOT NULL DEFAULT '{}',
	equipment         text[] NOT NULL DEFAULT '{}',
	duration_seconds  integer NOT NULL DEFAULT 0,
	featured          boolean NOT NULL DEFAULT false,
	peak_pose         boolean NOT NULL DEFAULT false,
	requires_warmup   boolean NOT NULL DEFAULT false,
	pregnancy_safe    boolean NOT NULL DEFAULT false,
	status            text NOT NULL DEFAULT 'draft',
	published_at      timestamptz,
	created_at        timestamptz NOT NULL DEFAULT now(),
	created_by        text,
	updated_at        timestamptz NOT NULL DEFAULT now(),
	updated_by        text
);

CREATE INDEX IF NOT EXISTS poses_status_idx ON poses (status);
CREATE INDEX IF NOT EXISTS poses_category_idx ON poses (category);
`

// EnsureSchema creates the poses table and its indexes if missing.
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, poseSchema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
