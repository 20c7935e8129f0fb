// Package store implements the pose record store on PostgreSQL via pgx.
// It satisfies the importer's Store boundary (point lookups by unique
// fields, bulk slug listing, sparse update, insert-with-generated-id) and
// the read queries used by the HTTP API.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/asanahub/poseadmin/internal/importer"
	"github.com/asanahub/poseadmin/internal/pose"
)

// DBTX is the database interface, satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Store provides pose persistence over a pgx connection or pool.
type Store struct {
	db DBTX
}

// New creates a Store backed by db.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// poseColumns is the canonical column order used by every SELECT and the
// insert statement. scanPose must match it exactly.
const poseColumns = `id, slug, image_filename, english_name, sanskrit_name, pronunciation,
	description, seo_description, difficulty, category, primary_focus, focus_areas,
	benefits, cautions, contraindications, steps, cues, modifications, variations,
	tags, equipment, duration_seconds, featured, peak_pose, requires_warmup,
	pregnancy_safe, status, published_at, created_at, created_by, updated_at, updated_by`

func scanPose(row pgx.Row) (*pose.Pose, error) {
	var p pose.Pose
	var imageFilename, sanskritName, pronunciation, description, seoDescription *string
	var difficulty, category, primaryFocus, createdBy, updatedBy *string
	var duration *int
	err := row.Scan(
		&p.ID, &p.Slug, &imageFilename, &p.EnglishName, &sanskritName, &pronunciation,
		&description, &seoDescription, &difficulty, &category, &primaryFocus, &p.FocusAreas,
		&p.Benefits, &p.Cautions, &p.Contraindications, &p.Steps, &p.Cues, &p.Modifications,
		&p.Variations, &p.Tags, &p.Equipment, &duration, &p.Featured, &p.PeakPose,
		&p.RequiresWarmup, &p.PregnancySafe, &p.Status, &p.PublishedAt,
		&p.CreatedAt, &createdBy, &p.UpdatedAt, &updatedBy,
	)
	if err != nil {
		return nil, err
	}
	p.ImageFilename = deref(imageFilename)
	p.SanskritName = deref(sanskritName)
	p.Pronunciation = deref(pronunciation)
	p.Description = deref(description)
	p.SEODescription = deref(seoDescription)
	p.Difficulty = deref(difficulty)
	p.Category = deref(category)
	p.PrimaryFocus = deref(primaryFocus)
	p.CreatedBy = deref(createdBy)
	p.UpdatedBy = deref(updatedBy)
	if duration != nil {
		p.DurationSeconds = *duration
	}
	return &p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GetByImageFilename returns the pose whose stored image filename equals
// filename exactly, or (nil, nil) when none matches.
func (s *Store) GetByImageFilename(ctx context.Context, filename string) (*pose.Pose, error) {
	return s.getByField(ctx, "image_filename", filename)
}

// GetBySlug returns the pose with the given slug, or (nil, nil).
func (s *Store) GetBySlug(ctx context.Context, slug string) (*pose.Pose, error) {
	return s.getByField(ctx, "slug", slug)
}

// GetByID returns the pose with the given identifier, or (nil, nil).
func (s *Store) GetByID(ctx context.Context, id string) (*pose.Pose, error) {
	return s.getByField(ctx, "id", id)
}

func (s *Store) getByField(ctx context.Context, column, value string) (*pose.Pose, error) {
	query := fmt.Sprintf("SELECT %s FROM poses WHERE %s = $1", poseColumns, quoteIdentifier(column))
	p, err := scanPose(s.db.QueryRow(ctx, query, value))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pose by %s: %w", column, err)
	}
	return p, nil
}

// ListSlugs returns every slug currently in use.
func (s *Store) ListSlugs(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, "SELECT slug FROM poses")
	if err != nil {
		return nil, fmt.Errorf("list slugs: %w", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("scan slug: %w", err)
		}
		slugs = append(slugs, slug)
	}
	return slugs, rows.Err()
}

// Update applies a sparse patch to the record with the given identifier.
// Patch keys are column names; a nil value sets the column to NULL. The SET
// clause is built with quoted identifiers and positional arguments only.
func (s *Store) Update(ctx context.Context, id string, patch importer.Patch) error {
	if len(patch) == 0 {
		return nil
	}

	// Sort keys for a deterministic statement (map order is random).
	cols := make([]string, 0, len(patch))
	for col := range patch {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols)+1)
	for i, col := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", quoteIdentifier(col), i+1))
		args = append(args, patch[col])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE poses SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update pose: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update pose: no record with id %s", id)
	}
	return nil
}

// Insert stores a new pose, generating its identifier when unset.
func (s *Store) Insert(ctx context.Context, p *pose.Pose) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	query := fmt.Sprintf(`INSERT INTO poses (%s) VALUES
		($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		 $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32)`,
		poseColumns)

	_, err := s.db.Exec(ctx, query,
		p.ID, p.Slug, nullable(p.ImageFilename), p.EnglishName, nullable(p.SanskritName),
		nullable(p.Pronunciation), nullable(p.Description), nullable(p.SEODescription),
		p.Difficulty, nullable(p.Category), nullable(p.PrimaryFocus), p.FocusAreas,
		p.Benefits, p.Cautions, p.Contraindications, p.Steps, p.Cues, p.Modifications,
		p.Variations, p.Tags, p.Equipment, p.DurationSeconds, p.Featured, p.PeakPose,
		p.RequiresWarmup, p.PregnancySafe, p.Status, p.PublishedAt,
		p.CreatedAt, nullable(p.CreatedBy), p.UpdatedAt, nullable(p.UpdatedBy),
	)
	if err != nil {
		return fmt.Errorf("insert pose: %w", err)
	}
	return nil
}

// nullable maps an empty string to NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// List returns a page of poses ordered by name, plus the total count.
func (s *Store) List(ctx context.Context, page, pageSize int) ([]pose.Pose, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	var total int64
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM poses").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count poses: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM poses ORDER BY english_name ASC LIMIT $1 OFFSET $2", poseColumns)
	rows, err := s.db.Query(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list poses: %w", err)
	}
	defer rows.Close()

	var poses []pose.Pose
	for rows.Next() {
		p, err := scanPose(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan pose: %w", err)
		}
		poses = append(poses, *p)
	}
	return poses, total, rows.Err()
}

// quoteIdentifier quotes a SQL identifier to prevent injection.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
