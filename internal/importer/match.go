package importer

// match.go resolves a validated row to at most one existing record using a
// strict priority order. The image filename is an upstream, immutable
// provenance key and always wins over the slug, which an operator may be
// intentionally renaming within the same row.

import (
	"context"
	"fmt"
	"strings"

	"github.com/asanahub/poseadmin/internal/pose"
)

// match returns the existing record the row refers to, or nil when the row
// is a candidate for creation.
func (imp *Importer) match(ctx context.Context, row Row) (*pose.Pose, error) {
	if filename, ok := row.field(FieldImageFilename); ok {
		filename = strings.TrimSpace(filename)
		if filename != "" {
			rec, err := imp.store.GetByImageFilename(ctx, filename)
			if err != nil {
				return nil, fmt.Errorf("lookup by image filename: %w", err)
			}
			if rec != nil {
				return rec, nil
			}
		}
	}

	if slug, ok := row.field(FieldSlug); ok {
		slug = strings.TrimSpace(slug)
		if slug != "" {
			rec, err := imp.store.GetBySlug(ctx, slug)
			if err != nil {
				return nil, fmt.Errorf("lookup by slug: %w", err)
			}
			if rec != nil {
				return rec, nil
			}
		}
	}

	return nil, nil
}
