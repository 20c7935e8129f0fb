package importer

// importer.go runs the batch: rows are processed strictly in order, one at a
// time, because row i+1's matching and slug derivation must observe row i's
// slug reservation. Every row is committed independently; there is no batch
// transaction, no retry, and no error below the whole-batch level ever
// aborts sibling rows.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Importer reconciles import rows into the record store.
type Importer struct {
	store Store
	now   func() time.Time
}

// New creates an Importer backed by the given store.
func New(store Store) *Importer {
	return &Importer{store: store, now: time.Now}
}

// slugSet is the batch-scoped reservation set of every slug known to be in
// use: the store's slugs plus those assigned or renamed by earlier rows of
// the same batch. It is owned by a single Run call, never shared.
type slugSet map[string]struct{}

func (s slugSet) has(slug string) bool { _, ok := s[slug]; return ok }
func (s slugSet) add(slug string)      { s[slug] = struct{}{} }
func (s slugSet) remove(slug string)   { delete(s, slug) }

// Run processes the batch and returns the aggregate result. The only
// whole-batch failure is an empty input; anything that goes wrong for a
// single row is recorded against that row and processing continues.
func (imp *Importer) Run(ctx context.Context, rows []Row, operator string) (*Result, error) {
	if len(rows) == 0 {
		return nil, errors.New("no rows to import")
	}

	existing, err := imp.store.ListSlugs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load existing slugs: %w", err)
	}
	slugs := make(slugSet, len(existing))
	for _, s := range existing {
		slugs.add(s)
	}

	result := &Result{}
	for _, row := range rows {
		updated, err := imp.processRow(ctx, row, slugs, operator)
		if err != nil {
			result.fail(row.Number, err)
			continue
		}
		result.Success++
		if updated {
			result.Updated++
		} else {
			result.Created++
		}
	}

	return result, nil
}

// processRow takes one row through validate, match, and merge-or-create.
// A panic anywhere inside is converted to that row's error; the batch keeps
// going.
func (imp *Importer) processRow(ctx context.Context, row Row, slugs slugSet, operator string) (updated bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("row processing failed: %v", r)
		}
	}()

	if err := validateRow(row); err != nil {
		return false, err
	}

	rec, err := imp.match(ctx, row)
	if err != nil {
		return false, err
	}

	if rec != nil {
		patch, rename := buildPatch(row, rec, slugs, operator, imp.now())
		if err := imp.store.Update(ctx, rec.ID, patch); err != nil {
			return false, err
		}
		if rename != nil {
			slugs.remove(rename.old)
			slugs.add(rename.new)
		}
		return true, nil
	}

	if name, _ := row.field(FieldEnglishName); strings.TrimSpace(name) == "" {
		return false, errors.New("missing required field english_name")
	}

	p := buildPose(row, slugs, operator, imp.now())
	if err := imp.store.Insert(ctx, p); err != nil {
		return false, err
	}
	slugs.add(p.Slug)
	return false, nil
}
