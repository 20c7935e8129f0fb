package importer

// validate.go rejects structurally invalid rows before any store access.
// Every check is row-local and fails with a message naming the offending
// value and the permitted set.

import (
	"errors"
	"strings"

	"github.com/asanahub/poseadmin/internal/pose"
)

// validateRow enforces the closed vocabularies and rejects an explicit
// attempt to blank the display name. An absent name is fine here: a row can
// address an existing record by slug or image filename alone, and the create
// path enforces presence for new records.
// Enum values are compared case-insensitively; blank values pass (a blank
// enum field is simply not applied).
func validateRow(row Row) error {
	if name, ok := row.field(FieldEnglishName); ok && strings.TrimSpace(name) == "" {
		return errors.New("english_name must not be blank")
	}

	checks := []struct {
		field string
		vocab []string
	}{
		{FieldDifficulty, pose.Difficulties},
		{FieldCategory, pose.Categories},
		{FieldPrimaryFocus, pose.FocusAreas},
		{FieldStatus, pose.Statuses},
	}
	for _, c := range checks {
		raw, ok := row.field(c.field)
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			continue
		}
		if !pose.InVocab(c.vocab, raw) {
			return vocabError(c.field, raw, c.vocab)
		}
	}

	// Each item of the multi-valued list shares the primary focus vocabulary.
	if raw, ok := row.field(FieldFocusAreas); ok {
		for _, item := range ParseList(raw) {
			if !pose.InVocab(pose.FocusAreas, item) {
				return vocabError(FieldFocusAreas, item, pose.FocusAreas)
			}
		}
	}

	return nil
}
