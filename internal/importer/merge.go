package importer

// merge.go builds the effective write for a row: a sparse patch on the
// update path, a fully-defaulted record on the create path. Field presence
// drives the update semantics: an absent key touches nothing, a present
// empty string clears a text column, a present value sets it. List columns
// are replaced wholesale, never merged.

import (
	"fmt"
	"strings"
	"time"

	"github.com/asanahub/poseadmin/internal/pose"
)

// slugRename records a slug change applied by a patch so the batch-scoped
// reservation set can be updated once the store write succeeds.
type slugRename struct {
	old string
	new string
}

// buildPatch produces the sparse update for a matched record.
//
// Slug handling is permissive: a requested slug that is already taken is
// dropped without an error and the record keeps its current slug.
func buildPatch(row Row, rec *pose.Pose, slugs slugSet, operator string, now time.Time) (Patch, *slugRename) {
	patch := Patch{}

	for key, col := range textFields {
		raw, ok := row.field(key)
		if !ok {
			continue
		}
		if v := strings.TrimSpace(raw); v == "" {
			patch[col] = nil
		} else {
			patch[col] = v
		}
	}

	for key, col := range enumFields {
		raw, ok := row.field(key)
		if !ok {
			continue
		}
		if v := strings.TrimSpace(raw); v != "" {
			patch[col] = strings.ToLower(v)
		}
	}

	if raw, ok := row.field(FieldFocusAreas); ok && strings.TrimSpace(raw) != "" {
		patch["focus_areas"] = lowerAll(ParseList(raw))
	}

	for key, col := range listFields {
		raw, ok := row.field(key)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		patch[col] = normalizeList(key, raw)
	}

	if raw, ok := row.field(FieldDurationSeconds); ok {
		if v := ParseInt(raw); v.Valid {
			patch["duration_seconds"] = int(v.Int32)
		}
	}

	for key, col := range boolFields {
		raw, ok := row.field(key)
		if !ok {
			continue
		}
		if v := ParseBool(raw); v.Valid {
			patch[col] = v.Bool
		}
	}

	if raw, ok := row.field(FieldStatus); ok {
		if st := strings.ToLower(strings.TrimSpace(raw)); st != "" {
			patch["status"] = st
			if st == pose.StatusPublished {
				patch["published_at"] = now
			}
		}
	}

	var rename *slugRename
	if raw, ok := row.field(FieldSlug); ok {
		if slug := strings.TrimSpace(raw); slug != "" && slug != rec.Slug && !slugs.has(slug) {
			patch["slug"] = slug
			rename = &slugRename{old: rec.Slug, new: slug}
		}
	}

	patch["updated_at"] = now
	patch["updated_by"] = operator

	return patch, rename
}

// buildPose produces a new record for an unmatched row, with schema defaults
// for everything the row does not supply and a collision-free slug reserved
// against both the store and earlier rows of the same batch.
func buildPose(row Row, slugs slugSet, operator string, now time.Time) *pose.Pose {
	p := &pose.Pose{}

	if v, ok := trimmedField(row, FieldEnglishName); ok {
		p.EnglishName = v
	}
	if v, ok := trimmedField(row, FieldSanskritName); ok {
		p.SanskritName = v
	}
	if v, ok := trimmedField(row, FieldPronunciation); ok {
		p.Pronunciation = v
	}
	if v, ok := trimmedField(row, FieldDescription); ok {
		p.Description = v
	}
	if v, ok := trimmedField(row, FieldSEODescription); ok {
		p.SEODescription = v
	}
	if v, ok := trimmedField(row, FieldImageFilename); ok {
		p.ImageFilename = v
	}

	if v, ok := trimmedField(row, FieldDifficulty); ok {
		p.Difficulty = strings.ToLower(v)
	}
	if v, ok := trimmedField(row, FieldCategory); ok {
		p.Category = strings.ToLower(v)
	}
	if v, ok := trimmedField(row, FieldPrimaryFocus); ok {
		p.PrimaryFocus = strings.ToLower(v)
	}
	if v, ok := trimmedField(row, FieldFocusAreas); ok {
		p.FocusAreas = lowerAll(ParseList(v))
	}

	if v, ok := trimmedField(row, FieldBenefits); ok {
		p.Benefits = ParseList(v)
	}
	if v, ok := trimmedField(row, FieldCautions); ok {
		p.Cautions = ParseList(v)
	}
	if v, ok := trimmedField(row, FieldContraindications); ok {
		p.Contraindications = ParseList(v)
	}
	if v, ok := trimmedField(row, FieldSteps); ok {
		p.Steps = ParseList(v)
	}
	if v, ok := trimmedField(row, FieldCues); ok {
		p.Cues = ParseList(v)
	}
	if v, ok := trimmedField(row, FieldModifications); ok {
		p.Modifications = ParseList(v)
	}
	if v, ok := trimmedField(row, FieldVariations); ok {
		p.Variations = ParseList(v)
	}
	if v, ok := trimmedField(row, FieldTags); ok {
		p.Tags = ParseList(v)
	}
	if v, ok := trimmedField(row, FieldEquipment); ok {
		p.Equipment = normalizeList(FieldEquipment, v)
	}

	if raw, ok := row.field(FieldDurationSeconds); ok {
		if v := ParseInt(raw); v.Valid {
			p.DurationSeconds = int(v.Int32)
		}
	}

	if raw, ok := row.field(FieldIsFeatured); ok {
		if v := ParseBool(raw); v.Valid {
			p.Featured = v.Bool
		}
	}
	if raw, ok := row.field(FieldIsPeakPose); ok {
		if v := ParseBool(raw); v.Valid {
			p.PeakPose = v.Bool
		}
	}
	if raw, ok := row.field(FieldRequiresWarmup); ok {
		if v := ParseBool(raw); v.Valid {
			p.RequiresWarmup = v.Bool
		}
	}
	if raw, ok := row.field(FieldPregnancySafe); ok {
		if v := ParseBool(raw); v.Valid {
			p.PregnancySafe = v.Bool
		}
	}

	if v, ok := trimmedField(row, FieldStatus); ok {
		p.Status = strings.ToLower(v)
		if p.Status == pose.StatusPublished {
			t := now
			p.PublishedAt = &t
		}
	}

	candidate, ok := trimmedField(row, FieldSlug)
	if !ok {
		candidate = pose.Slugify(p.EnglishName)
	}
	p.Slug = uniqueSlug(candidate, slugs)

	p.ApplyDefaults()
	p.CreatedAt = now
	p.CreatedBy = operator
	p.UpdatedAt = now
	p.UpdatedBy = operator

	return p
}

// enumFields maps single-valued enum input keys to their store columns.
var enumFields = map[string]string{
	FieldDifficulty:   "difficulty",
	FieldCategory:     "category",
	FieldPrimaryFocus: "primary_focus",
}

// trimmedField returns the trimmed value of a field, reporting false when
// the key is absent or the value is blank.
func trimmedField(row Row, key string) (string, bool) {
	raw, ok := row.field(key)
	if !ok {
		return "", false
	}
	v := strings.TrimSpace(raw)
	return v, v != ""
}

// normalizeList parses a pipe-delimited list, treating the equipment value
// "none" (any case, as the sole entry) as an explicitly empty list.
func normalizeList(key, raw string) []string {
	list := ParseList(raw)
	if key == FieldEquipment && len(list) == 1 && strings.EqualFold(list[0], "none") {
		return []string{}
	}
	return list
}

// uniqueSlug returns candidate, or candidate-2, candidate-3, ...: the first
// variant not present in the reservation set.
func uniqueSlug(candidate string, slugs slugSet) string {
	if !slugs.has(candidate) {
		return candidate
	}
	for i := 2; ; i++ {
		s := fmt.Sprintf("%s-%d", candidate, i)
		if !slugs.has(s) {
			return s
		}
	}
}

func lowerAll(list []string) []string {
	out := make([]string, len(list))
	for i, v := range list {
		out[i] = strings.ToLower(v)
	}
	return out
}
