// Package importer implements the bulk CSV reconciliation pipeline for the
// pose catalog: each loosely-typed row is normalized, validated, matched
// against the store by image filename or slug, and merged into an existing
// record or inserted as a new one. Rows are processed independently; one
// row's failure never aborts the batch.
package importer

import (
	"context"
	"fmt"

	"github.com/asanahub/poseadmin/internal/pose"
)

// Row is one unit of import input: a flat string-keyed map plus a 1-based
// row number used for error reporting. Field semantics are tri-state: an
// absent key leaves the target field untouched, a present-empty value clears
// it, a present value sets it.
type Row struct {
	Number int
	Fields map[string]string
}

// field returns the raw value and whether the key was present in the input.
// Presence is what matters for merge semantics, not truthiness.
func (r Row) field(key string) (string, bool) {
	v, ok := r.Fields[key]
	return v, ok
}

// Store is the record store boundary consumed by the importer. Lookups
// return (nil, nil) when no record matches.
type Store interface {
	GetByImageFilename(ctx context.Context, filename string) (*pose.Pose, error)
	GetBySlug(ctx context.Context, slug string) (*pose.Pose, error)
	// ListSlugs returns every slug currently in use, for batch-scoped
	// uniqueness checks.
	ListSlugs(ctx context.Context) ([]string, error)
	// Update applies a sparse patch to the record with the given ID. Keys
	// absent from the patch are untouched; a nil value clears the column.
	Update(ctx context.Context, id string, patch Patch) error
	// Insert stores a new record, generating its identifier.
	Insert(ctx context.Context, p *pose.Pose) error
}

// Patch is a sparse column update: key present with nil clears to NULL, key
// present with a value sets it, key absent leaves the column alone.
type Patch map[string]any

// RowError records a single row's failure.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// Result is the aggregate outcome of one import batch.
type Result struct {
	Success int        `json:"success"`
	Failed  int        `json:"failed"`
	Updated int        `json:"updated"`
	Created int        `json:"created"`
	Errors  []RowError `json:"errors,omitempty"`
}

func (r *Result) fail(rowNum int, err error) {
	r.Failed++
	r.Errors = append(r.Errors, RowError{Row: rowNum, Error: err.Error()})
}

// Input field keys. All are optional except FieldEnglishName.
const (
	FieldEnglishName    = "english_name"
	FieldSanskritName   = "sanskrit_name"
	FieldPronunciation  = "pronunciation"
	FieldDescription    = "description"
	FieldSEODescription = "seo_description"

	FieldDifficulty   = "difficulty"
	FieldCategory     = "category"
	FieldPrimaryFocus = "primary_focus"
	FieldFocusAreas   = "focus_areas"
	FieldStatus       = "status"

	FieldBenefits          = "benefits"
	FieldCautions          = "cautions"
	FieldContraindications = "contraindications"
	FieldSteps             = "steps"
	FieldCues              = "cues"
	FieldModifications     = "modifications"
	FieldVariations        = "variations"
	FieldTags              = "tags"
	FieldEquipment         = "equipment"

	FieldDurationSeconds = "duration_seconds"

	FieldIsFeatured     = "is_featured"
	FieldIsPeakPose     = "is_peak_pose"
	FieldRequiresWarmup = "requires_warmup"
	FieldPregnancySafe  = "suitable_for_pregnancy"

	FieldImageFilename = "image_filename"
	FieldSlug          = "slug"
)

// listFields maps pipe-separated input keys to their store columns.
// focus_areas is handled separately because its items are vocabulary-checked.
var listFields = map[string]string{
	FieldBenefits:          "benefits",
	FieldCautions:          "cautions",
	FieldContraindications: "contraindications",
	FieldSteps:             "steps",
	FieldCues:              "cues",
	FieldModifications:     "modifications",
	FieldVariations:        "variations",
	FieldTags:              "tags",
	FieldEquipment:         "equipment",
}

// textFields maps scalar text input keys to their store columns.
var textFields = map[string]string{
	FieldEnglishName:    "english_name",
	FieldSanskritName:   "sanskrit_name",
	FieldPronunciation:  "pronunciation",
	FieldDescription:    "description",
	FieldSEODescription: "seo_description",
	FieldImageFilename:  "image_filename",
}

// boolFields maps boolean-token input keys to their store columns.
var boolFields = map[string]string{
	FieldIsFeatured:     "featured",
	FieldIsPeakPose:     "peak_pose",
	FieldRequiresWarmup: "requires_warmup",
	FieldPregnancySafe:  "pregnancy_safe",
}

// vocabError builds the user-facing message for an out-of-vocabulary value.
func vocabError(field, value string, vocab []string) error {
	return fmt.Errorf("invalid %s %q: must be one of %s", field, value, joinVocab(vocab))
}
