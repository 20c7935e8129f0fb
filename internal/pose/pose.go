// Package pose defines the pose catalog domain model: the record type,
// its closed vocabularies, and slug derivation.
// This package has no storage or HTTP dependencies.
package pose

import "time"

// Pose is a single catalog record. The ID is opaque and never changes;
// the Slug is a globally-unique, human-readable secondary key.
type Pose struct {
	ID   string
	Slug string

	// ImageFilename is the upstream provenance key: the source asset the
	// record was originally generated from. It takes priority over the slug
	// when matching import rows to existing records.
	ImageFilename string

	EnglishName    string
	SanskritName   string
	Pronunciation  string
	Description    string
	SEODescription string

	Difficulty   string
	Category     string
	PrimaryFocus string
	FocusAreas   []string

	Benefits          []string
	Cautions          []string
	Contraindications []string
	Steps             []string
	Cues              []string
	Modifications     []string
	Variations        []string
	Tags              []string
	Equipment         []string

	DurationSeconds int

	Featured       bool
	PeakPose       bool
	RequiresWarmup bool
	PregnancySafe  bool

	Status      string
	PublishedAt *time.Time

	CreatedAt time.Time
	CreatedBy string
	UpdatedAt time.Time
	UpdatedBy string
}

// ApplyDefaults fills the schema defaults for a newly created record:
// beginner difficulty, draft status, and empty (non-nil) lists.
func (p *Pose) ApplyDefaults() {
	if p.Difficulty == "" {
		p.Difficulty = DifficultyBeginner
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if p.FocusAreas == nil {
		p.FocusAreas = []string{}
	}
	if p.Benefits == nil {
		p.Benefits = []string{}
	}
	if p.Cautions == nil {
		p.Cautions = []string{}
	}
	if p.Contraindications == nil {
		p.Contraindications = []string{}
	}
	if p.Steps == nil {
		p.Steps = []string{}
	}
	if p.Cues == nil {
		p.Cues = []string{}
	}
	if p.Modifications == nil {
		p.Modifications = []string{}
	}
	if p.Variations == nil {
		p.Variations = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Equipment == nil {
		p.Equipment = []string{}
	}
}
