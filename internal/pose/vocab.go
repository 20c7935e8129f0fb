package pose

import "strings"

// Closed vocabularies. Every enum field holds only lowercase values from its
// fixed set; comparison against raw input is case-insensitive.

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Difficulties lists the valid difficulty tiers.
var Difficulties = []string{
	DifficultyBeginner,
	DifficultyIntermediate,
	DifficultyAdvanced,
}

// Categories lists the valid pose category tags.
var Categories = []string{
	"standing",
	"seated",
	"supine",
	"prone",
	"balancing",
	"backbend",
	"forward-bend",
	"twist",
	"inversion",
	"arm-balance",
	"hip-opener",
	"core",
	"restorative",
}

// FocusAreas lists the valid focus-area tags. The same vocabulary applies to
// the single-valued primary focus and to each item of the multi-valued list.
var FocusAreas = []string{
	"hamstrings",
	"hips",
	"shoulders",
	"spine",
	"core",
	"legs",
	"arms",
	"chest",
	"back",
	"balance",
	"flexibility",
	"full-body",
}

// Statuses lists the valid publication states.
var Statuses = []string{
	StatusDraft,
	StatusPublished,
	StatusArchived,
}

// InVocab reports whether value is in the vocabulary, case-insensitively.
func InVocab(vocab []string, value string) bool {
	for _, v := range vocab {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}
