package importer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asanahub/poseadmin/internal/pose"
)

// memStore is an in-memory Store for importer tests. It applies patches the
// way the SQL store does: key present with nil clears, key present with a
// value sets, key absent leaves the field alone.
type memStore struct {
	poses      map[string]*pose.Pose
	nextID     int
	failInsert error
	failUpdate error
}

func newMemStore() *memStore {
	return &memStore{poses: map[string]*pose.Pose{}}
}

func (m *memStore) GetByImageFilename(_ context.Context, filename string) (*pose.Pose, error) {
	for _, p := range m.poses {
		if p.ImageFilename == filename {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetBySlug(_ context.Context, slug string) (*pose.Pose, error) {
	for _, p := range m.poses {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListSlugs(_ context.Context) ([]string, error) {
	out := make([]string, 0, len(m.poses))
	for _, p := range m.poses {
		out = append(out, p.Slug)
	}
	return out, nil
}

func (m *memStore) Update(_ context.Context, id string, patch Patch) error {
	if m.failUpdate != nil {
		return m.failUpdate
	}
	p, ok := m.poses[id]
	if !ok {
		return fmt.Errorf("pose %s not found", id)
	}
	for col, v := range patch {
		applyColumn(p, col, v)
	}
	return nil
}

func (m *memStore) Insert(_ context.Context, p *pose.Pose) error {
	if m.failInsert != nil {
		return m.failInsert
	}
	m.nextID++
	p.ID = fmt.Sprintf("id-%d", m.nextID)
	cp := *p
	m.poses[p.ID] = &cp
	return nil
}

func applyColumn(p *pose.Pose, col string, v any) {
	str := func() string {
		if v == nil {
			return ""
		}
		return v.(string)
	}
	switch col {
	case "slug":
		p.Slug = str()
	case "image_filename":
		p.ImageFilename = str()
	case "english_name":
		p.EnglishName = str()
	case "sanskrit_name":
		p.SanskritName = str()
	case "pronunciation":
		p.Pronunciation = str()
	case "description":
		p.Description = str()
	case "seo_description":
		p.SEODescription = str()
	case "difficulty":
		p.Difficulty = str()
	case "category":
		p.Category = str()
	case "primary_focus":
		p.PrimaryFocus = str()
	case "focus_areas":
		p.FocusAreas = v.([]string)
	case "benefits":
		p.Benefits = v.([]string)
	case "cautions":
		p.Cautions = v.([]string)
	case "contraindications":
		p.Contraindications = v.([]string)
	case "steps":
		p.Steps = v.([]string)
	case "cues":
		p.Cues = v.([]string)
	case "modifications":
		p.Modifications = v.([]string)
	case "variations":
		p.Variations = v.([]string)
	case "tags":
		p.Tags = v.([]string)
	case "equipment":
		p.Equipment = v.([]string)
	case "duration_seconds":
		p.DurationSeconds = v.(int)
	case "featured":
		p.Featured = v.(bool)
	case "peak_pose":
		p.PeakPose = v.(bool)
	case "requires_warmup":
		p.RequiresWarmup = v.(bool)
	case "pregnancy_safe":
		p.PregnancySafe = v.(bool)
	case "status":
		p.Status = str()
	case "published_at":
		t := v.(time.Time)
		p.PublishedAt = &t
	case "updated_at":
		p.UpdatedAt = v.(time.Time)
	case "updated_by":
		p.UpdatedBy = str()
	default:
		panic("unknown column " + col)
	}
}

func (m *memStore) bySlug(t *testing.T, slug string) *pose.Pose {
	t.Helper()
	for _, p := range m.poses {
		if p.Slug == slug {
			return p
		}
	}
	t.Fatalf("no pose with slug %q", slug)
	return nil
}

func runRows(t *testing.T, st *memStore, rows []Row) *Result {
	t.Helper()
	result, err := New(st).Run(context.Background(), rows, "tester")
	require.NoError(t, err)
	return result
}

func TestRunEmptyBatch(t *testing.T) {
	_, err := New(newMemStore()).Run(context.Background(), nil, "tester")
	assert.Error(t, err)
}

func TestRunCreatesPoseWithDefaults(t *testing.T) {
	st := newMemStore()
	result := runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{
			FieldEnglishName: "Crow Pose",
			FieldDifficulty:  "Advanced",
			FieldBenefits:    "Strengthens wrists|Builds core strength",
		}},
	})

	assert.Equal(t, 1, result.Success)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Empty(t, result.Errors)

	p := st.bySlug(t, "crow-pose")
	assert.Equal(t, "Crow Pose", p.EnglishName)
	assert.Equal(t, pose.DifficultyAdvanced, p.Difficulty)
	assert.Equal(t, []string{"Strengthens wrists", "Builds core strength"}, p.Benefits)
	assert.Equal(t, pose.StatusDraft, p.Status)
	assert.Nil(t, p.PublishedAt)
	assert.Equal(t, []string{}, p.Tags)
	assert.Equal(t, "tester", p.CreatedBy)
	assert.Equal(t, "tester", p.UpdatedBy)
}

func TestRunIsIdempotent(t *testing.T) {
	st := newMemStore()
	rows := []Row{
		{Number: 1, Fields: map[string]string{FieldEnglishName: "Crow Pose", FieldSlug: "crow-pose"}},
		{Number: 2, Fields: map[string]string{FieldEnglishName: "Tree Pose", FieldSlug: "tree-pose"}},
	}

	first := runRows(t, st, rows)
	assert.Equal(t, 2, first.Created)
	assert.Equal(t, 0, first.Updated)

	second := runRows(t, st, rows)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Updated)
	assert.Len(t, st.poses, 2)
}

func TestRunGeneratesUniqueSlugs(t *testing.T) {
	st := newMemStore()
	// Two distinct records with the same name and no slugs of their own.
	result := runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{FieldEnglishName: "Cobra Pose", FieldImageFilename: "cobra_a.jpg"}},
		{Number: 2, Fields: map[string]string{FieldEnglishName: "Cobra Pose", FieldImageFilename: "cobra_b.jpg"}},
	})

	assert.Equal(t, 2, result.Created)
	st.bySlug(t, "cobra-pose")
	st.bySlug(t, "cobra-pose-2")
}

func TestRunIsolatesRowFailures(t *testing.T) {
	st := newMemStore()
	result := runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{FieldEnglishName: "Crow Pose"}},
		{Number: 2, Fields: map[string]string{FieldEnglishName: "Bad Pose", FieldDifficulty: "expert"}},
		{Number: 3, Fields: map[string]string{FieldEnglishName: "Tree Pose"}},
	})

	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Error, "expert")
	st.bySlug(t, "crow-pose")
	st.bySlug(t, "tree-pose")
}

func TestRunMatchesByImageFilenameBeforeSlug(t *testing.T) {
	st := newMemStore()
	runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{FieldEnglishName: "Pose A", FieldSlug: "pose-a", FieldImageFilename: "shared.jpg"}},
		{Number: 2, Fields: map[string]string{FieldEnglishName: "Pose B", FieldSlug: "pose-b", FieldImageFilename: "other.jpg"}},
	})

	// Row carries A's image filename but B's slug: the filename wins.
	result := runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{
			FieldEnglishName:   "Renamed",
			FieldImageFilename: "shared.jpg",
			FieldSlug:          "pose-b",
		}},
	})

	assert.Equal(t, 1, result.Updated)
	a := st.bySlug(t, "pose-a")
	b := st.bySlug(t, "pose-b")
	assert.Equal(t, "Renamed", a.EnglishName)
	assert.Equal(t, "Pose B", b.EnglishName)
}

func TestRunFallsBackToSlugMatch(t *testing.T) {
	st := newMemStore()
	runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{FieldEnglishName: "Pose A", FieldSlug: "pose-a"}},
	})

	result := runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{
			FieldEnglishName:   "Pose A Updated",
			FieldImageFilename: "never-seen.jpg",
			FieldSlug:          "pose-a",
		}},
	})

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, "Pose A Updated", st.bySlug(t, "pose-a").EnglishName)
}

func TestRunUpdateTouchesOnlyPresentFields(t *testing.T) {
	st := newMemStore()
	runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{
			FieldEnglishName:  "Crow Pose",
			FieldSlug:         "crow-pose",
			FieldDescription:  "Arm balance on bent arms.",
			FieldSanskritName: "Bakasana",
			FieldBenefits:     "Strengthens wrists",
		}},
	})

	result := runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{
			FieldEnglishName:  "Crow Pose",
			FieldSlug:         "crow-pose",
			FieldSanskritName: "", // present-empty clears
			// description and benefits absent: untouched
		}},
	})

	assert.Equal(t, 1, result.Updated)
	p := st.bySlug(t, "crow-pose")
	assert.Equal(t, "", p.SanskritName)
	assert.Equal(t, "Arm balance on bent arms.", p.Description)
	assert.Equal(t, []string{"Strengthens wrists"}, p.Benefits)
}

func TestRunBlankListAndEnumLeaveExisting(t *testing.T) {
	st := newMemStore()
	runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{
			FieldEnglishName: "Crow Pose",
			FieldSlug:        "crow-pose",
			FieldDifficulty:  "advanced",
			FieldBenefits:    "Strengthens wrists|Builds focus",
		}},
	})

	runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{
			FieldEnglishName: "Crow Pose",
			FieldSlug:        "crow-pose",
			FieldDifficulty:  "",
			FieldBenefits:    "",
		}},
	})

	p := st.bySlug(t, "crow-pose")
	assert.Equal(t, pose.DifficultyAdvanced, p.Difficulty)
	assert.Equal(t, []string{"Strengthens wrists", "Builds focus"}, p.Benefits)
}

func TestRunEquipmentNoneMeansEmpty(t *testing.T) {
	st := newMemStore()
	runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{
			FieldEnglishName: "Crow Pose",
			FieldSlug:        "crow-pose",
			FieldEquipment:   "Block|Strap",
		}},
	})

	runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{
			FieldEnglishName: "Crow Pose",
			FieldSlug:        "crow-pose",
			FieldEquipment:   "None",
		}},
	})

	assert.Equal(t, []string{}, st.bySlug(t, "crow-pose").Equipment)
}

func TestRunCreateRequiresEnglishName(t *testing.T) {
	st := newMemStore()
	result := runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{FieldSlug: "mystery-pose"}},
	})

	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error, "english_name")
	assert.Empty(t, st.poses)
}

func TestRunUpdateByKeyWithoutEnglishName(t *testing.T) {
	st := newMemStore()
	runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{FieldEnglishName: "Crow Pose", FieldSlug: "crow-pose"}},
	})

	// An update row may carry only the matching key and the fields to set.
	result := runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{FieldSlug: "crow-pose", FieldStatus: "Published"}},
	})

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Failed)
	p := st.bySlug(t, "crow-pose")
	assert.Equal(t, pose.StatusPublished, p.Status)
	require.NotNil(t, p.PublishedAt)
	assert.Equal(t, "Crow Pose", p.EnglishName)
}

func TestRunPublishStampsTimestamp(t *testing.T) {
	st := newMemStore()
	runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{
			FieldEnglishName: "Crow Pose",
			FieldSlug:        "crow-pose",
			FieldBenefits:    "Strengthens wrists",
		}},
	})

	result := runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{
			FieldEnglishName: "Crow Pose",
			FieldSlug:        "crow-pose",
			FieldStatus:      "Published",
		}},
	})

	assert.Equal(t, 1, result.Updated)
	p := st.bySlug(t, "crow-pose")
	assert.Equal(t, pose.StatusPublished, p.Status)
	require.NotNil(t, p.PublishedAt)
	assert.Equal(t, []string{"Strengthens wrists"}, p.Benefits)
}

func TestRunSlugRenameCollisionKeepsCurrent(t *testing.T) {
	st := newMemStore()
	runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{FieldEnglishName: "Pose A", FieldSlug: "pose-a", FieldImageFilename: "a.jpg"}},
		{Number: 2, Fields: map[string]string{FieldEnglishName: "Pose B", FieldSlug: "pose-b", FieldImageFilename: "b.jpg"}},
	})

	// Try to rename A onto B's slug. The rename is dropped, the rest of the
	// update still applies.
	result := runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{
			FieldEnglishName:   "Pose A Renamed",
			FieldImageFilename: "a.jpg",
			FieldSlug:          "pose-b",
		}},
	})

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Failed)
	a := st.bySlug(t, "pose-a")
	assert.Equal(t, "Pose A Renamed", a.EnglishName)
}

func TestRunSlugRenameReservesNewSlug(t *testing.T) {
	st := newMemStore()
	runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{FieldEnglishName: "Pose A", FieldSlug: "pose-a", FieldImageFilename: "a.jpg"}},
	})

	// Row 1 renames A to pose-x; row 2 creates a new pose whose derived slug
	// collides with the freshly reserved one and must be suffixed.
	result := runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{FieldEnglishName: "Pose A", FieldImageFilename: "a.jpg", FieldSlug: "pose-x"}},
		{Number: 2, Fields: map[string]string{FieldEnglishName: "Pose X", FieldImageFilename: "x.jpg"}},
	})

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Created)
	st.bySlug(t, "pose-x")
	st.bySlug(t, "pose-x-2")
}

func TestRunStoreErrorRecordedPerRow(t *testing.T) {
	st := newMemStore()
	st.failInsert = errors.New("connection reset")

	result := runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{FieldEnglishName: "Crow Pose"}},
	})

	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "connection reset", result.Errors[0].Error)
	assert.Empty(t, st.poses)
}

func TestRunFailedInsertDoesNotReserveSlug(t *testing.T) {
	st := newMemStore()
	st.failInsert = errors.New("boom")
	runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{FieldEnglishName: "Crow Pose"}},
	})

	st.failInsert = nil
	result := runRows(t, st, []Row{
		{Number: 1, Fields: map[string]string{FieldEnglishName: "Crow Pose"}},
	})

	assert.Equal(t, 1, result.Created)
	st.bySlug(t, "crow-pose")
}
