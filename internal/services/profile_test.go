package services

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/AnshRaj112/codinglearn-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func newLearner(t *testing.T) models.User {
	t.Helper()
	u := CreateProfile("u-1", "Ada Lovelace", "ada@example.com", "", created)
	u.PasswordHash = "salt:key"
	return u
}

func strPtr(s string) *string { return &s }

func TestCreateProfile_Defaults(t *testing.T) {
	u := CreateProfile("id-1", "Grace", "grace@example.com", "  ", created)

	assert.Equal(t, DefaultCohort, u.Cohort)
	assert.Equal(t, DefaultRole, u.Role)
	assert.Equal(t, 1, u.StreakCount)
	require.NotNil(t, u.LastLoginAt)
	assert.True(t, u.LastLoginAt.Equal(created))
	assert.Nil(t, u.PreviousLoginAt)
	assert.Equal(t, created, u.CreatedAt)
	assert.Equal(t, "", u.Dashboard.Notes)
	assert.Equal(t, DefaultLearningGoal(), u.Dashboard.LearningGoal)

	require.Len(t, u.Progress, len(models.ModuleKeys))
	for _, key := range models.ModuleKeys {
		assert.Equal(t, models.StatusNotStarted, u.Progress[key], key)
	}

	require.Len(t, u.Dashboard.Tasks, 4)
	for _, task := range u.Dashboard.Tasks {
		assert.True(t, task.Locked, task.ID)
		assert.False(t, task.Completed, task.ID)
	}

	withCohort := CreateProfile("id-2", "Linus", "l@example.com", "Avancé", created)
	assert.Equal(t, "Avancé", withCohort.Cohort)
}

func TestCreateProfile_StarterTasksAreIndependent(t *testing.T) {
	a := CreateProfile("a", "A", "a@x.com", "", created)
	b := CreateProfile("b", "B", "b@x.com", "", created)

	a.Dashboard.Tasks[0].Completed = true
	assert.False(t, b.Dashboard.Tasks[0].Completed)
	assert.False(t, StarterTasks()[0].Completed)
}

func TestMergeProfile_EmptyUpdateIsIdentity(t *testing.T) {
	u := newLearner(t)
	assert.Equal(t, u, MergeProfile(u, models.PartialUser{}))

	var decoded models.PartialUser
	require.NoError(t, json.Unmarshal([]byte(`{}`), &decoded))
	assert.Equal(t, u, MergeProfile(u, decoded))
}

func TestMergeProfile_ProgressShallowOverride(t *testing.T) {
	u := newLearner(t)

	merged := MergeProfile(u, models.PartialUser{
		Progress: models.Progress{"onboarding": models.StatusCompleted},
	})

	assert.Equal(t, models.StatusCompleted, merged.Progress["onboarding"])
	for _, key := range models.ModuleKeys[1:] {
		assert.Equal(t, models.StatusNotStarted, merged.Progress[key], key)
	}
	// stored record untouched
	assert.Equal(t, models.StatusNotStarted, u.Progress["onboarding"])
}

func TestMergeProfile_LearningGoalShallowOverride(t *testing.T) {
	u := newLearner(t)
	hours := 10.0

	merged := MergeProfile(u, models.PartialUser{
		Dashboard: &models.PartialDashboard{
			LearningGoal: &models.PartialLearningGoal{HoursPerWeek: &hours},
		},
	})

	assert.Equal(t, 10.0, merged.Dashboard.LearningGoal.HoursPerWeek)
	assert.Equal(t, u.Dashboard.LearningGoal.Focus, merged.Dashboard.LearningGoal.Focus)
	assert.Equal(t, u.Dashboard.LearningGoal.NextCheckpoint, merged.Dashboard.LearningGoal.NextCheckpoint)
	assert.Equal(t, u.Dashboard.Tasks, merged.Dashboard.Tasks)
	assert.Equal(t, u.Dashboard.Notes, merged.Dashboard.Notes)
}

func TestMergeProfile_TasksReplacedWhenPresent(t *testing.T) {
	u := newLearner(t)
	u, err := AddTask(u, "Lire la doc", "")
	require.NoError(t, err)

	replacement := models.CloneTasks(u.Dashboard.Tasks[:4])
	replacement[1].Completed = true
	replacement = append(replacement, models.Task{ID: "custom", Label: "Nouveau", Category: "Perso"})

	merged := MergeProfile(u, models.PartialUser{
		Dashboard: &models.PartialDashboard{Tasks: replacement},
	})

	require.Len(t, merged.Dashboard.Tasks, 5)
	assert.True(t, merged.Dashboard.Tasks[1].Completed)
	assert.Equal(t, "custom", merged.Dashboard.Tasks[4].ID)

	// deep copy: mutating the input afterwards does not leak into the result
	replacement[4].Label = "changed"
	assert.Equal(t, "Nouveau", merged.Dashboard.Tasks[4].Label)
}

func TestMergeProfile_TasksAbsentRetained(t *testing.T) {
	u := newLearner(t)

	merged := MergeProfile(u, models.PartialUser{
		Dashboard: &models.PartialDashboard{Notes: strPtr("mes notes")},
	})

	assert.Equal(t, "mes notes", merged.Dashboard.Notes)
	assert.Equal(t, u.Dashboard.Tasks, merged.Dashboard.Tasks)
}

func TestMergeProfile_LockedTasksSurviveReplacement(t *testing.T) {
	u := newLearner(t)
	u, err := AddTask(u, "Optionnel", "Perso")
	require.NoError(t, err)
	custom := u.Dashboard.Tasks[4]

	// client drops everything but its own task and tries to unlock a starter task
	unlocked := u.Dashboard.Tasks[0]
	unlocked.Locked = false
	merged := MergeProfile(u, models.PartialUser{
		Dashboard: &models.PartialDashboard{Tasks: []models.Task{unlocked, custom}},
	})

	require.Len(t, merged.Dashboard.Tasks, 5)
	assert.Equal(t, unlocked.ID, merged.Dashboard.Tasks[0].ID)
	assert.True(t, merged.Dashboard.Tasks[0].Locked)
	assert.Equal(t, custom.ID, merged.Dashboard.Tasks[1].ID)
	for _, task := range merged.Dashboard.Tasks[2:] {
		assert.True(t, task.Locked, task.ID)
	}

	// an explicit empty list removes only unlocked tasks
	emptied := MergeProfile(u, models.PartialUser{
		Dashboard: &models.PartialDashboard{Tasks: []models.Task{}},
	})
	assert.Len(t, emptied.Dashboard.Tasks, 4)
}

func TestMergeProfile_UpdateCannotLockTasks(t *testing.T) {
	u := newLearner(t)

	merged := MergeProfile(u, models.PartialUser{
		Dashboard: &models.PartialDashboard{Tasks: []models.Task{
			{ID: "junk", Label: "Indélébile", Locked: true},
		}},
	})
	require.Len(t, merged.Dashboard.Tasks, 5)
	assert.Equal(t, "junk", merged.Dashboard.Tasks[0].ID)
	assert.False(t, merged.Dashboard.Tasks[0].Locked)

	removed := RemoveTask(merged, "junk")
	assert.Equal(t, u.Dashboard.Tasks, removed.Dashboard.Tasks)

	// resending the starter tasks drops it like any other unlocked task
	resent := MergeProfile(merged, models.PartialUser{
		Dashboard: &models.PartialDashboard{Tasks: StarterTasks()},
	})
	assert.Equal(t, StarterTasks(), resent.Dashboard.Tasks)
}

func TestMergeProfile_LoginFields(t *testing.T) {
	u := newLearner(t)
	later := created.Add(48 * time.Hour)
	streak := 4

	merged := MergeProfile(u, models.PartialUser{
		StreakCount:     &streak,
		LastLoginAt:     models.Present(&later),
		PreviousLoginAt: models.Present(u.LastLoginAt),
	})
	assert.Equal(t, 4, merged.StreakCount)
	assert.True(t, merged.LastLoginAt.Equal(later))
	assert.True(t, merged.PreviousLoginAt.Equal(created))

	// explicit null clears the timestamp
	cleared := MergeProfile(merged, models.PartialUser{PreviousLoginAt: models.Present(nil)})
	assert.Nil(t, cleared.PreviousLoginAt)
	assert.True(t, cleared.LastLoginAt.Equal(later))

	zero := 0
	clamped := MergeProfile(merged, models.PartialUser{StreakCount: &zero})
	assert.Equal(t, 1, clamped.StreakCount)

	var nullStreak models.PartialUser
	require.NoError(t, json.Unmarshal([]byte(`{"streakCount": null}`), &nullStreak))
	assert.Equal(t, 4, MergeProfile(merged, nullStreak).StreakCount)
}

func TestMergeProfile_FromJSON(t *testing.T) {
	u := newLearner(t)
	body := `{
		"id": "someone-else",
		"email": "evil@example.com",
		"createdAt": "2000-01-01T00:00:00Z",
		"progress": {"firstReactApp": "in_progress"},
		"dashboard": {"notes": "", "learningGoal": {"focus": "Node"}},
		"previousLoginAt": null
	}`

	var updates models.PartialUser
	require.NoError(t, json.Unmarshal([]byte(body), &updates))
	require.NoError(t, ValidateUpdate(updates))

	merged := MergeProfile(u, updates)
	assert.Equal(t, u.ID, merged.ID)
	assert.Equal(t, u.Email, merged.Email)
	assert.Equal(t, u.CreatedAt, merged.CreatedAt)
	assert.Equal(t, u.PasswordHash, merged.PasswordHash)
	assert.Equal(t, models.StatusInProgress, merged.Progress["firstReactApp"])
	assert.Equal(t, "Node", merged.Dashboard.LearningGoal.Focus)
	assert.Equal(t, 6.0, merged.Dashboard.LearningGoal.HoursPerWeek)
	assert.Nil(t, merged.PreviousLoginAt)
	assert.Equal(t, u.LastLoginAt, merged.LastLoginAt)
}

func TestValidateUpdate(t *testing.T) {
	negative := -1.0
	cases := []struct {
		name    string
		updates models.PartialUser
		want    error
	}{
		{"unknown module", models.PartialUser{Progress: models.Progress{"cooking": models.StatusCompleted}}, ErrUnknownModule},
		{"bad status", models.PartialUser{Progress: models.Progress{"onboarding": "done"}}, ErrInvalidStatus},
		{"blank task id", models.PartialUser{Dashboard: &models.PartialDashboard{Tasks: []models.Task{{ID: " "}}}}, ErrInvalidTask},
		{"duplicate task id", models.PartialUser{Dashboard: &models.PartialDashboard{Tasks: []models.Task{{ID: "a", Label: "x"}, {ID: "a", Label: "y"}}}}, ErrDuplicateTaskID},
		{"blank task label", models.PartialUser{Dashboard: &models.PartialDashboard{Tasks: []models.Task{{ID: "a", Label: "  "}}}}, ErrEmptyLabel},
		{"negative hours", models.PartialUser{Dashboard: &models.PartialDashboard{LearningGoal: &models.PartialLearningGoal{HoursPerWeek: &negative}}}, ErrInvalidGoal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateUpdate(tc.updates), tc.want)
		})
	}

	assert.NoError(t, ValidateUpdate(models.PartialUser{}))
}

func TestToggleTask(t *testing.T) {
	u := newLearner(t)

	toggled := ToggleTask(u, "watch-live")
	assert.True(t, toggled.Dashboard.Tasks[1].Completed)
	assert.False(t, u.Dashboard.Tasks[1].Completed)

	back := ToggleTask(toggled, "watch-live")
	assert.Equal(t, u, back)

	assert.Equal(t, u, ToggleTask(u, "missing"))
}

func TestAddTask(t *testing.T) {
	u := newLearner(t)

	_, err := AddTask(u, "   ", "Perso")
	assert.ErrorIs(t, err, ErrEmptyLabel)

	first, err := AddTask(u, "  Relire le cours  ", "")
	require.NoError(t, err)
	second, err := AddTask(first, "Autre", "Projet")
	require.NoError(t, err)

	require.Len(t, second.Dashboard.Tasks, 6)
	added := second.Dashboard.Tasks[4]
	assert.Equal(t, "Relire le cours", added.Label)
	assert.Equal(t, DefaultTaskCategory, added.Category)
	assert.False(t, added.Locked)
	assert.False(t, added.Completed)
	assert.True(t, strings.HasPrefix(added.ID, "task-"))
	assert.NotEqual(t, added.ID, second.Dashboard.Tasks[5].ID)
	assert.Len(t, u.Dashboard.Tasks, 4)
}

func TestRemoveTask(t *testing.T) {
	u := newLearner(t)

	assert.Equal(t, u.Dashboard.Tasks, RemoveTask(u, "setup-environment").Dashboard.Tasks)

	withCustom, err := AddTask(u, "Temporaire", "")
	require.NoError(t, err)
	id := withCustom.Dashboard.Tasks[4].ID

	removed := RemoveTask(withCustom, id)
	assert.Equal(t, u.Dashboard.Tasks, removed.Dashboard.Tasks)

	assert.Equal(t, withCustom, RemoveTask(withCustom, "missing"))
}

func TestRecordLogin_Streak(t *testing.T) {
	base := newLearner(t)

	cases := []struct {
		name       string
		last       *time.Time
		streak     int
		now        time.Time
		wantStreak int
	}{
		{"first login", nil, 3, created, 1},
		{"same day", &created, 3, created.Add(5 * time.Hour), 3},
		{"next day", &created, 3, created.Add(30 * time.Hour), 4},
		{"two days later", &created, 3, created.Add(49 * time.Hour), 1},
		{"clock went backwards", &created, 3, created.Add(-time.Hour), 3},
		{"stored streak below one", &created, 0, created.Add(time.Hour), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := base
			u.LastLoginAt = tc.last
			u.StreakCount = tc.streak

			got := RecordLogin(u, tc.now)

			assert.Equal(t, tc.wantStreak, got.StreakCount)
			require.NotNil(t, got.LastLoginAt)
			assert.True(t, got.LastLoginAt.Equal(tc.now))
			if tc.last == nil {
				assert.Nil(t, got.PreviousLoginAt)
			} else {
				require.NotNil(t, got.PreviousLoginAt)
				assert.True(t, got.PreviousLoginAt.Equal(*tc.last))
			}
		})
	}
}

func TestSanitizeForClient(t *testing.T) {
	u := newLearner(t)
	delete(u.Progress, "careerPreparation")

	public := SanitizeForClient(u)

	raw, err := json.Marshal(public)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "salt:key")
	assert.Equal(t, models.StatusNotStarted, public.Progress["careerPreparation"])

	public.Dashboard.Tasks[0].Label = "mutated"
	assert.NotEqual(t, "mutated", u.Dashboard.Tasks[0].Label)
}
