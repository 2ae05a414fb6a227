package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AnshRaj112/codinglearn-backend/internal/models"
	"github.com/google/uuid"
)

const (
	DefaultCohort       = "Débutant"
	DefaultRole         = "Apprenant·e"
	DefaultTaskCategory = "Personnel"
)

var (
	ErrEmptyLabel      = errors.New("task label is required")
	ErrUnknownModule   = errors.New("unknown module")
	ErrInvalidStatus   = errors.New("invalid progress status")
	ErrInvalidTask     = errors.New("task id is required")
	ErrDuplicateTaskID = errors.New("duplicate task id")
	ErrInvalidGoal     = errors.New("hours per week cannot be negative")
)

// DefaultLearningGoal is the goal every new learner starts with.
func DefaultLearningGoal() models.LearningGoal {
	return models.LearningGoal{
		Focus:          "Renforcer vos bases JavaScript et React",
		HoursPerWeek:   6,
		NextCheckpoint: "Soumettre le mini-projet #1 cette semaine",
	}
}

// StarterTasks returns a fresh copy of the locked onboarding checklist.
func StarterTasks() []models.Task {
	return []models.Task{
		{ID: "setup-environment", Label: "Configurer votre environnement de développement (Node, Git, éditeur)", Category: "Onboarding", Locked: true},
		{ID: "watch-live", Label: "Participer à la prochaine session live de coaching", Category: "Communauté", Locked: true},
		{ID: "submit-project", Label: "Soumettre le mini-projet #1 pour relecture", Category: "Projet", Locked: true},
		{ID: "practice-js", Label: "Réaliser 3 exercices pratiques JavaScript", Category: "Pratique", Locked: true},
	}
}

// CreateProfile builds the record for a freshly registered learner.
// The password hash is left for the caller to set.
func CreateProfile(id, fullName, email, cohort string, now time.Time) models.User {
	cohort = strings.TrimSpace(cohort)
	if cohort == "" {
		cohort = DefaultCohort
	}
	now = now.UTC()
	loginAt := now

	return models.User{
		ID:       id,
		FullName: fullName,
		Email:    email,
		Cohort:   cohort,
		Role:     DefaultRole,
		Progress: models.Progress(nil).Clone(),
		Dashboard: models.Dashboard{
			LearningGoal: DefaultLearningGoal(),
			Tasks:        StarterTasks(),
			Notes:        "",
		},
		LastLoginAt:     &loginAt,
		PreviousLoginAt: nil,
		StreakCount:     1,
		CreatedAt:       now,
	}
}

// ValidateUpdate rejects updates the merge must never apply: unknown
// modules, unknown statuses, task lists with blank ids, blank labels or
// repeated ids, and negative weekly hours.
func ValidateUpdate(updates models.PartialUser) error {
	for key, status := range updates.Progress {
		if !models.IsModuleKey(key) {
			return fmt.Errorf("%w: %q", ErrUnknownModule, key)
		}
		if !status.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
		}
	}

	d := updates.Dashboard
	if d == nil {
		return nil
	}
	if d.LearningGoal != nil && d.LearningGoal.HoursPerWeek != nil && *d.LearningGoal.HoursPerWeek < 0 {
		return ErrInvalidGoal
	}
	seen := make(map[string]struct{}, len(d.Tasks))
	for _, task := range d.Tasks {
		if strings.TrimSpace(task.ID) == "" {
			return ErrInvalidTask
		}
		if _, dup := seen[task.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateTaskID, task.ID)
		}
		if strings.TrimSpace(task.Label) == "" {
			return fmt.Errorf("%w: %q", ErrEmptyLabel, task.ID)
		}
		seen[task.ID] = struct{}{}
	}
	return nil
}

// MergeProfile applies a partial update to a stored record and returns a
// new record; stored is left untouched.
//
//   - progress and dashboard.learningGoal: shallow merge, sent keys win
//   - dashboard.tasks: replaced as a whole when sent, except that stored
//     locked tasks missing from the new list are kept at the end; the
//     locked flag is never taken from the update
//   - dashboard.notes, lastLoginAt, previousLoginAt: replaced when sent,
//     an explicit null clears the timestamps
//   - streakCount: replaced when sent and clamped to at least 1; an
//     explicit null is ignored rather than applied, as the count is never
//     below 1
//   - id, email, createdAt, credential: never changed
func MergeProfile(stored models.User, updates models.PartialUser) models.User {
	merged := cloneUser(stored)

	for key, status := range updates.Progress {
		merged.Progress[key] = status
	}

	if d := updates.Dashboard; d != nil {
		if g := d.LearningGoal; g != nil {
			if g.Focus != nil {
				merged.Dashboard.LearningGoal.Focus = *g.Focus
			}
			if g.HoursPerWeek != nil {
				merged.Dashboard.LearningGoal.HoursPerWeek = *g.HoursPerWeek
			}
			if g.NextCheckpoint != nil {
				merged.Dashboard.LearningGoal.NextCheckpoint = *g.NextCheckpoint
			}
		}
		if d.Tasks != nil {
			merged.Dashboard.Tasks = keepLockedTasks(stored.Dashboard.Tasks, d.Tasks)
		}
		if d.Notes != nil {
			merged.Dashboard.Notes = *d.Notes
		}
	}

	if updates.StreakCount != nil {
		merged.StreakCount = max(*updates.StreakCount, 1)
	}
	if updates.LastLoginAt.Set {
		merged.LastLoginAt = cloneTime(updates.LastLoginAt.Time)
	}
	if updates.PreviousLoginAt.Set {
		merged.PreviousLoginAt = cloneTime(updates.PreviousLoginAt.Time)
	}

	return merged
}

// ToggleTask flips the completed flag of the task with taskID.
// Unknown ids leave the record unchanged.
func ToggleTask(user models.User, taskID string) models.User {
	tasks := models.CloneTasks(user.Dashboard.Tasks)
	for i := range tasks {
		if tasks[i].ID == taskID {
			tasks[i].Completed = !tasks[i].Completed
		}
	}
	return MergeProfile(user, models.PartialUser{Dashboard: &models.PartialDashboard{Tasks: tasks}})
}

// AddTask appends an unlocked, incomplete task. An empty category falls
// back to DefaultTaskCategory.
func AddTask(user models.User, label, category string) (models.User, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return user, ErrEmptyLabel
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultTaskCategory
	}

	tasks := append(models.CloneTasks(user.Dashboard.Tasks), models.Task{
		ID:       "task-" + uuid.NewString(),
		Label:    label,
		Category: category,
	})
	return MergeProfile(user, models.PartialUser{Dashboard: &models.PartialDashboard{Tasks: tasks}}), nil
}

// RemoveTask drops the task with taskID unless it is locked.
func RemoveTask(user models.User, taskID string) models.User {
	tasks := make([]models.Task, 0, len(user.Dashboard.Tasks))
	for _, task := range user.Dashboard.Tasks {
		if task.ID == taskID && !task.Locked {
			continue
		}
		tasks = append(tasks, task)
	}
	return MergeProfile(user, models.PartialUser{Dashboard: &models.PartialDashboard{Tasks: tasks}})
}

// RecordLogin updates the login metadata and daily streak. The streak grows
// when the previous login is one full day back, resets after two or more
// days, and is kept for logins within the same 24 hours.
func RecordLogin(user models.User, now time.Time) models.User {
	now = now.UTC()
	prev := user.LastLoginAt

	streak := max(user.StreakCount, 1)
	if prev == nil {
		streak = 1
	} else {
		diffDays := int64(now.Sub(*prev) / (24 * time.Hour))
		switch {
		case diffDays == 1:
			streak++
		case diffDays > 1:
			streak = 1
		}
	}

	return MergeProfile(user, models.PartialUser{
		StreakCount:     &streak,
		LastLoginAt:     models.Present(&now),
		PreviousLoginAt: models.Present(prev),
	})
}

// SanitizeForClient strips the credential and returns a detached copy.
func SanitizeForClient(user models.User) models.PublicUser {
	u := cloneUser(user)
	return models.PublicUser{
		ID:              u.ID,
		FullName:        u.FullName,
		Email:           u.Email,
		Cohort:          u.Cohort,
		Role:            u.Role,
		Progress:        u.Progress,
		Dashboard:       u.Dashboard,
		LastLoginAt:     u.LastLoginAt,
		PreviousLoginAt: u.PreviousLoginAt,
		StreakCount:     max(u.StreakCount, 1),
		CreatedAt:       u.CreatedAt,
	}
}

// keepLockedTasks takes the locked flag from stored only. Stored locked
// tasks missing from incoming are appended in stored order.
func keepLockedTasks(stored, incoming []models.Task) []models.Task {
	locked := make(map[string]bool, len(stored))
	for _, task := range stored {
		if task.Locked {
			locked[task.ID] = true
		}
	}

	tasks := models.CloneTasks(incoming)
	present := make(map[string]bool, len(tasks))
	for i := range tasks {
		tasks[i].Locked = locked[tasks[i].ID]
		present[tasks[i].ID] = true
	}
	for _, task := range stored {
		if task.Locked && !present[task.ID] {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

func cloneUser(u models.User) models.User {
	out := u
	out.Progress = u.Progress.Clone()
	out.Dashboard.Tasks = models.CloneTasks(u.Dashboard.Tasks)
	out.LastLoginAt = cloneTime(u.LastLoginAt)
	out.PreviousLoginAt = cloneTime(u.PreviousLoginAt)
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
