package models

import (
	"encoding/json"
	"time"
)

// ProgressStatus is the completion state of one learning module.
type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s ProgressStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ModuleKeys is the fixed set of learning modules tracked in Progress.
var ModuleKeys = []string{
	"onboarding",
	"javascriptBasics",
	"firstReactApp",
	"productionDeployment",
	"projectPlanning",
	"careerPreparation",
}

// IsModuleKey reports whether key names a known learning module.
func IsModuleKey(key string) bool {
	for _, k := range ModuleKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Progress maps module keys to their status.
type Progress map[string]ProgressStatus

// Clone returns a copy of p with every known module key present.
// Missing keys default to not_started.
func (p Progress) Clone() Progress {
	out := make(Progress, len(ModuleKeys))
	for _, k := range ModuleKeys {
		out[k] = StatusNotStarted
	}
	for k, v := range p {
		out[k] = v
	}
	return out
}

type LearningGoal struct {
	Focus          string  `json:"focus"`
	HoursPerWeek   float64 `json:"hoursPerWeek"`
	NextCheckpoint string  `json:"nextCheckpoint"`
}

// Task is one entry of a learner's dashboard checklist.
// Locked tasks cannot be removed.
type Task struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Category  string `json:"category"`
	Completed bool   `json:"completed"`
	Locked    bool   `json:"locked"`
}

type Dashboard struct {
	LearningGoal LearningGoal `json:"learningGoal"`
	Tasks        []Task       `json:"tasks"`
	Notes        string       `json:"notes"`
}

// CloneTasks deep-copies a task list. The result is never nil.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

// User is the stored learner record. PasswordHash is persisted under the
// "password" key and must never reach a client; use PublicUser for that.
type User struct {
	ID              string     `json:"id"`
	FullName        string     `json:"fullName"`
	Email           string     `json:"email"`
	Cohort          string     `json:"cohort"`
	Role            string     `json:"role"`
	PasswordHash    string     `json:"password"`
	Progress        Progress   `json:"progress"`
	Dashboard       Dashboard  `json:"dashboard"`
	LastLoginAt     *time.Time `json:"lastLoginAt"`
	PreviousLoginAt *time.Time `json:"previousLoginAt"`
	StreakCount     int        `json:"streakCount"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// PublicUser is the client-facing view of a User.
type PublicUser struct {
	ID              string     `json:"id"`
	FullName        string     `json:"fullName"`
	Email           string     `json:"email"`
	Cohort          string     `json:"cohort"`
	Role            string     `json:"role"`
	Progress        Progress   `json:"progress"`
	Dashboard       Dashboard  `json:"dashboard"`
	LastLoginAt     *time.Time `json:"lastLoginAt"`
	PreviousLoginAt *time.Time `json:"previousLoginAt"`
	StreakCount     int        `json:"streakCount"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// PartialLearningGoal carries only the learning goal fields a client sent.
type PartialLearningGoal struct {
	Focus          *string  `json:"focus,omitempty"`
	HoursPerWeek   *float64 `json:"hoursPerWeek,omitempty"`
	NextCheckpoint *string  `json:"nextCheckpoint,omitempty"`
}

// PartialDashboard carries only the dashboard fields a client sent.
// A nil Tasks slice means the task list was not supplied; an empty,
// non-nil slice means "replace with no tasks".
type PartialDashboard struct {
	LearningGoal *PartialLearningGoal `json:"learningGoal,omitempty"`
	Tasks        []Task               `json:"tasks,omitempty"`
	Notes        *string              `json:"notes,omitempty"`
}

// PartialUser is a profile update. Every field is optional; identity
// fields are not represented because they are never updated.
type PartialUser struct {
	Progress        Progress          `json:"progress,omitempty"`
	Dashboard       *PartialDashboard `json:"dashboard,omitempty"`
	StreakCount     *int              `json:"streakCount,omitempty"`
	LastLoginAt     NullableTime      `json:"lastLoginAt"`
	PreviousLoginAt NullableTime      `json:"previousLoginAt"`
}

// NullableTime distinguishes an absent JSON field (Set == false) from an
// explicit null (Set == true, Time == nil).
type NullableTime struct {
	Set  bool
	Time *time.Time
}

// Present builds a NullableTime holding t; a nil t is an explicit null.
func Present(t *time.Time) NullableTime {
	return NullableTime{Set: true, Time: t}
}

func (n *NullableTime) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Time = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	n.Time = &t
	return nil
}

func (n NullableTime) MarshalJSON() ([]byte, error) {
	if n.Time == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.Time)
}
