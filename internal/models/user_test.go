package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableTime_DistinguishesAbsentFromNull(t *testing.T) {
	var absent PartialUser
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.LastLoginAt.Set)
	assert.False(t, absent.PreviousLoginAt.Set)

	var null PartialUser
	require.NoError(t, json.Unmarshal([]byte(`{"previousLoginAt": null}`), &null))
	assert.True(t, null.PreviousLoginAt.Set)
	assert.Nil(t, null.PreviousLoginAt.Time)
	assert.False(t, null.LastLoginAt.Set)

	var value PartialUser
	require.NoError(t, json.Unmarshal([]byte(`{"lastLoginAt": "2026-02-03T10:00:00.000Z"}`), &value))
	require.True(t, value.LastLoginAt.Set)
	require.NotNil(t, value.LastLoginAt.Time)
	assert.True(t, value.LastLoginAt.Time.Equal(time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)))

	var bad PartialUser
	assert.Error(t, json.Unmarshal([]byte(`{"lastLoginAt": "yesterday"}`), &bad))
}

func TestPartialDashboard_TasksNilVersusEmpty(t *testing.T) {
	var absent PartialDashboard
	require.NoError(t, json.Unmarshal([]byte(`{"notes": "x"}`), &absent))
	assert.Nil(t, absent.Tasks)

	var empty PartialDashboard
	require.NoError(t, json.Unmarshal([]byte(`{"tasks": []}`), &empty))
	assert.NotNil(t, empty.Tasks)
	assert.Empty(t, empty.Tasks)
}

func TestProgressClone_FillsModuleKeys(t *testing.T) {
	p := Progress{"onboarding": StatusCompleted}
	c := p.Clone()

	assert.Len(t, c, len(ModuleKeys))
	assert.Equal(t, StatusCompleted, c["onboarding"])
	assert.Equal(t, StatusNotStarted, c["careerPreparation"])

	c["onboarding"] = StatusInProgress
	assert.Equal(t, StatusCompleted, p["onboarding"])
}

func TestDatabase_Lookups(t *testing.T) {
	db := NewDatabase()
	db.Users = append(db.Users, User{ID: "1", Email: "a@x.com"}, User{ID: "2", Email: "b@x.com"})

	assert.Equal(t, 1, db.UserByEmail(NormalizeEmail("  B@X.com ")))
	assert.Equal(t, -1, db.UserByEmail("c@x.com"))
	assert.Equal(t, 0, db.UserByID("1"))
	assert.Equal(t, -1, db.UserByID("3"))

	db.PrependLead(Lead{ID: "old"})
	db.PrependLead(Lead{ID: "new"})
	assert.Equal(t, "new", db.Leads[0].ID)

	var empty Database
	empty.Normalize()
	raw, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"users":[],"leads":[]}`, string(raw))
}
