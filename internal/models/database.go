package models

import (
	"strings"
	"time"
)

// Lead is a contact-form submission from a prospective learner.
// Leads are append-only.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Goals     string    `json:"goals"`
	CreatedAt time.Time `json:"createdAt"`
}

// Database is the whole persisted document. It is always read and
// written as one unit.
type Database struct {
	Users []User `json:"users"`
	Leads []Lead `json:"leads"`
}

// NewDatabase returns an empty document.
func NewDatabase() *Database {
	return &Database{Users: []User{}, Leads: []Lead{}}
}

// Normalize replaces nil collections so the document always serializes
// with both top-level arrays.
func (db *Database) Normalize() {
	if db.Users == nil {
		db.Users = []User{}
	}
	if db.Leads == nil {
		db.Leads = []Lead{}
	}
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserByEmail returns the index of the user with the given normalized
// email, or -1.
func (db *Database) UserByEmail(email string) int {
	for i := range db.Users {
		if db.Users[i].Email == email {
			return i
		}
	}
	return -1
}

// UserByID returns the index of the user with the given id, or -1.
func (db *Database) UserByID(id string) int {
	for i := range db.Users {
		if db.Users[i].ID == id {
			return i
		}
	}
	return -1
}

// PrependLead stores lead ahead of older submissions.
func (db *Database) PrependLead(lead Lead) {
	db.Leads = append([]Lead{lead}, db.Leads...)
}
