package handlers

import (
	"net/http"
	"strings"

	"github.com/AnshRaj112/codinglearn-backend/internal/models"
	"github.com/google/uuid"
)

// SubmitLeadRequest is the body of POST /api/leads.
type SubmitLeadRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Goals string `json:"goals"`
}

// SubmitLead stores a contact-form submission.
func (a *API) SubmitLead(w http.ResponseWriter, r *http.Request) {
	var req SubmitLeadRequest
	if !decodeJSON(w, r, a.maxBodyBytes, &req) {
		return
	}

	lead := models.Lead{
		Name:  strings.TrimSpace(req.Name),
		Email: models.NormalizeEmail(req.Email),
		Goals: strings.TrimSpace(req.Goals),
	}
	if lead.Name == "" || lead.Email == "" || lead.Goals == "" {
		writeError(w, http.StatusBadRequest, "Name, email and goals are required")
		return
	}
	lead.ID = uuid.NewString()
	lead.CreatedAt = a.now().UTC()

	err := a.store.Update(r.Context(), func(db *models.Database) error {
		db.PrependLead(lead)
		return nil
	})
	if err != nil {
		internalError(w, r, "saving lead", err)
		return
	}

	writeJSON(w, http.StatusCreated, StatusResponse{Status: "ok"})
}

// Health reports that the process is serving requests.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
