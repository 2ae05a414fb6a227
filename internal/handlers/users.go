package handlers

import (
	"errors"
	"net/http"

	"github.com/AnshRaj112/codinglearn-backend/internal/middleware"
	"github.com/AnshRaj112/codinglearn-backend/internal/models"
	"github.com/AnshRaj112/codinglearn-backend/internal/services"
	"github.com/go-chi/chi/v5"
)

// UpdateMeRequest is the body of PATCH /api/users/me.
type UpdateMeRequest struct {
	User *models.PartialUser `json:"user"`
}

// AddTaskRequest is the body of POST /api/users/me/tasks.
type AddTaskRequest struct {
	Label    string `json:"label"`
	Category string `json:"category,omitempty"`
}

// UpdateMe merges a partial profile into the authenticated user's record.
func (a *API) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req UpdateMeRequest
	if !decodeJSON(w, r, a.maxBodyBytes, &req) {
		return
	}
	if req.User == nil {
		writeError(w, http.StatusBadRequest, "No update provided")
		return
	}
	if err := services.ValidateUpdate(*req.User); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a.updateSelf(w, r, func(u models.User) (models.User, error) {
		return services.MergeProfile(u, *req.User), nil
	})
}

// AddTask appends a custom task to the authenticated user's dashboard.
func (a *API) AddTask(w http.ResponseWriter, r *http.Request) {
	var req AddTaskRequest
	if !decodeJSON(w, r, a.maxBodyBytes, &req) {
		return
	}

	a.updateSelfStatus(w, r, http.StatusCreated, func(u models.User) (models.User, error) {
		return services.AddTask(u, req.Label, req.Category)
	})
}

// ToggleTask flips completion of one task.
func (a *API) ToggleTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	a.updateSelf(w, r, func(u models.User) (models.User, error) {
		return services.ToggleTask(u, taskID), nil
	})
}

// RemoveTask deletes one task; locked tasks are kept.
func (a *API) RemoveTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	a.updateSelf(w, r, func(u models.User) (models.User, error) {
		return services.RemoveTask(u, taskID), nil
	})
}

func (a *API) updateSelf(w http.ResponseWriter, r *http.Request, apply func(models.User) (models.User, error)) {
	a.updateSelfStatus(w, r, http.StatusOK, apply)
}

// updateSelfStatus runs apply on the caller's record inside one store
// transaction and responds with the sanitized result. An error from apply
// aborts the transaction; validation errors map to 400.
func (a *API) updateSelfStatus(w http.ResponseWriter, r *http.Request, status int, apply func(models.User) (models.User, error)) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var updated models.User
	err := a.store.Update(r.Context(), func(db *models.Database) error {
		i := db.UserByID(userID)
		if i < 0 {
			return ErrUserNotFound
		}
		u, err := apply(db.Users[i])
		if err != nil {
			return err
		}
		updated = u
		db.Users[i] = updated
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "Account not found")
			return
		}
		if errors.Is(err, services.ErrEmptyLabel) {
			writeError(w, http.StatusBadRequest, services.ErrEmptyLabel.Error())
			return
		}
		internalError(w, r, "updating user", err)
		return
	}

	writeUser(w, status, updated)
}
