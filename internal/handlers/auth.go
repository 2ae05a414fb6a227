package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/AnshRaj112/codinglearn-backend/internal/database"
	"github.com/AnshRaj112/codinglearn-backend/internal/middleware"
	"github.com/AnshRaj112/codinglearn-backend/internal/models"
	"github.com/AnshRaj112/codinglearn-backend/internal/services"
	"github.com/AnshRaj112/codinglearn-backend/pkg/utils"
	"github.com/google/uuid"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// dummyHash is verified against when the email is unknown, so a failed
// login costs the same whether or not the account exists.
var dummyHash = strings.Repeat("0", 32) + ":" + strings.Repeat("0", 128)

// API holds the dependencies shared by all handlers.
type API struct {
	store        *database.Serialized
	tokens       *services.TokenService
	maxBodyBytes int64
	now          func() time.Time
}

func NewAPI(store *database.Serialized, tokens *services.TokenService, maxBodyBytes int64) *API {
	return &API{
		store:        store,
		tokens:       tokens,
		maxBodyBytes: maxBodyBytes,
		now:          time.Now,
	}
}

// WithClock replaces the time source used for login metadata and records.
func (a *API) WithClock(now func() time.Time) *API {
	cp := *a
	cp.now = now
	return &cp
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Cohort   string `json:"cohort,omitempty"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and returns a session token.
func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, a.maxBodyBytes, &req) {
		return
	}

	fullName := strings.TrimSpace(req.FullName)
	email := models.NormalizeEmail(req.Email)
	password := strings.TrimSpace(req.Password)
	if fullName == "" || email == "" || password == "" {
		writeError(w, http.StatusBadRequest, "Full name, email and password are required")
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		internalError(w, r, "hashing password", err)
		return
	}

	var profile models.User
	err = a.store.Update(r.Context(), func(db *models.Database) error {
		if db.UserByEmail(email) >= 0 {
			return ErrEmailTaken
		}
		profile = services.CreateProfile(uuid.NewString(), fullName, email, req.Cohort, a.now())
		profile.PasswordHash = hash
		db.Users = append(db.Users, profile)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			writeError(w, http.StatusConflict, "An account already exists with this email")
			return
		}
		internalError(w, r, "registering user", err)
		return
	}

	token, err := a.tokens.Issue(profile.ID)
	if err != nil {
		internalError(w, r, "issuing token", err)
		return
	}

	writeAuth(w, http.StatusCreated, token, profile)
}

// Login checks credentials, records the login and returns a session token.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, a.maxBodyBytes, &req) {
		return
	}

	email := models.NormalizeEmail(req.Email)
	password := strings.TrimSpace(req.Password)
	if email == "" || password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	var userID, storedHash string
	err := a.store.View(r.Context(), func(db *models.Database) error {
		if i := db.UserByEmail(email); i >= 0 {
			userID = db.Users[i].ID
			storedHash = db.Users[i].PasswordHash
		}
		return nil
	})
	if err != nil {
		internalError(w, r, "loading users", err)
		return
	}

	if userID == "" {
		utils.VerifyPassword(password, dummyHash)
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if !utils.VerifyPassword(password, storedHash) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	var updated models.User
	err = a.store.Update(r.Context(), func(db *models.Database) error {
		i := db.UserByID(userID)
		if i < 0 {
			return ErrInvalidCredentials
		}
		updated = services.RecordLogin(db.Users[i], a.now())
		db.Users[i] = updated
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		internalError(w, r, "recording login", err)
		return
	}

	token, err := a.tokens.Issue(updated.ID)
	if err != nil {
		internalError(w, r, "issuing token", err)
		return
	}

	writeAuth(w, http.StatusOK, token, updated)
}

// GetMe returns the authenticated user's profile.
func (a *API) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var user models.User
	err := a.store.View(r.Context(), func(db *models.Database) error {
		i := db.UserByID(userID)
		if i < 0 {
			return ErrUserNotFound
		}
		user = db.Users[i]
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "Account not found")
			return
		}
		internalError(w, r, "loading user", err)
		return
	}

	writeUser(w, http.StatusOK, user)
}
