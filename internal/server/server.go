package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"ticklist/internal/model"
)

// Server wires the HTTP API to a Repository. Handlers translate between the
// wire shapes and the storage layer; they never interpret checklist
// semantics beyond normalization.
type Server struct {
	repo   Repository
	secret []byte
	ttl    time.Duration
	clk    model.Clock
	log    *log.Logger
}

type Option func(*Server)

func WithClock(clk model.Clock) Option {
	return func(s *Server) { s.clk = clk }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.log = l }
}

func New(repo Repository, cfg Config, opts ...Option) (*Server, error) {
	secret := []byte(strings.TrimSpace(cfg.TokenSecret))
	if len(secret) == 0 {
		// No configured secret means sessions do not survive a restart.
		var err error
		secret, err = randomSecret()
		if err != nil {
			return nil, err
		}
	}
	s := &Server{
		repo:   repo,
		secret: secret,
		ttl:    cfg.tokenTTL(),
		clk:    model.SystemClock{},
		log:    log.New(os.Stderr),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/signup", s.handleSignup)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("GET /me", s.withAuth(s.handleMeGet))
	mux.HandleFunc("PUT /me", s.withAuth(s.handleMePut))
	mux.HandleFunc("GET /checklists", s.withAuth(s.handleChecklistsGet))
	mux.HandleFunc("POST /checklists", s.withAuth(s.handleChecklistCreate))
	mux.HandleFunc("PUT /checklists/{checklistId}", s.withAuth(s.handleChecklistPut))
	mux.HandleFunc("DELETE /checklists/{checklistId}", s.withAuth(s.handleChecklistDelete))
	mux.HandleFunc("PUT /checklists", s.withAuth(s.handleChecklistsReplace))
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start))
	})
}

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// withAuth resolves the bearer token to a user id and passes it along.
func (s *Server) withAuth(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		userID, err := verifySession(s.secret, strings.TrimSpace(token))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if _, err := s.repo.UserByID(r.Context(), userID); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next(w, r, userID)
	}
}

// fillItemIDs hands ids to items that arrived without one, before
// normalization would drop them.
func fillItemIDs(c *model.Checklist) {
	for i := range c.Items {
		if strings.TrimSpace(c.Items[i].ID) == "" {
			c.Items[i].ID = uuid.NewString()
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned by signup and login: a bearer token plus the
// account and its current checklists, so clients need no follow-up fetch.
type SessionResponse struct {
	Token      string            `json:"token"`
	User       model.User        `json:"user"`
	Checklists []model.Checklist `json:"checklists"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateEmail(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not create account")
		return
	}
	now := s.clk.Now().UTC()
	u := model.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		SyncCode:     uuid.NewString(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(r.Context(), u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		s.log.Error("signup failed", "err", err)
		writeError(w, http.StatusInternalServerError, "could not create account")
		return
	}
	s.log.Info("account created", "user", u.ID)
	s.respondSession(w, r, http.StatusCreated, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	u, err := s.repo.UserByEmail(r.Context(), req.Email)
	if err != nil || !checkPassword(u.PasswordHash, req.Password) {
		// One message for both unknown email and wrong password.
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	s.respondSession(w, r, http.StatusOK, u)
}

func (s *Server) respondSession(w http.ResponseWriter, r *http.Request, status int, u model.User) {
	token, err := signSession(s.secret, u.ID, s.ttl, s.clk.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	lists, err := s.repo.Checklists(r.Context(), u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load checklists")
		return
	}
	writeJSON(w, status, SessionResponse{Token: token, User: u, Checklists: lists})
}

// MeResponse pairs the account with its checklists so a single call can
// bootstrap a client.
type MeResponse struct {
	User       model.User        `json:"user"`
	Checklists []model.Checklist `json:"checklists"`
}

func (s *Server) handleMeGet(w http.ResponseWriter, r *http.Request, userID string) {
	u, err := s.repo.UserByID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	lists, err := s.repo.Checklists(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load checklists")
		return
	}
	writeJSON(w, http.StatusOK, MeResponse{User: u, Checklists: lists})
}

type updateMeRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (s *Server) handleMePut(w http.ResponseWriter, r *http.Request, userID string) {
	var req updateMeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	u, err := s.repo.UserByID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		if err := validateEmail(*req.Email); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		u.Email = normalizeEmail(*req.Email)
	}
	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		hash, err := hashPassword(*req.Password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not update account")
			return
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = s.clk.Now().UTC()
	if err := s.repo.UpdateUser(r.Context(), u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not update account")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleChecklistsGet(w http.ResponseWriter, r *http.Request, userID string) {
	lists, err := s.repo.Checklists(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load checklists")
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (s *Server) handleChecklistCreate(w http.ResponseWriter, r *http.Request, userID string) {
	var c model.Checklist
	if !decodeBody(w, r, &c) {
		return
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	fillItemIDs(&c)
	c.Normalize()
	if c.Title == "" {
		writeError(w, http.StatusBadRequest, "checklist title is required")
		return
	}
	if err := s.repo.PutChecklist(r.Context(), userID, c); err != nil {
		writeError(w, http.StatusInternalServerError, "could not save checklist")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// handleChecklistPut fully replaces a checklist, item array included.
// Partial patches are not supported.
func (s *Server) handleChecklistPut(w http.ResponseWriter, r *http.Request, userID string) {
	id := r.PathValue("checklistId")
	if _, err := s.repo.ChecklistByID(r.Context(), userID, id); err != nil {
		writeError(w, http.StatusNotFound, "checklist not found")
		return
	}
	var c model.Checklist
	if !decodeBody(w, r, &c) {
		return
	}
	c.ID = id
	fillItemIDs(&c)
	c.Normalize()
	if c.Title == "" {
		writeError(w, http.StatusBadRequest, "checklist title is required")
		return
	}
	if err := s.repo.PutChecklist(r.Context(), userID, c); err != nil {
		writeError(w, http.StatusInternalServerError, "could not save checklist")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleChecklistDelete(w http.ResponseWriter, r *http.Request, userID string) {
	id := r.PathValue("checklistId")
	if err := s.repo.DeleteChecklist(r.Context(), userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "checklist not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not delete checklist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleChecklistsReplace swaps the whole collection in one call, used by
// the CLI sync save path.
func (s *Server) handleChecklistsReplace(w http.ResponseWriter, r *http.Request, userID string) {
	var lists []model.Checklist
	if !decodeBody(w, r, &lists) {
		return
	}
	for i := range lists {
		if lists[i].ID == "" {
			lists[i].ID = uuid.NewString()
		}
		fillItemIDs(&lists[i])
	}
	lists = model.NormalizeChecklists(lists)
	if err := s.repo.ReplaceChecklists(r.Context(), userID, lists); err != nil {
		writeError(w, http.StatusInternalServerError, "could not save checklists")
		return
	}
	writeJSON(w, http.StatusOK, lists)
}
