// Package httpapi exposes the record service as a JSON REST API under
// /api/users.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/afoley587/coding-challenges-2025/user-records/internal/service"
	"github.com/afoley587/coding-challenges-2025/user-records/internal/user"
)

type handler struct {
	svc service.UserService
	log zerolog.Logger
}

type errorBody struct {
	Error string `json:"error"`
}

// NewRouter returns the HTTP handler for the users API.
func NewRouter(svc service.UserService, log zerolog.Logger) http.Handler {
	h := &handler{svc: svc, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(accessLog(log))
	r.Use(middleware.Recoverer)

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Put("/", h.update)
			r.Delete("/", h.delete)
		})
	})
	return r
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.GetAllUsers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.svc.GetUserByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeUser(w, r)
	if !ok {
		return
	}
	// The store assigns identifiers; a client-supplied id is ignored.
	in.ID = 0
	u, err := h.svc.CreateUser(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	details, ok := decodeUser(w, r)
	if !ok {
		return
	}
	u, err := h.svc.UpdateUser(r.Context(), id, details)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail maps NotFound to 404 and every other error to an opaque 500.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var nf *user.NotFoundError
	if errors.As(err, &nf) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: nf.Error()})
		return
	}
	h.log.Error().Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("path", r.URL.Path).
		Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid user id"})
		return 0, false
	}
	return id, true
}

// decodeUser reads a JSON user object.  An empty body or a literal
// null is rejected like malformed JSON.
func decodeUser(w http.ResponseWriter, r *http.Request) (*user.User, bool) {
	var u *user.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil || u == nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return nil, false
	}
	return u, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
