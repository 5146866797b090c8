// Package api exposes the bug service as JSON over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"bugtracker/internal/bugs"
)

// maxBodyBytes caps request bodies. Bug payloads are a handful of short strings.
const maxBodyBytes = 1 << 20

// Handler routes bug tracker requests to a BugService.
//
//	GET    /ping       liveness check
//	POST   /bugs       create
//	GET    /bugs       list
//	GET    /bugs/{id}  fetch
//	PUT    /bugs/{id}  partial update
//	DELETE /bugs/{id}  delete
//
// Anything else is a JSON 404.
type Handler struct {
	service *bugs.BugService
	logger  bugs.Logger
	ids     RequestIDs
	mux     *http.ServeMux
	chain   http.Handler
}

// NewHandler creates a Handler. ids supplies request ids for requests
// that arrive without an X-Request-ID header.
func NewHandler(service *bugs.BugService, logger bugs.Logger, ids RequestIDs) *Handler {
	h := &Handler{
		service: service,
		logger:  logger,
		ids:     ids,
		mux:     http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /ping", h.ping)
	h.mux.HandleFunc("POST /bugs", h.createBug)
	h.mux.HandleFunc("GET /bugs", h.listBugs)
	h.mux.HandleFunc("GET /bugs/{id}", h.getBug)
	h.mux.HandleFunc("PUT /bugs/{id}", h.updateBug)
	h.mux.HandleFunc("DELETE /bugs/{id}", h.deleteBug)
	h.mux.HandleFunc("/", h.notFound)

	h.chain = h.withRequestLog(h.mux)
	return h
}

// ServeHTTP handles a single request, tagging it with a request id and
// logging its outcome.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.chain.ServeHTTP(w, r)
}

type messageResponse struct {
	Message string `json:"message"`
}

type deleteResponse struct {
	Message string    `json:"message"`
	Bug     *bugs.Bug `json:"bug"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, messageResponse{Message: "pong"})
}

func (h *Handler) createBug(w http.ResponseWriter, r *http.Request) {
	var nb bugs.NewBug
	if err := decodeBody(w, r, &nb); err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	bug, err := h.service.Create(r.Context(), nb)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, bug)
}

func (h *Handler) listBugs(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, list)
}

func (h *Handler) getBug(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, r, bugs.ErrNotFound)
		return
	}

	bug, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, bug)
}

// updateBug applies a partial update even though the verb is PUT; clients
// rely on sending only the fields they want to change.
func (h *Handler) updateBug(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, r, bugs.ErrNotFound)
		return
	}

	var update bugs.BugUpdate
	if err := decodeBody(w, r, &update); err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	bug, err := h.service.Update(r.Context(), id, update)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, bug)
}

func (h *Handler) deleteBug(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, r, bugs.ErrNotFound)
		return
	}

	bug, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, deleteResponse{Message: "Bug removed", Bug: bug})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "route not found"})
}

// writeError maps service errors onto status codes. Anything that is not a
// domain error is logged and hidden behind a 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, bugs.ErrValidation):
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, bugs.ErrNotFound):
		h.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		h.logger.Error("request failed", "request_id", requestID(r.Context()), "error", err)
		h.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// pathID parses the {id} wildcard as a number. Integral forms such as "01",
// "1.0" and "1e0" name bug 1; anything that is not a whole number in int64
// range matches no bug.
func pathID(r *http.Request) (int64, bool) {
	f, err := strconv.ParseFloat(r.PathValue("id"), 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// decodeBody decodes a single JSON object from the request body into v.
// An empty body decodes as an empty object; trailing data is rejected.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("invalid JSON body: unexpected data after object")
	}
	return nil
}

// writeJSON writes v with the given status. The status line is already out
// by the time encoding can fail, so failures are only logged.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("writing response", "request_id", requestID(r.Context()), "error", err)
	}
}
