package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"seulink/internal/domain"
	"seulink/internal/editor"
	"seulink/internal/scraper"
	"seulink/internal/store"
	"seulink/internal/viewer"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps domain and backend errors to a status code.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	var serr *store.Error
	switch {
	case errors.Is(err, editor.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, editor.ErrUsernameRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &serr):
		status := serr.Status
		if status < 400 {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, errorResponse{Error: serr.Message, Code: serr.Code})
	default:
		s.log.WithError(err).Error("Unhandled API error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleGetMyProfile(w http.ResponseWriter, r *http.Request) {
	account, _ := accountFrom(r.Context())
	d, err := s.editor.Load(r.Context(), account)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d.Profile())
}

// handlePutMyProfile replaces the working copy with the body and saves it.
func (s *Server) handlePutMyProfile(w http.ResponseWriter, r *http.Request) {
	var p domain.UserProfile
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	account, _ := accountFrom(ctx)
	d, err := s.drafts.Get(ctx, account)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	d.Replace(p)

	saved, err := s.editor.Save(ctx, d)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleGetPublicProfile(w http.ResponseWriter, r *http.Request) {
	res := s.viewer.Lookup(r.Context(), mux.Vars(r)["username"])
	switch res.Status {
	case viewer.Found:
		writeJSON(w, http.StatusOK, res.Profile)
	case viewer.NotFound:
		writeError(w, http.StatusNotFound, "profile not found")
	default:
		writeError(w, http.StatusBadGateway, "profile lookup failed")
	}
}

func (s *Server) handleLinkPreview(w http.ResponseWriter, r *http.Request) {
	md, err := s.scraper.ScrapeMetadata(r.Context(), r.URL.Query().Get("url"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, md)
	case errors.Is(err, scraper.ErrInvalidURL), errors.Is(err, scraper.ErrBlockedHost):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, scraper.ErrDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

type healthResponse struct {
	Status  string     `json:"status"`
	Backend store.Mode `json:"backend"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Backend: s.client.Mode()})
}
