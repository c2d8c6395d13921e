package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"seulink/internal/viewer"
)

func (s *Server) handleVCard(w http.ResponseWriter, r *http.Request) {
	res := s.viewer.Lookup(r.Context(), mux.Vars(r)["username"])
	if !res.OK() {
		http.NotFound(w, r)
		return
	}
	p := res.Profile

	body, err := viewer.VCard(p, viewer.PublicURL(s.baseURLFor(r), p.Username))
	if err != nil {
		s.log.WithError(err).Error("Failed to build vcard")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", viewer.VCardContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", viewer.VCardFilename(p)))
	_, _ = w.Write(body)
}

func (s *Server) handleQRCode(w http.ResponseWriter, r *http.Request) {
	res := s.viewer.Lookup(r.Context(), mux.Vars(r)["username"])
	if !res.OK() {
		http.NotFound(w, r)
		return
	}

	size := viewer.DefaultQRSize
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 64 || n > 1024 {
			http.Error(w, "size must be between 64 and 1024", http.StatusBadRequest)
			return
		}
		size = n
	}

	png, err := viewer.QRCode(viewer.PublicURL(s.baseURLFor(r), res.Profile.Username), size)
	if err != nil {
		s.log.WithError(err).Error("Failed to build qr code")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(png)
}
