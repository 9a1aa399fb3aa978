package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"miniTwitter/domain"
	"miniTwitter/errs"
)

// registerMediaRoutes is a helper for registering all Media routes.
func (s *Server) registerMediaRoutes(r *mux.Router) {
	// Upload a media file. The returned media_id can be attached to a
	// tweet at creation time.
	r.HandleFunc("/medias", s.requireAuth(s.handleUploadMedia)).Methods("POST")
}

type mediaCreateResponse struct {
	Result  bool `json:"result"`
	MediaID int  `json:"media_id"`
}

// handleUploadMedia handles the route "POST /api/medias".
// It stores the uploaded file on disk and records its path in an unattached
// media row.
func (s *Server) handleUploadMedia(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(domain.MaxUploadSize); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid multipart body."))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "No file selected."))
		return
	}
	defer file.Close()

	path, err := s.store.Save(file, header.Filename)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	media := domain.Media{FilePath: path}
	if err := s.ms.Create(&media); err != nil {
		// The row is the source of truth; without it the stored file is
		// unreachable, so clean it up.
		if rmErr := s.store.Remove(path); rmErr != nil {
			errs.LogError(r, rmErr)
		}
		errs.ReturnError(w, r, err)
		return
	}

	s.cache.TweetsChanged()

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&mediaCreateResponse{Result: true, MediaID: media.ID}); err != nil {
		errs.LogError(r, err)
	}
}
