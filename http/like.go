package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"miniTwitter/auth"
	"miniTwitter/domain"
	"miniTwitter/errs"
)

// registerLikeRoutes is a helper for registering all Like routes.
func (s *Server) registerLikeRoutes(r *mux.Router) {
	// Like a tweet.
	r.HandleFunc("/tweets/{id:[0-9]+}/likes", s.requireAuth(s.handleCreateLike)).Methods("POST")

	// Unlike a previously liked tweet.
	r.HandleFunc("/tweets/{id:[0-9]+}/likes", s.requireAuth(s.handleDeleteLike)).Methods("DELETE")
}

// handleCreateLike handles the route "POST /api/tweets/{id}/likes".
// Re-liking an already liked tweet is a no-op and still succeeds.
func (s *Server) handleCreateLike(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := auth.GetUser(r.Context())
	like := domain.Like{UserID: user.ID, TweetID: id}
	if err := s.ls.Create(&like); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	s.cache.TweetsChanged()

	if err := json.NewEncoder(w).Encode(&resultResponse{Result: true}); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeleteLike handles the route "DELETE /api/tweets/{id}/likes".
func (s *Server) handleDeleteLike(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := auth.GetUser(r.Context())
	like := domain.Like{UserID: user.ID, TweetID: id}
	if err := s.ls.Delete(&like); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	s.cache.TweetsChanged()

	if err := json.NewEncoder(w).Encode(&resultResponse{Result: true}); err != nil {
		errs.LogError(r, err)
	}
}
