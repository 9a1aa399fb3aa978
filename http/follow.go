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

// registerFollowRoutes is a helper for registering all Follow routes.
func (s *Server) registerFollowRoutes(r *mux.Router) {
	r.HandleFunc("/users/{id:[0-9]+}/follow", s.requireAuth(s.handleCreateFollow)).Methods("POST")
	r.HandleFunc("/users/{id:[0-9]+}/follow", s.requireAuth(s.handleDeleteFollow)).Methods("DELETE")
}

// handleCreateFollow handles the route "POST /api/users/{id}/follow".
// Following an already followed user is a no-op; following yourself is
// rejected. Both involved profiles drop out of the cache.
func (s *Server) handleCreateFollow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	follower := auth.GetUser(r.Context())
	follow := domain.Follow{FollowerID: follower.ID, FollowedID: id}
	if err := s.fs.Create(&follow); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	s.cache.FollowChanged(follower.ID, id)

	if err := json.NewEncoder(w).Encode(&resultResponse{Result: true}); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeleteFollow handles the route "DELETE /api/users/{id}/follow".
func (s *Server) handleDeleteFollow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	follower := auth.GetUser(r.Context())
	follow := domain.Follow{FollowerID: follower.ID, FollowedID: id}
	if err := s.fs.Delete(&follow); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	s.cache.FollowChanged(follower.ID, id)

	if err := json.NewEncoder(w).Encode(&resultResponse{Result: true}); err != nil {
		errs.LogError(r, err)
	}
}
