package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"miniTwitter/auth"
	"miniTwitter/cache"
	"miniTwitter/domain"
	"miniTwitter/errs"
)

// registerUserRoutes is a helper for registering all User routes.
func (s *Server) registerUserRoutes(r *mux.Router) {
	// Get the caller's own profile.
	r.HandleFunc("/users/me", s.requireAuth(s.handleGetMe)).Methods("GET")

	// Get the profile of a specific user.
	r.HandleFunc("/users/{id:[0-9]+}", s.requireAuth(s.handleGetUser)).Methods("GET")
}

// resultResponse is the bare success envelope shared by all mutating routes.
type resultResponse struct {
	Result bool `json:"result"`
}

// profileResponse is the cached body of the profile routes.
type profileResponse struct {
	Result bool            `json:"result"`
	User   *domain.Profile `json:"user"`
}

// handleGetMe handles the route "GET /api/users/me".
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	s.writeProfile(w, r, user.ID)
}

// handleGetUser handles the route "GET /api/users/{id}".
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	s.writeProfile(w, r, id)
}

// writeProfile serves a user's serialized profile cache-first. Follow
// mutations evict the profiles on both ends of the edge, so a hit here is
// never stale.
func (s *Server) writeProfile(w http.ResponseWriter, r *http.Request, id int) {
	data, err := s.cache.GetOrBuild(cache.UserKey(id), func() ([]byte, error) {
		profile, err := s.us.Profile(id)
		if err != nil {
			return nil, err
		}
		return json.Marshal(&profileResponse{Result: true, User: profile})
	})
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if _, err := w.Write(data); err != nil {
		errs.LogError(r, err)
	}
}
