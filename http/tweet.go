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

// registerTweetRoutes is a helper for registering all Tweet routes.
func (s *Server) registerTweetRoutes(r *mux.Router) {
	// Create a new tweet, optionally claiming pre-uploaded media by ID.
	r.HandleFunc("/tweets", s.requireAuth(s.handleCreateTweet)).Methods("POST")

	// Get the feed, cache-first.
	r.HandleFunc("/tweets", s.requireAuth(s.handleGetFeed)).Methods("GET")

	// Delete an existing tweet, if the caller is its author.
	r.HandleFunc("/tweets/{id:[0-9]+}", s.requireAuth(s.handleDeleteTweet)).Methods("DELETE")
}

// tweetCreateRequest is the json body of POST /api/tweets.
type tweetCreateRequest struct {
	TweetData     string `json:"tweet_data"`
	TweetMediaIDs []int  `json:"tweet_media_ids"`
}

type tweetCreateResponse struct {
	Result  bool `json:"result"`
	TweetID int  `json:"tweet_id"`
}

// feedResponse is the cached body of GET /api/tweets.
type feedResponse struct {
	Result bool               `json:"result"`
	Tweets []domain.FeedTweet `json:"tweets"`
}

// handleCreateTweet handles the route "POST /api/tweets".
// It creates a tweet authored by the caller, links any supplied media IDs to
// it, and evicts the feed cache.
func (s *Server) handleCreateTweet(w http.ResponseWriter, r *http.Request) {
	var req tweetCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := auth.GetUser(r.Context())
	tweet := domain.Tweet{
		AuthorID: user.ID,
		Content:  req.TweetData,
	}
	if err := s.ts.Create(&tweet, req.TweetMediaIDs); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	s.cache.TweetsChanged()

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&tweetCreateResponse{Result: true, TweetID: tweet.ID}); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeleteTweet handles the route "DELETE /api/tweets/{id}".
// The crud layer folds the author check into the delete predicate, so a
// foreign tweet and a missing tweet both come back as the same 404.
func (s *Server) handleDeleteTweet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	user := auth.GetUser(r.Context())
	tweet := domain.Tweet{ID: id, AuthorID: user.ID}
	if err := s.ts.Delete(&tweet); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// The rows are gone; remove the files they pointed at. A failed file
	// removal only leaves an orphan on disk, so it's logged, not returned.
	for _, m := range tweet.Media {
		if err := s.store.Remove(m.FilePath); err != nil {
			errs.LogError(r, err)
		}
	}

	s.cache.TweetsChanged()

	if err := json.NewEncoder(w).Encode(&resultResponse{Result: true}); err != nil {
		errs.LogError(r, err)
	}
}

// handleGetFeed handles the route "GET /api/tweets".
// The serialized feed is cached whole under a single key; a miss rebuilds it
// from the database under the cache's generation guard.
func (s *Server) handleGetFeed(w http.ResponseWriter, r *http.Request) {
	data, err := s.cache.GetOrBuild(cache.FeedKey, func() ([]byte, error) {
		tweets, err := s.ts.Feed()
		if err != nil {
			return nil, err
		}
		return json.Marshal(&feedResponse{Result: true, Tweets: tweets})
	})
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if _, err := w.Write(data); err != nil {
		errs.LogError(r, err)
	}
}
