package http

import (
	"log"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"miniTwitter/auth"
	"miniTwitter/cache"
	"miniTwitter/domain"
	"miniTwitter/errs"
)

// Server provides the http functionality of this app, namely routing,
// request handling, and middleware. It resolves the caller from their api
// key before handing things over to one of the crud services, and owns the
// cache evictions that follow every feed-visible mutation.
type Server struct {
	router *mux.Router
	us     domain.UserService
	ts     domain.TweetService
	fs     domain.FollowService
	ls     domain.LikeService
	ms     domain.MediaService
	store  domain.MediaStore
	cache  *cache.Cache
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the services passed in.
// Uploaded files are served statically from uploadsDir under /uploads/.
func NewServer(
	us domain.UserService,
	ts domain.TweetService,
	fs domain.FollowService,
	ls domain.LikeService,
	ms domain.MediaService,
	store domain.MediaStore,
	c *cache.Cache,
	uploadsDir string,
) *Server {

	s := &Server{
		router: mux.NewRouter(),
		us:     us,
		ts:     ts,
		fs:     fs,
		ls:     ls,
		ms:     ms,
		store:  store,
		cache:  c,
	}

	// Middleware that runs on every request, including static files.
	s.router.Use(recoverRequest, tagRequest, logRequest)

	// The api routes additionally get the JSON content type and the
	// api-key resolution.
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(setContentTypeJSON, s.checkUser)

	s.registerTweetRoutes(api)
	s.registerLikeRoutes(api)
	s.registerFollowRoutes(api)
	s.registerUserRoutes(api)
	s.registerMediaRoutes(api)

	// Serve the uploaded media files from the static uploads directory.
	s.router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))

	return s
}

// ServeHTTP makes the Server usable as a plain http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) {
	log.Fatal(http.ListenAndServe(":"+strconv.Itoa(port), s.router))
}

// The checkUser middleware resolves the caller through the api-key header
// and stores them in the request context. Requests without a known key pass
// through with no user; requireAuth decides whether that's acceptable.
func (s *Server) checkUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get("api-key")
		if apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.us.ByApiKey(apiKey)
		if err != nil {
			if errs.ErrorCode(err) != errs.ENOTFOUND {
				errs.ReturnError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		r = r.WithContext(auth.SetUser(r.Context(), user))
		next.ServeHTTP(w, r)
	})
}

// requireAuth fails closed with a 403 if checkUser did not resolve a caller.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUser(r.Context()) == nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "Invalid API key"))
			return
		}
		next(w, r)
	}
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// The tagRequest middleware assigns every request an id, reusing the
// client's X-Request-ID if it sent one.
func tagRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter so the logging middleware can
// capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// The logRequest middleware logs one line per request.
func logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)
		log.Printf("request_id=%s method=%s path=%s status=%d duration=%s",
			w.Header().Get("X-Request-ID"), r.Method, r.URL.Path, sr.status, time.Since(start))
	})
}

// The recoverRequest middleware turns a handler panic into a 500 instead of
// tearing down the connection.
func recoverRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic recovered method=%s path=%s panic=%v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
