package hydratest

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/hydrakit/logger"
)

// DefaultPageSize matches API Platform's default itemsPerPage.
const DefaultPageSize = 30

// Request is a request as the server received it.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
}

// Option configures a Server.
type Option func(*Server)

// WithCollection declares the collection served at "/" + name. Properties
// listed in required must be present and non-blank on create and replace.
func WithCollection(name string, required ...string) Option {
	return func(s *Server) { s.store.define(name, "", required) }
}

// WithTypedCollection is WithCollection with an explicit @type.
func WithTypedCollection(name, typ string, required ...string) Option {
	return func(s *Server) { s.store.define(name, typ, required) }
}

// WithResources seeds a collection, declaring it when needed. Ids are
// assigned in order starting at 1.
func WithResources(name string, items ...Resource) Option {
	return func(s *Server) {
		s.store.define(name, "", nil)
		c, _ := s.store.lookup(name)
		for _, it := range items {
			s.store.insert(c, it)
		}
	}
}

// WithJWTSecret requires every request to carry a bearer JWT signed with
// secret using HS256.
func WithJWTSecret(secret []byte) Option {
	return func(s *Server) { s.secret = secret }
}

// WithPageSize sets the itemsPerPage used when a request sends none.
func WithPageSize(n int) Option {
	return func(s *Server) { s.pageSize = n }
}

// WithLogger sets the request logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// Server is an in-memory API Platform fake speaking Hydra/JSON-LD. It honors
// pagination, order[], exact filters, properties[], merge-patch updates and
// reports 404, 415, 422 and optionally 401 the way API Platform does.
type Server struct {
	engine   *gin.Engine
	http     *httptest.Server
	store    *store
	secret   []byte
	pageSize int
	log      *logger.Logger

	mu       sync.Mutex
	requests []Request
}

// New creates a Server without starting it. Use Handler to mount it, or
// Start to listen on a loopback port.
func New(opts ...Option) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		engine:   gin.New(),
		store:    newStore(),
		pageSize: DefaultPageSize,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("hydratest")

	s.engine.Use(recovery(s.log), requestID(), s.recorder(), requestLogger(s.log))
	if len(s.secret) > 0 {
		s.engine.Use(bearerAuth(s.secret))
	}
	s.routes()
	return s
}

// Start creates a Server listening on a loopback port.
func Start(opts ...Option) *Server {
	s := New(opts...)
	s.http = httptest.NewServer(s.engine)
	return s
}

// URL returns the base URL of a started server.
func (s *Server) URL() string {
	if s.http == nil {
		return ""
	}
	return s.http.URL
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Close shuts a started server down.
func (s *Server) Close() {
	if s.http != nil {
		s.http.Close()
	}
}

// Token signs an HS256 JWT for subject that expires after ttl. A negative ttl
// yields an already expired token.
func (s *Server) Token(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Requests returns every request handled so far, oldest first.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Resource returns a copy of a stored resource.
func (s *Server) Resource(collection string, id int) (Resource, bool) {
	c, ok := s.store.lookup(collection)
	if !ok {
		return nil, false
	}
	return s.store.get(c, id)
}

func (s *Server) record(r Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r)
}
