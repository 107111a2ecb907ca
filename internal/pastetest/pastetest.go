// Package pastetest runs in-process fakes of the paste backends upaste talks to.
//
// A Hastebin server answers POST /documents with {"key": "<id>"} and serves
// content under /raw/<id>. A PasteRs server answers POST / with the paste URL
// as plain text and serves content under /<id>. Clients built with
// Server.Client reach the fake whatever host their roots name, so tests can
// use the real public roots (https://paste.rs) and have them detected as such.
package pastetest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/tombowditch/upaste/internal/store"
	"github.com/tombowditch/upaste/internal/util/randutil"
)

// Flavor selects which backend a Server imitates.
type Flavor int

const (
	// Hastebin answers uploads with a JSON key.
	Hastebin Flavor = iota
	// PasteRs answers uploads with the paste URL as plain text.
	PasteRs
)

const (
	// DefaultPasteRsURL is the public URL a PasteRs fake puts in its responses.
	DefaultPasteRsURL = "https://paste.rs"

	keyLength    = 10
	maxCreateTry = 10
)

// Server is a running fake backend.
type Server struct {
	*httptest.Server

	Store *store.MemoryStore

	flavor    Flavor
	publicURL string

	mu       sync.Mutex
	keys     []string
	failWith int
	requests []string
}

// Option configures a Server.
type Option func(*Server)

// WithKeys makes the server hand out the given keys, in order, before
// falling back to random ones.
func WithKeys(keys ...string) Option {
	return func(s *Server) {
		s.keys = append(s.keys, keys...)
	}
}

// WithPublicURL sets the URL a PasteRs fake reports pastes under.
func WithPublicURL(u string) Option {
	return func(s *Server) {
		s.publicURL = strings.TrimSuffix(u, "/")
	}
}

// New starts a fake backend and stops it when the test ends.
func New(t testing.TB, flavor Flavor, opts ...Option) *Server {
	t.Helper()

	s := &Server{
		Store:     store.NewMemory(),
		flavor:    flavor,
		publicURL: DefaultPasteRsURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Server = httptest.NewServer(NewHandler(s))
	t.Cleanup(s.Close)
	return s
}

// FailWith makes every following request answer with status. Zero restores
// normal behavior.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = status
}

// Requests returns "METHOD URL" for every request sent through Client, with
// the URL as the client addressed it.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Client returns an HTTP client that delivers every request to this server.
func (s *Server) Client() *http.Client {
	target, _ := url.Parse(s.URL)
	return &http.Client{
		Transport: &rewriteTransport{target: target, server: s, base: s.Server.Client().Transport},
	}
}

// NewHandler creates an HTTP handler with the routes of the server's flavor.
func NewHandler(s *Server) http.Handler {
	r := httprouter.New()
	switch s.flavor {
	case PasteRs:
		r.POST("/", s.createPlain)
		r.GET("/:key", s.getRaw)
	default:
		r.POST("/documents", s.createKeyed)
		r.GET("/*path", s.getHastebin)
	}
	return s.failing(r)
}

func (s *Server) failing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status := s.failWith
		s.mu.Unlock()
		if status != 0 {
			w.Header().Set("Content-Type", "text/plain")
			w.WriteHeader(status)
			w.Write([]byte(`{"key":"should-not-be-read"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) createKeyed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, ok := s.create(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"key": id})
}

func (s *Server) createPlain(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	id, ok := s.create(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(s.publicURL + "/" + id))
}

func (s *Server) getHastebin(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p := strings.TrimPrefix(ps.ByName("path"), "/")
	switch {
	case strings.HasPrefix(p, "raw/"):
		s.writePaste(w, strings.TrimPrefix(p, "raw/"))
	case strings.HasPrefix(p, "documents/"):
		id := strings.TrimPrefix(p, "documents/")
		val, err := s.Store.Get(id)
		if err != nil {
			notFound(w)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"key": id, "data": val})
	case p == "" || strings.Contains(p, "/"):
		notFound(w)
	default:
		s.writePaste(w, p)
	}
}

func (s *Server) getRaw(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s.writePaste(w, ps.ByName("key"))
}

func (s *Server) writePaste(w http.ResponseWriter, id string) {
	val, err := s.Store.Get(id)
	if err != nil {
		notFound(w)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(val))
}

// create stores the request body under a fresh key and reports whether a
// response still needs to be written.
func (s *Server) create(w http.ResponseWriter, r *http.Request) (string, bool) {
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "error reading body", http.StatusBadRequest)
		return "", false
	}

	var ttl time.Duration
	if v := r.URL.Query().Get("ttl_seconds"); v != "" {
		secs, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			http.Error(w, "invalid ttl_seconds", http.StatusBadRequest)
			return "", false
		}
		ttl = time.Duration(secs) * time.Second
	}

	for tried := 0; tried < maxCreateTry; tried++ {
		id := s.nextKey()
		ok, err := s.Store.Create(id, body, ttl)
		if err != nil {
			slog.Error("store create failed", "error", err)
			http.Error(w, "error", http.StatusInternalServerError)
			return "", false
		}
		if ok {
			slog.Info("created paste", "identifier", id, "bytes", len(body), "ttl", ttl)
			return id, true
		}
		// Collision, try again
	}

	http.Error(w, "could not generate identifier", http.StatusInternalServerError)
	return "", false
}

func (s *Server) nextKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.keys) > 0 {
		id := s.keys[0]
		s.keys = s.keys[1:]
		return id
	}
	return randutil.RandKey(keyLength)
}

func notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte("not found or expired"))
}

type rewriteTransport struct {
	target *url.URL
	server *Server
	base   http.RoundTripper
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.server.mu.Lock()
	t.server.requests = append(t.server.requests, req.Method+" "+req.URL.String())
	t.server.mu.Unlock()

	out := req.Clone(req.Context())
	out.URL.Scheme = t.target.Scheme
	out.URL.Host = t.target.Host
	out.Host = t.target.Host
	return t.base.RoundTrip(out)
}
