package mockserver

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/spigell/skanjo/internal/skanjo"
)

type ctxKey struct{}

func apiKeyFrom(ctx context.Context) string {
	key, _ := ctx.Value(ctxKey{}).(string)
	return key
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || s.opts.AdminUsername == "" ||
			subtle.ConstantTimeCompare([]byte(user), []byte(s.opts.AdminUsername)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(s.opts.AdminPassword)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="skanjo-admin"`)
			writeMessage(w, http.StatusUnauthorized, "Invalid admin credentials")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(r.Header.Get("X-API-Key"))

		s.mu.Lock()
		_, known := s.keys[key]
		s.mu.Unlock()

		if key == "" || !known {
			writeMessage(w, http.StatusUnauthorized, "Invalid API key")
			return
		}
		if !s.limiter.allow(key) {
			writeMessage(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, key)))
	})
}

// recordCalls appends every keyed call to the caller's analytics log.
func (s *Server) recordCalls(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Unreadable body")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		var out bytes.Buffer
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Tee(&out)

		next.ServeHTTP(ww, r)

		// reading the log must not show up in itself
		if r.URL.Path == "/analytics" {
			return
		}

		record := skanjo.AnalyticsRecord{
			Endpoint:     r.URL.Path,
			RequestData:  decodeLoose(body),
			ResponseData: decodeLoose(out.Bytes()),
			StatusCode:   ww.Status(),
			Timestamp:    s.now().UTC().Format("2006-01-02T15:04:05.999999"),
		}

		key := apiKeyFrom(r.Context())
		s.mu.Lock()
		s.calls[key] = append(s.calls[key], record)
		s.mu.Unlock()
	})
}

func decodeLoose(data []byte) any {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return string(data)
	}
	return v
}

type keyLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newKeyLimiter(rps float64, burst int) *keyLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &keyLimiter{
		limit:    rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *keyLimiter) allow(key string) bool {
	if l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}
	return lim.Allow()
}
