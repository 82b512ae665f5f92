package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gazebo-web/forum-server/bundles/auth"
	"github.com/gazebo-web/forum-server/permissions"
	"github.com/gazebo-web/gz-go/v7"
	uuid "github.com/satori/go.uuid"
)

// tokenCookie is the cookie set on login.
const tokenCookie = "token"

// statusRecorder remembers the status written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// accessLog puts a request scoped logger in the request context and logs
// every request once it is served.
func (app *application) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewV4().String()
		logger := gz.NewLogger("req-"+reqID, app.cfg.LogStd, app.cfg.Verbosity)
		ctx := gz.NewContextWithLogger(r.Context(), logger)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.Info(fmt.Sprintf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start)))
	})
}

// requestToken returns the bearer token of the request, falling back to the
// token cookie.
func requestToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			return strings.TrimSpace(h[7:])
		}
		return ""
	}
	if c, err := r.Cookie(tokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// authenticate resolves the identity of the request token and stores it in
// the request context. It runs before the request transaction is opened.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, em := auth.Authenticate(r.Context(), app.db, app.issuer, requestToken(r))
		if em != nil {
			writeFailure(w, r, em)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	})
}

// authorize checks the role of the request identity against the resource and
// action of the route.
func (app *application) authorize(resource string, action permissions.Action, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, em := app.permissions.IsAuthorized(acting(r), resource, action); em != nil {
			writeFailure(w, r, em)
			return
		}
		next.ServeHTTP(w, r)
	})
}
