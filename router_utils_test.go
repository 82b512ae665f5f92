package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gazebo-web/forum-server/bundles/users"
	"github.com/gazebo-web/forum-server/permissions"
	"github.com/gazebo-web/forum-server/testhelpers"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test utilities

const testJWTSecret = "c2VjcmV0LWZvci10ZXN0cw=="

// testServer bundles the router under test and its database.
type testServer struct {
	app    *application
	db     *gorm.DB
	router http.Handler
}

// response is a decoded result envelope.
type response struct {
	code int
	body map[string]interface{}
	rec  *httptest.ResponseRecorder
}

func (r response) message() string {
	s, _ := r.body["message"].(string)
	return s
}

func (r response) object(key string) map[string]interface{} {
	m, _ := r.body[key].(map[string]interface{})
	return m
}

func (r response) list(key string) []interface{} {
	l, _ := r.body[key].([]interface{})
	return l
}

// newTestServer creates an application backed by an in memory sqlite
// database and an in memory policy.
func newTestServer(t *testing.T) *testServer {
	db := testhelpers.NewSQLiteDB(t)
	perms, err := permissions.NewInMemory()
	require.NoError(t, err)
	cfg := Config{
		JWTSecret: testJWTSecret,
		TokenTTL:  time.Hour,
		Verbosity: gz.VerbosityWarning,
	}
	app, err := newApplication(cfg, db, perms, gz.NewLoggerNoRollbar("test", gz.VerbosityWarning))
	require.NoError(t, err)
	return &testServer{app: app, db: db, router: app.newRouter()}
}

// do sends a JSON request. A nil body sends no body.
func (s *testServer) do(t *testing.T, method, uri, token string, body interface{}) response {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, apiPrefix+uri, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.serve(t, req)
}

// doForm sends an url encoded form.
func (s *testServer) doForm(t *testing.T, method, uri, token string, values url.Values) response {
	req := httptest.NewRequest(method, apiPrefix+uri, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.serve(t, req)
}

func (s *testServer) serve(t *testing.T, req *http.Request) response {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	res := response{code: rec.Code, rec: rec}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res.body), rec.Body.String())
		assert.Equal(t, float64(rec.Code), res.body["statusCode"])
	}
	return res
}

// register creates a user through the API and returns its id.
func (s *testServer) register(t *testing.T, username, password string) uint {
	res := s.do(t, "POST", "/users", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusCreated, res.code, res.message())
	return uint(res.object("addedUser")["id"].(float64))
}

// login returns a token for the given credentials.
func (s *testServer) login(t *testing.T, username, password string) string {
	res := s.do(t, "POST", "/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusCreated, res.code, res.message())
	token, _ := res.body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// createThread creates a thread through the API and returns its id and slug.
func (s *testServer) createThread(t *testing.T, token, title, body string) (uint, string) {
	res := s.do(t, "POST", "/threads", token, map[string]string{"title": title, "body": body})
	require.Equal(t, http.StatusCreated, res.code, res.message())
	added := res.object("addedThread")
	return uint(added["id"].(float64)), added["slug"].(string)
}

// createAdmin stores an admin account and returns its token.
func (s *testServer) createAdmin(t *testing.T, username string) (*users.User, string) {
	admin := testhelpers.CreateAdmin(t, s.db, username)
	return admin, s.login(t, username, "secret-"+username)
}

// newRequest creates a request without body for an API uri.
func newRequest(method, uri string) *http.Request {
	return httptest.NewRequest(method, apiPrefix+uri, nil)
}

func withBody(req *http.Request, body string) *http.Request {
	req.Body = io.NopCloser(strings.NewReader(body))
	req.ContentLength = int64(len(body))
	return req
}

func uriOf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
