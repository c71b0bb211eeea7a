package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/asharma/portfolio-backend/auth"
	"github.com/asharma/portfolio-backend/database"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSessionSecret = "test-session-secret"

const stubImageBase = "https://img.example.test/portfolio-projects/"

// stubMailer records sends and fails for configured recipients.
type stubMailer struct {
	failTo map[string]bool
	sent   [][]string
}

func (m *stubMailer) Send(ctx context.Context, subject, html string, recipients []string) error {
	for _, r := range recipients {
		if m.failTo[r] {
			return errors.New("mail transport unreachable")
		}
	}
	m.sent = append(m.sent, recipients)
	return nil
}

// stubVerifier answers every MX check the same way.
type stubVerifier struct{ ok bool }

func (v stubVerifier) HasMailExchanger(ctx context.Context, email string) bool { return v.ok }

// stubImages fakes the hosting service, tracking uploads and deletions.
type stubImages struct {
	uploads int
	deleted []string
}

func (s *stubImages) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	s.uploads++
	return fmt.Sprintf("%simg-%d.png", stubImageBase, s.uploads), nil
}

func (s *stubImages) Delete(ctx context.Context, url string) error {
	s.deleted = append(s.deleted, url)
	return nil
}

func (s *stubImages) Owns(url string) bool {
	return strings.HasPrefix(url, stubImageBase)
}

type testEnv struct {
	router   *chi.Mux
	db       database.Database
	mailer   *stubMailer
	images   *stubImages
	verifier *stubVerifier
}

// newTestEnv assembles the full router over an in-memory SQLite database
// with stubbed external collaborators.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(gormDB))
	db := database.New(gormDB)

	env := &testEnv{
		db:       db,
		mailer:   &stubMailer{failTo: map[string]bool{}},
		images:   &stubImages{},
		verifier: &stubVerifier{ok: true},
	}

	deps := HandlerDeps{
		Mailer:     env.mailer,
		Verifier:   env.verifier,
		Images:     env.images,
		OwnerEmail: "owner@example.com",
		Auth: AuthConfig{
			SessionSecret: testSessionSecret,
			FrontendURL:   "http://localhost:3000",
		},
	}

	handlers := initializeHandlers(db, deps)
	guard := newGuardMiddleware([]byte(testSessionSecret))

	router := chi.NewRouter()
	setupRoutes(router, handlers, guard, t.TempDir(), time.Now())
	env.router = router
	return env
}

// sessionCookie mints a session cookie for tests.
func sessionCookie(t *testing.T, email, role string, issuedAt time.Time) *http.Cookie {
	t.Helper()
	token, err := auth.IssueToken([]byte(testSessionSecret), "test-uid", email, "Test User", role, issuedAt)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.SessionCookieName, Value: token}
}

func adminCookie(t *testing.T) *http.Cookie {
	return sessionCookie(t, "admin@example.com", "admin", time.Now())
}

// doJSON performs a request with an optional JSON body and cookies.
func doJSON(t *testing.T, router http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), target))
}

// projectForm builds the multipart payload the admin project form submits.
func projectForm(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", "cover.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func doForm(t *testing.T, router http.Handler, method, path string, body *bytes.Buffer, contentType string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
