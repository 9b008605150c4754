package filter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/webshield/webshield/internal/config"
	"github.com/webshield/webshield/internal/db/models"
	"github.com/webshield/webshield/internal/web/middleware/auth"
	websess "github.com/webshield/webshield/internal/web/session"
)

// testStorage is a minimal in-memory implementation of storage.Storage for tests.
type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.Storage = (*testStorage)(nil)

func newTestStorage() *testStorage {
	return &testStorage{data: map[string][]byte{}}
}

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	if !ok {
		return nil, errors.New("key not found")
	}

	return val, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = val

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = map[string][]byte{}

	return nil
}

func (s *testStorage) Close() error { return nil }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open sqlite in-memory db")

	require.NoError(t, db.AutoMigrate(&models.UserSettings{}))

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
	}
}

// newTestApp builds a fiber app with the auth middleware and the filter
// handler, returning a valid session token for user 1.
func newTestApp(t *testing.T, db *gorm.DB) (*fiber.App, string) {
	t.Helper()

	websess.Init(newTestStorage())

	token := websess.GenerateSessionID()
	data := websess.Data{UserID: 1, Email: "user@example.com"}
	require.NoError(t, data.Write(token, time.Minute))

	app := fiber.New()
	app.Use(auth.New())

	require.NoError(t, Handler.Init(app, newTestConfig(), db))

	return app, token
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func doRequest(t *testing.T, app *fiber.App, method, target, token, body string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))

	return resp.StatusCode, env
}

func TestUnauthenticated(t *testing.T) {
	app, _ := newTestApp(t, newTestDB(t))

	status, env := doRequest(t, app, fiber.MethodGet, "/api/filter/whitelist", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
}

func TestInvalidListKey(t *testing.T) {
	app, token := newTestApp(t, newTestDB(t))

	status, env := doRequest(t, app, fiber.MethodGet, "/api/filter/greylist", token, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, env.Success)
}

func TestWhitelistFlow(t *testing.T) {
	app, token := newTestApp(t, newTestDB(t))

	// empty list for a fresh user
	status, env := doRequest(t, app, fiber.MethodGet, "/api/filter/whitelist", token, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, env.Success)
	assert.JSONEq(t, `[]`, string(env.Data))

	// add an entry, normalized
	status, env = doRequest(t, app, fiber.MethodPost, "/api/filter/whitelist", token, `{"url":"  BadSite.com "}`)
	require.Equal(t, fiber.StatusOK, status)

	var entry struct {
		ID     string `json:"id"`
		URL    string `json:"url"`
		Visits int    `json:"visits"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &entry))
	assert.Equal(t, "badsite.com", entry.URL)
	assert.Zero(t, entry.Visits)
	assert.NotEmpty(t, entry.ID)

	// idempotent re-add
	status, env = doRequest(t, app, fiber.MethodPost, "/api/filter/whitelist", token, `{"url":"badsite.com"}`)
	require.Equal(t, fiber.StatusOK, status)

	var again struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &again))
	assert.Equal(t, entry.ID, again.ID)

	// list now holds exactly that one entry
	status, env = doRequest(t, app, fiber.MethodGet, "/api/filter/whitelist", token, "")
	require.Equal(t, fiber.StatusOK, status)

	var items []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 1)

	// delete unknown id
	status, _ = doRequest(t, app, fiber.MethodDelete, "/api/filter/whitelist/nope", token, "")
	assert.Equal(t, fiber.StatusNotFound, status)

	// delete the entry
	status, env = doRequest(t, app, fiber.MethodDelete, "/api/filter/whitelist/"+entry.ID, token, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `true`, string(env.Data))

	status, env = doRequest(t, app, fiber.MethodGet, "/api/filter/whitelist", token, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestAddRequiresURL(t *testing.T) {
	app, token := newTestApp(t, newTestDB(t))

	status, env := doRequest(t, app, fiber.MethodPost, "/api/filter/blacklist", token, `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, env.Success)
}
