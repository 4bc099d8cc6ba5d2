// Package features provides shared test utilities for UI feature tests.
package features

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/launchdash/internal/dataset"
	"github.com/leapstack-labs/launchdash/internal/testutil"
	"github.com/leapstack-labs/launchdash/internal/ui/notifier"
	"github.com/leapstack-labs/launchdash/internal/ui/session"
	"github.com/leapstack-labs/launchdash/pkg/core"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Holder       *dataset.Holder
	Registry     *session.Registry
	Dispatcher   *session.Dispatcher
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
	Logger       *slog.Logger
}

// SetupTestFixture creates a fixture publishing a dataset of records.
// Without records it uses testutil.SpaceXRecords.
func SetupTestFixture(t *testing.T, records ...core.LaunchRecord) *TestFixture {
	t.Helper()

	if len(records) == 0 {
		records = testutil.SpaceXRecords()
	}
	d, err := dataset.New(records)
	require.NoError(t, err)

	return &TestFixture{
		Holder:       dataset.NewHolder(d),
		Registry:     session.NewRegistry(),
		Dispatcher:   session.NewDispatcher(),
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
		Logger:       testutil.NewTestLogger(t),
	}
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return session.NewCookieStore("test-secret-key-32-bytes-long!!")
}

// SessionCookie performs a request against handler and returns the session
// cookie it issued, for reuse on later requests.
func SessionCookie(t *testing.T, handler http.HandlerFunc) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie issued", session.CookieName)
	return nil
}

// DatastarPost builds a datastar POST request carrying signals as its JSON body.
func DatastarPost(t *testing.T, path string, signals any, cookie *http.Cookie) *http.Request {
	t.Helper()

	body, err := json.Marshal(signals)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

// RequestWithTimeout wraps a request with a context timeout.
// The returned cancel func must be called by the test.
func RequestWithTimeout(r *http.Request, timeout time.Duration) (*http.Request, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	return r.WithContext(ctx), cancel
}
