package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// roundTripperFunc adapts a function to http.RoundTripper.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type fakeNetError struct{}

func (fakeNetError) Error() string   { return "read tcp: connection reset by peer" }
func (fakeNetError) Timeout() bool   { return false }
func (fakeNetError) Temporary() bool { return true }

func newTestClient(rt http.RoundTripper, session SessionStore) *Client {
	c := New(&http.Client{Transport: rt}, session, zap.NewNop())
	c.sleep = func(time.Duration) {} // no real backoff in tests
	return c
}

func TestDoRetriesTransientErrorsThreeTimes(t *testing.T) {
	attempts := 0
	rt := roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		attempts++
		return nil, fakeNetError{}
	})

	client := newTestClient(rt, NewMemorySessionStore())
	_, err := client.Do(context.Background(), http.MethodGet, "http://backend/pricing", nil, "")

	// Initial attempt plus exactly three retries.
	require.Error(t, err)
	assert.Equal(t, 4, attempts)
	assert.Contains(t, err.Error(), "after 3 retries")
}

func TestDoBackoffIsLinear(t *testing.T) {
	var delays []time.Duration
	rt := roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return nil, fakeNetError{}
	})

	client := New(&http.Client{Transport: rt}, NewMemorySessionStore(), zap.NewNop())
	client.sleep = func(d time.Duration) { delays = append(delays, d) }

	_, err := client.Do(context.Background(), http.MethodGet, "http://backend/x", nil, "")
	require.Error(t, err)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, delays)
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	rt := roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		attempts++
		if attempts <= 3 {
			return nil, fakeNetError{}
		}
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})

	client := newTestClient(rt, NewMemorySessionStore())
	resp, err := client.Do(context.Background(), http.MethodGet, "http://backend/pricing", nil, "")

	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 4, attempts)
}

func TestDoDoesNotRetryHTTPErrorStatuses(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(http.DefaultTransport, NewMemorySessionStore())
	resp, err := client.Do(context.Background(), http.MethodGet, srv.URL, nil, "")

	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, 1, attempts)
}

func TestDoAddsBearerHeaderWhenTokenPresent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	session := NewMemorySessionStore()
	session.SetSession("tok-123", `{"name":"admin"}`)

	client := newTestClient(http.DefaultTransport, session)
	resp, err := client.Do(context.Background(), http.MethodGet, srv.URL, nil, "")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestDoOmitsAuthHeaderWithoutToken(t *testing.T) {
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
	}))
	defer srv.Close()

	client := newTestClient(http.DefaultTransport, NewMemorySessionStore())
	resp, err := client.Do(context.Background(), http.MethodGet, srv.URL, nil, "")
	require.NoError(t, err)
	resp.Body.Close()

	assert.False(t, hasAuth)
}

func TestDoClearsSessionOn401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	session := NewMemorySessionStore()
	session.SetSession("stale-token", `{"name":"admin"}`)

	client := newTestClient(http.DefaultTransport, session)
	resp, err := client.Do(context.Background(), http.MethodGet, srv.URL, nil, "")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, session.Token())
	assert.Empty(t, session.User())
}

func TestFileSessionStoreClearRemovesBothKeys(t *testing.T) {
	store := NewFileSessionStore(t.TempDir())
	store.SetSession("tok", `{"id":1}`)
	require.Equal(t, "tok", store.Token())
	require.Equal(t, `{"id":1}`, store.User())

	store.Clear()
	assert.Empty(t, store.Token())
	assert.Empty(t, store.User())
}

func TestNormalizeErrorBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"order not found"}`, "order not found"},
		{
			"validation list",
			`{"detail":[{"loc":["body","phone"],"msg":"field required"},{"loc":["body","name"],"msg":"too short"}]}`,
			"field required; too short",
		},
		{"object with message", `{"detail":{"message":"quota exceeded"}}`, "quota exceeded"},
		{"missing detail", `{"error":"boom"}`, "request failed, please try again"},
		{"empty body", ``, "request failed, please try again"},
		{"not json", `<html>502</html>`, "request failed, please try again"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeErrorBody(strings.NewReader(tt.body))
			assert.Equal(t, tt.want, got)
		})
	}
}
