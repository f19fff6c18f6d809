package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Showcase/internal/apiclient"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *recordingNotifier) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.msgs...)
}

type countingIndicator struct {
	mu    sync.Mutex
	shows int
	hides int
}

func (c *countingIndicator) Show() { c.mu.Lock(); c.shows++; c.mu.Unlock() }
func (c *countingIndicator) Hide() { c.mu.Lock(); c.hides++; c.mu.Unlock() }

func newClient(t *testing.T, h http.HandlerFunc) (*apiclient.Client, *recordingNotifier) {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	n := &recordingNotifier{}
	c := apiclient.NewClient(srv.URL, zap.NewNop())
	c.Notifier = n
	return c, n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGet_DecodesEnvelopeAndSendsToken(t *testing.T) {
	var gotAuth, gotQuery, gotReqID string
	c, n := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		gotReqID = r.Header.Get("X-Request-Id")
		writeJSON(w, http.StatusOK, map[string]any{"code": 200, "message": "ok", "data": []string{"a", "b"}})
	})
	c.Credentials.Set("opaque-token")

	env, err := apiclient.Get[[]string](context.Background(), c, "/items", map[string][]string{"page": {"2"}})
	require.NoError(t, err)
	assert.Equal(t, 200, env.Code)
	assert.Equal(t, "ok", env.Message)
	assert.Equal(t, []string{"a", "b"}, env.Data)

	assert.Equal(t, "Bearer opaque-token", gotAuth)
	assert.Equal(t, "page=2", gotQuery)
	assert.NotEmpty(t, gotReqID)
	assert.Empty(t, n.all())
}

func TestGet_BarePayloadIsWrapped(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"count": 3})
	})

	env, err := apiclient.Get[map[string]int](context.Background(), c, "/count", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, env.Code)
	assert.Equal(t, 3, env.Data["count"])
}

func TestPost_SendsJSONBody(t *testing.T) {
	var got map[string]any
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusOK, map[string]any{"code": 200, "message": "", "data": "done"})
	})

	env, err := apiclient.Post[string](context.Background(), c, "/things", map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.Equal(t, "done", env.Data)
	assert.Equal(t, "x", got["name"])
}

func TestWithoutToken(t *testing.T) {
	var gotAuth string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})
	c.Credentials.Set("tok")

	_, err := apiclient.Delete[any](context.Background(), c, "/x", nil, apiclient.WithoutToken())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestUnauthorizedClearsToken(t *testing.T) {
	c, n := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"code": 401, "message": "expired"})
	})
	c.Credentials.Set("tok")

	_, err := apiclient.Get[any](context.Background(), c, "/me", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
	assert.Empty(t, c.Credentials.Token())
	assert.Equal(t, []string{"unauthorized, please sign in"}, n.all())
}

func TestStatusNotifications(t *testing.T) {
	cases := []struct {
		status int
		body   any
		want   string
	}{
		{http.StatusBadRequest, map[string]any{"message": "title too long"}, "title too long"},
		{http.StatusBadRequest, nil, "bad request"},
		{http.StatusForbidden, map[string]any{"message": "admins only"}, "access denied admins only"},
		{http.StatusNotFound, map[string]any{"path": "/chat/x"}, "request address error: /chat/x"},
		{http.StatusInternalServerError, nil, "internal server error"},
		{http.StatusBadGateway, nil, "connection error 502"},
	}

	for _, tc := range cases {
		c, n := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			if tc.body == nil {
				w.WriteHeader(tc.status)
				return
			}
			writeJSON(w, tc.status, tc.body)
		})

		_, err := apiclient.Get[any](context.Background(), c, "/p", nil)
		var se *apiclient.StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, tc.status, se.Status)
		assert.Equal(t, []string{tc.want}, n.all(), "status %d", tc.status)
	}
}

func TestEnvelopeErrorCode(t *testing.T) {
	c, n := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"code": 5001, "message": "chat not found", "data": nil})
	})

	env, err := apiclient.Get[any](context.Background(), c, "/chat", nil)
	var ee *apiclient.EnvelopeError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 5001, ee.Code)
	assert.Equal(t, 5001, env.Code)
	assert.Equal(t, []string{"chat not found"}, n.all())
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	c, n := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})

	_, err := apiclient.Get[any](context.Background(), c, "/slow", nil, apiclient.WithTimeout(30*time.Millisecond))
	assert.ErrorIs(t, err, apiclient.ErrTimeout)
	assert.Equal(t, []string{"request timed out"}, n.all())
}

func TestCallerCancelIsNotNotified(t *testing.T) {
	c, n := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := apiclient.Get[any](ctx, c, "/x", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, n.all())
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	n := &recordingNotifier{}
	c := apiclient.NewClient(url, nil)
	c.Notifier = n

	_, err := apiclient.Get[any](context.Background(), c, "/x", nil)
	assert.ErrorIs(t, err, apiclient.ErrNetwork)
	assert.Equal(t, []string{"network error, contact administrator"}, n.all())
}

func TestRequestWithLoading_UnsupportedMethod(t *testing.T) {
	c, n := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	})
	ind := &countingIndicator{}
	c.Loading = apiclient.NewLoadingTracker(ind)

	_, err := apiclient.RequestWithLoading[any](context.Background(), c, "TRACE", "/x", nil, nil)
	assert.ErrorIs(t, err, apiclient.ErrUnsupportedMethod)
	assert.Len(t, n.all(), 1)
	assert.Zero(t, ind.shows)
}

func TestRequestWithLoading_OverlappingRequestsShowOnce(t *testing.T) {
	release := make(chan struct{})
	var arrived sync.WaitGroup
	arrived.Add(2)

	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		arrived.Done()
		<-release
		writeJSON(w, http.StatusOK, map[string]any{"code": 200, "message": "ok", "data": r.URL.Query().Get("n")})
	})
	ind := &countingIndicator{}
	c.Loading = apiclient.NewLoadingTracker(ind)

	var wg sync.WaitGroup
	for _, v := range []string{"1", "2"} {
		wg.Add(1)
		go func(v string) {
			defer wg.Done()
			env, err := apiclient.RequestWithLoading[string](context.Background(), c, http.MethodGet, "/x", "ignored", map[string][]string{"n": {v}})
			assert.NoError(t, err)
			assert.Equal(t, v, env.Data)
		}(v)
	}

	arrived.Wait()
	assert.Equal(t, 2, c.Loading.Outstanding())
	close(release)
	wg.Wait()

	assert.Equal(t, 0, c.Loading.Outstanding())
	assert.Equal(t, 1, ind.shows)
	assert.Equal(t, 1, ind.hides)
}

func TestLoadingTracker_EndIsIdempotent(t *testing.T) {
	ind := &countingIndicator{}
	tr := apiclient.NewLoadingTracker(ind)

	end := tr.Begin()
	end()
	end()
	assert.Equal(t, 0, tr.Outstanding())
	assert.Equal(t, 1, ind.hides)

	var nilTracker *apiclient.LoadingTracker
	assert.NotPanics(t, func() { nilTracker.Begin()() })
}

func TestCredentials_ExpiredJWTIsDropped(t *testing.T) {
	sign := func(exp time.Time) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		}).SignedString([]byte("k"))
		require.NoError(t, err)
		return tok
	}

	fresh := sign(time.Now().Add(time.Hour))
	c := apiclient.NewCredentials(fresh)
	assert.Equal(t, fresh, c.Token())

	c.Set(sign(time.Now().Add(-time.Minute)))
	assert.Empty(t, c.Token())

	c.Set("not-a-jwt")
	assert.Equal(t, "not-a-jwt", c.Token())
}

func TestStatusError_IsUnauthorized(t *testing.T) {
	err := error(&apiclient.StatusError{Status: http.StatusForbidden})
	assert.False(t, errors.Is(err, apiclient.ErrUnauthorized))
}
