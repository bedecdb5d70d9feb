package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawfetch/pawfetch/internal/domain"
	"github.com/pawfetch/pawfetch/internal/metrics"
	"github.com/pawfetch/pawfetch/internal/version"
)

type countingRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	retries  map[string]int
	statuses map[int]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{retries: map[string]int{}, statuses: map[int]int{}}
}

func (r *countingRecorder) IncRetry(endpoint string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retries[endpoint]++
}

func (r *countingRecorder) IncRequest(_ string, status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[status]++
}

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewUnstartedServer(handler)
	srv.Config.SetKeepAlivesEnabled(false)
	srv.Start()
	t.Cleanup(srv.Close)

	base := []Option{
		WithHTTPClient(srv.Client()),
		WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
	}
	c, err := New(srv.URL+"/", append(base, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("/just/a/path")
	require.Error(t, err)
}

func TestHTTPError(t *testing.T) {
	err := NewHTTPError(500, "http://api.example.com/dogs", "Internal Server Error")
	assert.Equal(t, "HTTP 500 for URL http://api.example.com/dogs: Internal Server Error", err.Error())
	assert.False(t, IsUnauthorized(err))
	assert.True(t, IsUnauthorized(NewHTTPError(401, "u", "Unauthorized")))

	tests := []struct {
		status    int
		retryable bool
	}{
		{400, false}, {401, false}, {404, false}, {429, true}, {500, true}, {503, true},
	}
	for _, tt := range tests {
		he := &HTTPError{StatusCode: tt.status}
		assert.Equal(t, tt.retryable, he.Retryable(), "status %d", tt.status)
	}
}

func TestBreeds(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/dogs/breeds", r.URL.Path)
		assert.Equal(t, version.UserAgent(), r.Header.Get("User-Agent"))
		_, _ = io.WriteString(w, `["Beagle","Akita"]`)
	}))

	breeds, err := c.Breeds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Beagle", "Akita"}, breeds)
	assert.True(t, c.CheckLogin(context.Background()))
}

func TestSearchDogsEncodesQuery(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, []string{"Akita", "Beagle"}, q["breeds"])
		assert.Equal(t, []string{"53703", "53704"}, q["zipCodes"])
		assert.Equal(t, "2", q.Get("ageMin"))
		assert.Empty(t, q["ageMax"])
		assert.Equal(t, "20", q.Get("size"))
		assert.Equal(t, "40", q.Get("from"))
		assert.Equal(t, "name:desc", q.Get("sort"))
		_, _ = io.WriteString(w, `{"resultIds":["b","a"],"total":42}`)
	}))

	ageMin := 2
	res, err := c.SearchDogs(context.Background(), domain.SearchQuery{
		Breeds:   []string{"Akita", "Beagle"},
		ZipCodes: []string{"53703", "53704"},
		AgeMin:   &ageMin,
		Size:     20,
		From:     40,
		Sort:     "name:desc",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, res.ResultIDs)
	assert.Equal(t, 42, res.Total)
}

func TestDogsByIDsAndMatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/dogs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var ids []string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ids))
		assert.Equal(t, []string{"x", "y"}, ids)
		_, _ = io.WriteString(w, `[{"id":"x","name":"Rex","age":3,"zip_code":"53703","breed":"Akita","img":"i"}]`)
	})
	mux.HandleFunc("/dogs/match", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"match":"y"}`)
	})
	c := newTestClient(t, mux)

	dogs, err := c.DogsByIDs(context.Background(), []string{"x", "y"})
	require.NoError(t, err)
	require.Len(t, dogs, 1)
	assert.Equal(t, domain.Dog{ID: "x", Name: "Rex", Age: 3, ZipCode: "53703", Breed: "Akita", Img: "i"}, dogs[0])

	match, err := c.Match(context.Background(), []string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, "y", match)
}

func TestLocations(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/locations", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"zip_code":"53703","latitude":43.07,"longitude":-89.38,"city":"Madison","state":"WI","county":"Dane"},null]`)
	})
	mux.HandleFunc("/locations/search", func(w http.ResponseWriter, r *http.Request) {
		var q domain.LocationQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		assert.Equal(t, []string{"WI"}, q.States)
		assert.Equal(t, 10000, q.Size)
		_, _ = io.WriteString(w, `{"results":[{"zip_code":"53703"},{"zip_code":"53704"}],"total":2}`)
	})
	c := newTestClient(t, mux)

	locs, err := c.LocationsByZip(context.Background(), []string{"53703", "00000"})
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "Madison", locs[0].City)

	res, err := c.SearchLocations(context.Background(), domain.LocationQuery{States: []string{"WI"}, Size: 10000})
	require.NoError(t, err)
	assert.Equal(t, []string{"53703", "53704"}, res.ZipCodes())
}

func TestRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	rec := newCountingRecorder()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	}), WithRecorder(rec), WithMaxAttempts(3))

	_, err := c.Breeds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())

	assert.Equal(t, 2, rec.retries["breeds"])
	assert.Equal(t, map[int]int{503: 2, 200: 1}, rec.statuses)
}

func TestGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}), WithMaxAttempts(2))

	_, err := c.Breeds(context.Background())
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	assert.Equal(t, "down", httpErr.Message)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.Breeds(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, c.CheckLogin(context.Background()))
}

func TestLoginSendsCredentials(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]string{"name": "Ada", "email": "ada@example.com"}, body)
			_, _ = io.WriteString(w, "OK")
		case "/auth/logout":
			_, _ = io.WriteString(w, "OK")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	require.NoError(t, c.Login(context.Background(), "Ada", "ada@example.com"))
	require.NoError(t, c.Logout(context.Background()))
}

func TestCanceledContextStopsRetrying(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Breeds(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
