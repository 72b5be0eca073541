package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpstream(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

func TestFetchCatImageReturnsFirstElement(t *testing.T) {
	srv, calls := newUpstream(t, http.StatusOK,
		`[{"id":"1","url":"https://x/a.jpg","width":1,"height":1},{"id":"2","url":"https://x/b.jpg","width":2,"height":2}]`)

	service := NewCatService(srv.URL, time.Second)
	image, err := service.FetchCatImage(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "1", image.ID)
	assert.Equal(t, "https://x/a.jpg", image.URL)
	assert.Equal(t, 1, image.Width)
	assert.Equal(t, 1, image.Height)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
	assert.Equal(t, 1, service.FetchCount())
}

func TestFetchCatImageOneCallPerInvocation(t *testing.T) {
	srv, calls := newUpstream(t, http.StatusOK, `[{"id":"1","url":"https://x/a.jpg","width":1,"height":1}]`)
	service := NewCatService(srv.URL, time.Second)

	for i := 0; i < 3; i++ {
		_, err := service.FetchCatImage(context.Background())
		require.NoError(t, err)
	}

	assert.EqualValues(t, 3, atomic.LoadInt32(calls))
	assert.Equal(t, 3, service.FetchCount())
}

func TestFetchCatImageErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "empty array", status: http.StatusOK, body: `[]`, want: ErrEmptyResponse},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`, want: ErrUnexpectedStatus},
		{name: "missing url", status: http.StatusOK, body: `[{"id":"1","width":1,"height":1}]`, want: ErrInvalidImage},
		{name: "zero width", status: http.StatusOK, body: `[{"id":"1","url":"https://x/a.jpg","width":0,"height":1}]`, want: ErrInvalidImage},
		{name: "not json", status: http.StatusOK, body: `<html>nope</html>`},
		{name: "object instead of array", status: http.StatusOK, body: `{"id":"1"}`},
		{
			name:   "body over size cap",
			status: http.StatusOK,
			body:   fmt.Sprintf(`[{"id":"1","url":"https://x/a.jpg","width":1,"height":1,"pad":"%s"}]`, strings.Repeat("a", maxBodyBytes)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := newUpstream(t, tt.status, tt.body)

			_, err := NewCatService(srv.URL, time.Second).FetchCatImage(context.Background())
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
			assert.EqualValues(t, 1, atomic.LoadInt32(calls))
		})
	}
}

func TestFetchCatImageNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	_, err := NewCatService(endpoint, time.Second).FetchCatImage(context.Background())
	assert.Error(t, err)
}

func TestFetchCatImageTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	_, err := NewCatService(srv.URL, 50*time.Millisecond).FetchCatImage(context.Background())
	assert.Error(t, err)
}

func TestFetchCatImageCanceledContext(t *testing.T) {
	srv, calls := newUpstream(t, http.StatusOK, `[]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCatService(srv.URL, time.Second).FetchCatImage(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 0, atomic.LoadInt32(calls))
}
