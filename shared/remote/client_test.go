package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dfryer1193/travelcatalog/api"
	"github.com/dfryer1193/travelcatalog/catalog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResource[T domain.Record](t *testing.T, kind domain.ResourceType, handler http.HandlerFunc) *Resource[T] {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewResource[T](NewClient(srv.URL+"/"), kind)
}

func TestResource_List(t *testing.T) {
	res := newTestResource[domain.Category](t, domain.ResourceCategories, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/categories", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":1,"name":"Java"},{"id":2,"name":"Bali"}]`)
	})

	got, err := res.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, "Bali", got[1].Name)
}

func TestResource_ListNull(t *testing.T) {
	res := newTestResource[domain.Food](t, domain.ResourceFood, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `null`)
	})

	got, err := res.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestResource_Create(t *testing.T) {
	res := newTestResource[domain.Province](t, domain.ResourceProvinces, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/provinces", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in domain.Province
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&in)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Zero(t, in.ID)
		assert.Equal(t, int64(1), in.ParentID())

		in.ID = 7
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(in)
	})

	draft := domain.NewProvince("Jakarta", "West", &domain.Category{ID: 1, Name: "Java"},
		domain.EncodedImage{FileName: "j.png", MimeType: "image/png", Data: "AAAA"})

	created, err := res.Create(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, "Jakarta", created.ProvinceName)
	assert.Equal(t, "AAAA", created.ImageData)
}

func TestResource_CreateWithoutID(t *testing.T) {
	res := newTestResource[domain.Category](t, domain.ResourceCategories, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"name":"Java"}`)
	})

	_, err := res.Create(context.Background(), domain.Category{Name: "Java"})
	assert.True(t, domain.IsRemote(err))
}

func TestResource_Delete(t *testing.T) {
	res := newTestResource[domain.Food](t, domain.ResourceFood, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/food/42", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, res.Delete(context.Background(), 42))
}

func TestResource_ErrorResponses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		notFound    bool
	}{
		{name: "envelope", status: http.StatusUnprocessableEntity, body: `{"error":"category 9 does not exist"}`, wantMessage: "category 9 does not exist"},
		{name: "plain text", status: http.StatusInternalServerError, body: "boom", wantMessage: "boom"},
		{name: "empty body", status: http.StatusBadGateway, wantMessage: "Bad Gateway"},
		{name: "not found", status: http.StatusNotFound, body: `{"error":"food 1 not found"}`, wantMessage: "food 1 not found", notFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTestResource[domain.Food](t, domain.ResourceFood, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			err := res.Delete(context.Background(), 1)

			var remoteErr *domain.RemoteError
			require.ErrorAs(t, err, &remoteErr)
			assert.Equal(t, tt.status, remoteErr.StatusCode)
			assert.Equal(t, tt.wantMessage, remoteErr.Message)
			assert.Equal(t, "delete", remoteErr.Op)
			assert.Equal(t, tt.notFound, domain.IsNotFound(err))
		})
	}
}

func TestResource_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := NewResource[domain.Category](NewClient(url), domain.ResourceCategories)
	_, err := res.List(context.Background())

	var remoteErr *domain.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Zero(t, remoteErr.StatusCode)
	assert.NotNil(t, remoteErr.Err)
}

func TestClient_Options(t *testing.T) {
	hc := &http.Client{}
	c := NewClient("http://example.com/", WithHTTPClient(hc), WithTimeout(3*time.Second))

	assert.Equal(t, "http://example.com", c.baseURL)
	assert.Equal(t, 3*time.Second, c.http.Timeout)
	assert.Equal(t, "/api/food/3", api.RecordPath(domain.ResourceFood, 3))
}

func TestClient_TimeoutLeavesCallerClientAlone(t *testing.T) {
	tests := []struct {
		name string
		opts func(hc *http.Client) []Option
	}{
		{
			name: "client then timeout",
			opts: func(hc *http.Client) []Option {
				return []Option{WithHTTPClient(hc), WithTimeout(time.Second)}
			},
		},
		{
			name: "timeout then client",
			opts: func(hc *http.Client) []Option {
				return []Option{WithTimeout(time.Second), WithHTTPClient(hc)}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := &http.Client{}
			c := NewClient("http://example.com", tt.opts(hc)...)

			assert.Zero(t, hc.Timeout, "caller's client must not be modified")
			assert.NotSame(t, hc, c.http)
			assert.Equal(t, time.Second, c.http.Timeout)
		})
	}
}

func TestClient_NoTimeoutKeepsClient(t *testing.T) {
	hc := &http.Client{}
	c := NewClient("http://example.com", WithHTTPClient(hc), WithTimeout(0))

	assert.Same(t, hc, c.http)
	assert.Zero(t, c.http.Timeout)
}
