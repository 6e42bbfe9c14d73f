package gcs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
)

// fakeGCS accepts multipart object inserts and records them.
type fakeGCS struct {
	mu      sync.Mutex
	objects map[string][]byte
	meta    map[string]map[string]any
	status  int
	calls   int
}

func newFakeGCS(t *testing.T) (*fakeGCS, *httptest.Server) {
	t.Helper()
	fake := &fakeGCS{
		objects: make(map[string][]byte),
		meta:    make(map[string]map[string]any),
	}
	srv := httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(srv.Close)
	return fake, srv
}

func (f *fakeGCS) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		fmt.Fprintf(w, `{"error":{"code":%d,"message":"%s"}}`, f.status, http.StatusText(f.status))
		return
	}

	const prefix = "/upload/storage/v1/b/"
	if r.Method != http.MethodPost || !strings.HasPrefix(r.URL.Path, prefix) || !strings.HasSuffix(r.URL.Path, "/o") {
		http.Error(w, "unexpected request "+r.Method+" "+r.URL.Path, http.StatusBadRequest)
		return
	}
	if got := r.URL.Query().Get("uploadType"); got != "multipart" {
		http.Error(w, "unexpected uploadType "+got, http.StatusBadRequest)
		return
	}
	bucket := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, prefix), "/o")

	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	mr := multipart.NewReader(r.Body, params["boundary"])

	metaPart, err := mr.NextPart()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var meta map[string]any
	if err := json.NewDecoder(metaPart).Decode(&meta); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	mediaPart, err := mr.NextPart()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, err := io.ReadAll(mediaPart)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name, _ := meta["name"].(string)
	f.objects[name] = data
	f.meta[name] = meta

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck // test server
		"bucket":      bucket,
		"name":        name,
		"size":        fmt.Sprint(len(data)),
		"contentType": meta["contentType"],
		"mediaLink":   "http://" + r.Host + "/download/" + bucket + "/" + name,
	})
}

func openStore(t *testing.T, srv *httptest.Server, bucket string) *Store {
	t.Helper()
	store, err := NewFactory().Open(context.Background(), domain.StorageSettings{
		Bucket:   bucket,
		Endpoint: srv.URL,
	})
	require.NoError(t, err)
	return store.(*Store)
}

func TestStore_Put(t *testing.T) {
	fake, srv := newFakeGCS(t)
	store := openStore(t, srv, "my-app.appspot.com")

	obj, err := store.Put(context.Background(), "images/1700000000000.jpg", strings.NewReader("jpeg bytes"), "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, "my-app.appspot.com", obj.Bucket)
	assert.Equal(t, "images/1700000000000.jpg", obj.Name)
	assert.Equal(t, int64(10), obj.Size)
	assert.Equal(t, "image/jpeg", obj.ContentType)
	assert.Contains(t, obj.MediaLink, "/download/my-app.appspot.com/")

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, []byte("jpeg bytes"), fake.objects["images/1700000000000.jpg"])
	assert.Equal(t, "image/jpeg", fake.meta["images/1700000000000.jpg"]["contentType"])
	assert.Equal(t, 1, fake.calls)
}

func TestStore_Put_Document(t *testing.T) {
	fake, srv := newFakeGCS(t)
	store := openStore(t, srv, "docs")

	_, err := store.Put(context.Background(), "files/report.pdf", strings.NewReader("%PDF-1.4"), "application/pdf")

	require.NoError(t, err)
	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, "%PDF-1.4", string(fake.objects["files/report.pdf"]))
}

func TestStore_Put_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorised", http.StatusUnauthorized, domain.ErrStorageUnavailable},
		{"forbidden", http.StatusForbidden, domain.ErrStorageUnavailable},
		{"missing bucket", http.StatusNotFound, domain.ErrStorageUnavailable},
		{"server error", http.StatusInternalServerError, domain.ErrUploadFailed},
		{"rate limited", http.StatusTooManyRequests, domain.ErrUploadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, srv := newFakeGCS(t)
			fake.status = tt.status
			store := openStore(t, srv, "photos")

			_, err := store.Put(context.Background(), "images/1.jpg", strings.NewReader("x"), "image/jpeg")

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.status == http.StatusTooManyRequests, IsRateLimited(err))

			// Exactly one request: failures are never retried
			fake.mu.Lock()
			assert.Equal(t, 1, fake.calls)
			fake.mu.Unlock()
		})
	}
}

func TestStore_Put_Cancelled(t *testing.T) {
	fake, srv := newFakeGCS(t)
	store := openStore(t, srv, "photos")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Put(ctx, "images/1.jpg", strings.NewReader("x"), "image/jpeg")

	assert.ErrorIs(t, err, domain.ErrUploadCancelled)
	fake.mu.Lock()
	assert.Empty(t, fake.objects)
	fake.mu.Unlock()
}

func TestStore_Put_EmptyName(t *testing.T) {
	_, srv := newFakeGCS(t)
	store := openStore(t, srv, "photos")

	_, err := store.Put(context.Background(), "", strings.NewReader("x"), "image/jpeg")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFactory_Open_NoBucket(t *testing.T) {
	_, err := NewFactory().Open(context.Background(), domain.StorageSettings{Bucket: " "})

	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestFactory_Open_TrimsBucket(t *testing.T) {
	_, srv := newFakeGCS(t)
	store := openStore(t, srv, "  photos  ")

	assert.Equal(t, "photos", store.Bucket())
}

func TestFactory_Open_PacesAcrossUploads(t *testing.T) {
	fake, srv := newFakeGCS(t)
	factory := NewFactory()
	settings := domain.StorageSettings{Bucket: "photos", Endpoint: srv.URL, RequestsPerSecond: 20}

	// The burst passes at once, the next five wait 50ms each
	uploads := DefaultRateLimit.BurstSize + 5
	start := time.Now()
	for i := 0; i < uploads; i++ {
		store, err := factory.Open(context.Background(), settings)
		require.NoError(t, err)
		_, err = store.Put(context.Background(), fmt.Sprintf("files/%d.txt", i), strings.NewReader("x"), "text/plain")
		require.NoError(t, err)
	}
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 200*time.Millisecond)
	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, uploads, fake.calls)
}

func TestFactory_RateLimiter_Shared(t *testing.T) {
	factory := NewFactory()

	first := factory.rateLimiter(2)
	assert.Same(t, first, factory.rateLimiter(2))

	changed := factory.rateLimiter(4)
	assert.NotSame(t, first, changed)
	assert.Same(t, changed, factory.rateLimiter(4))
}

func TestClientOptions(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.StorageSettings
		count    int
	}{
		{"endpoint", domain.StorageSettings{Endpoint: "http://localhost:4443"}, 2},
		{"access token", domain.StorageSettings{AccessToken: "ya29.x"}, 1},
		{"credentials file", domain.StorageSettings{CredentialsFile: "/keys/sa.json"}, 2},
		{"default credentials", domain.StorageSettings{}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, clientOptions(tt.settings), tt.count)
		})
	}
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "http://localhost:4443/storage/v1/", endpointURL("http://localhost:4443"))
	assert.Equal(t, "http://localhost:4443/storage/v1/", endpointURL("http://localhost:4443/"))
	assert.Equal(t, "http://localhost:4443/storage/v1/", endpointURL("http://localhost:4443/storage/v1"))
}
