package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oakline/ledger/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig(endpoint string) *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:          "ledger-exports",
		Region:          "eu-west-2",
		Endpoint:        endpoint,
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
		PresignExpiry:   10 * time.Minute,
	}
}

func TestNewS3Publisher_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3Publisher(ctx, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing bucket", func(t *testing.T) {
		cfg := testConfig("http://localhost:9000")
		cfg.Bucket = ""
		_, err := NewS3Publisher(ctx, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("half a credential pair", func(t *testing.T) {
		cfg := testConfig("http://localhost:9000")
		cfg.SecretAccessKey = ""
		_, err := NewS3Publisher(ctx, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be set together")
	})

	t.Run("relative endpoint", func(t *testing.T) {
		_, err := NewS3Publisher(ctx, testConfig("localhost:9000"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid storage endpoint")
	})

	t.Run("valid config", func(t *testing.T) {
		p, err := NewS3Publisher(ctx, testConfig("http://localhost:9000"))
		require.NoError(t, err)
		assert.Equal(t, "ledger-exports", p.Bucket())
		assert.Equal(t, 10*time.Minute, p.expiry)
	})

	t.Run("default expiry and option override", func(t *testing.T) {
		cfg := testConfig("http://localhost:9000")
		cfg.PresignExpiry = 0
		p, err := NewS3Publisher(ctx, cfg, WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, p.expiry)

		p, err = NewS3Publisher(ctx, cfg, WithPresignExpiry(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, time.Hour, p.expiry)
	})
}

func TestS3Publisher_DownloadURL(t *testing.T) {
	p, err := NewS3Publisher(context.Background(), testConfig("http://localhost:9000"))
	require.NoError(t, err)

	_, err = p.DownloadURL(context.Background(), "")
	require.Error(t, err)

	link, err := p.DownloadURL(context.Background(), "exports/2025/01/ledger.zip")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "http://localhost:9000/ledger-exports/exports/2025/01/ledger.zip"), link)
	assert.Contains(t, link, "X-Amz-Expires=600")
}

// fakeS3 accepts PutObject requests and remembers what was uploaded
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	status  int
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.status != 0 {
		w.WriteHeader(f.status)
		return
	}
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.objects[r.URL.Path] = body
	f.types[r.URL.Path] = r.Header.Get("Content-Type")
	f.mu.Unlock()
	w.Header().Set("ETag", `"etag"`)
	w.WriteHeader(http.StatusOK)
}

func TestS3Publisher_Publish(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	p, err := NewS3Publisher(context.Background(), testConfig(srv.URL))
	require.NoError(t, err)

	link, err := p.Publish(context.Background(), "exports/ledger.zip", []byte("PK-data"), "application/zip")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, srv.URL+"/ledger-exports/exports/ledger.zip"), link)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Contains(t, string(fake.objects["/ledger-exports/exports/ledger.zip"]), "PK-data")
	assert.Equal(t, "application/zip", fake.types["/ledger-exports/exports/ledger.zip"])
}

func TestS3Publisher_PublishErrors(t *testing.T) {
	fake := &fakeS3{status: http.StatusForbidden}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	cfg := testConfig(srv.URL)
	p, err := NewS3Publisher(context.Background(), cfg)
	require.NoError(t, err)

	_, err = p.Publish(context.Background(), "", []byte("x"), "application/zip")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage key is required")

	_, err = p.Publish(context.Background(), "exports/ledger.zip", []byte("x"), "application/zip")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload object")
}
