package minio

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"testing"

	"github.com/hupe1980/bip39crack/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer answers every object request with 404 and records requests.
type fakeServer struct {
	mu       sync.Mutex
	requests []string
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.mu.Unlock()

	if r.Method == http.MethodDelete {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (f *fakeServer) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func newTestClient(t *testing.T, h http.Handler) *minio.Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	client, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4("key", "secret", ""),
		Secure: false,
		Region: "us-east-1",
	})
	require.NoError(t, err)
	return client
}

func TestStore_OpenNotFound(t *testing.T) {
	fake := &fakeServer{}
	store := NewStore(newTestClient(t, fake), "bucket", "runs")

	_, err := store.Open(context.Background(), "hash.txt")
	assert.True(t, blobstore.IsNotFound(err))

	reqs := fake.seen()
	require.NotEmpty(t, reqs)
	assert.Equal(t, "HEAD /bucket/runs/hash.txt", reqs[0])
}

func TestStore_Delete(t *testing.T) {
	fake := &fakeServer{}
	store := NewStore(newTestClient(t, fake), "bucket", "")

	require.NoError(t, store.Delete(context.Background(), "cp.bin"))
	assert.Contains(t, fake.seen(), "DELETE /bucket/cp.bin")
}

// TestMinioStore_Integration requires a running MinIO instance at
// MINIO_ENDPOINT. Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_ENDPOINT not set")
	}
	bucket := "test-bip39crack"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	require.NoError(t, err)

	ctx := context.Background()
	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "test-prefix/")

	data := []byte("12 34 56 78")
	require.NoError(t, store.Put(ctx, "hash.txt", data))

	blob, err := store.Open(ctx, "hash.txt")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())
	got, err := io.ReadAll(blob)
	require.NoError(t, err)
	require.Equal(t, data, got)
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "hash.txt")

	require.NoError(t, store.Delete(ctx, "hash.txt"))
	_, err = store.Open(ctx, "hash.txt")
	require.True(t, blobstore.IsNotFound(err))

	wb, err := store.Create(ctx, "result.txt")
	require.NoError(t, err)
	_, err = wb.Write([]byte("Match: streamed"))
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	blob, err = store.Open(ctx, "result.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(15), blob.Size())
	require.NoError(t, blob.Close())

	_ = store.Delete(ctx, "result.txt")
}
