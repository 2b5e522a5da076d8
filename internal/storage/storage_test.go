package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), []byte("\x00\x00\x00\rIHDR fake image body")...)

func encodedPNG() string {
	return base64.StdEncoding.EncodeToString(pngBytes)
}

// ============================================================================
// DecodeImage
// ============================================================================

func TestDecodeImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain base64", encodedPNG(), false},
		{"png data url", "data:image/png;base64," + encodedPNG(), false},
		{"jpeg data url", "data:image/jpeg;base64," + encodedPNG(), false},
		{"jpg data url", "data:image/jpg;base64," + encodedPNG(), false},
		{"empty", "", true},
		{"prefix only", "data:image/png;base64,", true},
		{"not base64", "%%%not-base64%%%", true},
		{"not an image", base64.StdEncoding.EncodeToString([]byte("hello world")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			data, contentType, err := DecodeImage(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidImage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, pngBytes, data)
			assert.Equal(t, "image/png", contentType)
		})
	}
}

func TestObjectName(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	a, err := ObjectName("user:abc123", now)
	require.NoError(t, err)
	b, err := ObjectName("user:abc123", now)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, "-abc123.png"), a)
	assert.Len(t, strings.TrimSuffix(a, "-abc123.png"), 26)

	later, err := ObjectName("user:abc123", now.Add(time.Second))
	require.NoError(t, err)
	assert.Less(t, a[:10], later[:10])
}

func TestOwnerKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", ownerKey("user:abc"))
	assert.Equal(t, "abc", ownerKey("abc"))
	assert.Equal(t, "abc", ownerKey("user:⟨a/b..c⟩"))
	assert.Equal(t, "anonymous", ownerKey(""))
}

// ============================================================================
// LocalStore
// ============================================================================

func TestLocalStore_SaveAndDelete(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:8080/")
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "user:u1", "data:image/png;base64,"+encodedPNG())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/storage/"), url)

	name := filepath.Base(url)
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)

	require.NoError(t, store.Delete(context.Background(), url))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// Second delete is a no-op
	assert.NoError(t, store.Delete(context.Background(), url))
	assert.NoError(t, store.Delete(context.Background(), ""))
}

func TestLocalStore_SaveInvalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:8080")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "user:u1", "garbage!")
	assert.ErrorIs(t, err, ErrInvalidImage)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStore_Handler(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:8080")
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "user:u1", encodedPNG())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/storage/"+filepath.Base(url), nil)
	rec := httptest.NewRecorder()
	store.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngBytes, rec.Body.Bytes())
}

// ============================================================================
// S3Store
// ============================================================================

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Bucket+"/"+*in.Key] = body
	f.types[*in.Bucket+"/"+*in.Key] = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_SaveAndDelete(t *testing.T) {
	t.Parallel()

	client := newFakeS3()
	store := newS3Store(client, S3Config{Bucket: "covers", Region: "us-east-1", Endpoint: "http://minio:9000/"})

	url, err := store.Save(context.Background(), "user:u1", encodedPNG())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://minio:9000/covers/"), url)

	key := "covers/" + strings.TrimPrefix(url, "http://minio:9000/covers/")
	assert.Equal(t, pngBytes, client.objects[key])
	assert.Equal(t, "image/png", client.types[key])

	require.NoError(t, store.Delete(context.Background(), url))
	assert.Empty(t, client.objects)
}

func TestS3Store_PublicURL(t *testing.T) {
	t.Parallel()

	aws := newS3Store(newFakeS3(), S3Config{Bucket: "b", Region: "eu-west-1"})
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", aws.publicURL)

	cdn := newS3Store(newFakeS3(), S3Config{Bucket: "b", Region: "eu-west-1", PublicURL: "https://cdn.example.com/"})
	assert.Equal(t, "https://cdn.example.com", cdn.publicURL)
}

func TestS3Store_Errors(t *testing.T) {
	t.Parallel()

	client := newFakeS3()
	client.putErr = errors.New("boom")
	store := newS3Store(client, S3Config{Bucket: "b", Region: "r"})

	_, err := store.Save(context.Background(), "user:u1", encodedPNG())
	assert.ErrorContains(t, err, "put object")

	_, err = store.Save(context.Background(), "user:u1", "")
	assert.ErrorIs(t, err, ErrInvalidImage)

	// Foreign URLs are ignored
	assert.NoError(t, store.Delete(context.Background(), "http://elsewhere/x.png"))
}

func TestNewS3Store_RequiresBucketAndRegion(t *testing.T) {
	t.Parallel()

	_, err := NewS3Store(context.Background(), S3Config{Region: "r"})
	assert.Error(t, err)
	_, err = NewS3Store(context.Background(), S3Config{Bucket: "b"})
	assert.Error(t, err)
}
