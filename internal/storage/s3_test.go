package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-saas/internal/config"
)

func TestS3Uploader_PutObject(t *testing.T) {
	var (
		mu          sync.Mutex
		method      string
		path        string
		contentType string
		body        []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		method, path, contentType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u := NewS3Uploader(&config.Config{
		S3Bucket:    "logos",
		S3Region:    "us-east-1",
		S3Endpoint:  srv.URL,
		S3AccessKey: "key",
		S3SecretKey: "secret",
	})

	url, err := u.Upload(context.Background(), "business/1/logo.webp", "image/webp", []byte("RIFF"))
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/logos/business/1/logo.webp", url)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/logos/business/1/logo.webp", path)
	assert.Equal(t, "image/webp", contentType)
	assert.Equal(t, []byte("RIFF"), body)
}

func TestS3Uploader_PublicURL(t *testing.T) {
	u := NewS3Uploader(&config.Config{S3Bucket: "b", S3Region: "eu-west-1", S3PublicURL: "https://cdn.example.com/"})
	assert.Equal(t, "https://cdn.example.com", u.publicURL)

	u = NewS3Uploader(&config.Config{S3Bucket: "b", S3Region: "eu-west-1"})
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", u.publicURL)
}
