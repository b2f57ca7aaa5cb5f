package storage

import (
	"bufio"
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinereview-backend/internal/config"
)

// fakeS3 answers the handful of path-style S3 calls MinIOStore makes.
type fakeS3 struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{buckets: map[string]bool{}, objects: map[string][]byte{}}
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bucket, object, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")

	switch {
	case object == "" && r.Method == http.MethodHead:
		if !f.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case object == "" && r.Method == http.MethodPut:
		f.buckets[bucket] = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, err := readPayload(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.objects[r.URL.Path] = body
		w.Header().Set("ETag", etag(body))
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet:
		body, ok := f.objects[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Header().Set("ETag", etag(body))
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func etag(body []byte) string {
	sum := md5.Sum(body)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// readPayload returns the object bytes, unwrapping aws-chunked bodies sent by
// signed uploads over plain http.
func readPayload(r *http.Request) ([]byte, error) {
	if !strings.HasPrefix(r.Header.Get("X-Amz-Content-Sha256"), "STREAMING-") {
		return io.ReadAll(r.Body)
	}

	var out bytes.Buffer
	br := bufio.NewReader(r.Body)
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, err
		}
		sizeHex, _, _ := strings.Cut(strings.TrimSpace(line), ";")
		size, err := strconv.ParseInt(sizeHex, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("bad chunk header %q: %w", line, err)
		}
		if size == 0 {
			return out.Bytes(), nil
		}
		if _, err := io.CopyN(&out, br, size); err != nil {
			return nil, err
		}
		if _, err := br.Discard(2); err != nil {
			return nil, err
		}
	}
}

func TestMinIOStore(t *testing.T) {
	s3 := newFakeS3()
	srv := httptest.NewServer(s3)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store, err := NewMinIOStore(context.Background(), config.MinIOConfig{
		Endpoint:        srv.URL,
		AccessKeyID:     "cinereview",
		SecretAccessKey: "cinereview-secret",
		BucketName:      "community",
		Region:          "us-east-1",
	}, logger)
	require.NoError(t, err)
	assert.True(t, s3.buckets["community"])

	exerciseStore(t, store)

	s3.mu.Lock()
	defer s3.mu.Unlock()
	assert.Equal(t, "[]", string(s3.objects["/community/communityPosts/a.json"]))
	assert.Contains(t, s3.objects, "/community/communityPostVotes/a.json")
}

func TestMinIOStore_ExistingBucket(t *testing.T) {
	s3 := newFakeS3()
	s3.buckets["community"] = true
	srv := httptest.NewServer(s3)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store, err := NewMinIOStore(context.Background(), config.MinIOConfig{
		Endpoint:   strings.TrimPrefix(srv.URL, "http://"),
		BucketName: "community",
		Region:     "us-east-1",
	}, logger)
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "communityPosts:nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
