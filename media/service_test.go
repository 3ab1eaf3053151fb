package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/townhall-go/apperror"
	"github.com/user/townhall-go/config"
)

// pngHeader is the 8-byte PNG signature, enough for kind detection.
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// fakeUploader records whether and how it was invoked.
type fakeUploader struct {
	invoked     bool
	key         string
	contentType string
	body        []byte
	err         error
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	f.invoked = true
	f.key = key
	f.contentType = contentType
	f.body = body
	if f.err != nil {
		return "", f.err
	}
	return "http://storage.local/bucket/" + key, nil
}

func newTestService(uploader ObjectUploader) *Service {
	return NewService(uploader, nil, &config.StorageConfig{DefaultFolder: "townhall"})
}

func TestIngestRejectsEmptyContentBeforeAnyExternalCall(t *testing.T) {
	uploader := &fakeUploader{}
	svc := newTestService(uploader)

	_, err := svc.Ingest(context.Background(), IngestRequest{Content: "  "})
	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode())
	assert.False(t, uploader.invoked, "validation must run before the provider is contacted")
}

func TestIngestRejectsGarbageContent(t *testing.T) {
	uploader := &fakeUploader{}
	svc := newTestService(uploader)

	_, err := svc.Ingest(context.Background(), IngestRequest{Content: "!!! not base64 !!!"})
	require.Error(t, err)
	assert.False(t, uploader.invoked)
}

func TestIngestBase64Payload(t *testing.T) {
	uploader := &fakeUploader{}
	svc := newTestService(uploader)

	content := base64.StdEncoding.EncodeToString(pngHeader)
	result, err := svc.Ingest(context.Background(), IngestRequest{Content: content})
	require.NoError(t, err)

	assert.Equal(t, "image", result.ResourceKind)
	assert.True(t, strings.HasPrefix(result.RetrievalURL, "http://storage.local/bucket/townhall/"))
	assert.Equal(t, pngHeader, uploader.body)
	assert.Equal(t, "image/png", uploader.contentType)
}

func TestIngestDataURIPayload(t *testing.T) {
	uploader := &fakeUploader{}
	svc := newTestService(uploader)

	content := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader)
	result, err := svc.Ingest(context.Background(), IngestRequest{Content: content})
	require.NoError(t, err)
	assert.Equal(t, "image", result.ResourceKind)
}

func TestIngestDeclaredFolder(t *testing.T) {
	uploader := &fakeUploader{}
	svc := newTestService(uploader)

	content := base64.StdEncoding.EncodeToString(pngHeader)
	_, err := svc.Ingest(context.Background(), IngestRequest{Content: content, DeclaredFolder: "events"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uploader.key, "events/"), "key %q should live under the declared folder", uploader.key)
}

func TestIngestRemoteURL(t *testing.T) {
	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngHeader)
	}))
	defer source.Close()

	uploader := &fakeUploader{}
	svc := NewService(uploader, source.Client(), &config.StorageConfig{DefaultFolder: "townhall"})

	result, err := svc.Ingest(context.Background(), IngestRequest{Content: source.URL})
	require.NoError(t, err)
	assert.Equal(t, "image", result.ResourceKind)
	assert.Equal(t, pngHeader, uploader.body)
}

func TestIngestRemoteFetchFailureIsUploadFailed(t *testing.T) {
	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer source.Close()

	uploader := &fakeUploader{}
	svc := NewService(uploader, source.Client(), &config.StorageConfig{DefaultFolder: "townhall"})

	_, err := svc.Ingest(context.Background(), IngestRequest{Content: source.URL})
	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, appErr.StatusCode())
	assert.False(t, uploader.invoked)
}

func TestIngestRemoteBodyOverCapIsRejectedWhole(t *testing.T) {
	// A body over the cap must fail the ingest; a truncated prefix must
	// never reach the provider.
	oversized := bytes.Repeat([]byte{0xAB}, maxRemoteFetchBytes+100)
	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(oversized)
	}))
	defer source.Close()

	uploader := &fakeUploader{}
	svc := NewService(uploader, source.Client(), &config.StorageConfig{DefaultFolder: "townhall"})

	_, err := svc.Ingest(context.Background(), IngestRequest{Content: source.URL})
	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode())
	assert.False(t, uploader.invoked)
}

func TestIngestProviderFailureIsUploadFailed(t *testing.T) {
	// Whatever shape the provider error has, the caller sees a uniform
	// upload failure.
	uploader := &fakeUploader{err: errors.New("quota exceeded: code=XYZ request-id=123")}
	svc := newTestService(uploader)

	content := base64.StdEncoding.EncodeToString(pngHeader)
	_, err := svc.Ingest(context.Background(), IngestRequest{Content: content})

	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, appErr.StatusCode())
	assert.Equal(t, "upload failed", appErr.Message, "provider detail must not leak into the client message")
}

func TestResourceKindMapping(t *testing.T) {
	cases := []struct {
		mime string
		want string
	}{
		{"image/png", "image"},
		{"audio/mpeg", "audio"},
		{"video/mp4", "video"},
		{"application/pdf", "raw"},
		{"text/plain; charset=utf-8", "raw"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, resourceKind(tc.mime), tc.mime)
	}
}

func TestSanitizeFolder(t *testing.T) {
	assert.Equal(t, "events", sanitizeFolder("/events/"))
	assert.Equal(t, "misc", sanitizeFolder("///"))
	assert.Equal(t, "a/b", sanitizeFolder("a/../b"))
}
