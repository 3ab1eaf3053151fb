// Package media is the ingestion pipeline: it accepts an opaque payload,
// hands it to the external object-storage provider and returns a durable
// retrieval URL plus the detected resource kind. Nothing is persisted here.
package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/user/townhall-go/apperror"
	"github.com/user/townhall-go/config"
)

// maxRemoteFetchBytes bounds how much is pulled from a remote URL.
const maxRemoteFetchBytes = 64 << 20 // 64 MiB

// Service ingests media payloads. The uploader and the HTTP client used for
// remote URLs are both injected, never reached as globals.
type Service struct {
	uploader      ObjectUploader
	httpClient    *http.Client
	defaultFolder string
}

// NewService creates a Service. A nil httpClient falls back to
// http.DefaultClient.
func NewService(uploader ObjectUploader, httpClient *http.Client, storageCfg *config.StorageConfig) *Service {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Service{
		uploader:      uploader,
		httpClient:    httpClient,
		defaultFolder: storageCfg.DefaultFolder,
	}
}

// Ingest validates the payload locally, resolves its bytes (base64 decode or
// remote fetch), detects the resource kind and uploads to the provider.
// Local validation runs first so an obviously bad request never costs a
// network round trip. Every provider-side failure surfaces uniformly as an
// upload failure, independent of the provider's own error shape. Uploads are
// not retried and carry no idempotency key: repeating an identical upload
// stores a second object.
func (s *Service) Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperror.NewBadRequestError("content must not be empty", nil)
	}

	data, err := s.resolvePayload(ctx, content)
	if err != nil {
		return nil, err
	}

	mtype := mimetype.Detect(data)
	kind := resourceKind(mtype.String())

	folder := s.defaultFolder
	if req.DeclaredFolder != "" {
		folder = sanitizeFolder(req.DeclaredFolder)
	}
	key := path.Join(folder, uuid.NewString()+mtype.Extension())

	url, err := s.uploader.Upload(ctx, key, mtype.String(), data)
	if err != nil {
		return nil, apperror.NewExternalServiceError("upload failed", err)
	}

	return &IngestResult{RetrievalURL: url, ResourceKind: kind}, nil
}

// resolvePayload turns the content string into raw bytes. URLs are fetched
// with the request context; everything else is treated as base64, with an
// optional data: URI wrapper.
func (s *Service) resolvePayload(ctx context.Context, content string) ([]byte, error) {
	if strings.HasPrefix(content, "http://") || strings.HasPrefix(content, "https://") {
		return s.fetchRemote(ctx, content)
	}

	// data:image/png;base64,AAAA... -> AAAA...
	if strings.HasPrefix(content, "data:") {
		idx := strings.Index(content, ",")
		if idx < 0 {
			return nil, apperror.NewBadRequestError("malformed data URI", nil)
		}
		content = content[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return nil, apperror.NewBadRequestError("content is neither a URL nor valid base64", err)
	}
	if len(data) == 0 {
		return nil, apperror.NewBadRequestError("content must not be empty", nil)
	}
	return data, nil
}

// fetchRemote pulls the payload from a remote URL. Failures here are
// provider-facing work on the caller's behalf, so they surface as upload
// failures rather than bad requests.
func (s *Service) fetchRemote(ctx context.Context, url string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperror.NewBadRequestError("invalid remote URL", err)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperror.NewExternalServiceError("upload failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.NewExternalServiceError("upload failed",
			fmt.Errorf("remote source returned status %d", resp.StatusCode))
	}

	// Read one byte past the cap so an over-limit body is detected instead
	// of silently truncated.
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteFetchBytes+1))
	if err != nil {
		return nil, apperror.NewExternalServiceError("upload failed", err)
	}
	if len(data) > maxRemoteFetchBytes {
		return nil, apperror.NewBadRequestError("remote source exceeds the 64 MiB limit", nil)
	}
	if len(data) == 0 {
		return nil, apperror.NewBadRequestError("remote source returned no content", nil)
	}
	return data, nil
}

// resourceKind maps a detected MIME type onto the provider's kind taxonomy.
func resourceKind(mime string) string {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return "image"
	case strings.HasPrefix(mime, "audio/"):
		return "audio"
	case strings.HasPrefix(mime, "video/"):
		return "video"
	default:
		return "raw"
	}
}

// sanitizeFolder drops empty and parent-traversal segments from a declared
// folder so keys always stay under the bucket root.
func sanitizeFolder(folder string) string {
	var kept []string
	for _, seg := range strings.Split(folder, "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		kept = append(kept, seg)
	}
	if len(kept) == 0 {
		return "misc"
	}
	return strings.Join(kept, "/")
}
