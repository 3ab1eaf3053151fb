// Data transfer objects for the media ingestion endpoint.
package media

// IngestRequest carries an opaque payload: either base64-encoded bytes
// (raw or a data: URI) or a remote http(s) URL to pull from. DeclaredFolder
// optionally overrides the configured logical folder.
type IngestRequest struct {
	Content        string `json:"content" example:"data:image/png;base64,iVBORw0KGgo..."`
	DeclaredFolder string `json:"declared_folder,omitempty" example:"events"`
}

// IngestResult is the pass-through reference handed back to the caller. The
// pipeline keeps no record of it; attaching the URL to an entity is the
// caller's responsibility.
type IngestResult struct {
	RetrievalURL string `json:"retrieval_url" example:"http://localhost:9000/townhall/events/0b1f...png"`
	ResourceKind string `json:"resource_kind" example:"image"`
}
