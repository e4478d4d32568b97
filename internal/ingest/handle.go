package ingest

import (
	"io"
	"os"
)

// Handle is an ownership token for one ingested upload. It is created at the
// start of a dispatch, owned exclusively by that dispatch, and released on
// every exit path when the dispatch finishes.
type Handle struct {
	ID        string
	Name      string // sanitized original filename
	MediaType string // declared by the uploader, not verified
	SizeBytes int64

	path string
}

// Open returns a reader over the stored bytes. The caller closes it.
func (h *Handle) Open() (io.ReadCloser, error) {
	return os.Open(h.path)
}

// Bytes reads the full stored content into memory.
func (h *Handle) Bytes() ([]byte, error) {
	return os.ReadFile(h.path)
}

// Path returns the on-disk location of the stored bytes. Tool computations
// may read from it but must not assume it survives the request.
func (h *Handle) Path() string { return h.path }

// Release reclaims the storage. Safe to call more than once.
func (h *Handle) Release() {
	if h.path != "" {
		os.Remove(h.path)
		h.path = ""
	}
}
