package ports

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/classdash/core/internal/domain/entities"
)

// ErrRemoteNotFound is returned by RemoteContent when the file does not exist yet.
var ErrRemoteNotFound = errors.New("remote file not found")

// KeyValueStore is the opaque persistent key-value capability behind the local settings store.
// Get reports found=false for a missing key; that is not an error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Pinger is implemented by stores backed by a network service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RemoteFile is the metadata of a file in the remote content store.
type RemoteFile struct {
	Path string `json:"path"`
	SHA  string `json:"sha"`
	Size int    `json:"size"`
}

// RemoteError is a non-success answer of the content host
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote status %d: %s", e.StatusCode, e.Message)
}

// IsConflict reports whether the remote refused a write because the revision moved
func (e *RemoteError) IsConflict() bool {
	return e.StatusCode == http.StatusConflict || e.StatusCode == http.StatusUnprocessableEntity
}

// AsRemoteError unwraps a RemoteError
func AsRemoteError(err error) (*RemoteError, bool) {
	var re *RemoteError
	ok := errors.As(err, &re)
	return re, ok
}

// PutFileRequest is a create-or-overwrite of a remote file. Content is the raw UTF-8
// text; transport encoding is the adapter's job. An empty SHA means create.
type PutFileRequest struct {
	Message string
	Content []byte
	SHA     string
}

// PutFileResult describes the revision that was written.
type PutFileResult struct {
	ContentSHA string
	CommitSHA  string
}

// RemoteContent is the content-hosting API the publisher writes through.
type RemoteContent interface {
	// GetFile returns ErrRemoteNotFound when the file does not exist.
	GetFile(ctx context.Context, creds entities.RepoCredentials) (*RemoteFile, error)
	PutFile(ctx context.Context, creds entities.RepoCredentials, req PutFileRequest) (*PutFileResult, error)
	// RawURL is the cache-free raw-content address of the dataset file.
	RawURL(creds entities.RepoCredentials) string
}
