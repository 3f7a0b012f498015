package services

import (
	"context"
	"sync"
	"time"

	"github.com/classdash/core/internal/adapters/repository"
	"github.com/classdash/core/internal/application/localstore"
	"github.com/classdash/core/internal/domain/entities"
	"github.com/classdash/core/internal/infrastructure/logger"
	"github.com/classdash/core/internal/ports"
)

var (
	tokyo      = mustLocation("Asia/Tokyo")
	nopLogger  = logger.NewNop()
	fullCreds  = entities.RepoCredentials{Owner: "school", Repo: "dash", Token: "ghp_secret"}
	emptyCreds = entities.RepoCredentials{}
)

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func newLocal(creds entities.RepoCredentials) *localstore.Store {
	s := localstore.New(repository.NewMemoryStore(), nopLogger)
	if creds != emptyCreds {
		if err := s.Set(context.Background(), entities.KeyRepoCredentials, creds); err != nil {
			panic(err)
		}
	}
	return s
}

// fakeRemote records calls and answers with canned results
type fakeRemote struct {
	mu      sync.Mutex
	rawURL  string
	file    *ports.RemoteFile
	getErr  error
	putErr  error
	gets    int
	puts    []ports.PutFileRequest
	written *ports.PutFileResult
}

func (f *fakeRemote) GetFile(context.Context, entities.RepoCredentials) (*ports.RemoteFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.file, nil
}

func (f *fakeRemote) PutFile(_ context.Context, _ entities.RepoCredentials, req ports.PutFileRequest) (*ports.PutFileResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts = append(f.puts, req)
	if f.putErr != nil {
		return nil, f.putErr
	}
	if f.written != nil {
		return f.written, nil
	}
	return &ports.PutFileResult{ContentSHA: "new-sha"}, nil
}

func (f *fakeRemote) RawURL(entities.RepoCredentials) string {
	return f.rawURL
}

// stubFetcher returns a fixed result
type stubFetcher struct {
	result *ports.FetchResult
	calls  int
}

func (s *stubFetcher) Fetch(context.Context) *ports.FetchResult {
	s.calls++
	return s.result
}

// stubPublisher captures the published dataset
type stubPublisher struct {
	published *entities.Dataset
	result    *ports.PublishResult
	err       error
}

func (s *stubPublisher) Publish(_ context.Context, ds *entities.Dataset) (*ports.PublishResult, error) {
	s.published = ds
	if s.result == nil {
		s.result = &ports.PublishResult{Success: s.err == nil}
	}
	return s.result, s.err
}
