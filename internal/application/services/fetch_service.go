package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/classdash/core/internal/application/localstore"
	"github.com/classdash/core/internal/domain/entities"
	"github.com/classdash/core/internal/infrastructure/config"
	"github.com/classdash/core/internal/infrastructure/logger"
	"github.com/classdash/core/internal/infrastructure/metrics"
	"github.com/classdash/core/internal/ports"
)

const maxDatasetBytes = 4 << 20

// FetchService pulls the shared dataset from the repository mirror or the local source,
// falling back to the embedded defaults
type FetchService struct {
	local   *localstore.Store
	remote  ports.RemoteContent
	http    *http.Client
	cfg     config.RemoteConfig
	metrics *metrics.Metrics
	logger  *logger.Logger
	now     func() time.Time
}

// NewFetchService creates a fetch service. A nil httpClient gets one with cfg.Timeout.
func NewFetchService(local *localstore.Store, remote ports.RemoteContent, httpClient *http.Client, cfg config.RemoteConfig, m *metrics.Metrics, log *logger.Logger) *FetchService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &FetchService{
		local:   local,
		remote:  remote,
		http:    httpClient,
		cfg:     cfg,
		metrics: m,
		logger:  log.WithComponent("fetch"),
		now:     time.Now,
	}
}

var _ ports.DatasetFetcher = (*FetchService)(nil)

// Fetch never fails: on any error it logs, and returns the embedded defaults with the reason.
func (s *FetchService) Fetch(ctx context.Context) *ports.FetchResult {
	creds := localstore.Get(ctx, s.local, entities.KeyRepoCredentials, entities.RepoCredentials{})
	source, kind := s.resolveSource(creds)

	ds, err := s.load(ctx, source)
	if err != nil {
		s.logger.Warnw("Dataset unavailable, using embedded defaults",
			"source", source,
			"error", err,
		)
		s.metrics.ObserveFetch(kind, "fallback")
		return &ports.FetchResult{
			Dataset:  entities.DefaultDataset(),
			Source:   source,
			Fallback: true,
			Reason:   err,
		}
	}

	s.metrics.ObserveFetch(kind, "ok")
	s.logger.Debugw("Dataset fetched", "source", source, "timings", len(ds.Timings), "tests", len(ds.Tests))
	return &ports.FetchResult{Dataset: ds, Source: source}
}

// resolveSource picks the mirror when owner and repo are known, the local source otherwise.
func (s *FetchService) resolveSource(creds entities.RepoCredentials) (string, string) {
	if creds.HasMirror() && s.remote != nil {
		return s.remote.RawURL(creds), "mirror"
	}
	return s.cfg.LocalSource, "local"
}

func (s *FetchService) load(ctx context.Context, source string) (*entities.Dataset, error) {
	var (
		data []byte
		err  error
	)
	if isHTTPSource(source) {
		data, err = s.get(ctx, source)
	} else {
		data, err = readFileSource(source)
	}
	if err != nil {
		return nil, err
	}

	var ds entities.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrFetchDecode, err)
	}
	if err := ds.CheckShape(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (s *FetchService) get(ctx context.Context, source string) ([]byte, error) {
	target, err := cacheBusted(source, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrFetchTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrFetchTransport, err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrFetchTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", entities.ErrFetchStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDatasetBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrFetchTransport, err)
	}
	return data, nil
}

func readFileSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s not found", entities.ErrFetchStatus, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrFetchTransport, err)
	}
	return data, nil
}

// cacheBusted appends t=<unix-ms> so intermediaries never serve a stale copy.
func cacheBusted(source string, now time.Time) (string, error) {
	u, err := url.Parse(source)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(now.UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func isHTTPSource(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
