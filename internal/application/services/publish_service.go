package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/classdash/core/internal/application/localstore"
	"github.com/classdash/core/internal/domain/entities"
	"github.com/classdash/core/internal/infrastructure/config"
	"github.com/classdash/core/internal/infrastructure/logger"
	"github.com/classdash/core/internal/infrastructure/metrics"
	"github.com/classdash/core/internal/ports"
)

// Messages shown to the admin after a publish attempt
const (
	PublishSuccessMessage       = "Update succeeded! Changes are now visible to every student."
	PublishNotConfiguredMessage = "GitHub connection is not configured. Set owner, repository and token first."
	publishFallbackMessage      = "update failed"
)

// PublishService writes the dataset to the remote content store with a revision check
type PublishService struct {
	local   *localstore.Store
	remote  ports.RemoteContent
	cfg     config.RemoteConfig
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewPublishService creates a publish service
func NewPublishService(local *localstore.Store, remote ports.RemoteContent, cfg config.RemoteConfig, m *metrics.Metrics, log *logger.Logger) *PublishService {
	return &PublishService{
		local:   local,
		remote:  remote,
		cfg:     cfg,
		metrics: m,
		logger:  log.WithComponent("publish"),
	}
}

var _ ports.DatasetPublisher = (*PublishService)(nil)

// Publish overwrites the remote dataset with ds. The current revision token is read first and
// sent back with the write, so a concurrent edit makes the write fail instead of being lost.
// Failures are not retried. The returned result is never nil.
func (s *PublishService) Publish(ctx context.Context, ds *entities.Dataset) (*ports.PublishResult, error) {
	creds := localstore.Get(ctx, s.local, entities.KeyRepoCredentials, entities.RepoCredentials{})
	if !creds.CanPublish() {
		s.metrics.ObservePublish("not_configured")
		return &ports.PublishResult{Success: false, Message: PublishNotConfiguredMessage}, entities.ErrCredentialsMissing
	}

	content, err := ds.EncodeJSON()
	if err != nil {
		return s.fail(err)
	}

	var sha string
	file, err := s.remote.GetFile(ctx, creds)
	switch {
	case err == nil:
		sha = file.SHA
	case errors.Is(err, ports.ErrRemoteNotFound):
		s.logger.Infow("Remote dataset does not exist yet, creating it", "owner", creds.Owner, "repo", creds.Repo)
	default:
		return s.fail(err)
	}

	written, err := s.remote.PutFile(ctx, creds, ports.PutFileRequest{
		Message: s.cfg.CommitMessage,
		Content: content,
		SHA:     sha,
	})
	if err != nil {
		return s.fail(err)
	}

	s.metrics.ObservePublish("ok")
	s.logger.Infow("Dataset published",
		"owner", creds.Owner,
		"repo", creds.Repo,
		"previous_sha", sha,
		"sha", written.ContentSHA,
	)
	return &ports.PublishResult{
		Success:  true,
		Message:  PublishSuccessMessage,
		Revision: written.ContentSHA,
	}, nil
}

func (s *PublishService) fail(err error) (*ports.PublishResult, error) {
	msg := err.Error()
	result := "error"
	if re, ok := ports.AsRemoteError(err); ok {
		msg = re.Message
		if msg == "" {
			msg = publishFallbackMessage
		}
		result = "rejected"
		if re.IsConflict() {
			result = "conflict"
		}
	}

	s.metrics.ObservePublish(result)
	s.logger.Errorw("Dataset publish failed", "error", err)
	return &ports.PublishResult{Success: false, Message: msg}, fmt.Errorf("%w: %w", entities.ErrPublishRejected, err)
}
