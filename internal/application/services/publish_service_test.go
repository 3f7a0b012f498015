package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classdash/core/internal/domain/entities"
	"github.com/classdash/core/internal/infrastructure/config"
	"github.com/classdash/core/internal/infrastructure/metrics"
	"github.com/classdash/core/internal/ports"
)

var publishCfg = config.RemoteConfig{CommitMessage: "Update data.json from Admin Dashboard"}

func TestPublishWithoutCredentials(t *testing.T) {
	for _, creds := range []entities.RepoCredentials{
		emptyCreds,
		{Owner: "school", Repo: "dash"},
		{Token: "ghp_secret"},
	} {
		remote := &fakeRemote{}
		svc := NewPublishService(newLocal(creds), remote, publishCfg, metrics.New(), nopLogger)

		res, err := svc.Publish(context.Background(), entities.DefaultDataset())
		assert.ErrorIs(t, err, entities.ErrCredentialsMissing)
		require.NotNil(t, res)
		assert.False(t, res.Success)
		assert.Equal(t, PublishNotConfiguredMessage, res.Message)
		assert.Zero(t, remote.gets)
		assert.Empty(t, remote.puts)
	}
}

func TestPublishUpdatesExistingFile(t *testing.T) {
	remote := &fakeRemote{file: &ports.RemoteFile{Path: "data.json", SHA: "old-sha"}}
	svc := NewPublishService(newLocal(fullCreds), remote, publishCfg, metrics.New(), nopLogger)

	ds := entities.DefaultDataset()
	ds.Tests = append(ds.Tests, entities.Test{Name: "期末テスト", Date: "2099-03-01"})

	res, err := svc.Publish(context.Background(), ds)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, PublishSuccessMessage, res.Message)
	assert.Equal(t, "new-sha", res.Revision)

	require.Len(t, remote.puts, 1)
	put := remote.puts[0]
	assert.Equal(t, "old-sha", put.SHA)
	assert.Equal(t, "Update data.json from Admin Dashboard", put.Message)
	assert.Contains(t, string(put.Content), "期末テスト")

	var roundTrip entities.Dataset
	require.NoError(t, json.Unmarshal(put.Content, &roundTrip))
	assert.Equal(t, ds, &roundTrip)
}

func TestPublishCreatesMissingFile(t *testing.T) {
	remote := &fakeRemote{getErr: ports.ErrRemoteNotFound}
	svc := NewPublishService(newLocal(fullCreds), remote, publishCfg, nil, nopLogger)

	res, err := svc.Publish(context.Background(), entities.DefaultDataset())
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, remote.puts, 1)
	assert.Empty(t, remote.puts[0].SHA)
}

func TestPublishFailures(t *testing.T) {
	tests := []struct {
		name        string
		remote      *fakeRemote
		wantMessage string
		wantPuts    int
	}{
		{
			name:        "stale revision",
			remote:      &fakeRemote{file: &ports.RemoteFile{SHA: "old"}, putErr: &ports.RemoteError{StatusCode: http.StatusConflict, Message: "data.json does not match old"}},
			wantMessage: "data.json does not match old",
			wantPuts:    1,
		},
		{
			name:        "rejected without message",
			remote:      &fakeRemote{file: &ports.RemoteFile{SHA: "old"}, putErr: &ports.RemoteError{StatusCode: http.StatusForbidden}},
			wantMessage: publishFallbackMessage,
			wantPuts:    1,
		},
		{
			name:        "metadata read fails",
			remote:      &fakeRemote{getErr: &ports.RemoteError{StatusCode: http.StatusUnauthorized, Message: "Bad credentials"}},
			wantMessage: "Bad credentials",
		},
		{
			name:        "transport error",
			remote:      &fakeRemote{file: &ports.RemoteFile{SHA: "old"}, putErr: errors.New("connection reset")},
			wantMessage: "connection reset",
			wantPuts:    1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewPublishService(newLocal(fullCreds), tt.remote, publishCfg, metrics.New(), nopLogger)

			res, err := svc.Publish(context.Background(), entities.DefaultDataset())
			assert.ErrorIs(t, err, entities.ErrPublishRejected)
			require.NotNil(t, res)
			assert.False(t, res.Success)
			assert.Equal(t, tt.wantMessage, res.Message)
			assert.Len(t, tt.remote.puts, tt.wantPuts)
		})
	}
}
