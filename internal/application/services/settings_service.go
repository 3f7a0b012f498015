package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/classdash/core/internal/application/localstore"
	"github.com/classdash/core/internal/application/state"
	"github.com/classdash/core/internal/domain/entities"
	"github.com/classdash/core/internal/infrastructure/logger"
)

// fallbackClassIDs are offered when the dataset defines no class at all
var fallbackClassIDs = []string{"21HR", "22HR", "23HR"}

// SettingsService manages the user settings and the repository credentials
type SettingsService struct {
	local    *localstore.Store
	state    *state.Store
	validate *validator.Validate
	logger   *logger.Logger
}

// NewSettingsService creates a settings service
func NewSettingsService(local *localstore.Store, st *state.Store, log *logger.Logger) *SettingsService {
	return &SettingsService{
		local:    local,
		state:    st,
		validate: validator.New(),
		logger:   log.WithComponent("settings"),
	}
}

// LoadUserSettings reads the stored settings into the dashboard state
func (s *SettingsService) LoadUserSettings(ctx context.Context) entities.UserSettings {
	settings := localstore.Get(ctx, s.local, entities.KeyUserSettings, entities.DefaultUserSettings())
	if settings.ClassID == "" {
		settings.ClassID = entities.DefaultClassID
	}
	s.state.SetSettings(settings)
	return settings
}

// UserSettings returns the settings currently in effect
func (s *SettingsService) UserSettings() entities.UserSettings {
	return s.state.Settings()
}

// SaveUserSettings validates, persists and applies settings. The stored record is replaced as a whole.
func (s *SettingsService) SaveUserSettings(ctx context.Context, settings entities.UserSettings) (entities.UserSettings, error) {
	settings.ClassID = strings.TrimSpace(settings.ClassID)
	settings.ICalURL = strings.TrimSpace(settings.ICalURL)

	if err := s.validate.Struct(settings); err != nil {
		return entities.UserSettings{}, fmt.Errorf("invalid settings: %w", err)
	}

	if err := s.local.Set(ctx, entities.KeyUserSettings, settings); err != nil {
		return entities.UserSettings{}, err
	}

	s.state.SetSettings(settings)
	s.logger.Infow("User settings saved", "class_id", settings.ClassID, "calendar", settings.ICalURL != "")
	return settings, nil
}

// Credentials returns the stored repository credentials
func (s *SettingsService) Credentials(ctx context.Context) entities.RepoCredentials {
	return localstore.Get(ctx, s.local, entities.KeyRepoCredentials, entities.RepoCredentials{})
}

// SaveCredentials replaces the stored repository credentials. An empty token, or the masked
// form handed out by Redacted, keeps the stored token.
func (s *SettingsService) SaveCredentials(ctx context.Context, creds entities.RepoCredentials) (entities.RepoCredentials, error) {
	creds.Owner = strings.TrimSpace(creds.Owner)
	creds.Repo = strings.TrimSpace(creds.Repo)
	creds.Token = strings.TrimSpace(creds.Token)

	stored := s.Credentials(ctx)
	if stored.Token != "" && (creds.Token == "" || creds.Token == stored.Redacted().Token) {
		creds.Token = stored.Token
	}

	if err := s.validate.Struct(creds); err != nil {
		return entities.RepoCredentials{}, fmt.Errorf("invalid credentials: %w", err)
	}

	if err := s.local.Set(ctx, entities.KeyRepoCredentials, creds); err != nil {
		return entities.RepoCredentials{}, err
	}

	s.logger.Infow("Repository credentials saved", "owner", creds.Owner, "repo", creds.Repo, "token_set", creds.Token != "")
	return creds, nil
}

// ClearCredentials forgets the repository credentials
func (s *SettingsService) ClearCredentials(ctx context.Context) error {
	return s.local.Remove(ctx, entities.KeyRepoCredentials)
}

// ClassOptions lists the selectable classes of the current dataset
func (s *SettingsService) ClassOptions() []string {
	return ClassOptions(s.state.Dataset())
}

// ClassOptions lists the classes of ds, or a fixed list when it has none
func ClassOptions(ds *entities.Dataset) []string {
	if ds != nil {
		if ids := ds.Schedule.ClassIDs(); len(ids) > 0 {
			return ids
		}
	}
	return append([]string(nil), fallbackClassIDs...)
}
