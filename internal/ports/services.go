package ports

import (
	"context"
	"time"

	"github.com/classdash/core/internal/domain/entities"
)

// DatasetFetcher pulls the shared dataset. It never fails outward.
type DatasetFetcher interface {
	Fetch(ctx context.Context) *FetchResult
}

// DatasetPublisher writes the shared dataset upstream.
type DatasetPublisher interface {
	Publish(ctx context.Context, dataset *entities.Dataset) (*PublishResult, error)
}

// FetchResult is the outcome of a dataset fetch. When Fallback is set, Dataset holds the
// embedded defaults and Reason explains why the source was not used.
type FetchResult struct {
	Dataset  *entities.Dataset `json:"dataset"`
	Source   string            `json:"source"`
	Fallback bool              `json:"fallback"`
	Reason   error             `json:"-"`
}

// ReasonText is the fallback reason for display, empty on success.
func (r *FetchResult) ReasonText() string {
	if r == nil || r.Reason == nil {
		return ""
	}
	return r.Reason.Error()
}

// PublishResult is what the admin sees after a publish attempt.
type PublishResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Revision string `json:"revision,omitempty"`
}

// Claims is what an admin session token asserts.
type Claims struct {
	Subject   string    `json:"sub"`
	SessionID string    `json:"sid"`
	ExpiresAt time.Time `json:"exp"`
}

// Request types

type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type AddTodoRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

type PomodoroConfigRequest struct {
	WorkMinutes  int `json:"workMinutes" validate:"required,min=1,max=180"`
	BreakMinutes int `json:"breakMinutes" validate:"required,min=1,max=180"`
}

type TimingsRequest struct {
	Timings []entities.Timing `json:"timings" validate:"required,min=1,dive"`
}

type DayScheduleRequest struct {
	Periods map[string]string `json:"periods" validate:"required,dive,keys,numeric,endkeys,max=64"`
}

type AddTestRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type DatasetRequest struct {
	Timings  []entities.Timing `json:"timings" validate:"required,min=1,dive"`
	Schedule entities.Schedule `json:"schedule" validate:"required"`
	Tests    []AddTestRequest  `json:"tests" validate:"required,dive"`
}

// Dataset converts the request into a domain dataset.
func (r DatasetRequest) Dataset() *entities.Dataset {
	ds := &entities.Dataset{
		Timings:  append([]entities.Timing{}, r.Timings...),
		Schedule: r.Schedule,
		Tests:    make([]entities.Test, 0, len(r.Tests)),
	}
	for _, t := range r.Tests {
		ds.Tests = append(ds.Tests, entities.Test{Name: t.Name, Date: t.Date})
	}
	return ds.Clone()
}
