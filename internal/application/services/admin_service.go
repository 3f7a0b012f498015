package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/classdash/core/internal/application/state"
	"github.com/classdash/core/internal/domain/entities"
	"github.com/classdash/core/internal/infrastructure/logger"
	"github.com/classdash/core/internal/ports"
)

// AdminService edits the in-memory dataset and hands it to the publisher.
// Edits are local until Publish succeeds.
type AdminService struct {
	state     *state.Store
	publisher ports.DatasetPublisher
	validate  *validator.Validate
	logger    *logger.Logger
}

// NewAdminService creates an admin service
func NewAdminService(st *state.Store, publisher ports.DatasetPublisher, log *logger.Logger) *AdminService {
	return &AdminService{
		state:     st,
		publisher: publisher,
		validate:  validator.New(),
		logger:    log.WithComponent("admin"),
	}
}

// Dataset returns a copy of the dataset being edited
func (s *AdminService) Dataset() *entities.Dataset {
	return s.state.Dataset()
}

// ReplaceDataset swaps the whole dataset
func (s *AdminService) ReplaceDataset(req ports.DatasetRequest) (*entities.Dataset, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}

	ds := req.Dataset()
	if err := ds.CheckShape(); err != nil {
		return nil, err
	}

	s.state.SetDataset(ds)
	s.logger.LogAdminAction("replace_dataset", map[string]interface{}{
		"timings": len(ds.Timings),
		"classes": len(ds.Schedule),
		"tests":   len(ds.Tests),
	})
	return s.state.Dataset(), nil
}

// SetTimings replaces the period timings
func (s *AdminService) SetTimings(req ports.TimingsRequest) (*entities.Dataset, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid timings: %w", err)
	}

	ds, err := s.state.UpdateDataset(func(ds *entities.Dataset) error {
		ds.Timings = append([]entities.Timing{}, req.Timings...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogAdminAction("set_timings", map[string]interface{}{"count": len(req.Timings)})
	return ds, nil
}

// SetDaySchedule replaces the subjects of one class on one weekday. An empty map clears the day.
func (s *AdminService) SetDaySchedule(classID, weekday string, req ports.DayScheduleRequest) (*entities.Dataset, error) {
	classID = strings.TrimSpace(classID)
	if classID == "" {
		return nil, fmt.Errorf("class id is required")
	}
	if !isWeekdayKey(weekday) {
		return nil, fmt.Errorf("unknown weekday %q", weekday)
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid schedule: %w", err)
	}

	periods := make(map[string]string, len(req.Periods))
	for k, subject := range req.Periods {
		subject = strings.TrimSpace(subject)
		if subject == "" {
			continue
		}
		periods[k] = subject
	}

	ds, err := s.state.UpdateDataset(func(ds *entities.Dataset) error {
		if ds.Schedule == nil {
			ds.Schedule = entities.Schedule{}
		}
		days := ds.Schedule[classID]
		if days == nil {
			days = map[string]map[string]string{}
			ds.Schedule[classID] = days
		}
		if len(periods) == 0 {
			delete(days, weekday)
		} else {
			days[weekday] = periods
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogAdminAction("set_schedule", map[string]interface{}{
		"class":   classID,
		"weekday": weekday,
		"periods": len(periods),
	})
	return ds, nil
}

// AddTest appends an upcoming test
func (s *AdminService) AddTest(req ports.AddTestRequest) (*entities.Dataset, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid test: %w", err)
	}

	ds, err := s.state.UpdateDataset(func(ds *entities.Dataset) error {
		ds.Tests = append(ds.Tests, entities.Test{Name: req.Name, Date: req.Date})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogAdminAction("add_test", map[string]interface{}{"name": req.Name, "date": req.Date})
	return ds, nil
}

// RemoveTest deletes every test with the given name
func (s *AdminService) RemoveTest(name string) (*entities.Dataset, error) {
	ds, err := s.state.UpdateDataset(func(ds *entities.Dataset) error {
		kept := make([]entities.Test, 0, len(ds.Tests))
		for _, t := range ds.Tests {
			if t.Name != name {
				kept = append(kept, t)
			}
		}
		if len(kept) == len(ds.Tests) {
			return entities.ErrTestNotFound
		}
		ds.Tests = kept
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogAdminAction("remove_test", map[string]interface{}{"name": name})
	return ds, nil
}

// Publish writes the current dataset upstream. The in-memory dataset is left untouched.
func (s *AdminService) Publish(ctx context.Context) (*ports.PublishResult, error) {
	ds := s.state.Dataset()
	result, err := s.publisher.Publish(ctx, ds)
	s.logger.LogAdminAction("publish", map[string]interface{}{
		"success": result != nil && result.Success,
	})
	return result, err
}

func isWeekdayKey(key string) bool {
	for _, k := range entities.WeekdayKeys {
		if k == key {
			return true
		}
	}
	return false
}
