package state

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classdash/core/internal/domain/entities"
)

func TestNewStartsWithDefaults(t *testing.T) {
	s := New()
	assert.Equal(t, entities.DefaultDataset(), s.Dataset())
	assert.Equal(t, entities.DefaultUserSettings(), s.Settings())
	assert.Zero(t, s.Version())
}

func TestDatasetIsCopiedInAndOut(t *testing.T) {
	s := New()

	in := entities.DefaultDataset()
	s.SetDataset(in)
	in.Timings[0].Start = "00:00"
	assert.Equal(t, "08:50", s.Dataset().Timings[0].Start)

	out := s.Dataset()
	out.Schedule["21HR"]["Mon"]["1"] = "Changed"
	assert.Equal(t, "国語", s.Dataset().Schedule["21HR"]["Mon"]["1"])
}

func TestUpdateDataset(t *testing.T) {
	s := New()

	_, err := s.UpdateDataset(func(ds *entities.Dataset) error {
		ds.Tests = append(ds.Tests, entities.Test{Name: "Midterm", Date: "2099-01-01"})
		return errors.New("rejected")
	})
	require.Error(t, err)
	assert.Empty(t, s.Dataset().Tests)
	assert.Zero(t, s.Version())

	out, err := s.UpdateDataset(func(ds *entities.Dataset) error {
		ds.Tests = append(ds.Tests, entities.Test{Name: "Midterm", Date: "2099-01-01"})
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, out.Tests, 1)
	assert.Len(t, s.Dataset().Tests, 1)
	assert.Equal(t, uint64(1), s.Version())
}

func TestSubscribe(t *testing.T) {
	s := New()
	ch, cancel := s.Subscribe()

	s.SetSettings(entities.UserSettings{ClassID: "22HR"})
	s.SetSettings(entities.UserSettings{ClassID: "23HR"})

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a change signal")
	}

	// both changes coalesce into one pending signal
	select {
	case <-ch:
		t.Fatal("signals should coalesce")
	default:
	}

	cancel()
	s.SetDataset(entities.DefaultDataset())
	select {
	case <-ch:
		t.Fatal("cancelled subscription must not be signalled")
	default:
	}

	_, settings := s.Snapshot()
	assert.Equal(t, "23HR", settings.ClassID)
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetDataset(entities.DefaultDataset())
		}()
		go func() {
			defer wg.Done()
			_ = s.Dataset()
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(20), s.Version())
}
