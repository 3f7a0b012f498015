package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classdash/core/internal/application/state"
	"github.com/classdash/core/internal/domain/entities"
	"github.com/classdash/core/internal/infrastructure/config"
	"github.com/classdash/core/internal/ports"
)

// 2024-04-01 is a Monday
func mondayAt(hour, minute int) time.Time {
	return time.Date(2024, 4, 1, hour, minute, 0, 0, tokyo)
}

func TestGreeting(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, GreetingMorning},
		{9, GreetingMorning},
		{10, GreetingDay},
		{18, GreetingDay},
		{19, GreetingEvening},
		{23, GreetingEvening},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Greeting(tt.hour), "hour %d", tt.hour)
	}
}

func TestBuildViewDuringClass(t *testing.T) {
	view := BuildView(entities.DefaultDataset(), entities.DefaultUserSettings(), mondayAt(9, 0))

	assert.Equal(t, "09:00:00", view.Clock)
	assert.Equal(t, "Mon", view.Weekday)
	assert.Equal(t, GreetingMorning, view.Greeting)
	assert.Equal(t, "21HR", view.ClassID)
	assert.False(t, view.NoClasses)
	require.Len(t, view.Periods, 7)

	assert.True(t, view.Periods[0].Current)
	assert.Equal(t, "国語", view.Periods[0].Subject)
	assert.Equal(t, "08:50", view.Periods[0].Start)
	for _, p := range view.Periods[1:] {
		assert.False(t, p.Current, "period %d", p.Period)
	}

	assert.Equal(t, NextClassView{Label: "国語", Period: 1, Start: "08:50", InProgress: true}, view.NextClass)
}

func TestBuildViewNextClass(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want NextClassView
	}{
		{name: "before school", at: mondayAt(7, 30), want: NextClassView{Label: "国語", Period: 1, Start: "08:50"}},
		{name: "between periods", at: mondayAt(9, 45), want: NextClassView{Label: "数学", Period: 2, Start: "09:50"}},
		{name: "period end is exclusive", at: mondayAt(9, 40), want: NextClassView{Label: "数学", Period: 2, Start: "09:50"}},
		{name: "last period", at: mondayAt(18, 0), want: NextClassView{Label: "HR", Period: 7, Start: "16:50", InProgress: true}},
		{name: "after school", at: mondayAt(18, 30), want: NextClassView{Label: NoNextClassLabel}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := BuildView(entities.DefaultDataset(), entities.DefaultUserSettings(), tt.at)
			assert.Equal(t, tt.want, view.NextClass)
		})
	}
}

func TestBuildViewNoClasses(t *testing.T) {
	sunday := time.Date(2024, 3, 31, 12, 0, 0, 0, tokyo)
	view := BuildView(entities.DefaultDataset(), entities.DefaultUserSettings(), sunday)
	assert.True(t, view.NoClasses)
	assert.Empty(t, view.Periods)
	assert.Equal(t, NoNextClassLabel, view.NextClass.Label)

	unknownClass := BuildView(entities.DefaultDataset(), entities.UserSettings{ClassID: "99HR"}, mondayAt(9, 0))
	assert.True(t, unknownClass.NoClasses)
}

func TestBuildViewSkipsGaps(t *testing.T) {
	ds := entities.DefaultDataset()
	ds.Schedule["21HR"]["Wed"] = map[string]string{"2": "数学", "5": "体育", "9": "ignored"}
	wednesday := time.Date(2024, 4, 3, 8, 0, 0, 0, tokyo)

	view := BuildView(ds, entities.DefaultUserSettings(), wednesday)
	require.Len(t, view.Periods, 2)
	assert.Equal(t, 2, view.Periods[0].Period)
	assert.Equal(t, 5, view.Periods[1].Period)
	assert.Equal(t, "13:30", view.Periods[1].Start)
}

func TestNextTest(t *testing.T) {
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, tokyo)

	tests := []struct {
		name  string
		tests []entities.Test
		want  CountdownView
	}{
		{
			name: "no tests",
			want: CountdownView{Name: NoUpcomingTest, Days: NoCountdownDays},
		},
		{
			name:  "only past and invalid",
			tests: []entities.Test{{Name: "Old", Date: "2024-03-01"}, {Name: "Today", Date: "2024-04-01"}, {Name: "Bad", Date: "soon"}},
			want:  CountdownView{Name: NoUpcomingTest, Days: NoCountdownDays},
		},
		{
			name:  "rounds partial days up",
			tests: []entities.Test{{Name: "Quiz", Date: "2024-04-03"}},
			want:  CountdownView{Name: "Quiz", Days: "2", Date: "2024-04-03"},
		},
		{
			name: "earliest wins regardless of order",
			tests: []entities.Test{
				{Name: "Final", Date: "2024-07-20"},
				{Name: "Midterm", Date: "2024-05-15"},
				{Name: "Past", Date: "2024-01-10"},
			},
			want: CountdownView{Name: "Midterm", Days: "44", Date: "2024-05-15"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextTest(tt.tests, now))
		})
	}
}

func TestNextTestFarFuture(t *testing.T) {
	got := NextTest([]entities.Test{{Name: "Midterm", Date: "2099-01-01"}}, time.Now().In(tokyo))
	assert.Equal(t, "Midterm", got.Name)
	assert.NotEqual(t, NoCountdownDays, got.Days)
	assert.False(t, strings.HasPrefix(got.Days, "-"))
}

func TestCalendar(t *testing.T) {
	hint := Calendar(entities.UserSettings{ClassID: "21HR"}, tokyo)
	assert.False(t, hint.Configured)
	assert.Equal(t, CalendarHint, hint.Hint)

	cal := Calendar(entities.UserSettings{ClassID: "21HR", ICalURL: "student@gmail.com"}, tokyo)
	require.True(t, cal.Configured)

	u, err := url.Parse(cal.EmbedURL)
	require.NoError(t, err)
	assert.Equal(t, "calendar.google.com", u.Host)
	q := u.Query()
	assert.Equal(t, "student@gmail.com", q.Get("src"))
	assert.Equal(t, "Asia/Tokyo", q.Get("ctz"))
	assert.Equal(t, "AGENDA", q.Get("mode"))
	assert.Equal(t, "0", q.Get("showTitle"))
	assert.Equal(t, "#FFFFFF", q.Get("bgcolor"))
}

func TestClassOptions(t *testing.T) {
	assert.Equal(t, []string{"21HR"}, ClassOptions(entities.DefaultDataset()))
	assert.Equal(t, []string{"21HR", "22HR", "23HR"}, ClassOptions(&entities.Dataset{Schedule: entities.Schedule{}}))
	assert.Equal(t, []string{"21HR", "22HR", "23HR"}, ClassOptions(nil))
}

func newDashboard(t *testing.T, fetcher ports.DatasetFetcher) (*DashboardService, *state.Store) {
	t.Helper()
	st := state.New()
	svc := NewDashboardService(st, fetcher, NewPomodoroService(25, 5, nil, nopLogger),
		config.DashboardConfig{Timezone: "Asia/Tokyo", TickInterval: 10 * time.Millisecond}, nopLogger)
	svc.now = func() time.Time { return mondayAt(9, 0).UTC() }
	return svc, st
}

func TestDashboardRefresh(t *testing.T) {
	fetched := entities.DefaultDataset()
	fetched.Tests = []entities.Test{{Name: "Midterm", Date: "2099-01-01"}}
	fetcher := &stubFetcher{result: &ports.FetchResult{Dataset: fetched, Source: "https://raw.example.com/data.json"}}

	svc, st := newDashboard(t, fetcher)
	res := svc.Refresh(context.Background())

	assert.Equal(t, 1, fetcher.calls)
	assert.False(t, res.Fallback)
	assert.Equal(t, fetched.Tests, st.Dataset().Tests)
}

func TestDashboardView(t *testing.T) {
	svc, _ := newDashboard(t, nil)

	view := svc.View(svc.Now())
	assert.Equal(t, "09:00:00", view.Clock)
	require.NotNil(t, view.Pomodoro)
	assert.Equal(t, "25:00", view.Pomodoro.Display)
	assert.Equal(t, entities.PomodoroModeWork, view.Pomodoro.Mode)
}

func TestDashboardWatch(t *testing.T) {
	svc, st := newDashboard(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var classes []string
	err := svc.Watch(ctx, func(v *DashboardView) error {
		classes = append(classes, v.ClassID)
		if len(classes) == 1 {
			st.SetSettings(entities.UserSettings{ClassID: "22HR"})
		}
		if v.ClassID == "22HR" {
			cancel()
		}
		return nil
	})

	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.Equal(t, "21HR", classes[0])
	assert.Equal(t, "22HR", classes[len(classes)-1])
}

func TestDashboardWatchStopsOnCallbackError(t *testing.T) {
	svc, _ := newDashboard(t, nil)
	boom := errors.New("client gone")

	calls := 0
	err := svc.Watch(context.Background(), func(*DashboardView) error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}
