package services

import (
	"context"
	"math"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/classdash/core/internal/application/state"
	"github.com/classdash/core/internal/domain/entities"
	"github.com/classdash/core/internal/infrastructure/config"
	"github.com/classdash/core/internal/infrastructure/logger"
	"github.com/classdash/core/internal/ports"
)

// Presenter texts
const (
	GreetingMorning = "Good morning!"
	GreetingEvening = "Good work today."
	GreetingDay     = "Let's do our best today!"

	NoUpcomingTest   = "No upcoming test"
	NoCountdownDays  = "-"
	NoNextClassLabel = "----"
	CalendarHint     = "Enter your Gmail address (calendar id) in the settings to show your calendar."
)

const calendarEmbedBase = "https://calendar.google.com/calendar/embed"

// DashboardView is everything the dashboard shows at one instant
type DashboardView struct {
	GeneratedAt  time.Time     `json:"generatedAt"`
	Clock        string        `json:"clock"`
	Date         string        `json:"date"`
	Weekday      string        `json:"weekday"`
	Greeting     string        `json:"greeting"`
	ClassID      string        `json:"classId"`
	Periods      []PeriodView  `json:"periods"`
	NoClasses    bool          `json:"noClasses"`
	NextClass    NextClassView `json:"nextClass"`
	Countdown    CountdownView `json:"countdown"`
	Calendar     CalendarView  `json:"calendar"`
	ClassOptions []string      `json:"classOptions"`
	Pomodoro     *PomodoroView `json:"pomodoro,omitempty"`
}

// PeriodView is one scheduled period of today
type PeriodView struct {
	Period  int    `json:"period"`
	Subject string `json:"subject"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
	Current bool   `json:"current"`
}

// NextClassView is the class in progress or the next one today
type NextClassView struct {
	Label      string `json:"label"`
	Period     int    `json:"period,omitempty"`
	Start      string `json:"start,omitempty"`
	InProgress bool   `json:"inProgress"`
}

// CountdownView is the nearest upcoming test
type CountdownView struct {
	Name string `json:"name"`
	Days string `json:"days"`
	Date string `json:"date,omitempty"`
}

// CalendarView points at the user's embedded calendar
type CalendarView struct {
	Configured bool   `json:"configured"`
	EmbedURL   string `json:"embedUrl,omitempty"`
	Hint       string `json:"hint,omitempty"`
}

// PomodoroView is the timer as displayed
type PomodoroView struct {
	entities.PomodoroState
	Display string `json:"display"`
}

// DashboardService derives the dashboard from the owned state and the clock
type DashboardService struct {
	state    *state.Store
	fetcher  ports.DatasetFetcher
	pomodoro *PomodoroService
	logger   *logger.Logger
	loc      *time.Location
	interval time.Duration
	now      func() time.Time
}

// NewDashboardService creates a presenter. pomodoro may be nil.
func NewDashboardService(st *state.Store, fetcher ports.DatasetFetcher, pomodoro *PomodoroService, cfg config.DashboardConfig, log *logger.Logger) *DashboardService {
	interval := cfg.TickInterval
	if interval <= 0 {
		interval = time.Second
	}
	return &DashboardService{
		state:    st,
		fetcher:  fetcher,
		pomodoro: pomodoro,
		logger:   log.WithComponent("dashboard"),
		loc:      cfg.Location(),
		interval: interval,
		now:      time.Now,
	}
}

// Refresh fetches the shared dataset and makes it current. Unpublished admin edits are discarded.
func (s *DashboardService) Refresh(ctx context.Context) *ports.FetchResult {
	result := s.fetcher.Fetch(ctx)
	s.state.SetDataset(result.Dataset)
	s.logger.Infow("Dataset refreshed",
		"source", result.Source,
		"fallback", result.Fallback,
		"reason", result.ReasonText(),
	)
	return result
}

// Now returns the current time in the dashboard timezone
func (s *DashboardService) Now() time.Time {
	return s.now().In(s.loc)
}

// View renders the dashboard at now
func (s *DashboardService) View(now time.Time) *DashboardView {
	ds, settings := s.state.Snapshot()
	view := BuildView(ds, settings, now.In(s.loc))
	if s.pomodoro != nil {
		p := s.pomodoro.State()
		view.Pomodoro = &PomodoroView{PomodoroState: p, Display: p.Display()}
	}
	return view
}

// Watch calls fn with a fresh view on every tick and after every state change until ctx ends
func (s *DashboardService) Watch(ctx context.Context, fn func(*DashboardView) error) error {
	changes, unsubscribe := s.state.Subscribe()
	defer unsubscribe()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if err := fn(s.View(s.now())); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-changes:
		}
		if err := fn(s.View(s.now())); err != nil {
			return err
		}
	}
}

// BuildView is the pure presenter. now must already be in the display timezone.
func BuildView(ds *entities.Dataset, settings entities.UserSettings, now time.Time) *DashboardView {
	if ds == nil {
		ds = entities.DefaultDataset()
	}

	weekday := entities.WeekdayKeys[now.Weekday()]
	view := &DashboardView{
		GeneratedAt:  now,
		Clock:        now.Format("15:04:05"),
		Date:         now.Format("Monday, January 2, 2006"),
		Weekday:      weekday,
		Greeting:     Greeting(now.Hour()),
		ClassID:      settings.ClassID,
		ClassOptions: ClassOptions(ds),
		Countdown:    NextTest(ds.Tests, now),
		Calendar:     Calendar(settings, now.Location()),
	}

	view.Periods = todayPeriods(ds, settings.ClassID, weekday, now)
	view.NoClasses = len(view.Periods) == 0
	view.NextClass = nextClass(view.Periods, now)
	return view
}

// Greeting picks the message for the hour of day
func Greeting(hour int) string {
	switch {
	case hour < 10:
		return GreetingMorning
	case hour > 18:
		return GreetingEvening
	default:
		return GreetingDay
	}
}

func todayPeriods(ds *entities.Dataset, classID, weekday string, now time.Time) []PeriodView {
	subjects := ds.Schedule.Day(classID, weekday)
	periods := make([]PeriodView, 0, entities.MaxPeriods)

	for i := 1; i <= entities.MaxPeriods; i++ {
		subject := subjects[entities.PeriodKey(i)]
		if subject == "" {
			continue
		}
		p := PeriodView{Period: i, Subject: subject}
		if t, ok := ds.TimingFor(i); ok {
			p.Start, p.End = t.Start, t.End
			start, okStart := clockOn(now, t.Start)
			end, okEnd := clockOn(now, t.End)
			p.Current = okStart && okEnd && !now.Before(start) && now.Before(end)
		}
		periods = append(periods, p)
	}
	return periods
}

// nextClass is the first period that has not ended yet
func nextClass(periods []PeriodView, now time.Time) NextClassView {
	for _, p := range periods {
		end, ok := clockOn(now, p.End)
		if !ok || !now.Before(end) {
			continue
		}
		return NextClassView{
			Label:      p.Subject,
			Period:     p.Period,
			Start:      p.Start,
			InProgress: p.Current,
		}
	}
	return NextClassView{Label: NoNextClassLabel}
}

// NextTest finds the earliest test not yet past. Days are whole days rounded up.
func NextTest(tests []entities.Test, now time.Time) CountdownView {
	type dated struct {
		test entities.Test
		at   time.Time
	}

	upcoming := make([]dated, 0, len(tests))
	for _, t := range tests {
		at, err := t.ParseDate(now.Location())
		if err != nil || at.Before(now) {
			continue
		}
		upcoming = append(upcoming, dated{test: t, at: at})
	}
	if len(upcoming) == 0 {
		return CountdownView{Name: NoUpcomingTest, Days: NoCountdownDays}
	}

	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].at.Before(upcoming[j].at) })
	first := upcoming[0]
	days := int(math.Ceil(first.at.Sub(now).Hours() / 24))

	return CountdownView{
		Name: first.test.Name,
		Days: strconv.Itoa(days),
		Date: first.at.Format("2006-01-02"),
	}
}

// Calendar builds the agenda embed for the user's calendar id
func Calendar(settings entities.UserSettings, loc *time.Location) CalendarView {
	id, ok := settings.CalendarID()
	if !ok {
		return CalendarView{Hint: CalendarHint}
	}

	q := url.Values{}
	q.Set("src", id)
	q.Set("ctz", loc.String())
	q.Set("mode", "AGENDA")
	for _, flag := range []string{"showTitle", "showNav", "showPrint", "showTabs", "showCalendars", "showTz"} {
		q.Set(flag, "0")
	}
	q.Set("bgcolor", "#FFFFFF")

	return CalendarView{Configured: true, EmbedURL: calendarEmbedBase + "?" + q.Encode()}
}

func clockOn(day time.Time, hhmm string) (time.Time, bool) {
	t, err := time.ParseInLocation("15:04", hhmm, day.Location())
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, day.Location()), true
}
