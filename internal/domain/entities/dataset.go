package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Weekday keys used by the schedule, indexed by time.Weekday.
var WeekdayKeys = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// MaxPeriods is the number of periods a school day can hold.
const MaxPeriods = 7

// Timing is the start and end time of one period, both "HH:MM".
type Timing struct {
	Start string `json:"start" validate:"required,datetime=15:04"`
	End   string `json:"end" validate:"required,datetime=15:04"`
}

// UnmarshalJSON accepts both {"start":..,"end":..} and the compact "08:50-09:40" form.
func (t *Timing) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return fmt.Errorf("timing is null")
	}

	var compact string
	if err := json.Unmarshal(data, &compact); err == nil {
		start, end, ok := strings.Cut(compact, "-")
		if !ok {
			return fmt.Errorf("timing %q: expected HH:MM-HH:MM", compact)
		}
		t.Start = strings.TrimSpace(start)
		t.End = strings.TrimSpace(end)
		return nil
	}

	type plain Timing
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Timing(p)
	return nil
}

// Schedule maps class id -> weekday key -> period number -> subject.
type Schedule map[string]map[string]map[string]string

// ClassIDs returns the classes present in the schedule, sorted.
func (s Schedule) ClassIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Day returns the subjects of one class on one weekday. Missing entries yield nil.
func (s Schedule) Day(classID, weekday string) map[string]string {
	return s[classID][weekday]
}

// Test is an upcoming exam.
type Test struct {
	Name string `json:"name" validate:"required,max=100"`
	Date string `json:"date" validate:"required"`
}

// ParseDate resolves the test date in loc. Date-only values mean midnight.
func (t Test) ParseDate(loc *time.Location) (time.Time, error) {
	if d, err := time.ParseInLocation("2006-01-02", t.Date, loc); err == nil {
		return d, nil
	}
	d, err := time.Parse(time.RFC3339, t.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("test %q: invalid date %q", t.Name, t.Date)
	}
	return d.In(loc), nil
}

// Dataset is the shared document published by the admin and read by every viewer.
type Dataset struct {
	Timings  []Timing `json:"timings"`
	Schedule Schedule `json:"schedule"`
	Tests    []Test   `json:"tests"`
}

// CheckShape performs the shallow check applied to fetched documents.
func (d *Dataset) CheckShape() error {
	switch {
	case d == nil:
		return fmt.Errorf("%w: empty document", ErrFetchShape)
	case len(d.Timings) == 0:
		return fmt.Errorf("%w: timings", ErrFetchShape)
	case d.Schedule == nil:
		return fmt.Errorf("%w: schedule", ErrFetchShape)
	case d.Tests == nil:
		return fmt.Errorf("%w: tests", ErrFetchShape)
	}
	return nil
}

// TimingFor returns the timing of a 1-based period.
func (d *Dataset) TimingFor(period int) (Timing, bool) {
	if period < 1 || period > len(d.Timings) {
		return Timing{}, false
	}
	return d.Timings[period-1], true
}

// Clone returns a deep copy.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	out := &Dataset{
		Timings:  append([]Timing(nil), d.Timings...),
		Schedule: make(Schedule, len(d.Schedule)),
		Tests:    append([]Test(nil), d.Tests...),
	}
	if d.Timings != nil && out.Timings == nil {
		out.Timings = []Timing{}
	}
	if d.Tests != nil && out.Tests == nil {
		out.Tests = []Test{}
	}
	if d.Schedule == nil {
		out.Schedule = nil
	}
	for class, days := range d.Schedule {
		dayCopy := make(map[string]map[string]string, len(days))
		for day, periods := range days {
			periodCopy := make(map[string]string, len(periods))
			for p, subject := range periods {
				periodCopy[p] = subject
			}
			dayCopy[day] = periodCopy
		}
		out.Schedule[class] = dayCopy
	}
	return out
}

// EncodeJSON renders the dataset the way it is published: two-space indent, non-ASCII
// and HTML characters left as is.
func (d *Dataset) EncodeJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encode dataset: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// PeriodKey formats a period number as used by schedule maps.
func PeriodKey(period int) string {
	return strconv.Itoa(period)
}

// DefaultDataset returns the built-in dataset. Every call returns a fresh copy.
func DefaultDataset() *Dataset {
	return &Dataset{
		Timings: []Timing{
			{Start: "08:50", End: "09:40"},
			{Start: "09:50", End: "10:40"},
			{Start: "10:50", End: "11:40"},
			{Start: "11:50", End: "12:40"},
			{Start: "13:30", End: "14:20"},
			{Start: "14:30", End: "15:20"},
			{Start: "16:50", End: "18:01"},
		},
		Schedule: Schedule{
			"21HR": {
				"Mon": {"1": "国語", "2": "数学", "3": "英語", "4": "理科", "5": "社会", "6": "体育", "7": "HR"},
				"Tue": {"1": "英語", "2": "数学", "3": "国語", "4": "情報", "5": "芸術", "6": "理科", "7": "総合"},
			},
		},
		Tests: []Test{},
	}
}
