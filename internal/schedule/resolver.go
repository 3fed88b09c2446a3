// Package schedule resolves bank open/closed state for a calendar date from
// the weekly template.
package schedule

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/samanbandara/bank/internal/models"
	"github.com/samanbandara/bank/internal/store"
)

const (
	DefaultOpenTime  = "09:00"
	DefaultCloseTime = "17:00"
)

// Window is the resolved operating window for one date. Degraded marks a
// fail-open result produced because the schedule store was unreachable;
// intake must keep working on a broken schedule store.
type Window struct {
	Open      bool
	OpenTime  string
	CloseTime string
	Degraded  bool
}

func defaultWindow(degraded bool) Window {
	return Window{Open: true, OpenTime: DefaultOpenTime, CloseTime: DefaultCloseTime, Degraded: degraded}
}

type Resolver struct {
	schedules store.ScheduleStore
	log       zerolog.Logger
}

func NewResolver(schedules store.ScheduleStore, log zerolog.Logger) *Resolver {
	return &Resolver{schedules: schedules, log: log}
}

// Resolve returns the operating window for the date's weekday. A missing
// schedule, an unmapped day, or an unparseable date all yield the default
// window; a storage error additionally sets Degraded.
func (r *Resolver) Resolve(ctx context.Context, date string) Window {
	sched, found, err := r.schedules.GetSchedule(ctx)
	if err != nil {
		r.log.Warn().Err(err).Str("date", date).Msg("schedule lookup failed, failing open")
		return defaultWindow(true)
	}
	if !found {
		return defaultWindow(false)
	}

	idx, ok := DayIndex(date)
	if !ok {
		return defaultWindow(false)
	}
	for _, day := range sched.Days {
		if day.DayIndex != idx {
			continue
		}
		win := Window{Open: day.Open, OpenTime: day.OpenTime, CloseTime: day.CloseTime}
		if win.OpenTime == "" {
			win.OpenTime = DefaultOpenTime
		}
		if win.CloseTime == "" {
			win.CloseTime = DefaultCloseTime
		}
		return win
	}
	return defaultWindow(false)
}

// DayIndex maps a YYYY-MM-DD date to the schedule's weekday index,
// Monday=0..Sunday=6.
func DayIndex(date string) (int, bool) {
	t, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return 0, false
	}
	return (int(t.Weekday()) + 6) % 7, true
}

var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// NormalizeDays fills a full 7-day template, defaulting unmapped days to
// open 09:00-17:00.
func NormalizeDays(days []models.DayWindow) []models.DayWindow {
	byIndex := make(map[int]models.DayWindow, len(days))
	for _, d := range days {
		if d.DayIndex < 0 || d.DayIndex > 6 {
			continue
		}
		if d.OpenTime == "" {
			d.OpenTime = DefaultOpenTime
		}
		if d.CloseTime == "" {
			d.CloseTime = DefaultCloseTime
		}
		if d.DayName == "" {
			d.DayName = dayNames[d.DayIndex]
		}
		byIndex[d.DayIndex] = d
	}

	out := make([]models.DayWindow, 7)
	for i := 0; i < 7; i++ {
		if d, ok := byIndex[i]; ok {
			out[i] = d
			continue
		}
		out[i] = models.DayWindow{
			DayIndex:  i,
			DayName:   dayNames[i],
			Open:      true,
			OpenTime:  DefaultOpenTime,
			CloseTime: DefaultCloseTime,
		}
	}
	return out
}
