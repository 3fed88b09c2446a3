package dispatch

import (
	"time"

	"github.com/samanbandara/bank/internal/schedule"
)

// EstimateETA predicts the HH:MM arrival time for a new ticket. The base is
// the day's opening time, or the current time when the target date is today
// and opening has already passed. An empty queue is served at the base; a
// depth-N queue adds N times the average handling minutes.
func EstimateETA(date string, win schedule.Window, queueDepth int, avgMinutes float64, now time.Time) string {
	opening := atTime(date, win.OpenTime, schedule.DefaultOpenTime)

	base := opening
	if sameDay(now, date) && now.After(opening) {
		base = now
	}
	if queueDepth > 0 {
		base = base.Add(time.Duration(float64(queueDepth) * avgMinutes * float64(time.Minute)))
	}
	return base.Format("15:04")
}

// atTime builds a wall-clock instant on the given date from an HH:MM string.
func atTime(date, hhmm, fallback string) time.Time {
	if hhmm == "" {
		hhmm = fallback
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hhmm, time.Local)
	if err != nil {
		t, _ = time.ParseInLocation("2006-01-02 15:04", date+" "+fallback, time.Local)
	}
	return t
}

func sameDay(now time.Time, date string) bool {
	return now.Format("2006-01-02") == date
}
