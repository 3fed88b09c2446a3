package dispatch

import (
	"testing"
	"time"

	"github.com/samanbandara/bank/internal/schedule"
)

func TestEstimateETAEmptyQueueAtOpening(t *testing.T) {
	win := schedule.Window{Open: true, OpenTime: "09:00", CloseTime: "17:00"}
	now := time.Date(2024, 4, 30, 12, 0, 0, 0, time.Local)
	got := EstimateETA("2024-05-01", win, 0, 8, now)
	if got != "09:00" {
		t.Fatalf("got %s, want 09:00", got)
	}
}

func TestEstimateETADepthAddsHandlingTime(t *testing.T) {
	win := schedule.Window{Open: true, OpenTime: "09:00", CloseTime: "17:00"}
	now := time.Date(2024, 4, 30, 12, 0, 0, 0, time.Local)
	got := EstimateETA("2024-05-01", win, 3, 10, now)
	if got != "09:30" {
		t.Fatalf("got %s, want 09:30", got)
	}
}

func TestEstimateETATodayPastOpeningStartsNow(t *testing.T) {
	win := schedule.Window{Open: true, OpenTime: "09:00", CloseTime: "17:00"}
	now := time.Date(2024, 5, 1, 11, 15, 0, 0, time.Local)
	got := EstimateETA("2024-05-01", win, 2, 5, now)
	if got != "11:25" {
		t.Fatalf("got %s, want 11:25", got)
	}
}

func TestEstimateETATodayBeforeOpeningUsesOpening(t *testing.T) {
	win := schedule.Window{Open: true, OpenTime: "09:00", CloseTime: "17:00"}
	now := time.Date(2024, 5, 1, 7, 0, 0, 0, time.Local)
	got := EstimateETA("2024-05-01", win, 0, 5, now)
	if got != "09:00" {
		t.Fatalf("got %s, want 09:00", got)
	}
}

func TestEstimateETAMonotonicInDepth(t *testing.T) {
	win := schedule.Window{Open: true, OpenTime: "09:00", CloseTime: "17:00"}
	now := time.Date(2024, 4, 30, 12, 0, 0, 0, time.Local)
	prev := EstimateETA("2024-05-01", win, 0, 7, now)
	for depth := 1; depth <= 5; depth++ {
		next := EstimateETA("2024-05-01", win, depth, 7, now)
		if next < prev {
			t.Fatalf("depth %d gave %s, earlier than %s at depth %d", depth, next, prev, depth-1)
		}
		prev = next
	}
}

func TestEstimateETAEmptyOpenTimeFallsBack(t *testing.T) {
	win := schedule.Window{Open: true}
	now := time.Date(2024, 4, 30, 12, 0, 0, 0, time.Local)
	got := EstimateETA("2024-05-01", win, 0, 5, now)
	if got != schedule.DefaultOpenTime {
		t.Fatalf("got %s, want %s", got, schedule.DefaultOpenTime)
	}
}

func TestTokenSequence(t *testing.T) {
	want := []string{"T-20240501-001", "T-20240501-002", "T-20240501-003"}
	for issued, w := range want {
		if got := Token("2024-05-01", issued); got != w {
			t.Fatalf("Token(%d) = %s, want %s", issued, got, w)
		}
	}
}

func TestTokenPadsToThreeDigits(t *testing.T) {
	if got := Token("2024-12-31", 99); got != "T-20241231-100" {
		t.Fatalf("got %s, want T-20241231-100", got)
	}
	if got := Token("2024-12-31", 999); got != "T-20241231-1000" {
		t.Fatalf("got %s, want T-20241231-1000", got)
	}
}
