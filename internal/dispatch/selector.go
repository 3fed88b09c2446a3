package dispatch

import (
	"sort"
	"time"

	"github.com/samanbandara/bank/internal/models"
)

// SelectCounter picks exactly one counter for the requested service codes.
// Counters must arrive with their supported services already normalized;
// load is today's per-counter ticket count and online the per-counter button
// liveness. The pipeline narrows the survivor set stage by stage, skipping
// any stage that would eliminate every survivor, and is deterministic for a
// fixed snapshot.
func SelectCounter(counters []models.Counter, requested []string, load map[string]int, online map[string]bool) (models.Counter, error) {
	if len(counters) == 0 {
		return models.Counter{}, ErrNoCounters
	}

	var coversAll, coversSome []models.Counter
	for _, c := range counters {
		supported := toSet(c.SupportedServices)
		all := true
		some := false
		for _, code := range requested {
			if supported[code] {
				some = true
			} else {
				all = false
			}
		}
		switch {
		case all && some:
			coversAll = append(coversAll, c)
		case some:
			coversSome = append(coversSome, c)
		}
	}

	survivors := coversAll
	if len(survivors) == 0 {
		survivors = coversSome
	}
	if len(survivors) == 0 {
		return models.Counter{}, ErrNoCoverage
	}

	// The first requested service decides the venue when anyone serves it.
	if len(requested) > 0 {
		first := requested[0]
		var affine []models.Counter
		for _, c := range survivors {
			if toSet(c.SupportedServices)[first] {
				affine = append(affine, c)
			}
		}
		if len(affine) > 0 {
			survivors = affine
		}
	}

	// Prefer counters whose button device is online, but never block
	// assignment when no device data exists.
	var live []models.Counter
	for _, c := range survivors {
		if online[c.CounterID] {
			live = append(live, c)
		}
	}
	if len(live) > 0 {
		survivors = live
	}

	sort.Slice(survivors, func(i, j int) bool {
		li, lj := load[survivors[i].CounterID], load[survivors[j].CounterID]
		if li != lj {
			return li < lj
		}
		ti := assignedAt(survivors[i])
		tj := assignedAt(survivors[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return survivors[i].CounterID < survivors[j].CounterID
	})
	return survivors[0], nil
}

// assignedAt treats a never-assigned counter as oldest.
func assignedAt(c models.Counter) time.Time {
	if c.LastAssignedAt == nil {
		return time.Time{}
	}
	return *c.LastAssignedAt
}

func toSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, code := range codes {
		set[code] = true
	}
	return set
}
