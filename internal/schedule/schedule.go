// Package schedule splits appointments into upcoming and past views and lists
// counselor slots for a day.
package schedule

import (
	"sort"
	"time"

	"github.com/pavelanni/wellness/internal/model"
)

// Split partitions appointments relative to now. Upcoming holds scheduled
// appointments starting at or after now, soonest first. Past holds anything
// that started before now or is completed, most recent first. A cancelled
// future appointment is in neither list.
func Split(appointments []model.Appointment, now time.Time) (upcoming, past []model.Appointment) {
	upcoming = []model.Appointment{}
	past = []model.Appointment{}
	for _, a := range appointments {
		if !a.StartsAt.Before(now) && a.Status == model.StatusScheduled {
			upcoming = append(upcoming, a)
		}
		if a.StartsAt.Before(now) || a.Status == model.StatusCompleted {
			past = append(past, a)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].StartsAt.Before(upcoming[j].StartsAt)
	})
	sort.SliceStable(past, func(i, j int) bool {
		return past[i].StartsAt.After(past[j].StartsAt)
	})
	return upcoming, past
}

// Slot is a bookable counselor time.
type Slot struct {
	Time      string    `json:"time"`
	StartsAt  time.Time `json:"starts_at"`
	Available bool      `json:"available"`
}

// SlotLength is the length of one counselor slot.
const SlotLength = time.Hour

var slotHours = []int{9, 10, 11, 14, 15, 16}

// AvailableSlots lists the counselor slots of day in day's location. A slot
// is unavailable when a non-cancelled appointment overlaps it.
func AvailableSlots(day time.Time, appointments []model.Appointment) []Slot {
	y, m, d := day.Date()
	slots := make([]Slot, 0, len(slotHours))
	for _, h := range slotHours {
		start := time.Date(y, m, d, h, 0, 0, 0, day.Location())
		end := start.Add(SlotLength)
		free := true
		for _, a := range appointments {
			if a.Status == model.StatusCancelled {
				continue
			}
			aEnd := a.StartsAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
			if a.StartsAt.Before(end) && aEnd.After(start) {
				free = false
				break
			}
		}
		slots = append(slots, Slot{Time: start.Format("15:04"), StartsAt: start, Available: free})
	}
	return slots
}
