package engine

import (
	"fmt"

	"github.com/djibril1212/EasyBooking/pkg/model"
)

// ComputeAvailability derives the hourly slot view for one room and
// date from its upcoming bookings. With the default business day this
// yields 12 slots, [08:00,09:00) through [19:00,20:00), in ascending
// start order. A slot is unavailable iff it overlaps any upcoming
// booking. Derived view only; nothing is stored.
func (e *Engine) ComputeAvailability(existing []model.Booking) []model.TimeSlot {
	slots := make([]model.TimeSlot, 0, e.slotCloseHour-e.slotOpenHour)

	for hour := e.slotOpenHour; hour < e.slotCloseHour; hour++ {
		start := fmt.Sprintf("%02d:00", hour)
		end := fmt.Sprintf("%02d:00", hour+1)

		booked := false
		for _, b := range existing {
			if b.Status != model.StatusUpcoming {
				continue
			}
			if Overlaps(start, end, b.StartTime, b.EndTime) {
				booked = true
				break
			}
		}

		slots = append(slots, model.TimeSlot{
			Start:     start,
			End:       end,
			Available: !booked,
		})
	}

	return slots
}
