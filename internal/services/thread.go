package services

import (
	"time"

	"github.com/booknest/booknest-server/internal/dto"
)

const dayLabelLayout = "02/01/2006"

// GroupByDay splits an ordered thread into runs of messages sent on the
// same calendar day in now's location. Labels are relative to now.
func GroupByDay(msgs []dto.MessageItem, now time.Time) []dto.DayGroup {
	groups := []dto.DayGroup{}
	loc := now.Location()
	today := startOfDay(now)
	yesterday := today.AddDate(0, 0, -1)

	var current time.Time
	for _, m := range msgs {
		day := startOfDay(m.SentAt.In(loc))
		if len(groups) == 0 || !day.Equal(current) {
			current = day
			groups = append(groups, dto.DayGroup{Label: dayLabel(day, today, yesterday)})
		}
		last := &groups[len(groups)-1]
		last.Messages = append(last.Messages, m)
	}
	return groups
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func dayLabel(day, today, yesterday time.Time) string {
	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(yesterday):
		return "Yesterday"
	default:
		return day.Format(dayLabelLayout)
	}
}
