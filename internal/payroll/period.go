package payroll

import "time"

// ResolvePeriod returns the most recent fully completed pay period relative
// to today, given the configured weekday anchors (Sunday = 0). The end date
// walks back from today to the nearest occurrence of endDay (today itself
// counts), and the start date is derived from the anchor distance, so
// wrap-around weeks (e.g. Wednesday to Tuesday) resolve correctly.
func ResolvePeriod(today time.Time, startDay, endDay time.Weekday) (periodStart, periodEnd time.Time) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	back := (int(day.Weekday()) - int(endDay) + 7) % 7
	periodEnd = day.AddDate(0, 0, -back)

	length := int(endDay) - int(startDay)
	if length < 0 {
		length += 7
	}
	periodStart = periodEnd.AddDate(0, 0, -length)
	return periodStart, periodEnd
}
