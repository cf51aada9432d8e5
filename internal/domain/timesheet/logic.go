package timesheet

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTimeFormat = errors.New("invalid time format")
	ErrEndBeforeStart    = errors.New("end time must be after start time")
	ErrNegativeBreak     = errors.New("invalid break duration")
	ErrNonPositiveTotal  = errors.New("total working hours must be greater than 0")
)

// timeLayout is the wall-clock format entries carry; both times are parsed
// against a common reference date so only the clock portion matters.
const timeLayout = "15:04"

var regularPerDay = decimal.NewFromInt(RegularHoursPerDay)

// ComputeEntryHours derives worked hours from a start/end clock pair and a
// break duration. Exact decimal arithmetic throughout; rounding happens only
// when a summary is presented.
func ComputeEntryHours(startTime, endTime string, breakHours float64) (decimal.Decimal, error) {
	start, err := time.Parse(timeLayout, startTime)
	if err != nil {
		return decimal.Zero, ErrInvalidTimeFormat
	}
	end, err := time.Parse(timeLayout, endTime)
	if err != nil {
		return decimal.Zero, ErrInvalidTimeFormat
	}
	if !end.After(start) {
		return decimal.Zero, ErrEndBeforeStart
	}
	if breakHours < 0 {
		return decimal.Zero, ErrNegativeBreak
	}

	worked := decimal.NewFromInt(int64(end.Sub(start) / time.Minute)).
		Div(decimal.NewFromInt(60)).
		Sub(decimal.NewFromFloat(breakHours))
	if !worked.IsPositive() {
		return decimal.Zero, ErrNonPositiveTotal
	}
	return worked, nil
}

// Summarize aggregates entries into period totals. Per entry, up to
// RegularHoursPerDay counts as regular time and the excess as overtime; any
// entry with positive hours counts as a day worked. Hour totals are rounded
// to two decimals once, at the end.
func Summarize(entries []Entry) Summary {
	var summary Summary
	total := decimal.Zero
	regular := decimal.Zero
	overtime := decimal.Zero

	for _, entry := range entries {
		hours := decimal.NewFromFloat(entry.TotalHours)
		if hours.GreaterThan(regularPerDay) {
			regular = regular.Add(regularPerDay)
			overtime = overtime.Add(hours.Sub(regularPerDay))
		} else {
			regular = regular.Add(hours)
		}
		total = total.Add(hours)

		if hours.IsPositive() {
			summary.DaysWorked++
		}

		switch entry.Status {
		case StatusApproved:
			summary.ApprovedEntries++
		case StatusPending:
			summary.PendingEntries++
		case StatusRejected:
			summary.RejectedEntries++
		}
	}

	summary.TotalHours = total.Round(2).InexactFloat64()
	summary.RegularHours = regular.Round(2).InexactFloat64()
	summary.OvertimeHours = overtime.Round(2).InexactFloat64()
	return summary
}

// WeekBounds returns the Sunday-start week containing anchor, normalized to
// midnight UTC.
func WeekBounds(anchor time.Time) (time.Time, time.Time) {
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)
	start := day.AddDate(0, 0, -int(day.Weekday()))
	return start, start.AddDate(0, 0, 6)
}

// BuildWeekView lays out the week containing anchor as seven day slots and
// overlays entries keyed by exact calendar date, so entries from another week
// can never collide with a slot.
func BuildWeekView(anchor time.Time, entries []Entry) WeekView {
	start, end := WeekBounds(anchor)

	view := WeekView{StartDate: start, EndDate: end, Entries: make([]DaySlot, 7)}
	for i := range view.Entries {
		view.Entries[i] = DaySlot{
			Date:   start.AddDate(0, 0, i),
			Status: StatusPending,
		}
	}

	for _, entry := range entries {
		entryDay := time.Date(entry.Date.Year(), entry.Date.Month(), entry.Date.Day(), 0, 0, 0, 0, time.UTC)
		offset := int(entryDay.Sub(start).Hours() / 24)
		if offset < 0 || offset > 6 {
			continue
		}
		view.Entries[offset] = DaySlot{
			ID:         entry.ID,
			Date:       entry.Date,
			StartTime:  entry.StartTime,
			EndTime:    entry.EndTime,
			BreakHours: entry.BreakHours,
			TotalHours: entry.TotalHours,
			Status:     entry.Status,
		}
	}
	return view
}
