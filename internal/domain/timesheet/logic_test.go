package timesheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeEntryHours(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		breakHours float64
		want       float64
		wantErr    error
	}{
		{name: "full day", start: "09:00", end: "17:30", breakHours: 0.5, want: 8},
		{name: "no break", start: "08:00", end: "16:00", want: 8},
		{name: "overtime day", start: "08:00", end: "19:15", breakHours: 1, want: 10.25},
		{name: "bad start", start: "9am", end: "17:00", wantErr: ErrInvalidTimeFormat},
		{name: "bad end", start: "09:00", end: "25:99", wantErr: ErrInvalidTimeFormat},
		{name: "end equals start", start: "09:00", end: "09:00", wantErr: ErrEndBeforeStart},
		{name: "end before start", start: "17:00", end: "09:00", wantErr: ErrEndBeforeStart},
		{name: "negative break", start: "09:00", end: "17:00", breakHours: -1, wantErr: ErrNegativeBreak},
		{name: "break swallows day", start: "09:00", end: "10:00", breakHours: 2, wantErr: ErrNonPositiveTotal},
		{name: "break exactly swallows day", start: "09:00", end: "10:00", breakHours: 1, wantErr: ErrNonPositiveTotal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hours, err := ComputeEntryHours(tc.start, tc.end, tc.breakHours)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, hours.InexactFloat64())
		})
	}
}

func TestComputeEntryHoursMonotonicInBreak(t *testing.T) {
	shorter, err := ComputeEntryHours("09:00", "17:00", 0.25)
	require.NoError(t, err)
	longer, err := ComputeEntryHours("09:00", "17:00", 1.75)
	require.NoError(t, err)
	assert.True(t, longer.LessThan(shorter), "longer break must strictly decrease hours")
}

func TestSummarizeSplitsOvertime(t *testing.T) {
	entries := []Entry{
		{TotalHours: 6, Status: StatusApproved},
		{TotalHours: 9, Status: StatusPending},
		{TotalHours: 3, Status: StatusRejected},
	}

	summary := Summarize(entries)

	assert.Equal(t, 18.0, summary.TotalHours)
	assert.Equal(t, 17.0, summary.RegularHours)
	assert.Equal(t, 1.0, summary.OvertimeHours)
	assert.Equal(t, 3, summary.DaysWorked)
	assert.Equal(t, 1, summary.ApprovedEntries)
	assert.Equal(t, 1, summary.PendingEntries)
	assert.Equal(t, 1, summary.RejectedEntries)
}

func TestSummarizeRoundsOnceAtTheEnd(t *testing.T) {
	// Three entries of 7h50m (7.8333...) would drift if rounded per entry.
	entries := make([]Entry, 3)
	for i := range entries {
		hours, err := ComputeEntryHours("09:00", "16:50", 0)
		require.NoError(t, err)
		entries[i] = Entry{TotalHours: hours.InexactFloat64(), Status: StatusPending}
	}

	summary := Summarize(entries)
	assert.Equal(t, 23.5, summary.TotalHours)
	assert.Equal(t, 23.5, summary.RegularHours)
	assert.Equal(t, 0.0, summary.OvertimeHours)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, Summary{}, summary)
}

func TestWeekBounds(t *testing.T) {
	// 2024-06-12 is a Wednesday; its week runs Sunday 06-09 .. Saturday 06-15.
	anchor := time.Date(2024, 6, 12, 15, 30, 0, 0, time.UTC)
	start, end := WeekBounds(anchor)
	assert.Equal(t, time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), end)

	// A Sunday anchors its own week.
	start, _ = WeekBounds(time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), start)
}

func TestBuildWeekViewOverlaysByExactDate(t *testing.T) {
	anchor := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{ID: "t-1", Date: time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC), StartTime: "09:00", EndTime: "17:00", TotalHours: 8, Status: StatusApproved},
		// Tuesday of a different week must not collide with this week's Tuesday.
		{ID: "t-2", Date: time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC), StartTime: "10:00", EndTime: "18:00", TotalHours: 8, Status: StatusPending},
	}

	view := BuildWeekView(anchor, entries)

	require.Len(t, view.Entries, 7)
	tuesday := view.Entries[2]
	assert.Equal(t, "t-1", tuesday.ID)
	assert.Equal(t, "09:00", tuesday.StartTime)

	for i, slot := range view.Entries {
		if i == 2 {
			continue
		}
		assert.Empty(t, slot.ID, "slot %d should be empty", i)
		assert.Equal(t, StatusPending, slot.Status)
		assert.Equal(t, view.StartDate.AddDate(0, 0, i), slot.Date)
	}
}
