package payroll_test

import (
	"testing"
	"time"

	"fieldserve/internal/payroll"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func entryAt(day int, hours float64) payroll.EntryHours {
	return payroll.EntryHours{
		EntryID: uuid.New(),
		ClockIn: time.Date(2024, time.March, day, 8, 0, 0, 0, time.UTC),
		Hours:   hours,
	}
}

func TestAllocateEntries_UnderThreshold(t *testing.T) {
	entries := []payroll.EntryHours{entryAt(4, 8), entryAt(5, 4)}

	allocs := payroll.AllocateEntries(entries, payroll.RegularBudget(12), 2000, payroll.OvertimeMultiplier)

	total := int64(0)
	for _, e := range entries {
		alloc := allocs[e.EntryID]
		assert.Equal(t, e.Hours, alloc.RegularHours)
		assert.Zero(t, alloc.OvertimeHours)
		assert.Zero(t, alloc.OvertimePayCents)
		total += alloc.GrossPayCents
	}
	// 12h at $20/h
	assert.Equal(t, int64(24000), total)
}

func TestAllocateEntries_WaterfallSplitsBoundaryEntry(t *testing.T) {
	// 4 x 10h then 5h: the fifth entry starts past the 40h budget.
	entries := []payroll.EntryHours{
		entryAt(4, 10), entryAt(5, 10), entryAt(6, 10), entryAt(7, 10), entryAt(8, 5),
	}

	allocs := payroll.AllocateEntries(entries, payroll.RegularBudget(45), 2000, payroll.OvertimeMultiplier)

	for i, e := range entries[:4] {
		alloc := allocs[e.EntryID]
		assert.Equal(t, 10.0, alloc.RegularHours, "entry %d", i)
		assert.Zero(t, alloc.OvertimeHours, "entry %d", i)
	}

	last := allocs[entries[4].EntryID]
	assert.Zero(t, last.RegularHours)
	assert.Equal(t, 5.0, last.OvertimeHours)
	assert.Equal(t, int64(15000), last.OvertimePayCents) // 5h at $20 x 1.5
	assert.Equal(t, int64(15000), last.GrossPayCents)
}

func TestAllocateEntries_SplitsWithinOneEntry(t *testing.T) {
	// A single 12h entry against a 40h week already holding 32h.
	entries := []payroll.EntryHours{
		entryAt(4, 32),
		entryAt(6, 12),
	}

	allocs := payroll.AllocateEntries(entries, payroll.RegularBudget(44), 1500, payroll.OvertimeMultiplier)

	split := allocs[entries[1].EntryID]
	assert.Equal(t, 8.0, split.RegularHours)
	assert.Equal(t, 4.0, split.OvertimeHours)
	assert.Equal(t, int64(8*1500), split.RegularPayCents)
	assert.Equal(t, int64(4*1500*3/2), split.OvertimePayCents)
}

func TestAllocateEntries_ChronologicalNotInputOrder(t *testing.T) {
	late := entryAt(8, 10)
	early := entryAt(4, 35)

	// Input order reversed; the earlier entry must still drain the budget first.
	allocs := payroll.AllocateEntries([]payroll.EntryHours{late, early}, payroll.RegularBudget(45), 2000, payroll.OvertimeMultiplier)

	assert.Equal(t, 35.0, allocs[early.EntryID].RegularHours)
	assert.Equal(t, 5.0, allocs[late.EntryID].RegularHours)
	assert.Equal(t, 5.0, allocs[late.EntryID].OvertimeHours)
}

func TestAllocateEntries_GrossIsSumOfComponents(t *testing.T) {
	// Fractional hours force sub-cent amounts; gross must equal the sum of
	// the rounded components, never an independently rounded total.
	entries := []payroll.EntryHours{entryAt(4, 7.25), entryAt(5, 7.755)}

	allocs := payroll.AllocateEntries(entries, payroll.RegularBudget(15.005), 1333, payroll.OvertimeMultiplier)

	for _, e := range entries {
		alloc := allocs[e.EntryID]
		assert.Equal(t, alloc.RegularPayCents+alloc.OvertimePayCents, alloc.GrossPayCents)
	}
}

func TestRegularBudget(t *testing.T) {
	assert.Equal(t, 12.0, payroll.RegularBudget(12))
	assert.Equal(t, payroll.OvertimeThresholdHours, payroll.RegularBudget(40))
	assert.Equal(t, payroll.OvertimeThresholdHours, payroll.RegularBudget(45))
}
