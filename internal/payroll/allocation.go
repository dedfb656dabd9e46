package payroll

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	// OvertimeThresholdHours is the weekly regular-hour budget per employee.
	OvertimeThresholdHours = 40.0
	// OvertimeMultiplier applies to hours past the threshold.
	OvertimeMultiplier = 1.5
)

// EntryHours is the allocation input for one approved time entry.
type EntryHours struct {
	EntryID uuid.UUID
	ClockIn time.Time
	Hours   float64
}

// Allocation is the per-entry outcome: how the entry's hours split across the
// regular budget and overtime, and what each bucket pays. Money is rounded at
// this level and only ever summed above it, so line, stub, and run totals all
// reproduce the same cents.
type Allocation struct {
	RegularHours     float64
	OvertimeHours    float64
	RegularPayCents  int64
	OvertimePayCents int64
	GrossPayCents    int64
}

// AllocateEntries distributes an employee's regular-hour budget across their
// entries in chronological order; once the budget is spent the remainder of
// each entry spills to overtime.
func AllocateEntries(entries []EntryHours, regularBudget float64, rateCents int64, multiplier float64) map[uuid.UUID]Allocation {
	sorted := make([]EntryHours, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ClockIn.Equal(sorted[j].ClockIn) {
			return sorted[i].EntryID.String() < sorted[j].EntryID.String()
		}
		return sorted[i].ClockIn.Before(sorted[j].ClockIn)
	})

	remaining := regularBudget
	result := make(map[uuid.UUID]Allocation, len(sorted))
	for _, e := range sorted {
		reg := e.Hours
		if reg > remaining {
			reg = remaining
		}
		ot := e.Hours - reg
		remaining -= reg

		regPay := roundCents(reg * float64(rateCents))
		otPay := roundCents(ot * float64(rateCents) * multiplier)
		result[e.EntryID] = Allocation{
			RegularHours:     reg,
			OvertimeHours:    ot,
			RegularPayCents:  regPay,
			OvertimePayCents: otPay,
			GrossPayCents:    regPay + otPay,
		}
	}
	return result
}

// RegularBudget caps the weekly budget at the overtime threshold.
func RegularBudget(totalHours float64) float64 {
	if totalHours > OvertimeThresholdHours {
		return OvertimeThresholdHours
	}
	return totalHours
}

func roundCents(v float64) int64 {
	return int64(math.Round(v))
}
