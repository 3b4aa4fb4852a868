package commission_test

import (
	"testing"
	"time"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/commission"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2025, 8, d, 0, 0, 0, 0, time.UTC)
}

func period(from, to int, orders int64) commission.CommissionPeriod {
	return commission.CommissionPeriod{DateFrom: day(from), DateTo: day(to), OrderCount: orders}
}

func entry(clientID uuid.UUID, rate string, periods ...commission.CommissionPeriod) commission.ClientEntry {
	return commission.ClientEntry{
		ClientID:           clientID,
		CommissionPerOrder: decimal.RequireFromString(rate),
		Periods:            periods,
	}
}

func TestValidateEntries_SplitEngagementDisjoint(t *testing.T) {
	clientC := uuid.New()

	result := commission.ValidateEntries([]commission.ClientEntry{
		entry(clientC, "0.300", period(1, 10, 15)),
		entry(clientC, "0.300", period(20, 28, 10)),
	})

	assert.True(t, result.Valid)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.Faults)
}

func TestValidateEntries_OverlapSameClient(t *testing.T) {
	clientC := uuid.New()

	result := commission.ValidateEntries([]commission.ClientEntry{
		entry(clientC, "0.300", period(1, 10, 15)),
		entry(clientC, "0.300", period(20, 28, 10)),
		entry(clientC, "0.300", period(8, 12, 5)),
	})

	assert.False(t, result.Valid)
	assert.Len(t, result.Conflicts, 1)
	assert.Equal(t, 0, result.Conflicts[0].EntryA)
	assert.Equal(t, 2, result.Conflicts[0].EntryB)
	assert.Equal(t, clientC.String(), result.Conflicts[0].ClientID)
}

func TestValidateEntries_OrderIndependent(t *testing.T) {
	clientC := uuid.New()
	a := entry(clientC, "0.300", period(1, 10, 15))
	b := entry(clientC, "0.300", period(8, 12, 5))

	forward := commission.ValidateEntries([]commission.ClientEntry{a, b})
	reversed := commission.ValidateEntries([]commission.ClientEntry{b, a})

	assert.False(t, forward.Valid)
	assert.False(t, reversed.Valid)
	assert.Len(t, forward.Conflicts, 1)
	assert.Len(t, reversed.Conflicts, 1)
	// The pair is the same either way, only the labels swap.
	assert.Equal(t, forward.Conflicts[0].ClientID, reversed.Conflicts[0].ClientID)
}

func TestValidateEntries_SharedBoundaryDayConflicts(t *testing.T) {
	clientC := uuid.New()

	result := commission.ValidateEntries([]commission.ClientEntry{
		entry(clientC, "0.250", period(1, 10, 8)),
		entry(clientC, "0.250", period(10, 15, 4)),
	})

	assert.False(t, result.Valid)
	assert.Len(t, result.Conflicts, 1)
}

func TestValidateEntries_AdjacentDaysAreDisjoint(t *testing.T) {
	clientC := uuid.New()

	result := commission.ValidateEntries([]commission.ClientEntry{
		entry(clientC, "0.250", period(1, 10, 8)),
		entry(clientC, "0.250", period(11, 15, 4)),
	})

	assert.True(t, result.Valid)
}

func TestValidateEntries_DifferentClientsMayOverlap(t *testing.T) {
	result := commission.ValidateEntries([]commission.ClientEntry{
		entry(uuid.New(), "0.300", period(1, 15, 10)),
		entry(uuid.New(), "0.200", period(10, 20, 6)),
	})

	assert.True(t, result.Valid)
}

func TestValidateEntries_CollectsAllConflicts(t *testing.T) {
	clientC := uuid.New()

	result := commission.ValidateEntries([]commission.ClientEntry{
		entry(clientC, "0.300", period(1, 20, 10)),
		entry(clientC, "0.300", period(5, 8, 3)),
		entry(clientC, "0.300", period(15, 25, 4)),
	})

	assert.False(t, result.Valid)
	assert.Len(t, result.Conflicts, 2)
}

func TestValidateEntries_SelfOverlapWithinEntry(t *testing.T) {
	clientC := uuid.New()

	result := commission.ValidateEntries([]commission.ClientEntry{
		entry(clientC, "0.300", period(1, 10, 5), period(8, 12, 3)),
	})

	assert.False(t, result.Valid)
	assert.Len(t, result.Conflicts, 1)
	assert.Equal(t, result.Conflicts[0].EntryA, result.Conflicts[0].EntryB)
}

func TestValidateEntries_Faults(t *testing.T) {
	t.Run("empty periods", func(t *testing.T) {
		result := commission.ValidateEntries([]commission.ClientEntry{
			entry(uuid.New(), "0.300"),
		})

		assert.False(t, result.Valid)
		assert.Len(t, result.Faults, 1)
		assert.Equal(t, commission.FaultNoPeriods, result.Faults[0].Reason)
	})

	t.Run("inverted range", func(t *testing.T) {
		result := commission.ValidateEntries([]commission.ClientEntry{
			entry(uuid.New(), "0.300", period(12, 8, 5)),
		})

		assert.False(t, result.Valid)
		assert.Len(t, result.Faults, 1)
		assert.Equal(t, commission.FaultInvertedRange, result.Faults[0].Reason)
	})

	t.Run("negative rate", func(t *testing.T) {
		result := commission.ValidateEntries([]commission.ClientEntry{
			entry(uuid.New(), "-0.100", period(1, 10, 5)),
		})

		assert.False(t, result.Valid)
		assert.Len(t, result.Faults, 1)
		assert.Equal(t, commission.FaultNegativeValue, result.Faults[0].Reason)
	})

	t.Run("negative order count", func(t *testing.T) {
		result := commission.ValidateEntries([]commission.ClientEntry{
			entry(uuid.New(), "0.300", period(1, 10, -5)),
		})

		assert.False(t, result.Valid)
		assert.Len(t, result.Faults, 1)
		assert.Equal(t, commission.FaultNegativeValue, result.Faults[0].Reason)
	})

	t.Run("legacy flat entry without periods is fine", func(t *testing.T) {
		legacy := int64(20)
		e := entry(uuid.New(), "0.300")
		e.LegacyNumOrders = &legacy

		result := commission.ValidateEntries([]commission.ClientEntry{e})

		assert.True(t, result.Valid)
	})
}
