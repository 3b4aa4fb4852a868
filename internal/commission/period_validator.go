package commission

import "github.com/google/uuid"

// PeriodConflict flags two entries whose periods overlap for the same client.
// Indexes refer to the submitted entry list so the UI can highlight both rows.
type PeriodConflict struct {
	EntryA   int    `json:"entry_a"`
	EntryB   int    `json:"entry_b"`
	ClientID string `json:"client_id"`
}

// EntryFault flags a single malformed entry (empty period list, inverted range,
// negative values). Faulty entries are rejected, never silently corrected.
type EntryFault struct {
	Entry  int    `json:"entry"`
	Reason string `json:"reason"`
}

const (
	FaultNoPeriods     = "no_periods"
	FaultInvertedRange = "inverted_range"
	FaultNegativeValue = "negative_value"
)

type ValidationResult struct {
	Valid     bool             `json:"valid"`
	Conflicts []PeriodConflict `json:"conflicts,omitempty"`
	Faults    []EntryFault     `json:"faults,omitempty"`
}

// ValidateEntries checks a driver's month of commission entries.
//
// Split engagements are allowed: the same client may appear in several
// entries, as long as the union of their periods stays disjoint. Every
// period of every entry for a client is compared pairwise against the
// periods of every other entry for that client (and against siblings within
// the same entry), with closed-interval overlap semantics. All conflicts are
// collected, not just the first, so the form can highlight every pair.
//
// The function is pure: no I/O, no mutation of the input.
func ValidateEntries(entries []ClientEntry) ValidationResult {
	result := ValidationResult{Valid: true}

	for i, entry := range entries {
		if len(entry.Periods) == 0 && entry.LegacyNumOrders == nil {
			result.Faults = append(result.Faults, EntryFault{Entry: i, Reason: FaultNoPeriods})
			continue
		}
		if entry.CommissionPerOrder.IsNegative() {
			result.Faults = append(result.Faults, EntryFault{Entry: i, Reason: FaultNegativeValue})
		}
		for _, p := range entry.Periods {
			if p.DateFrom.After(p.DateTo) {
				result.Faults = append(result.Faults, EntryFault{Entry: i, Reason: FaultInvertedRange})
				break
			}
		}
		for _, p := range entry.Periods {
			if p.OrderCount < 0 {
				result.Faults = append(result.Faults, EntryFault{Entry: i, Reason: FaultNegativeValue})
				break
			}
		}
	}

	byClient := make(map[uuid.UUID][]int)
	for i, entry := range entries {
		byClient[entry.ClientID] = append(byClient[entry.ClientID], i)
	}

	for clientID, indexes := range byClient {
		for a := 0; a < len(indexes); a++ {
			for b := a; b < len(indexes); b++ {
				i, j := indexes[a], indexes[b]
				if i == j {
					if entriesSelfOverlap(entries[i]) {
						result.Conflicts = append(result.Conflicts, PeriodConflict{
							EntryA:   i,
							EntryB:   i,
							ClientID: clientID.String(),
						})
					}
					continue
				}
				if entriesOverlap(entries[i], entries[j]) {
					result.Conflicts = append(result.Conflicts, PeriodConflict{
						EntryA:   i,
						EntryB:   j,
						ClientID: clientID.String(),
					})
				}
			}
		}
	}

	result.Valid = len(result.Conflicts) == 0 && len(result.Faults) == 0
	return result
}

func entriesOverlap(a, b ClientEntry) bool {
	for _, pa := range a.Periods {
		for _, pb := range b.Periods {
			if pa.Overlaps(pb) {
				return true
			}
		}
	}
	return false
}

func entriesSelfOverlap(e ClientEntry) bool {
	for i := 0; i < len(e.Periods); i++ {
		for j := i + 1; j < len(e.Periods); j++ {
			if e.Periods[i].Overlaps(e.Periods[j]) {
				return true
			}
		}
	}
	return false
}
