package domain

import "time"

// Table is a physical seating unit tracked through an occupancy lifecycle.
// Tables are provisioned once and never deleted; only their status and the
// weak reference to the current order change.
type Table struct {
	TableNumber  int         `json:"tableNumber"`
	Status       TableStatus `json:"status"`
	CurrentOrder *int64      `json:"currentOrder,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

var tableTransitions = map[TableStatus][]TableStatus{
	TableVacant:   {TableOccupied},
	TableOccupied: {TableServed},
	TableServed:   {TableBilled},
	TableBilled:   {TableVacant},
}

// CanTransitionTo reports whether moving the table to newStatus is legal.
func (t *Table) CanTransitionTo(newStatus TableStatus) bool {
	for _, s := range tableTransitions[t.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// TransitionTo applies a legal status change in memory. The repository layer
// re-checks the expected current status on write, so a stale in-memory copy
// cannot overwrite a concurrent transition.
func (t *Table) TransitionTo(newStatus TableStatus) error {
	if !t.CanTransitionTo(newStatus) {
		return Conflictf("table %d cannot move from %s to %s", t.TableNumber, t.Status, newStatus)
	}
	t.Status = newStatus
	t.UpdatedAt = time.Now()
	return nil
}
