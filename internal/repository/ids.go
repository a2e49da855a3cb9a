package repository

import "github.com/google/uuid"

// newSortableID returns a UUIDv7. Within this process the ids grow
// monotonically, so ordering by (created_at, id) follows insertion order.
func newSortableID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
