package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/skilllink/internal/db"
)

// CalendarRepository stores events and their participant lists.
type CalendarRepository struct {
	db *gorm.DB
}

func NewCalendarRepository(database *gorm.DB) *CalendarRepository {
	return &CalendarRepository{db: database}
}

// Create inserts the event and its participants in one transaction.
func (r *CalendarRepository) Create(ctx context.Context, event *db.CalendarEvent) error {
	if event.ID == "" {
		event.ID = newSortableID()
	}
	for i := range event.Participants {
		event.Participants[i].EventID = event.ID
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(event).Error
	})
}

// ListForParticipant returns events the email takes part in, oldest first.
// A non-empty date restricts the result to that YYYY-MM-DD day.
func (r *CalendarRepository) ListForParticipant(ctx context.Context, email, date string) ([]db.CalendarEvent, error) {
	events := []db.CalendarEvent{}
	query := r.db.WithContext(ctx).
		Joins("JOIN calendar_participants cp ON cp.event_id = calendar_events.id").
		Where("cp.email = ?", db.NormalizeEmail(email)).
		Preload("Participants", func(tx *gorm.DB) *gorm.DB { return tx.Order("email") }).
		Order("calendar_events.created_at, calendar_events.id")
	if date != "" {
		query = query.Where("calendar_events.date = ?", date)
	}
	err := query.Find(&events).Error
	return events, err
}
