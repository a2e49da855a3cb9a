package calendar

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/skilllink/internal/app"
	"github.com/oggyb/skilllink/internal/db"
	svcErr "github.com/oggyb/skilllink/internal/errors"
	"github.com/oggyb/skilllink/internal/repository"
	"github.com/oggyb/skilllink/internal/utils/sanitize"
)

const dateLayout = "2006-01-02"

// Keys lifted out of a submitted event into their own columns.
const (
	keyTitle        = "title"
	keyDate         = "date"
	keyParticipants = "participants"
	keyCreator      = "creator"
	keyCreatedAt    = "created_at"
	keyID           = "id"
)

// Event is the API view of a calendar event: the submitted document with
// id, creator and created_at stamped on it.
type Event map[string]any

// Service stores free-form calendar events and lists them per participant.
type Service struct {
	appCtx *app.AppContext
	events *repository.CalendarRepository
	users  *repository.UserRepository
	now    func() time.Time
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		events: repository.NewCalendarRepository(appCtx.DB),
		users:  repository.NewUserRepository(appCtx.DB),
		now:    db.Now,
	}
}

// Create stores an event submitted by creatorEmail.
//
// Behavior:
//   - "title" (string), "date" (YYYY-MM-DD) and "participants" (list of
//     emails) are optional but must have those shapes when present.
//   - Participant emails are normalized like registered emails, so matching
//     is case-insensitive.
//   - Every other key is kept as-is.
//   - creator and created_at are always set by the server.
func (s *Service) Create(ctx context.Context, creatorEmail string, doc map[string]any) (string, error) {
	event := &db.CalendarEvent{
		Creator:   db.NormalizeEmail(creatorEmail),
		CreatedAt: s.now(),
		Details:   map[string]any{},
	}

	for k, v := range doc {
		switch k {
		case keyTitle:
			title, ok := v.(string)
			if !ok {
				return "", svcErr.InvalidArgument("title must be a string")
			}
			event.Title = sanitize.Plain(title)
		case keyDate:
			date, ok := v.(string)
			if !ok {
				return "", svcErr.InvalidArgument("date must be a string")
			}
			if _, err := time.Parse(dateLayout, date); err != nil {
				return "", svcErr.InvalidArgument("date must use the YYYY-MM-DD format")
			}
			event.Date = date
		case keyParticipants:
			emails, err := toStrings(v)
			if err != nil {
				return "", err
			}
			seen := map[string]bool{}
			for _, e := range emails {
				e = db.NormalizeEmail(e)
				if e == "" || seen[e] {
					continue
				}
				seen[e] = true
				event.Participants = append(event.Participants, db.CalendarParticipant{Email: e})
			}
		case keyCreator, keyCreatedAt, keyID:
			// server-owned
		default:
			event.Details[k] = v
		}
	}

	if err := s.events.Create(ctx, event); err != nil {
		return "", err
	}
	s.appCtx.Logger.Debug("calendar event created", "event_id", event.ID, "creator", creatorEmail)
	return event.ID, nil
}

// ForUser lists the events the user participates in.
func (s *Service) ForUser(ctx context.Context, userID string) ([]Event, error) {
	return s.list(ctx, userID, "")
}

// TodayForUser lists the user's events dated today (UTC).
func (s *Service) TodayForUser(ctx context.Context, userID string) ([]Event, error) {
	return s.list(ctx, userID, s.now().UTC().Format(dateLayout))
}

func (s *Service) list(ctx context.Context, userID, date string) ([]Event, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("User not found")
	} else if err != nil {
		return nil, err
	}

	events, err := s.events.ListForParticipant(ctx, user.Email, date)
	if err != nil {
		return nil, err
	}
	out := make([]Event, 0, len(events))
	for _, e := range events {
		out = append(out, toEvent(e))
	}
	return out, nil
}

func toEvent(e db.CalendarEvent) Event {
	out := Event{}
	for k, v := range e.Details {
		out[k] = v
	}
	participants := make([]string, 0, len(e.Participants))
	for _, p := range e.Participants {
		participants = append(participants, p.Email)
	}
	out[keyID] = e.ID
	out[keyCreator] = e.Creator
	out[keyCreatedAt] = e.CreatedAt
	out[keyParticipants] = participants
	if e.Title != "" {
		out[keyTitle] = e.Title
	}
	if e.Date != "" {
		out[keyDate] = e.Date
	}
	return out
}

func toStrings(v any) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, svcErr.InvalidArgument("participants must be a list of emails")
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		s, ok := it.(string)
		if !ok {
			return nil, svcErr.InvalidArgument("participants[%d] must be a string", i)
		}
		out = append(out, s)
	}
	return out, nil
}
