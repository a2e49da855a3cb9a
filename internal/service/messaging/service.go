package messaging

import (
	"context"

	"github.com/oggyb/skilllink/internal/app"
	"github.com/oggyb/skilllink/internal/db"
	svcErr "github.com/oggyb/skilllink/internal/errors"
	"github.com/oggyb/skilllink/internal/repository"
	"github.com/oggyb/skilllink/internal/utils/sanitize"
)

// Service stores flat chat messages scoped by match id.
type Service struct {
	appCtx   *app.AppContext
	messages *repository.MessageRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		messages: repository.NewMessageRepository(appCtx.DB),
	}
}

// Send stores a sanitized message and returns its id.
func (s *Service) Send(ctx context.Context, matchID, sender, text string) (string, error) {
	text = sanitize.Text(text)
	if text == "" {
		return "", svcErr.InvalidArgument("message must not be empty")
	}
	msg := &db.Message{MatchID: matchID, Sender: sender, Message: text}
	if err := s.messages.Create(ctx, msg); err != nil {
		return "", err
	}
	return msg.ID, nil
}

// List returns a match's messages in send order.
func (s *Service) List(ctx context.Context, matchID, cursor string, limit int) ([]db.Message, *string, error) {
	return s.messages.ListByMatch(ctx, matchID, cursor, limit)
}
