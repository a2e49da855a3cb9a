package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/skilllink/internal/db"
	svcErr "github.com/oggyb/skilllink/internal/errors"
	"github.com/oggyb/skilllink/internal/utils/pagination"
)

// MessageRepository stores chat messages scoped by match id.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// Create assigns an id when missing and inserts the message.
func (r *MessageRepository) Create(ctx context.Context, msg *db.Message) error {
	if msg.ID == "" {
		msg.ID = newSortableID()
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListByMatch returns a match's messages in the order they were sent.
//
// Behavior:
//   - Ordered by created_at ASC, id ASC.
//   - limit <= 0 returns the whole conversation and no next token.
//   - Otherwise at most limit rows are returned, with a token for the next page
//     when more rows exist.
//
// Example:
//
//	repo.ListByMatch(ctx, matchID, "", 50) // first 50 messages
func (r *MessageRepository) ListByMatch(
	ctx context.Context,
	matchID string,
	paginationToken string,
	limit int,
) ([]db.Message, *string, error) {
	messages := []db.Message{}

	cursor, err := pagination.Decode(paginationToken)
	if err != nil {
		return nil, nil, svcErr.InvalidArgument("%s", err.Error())
	}

	query := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC, id ASC")

	// apply cursor
	if !cursor.IsZero() {
		ts := time.UnixMilli(cursor.CreatedUnix).UTC()
		query = query.Where(
			"(created_at > ? OR (created_at = ? AND id > ?))",
			ts, ts, cursor.ID,
		)
	}
	if limit > 0 {
		query = query.Limit(limit + 1)
	}

	if err := query.Find(&messages).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if limit > 0 && len(messages) > limit {
		last := messages[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			ID:          last.ID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		messages = messages[:limit]
	}

	return messages, nextToken, nil
}
