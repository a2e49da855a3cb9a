package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/skilllink/internal/db"
	svcErr "github.com/oggyb/skilllink/internal/errors"
	"github.com/oggyb/skilllink/internal/utils/pagination"
)

// ForumThread is a post together with its reaction counters and responses.
type ForumThread struct {
	Post      db.ForumPost
	Reactions map[string]int64
	Responses []string
}

// ForumRepository provides data access for posts, reactions and responses.
type ForumRepository struct {
	db *gorm.DB
}

func NewForumRepository(database *gorm.DB) *ForumRepository {
	return &ForumRepository{db: database}
}

// WithTx returns a copy bound to an open transaction.
func (r *ForumRepository) WithTx(tx *gorm.DB) *ForumRepository {
	return &ForumRepository{db: tx}
}

func (r *ForumRepository) CreatePost(ctx context.Context, post *db.ForumPost) error {
	if post.ID == "" {
		post.ID = newSortableID()
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	return r.db.WithContext(ctx).Create(post).Error
}

// Exists reports whether a post with the given id is stored.
func (r *ForumRepository) Exists(ctx context.Context, postID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.ForumPost{}).
		Where("id = ?", postID).
		Count(&count).Error
	return count > 0, err
}

// AddResponse appends a response to the post's thread.
func (r *ForumRepository) AddResponse(ctx context.Context, postID, userID, text string) error {
	resp := db.ForumResponse{PostID: postID, UserID: userID, Text: text}
	return r.db.WithContext(ctx).Create(&resp).Error
}

// IncrementReaction bumps the named counter, creating it on first use.
//
// Behavior:
//   - INSERT (post_id, kind, 1) ON CONFLICT (post_id, kind) DO UPDATE total = total + 1.
//   - Counters only grow.
func (r *ForumRepository) IncrementReaction(ctx context.Context, postID, kind string) error {
	reaction := db.ForumReaction{PostID: postID, Kind: kind, Total: 1}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "post_id"}, {Name: "kind"}},
			DoUpdates: clause.Assignments(map[string]any{
				"total": gorm.Expr("forum_reactions.total + 1"),
			}),
		}).
		Create(&reaction).Error
}

// ListPosts returns threads newest first.
//
// Behavior:
//   - Ordered by created_at DESC, id DESC.
//   - limit <= 0 returns every post and no next token.
//   - Reactions and responses are loaded with one query each for the page.
//
// Example:
//
//	repo.ListPosts(ctx, "", 20) // latest 20 posts
func (r *ForumRepository) ListPosts(
	ctx context.Context,
	paginationToken string,
	limit int,
) ([]ForumThread, *string, error) {
	var posts []db.ForumPost

	cursor, err := pagination.Decode(paginationToken)
	if err != nil {
		return nil, nil, svcErr.InvalidArgument("%s", err.Error())
	}

	query := r.db.WithContext(ctx).Order("created_at DESC, id DESC")

	// apply cursor
	if !cursor.IsZero() {
		ts := time.UnixMilli(cursor.CreatedUnix).UTC()
		query = query.Where(
			"(created_at < ? OR (created_at = ? AND id < ?))",
			ts, ts, cursor.ID,
		)
	}
	if limit > 0 {
		query = query.Limit(limit + 1)
	}

	if err := query.Find(&posts).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if limit > 0 && len(posts) > limit {
		last := posts[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			ID:          last.ID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		posts = posts[:limit]
	}

	threads, err := r.loadThreads(ctx, posts)
	if err != nil {
		return nil, nil, err
	}
	return threads, nextToken, nil
}

// GetThread returns a single post with its activity.
func (r *ForumRepository) GetThread(ctx context.Context, postID string) (*ForumThread, error) {
	var post db.ForumPost
	if err := r.db.WithContext(ctx).Where("id = ?", postID).First(&post).Error; err != nil {
		return nil, err
	}
	threads, err := r.loadThreads(ctx, []db.ForumPost{post})
	if err != nil {
		return nil, err
	}
	return &threads[0], nil
}

func (r *ForumRepository) loadThreads(ctx context.Context, posts []db.ForumPost) ([]ForumThread, error) {
	threads := make([]ForumThread, 0, len(posts))
	if len(posts) == 0 {
		return threads, nil
	}

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	var reactions []db.ForumReaction
	if err := r.db.WithContext(ctx).Where("post_id IN ?", ids).Find(&reactions).Error; err != nil {
		return nil, err
	}
	var responses []db.ForumResponse
	if err := r.db.WithContext(ctx).Where("post_id IN ?", ids).Order("id").Find(&responses).Error; err != nil {
		return nil, err
	}

	byPostReactions := make(map[string]map[string]int64, len(posts))
	for _, re := range reactions {
		if byPostReactions[re.PostID] == nil {
			byPostReactions[re.PostID] = map[string]int64{}
		}
		byPostReactions[re.PostID][re.Kind] = re.Total
	}
	byPostResponses := make(map[string][]string, len(posts))
	for _, resp := range responses {
		byPostResponses[resp.PostID] = append(byPostResponses[resp.PostID], resp.Text)
	}

	for _, p := range posts {
		t := ForumThread{
			Post:      p,
			Reactions: byPostReactions[p.ID],
			Responses: byPostResponses[p.ID],
		}
		if t.Reactions == nil {
			t.Reactions = map[string]int64{}
		}
		if t.Responses == nil {
			t.Responses = []string{}
		}
		threads = append(threads, t)
	}
	return threads, nil
}
