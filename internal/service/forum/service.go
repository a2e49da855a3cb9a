package forum

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/skilllink/internal/app"
	"github.com/oggyb/skilllink/internal/db"
	svcErr "github.com/oggyb/skilllink/internal/errors"
	"github.com/oggyb/skilllink/internal/repository"
	"github.com/oggyb/skilllink/internal/service/gamification"
	"github.com/oggyb/skilllink/internal/utils/sanitize"
)

// Post is the API view of a forum thread.
type Post struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	Content     string           `json:"content"`
	IsAnonymous bool             `json:"is_anonymous"`
	Tags        []string         `json:"tags"`
	Reactions   map[string]int64 `json:"reactions"`
	Responses   []string         `json:"responses"`
	CreatedAt   time.Time        `json:"created_at"`
}

// NewPost is the input of CreatePost.
type NewPost struct {
	UserID      string
	Content     string
	IsAnonymous bool
	Tags        []string
}

// Service implements forum posts and the point-earning interactions on them.
type Service struct {
	appCtx *app.AppContext
	forum  *repository.ForumRepository
	ledger *gamification.Service
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		forum:  repository.NewForumRepository(appCtx.DB),
		ledger: gamification.NewService(appCtx),
	}
}

// CreatePost stores a sanitized post with no reactions or responses.
func (s *Service) CreatePost(ctx context.Context, in NewPost) (string, error) {
	content := sanitize.Text(in.Content)
	if content == "" {
		return "", svcErr.InvalidArgument("content must not be empty")
	}

	post := &db.ForumPost{
		UserID:      in.UserID,
		Content:     content,
		IsAnonymous: in.IsAnonymous,
		Tags:        sanitize.PlainAll(in.Tags),
	}
	if err := s.forum.CreatePost(ctx, post); err != nil {
		return "", err
	}
	s.appCtx.Logger.Debug("forum post created", "post_id", post.ID, "user_id", in.UserID)
	return post.ID, nil
}

// ListPosts returns posts newest first. See ForumRepository.ListPosts for paging.
func (s *Service) ListPosts(ctx context.Context, cursor string, limit int) ([]Post, *string, error) {
	threads, next, err := s.forum.ListPosts(ctx, cursor, limit)
	if err != nil {
		return nil, nil, err
	}
	out := make([]Post, 0, len(threads))
	for _, t := range threads {
		out = append(out, toPost(t))
	}
	return out, next, nil
}

// GetPost returns one post with its activity.
func (s *Service) GetPost(ctx context.Context, postID string) (*Post, error) {
	t, err := s.forum.GetThread(ctx, postID)
	if err != nil {
		return nil, err
	}
	p := toPost(*t)
	return &p, nil
}

// Respond appends a response and awards the actor in one transaction.
//
// Behavior:
//   - Missing post -> NotFound, nothing is written.
//   - Response text is sanitized and must not be empty.
//   - Actor earns gamification.ForumResponsePoints.
func (s *Service) Respond(ctx context.Context, postID, text, actorID string) error {
	text = sanitize.Text(text)
	if text == "" {
		return svcErr.InvalidArgument("response must not be empty")
	}
	return s.interact(ctx, postID, actorID, db.SourceForumResponse, gamification.ForumResponsePoints,
		func(forum *repository.ForumRepository) error {
			return forum.AddResponse(ctx, postID, actorID, text)
		})
}

// React bumps the named reaction counter and awards the actor in one transaction.
// The counter is created on first use.
func (s *Service) React(ctx context.Context, postID, kind, actorID string) error {
	kind = sanitize.Plain(kind)
	if kind == "" {
		return svcErr.InvalidArgument("reaction must not be empty")
	}
	return s.interact(ctx, postID, actorID, db.SourceReaction, gamification.ReactionPoints,
		func(forum *repository.ForumRepository) error {
			return forum.IncrementReaction(ctx, postID, kind)
		})
}

func (s *Service) interact(
	ctx context.Context,
	postID, actorID, source string,
	points int64,
	write func(forum *repository.ForumRepository) error,
) error {
	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		forum := s.forum.WithTx(tx)
		ok, err := forum.Exists(ctx, postID)
		if err != nil {
			return err
		}
		if !ok {
			return svcErr.NotFound("Post not found")
		}
		if err := write(forum); err != nil {
			return err
		}
		return s.ledger.AwardTx(ctx, tx, actorID, source, points)
	})
	if err != nil {
		return err
	}
	s.ledger.Committed(ctx, actorID, points)
	return nil
}

func toPost(t repository.ForumThread) Post {
	tags := []string(t.Post.Tags)
	if tags == nil {
		tags = []string{}
	}
	return Post{
		ID:          t.Post.ID,
		UserID:      t.Post.UserID,
		Content:     t.Post.Content,
		IsAnonymous: t.Post.IsAnonymous,
		Tags:        tags,
		Reactions:   t.Reactions,
		Responses:   t.Responses,
		CreatedAt:   t.Post.CreatedAt,
	}
}
