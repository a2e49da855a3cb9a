package trainingplan

import (
	"context"

	"github.com/oggyb/skilllink/internal/app"
	"github.com/oggyb/skilllink/internal/db"
	svcErr "github.com/oggyb/skilllink/internal/errors"
	"github.com/oggyb/skilllink/internal/repository"
	"github.com/oggyb/skilllink/internal/utils/sanitize"
)

// Service stores collaborative training plans scoped by match id.
type Service struct {
	appCtx *app.AppContext
	plans  *repository.TrainingPlanRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		plans:  repository.NewTrainingPlanRepository(appCtx.DB),
	}
}

func (s *Service) Create(ctx context.Context, matchID, topic, date string) (string, error) {
	topic = sanitize.Plain(topic)
	if topic == "" {
		return "", svcErr.InvalidArgument("topic must not be empty")
	}
	plan := &db.TrainingPlan{
		MatchID: matchID,
		Topic:   topic,
		Date:    date,
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return "", err
	}
	return plan.ID, nil
}

// ForMatch returns the match's first plan, or nil when none exists.
func (s *Service) ForMatch(ctx context.Context, matchID string) (*db.TrainingPlan, error) {
	return s.plans.FirstForMatch(ctx, matchID)
}
