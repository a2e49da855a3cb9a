package user

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oggyb/skilllink/internal/app"
	"github.com/oggyb/skilllink/internal/db"
	svcErr "github.com/oggyb/skilllink/internal/errors"
	"github.com/oggyb/skilllink/internal/repository"
	"github.com/oggyb/skilllink/internal/service/gamification"
	"github.com/oggyb/skilllink/internal/utils/sanitize"
)

// Registration is a new user's profile as submitted.
type Registration struct {
	Name         string
	Email        string
	Username     string
	Password     string
	Age          *int
	Description  string
	Photo        *string
	Skills       []string
	Interests    []string
	Teaches      []string
	WantsToLearn []string
	Country      string
	City         string
}

// ProfileUpdate lists the mutable profile fields. Nil fields are left as they are.
type ProfileUpdate struct {
	Name         *string   `json:"name" binding:"omitempty,min=2,max=50"`
	Username     *string   `json:"username" binding:"omitempty,min=3,max=30,username_chars"`
	Age          *int      `json:"age" binding:"omitempty,min=0,max=120"`
	Description  *string   `json:"description" binding:"omitempty,max=1000"`
	Photo        *string   `json:"photo" binding:"omitempty,max=512"`
	Skills       *[]string `json:"skills" binding:"omitempty,max=50"`
	Interests    *[]string `json:"interests" binding:"omitempty,max=50"`
	Teaches      *[]string `json:"teaches" binding:"omitempty,max=50"`
	WantsToLearn *[]string `json:"wantsToLearn" binding:"omitempty,max=50"`
	Country      *string   `json:"country" binding:"omitempty,min=1,max=64"`
	City         *string   `json:"city" binding:"omitempty,min=1,max=64"`
}

// columns maps the set fields onto users columns. Text fields are checked
// again after sanitizing since markup-only input can end up empty.
func (p ProfileUpdate) columns() (map[string]any, error) {
	out := map[string]any{}
	if p.Name != nil {
		name, err := cleanName(*p.Name)
		if err != nil {
			return nil, err
		}
		out["name"] = name
	}
	if p.Username != nil {
		out["username"] = *p.Username
	}
	if p.Age != nil {
		out["age"] = *p.Age
	}
	if p.Description != nil {
		out["description"] = sanitize.Text(*p.Description)
	}
	if p.Photo != nil {
		out["photo"] = *p.Photo
	}
	lists := []struct {
		col string
		v   *[]string
	}{
		{"skills", p.Skills},
		{"interests", p.Interests},
		{"teaches", p.Teaches},
		{"wants_to_learn", p.WantsToLearn},
	}
	for _, l := range lists {
		if l.v != nil {
			out[l.col] = listValue(*l.v)
		}
	}
	if p.Country != nil {
		country, err := required("country", *p.Country)
		if err != nil {
			return nil, err
		}
		out["country"] = country
	}
	if p.City != nil {
		city, err := required("city", *p.City)
		if err != nil {
			return nil, err
		}
		out["city"] = city
	}
	return out, nil
}

// PrivateProfile is what an authenticated user sees about themselves.
type PrivateProfile struct {
	Email        string          `json:"email"`
	Username     string          `json:"username"`
	Points       int64           `json:"points"`
	PointHistory []db.PointEntry `json:"point_history"`
}

// Service implements the user directory: registration, login, profiles
// and the interest-overlap recommendation.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
	ledger *gamification.Service
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
		ledger: gamification.NewService(appCtx),
	}
}

// Register stores a new user and returns its id.
//
// Behavior:
//   - Email is matched case-insensitively; a taken email -> Conflict.
//   - Only the bcrypt hash of the password is stored.
//   - Points start at 0 with an empty history.
func (s *Service) Register(ctx context.Context, in Registration) (string, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return "", err
	}
	country, err := required("country", in.Country)
	if err != nil {
		return "", err
	}
	city, err := required("city", in.City)
	if err != nil {
		return "", err
	}

	hash, err := s.appCtx.Credentials.Hash(in.Password)
	if err != nil {
		return "", err
	}

	u := &db.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        db.NormalizeEmail(in.Email),
		Username:     in.Username,
		PasswordHash: hash,
		Age:          in.Age,
		Description:  sanitize.Text(in.Description),
		Photo:        in.Photo,
		Skills:       listValue(in.Skills),
		Interests:    listValue(in.Interests),
		Teaches:      listValue(in.Teaches),
		WantsToLearn: listValue(in.WantsToLearn),
		Country:      country,
		City:         city,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return "", err
	}

	s.appCtx.Logger.Info("user registered", "user_id", u.ID)
	return u.ID, nil
}

// Login verifies the credentials and issues a bearer token for the email.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, db.NormalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", svcErr.Unauthorized("Incorrect email or password")
	} else if err != nil {
		return "", err
	}
	if !s.appCtx.Credentials.Verify(password, u.PasswordHash) {
		return "", svcErr.Unauthorized("Incorrect email or password")
	}
	return s.appCtx.Credentials.Issue(u.Email)
}

func (s *Service) List(ctx context.Context) ([]db.User, error) {
	users, err := s.users.List(ctx)
	if users == nil {
		users = []db.User{}
	}
	return users, err
}

func (s *Service) Get(ctx context.Context, id string) (*db.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("User not found")
	}
	return u, err
}

// Update applies the set fields of p. Unknown users -> NotFound.
func (s *Service) Update(ctx context.Context, id string, p ProfileUpdate) error {
	values, err := p.columns()
	if err != nil {
		return err
	}
	err = s.users.Update(ctx, id, values)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.NotFound("User not found")
	}
	return err
}

// Recommend returns the other user sharing the most interests with id.
//
// Behavior:
//   - Linear scan over every other user.
//   - Highest overlap wins; ties go to the smallest user id.
//   - No overlap at all -> nil.
func (s *Service) Recommend(ctx context.Context, id string) (*db.User, error) {
	me, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	mine := make(map[string]struct{}, len(me.Interests))
	for _, i := range me.Interests {
		mine[i] = struct{}{}
	}

	others, err := s.users.ListOthers(ctx, id)
	if err != nil {
		return nil, err
	}

	var best *db.User
	bestScore := 0
	for i := range others {
		score := overlap(mine, others[i].Interests)
		// strict comparison keeps the first (smallest id) on ties
		if score > bestScore {
			bestScore = score
			best = &others[i]
		}
	}
	return best, nil
}

// PrivateProfile returns the user's own view, including point history.
func (s *Service) PrivateProfile(ctx context.Context, u *db.User) (*PrivateProfile, error) {
	history, err := s.ledger.History(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &PrivateProfile{
		Email:        u.Email,
		Username:     u.Username,
		Points:       u.Points,
		PointHistory: history,
	}, nil
}

func overlap(mine map[string]struct{}, theirs []string) int {
	seen := make(map[string]struct{}, len(theirs))
	n := 0
	for _, t := range theirs {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := mine[t]; ok {
			n++
		}
	}
	return n
}

func listValue(items []string) datatypes.JSONSlice[string] {
	return datatypes.JSONSlice[string](sanitize.PlainAll(items))
}

func cleanName(raw string) (string, error) {
	name := sanitize.Plain(raw)
	if utf8.RuneCountInString(name) < 2 {
		return "", svcErr.InvalidArgument("name must have at least 2 characters")
	}
	return name, nil
}

func required(field, raw string) (string, error) {
	v := sanitize.Plain(raw)
	if v == "" {
		return "", svcErr.InvalidArgument("%s must not be empty", field)
	}
	return v, nil
}
