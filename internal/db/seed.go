package db

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/skilllink/internal/logger"
)

// SeedPassword is the password of every demo user.
const SeedPassword = "password"

type seedUser struct {
	name      string
	interests []string
	teaches   []string
	learns    []string
}

var seedUsers = []seedUser{
	{"Alice", []string{"go", "chess", "hiking"}, []string{"go"}, []string{"guitar"}},
	{"Bob", []string{"guitar", "chess", "cooking"}, []string{"guitar"}, []string{"go"}},
	{"Carol", []string{"go", "hiking", "photography"}, []string{"photography"}, []string{"spanish"}},
	{"Dave", []string{"spanish", "cooking"}, []string{"spanish"}, []string{"photography"}},
	{"Erin", []string{"chess", "go", "spanish"}, []string{"chess"}, []string{"cooking"}},
	{"Frank", []string{"photography", "guitar"}, []string{"cooking"}, []string{"chess"}},
}

// seedMutual lists user index pairs that swipe right on each other.
var seedMutual = [][2]int{{0, 1}, {2, 3}, {0, 4}}

// SeedTestData resets the database and populates it with demo data.
//
// Behavior:
//  1. Clears every table.
//  2. Creates the demo users (seed-01..seed-06, seed-XX@example.com) with
//     SeedPassword hashed.
//  3. Inserts reciprocal right swipes plus their matches, and a few one-way swipes.
//  4. Creates one forum post.
//
// Deterministic, so it can be re-run any time.
func SeedTestData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// --- Fresh start ---
		for _, table := range []string{
			"calendar_participants", "calendar_events", "training_plans",
			"forum_responses", "forum_reactions", "forum_posts",
			"messages", "matches", "swipes", "point_entries", "users",
		} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		logger.Info("cleared existing data")

		hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		// --- Users ---
		ids := make([]string, 0, len(seedUsers))
		for i, su := range seedUsers {
			id := fmt.Sprintf("seed-%02d", i+1)
			user := User{
				ID:           id,
				Name:         su.name,
				Email:        fmt.Sprintf("seed-%02d@example.com", i+1),
				Username:     fmt.Sprintf("user%d", i+1),
				PasswordHash: string(hash),
				Skills:       su.teaches,
				Interests:    su.interests,
				Teaches:      su.teaches,
				WantsToLearn: su.learns,
				Country:      "DE",
				City:         "Berlin",
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to seed user: %w", err)
			}
			ids = append(ids, id)
		}
		logger.Info("seeded users", "count", len(ids))

		// --- Swipes and matches ---
		upsert := clause.OnConflict{
			Columns:   []clause.Column{{Name: "swiper_id"}, {Name: "target_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"direction", "updated_at"}),
		}
		for i, pair := range seedMutual {
			a, b := ids[pair[0]], ids[pair[1]]
			swipes := []Swipe{
				{SwiperID: a, TargetID: b, Direction: DirectionRight},
				{SwiperID: b, TargetID: a, Direction: DirectionRight},
			}
			if err := tx.Clauses(upsert).Create(&swipes).Error; err != nil {
				return fmt.Errorf("failed to seed swipe: %w", err)
			}
			match := Match{ID: fmt.Sprintf("seed-match-%02d", i+1), User1: a, User2: b, PairKey: PairKey(a, b)}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&match).Error; err != nil {
				return fmt.Errorf("failed to seed match: %w", err)
			}
		}
		oneWay := []Swipe{
			{SwiperID: ids[5], TargetID: ids[0], Direction: DirectionRight},
			{SwiperID: ids[3], TargetID: ids[0], Direction: DirectionLeft},
			{SwiperID: ids[1], TargetID: ids[2], Direction: DirectionRight},
		}
		if err := tx.Clauses(upsert).Create(&oneWay).Error; err != nil {
			return fmt.Errorf("failed to seed swipe: %w", err)
		}
		logger.Info("seeded swipes", "matches", len(seedMutual))

		// --- Forum ---
		post := ForumPost{
			ID:      "seed-post-01",
			UserID:  ids[0],
			Content: "Happy to teach Go in exchange for guitar lessons!",
			Tags:    []string{"go", "guitar"},
		}
		if err := tx.Create(&post).Error; err != nil {
			return fmt.Errorf("failed to seed forum post: %w", err)
		}
		return nil
	})
}
