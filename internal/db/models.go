package db

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Swipe directions.
const (
	DirectionLeft  = "left"
	DirectionRight = "right"
)

// Point sources recorded in the ledger.
const (
	SourceForumResponse = "forum_response"
	SourceReaction      = "reaction"
)

// User table. Password is stored as a bcrypt hash only.
type User struct {
	ID           string                      `gorm:"primaryKey;size:36" json:"id"`
	Name         string                      `gorm:"size:50;not null" json:"name"`
	Email        string                      `gorm:"uniqueIndex;size:128;not null" json:"email"`
	Username     string                      `gorm:"size:30;not null" json:"username"`
	PasswordHash string                      `gorm:"size:255;not null" json:"-"`
	Age          *int                        `json:"age"`
	Description  string                      `gorm:"size:1000" json:"description"`
	Photo        *string                     `gorm:"size:512" json:"photo"`
	Skills       datatypes.JSONSlice[string] `json:"skills"`
	Interests    datatypes.JSONSlice[string] `json:"interests"`
	Teaches      datatypes.JSONSlice[string] `json:"teaches"`
	WantsToLearn datatypes.JSONSlice[string] `json:"wantsToLearn"`
	Country      string                      `gorm:"size:64;not null" json:"country"`
	City         string                      `gorm:"size:64;not null" json:"city"`
	Points       int64                       `gorm:"not null;default:0" json:"points"`
	CreatedAt    time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

// PointEntry is one row of a user's point history. The autoincrement ID
// gives the append order; entries are never updated or deleted.
type PointEntry struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID    string    `gorm:"size:36;not null;index" json:"-"`
	Source    string    `gorm:"size:64;not null" json:"source"`
	Points    int64     `gorm:"not null" json:"points"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Swipe represents a swiper's left/right decision on a target.
//
// Composite PK: (SwiperID, TargetID)
//   - Ensures a single row per directed pair (overwrite guarantee).
//
// Indexes:
//   - idx_target_direction(target_id, direction) serves the reciprocity
//     lookup and the received-likes count.
type Swipe struct {
	SwiperID  string    `gorm:"primaryKey;size:36" json:"swiper_id"`
	TargetID  string    `gorm:"primaryKey;size:36;index:idx_target_direction,priority:1" json:"target_id"`
	Direction string    `gorm:"size:8;not null;index:idx_target_direction,priority:2" json:"direction"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Match is a mutual right swipe. PairKey is the unordered pair
// (lower id first) and is unique, so a pair can only match once.
type Match struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	User1     string    `gorm:"size:36;not null;index" json:"user1"`
	User2     string    `gorm:"size:36;not null;index" json:"user2"`
	PairKey   string    `gorm:"uniqueIndex;size:80;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// PairKey builds the canonical key of an unordered user pair.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

type Message struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	MatchID   string    `gorm:"size:36;not null;index:idx_match_created,priority:1" json:"match_id"`
	Sender    string    `gorm:"size:36;not null" json:"sender"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_match_created,priority:2" json:"created_at"`
}

type ForumPost struct {
	ID          string                      `gorm:"primaryKey;size:36"`
	UserID      string                      `gorm:"size:36;not null;index"`
	Content     string                      `gorm:"type:text;not null"`
	IsAnonymous bool                        `gorm:"not null;default:false"`
	Tags        datatypes.JSONSlice[string] ``
	CreatedAt   time.Time                   `gorm:"autoCreateTime;index"`
}

// ForumReaction is a per-post counter keyed by reaction kind. Rows are
// created on first use and only ever incremented.
type ForumReaction struct {
	PostID string `gorm:"primaryKey;size:36"`
	Kind   string `gorm:"primaryKey;size:32"`
	Total  int64  `gorm:"not null;default:0"`
}

type ForumResponse struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	PostID    string    `gorm:"size:36;not null;index"`
	UserID    string    `gorm:"size:36;not null"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// CalendarEvent keeps the well-known fields in columns and the rest of the
// submitted document in Details.
type CalendarEvent struct {
	ID           string                `gorm:"primaryKey;size:36"`
	Creator      string                `gorm:"size:128;not null;index"`
	Title        string                `gorm:"size:255"`
	Date         string                `gorm:"size:10;index"`
	Details      datatypes.JSONMap     ``
	Participants []CalendarParticipant `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time             ``
}

type CalendarParticipant struct {
	EventID string `gorm:"primaryKey;size:36"`
	Email   string `gorm:"primaryKey;size:128;index"`
}

type TrainingPlan struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	MatchID   string    `gorm:"size:36;not null;index" json:"match_id"`
	Topic     string    `gorm:"size:255;not null" json:"topic"`
	Date      string    `gorm:"size:32;not null" json:"date"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&User{}, &PointEntry{},
		&Swipe{}, &Match{},
		&Message{},
		&ForumPost{}, &ForumReaction{}, &ForumResponse{},
		&CalendarEvent{}, &CalendarParticipant{},
		&TrainingPlan{},
	}
}

// NormalizeEmail is the stored form of an email address. Every lookup and
// every stored reference to a user's email goes through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
