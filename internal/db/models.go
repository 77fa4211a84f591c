package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gender is the identity attribute consulted by the first-message policy.
type Gender string

const (
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderNonBinary Gender = "non-binary"
	GenderOther     Gender = "other"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNonBinary, GenderOther:
		return true
	}
	return false
}

// SwipeAction is the directed preference an actor records on a target.
type SwipeAction string

const (
	ActionLike    SwipeAction = "like"
	ActionDislike SwipeAction = "dislike"
)

// Valid reports whether a is like or dislike.
func (a SwipeAction) Valid() bool {
	return a == ActionLike || a == ActionDislike
}

// MatchStatus is mutated externally (moderation) after creation.
type MatchStatus string

const (
	MatchPending MatchStatus = "pending"
	MatchActive  MatchStatus = "active"
	MatchBlocked MatchStatus = "blocked"
)

// ChatType distinguishes match-backed private chats from group rooms.
type ChatType string

const (
	ChatPrivate ChatType = "private"
	ChatGroup   ChatType = "room"
)

// VerificationKind labels the event a VerificationRecord audits.
type VerificationKind string

const (
	KindEnrollment VerificationKind = "enrollment"
	KindLogin      VerificationKind = "login"
)

// User table.
//
// Active and Banned are owned by moderation; the matching and verification
// code only reads them. IsVerified/VerifiedAt are written only by enrollment.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Gender       Gender `gorm:"size:16;not null"`
	Active       bool   `gorm:"default:true"`
	Banned       bool   `gorm:"default:false"`
	IsVerified   bool   `gorm:"default:false"`
	VerifiedAt   *time.Time
	LastLoginAt  time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	// Profile is nil until the user creates one.
	Profile *Profile `gorm:"foreignKey:UserID"`
}

// Profile is the public dating profile. At most one per user.
type Profile struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	UserID      uint64 `gorm:"uniqueIndex;not null"`
	Bio         string `gorm:"type:text"`
	Location    string `gorm:"size:100"`
	DateOfBirth *time.Time
	Age         *int
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	Photos []ProfilePhoto `gorm:"foreignKey:ProfileID"`
}

// ProfilePhoto is an admitted profile image.
//
// Position is 1-based and IsPrimary marks position 1; both are assigned by the
// photo service before insert.
type ProfilePhoto struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	ProfileID  uint64    `gorm:"not null;index:idx_profile_position,priority:1"`
	ImageKey   string    `gorm:"size:255;not null"`
	Embedding  Vector    `gorm:"dim:512"`
	IsVerified bool      `gorm:"not null;default:false"`
	Position   int       `gorm:"not null;index:idx_profile_position,priority:2"`
	IsPrimary  bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// PromptQuestion is a profile prompt users can answer, shown in Order.
type PromptQuestion struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Question  string    `gorm:"size:255;uniqueIndex;not null"`
	Order     int       `gorm:"column:sort_order;not null;default:0"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// PromptAnswer is a profile's answer to one question; answering again
// overwrites it.
type PromptAnswer struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	ProfileID  uint64    `gorm:"not null;uniqueIndex:idx_answer_profile_question,priority:1"`
	QuestionID uint64    `gorm:"not null;uniqueIndex:idx_answer_profile_question,priority:2"`
	Answer     string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// ReferenceEmbedding holds the three enrollment vectors of a user.
//
// UserID is the primary key and all three columns are NOT NULL, so a row is
// either fully populated or absent. Re-enrollment overwrites the row in place.
type ReferenceEmbedding struct {
	UserID     uint64    `gorm:"primaryKey;autoIncrement:false"`
	Embedding1 Vector    `gorm:"not null;dim:512"`
	Embedding2 Vector    `gorm:"not null;dim:512"`
	Embedding3 Vector    `gorm:"not null;dim:512"`
	Dim        int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// Vectors returns the three reference vectors as raw slices.
func (r *ReferenceEmbedding) Vectors() [][]float32 {
	return [][]float32{r.Embedding1.Slice(), r.Embedding2.Slice(), r.Embedding3.Slice()}
}

// VerificationRecord is an append-only audit entry of one enrollment or
// verification event.
type VerificationRecord struct {
	ID         string           `gorm:"primaryKey;size:36"`
	UserID     uint64           `gorm:"not null;index:idx_verification_user_created,priority:1"`
	Kind       VerificationKind `gorm:"size:16;not null"`
	Embedding1 Vector           `gorm:"not null;dim:512"`
	Embedding2 Vector           `gorm:"not null;dim:512"`
	Embedding3 Vector           `gorm:"not null;dim:512"`
	Score      float64          `gorm:"not null"`
	IsVerified bool             `gorm:"not null"`
	CreatedAt  time.Time        `gorm:"autoCreateTime;index:idx_verification_user_created,priority:2"`
}

// BeforeCreate assigns the record id.
func (r *VerificationRecord) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Swipe represents an actor's like/dislike on a target.
//
// Composite PK: (ActorID, TargetID)
//   - Ensures a single row per ordered pair (overwrite guarantee).
//
// Indexes:
//   - idx_target_action_updated_actor(target_id, action, updated_at DESC, actor_id)
//     Optimizes "who liked me" lists with pagination.
//   - idx_actor_target_action(actor_id, target_id, action)
//     Optimizes the reciprocal-like lookup.
type Swipe struct {
	ActorID   uint64      `gorm:"primaryKey;autoIncrement:false;index:idx_actor_target_action,priority:1"`
	TargetID  uint64      `gorm:"primaryKey;autoIncrement:false;index:idx_target_action_updated_actor,priority:1;index:idx_actor_target_action,priority:2"`
	Action    SwipeAction `gorm:"size:10;not null;index:idx_target_action_updated_actor,priority:2;index:idx_actor_target_action,priority:3"`
	CreatedAt time.Time   `gorm:"autoCreateTime"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime;index:idx_target_action_updated_actor,priority:3,sort:desc"`
}

// Match is an undirected pair stored in canonical order (UserLowID < UserHighID).
// The unique index over the pair is what makes concurrent creation safe.
type Match struct {
	ID         uint64      `gorm:"primaryKey;autoIncrement"`
	UserLowID  uint64      `gorm:"not null;uniqueIndex:idx_match_pair,priority:1;index:idx_match_low_status,priority:1"`
	UserHighID uint64      `gorm:"not null;uniqueIndex:idx_match_pair,priority:2;index:idx_match_high_status,priority:1"`
	Status     MatchStatus `gorm:"size:16;not null;default:active;index:idx_match_low_status,priority:2;index:idx_match_high_status,priority:2"`
	MatchedAt  time.Time   `gorm:"autoCreateTime"`
	UpdatedAt  time.Time   `gorm:"autoUpdateTime"`
}

// HasUser reports whether userID is one side of the match.
func (m *Match) HasUser(userID uint64) bool {
	return m.UserLowID == userID || m.UserHighID == userID
}

// OtherUser returns the counterpart of userID.
func (m *Match) OtherUser(userID uint64) (uint64, bool) {
	switch userID {
	case m.UserLowID:
		return m.UserHighID, true
	case m.UserHighID:
		return m.UserLowID, true
	}
	return 0, false
}

// CanonicalPair orders two identity ids for every undirected relation in the
// system: the lower id is always first.
func CanonicalPair(a, b uint64) (low, high uint64) {
	if a < b {
		return a, b
	}
	return b, a
}

// ChatRoom is either a match-backed private chat or a named group room.
type ChatRoom struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:255"`
	Type      ChatType  `gorm:"size:10;not null;default:private;index:idx_room_type_active,priority:1"`
	MatchID   *uint64   `gorm:"uniqueIndex"`
	Active    bool      `gorm:"not null;default:true;index:idx_room_type_active,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Participants []ChatParticipant `gorm:"foreignKey:RoomID"`
}

// ChatParticipant links users to rooms.
type ChatParticipant struct {
	RoomID    uint64    `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint64    `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Message is a chat message.
type Message struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	RoomID    uint64    `gorm:"not null;index:idx_message_room_created,priority:1"`
	SenderID  uint64    `gorm:"not null;index"`
	Content   string    `gorm:"type:text;not null"`
	IsRead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_message_room_created,priority:2"`
}

// Block records that BlockerID blocked BlockedID.
type Block struct {
	BlockerID uint64    `gorm:"primaryKey;autoIncrement:false"`
	BlockedID uint64    `gorm:"primaryKey;autoIncrement:false;index"`
	Reason    string    `gorm:"size:200"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Ban is a moderation ban. A ban is in force while Active and not expired.
type Ban struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement"`
	UserID    uint64     `gorm:"not null;index:idx_ban_user_active,priority:1"`
	BannedBy  *uint64    `gorm:"index"`
	Reason    string     `gorm:"type:text;not null"`
	Active    bool       `gorm:"not null;default:true;index:idx_ban_user_active,priority:2"`
	ExpiresAt *time.Time `gorm:"index"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

// Report is a user report; one per (reporter, reported) pair.
type Report struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	ReporterID  uint64 `gorm:"not null;uniqueIndex:idx_report_pair,priority:1"`
	ReportedID  uint64 `gorm:"not null;uniqueIndex:idx_report_pair,priority:2;index:idx_report_reported_resolved,priority:1"`
	Reason      string `gorm:"size:50;not null"`
	Description string `gorm:"type:text"`
	Resolved    bool   `gorm:"not null;default:false;index:idx_report_reported_resolved,priority:2"`
	ResolvedAt  *time.Time
	ResolvedBy  *uint64
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// AllModels lists every table for AutoMigrate.
func AllModels() []any {
	return []any{
		&User{}, &Profile{}, &ProfilePhoto{},
		&PromptQuestion{}, &PromptAnswer{},
		&ReferenceEmbedding{}, &VerificationRecord{},
		&Swipe{}, &Match{},
		&ChatRoom{}, &ChatParticipant{}, &Message{},
		&Block{}, &Ban{}, &Report{},
	}
}
