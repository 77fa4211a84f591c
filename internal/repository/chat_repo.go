package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hey-granth/profile-guard/internal/db"
)

// ChatRepository covers rooms, participants and messages.
type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(database *gorm.DB) *ChatRepository {
	return &ChatRepository{db: database}
}

// WithTx returns a copy bound to an open transaction.
func (r *ChatRepository) WithTx(tx *gorm.DB) *ChatRepository {
	return &ChatRepository{db: tx}
}

// GetOrCreateMatchRoom returns the private room backed by the match, creating
// it with both users as participants if absent.
//
// Behavior:
//   - chat_rooms.match_id is unique; a concurrent creator losing the race gets
//     gorm.ErrDuplicatedKey inside the savepoint and reads the winner's room.
func (r *ChatRepository) GetOrCreateMatchRoom(ctx context.Context, m *db.Match) (*db.ChatRoom, bool, error) {
	existing, err := r.getByMatch(ctx, m.ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	matchID := m.ID
	room := db.ChatRoom{
		Name:    fmt.Sprintf("match-%d", m.ID),
		Type:    db.ChatPrivate,
		MatchID: &matchID,
		Active:  true,
		Participants: []db.ChatParticipant{
			{UserID: m.UserLowID},
			{UserID: m.UserHighID},
		},
	}
	err = r.db.WithContext(ctx).Transaction(func(sp *gorm.DB) error {
		return sp.Create(&room).Error
	})
	switch {
	case err == nil:
		return &room, true, nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		existing, err := r.getByMatch(ctx, m.ID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	default:
		return nil, false, err
	}
}

func (r *ChatRepository) getByMatch(ctx context.Context, matchID uint64) (*db.ChatRoom, error) {
	var room db.ChatRoom
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Where("match_id = ?", matchID).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetRoom returns the room with its participants.
func (r *ChatRepository) GetRoom(ctx context.Context, roomID uint64) (*db.ChatRoom, error) {
	var room db.ChatRoom
	if err := r.db.WithContext(ctx).Preload("Participants").First(&room, roomID).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// LockRoom locks the room row for update so that first-message decisions on
// the same room serialize.
func (r *ChatRepository) LockRoom(ctx context.Context, roomID uint64) (*db.ChatRoom, error) {
	var room db.ChatRoom
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&room, roomID).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// CreateGroupRoom creates a named room with the given participants.
func (r *ChatRepository) CreateGroupRoom(ctx context.Context, name string, userIDs ...uint64) (*db.ChatRoom, error) {
	room := db.ChatRoom{Name: name, Type: db.ChatGroup, Active: true}
	for _, id := range userIDs {
		room.Participants = append(room.Participants, db.ChatParticipant{UserID: id})
	}
	if err := r.db.WithContext(ctx).Create(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// IsParticipant reports whether userID belongs to the room.
func (r *ChatRepository) IsParticipant(ctx context.Context, roomID, userID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.ChatParticipant{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	return count > 0, err
}

// CountMessages returns the number of messages posted in the room.
func (r *ChatRepository) CountMessages(ctx context.Context, roomID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("room_id = ?", roomID).
		Count(&count).Error
	return count, err
}

// CreateMessage inserts the message and bumps the room's updated_at so room
// listings stay ordered by activity.
func (r *ChatRepository) CreateMessage(ctx context.Context, msg *db.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&db.ChatRoom{}).
		Where("id = ?", msg.RoomID).
		Update("updated_at", msg.CreatedAt).Error
}

// ListRoomsForUser returns the active rooms the user participates in, most
// recently updated first.
func (r *ChatRepository) ListRoomsForUser(ctx context.Context, userID uint64) ([]db.ChatRoom, error) {
	var rooms []db.ChatRoom
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Where("active = ?", true).
		Where("id IN (?)", r.db.Model(&db.ChatParticipant{}).Select("room_id").Where("user_id = ?", userID)).
		Order("updated_at DESC, id DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// ListMessages returns the latest limit messages of the room, oldest first.
func (r *ChatRepository) ListMessages(ctx context.Context, roomID uint64, limit int) ([]db.Message, error) {
	var msgs []db.Message
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	slices.Reverse(msgs)
	return msgs, nil
}

// MarkRead flags every message in the room not sent by readerID as read and
// returns how many changed.
func (r *ChatRepository) MarkRead(ctx context.Context, roomID, readerID uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("room_id = ? AND sender_id <> ? AND is_read = ?", roomID, readerID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// DeactivateMatchRoom closes the private room of a match, if one exists.
func (r *ChatRepository) DeactivateMatchRoom(ctx context.Context, matchID uint64) error {
	return r.db.WithContext(ctx).
		Model(&db.ChatRoom{}).
		Where("match_id = ?", matchID).
		Update("active", false).Error
}
