package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/hey-granth/profile-guard/internal/app"
	"github.com/hey-granth/profile-guard/internal/db"
	svcErr "github.com/hey-granth/profile-guard/internal/errors"
	"github.com/hey-granth/profile-guard/internal/repository"
	"github.com/hey-granth/profile-guard/internal/service/gate"
)

const (
	MaxMessageLength   = 2000
	DefaultHistorySize = 50
)

// Service runs match-backed private chats.
type Service struct {
	appCtx    *app.AppContext
	gate      *gate.Service
	chatRepo  *repository.ChatRepository
	matchRepo *repository.MatchRepository
}

func NewService(appCtx *app.AppContext, g *gate.Service) *Service {
	return &Service{
		appCtx:    appCtx,
		gate:      g,
		chatRepo:  repository.NewChatRepository(appCtx.DB),
		matchRepo: repository.NewMatchRepository(appCtx.DB),
	}
}

// GetOrCreatePrivateRoom returns the private room of a match the user belongs
// to, creating it on first use.
//
// Behavior:
//   - ErrMatchNotFound when the match does not exist or the user is not in it.
//   - ErrMatchNotActive once moderation moved the match out of active.
//   - At most one room per match, even under concurrent opens.
func (s *Service) GetOrCreatePrivateRoom(ctx context.Context, userID, matchID uint64) (*db.ChatRoom, error) {
	m, err := s.matchRepo.Get(ctx, matchID)
	if repository.IsNotFound(err) {
		return nil, svcErr.ErrMatchNotFound
	} else if err != nil {
		return nil, err
	}
	if !m.HasUser(userID) {
		return nil, svcErr.ErrMatchNotFound
	}
	if m.Status != db.MatchActive {
		return nil, svcErr.ErrMatchNotActive
	}

	room, created, err := s.chatRepo.GetOrCreateMatchRoom(ctx, m)
	if err != nil {
		return nil, err
	}
	if created {
		s.appCtx.Logger.Info("private room created", "room_id", room.ID, "match_id", m.ID)
	}
	return room, nil
}

// SendMessage posts content into the room.
//
// Behavior:
//   - Empty or whitespace-only content is ErrEmptyMessage.
//   - The room row is locked and the first-message gate is evaluated inside
//     the same transaction as the insert, so two first messages racing into
//     an empty room are decided one after the other.
//   - A refused sender, or an inactive room, gets ErrMessageNotAllowed.
func (s *Service) SendMessage(ctx context.Context, senderID, roomID uint64, content string) (*db.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, svcErr.ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return nil, fmt.Errorf("%w: message longer than %d characters", svcErr.ErrValidation, MaxMessageLength)
	}

	msg := &db.Message{RoomID: roomID, SenderID: senderID, Content: content}
	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := s.chatRepo.WithTx(tx).LockRoom(ctx, roomID)
		if repository.IsNotFound(err) {
			return svcErr.ErrRoomNotFound
		} else if err != nil {
			return err
		}
		if !room.Active {
			return svcErr.ErrMessageNotAllowed
		}

		allowed, err := s.gate.WithTx(tx).CanInitiateFirstMessage(ctx, senderID, roomID)
		if err != nil {
			return err
		}
		if !allowed {
			return svcErr.ErrMessageNotAllowed
		}
		return s.chatRepo.WithTx(tx).CreateMessage(ctx, msg)
	})
	if err != nil {
		if !errors.Is(err, svcErr.ErrMessageNotAllowed) {
			s.appCtx.Logger.Error("SendMessage failed", "sender", senderID, "room_id", roomID, "err", err)
		}
		return nil, err
	}
	return msg, nil
}

// Participants returns the user ids of the room.
func (s *Service) Participants(ctx context.Context, roomID uint64) ([]uint64, error) {
	room, err := s.chatRepo.GetRoom(ctx, roomID)
	if repository.IsNotFound(err) {
		return nil, svcErr.ErrRoomNotFound
	} else if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(room.Participants))
	for _, p := range room.Participants {
		ids = append(ids, p.UserID)
	}
	return ids, nil
}

// ListRooms returns the user's active rooms.
func (s *Service) ListRooms(ctx context.Context, userID uint64) ([]db.ChatRoom, error) {
	return s.chatRepo.ListRoomsForUser(ctx, userID)
}

// ListMessages returns the latest messages of a room the user is in, oldest
// first.
func (s *Service) ListMessages(ctx context.Context, userID, roomID uint64, limit int) ([]db.Message, error) {
	if err := s.requireParticipant(ctx, userID, roomID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return s.chatRepo.ListMessages(ctx, roomID, limit)
}

// MarkRead marks the other participants' messages as read.
func (s *Service) MarkRead(ctx context.Context, userID, roomID uint64) (int64, error) {
	if err := s.requireParticipant(ctx, userID, roomID); err != nil {
		return 0, err
	}
	return s.chatRepo.MarkRead(ctx, roomID, userID)
}

// non participants see the room as missing
func (s *Service) requireParticipant(ctx context.Context, userID, roomID uint64) error {
	ok, err := s.chatRepo.IsParticipant(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return svcErr.ErrRoomNotFound
	}
	return nil
}
