// Package gate derives the access decisions that depend on verification and
// matching state: who may send the first message in a chat and whose photos
// may be admitted to a public profile.
package gate

import (
	"context"

	"gorm.io/gorm"

	"github.com/hey-granth/profile-guard/internal/app"
	"github.com/hey-granth/profile-guard/internal/db"
	"github.com/hey-granth/profile-guard/internal/repository"
)

// RoomState is what the first-message rule needs to know about a room at the
// moment of sending.
type RoomState struct {
	IsParticipant bool
	MessageCount  int64
	Type          db.ChatType
	MatchBacked   bool
}

// MayPost decides whether a sender with the given gender may post into a room
// in the given state. Only a female participant may open an empty
// match-backed private chat; after that any participant may post.
func MayPost(gender db.Gender, room RoomState) bool {
	if !room.IsParticipant {
		return false
	}
	if room.MessageCount == 0 && room.Type == db.ChatPrivate && room.MatchBacked {
		return gender == db.GenderFemale
	}
	return true
}

// Service loads the facts for the decisions from storage on every call.
// Nothing is cached: the first-message answer changes after one send.
type Service struct {
	appCtx    *app.AppContext
	userRepo  *repository.UserRepository
	chatRepo  *repository.ChatRepository
	verifRepo *repository.VerificationRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return newService(appCtx, appCtx.DB)
}

func newService(appCtx *app.AppContext, conn *gorm.DB) *Service {
	return &Service{
		appCtx:    appCtx,
		userRepo:  repository.NewUserRepository(conn),
		chatRepo:  repository.NewChatRepository(conn),
		verifRepo: repository.NewVerificationRepository(conn),
	}
}

// WithTx returns a copy reading through an open transaction.
func (s *Service) WithTx(tx *gorm.DB) *Service {
	return newService(s.appCtx, tx)
}

// CanInitiateFirstMessage reports whether userID may post into roomID now.
// Unknown rooms and users are a plain "no".
func (s *Service) CanInitiateFirstMessage(ctx context.Context, userID, roomID uint64) (bool, error) {
	state, err := s.roomState(ctx, userID, roomID)
	if repository.IsNotFound(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	if !state.IsParticipant {
		return false, nil
	}

	user, err := s.userRepo.Get(ctx, userID)
	if repository.IsNotFound(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	allowed := MayPost(user.Gender, state)
	s.appCtx.Logger.Debug("first message gate", "user_id", userID, "room_id", roomID,
		"messages", state.MessageCount, "allowed", allowed)
	return allowed, nil
}

func (s *Service) roomState(ctx context.Context, userID, roomID uint64) (RoomState, error) {
	room, err := s.chatRepo.GetRoom(ctx, roomID)
	if err != nil {
		return RoomState{}, err
	}
	state := RoomState{Type: room.Type, MatchBacked: room.MatchID != nil}
	for _, p := range room.Participants {
		if p.UserID == userID {
			state.IsParticipant = true
			break
		}
	}
	if !state.IsParticipant {
		return state, nil
	}
	state.MessageCount, err = s.chatRepo.CountMessages(ctx, roomID)
	return state, err
}

// CanAdmitPhoto reports whether the user completed enrollment. There is no
// partial-trust tier.
func (s *Service) CanAdmitPhoto(ctx context.Context, userID uint64) (bool, error) {
	return s.verifRepo.HasReference(ctx, userID)
}
