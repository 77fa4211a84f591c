package guard

import (
	"context"
	"strconv"

	"github.com/hey-granth/profile-guard/internal/app"
	"github.com/hey-granth/profile-guard/internal/db"
	svcErr "github.com/hey-granth/profile-guard/internal/errors"
	"github.com/hey-granth/profile-guard/internal/logger"
	pb "github.com/hey-granth/profile-guard/internal/proto/guard"
	"github.com/hey-granth/profile-guard/internal/service/chat"
	"github.com/hey-granth/profile-guard/internal/service/gate"
	"github.com/hey-granth/profile-guard/internal/service/matching"
	"github.com/hey-granth/profile-guard/internal/service/moderation"
	"github.com/hey-granth/profile-guard/internal/service/photos"
	"github.com/hey-granth/profile-guard/internal/service/prompts"
	"github.com/hey-granth/profile-guard/internal/service/verification"
)

// Service implements the Guard gRPC API on top of the domain services.
// It parses ids, consults moderation before swipes and messages, and maps
// domain errors to gRPC status codes.
type Service struct {
	appCtx     *app.AppContext
	verifier   *verification.Service
	matcher    *matching.Service
	gate       *gate.Service
	chat       *chat.Service
	moderation *moderation.Service
	photos     *photos.Service
	prompts    *prompts.Service
}

// NewGuardService wires every domain service from AppContext.
func NewGuardService(appCtx *app.AppContext) *Service {
	g := gate.NewService(appCtx)
	verifier := verification.NewService(appCtx)
	return &Service{
		appCtx:     appCtx,
		verifier:   verifier,
		matcher:    matching.NewService(appCtx),
		gate:       g,
		chat:       chat.NewService(appCtx, g),
		moderation: moderation.NewService(appCtx),
		photos:     photos.NewService(appCtx, verifier, g),
		prompts:    prompts.NewService(appCtx),
	}
}

var _ pb.GuardServer = (*Service)(nil)

// Enroll establishes the caller's reference embeddings from three images.
func (s *Service) Enroll(ctx context.Context, req *pb.EnrollRequest) (*pb.VerificationResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	res, err := s.verifier.Enroll(ctx, userID, req.Images)
	if err != nil {
		return nil, s.fail(ctx, "Enroll", err)
	}
	return verificationResponse(res), nil
}

// Verify checks three images against the enrollment; with Record set the
// outcome is kept as a login verification record.
func (s *Service) Verify(ctx context.Context, req *pb.VerifyRequest) (*pb.VerificationResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	verify := s.verifier.Verify
	if req.Record {
		verify = s.verifier.VerifyAndRecord
	}
	res, err := verify(ctx, userID, req.Images)
	if err != nil {
		return nil, s.fail(ctx, "Verify", err)
	}
	return verificationResponse(res), nil
}

// RecordSwipe stores a like/dislike and reports whether it produced a match.
//
// Behavior:
//   - Banned actors and blocked pairs are refused with PermissionDenied.
//   - Self swipes and unknown actions are InvalidArgument.
func (s *Service) RecordSwipe(ctx context.Context, req *pb.RecordSwipeRequest) (*pb.RecordSwipeResponse, error) {
	actorID, err := parseID("actor_user_id", req.ActorUserId)
	if err != nil {
		return nil, err
	}
	targetID, err := parseID("target_user_id", req.TargetUserId)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAllowed(ctx, actorID, targetID); err != nil {
		return nil, err
	}

	m, err := s.matcher.RecordSwipe(ctx, actorID, targetID, db.SwipeAction(req.Action))
	if err != nil {
		return nil, s.fail(ctx, "RecordSwipe", err)
	}
	if m == nil {
		return &pb.RecordSwipeResponse{}, nil
	}
	return &pb.RecordSwipeResponse{Matched: true, MatchId: formatID(m.ID)}, nil
}

func (s *Service) CanInitiateFirstMessage(ctx context.Context, req *pb.FirstMessageRequest) (*pb.DecisionResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	roomID, err := parseID("room_id", req.RoomId)
	if err != nil {
		return nil, err
	}
	ok, err := s.gate.CanInitiateFirstMessage(ctx, userID, roomID)
	if err != nil {
		return nil, s.fail(ctx, "CanInitiateFirstMessage", err)
	}
	return &pb.DecisionResponse{Allowed: ok}, nil
}

func (s *Service) CanAdmitPhoto(ctx context.Context, req *pb.UserRequest) (*pb.DecisionResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	ok, err := s.gate.CanAdmitPhoto(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "CanAdmitPhoto", err)
	}
	return &pb.DecisionResponse{Allowed: ok}, nil
}

// ListMatches returns the caller's active matches.
func (s *Service) ListMatches(ctx context.Context, req *pb.UserRequest) (*pb.ListMatchesResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	matches, err := s.matcher.ListMatches(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "ListMatches", err)
	}

	resp := &pb.ListMatchesResponse{Matches: make([]*pb.Match, 0, len(matches))}
	for _, m := range matches {
		other, _ := m.OtherUser(userID)
		resp.Matches = append(resp.Matches, &pb.Match{
			MatchId:     formatID(m.ID),
			OtherUserId: formatID(other),
			Status:      string(m.Status),
			MatchedAt:   m.MatchedAt.UnixMilli(),
		})
	}
	return resp, nil
}

// ListLikedYou returns users who liked the recipient.
//
// Behavior:
//   - Excludes users that the recipient explicitly disliked.
//   - NewOnly also excludes users the recipient liked back.
//   - Supports cursor-based pagination with PaginationToken.
//
// Example:
//
//	svc.ListLikedYou(ctx, &pb.ListLikedYouRequest{RecipientUserId: "42"})
func (s *Service) ListLikedYou(ctx context.Context, req *pb.ListLikedYouRequest) (*pb.ListLikedYouResponse, error) {
	log := logger.FromContext(ctx, s.appCtx.Logger)
	log.Debug("ListLikedYou called", "recipient", req.RecipientUserId, "new_only", req.NewOnly)

	recipientID, err := parseID("recipient_user_id", req.RecipientUserId)
	if err != nil {
		return nil, err
	}

	list := s.matcher.ListLikers
	if req.NewOnly {
		list = s.matcher.ListNewLikers
	}
	swipes, nextToken, err := list(ctx, recipientID, req.PaginationToken, int(req.Limit))
	if err != nil {
		return nil, s.fail(ctx, "ListLikedYou", err)
	}

	resp := &pb.ListLikedYouResponse{Likers: make([]*pb.Liker, 0, len(swipes))}
	for _, sw := range swipes {
		resp.Likers = append(resp.Likers, &pb.Liker{
			ActorId:       formatID(sw.ActorID),
			UnixTimestamp: uint64(sw.UpdatedAt.UnixMilli()),
		})
	}
	resp.NextPaginationToken = nextToken
	return resp, nil
}

// CountLikedYou returns how many users liked the recipient (Redis first).
func (s *Service) CountLikedYou(ctx context.Context, req *pb.UserRequest) (*pb.CountLikedYouResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	n, err := s.matcher.CountLikers(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "CountLikedYou", err)
	}
	return &pb.CountLikedYouResponse{Count: uint64(n)}, nil
}

// SendMessage posts into a room after the ban and block checks; the
// first-message rule is enforced by the chat service.
func (s *Service) SendMessage(ctx context.Context, req *pb.SendMessageRequest) (*pb.SendMessageResponse, error) {
	senderID, err := parseID("sender_user_id", req.SenderUserId)
	if err != nil {
		return nil, err
	}
	roomID, err := parseID("room_id", req.RoomId)
	if err != nil {
		return nil, err
	}

	participants, err := s.chat.Participants(ctx, roomID)
	if err != nil {
		return nil, s.fail(ctx, "SendMessage", err)
	}
	for _, other := range participants {
		if other == senderID {
			continue
		}
		if err := s.ensureAllowed(ctx, senderID, other); err != nil {
			return nil, err
		}
	}

	msg, err := s.chat.SendMessage(ctx, senderID, roomID, req.Content)
	if err != nil {
		return nil, s.fail(ctx, "SendMessage", err)
	}
	return &pb.SendMessageResponse{MessageId: formatID(msg.ID), CreatedAt: msg.CreatedAt.UnixMilli()}, nil
}

// OpenChat returns the private room of a match, creating it on first use.
func (s *Service) OpenChat(ctx context.Context, req *pb.OpenChatRequest) (*pb.OpenChatResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	matchID, err := parseID("match_id", req.MatchId)
	if err != nil {
		return nil, err
	}
	room, err := s.chat.GetOrCreatePrivateRoom(ctx, userID, matchID)
	if err != nil {
		return nil, s.fail(ctx, "OpenChat", err)
	}
	return &pb.OpenChatResponse{RoomId: formatID(room.ID)}, nil
}

// ensureAllowed refuses banned actors and blocked pairs.
func (s *Service) ensureAllowed(ctx context.Context, actorID, otherID uint64) error {
	if err := s.ensureNotBanned(ctx, actorID); err != nil {
		return err
	}
	blocked, err := s.moderation.IsBlocked(ctx, actorID, otherID)
	if err != nil {
		return svcErr.Map(err)
	}
	if blocked {
		return svcErr.PermissionDenied("users have blocked each other")
	}
	return nil
}

func (s *Service) ensureNotBanned(ctx context.Context, userID uint64) error {
	banned, err := s.moderation.IsBanned(ctx, userID)
	if err != nil {
		return svcErr.Map(err)
	}
	if banned {
		return svcErr.PermissionDenied("user is banned")
	}
	return nil
}

// fail logs unexpected errors and maps every error to a status.
func (s *Service) fail(ctx context.Context, method string, err error) error {
	st := svcErr.Map(err)
	if svcErr.IsInternal(st) {
		logger.FromContext(ctx, s.appCtx.Logger).Error(method+" failed", "err", err)
	}
	return st
}

func verificationResponse(res verification.Result) *pb.VerificationResponse {
	return &pb.VerificationResponse{Verified: res.Verified, Score: res.Score, RecordId: res.RecordID}
}

func parseID(field, value string) (uint64, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.InvalidArgument(field + " must be a valid uint64")
	}
	return id, nil
}

// parseOptionalID treats an empty value as absent.
func parseOptionalID(field, value string) (uint64, error) {
	if value == "" {
		return 0, nil
	}
	return parseID(field, value)
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
