package guard

import (
	"context"

	pb "github.com/hey-granth/profile-guard/internal/proto/guard"
)

// ListRooms returns the caller's active rooms.
func (s *Service) ListRooms(ctx context.Context, req *pb.UserRequest) (*pb.ListRoomsResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	rooms, err := s.chat.ListRooms(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "ListRooms", err)
	}
	resp := &pb.ListRoomsResponse{Rooms: make([]*pb.Room, 0, len(rooms))}
	for _, r := range rooms {
		room := &pb.Room{
			RoomId:    formatID(r.ID),
			Name:      r.Name,
			Type:      string(r.Type),
			UpdatedAt: r.UpdatedAt.UnixMilli(),
		}
		if r.MatchID != nil {
			room.MatchId = formatID(*r.MatchID)
		}
		resp.Rooms = append(resp.Rooms, room)
	}
	return resp, nil
}

// ListMessages returns a room's latest messages, oldest first. Rooms the
// caller is not in are NotFound.
func (s *Service) ListMessages(ctx context.Context, req *pb.ListMessagesRequest) (*pb.ListMessagesResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	roomID, err := parseID("room_id", req.RoomId)
	if err != nil {
		return nil, err
	}
	msgs, err := s.chat.ListMessages(ctx, userID, roomID, int(req.Limit))
	if err != nil {
		return nil, s.fail(ctx, "ListMessages", err)
	}
	resp := &pb.ListMessagesResponse{Messages: make([]*pb.ChatMessage, 0, len(msgs))}
	for _, m := range msgs {
		resp.Messages = append(resp.Messages, &pb.ChatMessage{
			MessageId:    formatID(m.ID),
			SenderUserId: formatID(m.SenderID),
			Content:      m.Content,
			Read:         m.IsRead,
			CreatedAt:    m.CreatedAt.UnixMilli(),
		})
	}
	return resp, nil
}

// MarkRead marks the other participants' messages in the room as read.
func (s *Service) MarkRead(ctx context.Context, req *pb.RoomRequest) (*pb.MarkReadResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	roomID, err := parseID("room_id", req.RoomId)
	if err != nil {
		return nil, err
	}
	n, err := s.chat.MarkRead(ctx, userID, roomID)
	if err != nil {
		return nil, s.fail(ctx, "MarkRead", err)
	}
	return &pb.MarkReadResponse{Updated: uint64(n)}, nil
}
