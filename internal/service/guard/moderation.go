package guard

import (
	"context"
	"time"

	pb "github.com/hey-granth/profile-guard/internal/proto/guard"
)

// Block records blocker -> blocked and closes any match between them.
func (s *Service) Block(ctx context.Context, req *pb.BlockRequest) (*pb.ChangedResponse, error) {
	blockerID, blockedID, err := parsePair(req)
	if err != nil {
		return nil, err
	}
	if err := s.moderation.Block(ctx, blockerID, blockedID, req.Reason); err != nil {
		return nil, s.fail(ctx, "Block", err)
	}
	return &pb.ChangedResponse{Changed: true}, nil
}

// Unblock removes blocker -> blocked; Changed is false when there was none.
func (s *Service) Unblock(ctx context.Context, req *pb.BlockRequest) (*pb.ChangedResponse, error) {
	blockerID, blockedID, err := parsePair(req)
	if err != nil {
		return nil, err
	}
	removed, err := s.moderation.Unblock(ctx, blockerID, blockedID)
	if err != nil {
		return nil, s.fail(ctx, "Unblock", err)
	}
	return &pb.ChangedResponse{Changed: removed}, nil
}

func (s *Service) ListBlocked(ctx context.Context, req *pb.UserRequest) (*pb.ListBlockedResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	blocks, err := s.moderation.ListBlocked(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "ListBlocked", err)
	}
	resp := &pb.ListBlockedResponse{Blocked: make([]*pb.BlockedUser, 0, len(blocks))}
	for _, b := range blocks {
		resp.Blocked = append(resp.Blocked, &pb.BlockedUser{
			UserId:    formatID(b.BlockedID),
			Reason:    b.Reason,
			CreatedAt: b.CreatedAt.UnixMilli(),
		})
	}
	return resp, nil
}

// Report files a report; reporting the same user again refreshes it.
func (s *Service) Report(ctx context.Context, req *pb.ReportRequest) (*pb.ChangedResponse, error) {
	reporterID, err := parseID("reporter_user_id", req.ReporterUserId)
	if err != nil {
		return nil, err
	}
	reportedID, err := parseID("reported_user_id", req.ReportedUserId)
	if err != nil {
		return nil, err
	}
	if err := s.moderation.Report(ctx, reporterID, reportedID, req.Reason, req.Description); err != nil {
		return nil, s.fail(ctx, "Report", err)
	}
	return &pb.ChangedResponse{Changed: true}, nil
}

// ListOpenReports returns unresolved reports, newest first.
func (s *Service) ListOpenReports(ctx context.Context, req *pb.ListReportsRequest) (*pb.ListReportsResponse, error) {
	reportedID, err := parseOptionalID("reported_user_id", req.ReportedUserId)
	if err != nil {
		return nil, err
	}
	reports, err := s.moderation.PendingReports(ctx, reportedID, int(req.Limit))
	if err != nil {
		return nil, s.fail(ctx, "ListOpenReports", err)
	}
	resp := &pb.ListReportsResponse{Reports: make([]*pb.Report, 0, len(reports))}
	for _, r := range reports {
		resp.Reports = append(resp.Reports, &pb.Report{
			ReportId:       formatID(r.ID),
			ReporterUserId: formatID(r.ReporterID),
			ReportedUserId: formatID(r.ReportedID),
			Reason:         r.Reason,
			Description:    r.Description,
			CreatedAt:      r.CreatedAt.UnixMilli(),
		})
	}
	return resp, nil
}

// Ban replaces the user's active ban. ExpiresAt 0 bans indefinitely.
func (s *Service) Ban(ctx context.Context, req *pb.BanRequest) (*pb.BanResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	var bannedBy *uint64
	if id, err := parseOptionalID("banned_by_user_id", req.BannedByUserId); err != nil {
		return nil, err
	} else if id != 0 {
		bannedBy = &id
	}
	var expiresAt *time.Time
	if req.ExpiresAt != 0 {
		t := time.UnixMilli(req.ExpiresAt).UTC()
		expiresAt = &t
	}

	ban, err := s.moderation.Ban(ctx, userID, bannedBy, req.Reason, expiresAt)
	if err != nil {
		return nil, s.fail(ctx, "Ban", err)
	}
	resp := &pb.BanResponse{BanId: formatID(ban.ID)}
	if ban.ExpiresAt != nil {
		resp.ExpiresAt = ban.ExpiresAt.UnixMilli()
	}
	return resp, nil
}

// Unban lifts active bans; Changed is false when there was none.
func (s *Service) Unban(ctx context.Context, req *pb.UserRequest) (*pb.ChangedResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	lifted, err := s.moderation.Unban(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "Unban", err)
	}
	return &pb.ChangedResponse{Changed: lifted}, nil
}

func parsePair(req *pb.BlockRequest) (uint64, uint64, error) {
	blockerID, err := parseID("blocker_user_id", req.BlockerUserId)
	if err != nil {
		return 0, 0, err
	}
	blockedID, err := parseID("blocked_user_id", req.BlockedUserId)
	if err != nil {
		return 0, 0, err
	}
	return blockerID, blockedID, nil
}
