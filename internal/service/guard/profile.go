package guard

import (
	"context"

	"github.com/hey-granth/profile-guard/internal/db"
	pb "github.com/hey-granth/profile-guard/internal/proto/guard"
	"github.com/hey-granth/profile-guard/internal/service/photos"
	"github.com/hey-granth/profile-guard/internal/service/prompts"
)

// AddPhoto appends one photo to an enrolled user's profile.
func (s *Service) AddPhoto(ctx context.Context, req *pb.AddPhotoRequest) (*pb.PhotoResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNotBanned(ctx, userID); err != nil {
		return nil, err
	}
	var up photos.Upload
	if req.Photo != nil {
		up = photos.Upload{ImageKey: req.Photo.ImageKey, Image: req.Photo.Image}
	}
	photo, err := s.photos.AddPhoto(ctx, userID, up)
	if err != nil {
		return nil, s.fail(ctx, "AddPhoto", err)
	}
	return &pb.PhotoResponse{Photo: photoMessage(*photo)}, nil
}

// ReplacePhotos swaps the user's whole photo set; the set must match the
// enrollment or nothing changes.
func (s *Service) ReplacePhotos(ctx context.Context, req *pb.ReplacePhotosRequest) (*pb.ListPhotosResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNotBanned(ctx, userID); err != nil {
		return nil, err
	}
	uploads := make([]photos.Upload, 0, len(req.Photos))
	for _, p := range req.Photos {
		if p == nil {
			continue
		}
		uploads = append(uploads, photos.Upload{ImageKey: p.ImageKey, Image: p.Image})
	}
	list, err := s.photos.ReplacePhotos(ctx, userID, uploads)
	if err != nil {
		return nil, s.fail(ctx, "ReplacePhotos", err)
	}
	return photoList(list), nil
}

func (s *Service) ListPhotos(ctx context.Context, req *pb.UserRequest) (*pb.ListPhotosResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	list, err := s.photos.ListPhotos(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "ListPhotos", err)
	}
	return photoList(list), nil
}

func (s *Service) ListPromptQuestions(ctx context.Context, _ *pb.ListPromptQuestionsRequest) (*pb.ListPromptQuestionsResponse, error) {
	qs, err := s.prompts.ActiveQuestions(ctx)
	if err != nil {
		return nil, s.fail(ctx, "ListPromptQuestions", err)
	}
	resp := &pb.ListPromptQuestionsResponse{Questions: make([]*pb.PromptQuestion, 0, len(qs))}
	for _, q := range qs {
		resp.Questions = append(resp.Questions, &pb.PromptQuestion{
			QuestionId: formatID(q.ID),
			Question:   q.Question,
			Order:      int32(q.Order),
		})
	}
	return resp, nil
}

// SavePromptAnswers stores the answers that name an active question and
// returns the user's full answer set.
func (s *Service) SavePromptAnswers(ctx context.Context, req *pb.SavePromptAnswersRequest) (*pb.PromptAnswersResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	answers := make([]prompts.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		if a == nil {
			continue
		}
		qid, err := parseOptionalID("question_id", a.QuestionId)
		if err != nil {
			return nil, err
		}
		answers = append(answers, prompts.Answer{QuestionID: qid, Text: a.Answer})
	}
	saved, err := s.prompts.SaveAnswers(ctx, userID, answers)
	if err != nil {
		return nil, s.fail(ctx, "SavePromptAnswers", err)
	}
	return answerList(saved), nil
}

func (s *Service) ListPromptAnswers(ctx context.Context, req *pb.UserRequest) (*pb.PromptAnswersResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	list, err := s.prompts.ListAnswers(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "ListPromptAnswers", err)
	}
	return answerList(list), nil
}

// PotentialMatches lists users the caller has not swiped on, excluding
// blocked pairs and users under a ban.
func (s *Service) PotentialMatches(ctx context.Context, req *pb.UserPageRequest) (*pb.PotentialMatchesResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	users, err := s.matcher.PotentialMatches(ctx, userID, int(req.Limit))
	if err != nil {
		return nil, s.fail(ctx, "PotentialMatches", err)
	}
	resp := &pb.PotentialMatchesResponse{Candidates: make([]*pb.Candidate, 0, len(users))}
	for _, u := range users {
		resp.Candidates = append(resp.Candidates, &pb.Candidate{
			UserId:   formatID(u.ID),
			Username: u.Username,
			Gender:   string(u.Gender),
			Verified: u.IsVerified,
		})
	}
	return resp, nil
}

// ListLiked returns who the caller liked, most recent first.
func (s *Service) ListLiked(ctx context.Context, req *pb.UserPageRequest) (*pb.ListLikedResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	swipes, err := s.matcher.ListLiked(ctx, userID, int(req.Limit))
	if err != nil {
		return nil, s.fail(ctx, "ListLiked", err)
	}
	resp := &pb.ListLikedResponse{Liked: make([]*pb.LikedUser, 0, len(swipes))}
	for _, sw := range swipes {
		resp.Liked = append(resp.Liked, &pb.LikedUser{
			UserId:        formatID(sw.TargetID),
			UnixTimestamp: uint64(sw.UpdatedAt.UnixMilli()),
		})
	}
	return resp, nil
}

func photoMessage(p db.ProfilePhoto) *pb.Photo {
	return &pb.Photo{
		PhotoId:   formatID(p.ID),
		ImageKey:  p.ImageKey,
		Position:  uint32(p.Position),
		Primary:   p.IsPrimary,
		Verified:  p.IsVerified,
		CreatedAt: p.CreatedAt.UnixMilli(),
	}
}

func photoList(list []db.ProfilePhoto) *pb.ListPhotosResponse {
	resp := &pb.ListPhotosResponse{Photos: make([]*pb.Photo, 0, len(list))}
	for _, p := range list {
		resp.Photos = append(resp.Photos, photoMessage(p))
	}
	return resp
}

func answerList(list []db.PromptAnswer) *pb.PromptAnswersResponse {
	resp := &pb.PromptAnswersResponse{Answers: make([]*pb.PromptAnswer, 0, len(list))}
	for _, a := range list {
		resp.Answers = append(resp.Answers, &pb.PromptAnswer{QuestionId: formatID(a.QuestionID), Answer: a.Answer})
	}
	return resp
}
