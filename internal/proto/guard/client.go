package guard

import (
	"context"

	"google.golang.org/grpc"
)

// GuardClient is the client API for the Guard service. Every call is sent
// with the JSON content-subtype.
type GuardClient struct {
	cc grpc.ClientConnInterface
}

func NewGuardClient(cc grpc.ClientConnInterface) *GuardClient {
	return &GuardClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *GuardClient) Enroll(ctx context.Context, in *EnrollRequest, opts ...grpc.CallOption) (*VerificationResponse, error) {
	return invoke[VerificationResponse](ctx, c.cc, "Enroll", in, opts)
}

func (c *GuardClient) Verify(ctx context.Context, in *VerifyRequest, opts ...grpc.CallOption) (*VerificationResponse, error) {
	return invoke[VerificationResponse](ctx, c.cc, "Verify", in, opts)
}

func (c *GuardClient) RecordSwipe(ctx context.Context, in *RecordSwipeRequest, opts ...grpc.CallOption) (*RecordSwipeResponse, error) {
	return invoke[RecordSwipeResponse](ctx, c.cc, "RecordSwipe", in, opts)
}

func (c *GuardClient) CanInitiateFirstMessage(ctx context.Context, in *FirstMessageRequest, opts ...grpc.CallOption) (*DecisionResponse, error) {
	return invoke[DecisionResponse](ctx, c.cc, "CanInitiateFirstMessage", in, opts)
}

func (c *GuardClient) CanAdmitPhoto(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*DecisionResponse, error) {
	return invoke[DecisionResponse](ctx, c.cc, "CanAdmitPhoto", in, opts)
}

func (c *GuardClient) ListMatches(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*ListMatchesResponse, error) {
	return invoke[ListMatchesResponse](ctx, c.cc, "ListMatches", in, opts)
}

func (c *GuardClient) ListLikedYou(ctx context.Context, in *ListLikedYouRequest, opts ...grpc.CallOption) (*ListLikedYouResponse, error) {
	return invoke[ListLikedYouResponse](ctx, c.cc, "ListLikedYou", in, opts)
}

func (c *GuardClient) CountLikedYou(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*CountLikedYouResponse, error) {
	return invoke[CountLikedYouResponse](ctx, c.cc, "CountLikedYou", in, opts)
}

func (c *GuardClient) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*SendMessageResponse, error) {
	return invoke[SendMessageResponse](ctx, c.cc, "SendMessage", in, opts)
}

func (c *GuardClient) OpenChat(ctx context.Context, in *OpenChatRequest, opts ...grpc.CallOption) (*OpenChatResponse, error) {
	return invoke[OpenChatResponse](ctx, c.cc, "OpenChat", in, opts)
}

func (c *GuardClient) AddPhoto(ctx context.Context, in *AddPhotoRequest, opts ...grpc.CallOption) (*PhotoResponse, error) {
	return invoke[PhotoResponse](ctx, c.cc, "AddPhoto", in, opts)
}

func (c *GuardClient) ReplacePhotos(ctx context.Context, in *ReplacePhotosRequest, opts ...grpc.CallOption) (*ListPhotosResponse, error) {
	return invoke[ListPhotosResponse](ctx, c.cc, "ReplacePhotos", in, opts)
}

func (c *GuardClient) ListPhotos(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*ListPhotosResponse, error) {
	return invoke[ListPhotosResponse](ctx, c.cc, "ListPhotos", in, opts)
}

func (c *GuardClient) ListPromptQuestions(ctx context.Context, in *ListPromptQuestionsRequest, opts ...grpc.CallOption) (*ListPromptQuestionsResponse, error) {
	return invoke[ListPromptQuestionsResponse](ctx, c.cc, "ListPromptQuestions", in, opts)
}

func (c *GuardClient) SavePromptAnswers(ctx context.Context, in *SavePromptAnswersRequest, opts ...grpc.CallOption) (*PromptAnswersResponse, error) {
	return invoke[PromptAnswersResponse](ctx, c.cc, "SavePromptAnswers", in, opts)
}

func (c *GuardClient) ListPromptAnswers(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*PromptAnswersResponse, error) {
	return invoke[PromptAnswersResponse](ctx, c.cc, "ListPromptAnswers", in, opts)
}

func (c *GuardClient) PotentialMatches(ctx context.Context, in *UserPageRequest, opts ...grpc.CallOption) (*PotentialMatchesResponse, error) {
	return invoke[PotentialMatchesResponse](ctx, c.cc, "PotentialMatches", in, opts)
}

func (c *GuardClient) ListLiked(ctx context.Context, in *UserPageRequest, opts ...grpc.CallOption) (*ListLikedResponse, error) {
	return invoke[ListLikedResponse](ctx, c.cc, "ListLiked", in, opts)
}

func (c *GuardClient) Block(ctx context.Context, in *BlockRequest, opts ...grpc.CallOption) (*ChangedResponse, error) {
	return invoke[ChangedResponse](ctx, c.cc, "Block", in, opts)
}

func (c *GuardClient) Unblock(ctx context.Context, in *BlockRequest, opts ...grpc.CallOption) (*ChangedResponse, error) {
	return invoke[ChangedResponse](ctx, c.cc, "Unblock", in, opts)
}

func (c *GuardClient) ListBlocked(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*ListBlockedResponse, error) {
	return invoke[ListBlockedResponse](ctx, c.cc, "ListBlocked", in, opts)
}

func (c *GuardClient) Report(ctx context.Context, in *ReportRequest, opts ...grpc.CallOption) (*ChangedResponse, error) {
	return invoke[ChangedResponse](ctx, c.cc, "Report", in, opts)
}

func (c *GuardClient) ListOpenReports(ctx context.Context, in *ListReportsRequest, opts ...grpc.CallOption) (*ListReportsResponse, error) {
	return invoke[ListReportsResponse](ctx, c.cc, "ListOpenReports", in, opts)
}

func (c *GuardClient) Ban(ctx context.Context, in *BanRequest, opts ...grpc.CallOption) (*BanResponse, error) {
	return invoke[BanResponse](ctx, c.cc, "Ban", in, opts)
}

func (c *GuardClient) Unban(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*ChangedResponse, error) {
	return invoke[ChangedResponse](ctx, c.cc, "Unban", in, opts)
}

func (c *GuardClient) ListRooms(ctx context.Context, in *UserRequest, opts ...grpc.CallOption) (*ListRoomsResponse, error) {
	return invoke[ListRoomsResponse](ctx, c.cc, "ListRooms", in, opts)
}

func (c *GuardClient) ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*ListMessagesResponse, error) {
	return invoke[ListMessagesResponse](ctx, c.cc, "ListMessages", in, opts)
}

func (c *GuardClient) MarkRead(ctx context.Context, in *RoomRequest, opts ...grpc.CallOption) (*MarkReadResponse, error) {
	return invoke[MarkReadResponse](ctx, c.cc, "MarkRead", in, opts)
}
