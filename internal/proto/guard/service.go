package guard

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "profileguard.v1.Guard"

// GuardServer is the server API for the Guard service.
type GuardServer interface {
	Enroll(context.Context, *EnrollRequest) (*VerificationResponse, error)
	Verify(context.Context, *VerifyRequest) (*VerificationResponse, error)
	RecordSwipe(context.Context, *RecordSwipeRequest) (*RecordSwipeResponse, error)
	CanInitiateFirstMessage(context.Context, *FirstMessageRequest) (*DecisionResponse, error)
	CanAdmitPhoto(context.Context, *UserRequest) (*DecisionResponse, error)
	ListMatches(context.Context, *UserRequest) (*ListMatchesResponse, error)
	ListLikedYou(context.Context, *ListLikedYouRequest) (*ListLikedYouResponse, error)
	CountLikedYou(context.Context, *UserRequest) (*CountLikedYouResponse, error)
	SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error)
	OpenChat(context.Context, *OpenChatRequest) (*OpenChatResponse, error)
	AddPhoto(context.Context, *AddPhotoRequest) (*PhotoResponse, error)
	ReplacePhotos(context.Context, *ReplacePhotosRequest) (*ListPhotosResponse, error)
	ListPhotos(context.Context, *UserRequest) (*ListPhotosResponse, error)
	ListPromptQuestions(context.Context, *ListPromptQuestionsRequest) (*ListPromptQuestionsResponse, error)
	SavePromptAnswers(context.Context, *SavePromptAnswersRequest) (*PromptAnswersResponse, error)
	ListPromptAnswers(context.Context, *UserRequest) (*PromptAnswersResponse, error)
	PotentialMatches(context.Context, *UserPageRequest) (*PotentialMatchesResponse, error)
	ListLiked(context.Context, *UserPageRequest) (*ListLikedResponse, error)
	Block(context.Context, *BlockRequest) (*ChangedResponse, error)
	Unblock(context.Context, *BlockRequest) (*ChangedResponse, error)
	ListBlocked(context.Context, *UserRequest) (*ListBlockedResponse, error)
	Report(context.Context, *ReportRequest) (*ChangedResponse, error)
	ListOpenReports(context.Context, *ListReportsRequest) (*ListReportsResponse, error)
	Ban(context.Context, *BanRequest) (*BanResponse, error)
	Unban(context.Context, *UserRequest) (*ChangedResponse, error)
	ListRooms(context.Context, *UserRequest) (*ListRoomsResponse, error)
	ListMessages(context.Context, *ListMessagesRequest) (*ListMessagesResponse, error)
	MarkRead(context.Context, *RoomRequest) (*MarkReadResponse, error)
}

// RegisterGuardServer attaches srv to the gRPC server.
func RegisterGuardServer(s grpc.ServiceRegistrar, srv GuardServer) {
	s.RegisterService(&Guard_ServiceDesc, srv)
}

// Guard_ServiceDesc is the grpc.ServiceDesc for the Guard service.
var Guard_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GuardServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Enroll", Handler: unary("Enroll", GuardServer.Enroll)},
		{MethodName: "Verify", Handler: unary("Verify", GuardServer.Verify)},
		{MethodName: "RecordSwipe", Handler: unary("RecordSwipe", GuardServer.RecordSwipe)},
		{MethodName: "CanInitiateFirstMessage", Handler: unary("CanInitiateFirstMessage", GuardServer.CanInitiateFirstMessage)},
		{MethodName: "CanAdmitPhoto", Handler: unary("CanAdmitPhoto", GuardServer.CanAdmitPhoto)},
		{MethodName: "ListMatches", Handler: unary("ListMatches", GuardServer.ListMatches)},
		{MethodName: "ListLikedYou", Handler: unary("ListLikedYou", GuardServer.ListLikedYou)},
		{MethodName: "CountLikedYou", Handler: unary("CountLikedYou", GuardServer.CountLikedYou)},
		{MethodName: "SendMessage", Handler: unary("SendMessage", GuardServer.SendMessage)},
		{MethodName: "OpenChat", Handler: unary("OpenChat", GuardServer.OpenChat)},
		{MethodName: "AddPhoto", Handler: unary("AddPhoto", GuardServer.AddPhoto)},
		{MethodName: "ReplacePhotos", Handler: unary("ReplacePhotos", GuardServer.ReplacePhotos)},
		{MethodName: "ListPhotos", Handler: unary("ListPhotos", GuardServer.ListPhotos)},
		{MethodName: "ListPromptQuestions", Handler: unary("ListPromptQuestions", GuardServer.ListPromptQuestions)},
		{MethodName: "SavePromptAnswers", Handler: unary("SavePromptAnswers", GuardServer.SavePromptAnswers)},
		{MethodName: "ListPromptAnswers", Handler: unary("ListPromptAnswers", GuardServer.ListPromptAnswers)},
		{MethodName: "PotentialMatches", Handler: unary("PotentialMatches", GuardServer.PotentialMatches)},
		{MethodName: "ListLiked", Handler: unary("ListLiked", GuardServer.ListLiked)},
		{MethodName: "Block", Handler: unary("Block", GuardServer.Block)},
		{MethodName: "Unblock", Handler: unary("Unblock", GuardServer.Unblock)},
		{MethodName: "ListBlocked", Handler: unary("ListBlocked", GuardServer.ListBlocked)},
		{MethodName: "Report", Handler: unary("Report", GuardServer.Report)},
		{MethodName: "ListOpenReports", Handler: unary("ListOpenReports", GuardServer.ListOpenReports)},
		{MethodName: "Ban", Handler: unary("Ban", GuardServer.Ban)},
		{MethodName: "Unban", Handler: unary("Unban", GuardServer.Unban)},
		{MethodName: "ListRooms", Handler: unary("ListRooms", GuardServer.ListRooms)},
		{MethodName: "ListMessages", Handler: unary("ListMessages", GuardServer.ListMessages)},
		{MethodName: "MarkRead", Handler: unary("MarkRead", GuardServer.MarkRead)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "profileguard/v1/guard.proto",
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unary adapts a typed GuardServer method to a grpc.MethodHandler.
func unary[Req, Resp any](method string, call func(GuardServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(GuardServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(GuardServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
