package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	pb "github.com/hey-granth/profile-guard/internal/proto/guard"
)

func newOpenChatCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "open-chat <user-id> <match-id>",
		Short: "Open (or create) the private room of a match",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.OpenChat(ctx, &pb.OpenChatRequest{UserId: args[0], MatchId: args[1]})
			})
		},
	}
}

func newSendCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "send <user-id> <room-id> <message...>",
		Short: "Send a message into a room",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args[2:], " ")
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.SendMessage(ctx, &pb.SendMessageRequest{SenderUserId: args[0], RoomId: args[1], Content: content})
			})
		},
	}
}

func newCanMessageCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "can-message <user-id> <room-id>",
		Short: "Check whether a user may post into a room now",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.CanInitiateFirstMessage(ctx, &pb.FirstMessageRequest{UserId: args[0], RoomId: args[1]})
			})
		},
	}
}

func newRoomsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "rooms <user-id>",
		Short: "List a user's active rooms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.ListRooms(ctx, &pb.UserRequest{UserId: args[0]})
			})
		},
	}
}

func newMessagesCmd(g *globals) *cobra.Command {
	var limit uint32
	cmd := &cobra.Command{
		Use:   "messages <user-id> <room-id>",
		Short: "Show the latest messages of a room",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.ListMessages(ctx, &pb.ListMessagesRequest{UserId: args[0], RoomId: args[1], Limit: limit})
			})
		},
	}
	cmd.Flags().Uint32Var(&limit, "limit", 0, "Number of messages (server default when 0)")
	return cmd
}

func newReadCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "read <user-id> <room-id>",
		Short: "Mark the other participants' messages as read",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.MarkRead(ctx, &pb.RoomRequest{UserId: args[0], RoomId: args[1]})
			})
		},
	}
}
