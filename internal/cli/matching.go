package cli

import (
	"context"

	"github.com/spf13/cobra"

	pb "github.com/hey-granth/profile-guard/internal/proto/guard"
)

func newSwipeCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:       "swipe <actor-id> <target-id> <like|dislike>",
		Short:     "Record a swipe",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{"like", "dislike"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.RecordSwipe(ctx, &pb.RecordSwipeRequest{ActorUserId: args[0], TargetUserId: args[1], Action: args[2]})
			})
		},
	}
}

func newMatchesCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "matches <user-id>",
		Short: "List a user's active matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.ListMatches(ctx, &pb.UserRequest{UserId: args[0]})
			})
		},
	}
}

func newLikesCmd(g *globals) *cobra.Command {
	var (
		token   string
		newOnly bool
		limit   uint32
	)
	cmd := &cobra.Command{
		Use:   "likes <user-id>",
		Short: "List users who liked a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &pb.ListLikedYouRequest{RecipientUserId: args[0], NewOnly: newOnly, Limit: limit}
			if token != "" {
				req.PaginationToken = &token
			}
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.ListLikedYou(ctx, req)
			})
		},
	}
	cmd.Flags().StringVar(&token, "page", "", "Pagination token from a previous page")
	cmd.Flags().BoolVar(&newOnly, "new", false, "Only likers not liked back")
	cmd.Flags().Uint32Var(&limit, "limit", 0, "Page size (server default when 0)")
	return cmd
}

func newCountCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "count <user-id>",
		Short: "Count users who liked a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.CountLikedYou(ctx, &pb.UserRequest{UserId: args[0]})
			})
		},
	}
}

func newCandidatesCmd(g *globals) *cobra.Command {
	var limit uint32
	cmd := &cobra.Command{
		Use:   "candidates <user-id>",
		Short: "List users a user can still swipe on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.PotentialMatches(ctx, &pb.UserPageRequest{UserId: args[0], Limit: limit})
			})
		},
	}
	cmd.Flags().Uint32Var(&limit, "limit", 0, "Page size (server default when 0)")
	return cmd
}

func newLikedCmd(g *globals) *cobra.Command {
	var limit uint32
	cmd := &cobra.Command{
		Use:   "liked <user-id>",
		Short: "List users a user liked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.ListLiked(ctx, &pb.UserPageRequest{UserId: args[0], Limit: limit})
			})
		},
	}
	cmd.Flags().Uint32Var(&limit, "limit", 0, "Page size (server default when 0)")
	return cmd
}
