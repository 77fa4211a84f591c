package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	pb "github.com/hey-granth/profile-guard/internal/proto/guard"
)

func newBlockCmd(g *globals) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "block <blocker-id> <blocked-id>",
		Short: "Block a user; an existing match between them is closed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.Block(ctx, &pb.BlockRequest{BlockerUserId: args[0], BlockedUserId: args[1], Reason: reason})
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Why the user is blocked")
	return cmd
}

func newUnblockCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "unblock <blocker-id> <blocked-id>",
		Short: "Remove a block",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.Unblock(ctx, &pb.BlockRequest{BlockerUserId: args[0], BlockedUserId: args[1]})
			})
		},
	}
}

func newBlockedCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "blocked <user-id>",
		Short: "List the users a user has blocked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.ListBlocked(ctx, &pb.UserRequest{UserId: args[0]})
			})
		},
	}
}

func newReportCmd(g *globals) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "report <reporter-id> <reported-id> <reason>",
		Short: "Report a user",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.Report(ctx, &pb.ReportRequest{
					ReporterUserId: args[0],
					ReportedUserId: args[1],
					Reason:         args[2],
					Description:    description,
				})
			})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Free-form details")
	return cmd
}

func newReportsCmd(g *globals) *cobra.Command {
	var (
		user  string
		limit uint32
	)
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List unresolved reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.ListOpenReports(ctx, &pb.ListReportsRequest{ReportedUserId: user, Limit: limit})
			})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "Only reports against this user id")
	cmd.Flags().Uint32Var(&limit, "limit", 0, "Maximum reports (server default when 0)")
	return cmd
}

func newBanCmd(g *globals) *cobra.Command {
	var (
		by  string
		dur time.Duration
	)
	cmd := &cobra.Command{
		Use:   "ban <user-id> <reason...>",
		Short: "Ban a user, replacing any active ban",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &pb.BanRequest{UserId: args[0], BannedByUserId: by, Reason: strings.Join(args[1:], " ")}
			if dur > 0 {
				req.ExpiresAt = time.Now().Add(dur).UnixMilli()
			}
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.Ban(ctx, req)
			})
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "Id of the moderator issuing the ban")
	cmd.Flags().DurationVar(&dur, "for", 0, "Ban length; indefinite when 0")
	return cmd
}

func newUnbanCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "unban <user-id>",
		Short: "Lift a user's active bans",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.Unban(ctx, &pb.UserRequest{UserId: args[0]})
			})
		},
	}
}
