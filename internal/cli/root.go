// Package cli implements guardctl, a command line client for the Guard gRPC
// API.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pb "github.com/hey-granth/profile-guard/internal/proto/guard"
)

// DialFunc opens a connection to the Guard server at addr.
type DialFunc func(addr string) (grpc.ClientConnInterface, func() error, error)

// InsecureDial connects over plaintext h2c.
func InsecureDial(addr string) (grpc.ClientConnInterface, func() error, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, err
	}
	return conn, conn.Close, nil
}

type globals struct {
	dial    DialFunc
	addr    string
	timeout time.Duration
}

// call dials, runs fn with a timeout-bound context and prints the response
// as indented JSON.
func (g *globals) call(cmd *cobra.Command, fn func(ctx context.Context, c *pb.GuardClient) (any, error)) error {
	conn, closeFn, err := g.dial(g.addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", g.addr, err)
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
	defer cancel()

	resp, err := fn(ctx, pb.NewGuardClient(conn))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// NewRootCmd builds the guardctl command tree.
func NewRootCmd(dial DialFunc) *cobra.Command {
	g := &globals{dial: dial}

	root := &cobra.Command{
		Use:   "guardctl",
		Short: "Command line client for the profile guard service",
		Long: `guardctl talks to the profile guard gRPC API: face enrollment and
verification, profile photos and prompts, swipes and matches, chat, and
moderation.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			// .env file is optional, don't fail if not found
			_ = godotenv.Load()
		},
	}
	root.PersistentFlags().StringVar(&g.addr, "addr", envDefault("GUARD_ADDR", "localhost:50051"), "Guard server address")
	root.PersistentFlags().DurationVar(&g.timeout, "timeout", 10*time.Second, "Per-call timeout")

	root.AddCommand(
		newEnrollCmd(g),
		newVerifyCmd(g),
		newSwipeCmd(g),
		newMatchesCmd(g),
		newLikesCmd(g),
		newCountCmd(g),
		newOpenChatCmd(g),
		newSendCmd(g),
		newCanMessageCmd(g),
		newCanAdmitPhotoCmd(g),
		newPhotoAddCmd(g),
		newPhotoReplaceCmd(g),
		newPhotosCmd(g),
		newPromptsCmd(g),
		newAnswerCmd(g),
		newAnswersCmd(g),
		newCandidatesCmd(g),
		newLikedCmd(g),
		newRoomsCmd(g),
		newMessagesCmd(g),
		newReadCmd(g),
		newBlockCmd(g),
		newUnblockCmd(g),
		newBlockedCmd(g),
		newReportCmd(g),
		newReportsCmd(g),
		newBanCmd(g),
		newUnbanCmd(g),
	)
	return root
}

func Execute() {
	if err := NewRootCmd(InsecureDial).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
