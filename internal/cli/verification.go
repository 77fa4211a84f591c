package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	pb "github.com/hey-granth/profile-guard/internal/proto/guard"
)

func newEnrollCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "enroll <user-id> <image> <image> <image>",
		Short: "Enroll a user's face from three images",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			images, err := readImages(args[1:])
			if err != nil {
				return err
			}
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.Enroll(ctx, &pb.EnrollRequest{UserId: args[0], Images: images})
			})
		},
	}
}

func newVerifyCmd(g *globals) *cobra.Command {
	var record bool
	cmd := &cobra.Command{
		Use:   "verify <user-id> <image> <image> <image>",
		Short: "Verify three images against a user's enrollment",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			images, err := readImages(args[1:])
			if err != nil {
				return err
			}
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.Verify(ctx, &pb.VerifyRequest{UserId: args[0], Images: images, Record: record})
			})
		},
	}
	cmd.Flags().BoolVar(&record, "record", false, "Keep the outcome as a login verification record")
	return cmd
}

func newCanAdmitPhotoCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "can-admit-photo <user-id>",
		Short: "Check whether a user may add profile photos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.CanAdmitPhoto(ctx, &pb.UserRequest{UserId: args[0]})
			})
		},
	}
}

func readImages(paths []string) ([][]byte, error) {
	images := make([][]byte, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read image %s: %w", p, err)
		}
		images = append(images, data)
	}
	return images, nil
}
