package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pb "github.com/hey-granth/profile-guard/internal/proto/guard"
)

func newPhotoAddCmd(g *globals) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "photo-add <user-id> <image>",
		Short: "Add a profile photo (the user must be enrolled)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			images, err := readImages(args[1:])
			if err != nil {
				return err
			}
			if key == "" {
				key = filepath.Base(args[1])
			}
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.AddPhoto(ctx, &pb.AddPhotoRequest{
					UserId: args[0],
					Photo:  &pb.PhotoUpload{ImageKey: key, Image: images[0]},
				})
			})
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "Storage key of the photo (defaults to the file name)")
	return cmd
}

func newPhotoReplaceCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "photo-replace <user-id> <image>...",
		Short: "Replace the whole photo set; the first image becomes primary",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			images, err := readImages(args[1:])
			if err != nil {
				return err
			}
			uploads := make([]*pb.PhotoUpload, len(images))
			for i, img := range images {
				uploads[i] = &pb.PhotoUpload{ImageKey: filepath.Base(args[i+1]), Image: img}
			}
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.ReplacePhotos(ctx, &pb.ReplacePhotosRequest{UserId: args[0], Photos: uploads})
			})
		},
	}
}

func newPhotosCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "photos <user-id>",
		Short: "List a user's photos by position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.ListPhotos(ctx, &pb.UserRequest{UserId: args[0]})
			})
		},
	}
}

func newPromptsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "prompts",
		Short: "List the active prompt questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.ListPromptQuestions(ctx, &pb.ListPromptQuestionsRequest{})
			})
		},
	}
}

func newAnswerCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "answer <user-id> <question-id> <answer...>",
		Short: "Answer a prompt question",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			answer := &pb.PromptAnswer{QuestionId: args[1], Answer: strings.Join(args[2:], " ")}
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.SavePromptAnswers(ctx, &pb.SavePromptAnswersRequest{UserId: args[0], Answers: []*pb.PromptAnswer{answer}})
			})
		},
	}
}

func newAnswersCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "answers <user-id>",
		Short: "List a user's prompt answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.call(cmd, func(ctx context.Context, c *pb.GuardClient) (any, error) {
				return c.ListPromptAnswers(ctx, &pb.UserRequest{UserId: args[0]})
			})
		},
	}
}
