// Package seed fills a development database with demo users that went
// through the real enrollment and swipe paths.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/hey-granth/profile-guard/internal/app"
	"github.com/hey-granth/profile-guard/internal/db"
	"github.com/hey-granth/profile-guard/internal/embedding"
	"github.com/hey-granth/profile-guard/internal/service/gate"
	"github.com/hey-granth/profile-guard/internal/service/matching"
	"github.com/hey-granth/profile-guard/internal/service/photos"
	"github.com/hey-granth/profile-guard/internal/service/prompts"
	"github.com/hey-granth/profile-guard/internal/service/verification"
)

type Options struct {
	Users int
	// SwipesPerUser is how many random targets each user decides on.
	SwipesPerUser int
	// RandSeed fixes the random choices; zero means time-based.
	RandSeed int64
	// Step is called once per seeded user and once per attempted swipe.
	Step func()
}

type Summary struct {
	Users   int
	Photos  int
	Answers int
	Swipes  int
	Matches int
}

// Steps returns how many times Run will call Step.
func (o Options) Steps() int {
	return o.Users + o.Users*o.SwipesPerUser
}

// Run resets the database and seeds it.
//
// Behavior:
//  1. Clears every table.
//  2. Installs the default prompt questions.
//  3. Creates the users and enrolls each with synthetic images keyed by its
//     index, then adds that image as the primary photo and answers one prompt.
//  4. Records opposite-gender swipes with ~70% likes; every 3rd swipe is made mutual.
func Run(ctx context.Context, appCtx *app.AppContext, opts Options) (Summary, error) {
	if opts.Users <= 0 {
		opts.Users = 20
	}
	if opts.SwipesPerUser <= 0 {
		opts.SwipesPerUser = 12
	}
	if opts.RandSeed == 0 {
		opts.RandSeed = time.Now().UnixNano()
	}
	step := opts.Step
	if step == nil {
		step = func() {}
	}
	r := rand.New(rand.NewSource(opts.RandSeed))
	log := appCtx.Logger

	conn := appCtx.DB.WithContext(ctx)
	if err := db.ResetTestData(conn); err != nil {
		return Summary{}, err
	}
	log.Info("cleared existing data")

	promptSvc := prompts.NewService(appCtx)
	if err := promptSvc.EnsureDefaults(ctx); err != nil {
		return Summary{}, fmt.Errorf("failed to seed prompt questions: %w", err)
	}
	questions, err := promptSvc.ActiveQuestions(ctx)
	if err != nil {
		return Summary{}, err
	}

	users, err := db.SeedUsers(conn, opts.Users, r)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Users: len(users)}
	verifier := verification.NewService(appCtx)
	photoSvc := photos.NewService(appCtx, verifier, gate.NewService(appCtx))
	for i, u := range users {
		img := embedding.SyntheticPNG(i, 64)
		if _, err := verifier.Enroll(ctx, u.ID, [][]byte{img, img, img}); err != nil {
			return Summary{}, fmt.Errorf("failed to enroll %s: %w", u.Username, err)
		}
		key := fmt.Sprintf("seed/%s/1.png", u.Username)
		if _, err := photoSvc.AddPhoto(ctx, u.ID, photos.Upload{ImageKey: key, Image: img}); err != nil {
			return Summary{}, fmt.Errorf("failed to add photo for %s: %w", u.Username, err)
		}
		sum.Photos++
		if len(questions) > 0 {
			q := questions[r.Intn(len(questions))]
			answer := prompts.Answer{QuestionID: q.ID, Text: fmt.Sprintf("Ask %s about it.", u.Username)}
			if _, err := promptSvc.SaveAnswers(ctx, u.ID, []prompts.Answer{answer}); err != nil {
				return Summary{}, fmt.Errorf("failed to answer prompt for %s: %w", u.Username, err)
			}
			sum.Answers++
		}
		step()
	}
	log.Info("seeded users", "count", len(users), "photos", sum.Photos)

	matcher := matching.NewService(appCtx)
	counter := 0
	for _, actor := range users {
		for j := 0; j < opts.SwipesPerUser; j++ {
			step()
			target := users[r.Intn(len(users))]
			if target.ID == actor.ID || target.Gender == actor.Gender {
				continue
			}

			action := db.ActionDislike
			if r.Intn(100) < 70 {
				action = db.ActionLike
			}
			if counter%3 == 0 {
				action = db.ActionLike
				if _, err := matcher.RecordSwipe(ctx, target.ID, actor.ID, db.ActionLike); err != nil {
					return sum, fmt.Errorf("failed to seed swipe: %w", err)
				}
				sum.Swipes++
			}

			m, err := matcher.RecordSwipe(ctx, actor.ID, target.ID, action)
			if err != nil {
				return sum, fmt.Errorf("failed to seed swipe: %w", err)
			}
			sum.Swipes++
			counter++
			if m != nil {
				sum.Matches++
			}
		}
	}

	var matches int64
	if err := conn.Model(&db.Match{}).Count(&matches).Error; err != nil {
		return sum, err
	}
	sum.Matches = int(matches)

	if appCtx.RedisCache != nil {
		ids := make([]uint64, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		if err := appCtx.RedisCache.InvalidateLikeCounts(ctx, ids...); err != nil {
			log.Warn("failed to drop cached like counts", "err", err)
		}
	}
	log.Info("seeded swipes", "swipes", sum.Swipes, "matches", sum.Matches)
	return sum, nil
}
