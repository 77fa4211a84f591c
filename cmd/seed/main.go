package main

import (
	"context"
	"flag"
	"log"

	"github.com/schollz/progressbar/v3"

	"github.com/hey-granth/profile-guard/internal/app"
	"github.com/hey-granth/profile-guard/internal/cache"
	"github.com/hey-granth/profile-guard/internal/config"
	"github.com/hey-granth/profile-guard/internal/db"
	"github.com/hey-granth/profile-guard/internal/embedding"
	"github.com/hey-granth/profile-guard/internal/logger"
	"github.com/hey-granth/profile-guard/internal/seed"
)

func main() {
	users := flag.Int("users", 20, "number of demo users")
	swipes := flag.Int("swipes", 12, "swipes attempted per user")
	randSeed := flag.Int64("seed", 0, "random seed (0 = time based)")
	flag.Parse()

	// Load configuration
	cfg := config.New()

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}

	embedder, err := embedding.New(cfg)
	if err != nil {
		log.Fatalf("failed to init embedder: %v", err)
	}

	// Redis is optional while seeding; reachable means cached counts get dropped
	var redisCache *cache.RedisCache
	if rc := cache.NewRedisCache(cfg); rc.Ping(context.Background()) == nil {
		redisCache = rc
		defer rc.Close()
	} else {
		log.Printf("redis unreachable, cached like counts are left alone")
	}

	// logs would tear the progress bar
	appCtx := app.New(database, redisCache, logger.Nop(), embedder, cfg.Policy)

	opts := seed.Options{Users: *users, SwipesPerUser: *swipes, RandSeed: *randSeed}
	bar := progressbar.NewOptions(opts.Steps(),
		progressbar.OptionSetDescription("Seeding"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionFullWidth(),
	)
	opts.Step = func() { _ = bar.Add(1) }

	sum, err := seed.Run(context.Background(), appCtx, opts)
	_ = bar.Finish()
	if err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	log.Printf("Seeding completed: %d users, %d swipes, %d matches.", sum.Users, sum.Swipes, sum.Matches)
}
