package main

import (
	"context"
	"log"

	"lensflow/auth"
	"lensflow/config"
	"lensflow/db"
	"lensflow/inquiry"
	"lensflow/logger"
	"lensflow/matching"
	"lensflow/partner"
	"lensflow/review"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zl.Sync()

	pool, err := db.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConnections)
	if err != nil {
		zl.Fatal("bootstrap database pool", zap.Error(err))
	}
	defer pool.Close()

	partnerRepo := partner.NewRepository(pool)
	inquiryRepo := inquiry.NewRepository(pool)

	engine := matching.NewEngine(partnerRepo, inquiryRepo, zl).
		WithWeights(cfg.Matching.Weights).
		WithFanOutLimit(cfg.Matching.FanOutLimit).
		WithCandidatePool(cfg.Matching.CandidatePool)

	inquiryService := inquiry.NewService(pool, inquiryRepo, zl).WithMatcher(engine)
	partnerService := partner.NewService(partnerRepo)
	authService := auth.NewService(auth.NewRepository(pool), cfg.Auth.JWTSecret)
	reviewService := review.NewService(review.NewRepository(pool))

	zl.Info("lensflow services ready",
		zap.String("environment", cfg.App.Environment),
		zap.Int("fan_out_limit", cfg.Matching.FanOutLimit),
		zap.Bool("inquiry", inquiryService != nil),
		zap.Bool("partner", partnerService != nil),
		zap.Bool("auth", authService != nil),
		zap.Bool("review", reviewService != nil))
}
