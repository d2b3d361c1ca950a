package fortunes

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/killallgit/fortune-api/internal/models"
)

// DefaultFortunes is loaded into an empty store on first start
var DefaultFortunes = []string{
	"You will find success.",
	"Today will be an awesome day!",
	"A thrilling time is in your immediate future.",
	"Your ability to juggle many tasks will take you far.",
	"Do what works.",
	"Do the right thing.",
	"Always deploy on a Friday.",
	"The greatest risk is not taking one.",
	"Your hard work is about to pay off.",
	"A pleasant surprise is waiting for you.",
	"Now is the time to try something new.",
	"You will be hungry again in one hour.",
}

// Seed inserts texts into repo when the store holds no fortunes yet.
// It returns the number of fortunes created.
func Seed(ctx context.Context, repo Repository, texts []string, logger *slog.Logger) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting fortunes: %w", err)
	}
	if count > 0 {
		logger.Debug("fortune store already populated, skipping seed", slog.Int64("count", count))
		return 0, nil
	}

	created := 0
	for _, text := range texts {
		if err := repo.Create(ctx, &models.Fortune{Text: text}); err != nil {
			return created, fmt.Errorf("seeding fortune %q: %w", text, err)
		}
		created++
	}

	logger.Info("seeded fortune store", slog.Int("count", created))
	return created, nil
}
