package cli

import (
	"context"
	"fmt"
	"log"

	"tiered-quiz-service/internal/config"
	"tiered-quiz-service/internal/domain"
	"tiered-quiz-service/internal/infra/file"
	"tiered-quiz-service/internal/infra/memory"
	pgstore "tiered-quiz-service/internal/infra/postgres"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewSeedQuestionsCmd copies a YAML question bank into Postgres.
func NewSeedQuestionsCmd(configPath *string) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "seed-questions",
		Short: "Load a YAML question bank into the question_tiers table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, from)
		},
	}
	cmd.Flags().StringVar(&from, "from", "config/questions.yaml", "YAML question bank to import")
	return cmd
}

func runSeed(ctx context.Context, configPath, from string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	loader, err := file.NewQuestionLoader(from)
	if err != nil {
		return err
	}
	// Validate the whole bank before writing any tier.
	bank, err := memory.LoadQuestionBank(ctx, loader)
	if err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	store := pgstore.NewQuestionStore(pool)
	for _, d := range domain.Difficulties {
		if err := store.SaveTier(ctx, d, bank.Tier(d)); err != nil {
			return err
		}
		log.Printf("seeded %d %s questions", len(bank.Tier(d)), d)
	}
	return nil
}
