package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tiered-quiz-service/internal/app"
	"tiered-quiz-service/internal/config"
	"tiered-quiz-service/internal/domain"
	"tiered-quiz-service/internal/infra/file"
	"tiered-quiz-service/internal/infra/memory"
	pgstore "tiered-quiz-service/internal/infra/postgres"
	redisstore "tiered-quiz-service/internal/infra/redis"
	transport "tiered-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	loader, err := questionLoader(cfg, pool, redisClient)
	if err != nil {
		return err
	}
	bank, err := memory.LoadQuestionBank(ctx, loader)
	if err != nil {
		return err
	}

	var ledger app.PointsLedger
	switch {
	case pool != nil:
		ledger = pgstore.NewLedger(pool)
		log.Printf("points ledger: postgres")
	case redisClient != nil:
		ledger = redisstore.NewLedger(redisClient)
		log.Printf("points ledger: redis")
	default:
		ledger = memory.NewLedger()
		log.Printf("points ledger: in-memory (not durable)")
	}

	service := app.NewScoringService(bank, ledger, app.NewLeaderboardFeed())
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	transport.NewHandler(service).Routes(mux)
	mux.HandleFunc("GET /ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// questionLoader picks the question source: a questions file, then Postgres,
// then the built-in sample. Only the Postgres source sits behind the Redis
// cache; a local file is already cheap to read.
func questionLoader(cfg config.Config, pool *pgxpool.Pool, redisClient *redis.Client) (memory.QuestionLoader, error) {
	switch {
	case cfg.Questions.Path != "":
		fileLoader, err := file.NewQuestionLoader(cfg.Questions.Path)
		if err != nil {
			return nil, err
		}
		return fileLoader, nil
	case pool != nil:
		var loader memory.QuestionLoader = pgstore.NewQuestionStore(pool)
		if redisClient != nil {
			cacheTTL := config.TTLDuration(cfg.Questions.CacheTTL, 10*time.Minute)
			loader = redisstore.NewQuestionCache(redisClient, loader, cacheTTL)
		}
		return loader, nil
	default:
		return memory.NewStaticQuestionLoader(sampleQuestions()), nil
	}
}

// sampleQuestions is the fallback bank when neither a questions file nor Postgres is configured.
func sampleQuestions() map[domain.Difficulty][]domain.Question {
	return map[domain.Difficulty][]domain.Question{
		domain.Easy: {
			{Text: "What is 2 + 2?", Answers: []string{"3", "4", "5"}, CorrectIndex: 1},
		},
		domain.Medium: {
			{Text: "What is the capital of Australia?", Answers: []string{"Sydney", "Melbourne", "Canberra"}, CorrectIndex: 2},
		},
		domain.Hard: {
			{Text: "In which year did the Berlin Wall fall?", Answers: []string{"1987", "1989", "1991"}, CorrectIndex: 1},
		},
		domain.VeryHard: {
			{Text: "Who proved the incompleteness theorems?", Answers: []string{"Hilbert", "Godel", "Cantor"}, CorrectIndex: 1},
		},
	}
}
