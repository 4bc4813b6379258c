package cli

import (
	"context"
	"testing"

	"tiered-quiz-service/internal/config"
	"tiered-quiz-service/internal/domain"
	"tiered-quiz-service/internal/infra/file"
	"tiered-quiz-service/internal/infra/memory"
	redisstore "tiered-quiz-service/internal/infra/redis"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

func TestSampleQuestionsFormValidBank(t *testing.T) {
	if _, err := memory.NewQuestionBank(sampleQuestions()); err != nil {
		t.Fatalf("sample bank invalid: %v", err)
	}
}

func TestShippedQuestionsFileLoads(t *testing.T) {
	loader, err := file.NewQuestionLoader("../../config/questions.yaml")
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	bank, err := memory.LoadQuestionBank(context.Background(), loader)
	if err != nil {
		t.Fatalf("load bank: %v", err)
	}
	for _, d := range domain.Difficulties {
		if len(bank.Tier(d)) == 0 {
			t.Fatalf("tier %s is empty", d)
		}
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"start", "migrate", "seed-questions"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Fatalf("expected %s subcommand, got %v (%v)", name, sub, err)
		}
	}
}

func TestQuestionLoaderCachesOnlyPostgres(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	var cfg config.Config
	cfg.Questions.Path = "../../config/questions.yaml"
	loader, err := questionLoader(cfg, nil, client)
	if err != nil {
		t.Fatalf("file loader: %v", err)
	}
	if _, ok := loader.(*file.QuestionLoader); !ok {
		t.Fatalf("expected uncached file loader, got %T", loader)
	}

	cfg.Questions.Path = ""
	if loader, err = questionLoader(cfg, nil, client); err != nil {
		t.Fatalf("sample loader: %v", err)
	}
	if _, ok := loader.(*memory.StaticQuestionLoader); !ok {
		t.Fatalf("expected sample loader, got %T", loader)
	}

	poolCfg, err := pgxpool.ParseConfig("postgres://quiz@127.0.0.1:1/quiz")
	if err != nil {
		t.Fatalf("parse pool config: %v", err)
	}
	poolCfg.LazyConnect = true
	pool, err := pgxpool.ConnectConfig(context.Background(), poolCfg)
	if err != nil {
		t.Fatalf("lazy pool: %v", err)
	}
	defer pool.Close()

	if loader, err = questionLoader(cfg, pool, client); err != nil {
		t.Fatalf("postgres loader: %v", err)
	}
	if _, ok := loader.(*redisstore.QuestionCache); !ok {
		t.Fatalf("expected cached postgres loader, got %T", loader)
	}
	if loader, err = questionLoader(cfg, pool, nil); err != nil {
		t.Fatalf("postgres loader: %v", err)
	}
	if _, ok := loader.(*redisstore.QuestionCache); ok {
		t.Fatalf("expected no cache without redis")
	}
}
