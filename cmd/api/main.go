package main

import (
	"log"

	"github.com/joho/godotenv"

	"coarank/adapters/ingest"
	"coarank/adapters/memory"
	"coarank/adapters/mettc"
	"coarank/adapters/postgres"
	"coarank/adapters/resources"
	"coarank/adapters/scoring"
	"coarank/api"
	"coarank/app"
	"coarank/internal"
	"coarank/internal/config"
	"coarank/ports"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}
	logger := internal.DefaultLogger

	mapper, warnings := ingest.LoadMapper(cfg.Decision.RelevanceFile)
	for _, w := range warnings {
		logger.Warn("%s", w)
	}
	ruleEng := ingest.LoadRuleEngine(cfg.Decision.RuleFile)

	parser := resources.NewParser()
	scorer := scoring.NewDefaultScorer(mapper, parser)
	evaluator := mettc.NewDefaultEvaluator(parser)

	var ledger ports.DecisionLedger
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		ledger = postgres.NewDecisionLedger(db)
		logger.Info("audit ledger: postgres")
	} else {
		ledger = memory.NewDecisionLedger()
		logger.Info("audit ledger: in-memory (set DATABASE_URL to persist runs)")
	}

	pipeline := app.NewDecisionPipeline(scorer, ruleEng, evaluator,
		app.WithTopK(cfg.Decision.TopK),
		app.WithWorkers(cfg.Decision.Pass1Workers),
		app.WithLedger(ledger),
	)

	server := api.NewApp(pipeline, ledger, mapper)
	if err := server.Start(api.Config{Port: cfg.Server.Port}); err != nil {
		log.Fatalf("server: %v", err)
	}
}
