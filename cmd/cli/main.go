// Command cli ranks a candidate file against a situation file and prints the
// decision briefing. Useful for replaying a situation offline:
//
//	cli -candidates coas.json -situation situation.json [-topk 3] [-json]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"coarank/adapters/ingest"
	"coarank/adapters/mettc"
	"coarank/adapters/resources"
	"coarank/adapters/scoring"
	"coarank/app"
	"coarank/domain/situation"
	"coarank/internal/report"
)

func main() {
	candidatesPath := flag.String("candidates", "", "path to candidate COA JSON file")
	situationPath := flag.String("situation", "", "path to situation context JSON file")
	rulePath := flag.String("rules", os.Getenv("RULE_FILE"), "path to rule file (optional)")
	relevancePath := flag.String("relevance", os.Getenv("RELEVANCE_FILE"), "path to relevance table (optional)")
	topK := flag.Int("topk", app.DefaultTopK, "candidates re-evaluated with METT-C")
	asJSON := flag.Bool("json", false, "emit the raw ranking result instead of the briefing")
	flag.Parse()

	_ = godotenv.Load()

	if *candidatesPath == "" || *situationPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	parser := resources.NewParser()

	data, err := os.ReadFile(*candidatesPath)
	if err != nil {
		log.Fatalf("candidates: %v", err)
	}
	candidates, decodeWarnings, err := ingest.DecodeCandidates(data, parser)
	if err != nil {
		log.Fatalf("candidates: %v", err)
	}
	for _, w := range decodeWarnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	var sit situation.Context
	if err := readJSON(*situationPath, &sit); err != nil {
		log.Fatalf("situation: %v", err)
	}

	mapper, warnings := ingest.LoadMapper(*relevancePath)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	pipeline := app.NewDecisionPipeline(
		scoring.NewDefaultScorer(mapper, parser),
		ingest.LoadRuleEngine(*rulePath),
		mettc.NewDefaultEvaluator(parser),
		app.WithTopK(*topK),
	)

	result, err := pipeline.Rank(context.Background(), candidates, &sit)
	if err != nil {
		log.Fatalf("ranking: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatalf("encoding result: %v", err)
		}
		return
	}
	fmt.Print(report.Markdown(result))
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
