package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cloudwego/eino/schema"

	"taskpilot/agent"
	"taskpilot/config"
)

func main() {
	var (
		modeFlag    = flag.String("mode", "full", "pipeline mode: research, summary, visualize or full")
		configFlag  = flag.String("config", "", "optional path to a JSON config file")
		tableFlag   = flag.String("table", "", "optional path to a table file (CSV, markdown or whitespace)")
		exampleFlag = flag.Bool("examples", false, "run the built-in example scenarios and exit")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}

	if err := cfg.Validate(); err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			log.Printf("[CONFIG] WARNING: missing environment variables: %s", strings.Join(verr.Missing, ", "))
		}
		log.Fatalf("[CONFIG] %v", err)
	}

	logger := func(msg string) {
		if cfg.DetailedLog {
			log.Println(msg)
		}
	}

	ctx := context.Background()
	pipeline, err := agent.NewPipeline(ctx, cfg, nil, logger)
	if err != nil {
		log.Fatalf("[AGENT] failed to build pipeline: %v", err)
	}

	if *exampleFlag {
		runExamples(ctx, pipeline)
		return
	}

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: taskpilot [flags] <query>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	tableText := ""
	if *tableFlag != "" {
		data, err := os.ReadFile(*tableFlag)
		if err != nil {
			log.Fatalf("[AGENT] failed to read table file: %v", err)
		}
		tableText = string(data)
	}

	runOnce(ctx, pipeline, *modeFlag, query, tableText)
}

func runOnce(ctx context.Context, pipeline *agent.Pipeline, mode, query, tableText string) {
	state := agent.NewState(
		[]*schema.Message{schema.UserMessage(query)},
		agent.ParseMode(mode), tableText)

	final, err := pipeline.Run(ctx, state)
	if err != nil {
		log.Fatalf("[AGENT] run failed: %v", err)
	}
	printResult(final)
}

func printResult(state *agent.State) {
	for _, msg := range state.Messages {
		if msg.Role == schema.Tool && msg.ToolName == agent.PlotTableToolName {
			fmt.Printf("Chart saved to: %s\n", msg.Content)
		}
	}
	if last := agent.LastNonEmptyAIMessage(state.Messages); last != nil {
		fmt.Println(last.Content)
		return
	}
	fmt.Println("(no non-empty AI message)")
}

// runExamples exercises each pipeline mode with a canned scenario.
func runExamples(ctx context.Context, pipeline *agent.Pipeline) {
	evTable := "year,ev_count\n2018,1000\n2019,3000\n2020,7000\n2021,16000\n2022,30000"

	scenarios := []struct {
		title, mode, query, table string
	}{
		{"Research", "research", "How many electric vehicles were sold worldwide last year?", ""},
		{"Summary", "summary", "Summarize the current state of the electric vehicle market.", ""},
		{"Visualize", "visualize", "Plot the growth of electric vehicle registrations.", evTable},
	}

	for _, sc := range scenarios {
		fmt.Printf("=== %s ===\n", sc.title)
		runOnce(ctx, pipeline, sc.mode, sc.query, sc.table)
		fmt.Println()
	}
}
