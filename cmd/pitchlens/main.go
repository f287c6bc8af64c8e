// pitchlens analyzes startup pitch material with a panel of specialist
// LLM agents and assembles an investor report.
//
//	pitchlens -subject "Acme" -stage seed deck.pdf financials.xlsx
//	pitchlens -subject "Acme" -scrape https://acme.example -out report.md
//	pitchlens -subject "Acme" -watch ./dropbox
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pitchlens/pitchlens/internal/analyst"
	"github.com/pitchlens/pitchlens/internal/engine"
	"github.com/pitchlens/pitchlens/internal/extract"
	"github.com/pitchlens/pitchlens/internal/ingest"
	"github.com/pitchlens/pitchlens/internal/prompts"
	"github.com/pitchlens/pitchlens/internal/report"
	"github.com/pitchlens/pitchlens/internal/scrape"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args[1:]); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pitchlens", flag.ExitOnError)
	subject := fs.String("subject", "Unnamed Startup", "Name of the startup under analysis")
	stage := fs.String("stage", "", "Funding stage (default: config default_stage, else seed)")
	watchDir := fs.String("watch", "", "Directory to watch; dropped documents trigger re-analysis")
	scrapeURL := fs.String("scrape", "", "Startup website URL to scrape before analysis")
	outPath := fs.String("out", "", "Write the report to this file as well as stdout")

	if err := fs.Parse(args); err != nil {
		return err
	}

	env, err := prepareRuntimeEnv(*subject, *stage)
	if err != nil {
		return err
	}
	log.Printf("session %s: analyzing %s (%s stage) with model %s",
		env.SessionID, env.Subject, env.Stage, env.Model)

	for _, path := range fs.Args() {
		docID, err := env.Ingestor.ProcessFile(path)
		if err != nil {
			log.Printf("skipping %s: %v", path, err)
			continue
		}
		log.Printf("stored %s as %s", path, docID)
	}

	if *scrapeURL != "" {
		snap, err := scrape.NewScraper().Scrape(ctx, *scrapeURL)
		if err != nil {
			log.Printf("scrape failed: %v", err)
		} else if docID, err := env.Ingestor.StoreSnapshot(snap); err != nil {
			log.Printf("storing snapshot failed: %v", err)
		} else {
			log.Printf("stored website snapshot as %s", docID)
		}
	}

	if *watchDir != "" {
		watcher, err := startDropWatcher(ctx, env, *watchDir, *outPath)
		if err != nil {
			return err
		}
		defer watcher.Stop()
	}

	if env.Store.DocumentCount() > 0 {
		if err := runAnalysis(ctx, env, *outPath); err != nil {
			return err
		}
	} else {
		log.Printf("no documents yet; drop files into the watch directory or restart with document paths")
	}

	return interactiveLoop(ctx, env, *outPath)
}

// runAnalysis executes the full agent pipeline and emits the report.
func runAnalysis(ctx context.Context, env *runtimeEnv, outPath string) error {
	out, err := env.Pipeline.Run(ctx, env.Subject, env.Stage)
	if err != nil {
		if errors.Is(err, analyst.ErrNoDocuments) {
			log.Printf("analysis skipped: %v", err)
			return nil
		}
		return err
	}
	log.Printf("analyses stored: %s", strings.Join(env.Store.AgentNames(), ", "))
	return emitReport(out, outPath)
}

func emitReport(out, outPath string) error {
	fmt.Println(out)
	if outPath == "" {
		return nil
	}
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write report to %s: %w", outPath, err)
	}
	log.Printf("report written to %s", outPath)
	return nil
}

// startDropWatcher wires the drop directory to ingestion and re-analysis.
func startDropWatcher(ctx context.Context, env *runtimeEnv, dir, outPath string) (*ingest.DropWatcher, error) {
	watcher, err := ingest.NewDropWatcher(dir, extract.NewRegistry())
	if err != nil {
		return nil, err
	}

	watcher.OnFiles(func(paths []string) {
		stored := 0
		for _, path := range paths {
			docID, err := env.Ingestor.ProcessFile(path)
			if err != nil {
				log.Printf("skipping %s: %v", path, err)
				continue
			}
			log.Printf("stored %s as %s", path, docID)
			stored++
		}
		if stored == 0 {
			return
		}
		if err := runAnalysis(ctx, env, outPath); err != nil {
			log.Printf("analysis after upload failed: %v", err)
		}
	})

	if err := watcher.Start(); err != nil {
		return nil, err
	}
	log.Printf("watching %s for dropped documents", dir)
	return watcher, nil
}

// interactiveLoop answers follow-up questions over the session context.
func interactiveLoop(ctx context.Context, env *runtimeEnv, outPath string) error {
	fmt.Println("Ask follow-up questions, or /search <keyword>, /report, /quit.")

	s := bufio.NewScanner(os.Stdin)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("you> ")
		if !s.Scan() {
			return s.Err()
		}
		line := strings.TrimSpace(s.Text())

		switch {
		case line == "":
			continue

		case line == "/quit" || line == "/exit":
			return nil

		case line == "/report":
			out, err := report.Build(env.Subject, env.Stage, env.Store.Context())
			if err != nil {
				fmt.Printf("cannot build report: %v\n", err)
				continue
			}
			if err := emitReport(out, outPath); err != nil {
				return err
			}

		case strings.HasPrefix(line, "/search "):
			keyword := strings.TrimSpace(strings.TrimPrefix(line, "/search "))
			entries := env.Store.SearchHistory(keyword)
			if len(entries) == 0 {
				fmt.Printf("no history entries matching %q\n", keyword)
				continue
			}
			for _, entry := range entries {
				fmt.Printf("[%s] user: %s\n         agent: %s\n",
					entry.At.Format("15:04:05"), entry.User, entry.Agent)
			}

		default:
			answer, err := answerFollowUp(ctx, env, line)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			fmt.Println(answer)
			env.Store.AddToHistory(line, answer)
		}
	}
}

// answerFollowUp runs one question against the interactive prompt with the
// full session context as input.
func answerFollowUp(ctx context.Context, env *runtimeEnv, question string) (string, error) {
	builder, err := prompts.NewPromptBuilder(prompts.DefaultRegistry(), "interactive", prompts.PromptV1)
	if err != nil {
		return "", err
	}
	builder.SetVariable("subject", env.Subject)

	digest := analyst.ContextDigest(env.Subject, env.Store.Context())
	resp, err := engine.RetryChat(ctx, env.LLM, env.Model, []engine.ChatMessage{
		{Role: engine.RoleSystem, Content: builder.Build()},
		{Role: engine.RoleUser, Content: digest + "\nQuestion: " + question},
	}, engine.ChatOptions{Temperature: 0.3, MaxOutputTokens: 2048}, nil)
	if err != nil {
		return "", err
	}
	return resp.Assistant.Content, nil
}
