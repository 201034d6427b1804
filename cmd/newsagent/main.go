package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/newsagent/config"
	"github.com/mohammad-safakhou/newsagent/internal/agent/core"
	"github.com/mohammad-safakhou/newsagent/internal/agent/telemetry"
	srv "github.com/mohammad-safakhou/newsagent/internal/server"
)

func main() {
	var root = &cobra.Command{Use: "newsagent"}

	root.AddCommand(serveCMD(), runCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCMD() *cobra.Command {
	var serveAddr string
	var cfgPath string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if serveAddr == "" {
				serveAddr = os.Getenv("NEWSAGENT_HTTP_ADDR")
			}
			if serveAddr == "" {
				serveAddr = ":8080"
			}
			cfg := config.LoadConfig(cfgPath)
			return srv.Run(cfg, serveAddr)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :8080)")
	serve.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return serve
}

func runCMD() *cobra.Command {
	var query string
	var cfgPath string
	var run = &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline once in the foreground and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			tele := telemetry.New(cfg.Telemetry)
			orch := core.NewOrchestrator(cfg, tele)

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.General.MaxProcessingTime)
			defer cancel()

			result, err := orch.RunOnce(ctx, query)
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}
	run.Flags().StringVarP(&query, "query", "q", "", "query driving the plan (default from config)")
	run.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return run
}

func printResult(result *core.RunResult) {
	fmt.Println("=== NEWS AGENT RESULTS ===")
	fmt.Printf("Query: %s\n", result.Query)
	fmt.Printf("Articles processed: %d\n", result.ArticlesProcessed)
	if result.Cancelled {
		fmt.Println("Run was cancelled before completing the plan.")
	}

	report := result.Report()
	if report == nil {
		return
	}
	if report.Marker != "" {
		fmt.Println(report.Marker)
		return
	}

	fmt.Println("\nTop Articles:")
	for _, entry := range report.TopArticles {
		fmt.Printf("%d. %s\n", entry.Rank, entry.Title)
		fmt.Printf("   Score: %d | Words: %d\n", entry.RelevanceScore, entry.WordCount)
		fmt.Printf("   Summary: %s\n", entry.Summary)
		fmt.Printf("   Link: %s\n\n", entry.Link)
	}

	if report.Insights != nil {
		fmt.Printf("Quality: %s | Avg Score: %.2f\n",
			report.Insights.ContentQuality, report.Insights.AverageRelevance)
		if len(report.Insights.CommonTopics) > 0 {
			fmt.Print("Common topics:")
			for _, topic := range report.Insights.CommonTopics {
				fmt.Printf(" %s(%d)", topic.Word, topic.Count)
			}
			fmt.Println()
		}
	}
}
