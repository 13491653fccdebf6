package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var batchTimeout time.Duration

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Parse multiple queries from a file, one per line",
	Long: `Batch parses multiple queries with a single LLM escalation call:
- Read queries from the input file (one per line, blank lines skipped)
- Run the heuristic pipeline for every query
- Escalate the under-parsed subset in one batched LLM request
- Print a JSON array aligned with the input order

Example:
  disclosq batch queries.txt
  disclosq batch queries.txt --no-llm --today 2025-06-15`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 5*time.Minute, "total timeout for batch processing")

	// Shared with the parse command
	batchCmd.Flags().StringVar(&companiesPath, "companies", "", "companies catalog file (JSON or YAML)")
	batchCmd.Flags().StringVar(&reportsPath, "reports", "", "report-types catalog file (JSON or YAML)")
	batchCmd.Flags().StringVar(&groupsPath, "groups", "", "umbrella groups file (optional)")
	batchCmd.Flags().BoolVar(&noExpand, "no-expand", false, "disable derived catalog aliases")
	batchCmd.Flags().BoolVar(&noLLM, "no-llm", false, "disable LLM escalation")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (overrides config)")
	batchCmd.Flags().StringVar(&todayStr, "today", "", "reference date, format 2006-01-02 (default: today)")
	batchCmd.Flags().BoolVar(&forceAbsolute, "force-absolute", false, "convert relative timeframes to absolute date ranges")
	batchCmd.Flags().BoolVar(&compactJSON, "compact", false, "compact JSON output")
}

func runBatch(cmd *cobra.Command, args []string) error {
	texts, err := readQueries(args[0])
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		return fmt.Errorf("no queries in %s", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	p, _, err := buildParser(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Parsing %d queries\n", len(texts))
	}

	results := p.ParseBatch(ctx, texts)
	return printJSON(results)
}

func readQueries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open queries file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var texts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		texts = append(texts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read queries file: %w", err)
	}
	return texts, nil
}
