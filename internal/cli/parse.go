package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sharonv/disclosq/internal/catalog"
	"github.com/sharonv/disclosq/internal/llm"
	"github.com/sharonv/disclosq/internal/model"
	"github.com/sharonv/disclosq/internal/parser"
	"github.com/sharonv/disclosq/internal/store"
)

var (
	companiesPath string
	reportsPath   string
	groupsPath    string
	noLLM         bool
	llmModel      string
	todayStr      string
	forceAbsolute bool
	noExpand      bool
	dbPath        string
	compactJSON   bool
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <query>",
	Short: "Parse a Hebrew disclosure-search query into a structured filter",
	Long: `Parse converts one free-text Hebrew query into a structured filter:
companies, report types, an optional result limit and a time window,
plus a confidence score and a diagnostic note trail.

Example:
  disclosq parse "5 דוחות רבעוניים אלפא 7 ימים האחרונים"
  disclosq parse --no-llm --today 2025-06-15 "דוחות של טבע מהשבוע האחרון"
  disclosq parse --db disclosures.db "אסיפה כללית אלפא 2024"`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	// Catalog flags
	parseCmd.Flags().StringVar(&companiesPath, "companies", "", "companies catalog file (JSON or YAML)")
	parseCmd.Flags().StringVar(&reportsPath, "reports", "", "report-types catalog file (JSON or YAML)")
	parseCmd.Flags().StringVar(&groupsPath, "groups", "", "umbrella groups file (optional)")
	parseCmd.Flags().BoolVar(&noExpand, "no-expand", false, "disable derived catalog aliases")

	// Parse flags
	parseCmd.Flags().BoolVar(&noLLM, "no-llm", false, "disable LLM escalation")
	parseCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (overrides config)")
	parseCmd.Flags().StringVar(&todayStr, "today", "", "reference date, format 2006-01-02 (default: today)")
	parseCmd.Flags().BoolVar(&forceAbsolute, "force-absolute", false, "convert relative timeframes to absolute date ranges")

	// Output flags
	parseCmd.Flags().StringVar(&dbPath, "db", "", "SQLite disclosures database to run the filter against")
	parseCmd.Flags().BoolVar(&compactJSON, "compact", false, "compact JSON output")
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	p, today, err := buildParser(cfg, logger)
	if err != nil {
		return err
	}

	res := p.Parse(context.Background(), args[0])
	if err := printJSON(res); err != nil {
		return err
	}

	if dbPath == "" {
		return nil
	}
	return runQuery(res, cfg, today)
}

func runQuery(res *model.ParseResult, cfg *model.Config, today time.Time) error {
	if res.Error != "" {
		return fmt.Errorf("not querying database: %s", res.Error)
	}
	q, err := store.Build(res, schemaFromConfig(cfg), today)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "SQL: %s %v\n", q.SQL, q.Args)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	rows, err := st.Exec(context.Background(), q)
	if err != nil {
		return err
	}
	return printJSON(rows)
}

func schemaFromConfig(cfg *model.Config) store.SchemaConfig {
	schema := store.DefaultSchemaConfig()
	if cfg.Store.Table != "" {
		schema.Table = cfg.Store.Table
	}
	if cfg.Store.IssuerColumn != "" {
		schema.IssuerColumn = cfg.Store.IssuerColumn
	}
	if cfg.Store.CategoryColumn != "" {
		schema.CategoryColumn = cfg.Store.CategoryColumn
	}
	if cfg.Store.DateColumn != "" {
		schema.DateColumn = cfg.Store.DateColumn
	}
	return schema
}

// loadConfig merges defaults, the config file, environment and flags.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if v := viper.GetString("llm_api_key"); v != "" {
		cfg.LLM.APIKey = v
	}
	if companiesPath != "" {
		cfg.Catalogs.CompaniesPath = companiesPath
	}
	if reportsPath != "" {
		cfg.Catalogs.ReportsPath = reportsPath
	}
	if groupsPath != "" {
		cfg.Catalogs.GroupsPath = groupsPath
	}
	if noLLM {
		cfg.LLM.Enabled = false
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if todayStr != "" {
		cfg.Parser.Today = todayStr
	}
	if forceAbsolute {
		cfg.Parser.ForceAbsolute = true
	}
	if noExpand {
		cfg.Parser.ExpandAliases = false
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg, nil
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildParser assembles the catalogs, the LLM provider and the parser
// from the merged configuration.
func buildParser(cfg *model.Config, logger *zap.Logger) (*parser.Parser, time.Time, error) {
	companies := catalog.Catalog{}
	if cfg.Catalogs.CompaniesPath != "" {
		loaded, err := catalog.LoadFile(cfg.Catalogs.CompaniesPath)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("load companies catalog: %w", err)
		}
		companies = loaded
	}

	reportTypes := catalog.DefaultReports()
	if cfg.Catalogs.ReportsPath != "" {
		loaded, err := catalog.LoadFile(cfg.Catalogs.ReportsPath)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("load reports catalog: %w", err)
		}
		reportTypes = loaded
	}

	umbrella, err := catalog.LoadUmbrellaIndex(cfg.Catalogs.GroupsPath, umbrellaCache)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load umbrella groups: %w", err)
	}

	var today time.Time
	if cfg.Parser.Today != "" {
		today, err = time.Parse(model.DateLayout, cfg.Parser.Today)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("parse today override: %w", err)
		}
	}

	var provider llm.Provider
	if cfg.LLM.Enabled && cfg.LLM.APIKey != "" {
		client, err := llm.NewClient(llm.FromModelConfig(cfg.LLM), logger)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("init llm client: %w", err)
		}
		client.Today = today
		provider = client
	} else if cfg.LLM.Enabled && verbose {
		fmt.Fprintln(os.Stderr, "No API key configured, running heuristics only")
	}

	p := parser.New(companies, reportTypes, umbrella, provider, logger, parser.Options{
		ExpandAliases: cfg.Parser.ExpandAliases,
		AllowLLM:      provider != nil,
		ForceAbsolute: cfg.Parser.ForceAbsolute,
		Today:         today,
	})
	return p, today, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	if !compactJSON {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
