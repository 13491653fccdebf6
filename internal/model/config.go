package model

// Config is the top-level application configuration, loadable from
// ~/.disclosq/config.yaml and overridable via DISCLOSQ_* environment
// variables and CLI flags.
type Config struct {
	Catalogs CatalogConfig `yaml:"catalogs" json:"catalogs"`
	LLM      LLMConfig     `yaml:"llm" json:"llm"`
	Parser   ParserConfig  `yaml:"parser" json:"parser"`
	Store    StoreConfig   `yaml:"store" json:"store"`
	Output   OutputConfig  `yaml:"output" json:"output"`
}

// CatalogConfig locates the alias catalog files.
type CatalogConfig struct {
	CompaniesPath string `yaml:"companies_path" json:"companies_path"` // JSON or YAML map of canonical -> aliases
	ReportsPath   string `yaml:"reports_path" json:"reports_path"`     // JSON or YAML map of canonical -> aliases
	GroupsPath    string `yaml:"groups_path" json:"groups_path"`       // optional umbrella groups file
}

// LLMConfig controls the fallback language-model pass.
type LLMConfig struct {
	Enabled           bool    `yaml:"enabled" json:"enabled"`
	Model             string  `yaml:"model" json:"model"`
	APIKey            string  `yaml:"api_key" json:"-"` // prefer DISCLOSQ_LLM_API_KEY
	BaseURL           string  `yaml:"base_url" json:"base_url"`
	Timeout           int     `yaml:"timeout" json:"timeout"` // seconds
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
	MaxTokens         int     `yaml:"max_tokens" json:"max_tokens"`
}

// ParserConfig tunes the heuristic pass.
type ParserConfig struct {
	ExpandAliases bool `yaml:"expand_aliases" json:"expand_aliases"`
	ForceAbsolute bool `yaml:"force_absolute" json:"force_absolute"`
	// Today overrides the reference date, format 2006-01-02. Empty means now.
	Today string `yaml:"today" json:"today"`
}

// StoreConfig locates the disclosure database and its schema.
type StoreConfig struct {
	Path           string `yaml:"path" json:"path"` // SQLite file path
	Table          string `yaml:"table" json:"table"`
	IssuerColumn   string `yaml:"issuer_column" json:"issuer_column"`
	CategoryColumn string `yaml:"category_column" json:"category_column"`
	DateColumn     string `yaml:"date_column" json:"date_column"`
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	Format string `yaml:"format" json:"format"` // json or text
	Pretty bool   `yaml:"pretty" json:"pretty"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Enabled:           true,
			Model:             "gpt-4o-mini",
			Timeout:           60,
			RequestsPerSecond: 2,
			Burst:             4,
			MaxTokens:         1024,
		},
		Parser: ParserConfig{
			ExpandAliases: true,
			ForceAbsolute: false,
		},
		Store: StoreConfig{
			Table:          "disclosures",
			IssuerColumn:   "issuer_name",
			CategoryColumn: "form_type",
			DateColumn:     "publication_date",
		},
		Output: OutputConfig{
			Format: "json",
			Pretty: true,
		},
	}
}
