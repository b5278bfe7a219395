package model

// Config is the tool-level configuration surfaced by `oncograph config`.
// CLI flags override it; it overrides built-in defaults.
type Config struct {
	DataDir    string           `yaml:"data_dir"`
	Namespaces NamespaceConfig  `yaml:"namespaces"`
	Run        RunConfig        `yaml:"run"`
	Output     OutputConfig     `yaml:"output"`
	NLP        NLPBackendConfig `yaml:"nlp"`
}

// NamespaceConfig is the resource/ontology prefix pair.
type NamespaceConfig struct {
	Resource string `yaml:"resource"`
	Ontology string `yaml:"ontology"`
}

// RunConfig controls engine execution.
type RunConfig struct {
	// Workers fans section rows over a pool when > 1.
	Workers int `yaml:"workers"`
}

// OutputConfig controls where the sinks land.
type OutputConfig struct {
	Turtle  string `yaml:"turtle"`
	Cypher  string `yaml:"cypher"`
	Report  string `yaml:"report,omitempty"`
	Verbose bool   `yaml:"verbose,omitempty"`
}

// NLPBackendConfig configures the optional external NER backend.
type NLPBackendConfig struct {
	Provider          string  `yaml:"provider,omitempty"`
	Model             string  `yaml:"model,omitempty"`
	BaseURL           string  `yaml:"base_url,omitempty"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	MaxTokens         int     `yaml:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	CacheTTLSeconds   int     `yaml:"cache_ttl_seconds"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir: ".",
		Namespaces: NamespaceConfig{
			Resource: "http://lungkg.org/resource/",
			Ontology: "http://lungkg.org/ontology#",
		},
		Run: RunConfig{Workers: 1},
		Output: OutputConfig{
			Turtle: "instances.ttl",
			Cypher: "import.cypher",
		},
		NLP: NLPBackendConfig{
			TimeoutSeconds:    30,
			MaxTokens:         1000,
			RequestsPerSecond: 2,
			CacheTTLSeconds:   3600,
		},
	}
}
