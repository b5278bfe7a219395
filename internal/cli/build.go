package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/oncokg/oncograph/internal/emit"
	"github.com/oncokg/oncograph/internal/mapping"
	"github.com/oncokg/oncograph/internal/nlp"
	"github.com/oncokg/oncograph/internal/ontology"
	"github.com/oncokg/oncograph/internal/pipeline"
	"github.com/oncokg/oncograph/internal/vocab"
)

var (
	mappingPath  string
	dataDir      string
	ontologyPath string
	outTTL       string
	outCypher    string
	outReport    string
	resourceNS   string
	ontologyNS   string
	workers      int
	buildTimeout time.Duration
	nlpEnabled   bool
	nlpProvider  string
	nlpModel     string
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the mapping engine and write both graph outputs",
	Long: `Build runs one mapping-driven ETL pass:
- Load the mapping configuration (YAML or JSON)
- Read each section's tabular source row by row
- Resolve subject identifiers, types, labels, properties and object links
- Mine free-text columns for clinical concept mentions when enabled
- Serialize the triples as Turtle and the change script as Cypher

Example:
  oncograph build --mapping mapping.yaml --data-dir ./data
  oncograph build --mapping mapping_config.json --ttl out/instances.ttl --cypher out/import.cypher
  oncograph build --mapping mapping.yaml --workers 4 --nlp openai`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&mappingPath, "mapping", "", "mapping configuration path (required)")
	buildCmd.Flags().StringVar(&dataDir, "data-dir", ".", "directory tabular source paths resolve against")
	buildCmd.Flags().StringVar(&ontologyPath, "ontology", "", "optional Turtle ontology (namespace provider only)")
	_ = buildCmd.MarkFlagRequired("mapping")

	// Output flags
	buildCmd.Flags().StringVar(&outTTL, "ttl", "instances.ttl", "output Turtle path")
	buildCmd.Flags().StringVar(&outCypher, "cypher", "import.cypher", "output Cypher script path")
	buildCmd.Flags().StringVar(&outReport, "report", "", "output JSON run report path (optional)")

	// Namespace flags
	buildCmd.Flags().StringVar(&resourceNS, "resource-ns", vocab.DefaultResourceNS, "base resource namespace")
	buildCmd.Flags().StringVar(&ontologyNS, "ontology-ns", vocab.DefaultOntologyNS, "ontology namespace")

	// Run flags
	buildCmd.Flags().IntVar(&workers, "workers", 1, "row-processing workers per section (1 = sequential)")
	buildCmd.Flags().DurationVar(&buildTimeout, "timeout", 10*time.Minute, "overall run timeout")

	// NLP backend flags
	buildCmd.Flags().BoolVar(&nlpEnabled, "nlp", false, "enable the external NER backend (additive, reported separately)")
	buildCmd.Flags().StringVar(&nlpProvider, "nlp-provider", "openai", "NER provider")
	buildCmd.Flags().StringVar(&nlpModel, "nlp-model", "", "NER model name (provider default when empty)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
	defer cancel()

	cfg, err := mapping.Load(mappingPath)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Mapping: %s (%d sections)\n", mappingPath, len(cfg.Sections))
		fmt.Fprintf(os.Stderr, "Data dir: %s\n", dataDir)
		fmt.Fprintln(os.Stderr)
	}

	opts := pipeline.Options{
		Mapping: cfg,
		DataDir: dataDir,
		Namespaces: vocab.Namespaces{
			Resource: resourceNS,
			Ontology: ontologyNS,
		},
		Workers: workers,
		Verbose: verbose,
	}

	if ontologyPath != "" {
		schema, err := ontology.Load(ontologyPath)
		if err != nil {
			return err
		}
		opts.Schema = schema
		if verbose {
			fmt.Fprintf(os.Stderr, "Ontology: %d classes, %d properties\n",
				len(schema.Classes()), len(schema.Properties()))
		}
	}

	if nlpEnabled {
		nlpCfg := nlp.DefaultConfig()
		nlpCfg.Provider = nlpProvider
		nlpCfg.Model = nlpModel
		if nlpProvider == "openai" {
			nlpCfg.APIKey = os.Getenv("OPENAI_API_KEY")
			if nlpCfg.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		}
		opts.NLP = nlpCfg
	}

	if workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	engine, err := pipeline.New(opts)
	if err != nil {
		return err
	}

	result, err := engine.Run(ctx)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	turtle, script := emit.Flush(result.Triples, result.Statements, opts.Namespaces)

	if err := os.WriteFile(outTTL, []byte(turtle), 0o644); err != nil {
		return fmt.Errorf("write turtle: %w", err)
	}
	if err := os.WriteFile(outCypher, []byte(script), 0o644); err != nil {
		return fmt.Errorf("write cypher: %w", err)
	}
	if outReport != "" {
		data, err := json.MarshalIndent(result.Report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		if err := os.WriteFile(outReport, data, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	fmt.Printf("✓ Wrote Turtle: %s (%d triples)\n", outTTL, result.Triples.Len())
	fmt.Printf("✓ Wrote Cypher: %s (%d statements)\n", outCypher, len(result.Statements))
	for _, sec := range result.Report.Sections {
		if sec.Err != "" {
			fmt.Printf("✗ Section %s failed: %s\n", sec.Name, sec.Err)
			continue
		}
		line := fmt.Sprintf("  %s: %d rows", sec.Name, sec.Rows)
		if sec.RowsSkipped > 0 {
			line += fmt.Sprintf(" (%d skipped)", sec.RowsSkipped)
		}
		if sec.Mentions > 0 {
			line += fmt.Sprintf(", %d mentions", sec.Mentions)
		}
		fmt.Println(line)
	}

	return nil
}
