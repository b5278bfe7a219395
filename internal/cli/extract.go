package cli

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oncokg/oncograph/internal/extract"
)

var extractAges bool

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Run the concept extractor over a text file or stdin",
	Long: `Extract runs the deterministic pattern extractor over free text and
prints the mentions it finds, grouped by concept type. Useful for tuning
mapping configurations before a full build.

Example:
  oncograph extract article.txt
  cat article.txt | oncograph extract
  oncograph extract article.txt --ages`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().BoolVar(&extractAges, "ages", false, "also print age mentions")
}

func runExtract(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	extractor := extract.NewExtractor()
	text := string(data)

	mentions := extractor.Extract(text)
	if len(mentions) == 0 {
		fmt.Fprintln(os.Stderr, "No mentions found")
	}

	// Stable output: concepts sorted, mentions in match order
	out := make(map[string][]string, len(mentions))
	concepts := make([]string, 0, len(mentions))
	for concept, found := range mentions {
		concepts = append(concepts, concept)
		for _, m := range found {
			out[concept] = append(out[concept], fmt.Sprintf("%s -> %s", m.Surface, m.Canonical))
		}
	}
	sort.Strings(concepts)

	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	for _, concept := range concepts {
		if err := enc.Encode(map[string][]string{concept: out[concept]}); err != nil {
			return err
		}
	}

	if extractAges {
		ages := extractor.ExtractAges(text)
		if len(ages) > 0 {
			fmt.Printf("ages: %v\n", ages)
		}
	}

	return nil
}
