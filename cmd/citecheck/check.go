package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citecheck/internal/crossref"
	"github.com/pdiddy/citecheck/internal/engine"
	"github.com/pdiddy/citecheck/pkg/types"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultDelay    = 1 * time.Second
	defaultCacheTTL = 24 * time.Hour
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a citation batch against Crossref",
	Long: `Check reads a canonical citation batch (JSON or YAML), validates every
citation against Crossref, and writes one result per citation in input order.

Citations with a DOI are resolved directly; the rest go through bibliographic
search, candidate ranking, and the auto-accept / ambiguity thresholds. A
previously built selection map resolves citations flagged on an earlier pass.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringP("input", "i", "", "citation batch file (JSON or YAML; required)")
	checkCmd.Flags().StringP("output", "o", "", "result file (default stdout)")
	checkCmd.Flags().Bool("yaml", false, "write results as YAML instead of JSON")
	checkCmd.Flags().String("email", "", "contact email advertised to Crossref for polite-pool access")
	checkCmd.Flags().Int("candidate-rows", 6, "search results requested per query")
	checkCmd.Flags().Float64("auto-accept-threshold", 0.88, "minimum composite score for automatic acceptance")
	checkCmd.Flags().Float64("ambiguity-gap-threshold", 0.06, "minimum top-two score gap below which selection is required")
	checkCmd.Flags().StringSlice("critical-fields", nil, "fields whose mismatch escalates to critical_mismatch (default title,doi,authors,journal,year)")
	checkCmd.Flags().String("ranking", "weighted", "candidate ranking scheme (weighted or strict)")
	checkCmd.Flags().String("selection-map", "", "selection map from a previous pass (JSON or YAML)")
	checkCmd.Flags().Bool("emit-corrected-reference", true, "render a corrected reference string per result")
	checkCmd.Flags().Duration("delay", defaultDelay, "delay between consecutive citations")
	checkCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	checkCmd.Flags().String("cache", "", "SQLite file for the provider response cache (empty disables caching)")
	checkCmd.Flags().Duration("cache-ttl", defaultCacheTTL, "maximum age of cached provider responses")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	if input == "" {
		return fmt.Errorf("provide a citation batch with --input")
	}

	citations, err := engine.LoadBatch(input)
	if err != nil {
		return err
	}

	cfg, err := checkConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	var selection engine.SelectionMap
	if path, _ := cmd.Flags().GetString("selection-map"); path != "" {
		selection, err = engine.LoadSelectionMap(path)
		if err != nil {
			return err
		}
	}

	var cache *crossref.Cache
	if cachePath, _ := cmd.Flags().GetString("cache"); cachePath != "" {
		ttl, _ := cmd.Flags().GetDuration("cache-ttl")
		cache, err = crossref.OpenCache(cachePath, ttl)
		if err != nil {
			return err
		}
		defer cache.Close()
	}

	client := crossref.NewClient(cfg, cache)
	e, err := engine.NewEngine(engine.NewCrossrefSource(client), cfg, selection, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Checking %d citation(s) from %s\n", len(citations), input)
	results := e.CheckAll(context.Background(), citations)

	out := os.Stdout
	if outputPath, _ := cmd.Flags().GetString("output"); outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outputPath, err)
		}
		defer f.Close()
		out = f
	}
	asYAML, _ := cmd.Flags().GetBool("yaml")
	if err := engine.WriteResults(out, results, asYAML); err != nil {
		return err
	}

	summary := engine.Summarize(results)
	fmt.Fprintf(os.Stderr, "Done: %s\n", summary)
	if n := summary.CriticalMismatch + summary.Unresolved; n > 0 {
		fmt.Fprintf(os.Stderr, "%d citation(s) need attention; run selection-map to prepare a second pass\n", n)
	}
	return nil
}

// checkConfigFromFlags assembles the run configuration from flags, with
// viper and the secrets directory filling unset values.
func checkConfigFromFlags(cmd *cobra.Command) (types.CheckConfig, error) {
	email, _ := cmd.Flags().GetString("email")
	email = secretDefault("crossref-email", email)
	if email == "" {
		email = viper.GetString("email")
	}

	rows, _ := cmd.Flags().GetInt("candidate-rows")
	accept, _ := cmd.Flags().GetFloat64("auto-accept-threshold")
	gap, _ := cmd.Flags().GetFloat64("ambiguity-gap-threshold")
	rankingName, _ := cmd.Flags().GetString("ranking")
	emitRef, _ := cmd.Flags().GetBool("emit-corrected-reference")
	delay, _ := cmd.Flags().GetDuration("delay")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	criticalNames, _ := cmd.Flags().GetStringSlice("critical-fields")
	var criticalFields []types.Field
	for _, name := range criticalNames {
		criticalFields = append(criticalFields, types.Field(name))
	}

	cfg := types.CheckConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout: timeout,
		},
		CandidateRows:          rows,
		AutoAcceptThreshold:    accept,
		AmbiguityGapThreshold:  gap,
		CriticalFields:         criticalFields,
		Ranking:                types.RankingScheme(rankingName),
		EmitCorrectedReference: emitRef,
		InterCitationDelay:     delay,
		Email:                  email,
	}

	// Fail before any network traffic on a bad ranking scheme.
	if _, err := engine.NewRanker(cfg.Ranking); err != nil {
		return types.CheckConfig{}, err
	}
	return cfg, nil
}
