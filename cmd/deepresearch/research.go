package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshintel/deepresearch/internal/research"
	"github.com/meshintel/deepresearch/internal/store"
	"github.com/meshintel/deepresearch/pkg/types"
)

// defaultUserEmail identifies runs that do not name a user.
const defaultUserEmail = "local@deepresearch.dev"

var researchCmd = &cobra.Command{
	Use:   "research [query]",
	Short: "Run the full research pipeline for a query",
	Long: `Research expands the query into search variations, gathers results from
the configured providers, filters and ranks them by credibility, then
synthesizes and validates a structured markdown report.

The report is printed to stdout unless --output names a file. With
--export, a JSON artifact for downstream tooling is also written to the
export directory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return fmt.Errorf("empty query")
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		logger, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		defer logger.Sync()

		cfg := buildConfig(cmd)

		userEmail, _ := cmd.Flags().GetString("user-email")
		userName, _ := cmd.Flags().GetString("user-name")

		usage, err := store.NewStore(cfg.Store)
		if err != nil {
			return fmt.Errorf("opening usage store: %w", err)
		}
		defer usage.Close()

		user, err := usage.GetOrCreateUser(userEmail, userName)
		if err != nil {
			return fmt.Errorf("resolving user: %w", err)
		}

		status, err := usage.CheckUsageLimit(user.ID, "research")
		if err != nil {
			return fmt.Errorf("checking usage limit: %w", err)
		}
		if !status.WithinLimit {
			return fmt.Errorf("monthly research limit reached (%d/%d on plan %q)",
				status.Current, status.Limit, user.Plan)
		}

		engine, err := research.New(cfg, logger)
		if err != nil {
			return err
		}

		recencyDays, _ := cmd.Flags().GetInt("recency-days")
		export, _ := cmd.Flags().GetBool("export")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		report, err := engine.Research(ctx, query, research.Options{
			RecencyDays: recencyDays,
			Export:      export,
		})
		if err != nil {
			return err
		}

		if trackErr := usage.TrackUsage(user.ID, "research", 1); trackErr != nil {
			fmt.Fprintf(os.Stderr, "warning: could not record usage: %v\n", trackErr)
		}
		if auditErr := usage.LogAudit(user.ID, "research.run", query); auditErr != nil {
			fmt.Fprintf(os.Stderr, "warning: could not record audit entry: %v\n", auditErr)
		}

		return writeReport(cmd, report)
	},
}

// writeReport emits the report as markdown or JSON, to stdout or a file.
func writeReport(cmd *cobra.Command, report *types.ResearchReport) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	output, _ := cmd.Flags().GetString("output")

	var body []byte
	if asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		body = append(data, '\n')
	} else {
		body = []byte(report.MarkdownReport)
	}

	if output == "" {
		_, err := os.Stdout.Write(body)
		return err
	}

	if err := os.WriteFile(output, body, 0o644); err != nil {
		return fmt.Errorf("writing report to %s: %w", output, err)
	}
	fmt.Fprintf(os.Stderr, "Report written to %s\n", output)
	if report.ExportPath != "" {
		fmt.Fprintf(os.Stderr, "Export artifact: %s\n", report.ExportPath)
	}
	return nil
}

// buildConfig assembles the pipeline configuration from flags, config file
// values, and loaded secrets, in that order of precedence.
func buildConfig(cmd *cobra.Command) types.PipelineConfig {
	flags := cmd.Flags()

	model, _ := flags.GetString("model")
	resultsPerQuery, _ := flags.GetInt("results-per-query")
	enrich, _ := flags.GetBool("enrich-content")
	timeout, _ := flags.GetDuration("timeout")

	tavilyKey, _ := flags.GetString("tavily-api-key")
	serperKey, _ := flags.GetString("serper-api-key")
	jinaKey, _ := flags.GetString("jina-api-key")
	openaiKey, _ := flags.GetString("openai-api-key")
	typhoonKey, _ := flags.GetString("typhoon-api-key")
	geminiKey, _ := flags.GetString("gemini-api-key")
	azureKey, _ := flags.GetString("azure-api-key")
	azureEndpoint, _ := flags.GetString("azure-endpoint")

	http := types.HTTPConfig{
		Timeout:   timeout,
		UserAgent: "deepresearch/" + version,
	}

	return types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig:      http,
			ResultsPerQuery: resultsPerQuery,
			TavilyAPIKey:    secret("tavily-api-key", tavilyKey),
			SerperAPIKey:    secret("serper-api-key", serperKey),
			JinaAPIKey:      secret("jina-api-key", jinaKey),
			EnrichContent:   enrich,
			MaxRetries:      viper.GetInt("search.max_retries"),
		},
		LLM: types.LLMConfig{
			HTTPConfig:    http,
			Model:         model,
			OpenAIAPIKey:  secret("openai-api-key", openaiKey),
			TyphoonAPIKey: secret("typhoon-api-key", typhoonKey),
			GeminiAPIKey:  secret("gemini-api-key", geminiKey),
			AzureAPIKey:   secret("azure-api-key", azureKey),
			AzureEndpoint: secret("azure-endpoint", azureEndpoint),
			MaxRetries:    viper.GetInt("llm.max_retries"),
		},
		Store: types.StoreConfig{
			Path: viper.GetString("store.path"),
		},
		Export: types.ExportConfig{
			Dir: viper.GetString("export.dir"),
		},
	}
}

func init() {
	researchCmd.Flags().String("model", "gpt-4o", "model identifier (gpt-*, o3*, typhoon*, gemini*)")
	researchCmd.Flags().Int("recency-days", 7, "freshness window in days for search and recency scoring")
	researchCmd.Flags().Int("results-per-query", 5, "results requested from each provider per expanded query")
	researchCmd.Flags().Bool("enrich-content", true, "fetch full page content for discovered URLs")
	researchCmd.Flags().Duration("timeout", 60*time.Second, "HTTP request timeout per provider call")
	researchCmd.Flags().Bool("export", false, "write a JSON export artifact alongside the report")
	researchCmd.Flags().String("output", "", "write the report to a file instead of stdout")
	researchCmd.Flags().Bool("json", false, "output the full report structure as JSON")
	researchCmd.Flags().String("user-email", defaultUserEmail, "user identity for usage tracking")
	researchCmd.Flags().String("user-name", "", "display name for a newly created user")

	researchCmd.Flags().String("tavily-api-key", "", "Tavily API key (overrides .secrets/ and environment)")
	researchCmd.Flags().String("serper-api-key", "", "Serper API key (overrides .secrets/ and environment)")
	researchCmd.Flags().String("jina-api-key", "", "Jina API key (overrides .secrets/ and environment)")
	researchCmd.Flags().String("openai-api-key", "", "OpenAI API key (overrides .secrets/ and environment)")
	researchCmd.Flags().String("typhoon-api-key", "", "Typhoon API key (overrides .secrets/ and environment)")
	researchCmd.Flags().String("gemini-api-key", "", "Gemini API key (overrides .secrets/ and environment)")
	researchCmd.Flags().String("azure-api-key", "", "Azure OpenAI API key (overrides .secrets/ and environment)")
	researchCmd.Flags().String("azure-endpoint", "", "Azure OpenAI endpoint (overrides .secrets/ and environment)")

	rootCmd.AddCommand(researchCmd)
}
