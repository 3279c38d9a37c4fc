package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridian-research/memogen/internal/model"
	"github.com/meridian-research/memogen/internal/pipeline"
)

var (
	generateCompany     string
	generateSituation   string
	generateFiles       []string
	generateMode        string
	generateParentPeers []string
	generateSpincoPeers []string
	generateOutDir      string
	generateProvider    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an investment memo from source documents",
	Long: `Extracts text from the given source documents, prompts the configured
completion model with the situation outline, and renders the memo as DOCX
into the output directory. The run is recorded in the store and the session
is updated to point at the new memo.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		situation, err := model.ParseSituation(generateSituation)
		if err != nil {
			return err
		}
		switch generateMode {
		case pipeline.ValuationNone, pipeline.ValuationTickers, pipeline.ValuationAuto, pipeline.ValuationResolved:
		default:
			return eris.Errorf("unknown valuation mode %q (none, tickers, auto, resolved)", generateMode)
		}
		if generateMode == pipeline.ValuationResolved {
			if err := cfg.RequireMarketData(); err != nil {
				return err
			}
		}
		if generateProvider != "" {
			cfg.Completion.Provider = generateProvider
		}
		if generateOutDir != "" {
			cfg.Output.Dir = generateOutDir
		}

		docs, err := readSourceDocs(generateFiles)
		if err != nil {
			return err
		}

		env, err := initGenerator(ctx, "generate")
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Generator.GenerateMemo(ctx, pipeline.MemoRequest{
			Company:       generateCompany,
			Situation:     situation,
			Docs:          docs,
			ValuationMode: generateMode,
			ParentPeers:   generateParentPeers,
			SpincoPeers:   generateSpincoPeers,
		})
		if err != nil {
			return eris.Wrap(err, "generate memo")
		}

		zap.L().Info("memo generated",
			zap.String("run_id", result.RunID),
			zap.String("path", result.ArtifactPath),
			zap.Int("prompt_tokens", result.PromptTokens),
			zap.Int("completion_tokens", result.CompletionTokens),
		)

		out := struct {
			RunID            string   `json:"run_id"`
			ArtifactPath     string   `json:"artifact_path"`
			Sections         []string `json:"sections"`
			PromptTokens     int      `json:"prompt_tokens"`
			CompletionTokens int      `json:"completion_tokens"`
		}{
			RunID:            result.RunID,
			ArtifactPath:     result.ArtifactPath,
			Sections:         result.Sections.Keys(),
			PromptTokens:     result.PromptTokens,
			CompletionTokens: result.CompletionTokens,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

// readSourceDocs loads each file into memory as a pipeline input. Extraction
// failures are handled downstream per file; unreadable paths fail the command.
func readSourceDocs(paths []string) ([]model.SourceDoc, error) {
	docs := make([]model.SourceDoc, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, eris.Wrapf(err, "read source file %s", p)
		}
		docs = append(docs, model.SourceDoc{Name: filepath.Base(p), Data: data})
	}
	return docs, nil
}

func init() {
	generateCmd.Flags().StringVar(&generateCompany, "company", "", "company name the memo is about")
	generateCmd.Flags().StringVar(&generateSituation, "situation", "", "situation type (id or label, see 'memogen situations')")
	generateCmd.Flags().StringArrayVar(&generateFiles, "file", nil, "source document path (repeatable)")
	generateCmd.Flags().StringVar(&generateMode, "valuation-mode", pipeline.ValuationNone, "valuation analysis mode: none, tickers, auto, or resolved")
	generateCmd.Flags().StringSliceVar(&generateParentPeers, "parent-peers", nil, "comma-separated parent peer tickers or names")
	generateCmd.Flags().StringSliceVar(&generateSpincoPeers, "spinco-peers", nil, "comma-separated spinco peer tickers or names")
	generateCmd.Flags().StringVar(&generateOutDir, "out-dir", "", "artifact directory (default from config)")
	generateCmd.Flags().StringVar(&generateProvider, "provider", "", "completion provider override (deepseek or anthropic)")
	_ = generateCmd.MarkFlagRequired("company")
	_ = generateCmd.MarkFlagRequired("situation")
	_ = generateCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(generateCmd)
}
