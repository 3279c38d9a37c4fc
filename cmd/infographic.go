package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridian-research/memogen/internal/model"
	"github.com/meridian-research/memogen/internal/pipeline"
)

var (
	infographicRun       string
	infographicMemo      string
	infographicCompany   string
	infographicSituation string
	infographicOutDir    string
)

var infographicCmd = &cobra.Command{
	Use:   "infographic",
	Short: "Condense a generated memo into a one-page HTML infographic",
	Long: `Reads a memo DOCX back, summarizes each section into bullet points with
the completion model, and renders a card-per-section HTML page.

The memo is located one of three ways: --run loads path and metadata from a
stored memo run, --memo names the DOCX directly (requires --company), and
with neither the current session's latest memo is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var situation model.SituationType
		if infographicSituation != "" {
			st, err := model.ParseSituation(infographicSituation)
			if err != nil {
				return err
			}
			situation = st
		}
		if infographicOutDir != "" {
			cfg.Output.Dir = infographicOutDir
		}

		env, err := initGenerator(ctx, "infographic")
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Generator.GenerateInfographic(ctx, pipeline.InfographicRequest{
			RunID:     infographicRun,
			MemoPath:  infographicMemo,
			Company:   infographicCompany,
			Situation: situation,
		})
		if err != nil {
			return eris.Wrap(err, "generate infographic")
		}

		zap.L().Info("infographic generated",
			zap.String("run_id", result.RunID),
			zap.String("path", result.ArtifactPath),
			zap.Int("sections", len(result.Sections)),
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
			PromptTokens:     result.PromptTokens,
			CompletionTokens: result.CompletionTokens,
		}
		for _, s := range result.Sections {
			out.Sections = append(out.Sections, s.Title)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	infographicCmd.Flags().StringVar(&infographicRun, "run", "", "memo run ID to build the infographic from")
	infographicCmd.Flags().StringVar(&infographicMemo, "memo", "", "path to a memo DOCX (requires --company)")
	infographicCmd.Flags().StringVar(&infographicCompany, "company", "", "company name (used with --memo)")
	infographicCmd.Flags().StringVar(&infographicSituation, "situation", "spinoff", "situation type of the memo (used with --memo)")
	infographicCmd.Flags().StringVar(&infographicOutDir, "out-dir", "", "artifact directory (default from config)")
	rootCmd.AddCommand(infographicCmd)
}
