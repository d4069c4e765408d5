package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/x-ordo/evidentia/internal/analysis/engine"
	"github.com/x-ordo/evidentia/internal/analysis/lexicon"
	"github.com/x-ordo/evidentia/internal/analysis/risk"
	"github.com/x-ordo/evidentia/internal/analysis/scoring"
	"github.com/x-ordo/evidentia/pkg/errors"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

// NewAnalyzeCmd scores a transcript file and prints the analysis result.
func NewAnalyzeCmd(opts *RootOptions) *cobra.Command {
	var (
		transcriptPath string
		caseID         string
		threshold      float64
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score a transcript file for legally significant evidence",
		Long:  "Reads a JSON transcript (an array of {content, sender, timestamp}\nobjects), scores every message against the legal keyword lexicon and prints\nthe aggregated analysis with risk triage.",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newCommandLogger(opts)
			if err != nil {
				return err
			}
			defer log.Sync()

			msgs, err := readTranscript(transcriptPath)
			if err != nil {
				return err
			}

			var engineOpts []engine.Option
			if threshold > 0 {
				engineOpts = append(engineOpts, engine.WithHighValueThreshold(threshold))
			}
			eng := engine.NewEngine(scoring.NewScorer(lexicon.NewDefault()), risk.NewAnalyzer(), log, engineOpts...)

			result, err := eng.AnalyzeCase(cmd.Context(), common.ID(caseID), msgs)
			if err != nil {
				return err
			}
			return printResult(cmd, opts, result, func() string { return formatAnalysis(result) })
		},
	}

	cmd.Flags().StringVarP(&transcriptPath, "transcript", "t", "", "path to the transcript JSON file")
	cmd.Flags().StringVar(&caseID, "case-id", "local", "case identifier stamped on the result")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "high-value score threshold (0 uses the default)")
	_ = cmd.MarkFlagRequired("transcript")
	return cmd
}

// readTranscript loads the message array, accepting either a bare array or a
// {"messages": [...]} wrapper as produced by the API.
func readTranscript(path string) ([]types.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "failed to read transcript file")
	}

	var msgs []types.Message
	if err := json.Unmarshal(data, &msgs); err == nil {
		return msgs, nil
	}

	var wrapped struct {
		Messages []types.Message `json:"messages"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil || wrapped.Messages == nil {
		return nil, errors.New(errors.ErrCodeBadRequest, "transcript file is neither a message array nor a {\"messages\": [...]} object")
	}
	return wrapped.Messages, nil
}

func formatAnalysis(r *types.AnalysisResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Case:                %s\n", r.CaseID)
	fmt.Fprintf(&sb, "Messages analyzed:   %d\n", r.TotalMessages)
	fmt.Fprintf(&sb, "Average score:       %.2f\n", r.AverageScore)
	fmt.Fprintf(&sb, "High-value messages: %d\n", len(r.HighValueMessages))
	fmt.Fprintf(&sb, "Risk level:          %s\n", r.RiskAssessment.RiskLevel)
	fmt.Fprintf(&sb, "Distinct keywords:   %d\n", r.Summary.DistinctKeywords)
	for _, w := range r.RiskAssessment.Warnings {
		fmt.Fprintf(&sb, "Warning:             %s\n", w)
	}
	if len(r.HighValueMessages) > 0 {
		sb.WriteString("\nTop findings:\n")
		limit := len(r.HighValueMessages)
		if limit > 5 {
			limit = 5
		}
		for _, m := range r.HighValueMessages[:limit] {
			fmt.Fprintf(&sb, "  [%.1f] %s\n", m.Score, strings.Join(m.MatchedKeywords, ", "))
		}
	}
	return sb.String()
}
