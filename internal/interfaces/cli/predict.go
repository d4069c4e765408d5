package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/x-ordo/evidentia/internal/analysis/impact"
	"github.com/x-ordo/evidentia/internal/analysis/lexicon"
	"github.com/x-ordo/evidentia/internal/analysis/prediction"
	"github.com/x-ordo/evidentia/pkg/errors"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

// NewPredictCmd forecasts the division ratio from an evidence file.  Without
// a precedent index the prediction degrades gracefully to rule-table impacts
// only.
func NewPredictCmd(opts *RootOptions) *cobra.Command {
	var (
		evidencePath string
		caseID       string
		assets       int64
		debts        int64
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Forecast the property division ratio from case evidence",
		Long:  "Reads a JSON evidence file (an array of {evidence_id, evidence_type,\nlegal_categories, fault_party, description} objects) and prints the division\nforecast for the given marital estate.",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newCommandLogger(opts)
			if err != nil {
				return err
			}
			defer log.Sync()

			evidences, err := readEvidence(evidencePath)
			if err != nil {
				return err
			}

			lex := lexicon.NewDefault()
			predictor := prediction.NewPredictor(impact.NewAnalyzer(impact.NewDefaultRuleTable(), lex), nil, log)

			pred, err := predictor.Predict(cmd.Context(), common.ID(caseID), evidences, prediction.PropertyProfile{
				TotalAssets: assets,
				TotalDebts:  debts,
			})
			if err != nil {
				return err
			}
			return printResult(cmd, opts, pred, func() string { return formatPrediction(pred) })
		},
	}

	cmd.Flags().StringVarP(&evidencePath, "evidence", "e", "", "path to the evidence JSON file")
	cmd.Flags().StringVar(&caseID, "case-id", "local", "case identifier used in logs")
	cmd.Flags().Int64Var(&assets, "assets", 0, "total marital assets in KRW")
	cmd.Flags().Int64Var(&debts, "debts", 0, "total marital debts in KRW")
	_ = cmd.MarkFlagRequired("evidence")
	return cmd
}

func readEvidence(path string) ([]types.Evidence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "failed to read evidence file")
	}
	var evidences []types.Evidence
	if err := json.Unmarshal(data, &evidences); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "evidence file is not a JSON evidence array")
	}
	return evidences, nil
}

func formatPrediction(p *types.DivisionPrediction) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Net estate value:  %d KRW\n", p.NetValue)
	fmt.Fprintf(&sb, "Division ratio:    plaintiff %d%% / defendant %d%%\n", p.PlaintiffRatio, p.DefendantRatio)
	fmt.Fprintf(&sb, "Plaintiff amount:  %d KRW\n", p.PlaintiffAmount)
	fmt.Fprintf(&sb, "Defendant amount:  %d KRW\n", p.DefendantAmount)
	fmt.Fprintf(&sb, "Confidence:        %s\n", p.ConfidenceLevel)
	if len(p.EvidenceImpacts) > 0 {
		sb.WriteString("\nEvidence impacts:\n")
		for _, ei := range p.EvidenceImpacts {
			fmt.Fprintf(&sb, "  %-22s %+.1fpt (%s)\n", ei.FaultType, ei.ImpactValue, ei.Direction)
		}
	}
	if len(p.SimilarCases) > 0 {
		sb.WriteString("\nSimilar precedents:\n")
		for _, sc := range p.SimilarCases {
			fmt.Fprintf(&sb, "  %s %s %d:%d (similarity %.2f)\n",
				sc.CaseRef, sc.Court, sc.DivisionRatio.Plaintiff, sc.DivisionRatio.Defendant, sc.SimilarityScore)
		}
	}
	return sb.String()
}
