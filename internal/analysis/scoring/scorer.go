// Package scoring assigns a 0–10 evidentiary value to individual messages.
// The scorer is pure: it owns no mutable state beyond the immutable lexicon,
// so concurrent scoring needs no synchronisation.
package scoring

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/x-ordo/evidentia/internal/analysis/lexicon"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
)

const (
	// maxScore is the upper clamp of the evidentiary scale.
	maxScore = 10.0
	// comboBonus is added when a message touches comboCategories or more
	// distinct categories: co-occurrence of independent fault signals in one
	// message is itself evidentiary.
	comboBonus      = 1.5
	comboCategories = 3
	// defaultBatchConcurrency bounds ScoreBatch fan-out.
	defaultBatchConcurrency = 8
)

// Scorer computes per-message evidentiary scores from effective (non-negated)
// lexicon matches.
type Scorer struct {
	lex *lexicon.Lexicon
}

// NewScorer constructs a Scorer over the given lexicon.
func NewScorer(lex *lexicon.Lexicon) *Scorer {
	return &Scorer{lex: lex}
}

// Score evaluates one message.  It never fails: empty or whitespace-only
// content degrades to a 0.0 score with an empty keyword list.
func (s *Scorer) Score(msg types.Message) types.ScoringResult {
	if strings.TrimSpace(msg.Content) == "" {
		return types.ScoringResult{
			Score:           0.0,
			MatchedKeywords: []string{},
			Reasoning:       "empty message",
		}
	}

	matches := s.lex.EffectiveMatches(msg.Content)
	if len(matches) == 0 {
		return types.ScoringResult{
			Score:           0.0,
			MatchedKeywords: []string{},
			Reasoning:       "no legal-relevance keywords matched",
		}
	}

	keywords := make([]string, 0, len(matches))
	categories := make(map[lexicon.Category]bool)
	total := 0.0
	for _, m := range matches {
		keywords = append(keywords, m.Keyword)
		categories[m.Category] = true
		total += m.Weight
	}

	bonusApplied := false
	if len(categories) >= comboCategories {
		total += comboBonus
		bonusApplied = true
	}
	score := clamp(total, 0, maxScore)

	reasoning := fmt.Sprintf("%d keyword(s) across %d category(ies)", len(keywords), len(categories))
	if bonusApplied {
		reasoning += "; combination bonus applied"
	}
	if score != total {
		reasoning += "; clamped to scale maximum"
	}

	return types.ScoringResult{
		Score:           score,
		MatchedKeywords: keywords,
		Reasoning:       reasoning,
	}
}

// ScoreBatch scores messages in parallel while preserving input order.
// Scoring is pure, so the only error source is context cancellation.
func (s *Scorer) ScoreBatch(ctx context.Context, msgs []types.Message) ([]types.ScoringResult, error) {
	if len(msgs) == 0 {
		return []types.ScoringResult{}, nil
	}

	results := make([]types.ScoringResult, len(msgs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultBatchConcurrency)

	for i := range msgs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.Score(msgs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
