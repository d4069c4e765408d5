package scoring

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-ordo/evidentia/internal/analysis/lexicon"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
)

func newScorer() *Scorer {
	return NewScorer(lexicon.NewDefault())
}

func msg(content string) types.Message {
	return types.Message{Content: content, Sender: "김철수", Timestamp: time.Now()}
}

func TestScore_EmptyContentIsZero(t *testing.T) {
	s := newScorer()

	for _, content := range []string{"", "   ", "\t\n"} {
		r := s.Score(msg(content))
		assert.Equal(t, 0.0, r.Score)
		assert.Empty(t, r.MatchedKeywords)
		assert.NotNil(t, r.MatchedKeywords)
	}
}

func TestScore_NoKeywordsIsZero(t *testing.T) {
	s := newScorer()

	r := s.Score(msg("오늘 점심 뭐 먹을까"))
	assert.Equal(t, 0.0, r.Score)
	assert.Empty(t, r.MatchedKeywords)
}

func TestScore_DivorceAdulteryScenario(t *testing.T) {
	s := newScorer()

	r := s.Score(msg("이혼 소송을 진행하려고 합니다. 불륜 증거가 있습니다."))
	assert.Greater(t, r.Score, 5.0)
	assert.Contains(t, r.MatchedKeywords, "이혼")
}

func TestScore_ViolenceMedicalScenario(t *testing.T) {
	s := newScorer()

	r := s.Score(msg("폭행을 당했습니다. 병원 진단서가 있습니다."))
	assert.Greater(t, r.Score, 7.0)
}

func TestScore_NegatedKeywordsDoNotCount(t *testing.T) {
	s := newScorer()

	affirmed := s.Score(msg("폭행을 당했습니다"))
	negated := s.Score(msg("폭행은 없었습니다"))
	assert.Greater(t, affirmed.Score, negated.Score)
	assert.Equal(t, 0.0, negated.Score)
}

func TestScore_DeniedThenAffirmedKeywordCounts(t *testing.T) {
	s := newScorer()

	// The opening denial must not erase the affirmed mention in the next
	// sentence; the message scores as if the keyword were simply affirmed.
	mixed := s.Score(msg("폭행은 없었다고 했지만. 어제 폭행을 당해서 멍이 들었다"))
	plain := s.Score(msg("어제 폭행을 당해서 멍이 들었다"))

	assert.Contains(t, mixed.MatchedKeywords, "폭행")
	assert.Equal(t, plain.Score, mixed.Score)
}

func TestScore_CombinationBonus(t *testing.T) {
	s := newScorer()

	two := s.Score(msg("폭행 때문에 병원 갔다"))
	three := s.Score(msg("폭행 때문에 병원 갔고 이혼 생각 중"))

	// Third category adds its own weight plus the combination bonus.
	assert.Greater(t, three.Score, two.Score)
	assert.Contains(t, three.Reasoning, "combination bonus")
}

func TestScore_ClampedToTen(t *testing.T) {
	s := newScorer()

	r := s.Score(msg("폭행 협박 불륜 외도 도박 대출 병원 진단서 욕설 폭언 가출 음주 아동학대 생활비 이혼 소송"))
	assert.Equal(t, 10.0, r.Score)
	assert.LessOrEqual(t, r.Score, 10.0)
}

func TestScore_Idempotent(t *testing.T) {
	s := newScorer()
	m := msg("불륜 증거로 계좌 내역이 있습니다")

	first := s.Score(m)
	second := s.Score(m)
	assert.Equal(t, first, second)
}

func TestScoreBatch_PreservesOrder(t *testing.T) {
	s := newScorer()

	msgs := []types.Message{
		msg("폭행을 당했습니다"),
		msg("오늘 날씨 좋다"),
		msg("불륜 증거가 있습니다"),
	}
	results, err := s.ScoreBatch(context.Background(), msgs)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Greater(t, results[0].Score, 0.0)
	assert.Equal(t, 0.0, results[1].Score)
	assert.Greater(t, results[2].Score, 0.0)

	// Each position must equal its sequential counterpart.
	for i, m := range msgs {
		assert.Equal(t, s.Score(m), results[i], "index %d", i)
	}
}

func TestScoreBatch_Empty(t *testing.T) {
	s := newScorer()

	results, err := s.ScoreBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestScoreBatch_LargeInput(t *testing.T) {
	s := newScorer()

	msgs := make([]types.Message, 200)
	for i := range msgs {
		msgs[i] = msg(fmt.Sprintf("메시지 %d: 재산분할 관련 문의", i))
	}
	results, err := s.ScoreBatch(context.Background(), msgs)
	require.NoError(t, err)
	require.Len(t, results, 200)
	for i := 1; i < len(results); i++ {
		assert.Equal(t, results[0].Score, results[i].Score)
	}
}

func TestScore_AlwaysInRange(t *testing.T) {
	s := newScorer()

	inputs := []string{
		"", "폭행", "폭행은 없었다", "이혼 이혼 이혼",
		"불륜 외도 상간 모텔 애인 바람",
		"a b c d e f g", "123 456",
	}
	for _, in := range inputs {
		r := s.Score(msg(in))
		assert.GreaterOrEqual(t, r.Score, 0.0, "input %q", in)
		assert.LessOrEqual(t, r.Score, 10.0, "input %q", in)
	}
}
