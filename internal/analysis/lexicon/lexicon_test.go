package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsEmptyCategory(t *testing.T) {
	_, err := New(map[Category]Entry{
		CategoryViolence: {Keywords: nil, Weight: 3.0},
	}, nil)
	require.Error(t, err)
}

func TestNew_RejectsNonPositiveWeight(t *testing.T) {
	_, err := New(map[Category]Entry{
		CategoryViolence: {Keywords: []string{"폭행"}, Weight: 0},
	}, nil)
	require.Error(t, err)
}

func TestMatch_BasicHits(t *testing.T) {
	lex := NewDefault()

	matches := lex.Match("이혼 소송을 진행하려고 합니다. 불륜 증거가 있습니다.")
	require.NotEmpty(t, matches)

	byKeyword := map[string]MatchResult{}
	for _, m := range matches {
		byKeyword[m.Keyword] = m
	}
	assert.Contains(t, byKeyword, "이혼")
	assert.Contains(t, byKeyword, "소송")
	assert.Contains(t, byKeyword, "불륜")
	assert.Equal(t, CategoryDivorce, byKeyword["이혼"].Category)
	assert.Equal(t, CategoryAdultery, byKeyword["불륜"].Category)
	assert.Equal(t, NegationAffirmed, byKeyword["불륜"].Negation)
}

func TestMatch_EmptyText(t *testing.T) {
	lex := NewDefault()
	assert.Nil(t, lex.Match(""))
	assert.Nil(t, lex.Match("   \t\n  "))
	assert.Nil(t, lex.EffectiveKeywords(""))
}

func TestMatch_FirstOccurrenceOrderDeduplicated(t *testing.T) {
	lex := NewDefault()

	// 폭행 appears twice; it must be reported once at its first position.
	kws := lex.EffectiveKeywords("폭행 신고 후 다시 폭행 그리고 병원 이송")
	require.NotEmpty(t, kws)
	assert.Equal(t, "폭행", kws[0])
	count := 0
	for _, k := range kws {
		if k == "폭행" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestNegation_DirectMarkerNegates(t *testing.T) {
	lex := NewDefault()

	// "폭행은 없었습니다" — marker adjacent to the hit.
	matches := lex.Match("폭행은 없었습니다")
	require.Len(t, matches, 1)
	assert.Equal(t, NegationNegated, matches[0].Negation)

	assert.Empty(t, lex.EffectiveKeywords("폭행은 없었습니다"))
}

func TestNegation_DistantMarkerIsAmbiguousAndKept(t *testing.T) {
	lex := NewDefault()

	// Marker three tokens after the hit: inside the window, outside the
	// hard-negation distance.
	matches := lex.Match("폭행 이야기를 꺼낸 적도 없다")
	require.Len(t, matches, 1)
	assert.Equal(t, NegationAmbiguous, matches[0].Negation)

	// Conservative policy: ambiguous hits survive filtering.
	assert.Equal(t, []string{"폭행"}, lex.EffectiveKeywords("폭행 이야기를 꺼낸 적도 없다"))
}

func TestMatch_ClassifiesEveryOccurrence(t *testing.T) {
	lex := NewDefault()

	// The same keyword denied in one clause and affirmed in the next must
	// yield one result per mention, each with its own polarity.
	matches := lex.Match("폭행은 없었다고 했지만. 어제 폭행을 당해서 멍이 들었다")

	var polarities []NegationType
	for _, m := range matches {
		if m.Keyword == "폭행" {
			polarities = append(polarities, m.Negation)
		}
	}
	require.Len(t, polarities, 2)
	assert.Equal(t, NegationNegated, polarities[0])
	assert.Equal(t, NegationAffirmed, polarities[1])
}

func TestNegation_NegatedThenAffirmedSurvives(t *testing.T) {
	lex := NewDefault()

	// A denial followed by an affirmed mention keeps the keyword: discarding
	// it would lose evidence the later clause establishes.
	kws := lex.EffectiveKeywords("폭행은 없었다고 했지만. 어제 폭행을 당해서 멍이 들었다")
	assert.Contains(t, kws, "폭행")
	assert.Contains(t, kws, "멍")

	count := 0
	for _, k := range kws {
		if k == "폭행" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestNegation_ClauseBoundaryCancelsMarker(t *testing.T) {
	lex := NewDefault()

	// The negation lives in the next sentence and must not reach back.
	matches := lex.Match("폭행을 당했습니다. 거짓말은 아니에요")
	require.NotEmpty(t, matches)
	for _, m := range matches {
		if m.Keyword == "폭행" {
			assert.Equal(t, NegationAffirmed, m.Negation)
		}
	}
}

func TestNegation_StandaloneAnOnlyMatchesExactToken(t *testing.T) {
	lex := NewDefault()

	// 안방/안부 must not count as the marker 안.
	matches := lex.Match("안방에서 폭행 장면을 봤다")
	require.NotEmpty(t, matches)
	for _, m := range matches {
		if m.Keyword == "폭행" {
			assert.Equal(t, NegationAffirmed, m.Negation)
		}
	}
}

func TestEffectiveCategories(t *testing.T) {
	lex := NewDefault()

	cats := lex.EffectiveCategories("폭행을 당해서 병원 진단서를 받았고 이혼 소송 준비 중입니다")
	assert.Contains(t, cats, CategoryViolence)
	assert.Contains(t, cats, CategoryMedical)
	assert.Contains(t, cats, CategoryDivorce)
}

func TestMatch_Idempotent(t *testing.T) {
	lex := NewDefault()
	text := "불륜 증거로 모텔 영수증과 계좌 내역이 있습니다"

	first := lex.Match(text)
	second := lex.Match(text)
	assert.Equal(t, first, second)
}
