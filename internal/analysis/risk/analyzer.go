// Package risk performs case-level safety triage over the full message set.
// The scan is deliberately blunt: plain substring matching with no negation
// filtering, because at this layer over-detecting danger is the correct
// failure mode.
package risk

import (
	"strings"

	"github.com/x-ordo/evidentia/pkg/errors"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

// Pattern is one row of the ordered risk table.
type Pattern struct {
	Key      string
	Keywords []string
	Severity common.RiskLevel
	Warning  string
	// Recommendations is a template list: split on "|" when present,
	// otherwise on ", ".
	Recommendations string
}

// defaultPatterns is the production risk table, in evaluation order.
// Severity of the overall assessment is the maximum over matched rows.
var defaultPatterns = []Pattern{
	{
		Key:      "threat",
		Keywords: []string{"죽이", "죽여", "가만두지 않", "가만 안 둬", "해치", "칼을"},
		Severity: common.RiskCritical,
		Warning:  "생명·신체에 대한 위협 표현이 감지되었습니다",
		Recommendations: "즉시 경찰(112) 신고를 검토하세요|위협 메시지를 원본 그대로 보존하세요|" +
			"신변보호 요청 제도를 확인하세요",
	},
	{
		Key:      "violence",
		Keywords: []string{"폭행", "때리", "때렸", "맞았", "멍들", "폭력"},
		Severity: common.RiskHigh,
		Warning:  "물리적 폭력 정황이 감지되었습니다",
		Recommendations: "진단서와 사진 등 상해 증거를 확보하세요|경찰 신고 이력을 조회하세요|" +
			"가정폭력 상담소(1366) 연계를 안내하세요",
	},
	{
		Key:      "child_safety",
		Keywords: []string{"아동학대", "아이를 때", "애를 때", "아이 앞에서 폭"},
		Severity: common.RiskCritical,
		Warning:  "아동의 안전이 위협받는 정황이 감지되었습니다",
		Recommendations: "아동보호전문기관 신고를 검토하세요|아동 진술 확보 전 전문가 상담을 받으세요|" +
			"즉시 분리 조치가 필요한지 평가하세요",
	},
	{
		Key:             "financial_dispute",
		Keywords:        []string{"생활비를 안", "생활비를 주지 않", "빚", "대출", "도박"},
		Severity:        common.RiskMedium,
		Warning:         "경제적 분쟁 정황이 감지되었습니다",
		Recommendations: "거래내역서를 확보하세요, 채무 관계를 정리하세요, 재산명시 신청을 검토하세요",
	},
	{
		Key:      "property_concealment",
		Keywords: []string{"재산을 숨", "빼돌", "은닉", "명의를 바꾸", "몰래 처분"},
		Severity: common.RiskHigh,
		Warning:  "재산 은닉 시도 정황이 감지되었습니다",
		Recommendations: "가압류·가처분을 검토하세요|금융거래정보 제출명령을 신청하세요|" +
			"처분 내역의 시점을 기록하세요",
	},
	{
		Key:             "custody_violation",
		Keywords:        []string{"면접교섭", "아이를 못 보게", "양육비를 주지 않", "양육비 미지급"},
		Severity:        common.RiskMedium,
		Warning:         "면접교섭 또는 양육 관련 위반 정황이 감지되었습니다",
		Recommendations: "면접교섭 이행명령을 검토하세요, 양육비이행관리원 신청을 안내하세요",
	},
}

// Analyzer scans a message corpus against the pattern table.  The table is
// fixed at construction; Analyze is a pure function of its input.
type Analyzer struct {
	patterns []Pattern
}

// NewAnalyzer returns an Analyzer over the production table.
func NewAnalyzer() *Analyzer {
	a, err := NewAnalyzerWithPatterns(defaultPatterns)
	if err != nil {
		panic(err)
	}
	return a
}

// NewAnalyzerWithPatterns validates and installs an explicit pattern table.
// An invalid table is a programmer error: callers must fail startup.
func NewAnalyzerWithPatterns(patterns []Pattern) (*Analyzer, error) {
	seen := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		if p.Key == "" {
			return nil, errors.New(errors.ErrCodeRiskTableInvalid, "pattern with empty key")
		}
		if seen[p.Key] {
			return nil, errors.Newf(errors.ErrCodeRiskTableInvalid, "duplicate pattern key %q", p.Key)
		}
		seen[p.Key] = true
		if len(p.Keywords) == 0 {
			return nil, errors.Newf(errors.ErrCodeRiskTableInvalid, "pattern %q has no keywords", p.Key)
		}
		switch p.Severity {
		case common.RiskLow, common.RiskMedium, common.RiskHigh, common.RiskCritical:
		default:
			return nil, errors.Newf(errors.ErrCodeRiskTableInvalid, "pattern %q has unknown severity %q", p.Key, p.Severity)
		}
	}
	copied := make([]Pattern, len(patterns))
	copy(copied, patterns)
	return &Analyzer{patterns: copied}, nil
}

// Analyze runs the full-corpus scan.  It needs the complete message set up
// front: the overall level is a global maximum, so the scan cannot stream.
func (a *Analyzer) Analyze(msgs []types.Message) types.RiskAssessment {
	var sb strings.Builder
	for _, m := range msgs {
		sb.WriteString(m.Content)
		sb.WriteByte('\n')
	}
	corpus := strings.ToLower(sb.String())

	assessment := types.RiskAssessment{
		RiskLevel:       common.RiskLow,
		RiskFactors:     []string{},
		Warnings:        []string{},
		Recommendations: []string{},
	}

	for _, p := range a.patterns {
		if !matchesAny(corpus, p.Keywords) {
			continue
		}
		assessment.RiskFactors = append(assessment.RiskFactors, p.Key)
		assessment.Warnings = append(assessment.Warnings, p.Warning)
		assessment.Recommendations = append(assessment.Recommendations, splitRecommendations(p.Recommendations)...)
		assessment.RiskLevel = assessment.RiskLevel.Max(p.Severity)
	}
	return assessment
}

func matchesAny(corpus string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(corpus, kw) {
			return true
		}
	}
	return false
}

// splitRecommendations expands a recommendation template into its items:
// "|"-separated when a pipe is present, otherwise ", "-separated.
func splitRecommendations(tmpl string) []string {
	if tmpl == "" {
		return nil
	}
	var parts []string
	if strings.Contains(tmpl, "|") {
		parts = strings.Split(tmpl, "|")
	} else {
		parts = strings.Split(tmpl, ", ")
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
