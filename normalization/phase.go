package normalization

import "strings"

// 案件フェーズの閉じた語彙。ストア側のフェーズ列と一致させること。
const (
	PhaseProposed           = "proposed"            // 提案済
	PhaseInterviewScheduled = "interview_scheduled" // 面接確定
	PhaseInterviewDone      = "interview_done"      // 面接実施済
	PhaseOffer              = "offer"               // 内定
	PhaseOfferAccepted      = "offer_accepted"      // 内定承諾
	PhaseJoined             = "joined"              // 入職
)

// phaseRule ステータス文字列→フェーズの変換規則。
// 上から順に評価し、最初に一致した規則を採用する。
// 「内定承諾」は「内定」より先、「面接確定」は「面接済」より先に
// 置かないと部分一致で誤変換する。
type phaseRule struct {
	keywords []string
	phase    string
}

var phaseRules = []phaseRule{
	{[]string{"入職", "成約"}, PhaseJoined},
	{[]string{"内定承諾", "承諾済"}, PhaseOfferAccepted},
	{[]string{"内定"}, PhaseOffer},
	{[]string{"面接確定", "面接設定", "面談確定"}, PhaseInterviewScheduled},
	{[]string{"面接済", "面接完了", "面談済"}, PhaseInterviewDone},
	{[]string{"提案済", "打診済"}, PhaseProposed},
}

// 案件としてまだ成立していない(追客中)か、提案前に終了したステータス。
// これらを含む行はフェーズを返さず、呼び出し側で行ごと取り込み対象外にする。
var excludedStatusKeywords = []string{
	"追客",
	"掘り起こし",
	"休眠",
	"提案前終了",
	"対象外",
}

// 規則に一致しなくても案件が進んでいることを示すキーワード
var advancementKeywords = []string{"提案", "面接", "内定"}

// MapStatusToPhase ステータスの自由記述をフェーズに変換する。
// 取り込み対象外のステータス、および判定不能な場合は空文字列を返す。
func MapStatusToPhase(status string) string {
	s := strings.TrimSpace(status)
	if s == "" {
		return ""
	}
	for _, keyword := range excludedStatusKeywords {
		if strings.Contains(s, keyword) {
			return ""
		}
	}
	for _, rule := range phaseRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(s, keyword) {
				return rule.phase
			}
		}
	}
	// 規則に一致しないが提案/面接/内定に触れているものは提案済とみなす
	for _, keyword := range advancementKeywords {
		if strings.Contains(s, keyword) {
			return PhaseProposed
		}
	}
	return ""
}

// 確度ラベル→バケットの変換表。
// 「D」ランクは運用判断でCに集約する。
var probabilityLabels = map[string]string{
	"A": "A",
	"B": "B",
	"C": "C",
	"D": "C",
	"高": "A",
	"中": "B",
	"低": "C",
}

// MapProbabilityLabel 確度ラベルを A/B/C のバケットに変換する。
// 「A(80%)」のような注記付きラベルは先頭1文字で判定する。
// 変換できなければ空文字列。
func MapProbabilityLabel(text string) string {
	t := strings.ToUpper(strings.TrimSpace(foldWidth(text)))
	if t == "" {
		return ""
	}
	if bucket, ok := probabilityLabels[t]; ok {
		return bucket
	}
	if bucket, ok := probabilityLabels[string([]rune(t)[0])]; ok {
		return bucket
	}
	return ""
}
