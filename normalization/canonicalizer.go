package normalization

import (
	"fmt"
	"regexp"
	"strings"
)

// ソースCSV/シートの列名。列は名前の完全一致で引く(列順には依存しない)。
// 認識しない列は無視する。
const (
	colID            = "ID"
	colName          = "氏名"
	colPhone         = "電話番号"
	colEmail         = "メールアドレス"
	colBirthDate     = "生年月日"
	colAge           = "年齢"
	colPrefecture    = "都道府県"
	colCity          = "市区町村"
	colEmployment    = "希望勤務形態"
	colJobType       = "希望職種"
	colQualification = "保有資格"
	colSalary        = "希望年収"
	colMemo          = "備考"
	colStatus        = "ステータス"
	colClient        = "園名"
	colOwner         = "担当者"
	colProbability   = "確度"
)

// ID列に入る「ID未採番」を表すマーカー(スプレッドシートの関数エラー値がそのまま残る)
const invalidIDMarker = "#N/A"

// 候補者IDは8桁の数字で固定
var reExternalID = regexp.MustCompile(`^\d{8}$`)

// OwnerIndex 担当者名→内部IDの対応表。
// 実行ごとにストアのコンサルタント一覧から構築し、明示的に渡す
// (グローバルに持たないことで Canonicalize を純粋関数に保つ)。
type OwnerIndex map[string]int

// Canonicalize RawRow 1行を CandidateRecord に正規化する。
// owner はシート由来の担当者名(担当者別シートではファイル名が文脈になる)。
// 空なら行内の担当者列を使う。refYear は年なし日付の補完年。
//
// 2番目の戻り値が false の行は取り込み対象外(呼び出し側で件数だけ数える):
//   - IDが欠落・マーカー値・8桁数字以外
//   - ステータスが追客中など案件未成立のもの
//   - 園名がなく、かつ面接以上まで進んでいないもの
func Canonicalize(row map[string]string, owner string, roster OwnerIndex, refYear int) (CandidateRecord, bool) {
	id := strings.TrimSpace(foldWidth(row[colID]))
	if id == "" || id == invalidIDMarker || !reExternalID.MatchString(id) {
		return CandidateRecord{}, false
	}

	rec := CandidateRecord{
		ExternalID:    id,
		Name:          normalizeName(row[colName]),
		Phone:         NormalizePhone(row[colPhone]),
		Email:         normalizeEmail(row[colEmail]),
		BirthDate:     NormalizeDate(row[colBirthDate], refYear),
		Prefecture:    normalizeText(row[colPrefecture]),
		City:          normalizeText(row[colCity]),
		Employment:    normalizeText(row[colEmployment]),
		JobType:       normalizeText(row[colJobType]),
		Qualification: normalizeText(row[colQualification]),
		Memo:          normalizeText(row[colMemo]),
	}
	if age, ok := NormalizeAge(row[colAge]); ok {
		rec.Age = &age
	}
	if salary, ok := NormalizeAmount(row[colSalary]); ok {
		rec.Salary = &salary
	}

	ownerName := strings.TrimSpace(owner)
	if ownerName == "" {
		ownerName = strings.TrimSpace(row[colOwner])
	}
	rec.OwnerName = ownerName
	if ownerID, ok := roster[ownerName]; ok {
		rec.OwnerID = ownerID
	}

	status := strings.TrimSpace(row[colStatus])
	if status != "" {
		phase := MapStatusToPhase(status)
		if phase == "" {
			// 追客中や提案前終了は案件として追わない
			return rec, false
		}
		rec.Phase = phase
		rec.Probability = MapProbabilityLabel(row[colProbability])

		client := normalizeName(row[colClient])
		if client == "" {
			if !phaseAtLeastInterview(phase) {
				// 園名もなく面接まで進んでもいない行は追跡する材料がない
				return rec, false
			}
			client = placeholderClientName(ownerName)
		}
		rec.ClientName = client
	}

	return rec, true
}

// phaseAtLeastInterview 面接確定以降まで進んでいるフェーズか
func phaseAtLeastInterview(phase string) bool {
	switch phase {
	case PhaseInterviewScheduled, PhaseInterviewDone, PhaseOffer, PhaseOfferAccepted, PhaseJoined:
		return true
	}
	return false
}

// placeholderClientName 園名未入力だが面接以上に進んでいる行のための仮園名。
// 担当者名を埋め込み、後から実名に差し替えられるようにする。
func placeholderClientName(owner string) string {
	if owner == "" {
		return "園名未入力"
	}
	return fmt.Sprintf("園名未入力（%s担当）", owner)
}
