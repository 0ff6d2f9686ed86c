package normalization

import "strings"

// DeduplicateByID 同じ候補者IDを持つレコード群を1件に絞る。
// 充足度スコアが最も高いものを採用し、同点は先に現れた方を残す
// (安定なタイブレーク。同じ入力なら何度実行しても結果は同じ)。
// 出力はIDの初出順。
func DeduplicateByID(records []CandidateRecord) []CandidateRecord {
	best := make(map[string]CandidateRecord, len(records))
	order := make([]string, 0, len(records))

	for _, rec := range records {
		current, seen := best[rec.ExternalID]
		if !seen {
			best[rec.ExternalID] = rec
			order = append(order, rec.ExternalID)
			continue
		}
		if CompletenessScore(rec) > CompletenessScore(current) {
			best[rec.ExternalID] = rec
		}
	}

	result := make([]CandidateRecord, 0, len(order))
	for _, id := range order {
		result = append(result, best[id])
	}
	return result
}

// FillFromSiblings 氏名が同じ別IDのレコードから欠損項目を借りて埋める。
// ID越しのマージは同一IDの重複排除より強い推定になるため、
// force-fill 同期のときだけ呼ぶこと。既に値がある項目は変更しない。
// 借用対象: 電話番号・メールアドレス・希望勤務形態・年齢・フェーズ。
func FillFromSiblings(records []CandidateRecord) []CandidateRecord {
	groups := make(map[string][]int)
	for i, rec := range records {
		key := nameKey(rec.Name)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], i)
	}

	result := make([]CandidateRecord, len(records))
	copy(result, records)

	for _, indexes := range groups {
		if len(indexes) < 2 {
			continue
		}
		for _, i := range indexes {
			for _, j := range indexes {
				if i == j {
					continue
				}
				borrowMissing(&result[i], records[j])
			}
		}
	}
	return result
}

// borrowMissing dst の欠損項目を src の値で埋める
func borrowMissing(dst *CandidateRecord, src CandidateRecord) {
	if dst.Phone == "" {
		dst.Phone = src.Phone
	}
	if dst.Email == "" {
		dst.Email = src.Email
	}
	if dst.Employment == "" {
		dst.Employment = src.Employment
	}
	if dst.Age == nil && src.Age != nil {
		age := *src.Age
		dst.Age = &age
	}
	if dst.Phase == "" {
		dst.Phase = src.Phase
	}
}

// nameKey 氏名の表記揺れ(全角/半角、空白の有無)を吸収したグループ化キー
func nameKey(name string) string {
	return strings.ReplaceAll(normalizeName(name), " ", "")
}
