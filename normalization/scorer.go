package normalization

// CompletenessScore 重複行の優先順位付けに使う充足度スコア。
// 連絡先あり+2、希望勤務形態あり+1、年齢判明+1。
// レコードの内容だけで決まり、入力順に依存しない。永続化はしない。
func CompletenessScore(rec CandidateRecord) int {
	score := 0
	if rec.Phone != "" || rec.Email != "" {
		score += 2
	}
	if rec.Employment != "" {
		score++
	}
	if rec.Age != nil {
		score++
	}
	return score
}
