package normalization

// 差分比較の対象フィールド名。レポートにもこの名前で載る。
const (
	FieldName          = "name"
	FieldPhone         = "phone"
	FieldEmail         = "email"
	FieldAge           = "age"
	FieldPrefecture    = "prefecture"
	FieldCity          = "city"
	FieldEmployment    = "employment"
	FieldQualification = "qualification"
	FieldJobType       = "job_type"
)

// DiffFields ソース由来のレコードとストア側レコードを項目ごとに比較し、
// 正規化後の値が異なるフィールド名を返す。両辺を同じ規則で正規化するので、
// 表記だけが違う値(例: 090-1234-5678 と 09012345678)は差分にならない。
//
// ソース側が未入力の項目は「意見なし」として差分に数えない。
// 未入力で上書きしてよいのは force-fill 同期だけで、それはここではなく
// 同期側の責務。空の戻り値は「更新不要」を意味する。
func DiffFields(src CandidateRecord, stored StoredCandidate) []string {
	var diffs []string
	compare := func(field, srcValue, storedValue string) {
		if srcValue != "" && srcValue != storedValue {
			diffs = append(diffs, field)
		}
	}

	compare(FieldName, normalizeName(src.Name), normalizeName(stored.Name))
	compare(FieldPhone, NormalizePhone(src.Phone), NormalizePhone(stored.Phone))
	compare(FieldEmail, normalizeEmail(src.Email), normalizeEmail(stored.Email))
	if src.Age != nil && (stored.Age == nil || *src.Age != *stored.Age) {
		diffs = append(diffs, FieldAge)
	}
	compare(FieldPrefecture, normalizeText(src.Prefecture), normalizeText(stored.Prefecture))
	compare(FieldCity, normalizeText(src.City), normalizeText(stored.City))
	compare(FieldEmployment, normalizeText(src.Employment), normalizeText(stored.Employment))
	compare(FieldQualification, normalizeText(src.Qualification), normalizeText(stored.Qualification))
	compare(FieldJobType, normalizeText(src.JobType), normalizeText(stored.JobType))

	return diffs
}
