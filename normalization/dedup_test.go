package normalization

import "testing"

func intPtr(n int) *int { return &n }

// TestCompletenessScore 充足度スコアの配点を検証する
func TestCompletenessScore(t *testing.T) {
	tests := []struct {
		name string
		rec  CandidateRecord
		want int
	}{
		{"empty record", CandidateRecord{}, 0},
		{"phone only", CandidateRecord{Phone: "09012345678"}, 2},
		{"email only", CandidateRecord{Email: "a@example.com"}, 2},
		{"phone and email still 2", CandidateRecord{Phone: "09012345678", Email: "a@example.com"}, 2},
		{"employment only", CandidateRecord{Employment: "正社員"}, 1},
		{"age only", CandidateRecord{Age: intPtr(34)}, 1},
		{"everything", CandidateRecord{Phone: "09012345678", Employment: "正社員", Age: intPtr(34)}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompletenessScore(tt.rec); got != tt.want {
				t.Errorf("CompletenessScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestDeduplicateByIDDeterministic 同一IDの重複はスコア最大の行が
// 入力順に関係なく選ばれることを検証する
func TestDeduplicateByIDDeterministic(t *testing.T) {
	withContact := CandidateRecord{
		ExternalID: "20206444",
		Name:       "山田花子",
		Phone:      "09012345678",
		Email:      "hanako@example.com",
	} // スコア2
	withEmployment := CandidateRecord{
		ExternalID: "20206444",
		Name:       "山田花子",
		Employment: "正社員",
	} // スコア1

	for _, records := range [][]CandidateRecord{
		{withContact, withEmployment},
		{withEmployment, withContact},
	} {
		result := DeduplicateByID(records)
		if len(result) != 1 {
			t.Fatalf("expected 1 record, got %d", len(result))
		}
		if result[0].Phone != "09012345678" {
			t.Errorf("winner has phone %q, want the higher-scored record", result[0].Phone)
		}
	}
}

// TestDeduplicateByIDStableTieBreak 同点は先に現れた行が勝つ
func TestDeduplicateByIDStableTieBreak(t *testing.T) {
	first := CandidateRecord{ExternalID: "20206444", Memo: "first"}
	second := CandidateRecord{ExternalID: "20206444", Memo: "second"}

	result := DeduplicateByID([]CandidateRecord{first, second})
	if len(result) != 1 || result[0].Memo != "first" {
		t.Errorf("tie-break did not keep the first-seen record: %+v", result)
	}
}

// TestDeduplicateByIDPreservesOrder 出力はIDの初出順
func TestDeduplicateByIDPreservesOrder(t *testing.T) {
	records := []CandidateRecord{
		{ExternalID: "20206446"},
		{ExternalID: "20206444"},
		{ExternalID: "20206446", Phone: "09011112222"},
		{ExternalID: "20206445"},
	}
	result := DeduplicateByID(records)
	wantOrder := []string{"20206446", "20206444", "20206445"}
	if len(result) != len(wantOrder) {
		t.Fatalf("expected %d records, got %d", len(wantOrder), len(result))
	}
	for i, id := range wantOrder {
		if result[i].ExternalID != id {
			t.Errorf("result[%d].ExternalID = %q, want %q", i, result[i].ExternalID, id)
		}
	}
	if result[0].Phone != "09011112222" {
		t.Errorf("higher-scored duplicate was not kept")
	}
}

// TestFillFromSiblings 同名別IDのレコードから欠損項目を借りる
func TestFillFromSiblings(t *testing.T) {
	records := []CandidateRecord{
		{ExternalID: "20206444", Name: "山田花子", Phone: "09012345678", Age: intPtr(34)},
		{ExternalID: "20301234", Name: "山田　花子", Employment: "パート"}, // 全角スペース表記
		{ExternalID: "20309999", Name: "鈴木一郎"},
	}

	result := FillFromSiblings(records)

	if result[1].Phone != "09012345678" {
		t.Errorf("sibling phone was not borrowed: %q", result[1].Phone)
	}
	if result[1].Age == nil || *result[1].Age != 34 {
		t.Errorf("sibling age was not borrowed: %v", result[1].Age)
	}
	if result[0].Employment != "パート" {
		t.Errorf("borrowing should work in both directions: %q", result[0].Employment)
	}
	if result[2].Phone != "" {
		t.Errorf("unrelated record must not borrow anything: %q", result[2].Phone)
	}
	// 元のスライスは変更しない
	if records[1].Phone != "" {
		t.Error("input slice was mutated")
	}
}

// TestFillFromSiblingsKeepsExisting 既に値がある項目は上書きしない
func TestFillFromSiblingsKeepsExisting(t *testing.T) {
	records := []CandidateRecord{
		{ExternalID: "20206444", Name: "山田花子", Phone: "09011111111"},
		{ExternalID: "20301234", Name: "山田花子", Phone: "09022222222"},
	}
	result := FillFromSiblings(records)
	if result[0].Phone != "09011111111" || result[1].Phone != "09022222222" {
		t.Errorf("existing values were overwritten: %q / %q", result[0].Phone, result[1].Phone)
	}
}
