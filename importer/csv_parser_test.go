package importer

import (
	"os"
	"path/filepath"
	"testing"
)

// TestParseDelimitedBasic ヘッダ名で値が引けることを検証する
func TestParseDelimitedBasic(t *testing.T) {
	text := "ID,氏名,電話番号,ステータス,園名\n" +
		"20206444,山田花子,090-1234-5678,提案済,さくら保育園\n" +
		"20206445,鈴木一郎,080-1111-2222,面接確定,ひまわり保育園\n"

	rows, err := ParseDelimited(text, DefaultMinHeaderColumns)
	if err != nil {
		t.Fatalf("ParseDelimited failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["ID"] != "20206444" || rows[0]["園名"] != "さくら保育園" {
		t.Errorf("row 0 = %v", rows[0])
	}
	if rows[1]["氏名"] != "鈴木一郎" {
		t.Errorf("row 1 = %v", rows[1])
	}
}

// TestParseDelimitedQuoting 引用符付きフィールドの扱いを検証する
func TestParseDelimitedQuoting(t *testing.T) {
	text := "ID,氏名,電話番号,備考,園名\n" +
		`20206444,"山田, 花子",090-1234-5678,"備考に""引用""あり",さくら保育園` + "\n"

	rows, err := ParseDelimited(text, DefaultMinHeaderColumns)
	if err != nil {
		t.Fatalf("ParseDelimited failed: %v", err)
	}
	if rows[0]["氏名"] != "山田, 花子" {
		t.Errorf("quoted comma was split: %q", rows[0]["氏名"])
	}
	if rows[0]["備考"] != `備考に"引用"あり` {
		t.Errorf("escaped quotes mishandled: %q", rows[0]["備考"])
	}
}

// TestParseDelimitedShortRows ヘッダより短い行は空文字列で埋める
func TestParseDelimitedShortRows(t *testing.T) {
	text := "ID,氏名,電話番号,備考,園名\n" +
		"20206444,山田花子\n"

	rows, err := ParseDelimited(text, DefaultMinHeaderColumns)
	if err != nil {
		t.Fatalf("ParseDelimited failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0]["電話番号"] != "" || rows[0]["園名"] != "" {
		t.Errorf("missing trailing fields should default to empty: %v", rows[0])
	}
}

// TestParseDelimitedWrappedHeader 複数物理行に折り返されたヘッダを再構成する
func TestParseDelimitedWrappedHeader(t *testing.T) {
	text := "ID,氏名,電話\n" +
		"番号,備考,園名\n" +
		"20206444,山田花子,090-1234-5678,特になし,さくら保育園\n"

	rows, err := ParseDelimited(text, 5)
	if err != nil {
		t.Fatalf("ParseDelimited failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0]["電話番号"] != "090-1234-5678" {
		t.Errorf("wrapped header column missing: %v", rows[0])
	}
}

// TestParseDelimitedTrimsWhitespace ヘッダと値の前後空白を除去する
func TestParseDelimitedTrimsWhitespace(t *testing.T) {
	text := " ID , 氏名 , 電話番号 , 備考 , 園名 \n" +
		" 20206444 , 山田花子 , 090-1234-5678 , , \n"

	rows, err := ParseDelimited(text, DefaultMinHeaderColumns)
	if err != nil {
		t.Fatalf("ParseDelimited failed: %v", err)
	}
	if rows[0]["ID"] != "20206444" {
		t.Errorf("whitespace not trimmed: %v", rows[0])
	}
}

// TestParseDelimitedCRLF Windows改行のソースも読める
func TestParseDelimitedCRLF(t *testing.T) {
	text := "ID,氏名,電話番号,備考,園名\r\n20206444,山田花子,,,\r\n"
	rows, err := ParseDelimited(text, DefaultMinHeaderColumns)
	if err != nil {
		t.Fatalf("ParseDelimited failed: %v", err)
	}
	if len(rows) != 1 || rows[0]["氏名"] != "山田花子" {
		t.Errorf("CRLF source mishandled: %v", rows)
	}
}

// TestParseDelimitedEmpty 空の入力はエラー
func TestParseDelimitedEmpty(t *testing.T) {
	if _, err := ParseDelimited("", DefaultMinHeaderColumns); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := ParseDelimited("   \n", DefaultMinHeaderColumns); err == nil {
		t.Error("expected error for blank header")
	}
}

// TestParseFile ファイル経由の読み込みを検証する
func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.csv")
	text := "ID,氏名,電話番号,備考,園名\n20206444,山田花子,090-1234-5678,,さくら保育園\n"
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}

	rows, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(rows) != 1 || rows[0]["ID"] != "20206444" {
		t.Errorf("unexpected rows: %v", rows)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
