package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeTestSheet テスト用の.xlsxを作る
func writeTestSheet(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, cells := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

// TestReadConsultantSheet シートの読み込みとファイル名からの担当者解決を検証する
func TestReadConsultantSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "田中.xlsx")
	writeTestSheet(t, path, [][]any{
		{"ID", "氏名", "ステータス", "園名"},
		{"20206444", "山田花子", "面接確定", "さくら保育園"},
		{"", "", "", ""}, // 空行は飛ばす
		{"20206445", "鈴木一郎", "提案済", "ひまわり保育園"},
	})

	sheet, err := ReadConsultantSheet(path)
	if err != nil {
		t.Fatalf("ReadConsultantSheet failed: %v", err)
	}
	if sheet.Owner != "田中" {
		t.Errorf("Owner = %q, want 田中", sheet.Owner)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sheet.Rows))
	}
	if sheet.Rows[0]["氏名"] != "山田花子" || sheet.Rows[1]["園名"] != "ひまわり保育園" {
		t.Errorf("unexpected rows: %v", sheet.Rows)
	}
}

// TestReadConsultantSheetHeaderOnly ヘッダだけのシートは空として扱う
func TestReadConsultantSheetHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "佐藤.xlsx")
	writeTestSheet(t, path, [][]any{
		{"ID", "氏名", "ステータス", "園名"},
	})

	sheet, err := ReadConsultantSheet(path)
	if err != nil {
		t.Fatalf("ReadConsultantSheet failed: %v", err)
	}
	if len(sheet.Rows) != 0 {
		t.Errorf("expected no rows, got %d", len(sheet.Rows))
	}
}

// TestReadSheetDir ディレクトリ読み込みとロックファイルの除外を検証する
func TestReadSheetDir(t *testing.T) {
	dir := t.TempDir()
	writeTestSheet(t, filepath.Join(dir, "佐藤.xlsx"), [][]any{
		{"ID", "氏名"},
		{"20206445", "鈴木一郎"},
	})
	writeTestSheet(t, filepath.Join(dir, "田中.xlsx"), [][]any{
		{"ID", "氏名"},
		{"20206444", "山田花子"},
	})
	// Excelの編集中ロックファイルと無関係なファイルは無視される
	if err := os.WriteFile(filepath.Join(dir, "~$田中.xlsx"), []byte("junk"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "memo.txt"), []byte("junk"), 0644); err != nil {
		t.Fatal(err)
	}

	sheets, err := ReadSheetDir(dir)
	if err != nil {
		t.Fatalf("ReadSheetDir failed: %v", err)
	}
	if len(sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(sheets))
	}
	// ファイル名順
	if sheets[0].Owner != "佐藤" || sheets[1].Owner != "田中" {
		t.Errorf("unexpected order: %s, %s", sheets[0].Owner, sheets[1].Owner)
	}

	if _, err := ReadSheetDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}
