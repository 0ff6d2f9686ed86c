package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ConsultantSheet 担当者別の案件シート1ファイル分。
// 担当者名は列ではなくファイル名が文脈になる(山田.xlsx → 山田)。
type ConsultantSheet struct {
	Owner string
	Path  string
	Rows  []RawRow
}

// ReadConsultantSheet .xlsxファイルの先頭シートを RawRow の列として読み込む。
// 1行目をヘッダとして扱い、CSVと同じ形に揃える。
// データ行のないシートは空の列を返す(エラーにしない)。
func ReadConsultantSheet(path string) (ConsultantSheet, error) {
	sheet := ConsultantSheet{
		Owner: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:  path,
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return sheet, fmt.Errorf("failed to open sheet file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return sheet, fmt.Errorf("no sheets found in %s", path)
	}

	all, err := f.GetRows(sheetName)
	if err != nil {
		return sheet, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(all) < 2 {
		return sheet, nil
	}

	header := make([]string, len(all[0]))
	for i, name := range all[0] {
		header[i] = strings.TrimSpace(name)
	}

	for _, cells := range all[1:] {
		if isEmptyRow(cells) {
			continue
		}
		row := make(RawRow, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(cells) {
				row[name] = strings.TrimSpace(cells[i])
			} else {
				row[name] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

// ReadSheetDir ディレクトリ直下の .xlsx を全件読み込む。
// Excelの編集中ロックファイル(~$始まり)は無視する。
// ファイル名順に読むので結果は決定的。
func ReadSheetDir(dir string) ([]ConsultantSheet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheets directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "~$") || !strings.EqualFold(filepath.Ext(name), ".xlsx") {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)

	sheets := make([]ConsultantSheet, 0, len(paths))
	for _, path := range paths {
		sheet, err := ReadConsultantSheet(path)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

// isEmptyRow 全セルが空白の行か
func isEmptyRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
