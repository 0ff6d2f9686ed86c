package importer

import (
	"fmt"
	"os"
	"strings"
)

// RawRow ソース1行分の 列名→生文字列 のマップ。
// パース直後から正規化までの間だけ生きる中間表現。
type RawRow map[string]string

// DefaultMinHeaderColumns ヘッダ行として成立する最小列数。
// これより短いヘッダは折返し(複数物理行にまたがったヘッダ)とみなす。
const DefaultMinHeaderColumns = 5

// ヘッダ再構成で連結する物理行数の上限
const maxHeaderJoinLines = 3

// ParseDelimited 改行区切りのCSVテキストを RawRow の列にパースする。
// 1行目をヘッダとして扱い、値は列名の完全一致で引けるようにする。
// 引用符付きフィールド(内部のカンマ、"" エスケープ)に対応し、
// ヘッダ・値とも前後の空白を除去する。ヘッダより短い行は空文字列で埋める。
//
// 表計算ソフトのエクスポートではヘッダが複数行に折り返されることがある。
// ヘッダの列数が minHeaderCols に満たない場合は後続の物理行を連結してから
// 再分割する。
func ParseDelimited(text string, minHeaderCols int) ([]RawRow, error) {
	if minHeaderCols <= 0 {
		minHeaderCols = DefaultMinHeaderColumns
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, fmt.Errorf("source is empty or has no header row")
	}

	headerText := lines[0]
	bodyStart := 1
	header := splitLine(headerText)
	for len(header) < minHeaderCols && bodyStart < len(lines) && bodyStart <= maxHeaderJoinLines {
		headerText += lines[bodyStart]
		bodyStart++
		header = splitLine(headerText)
	}
	if len(header) < minHeaderCols {
		return nil, fmt.Errorf("header row has %d columns, expected at least %d", len(header), minHeaderCols)
	}

	var rows []RawRow
	for _, line := range lines[bodyStart:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitLine(line)
		row := make(RawRow, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(fields) {
				row[name] = fields[i]
			} else {
				// 末尾の空フィールドが省略された行
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseFile CSVファイルを読み込んでパースする
func ParseFile(path string) ([]RawRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}
	return ParseDelimited(string(data), DefaultMinHeaderColumns)
}

// splitLine 1行をカンマで分割する。二重引用符は「引用中」状態を
// トグルし、引用中のカンマはフィールドの一部、引用中の "" は
// リテラルの " として扱う。各フィールドは前後の空白を除去する。
func splitLine(line string) []string {
	var fields []string
	var buf strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				buf.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(buf.String()))
			buf.Reset()
		default:
			buf.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(buf.String()))
	return fields
}
