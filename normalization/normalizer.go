package normalization

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/width"
)

// 電話番号/日付/金額/年齢の正規化関数群。
// すべて純粋関数で、パースできない入力は空文字列または not ok を返す。
// エラーは返さない(元データは人手管理のスプレッドシートで、欠損や表記揺れが前提)。

var (
	reNonDigit   = regexp.MustCompile(`[^0-9]`)
	reISODate    = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	reSlashDate  = regexp.MustCompile(`^(\d{4})[/.](\d{1,2})[/.](\d{1,2})$`)
	reMonthDay   = regexp.MustCompile(`^(\d{1,2})[/.](\d{1,2})$`)
	reCentsZeros = regexp.MustCompile(`\.00$`)
)

// 先頭の0が落ちた10桁携帯番号を判定する接頭辞(070/080/090)
var mobilePrefixes = []string{"70", "80", "90"}

// Excelシリアル値の基準日(1900年システム)
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// シリアル値として日付扱いする範囲。10000=1927年、80000=2119年
const (
	serialDateMin = 10000
	serialDateMax = 80000
)

// 最後の手段として試す日付レイアウト
var fallbackDateLayouts = []string{
	"2006年1月2日",
	"20060102",
	"2006-01-02T15:04:05Z07:00",
}

// foldWidth 全角英数字・記号・空白を半角に揃える
func foldWidth(s string) string {
	return width.Fold.String(s)
}

// NormalizePhone 電話番号を数字のみの正規形に変換する。
// 表計算ソフトの自動書式で先頭の0が落ちた携帯番号
// (070/080/090始まりの10桁)は0を補う。未入力は空文字列。
func NormalizePhone(text string) string {
	digits := reNonDigit.ReplaceAllString(foldWidth(text), "")
	if digits == "" {
		return ""
	}
	if len(digits) == 10 {
		for _, prefix := range mobilePrefixes {
			if strings.HasPrefix(digits, prefix) {
				return "0" + digits
			}
		}
	}
	return digits
}

// NormalizeDate 日付文字列を YYYY-MM-DD に正規化する。
// 優先順: 正規形 / YYYY/M/D・YYYY.M.D / 年なしの M/D (refYear で補完) /
// Excelシリアル値 / 汎用レイアウト。パースできなければ空文字列。
//
// 年なし M/D の基準年は文脈から推測せず、呼び出し側が refYear で明示する。
func NormalizeDate(text string, refYear int) string {
	t := strings.TrimSpace(foldWidth(text))
	if t == "" {
		return ""
	}

	if m := reISODate.FindStringSubmatch(t); m != nil {
		return formatDateParts(m[1], m[2], m[3])
	}
	if m := reSlashDate.FindStringSubmatch(t); m != nil {
		return formatDateParts(m[1], m[2], m[3])
	}
	if m := reMonthDay.FindStringSubmatch(t); m != nil {
		return formatDateParts(strconv.Itoa(refYear), m[1], m[2])
	}

	if serial, err := strconv.Atoi(t); err == nil {
		if serial >= serialDateMin && serial < serialDateMax {
			return excelEpoch.AddDate(0, 0, serial).Format("2006-01-02")
		}
		return ""
	}

	for _, layout := range fallbackDateLayouts {
		if parsed, err := time.Parse(layout, t); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return ""
}

// formatDateParts 年月日の文字列を検証してゼロ埋めの YYYY-MM-DD にする。
// 13月や40日のような実在しない日付は空文字列。
func formatDateParts(year, month, day string) string {
	y, err := strconv.Atoi(year)
	if err != nil {
		return ""
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return ""
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return ""
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return ""
	}
	date := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date は 4/31 を 5/1 に繰り上げるため、往復で一致するか確認する
	if date.Year() != y || date.Month() != time.Month(m) || date.Day() != d {
		return ""
	}
	return date.Format("2006-01-02")
}

// NormalizeAmount 金額表記を整数(円)に正規化する。
// 「.00」で終わる表記は100倍で保存された会計データの名残なので100で割る。
// 数字を含まない入力は not ok。
func NormalizeAmount(text string) (int, bool) {
	t := strings.TrimSpace(foldWidth(text))
	if t == "" {
		return 0, false
	}
	storedTimes100 := reCentsZeros.MatchString(t)

	digits := reNonDigit.ReplaceAllString(t, "")
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	if storedTimes100 {
		n = (n + 50) / 100
	}
	return n, true
}

// 年齢不明を表す番兵値。元システムが「不明」をこの値で保存している
const (
	ageSentinelUnknown1 = 125
	ageSentinelUnknown2 = 126
)

// NormalizeAge 年齢を整数に正規化する。番兵値(125/126)と
// 0以下・120以上は不明扱いで not ok。
func NormalizeAge(text string) (int, bool) {
	t := strings.TrimSpace(foldWidth(text))
	if t == "" {
		return 0, false
	}
	n, err := strconv.Atoi(t)
	if err != nil {
		return 0, false
	}
	if n == ageSentinelUnknown1 || n == ageSentinelUnknown2 {
		return 0, false
	}
	if n <= 0 || n >= 120 {
		return 0, false
	}
	return n, true
}

// normalizeName 氏名・園名などの表示名を比較用に正規化する。
// 全角英数字を半角に揃え、連続する空白(全角含む)を1つにする。
func normalizeName(s string) string {
	return strings.Join(strings.Fields(foldWidth(s)), " ")
}

// normalizeEmail メールアドレスを小文字・前後空白なしに揃える
func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(foldWidth(s)))
}

// normalizeText 汎用のテキスト欄を前後空白なしに揃える
func normalizeText(s string) string {
	return strings.TrimSpace(s)
}
