package syncer

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Outcome 1件ごとの処理結果
type Outcome string

const (
	OutcomeInserted Outcome = "inserted"
	OutcomeUpdated  Outcome = "updated"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeErrored  Outcome = "errored"
)

// Entry レポートに載せる1件分の明細。
// 登録・更新(差分フィールドつき)・エラーのみ明細化し、スキップは件数だけ数える。
type Entry struct {
	ExternalID string   `json:"external_id"`
	Outcome    Outcome  `json:"outcome"`
	Fields     []string `json:"fields,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// RunReport 1回の同期実行の集計結果。実行の唯一の成果物で、
// 書き出した後は変更しない。変更ゼロの実行でも必ず生成する
// (「何もすることがなかった」と「レポート生成に失敗した」を区別するため)。
type RunReport struct {
	RunID      string    `json:"run_id"`
	Mode       string    `json:"mode"`
	DryRun     bool      `json:"dry_run"`
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Inserted   int `json:"inserted"`
	Updated    int `json:"updated"`
	Skipped    int `json:"skipped"`
	Mismatched int `json:"mismatched"`
	Errored    int `json:"errored"`
	Dropped    int `json:"dropped"` // 取り込み段階で捨てた行数

	Entries []Entry `json:"entries"`
}

// NewRunReport 実行開始時点のレポートを生成する
func NewRunReport(mode string, dryRun bool, source string) *RunReport {
	return &RunReport{
		RunID:     uuid.NewString(),
		Mode:      mode,
		DryRun:    dryRun,
		Source:    source,
		StartedAt: time.Now(),
		Entries:   []Entry{},
	}
}

// WriteFile レポートをJSONファイルとして書き出す
func (r *RunReport) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run report: %w", err)
	}
	return nil
}

// Summary コンソール出力用の1行サマリ
func (r *RunReport) Summary() string {
	return fmt.Sprintf("mode=%s dry_run=%v inserted=%d updated=%d skipped=%d mismatched=%d errored=%d dropped=%d",
		r.Mode, r.DryRun, r.Inserted, r.Updated, r.Skipped, r.Mismatched, r.Errored, r.Dropped)
}
