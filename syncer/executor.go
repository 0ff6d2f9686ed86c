package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"crmsync/normalization"
	"crmsync/store"
)

// Mode 同期ポリシー。1回の実行で1つだけ選ぶ
type Mode int

const (
	// ModeInsertOnly スナップショットに無いIDだけ登録する。既存は触らない。
	// 初回一括投入に使う唯一のモードで、再実行しても登録0件になること(冪等)。
	ModeInsertOnly Mode = iota
	// ModeDiffUpdate 既存レコードと差分があるものだけ全項目更新する
	ModeDiffUpdate
	// ModeForceFill 既存レコードの固定項目(連絡先・勤務形態・年齢・フェーズ)を
	// ソース値で強制的に埋め直す。過去の欠損レコードの修復用で、
	// 空値での上書きを唯一許すモード。明示的なフラグ指定時のみ。
	ModeForceFill
)

func (m Mode) String() string {
	switch m {
	case ModeInsertOnly:
		return "insert"
	case ModeDiffUpdate:
		return "update"
	case ModeForceFill:
		return "fill"
	}
	return "unknown"
}

// ParseMode コマンドラインのモード指定を解釈する
func ParseMode(s string) (Mode, error) {
	switch s {
	case "insert":
		return ModeInsertOnly, nil
	case "update":
		return ModeDiffUpdate, nil
	case "fill":
		return ModeForceFill, nil
	}
	return 0, fmt.Errorf("unknown sync mode %q (want insert, update or fill)", s)
}

// Mutator 変更系呼び出しの注入ポイント。
// dry-run は判断ロジックの分岐ではなく、ここを no-op 実装に
// 差し替えることで実現する(判断は本番と完全に同一になる)。
type Mutator interface {
	Insert(ctx context.Context, rec normalization.CandidateRecord) error
	Update(ctx context.Context, externalID string, rec normalization.CandidateRecord) error
}

// storeMutator 本番用。ストアにそのまま委譲する
type storeMutator struct {
	store store.CandidateStore
}

func (m storeMutator) Insert(ctx context.Context, rec normalization.CandidateRecord) error {
	return m.store.Insert(ctx, rec)
}

func (m storeMutator) Update(ctx context.Context, externalID string, rec normalization.CandidateRecord) error {
	return m.store.Update(ctx, externalID, rec)
}

// noopMutator dry-run用。何もしない
type noopMutator struct{}

func (noopMutator) Insert(context.Context, normalization.CandidateRecord) error { return nil }
func (noopMutator) Update(context.Context, string, normalization.CandidateRecord) error {
	return nil
}

// Executor 同期実行の本体。スナップショット取得→重複排除→
// 1件ずつポリシー適用、の順で1パス処理する。
type Executor struct {
	store    store.CandidateStore
	mutator  Mutator
	mode     Mode
	dryRun   bool
	pageSize int
	source   string
	dropped  int
	logger   *slog.Logger
}

// ExecutorConfig Executorの設定
type ExecutorConfig struct {
	Store    store.CandidateStore
	Mode     Mode
	DryRun   bool
	PageSize int
	Source   string // レポートに記録するソースの表記
	Dropped  int    // 取り込み段階で捨てた行数(レポートに引き継ぐ)
	Logger   *slog.Logger
}

// NewExecutor 新しいExecutorを生成する。Storeは必須。
func NewExecutor(config ExecutorConfig) (*Executor, error) {
	if config.Store == nil {
		return nil, fmt.Errorf("syncer: store is required")
	}
	if config.PageSize <= 0 {
		config.PageSize = 100
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	var mutator Mutator = storeMutator{store: config.Store}
	if config.DryRun {
		mutator = noopMutator{}
	}

	return &Executor{
		store:    config.Store,
		mutator:  mutator,
		mode:     config.Mode,
		dryRun:   config.DryRun,
		pageSize: config.PageSize,
		source:   config.Source,
		dropped:  config.Dropped,
		logger:   config.Logger,
	}, nil
}

// Run 同期を実行してレポートを返す。
// スナップショット取得の失敗は致命的で、変更を1件も発行せずに中断する
// (不完全なスナップショットでは既存IDを新規と誤判定しうる)。
// 個々のレコードの変更失敗はレポートに記録して処理を続ける。
func (e *Executor) Run(ctx context.Context, records []normalization.CandidateRecord) (*RunReport, error) {
	report := NewRunReport(e.mode.String(), e.dryRun, e.source)
	report.Dropped = e.dropped

	snapshot, err := e.fetchSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot fetch failed: %w", err)
	}
	e.logger.Info("snapshot loaded", "records", len(snapshot))

	records = normalization.DeduplicateByID(records)
	if e.mode == ModeForceFill {
		records = normalization.FillFromSiblings(records)
	}

	for _, rec := range records {
		e.processRecord(ctx, rec, snapshot, report)
	}

	report.FinishedAt = time.Now()
	return report, nil
}

// fetchSnapshot ストアの全件をページ送りで読み切る。
// 比較はスナップショットが完全に揃ってから始めるため、ここで全ページ蓄積する。
func (e *Executor) fetchSnapshot(ctx context.Context) (map[string]normalization.StoredCandidate, error) {
	snapshot := make(map[string]normalization.StoredCandidate)
	for offset := 0; ; offset += e.pageSize {
		page, err := e.store.FetchPage(ctx, offset, e.pageSize)
		if err != nil {
			return nil, err
		}
		for _, stored := range page {
			snapshot[stored.ExternalID] = stored
		}
		if len(page) < e.pageSize {
			return snapshot, nil
		}
	}
}

// processRecord 1件にポリシーを適用する
func (e *Executor) processRecord(ctx context.Context, rec normalization.CandidateRecord, snapshot map[string]normalization.StoredCandidate, report *RunReport) {
	stored, exists := snapshot[rec.ExternalID]

	switch e.mode {
	case ModeInsertOnly:
		if exists {
			report.Skipped++
			return
		}
		if err := e.mutator.Insert(ctx, rec); err != nil {
			e.recordError(report, rec.ExternalID, err)
			return
		}
		report.Inserted++
		report.Entries = append(report.Entries, Entry{ExternalID: rec.ExternalID, Outcome: OutcomeInserted})

	case ModeDiffUpdate:
		if !exists {
			// このモードは既存レコードの追従だけが目的
			report.Skipped++
			return
		}
		fields := normalization.DiffFields(rec, stored)
		if len(fields) == 0 {
			report.Skipped++
			return
		}
		report.Mismatched++
		if err := e.mutator.Update(ctx, rec.ExternalID, rec); err != nil {
			e.recordError(report, rec.ExternalID, err)
			return
		}
		report.Updated++
		report.Entries = append(report.Entries, Entry{ExternalID: rec.ExternalID, Outcome: OutcomeUpdated, Fields: fields})

	case ModeForceFill:
		if !exists {
			report.Skipped++
			return
		}
		payload, fields := forceFillPayload(rec, stored)
		if len(fields) == 0 {
			report.Skipped++
			return
		}
		report.Mismatched++
		if err := e.mutator.Update(ctx, rec.ExternalID, payload); err != nil {
			e.recordError(report, rec.ExternalID, err)
			return
		}
		report.Updated++
		report.Entries = append(report.Entries, Entry{ExternalID: rec.ExternalID, Outcome: OutcomeUpdated, Fields: fields})
	}
}

// recordError 1件分の失敗をレポートに残して処理を続ける(部分失敗の隔離)
func (e *Executor) recordError(report *RunReport, externalID string, err error) {
	e.logger.Warn("mutation failed", "external_id", externalID, "error", err)
	report.Errored++
	report.Entries = append(report.Entries, Entry{
		ExternalID: externalID,
		Outcome:    OutcomeErrored,
		Error:      err.Error(),
	})
}

// forceFillPayload ストア側レコードを土台に、強制上書き対象の固定項目
// (電話番号・メールアドレス・希望勤務形態・年齢・フェーズ)だけを
// ソース値で置き換えた更新ペイロードを作る。欠損レコード修復用の
// モードなので、空値での上書きも許す。実際に値が変わる項目名も返す。
func forceFillPayload(rec normalization.CandidateRecord, stored normalization.StoredCandidate) (normalization.CandidateRecord, []string) {
	payload := recordFromStored(stored)
	var fields []string

	if payload.Phone != rec.Phone {
		payload.Phone = rec.Phone
		fields = append(fields, normalization.FieldPhone)
	}
	if payload.Email != rec.Email {
		payload.Email = rec.Email
		fields = append(fields, normalization.FieldEmail)
	}
	if payload.Employment != rec.Employment {
		payload.Employment = rec.Employment
		fields = append(fields, normalization.FieldEmployment)
	}
	if !equalAge(payload.Age, rec.Age) {
		payload.Age = copyInt(rec.Age)
		fields = append(fields, normalization.FieldAge)
	}
	if payload.Phase != rec.Phase {
		payload.Phase = rec.Phase
		fields = append(fields, "phase")
	}

	return payload, fields
}

// recordFromStored ストア側レコードを更新ペイロードの形に写す
func recordFromStored(stored normalization.StoredCandidate) normalization.CandidateRecord {
	return normalization.CandidateRecord{
		ExternalID:    stored.ExternalID,
		Name:          stored.Name,
		Phone:         stored.Phone,
		Email:         stored.Email,
		BirthDate:     stored.BirthDate,
		Age:           copyInt(stored.Age),
		Prefecture:    stored.Prefecture,
		City:          stored.City,
		Employment:    stored.Employment,
		JobType:       stored.JobType,
		Qualification: stored.Qualification,
		Salary:        copyInt(stored.Salary),
		Memo:          stored.Memo,
		Phase:         stored.Phase,
		Probability:   stored.Probability,
		ClientName:    stored.ClientName,
		OwnerID:       stored.OwnerID,
	}
}

func equalAge(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
