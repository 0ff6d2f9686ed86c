package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"

	"crmsync/database"
	"crmsync/importer"
	"crmsync/internal/config"
	"crmsync/normalization"
	"crmsync/store"
	"crmsync/syncer"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to JSON config file (optional)")
		filePath   = flag.String("file", "", "Path to the candidate roster CSV (default from config)")
		sheetsDir  = flag.String("sheets-dir", "", "Directory of per-consultant .xlsx sheets (optional)")
		modeFlag   = flag.String("mode", "insert", "Sync mode: insert, update or fill")
		dryRun     = flag.Bool("dry-run", false, "Compute and report all decisions without mutating the store")
		reportPath = flag.String("report", "", "Path for the JSON run report (default under report_dir)")
		verbose    = flag.Bool("verbose", false, "Verbose output")
	)
	flag.Parse()

	mode, err := syncer.ParseMode(*modeFlag)
	if err != nil {
		log.Fatalf("Invalid mode: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *filePath != "" {
		cfg.SourcePath = *filePath
	}
	if *sheetsDir != "" {
		cfg.SheetsDir = *sheetsDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// ソースの存在確認は一番先に済ませる(1行も処理する前に落とす)
	if _, err := os.Stat(cfg.SourcePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Fatalf("Source file not found: %s", cfg.SourcePath)
		}
		log.Fatalf("Error checking source file %s: %v", cfg.SourcePath, err)
	}

	apiStore, err := store.NewAPIStore(store.APIStoreConfig{
		BaseURL:   cfg.APIBaseURL,
		Token:     cfg.APIToken,
		Timeout:   cfg.RequestTimeout,
		RateLimit: rate.Limit(cfg.RateLimitPerSec),
	})
	if err != nil {
		log.Fatalf("Failed to create store client: %v", err)
	}

	ctx := context.Background()

	consultants, err := apiStore.FetchConsultants(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch consultant roster: %v", err)
	}
	roster := make(normalization.OwnerIndex, len(consultants))
	for _, c := range consultants {
		roster[c.Name] = c.ID
	}
	if *verbose {
		log.Printf("Loaded %d consultants", len(consultants))
	}

	records, dropped, err := loadSources(cfg, roster, *verbose)
	if err != nil {
		log.Fatalf("Failed to load sources: %v", err)
	}
	if *verbose {
		log.Printf("Canonicalized %d records (%d rows dropped)", len(records), dropped)
	}

	executor, err := syncer.NewExecutor(syncer.ExecutorConfig{
		Store:    apiStore,
		Mode:     mode,
		DryRun:   *dryRun,
		PageSize: cfg.PageSize,
		Source:   cfg.SourcePath,
		Dropped:  dropped,
	})
	if err != nil {
		log.Fatalf("Failed to create executor: %v", err)
	}

	report, err := executor.Run(ctx, records)
	if err != nil {
		// スナップショットが読めない場合など。変更は1件も発行されていない
		log.Fatalf("Sync aborted: %v", err)
	}

	outPath := *reportPath
	if outPath == "" {
		if err := os.MkdirAll(cfg.ReportDir, 0755); err != nil {
			log.Fatalf("Failed to create report directory: %v", err)
		}
		outPath = filepath.Join(cfg.ReportDir, "sync_report_"+report.RunID+".json")
	}
	if err := report.WriteFile(outPath); err != nil {
		log.Fatalf("Failed to write run report: %v", err)
	}

	saveHistory(cfg.HistoryDBPath, report, outPath)

	fmt.Printf("\n=== Sync Results ===\n")
	fmt.Printf("Run ID:     %s\n", report.RunID)
	fmt.Printf("Mode:       %s (dry-run: %v)\n", report.Mode, report.DryRun)
	fmt.Printf("Inserted:   %d\n", report.Inserted)
	fmt.Printf("Updated:    %d\n", report.Updated)
	fmt.Printf("Skipped:    %d\n", report.Skipped)
	fmt.Printf("Mismatched: %d\n", report.Mismatched)
	fmt.Printf("Errored:    %d\n", report.Errored)
	fmt.Printf("Dropped:    %d\n", report.Dropped)
	fmt.Printf("Report:     %s\n", outPath)

	if report.Errored > 0 {
		// 行単位の失敗は致命的ではない。サマリを出して正常終了する
		fmt.Printf("\nWarning: %d records failed, see report for details\n", report.Errored)
	}
}

// loadSources 名簿CSVと担当者別シートを読み込んで正規化する。
// 戻り値は正規化済みレコードと、取り込み対象外として捨てた行数。
func loadSources(cfg *config.Config, roster normalization.OwnerIndex, verbose bool) ([]normalization.CandidateRecord, int, error) {
	var records []normalization.CandidateRecord
	dropped := 0

	rows, err := importer.ParseFile(cfg.SourcePath)
	if err != nil {
		return nil, 0, err
	}
	if verbose {
		log.Printf("Parsed %d rows from %s", len(rows), cfg.SourcePath)
	}
	for _, row := range rows {
		rec, ok := normalization.Canonicalize(row, "", roster, cfg.ReferenceYear)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	if cfg.SheetsDir != "" {
		sheets, err := importer.ReadSheetDir(cfg.SheetsDir)
		if err != nil {
			return nil, 0, err
		}
		for _, sheet := range sheets {
			if verbose {
				log.Printf("Parsed %d rows from %s (owner: %s)", len(sheet.Rows), sheet.Path, sheet.Owner)
			}
			for _, row := range sheet.Rows {
				rec, ok := normalization.Canonicalize(row, sheet.Owner, roster, cfg.ReferenceYear)
				if !ok {
					dropped++
					continue
				}
				records = append(records, rec)
			}
		}
	}

	return records, dropped, nil
}

// saveHistory 実行サマリを履歴DBに残す。失敗しても同期自体は成功扱い
func saveHistory(dbPath string, report *syncer.RunReport, reportPath string) {
	db, err := database.NewHistoryDB(dbPath)
	if err != nil {
		log.Printf("Warning: failed to open history database: %v", err)
		return
	}
	defer db.Close()

	err = db.SaveRun(database.RunSummary{
		RunID:      report.RunID,
		Mode:       report.Mode,
		DryRun:     report.DryRun,
		Source:     report.Source,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Inserted:   report.Inserted,
		Updated:    report.Updated,
		Skipped:    report.Skipped,
		Mismatched: report.Mismatched,
		Errored:    report.Errored,
		Dropped:    report.Dropped,
		ReportPath: reportPath,
	})
	if err != nil {
		log.Printf("Warning: failed to save run history: %v", err)
	}
}
