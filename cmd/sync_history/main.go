package main

import (
	"flag"
	"fmt"
	"log"

	"crmsync/database"
)

func main() {
	var (
		dbPath = flag.String("db", "./sync_history.db", "Path to the sync history database")
		limit  = flag.Int("limit", 20, "Number of runs to show")
	)
	flag.Parse()

	db, err := database.NewHistoryDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open history database: %v", err)
	}
	defer db.Close()

	runs, err := db.RecentRuns(*limit)
	if err != nil {
		log.Fatalf("Failed to load run history: %v", err)
	}

	if len(runs) == 0 {
		fmt.Println("No sync runs recorded yet")
		return
	}

	fmt.Printf("%-36s  %-6s  %-7s  %-19s  %s\n", "RUN ID", "MODE", "DRY-RUN", "STARTED", "RESULT")
	for _, run := range runs {
		fmt.Printf("%-36s  %-6s  %-7v  %-19s  ins=%d upd=%d skip=%d err=%d drop=%d\n",
			run.RunID, run.Mode, run.DryRun,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Inserted, run.Updated, run.Skipped, run.Errored, run.Dropped)
	}
}
