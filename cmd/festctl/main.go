// Command festctl queries the festival dataset from the terminal: filter,
// rank, browse by season, chat, inspect data quality, and export workbooks.
//
// Usage:
//
//	go run ./cmd/festctl filter --month 10 --region 서울특별시
//	go run ./cmd/festctl ranking --limit 5
//	go run ./cmd/festctl export --out festivals.xlsx
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
