package main

import (
	"context"
	"fmt"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/common"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/config"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/pool"

	"go.uber.org/zap"
)

// settlement prints the current settlement report: per-bookie volumes,
// commission and amount due, plus direct sales and the grand total.
func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	ctx := context.Background()

	db, err := common.InitializeDatabase(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	report, err := pool.NewSettlement(db).Report(ctx)
	if err != nil {
		zap.L().Fatal("Failed to compute settlement", zap.Error(err))
	}

	common.PrintHeader("SETTLEMENT REPORT", common.DefaultWidth)

	if len(report.Bookies) == 0 {
		fmt.Println("No bookies registered.")
	}
	for _, line := range report.Bookies {
		fmt.Printf("%-28s tickets: %12s  deposits: %12s  commission: %12s  due: %12s\n",
			line.BookieName,
			line.TicketVolume.StringFixed(2),
			line.DepositVolume.StringFixed(2),
			line.Commission.StringFixed(2),
			line.AmountDue.StringFixed(2))
	}

	common.PrintSeparator("-", common.DefaultWidth)
	fmt.Printf("Direct sales volume: %s\n", report.DirectVolume.StringFixed(2))

	common.PrintFooter(
		fmt.Sprintf("TOTAL DUE TO ADMIN: %s", report.TotalDue.StringFixed(2)),
		common.DefaultWidth)
}
