package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/common"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/config"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/pool"
	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"

	"go.uber.org/zap"
)

// raffle draws one random winner among paid tickets and prints it. The draw
// has no side effect; run it again for a re-draw.
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

	winner, err := pool.NewRaffle(db).DrawWinner(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNoEligibleTickets) {
			fmt.Println("No paid tickets to draw from.")
			return
		}
		zap.L().Fatal("Failed to draw winner", zap.Error(err))
	}

	common.PrintHeader("RAFFLE WINNER", common.DefaultWidth)
	fmt.Printf("Ticket:  %s\n", winner.Id)
	fmt.Printf("Holder:  %s\n", winner.UserName)
	fmt.Printf("Status:  %s\n", winner.Status)
	fmt.Printf("Bought:  %s\n", winner.CreatedAt.Format("2006-01-02 15:04:05"))
	common.PrintFooter("Draw complete", common.DefaultWidth)
}
