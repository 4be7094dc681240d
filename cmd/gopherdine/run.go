package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

func run(ctx context.Context, app *fx.App) {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start application: %v\n", err)
		os.Exit(1)
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop application: %v\n", err)
		os.Exit(1)
	}
}
