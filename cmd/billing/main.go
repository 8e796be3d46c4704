// The billing service owns rate configurations, billing transactions
// and the settlement scheduler that cuts supplier statements.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/orderhub/backend/internal/bootstrap"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	app, err := bootstrap.New(ctx, bootstrap.Options{
		ServiceName:  "billing",
		NeedDatabase: true,
		NeedRedis:    true,
	})
	if err != nil {
		return err
	}
	defer app.Shutdown(ctx)

	registrars, settlements, err := app.BuildBilling()
	if err != nil {
		return err
	}

	if err := app.Start(ctx); err != nil {
		return err
	}

	if app.Config.Billing.SchedulerEnabled {
		if err := settlements.Start(ctx); err != nil {
			return fmt.Errorf("start settlement scheduler: %w", err)
		}
		defer func() {
			if err := settlements.Stop(ctx); err != nil {
				app.Logger.Warn("settlement scheduler stop failed", zap.Error(err))
			}
		}()
	}

	r := app.NewRouter()
	r.Register(registrars...)

	return app.Serve(ctx, r.Engine(), app.Config.Services.ServicePort("billing"))
}
