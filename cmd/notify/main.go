// The notify service owns the in-app notification inbox and fans
// domain events out to users, optionally pushing external channels
// through the message broker.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/orderhub/backend/internal/bootstrap"
	"go.uber.org/zap"
)

const (
	emailRetryInterval = time.Minute
	emailRetryBatch    = 50
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, bootstrap.Options{
		ServiceName:   "notify",
		NeedDatabase:  true,
		NeedRedis:     true,
		NeedMessaging: true,
	})
	if err != nil {
		return err
	}
	defer app.Shutdown(ctx)

	registrars, notifications, err := app.BuildNotify()
	if err != nil {
		return err
	}

	if err := app.Start(ctx); err != nil {
		return err
	}

	// Broker publishes can fail transiently; sweep pending email
	// notifications until they go through
	if app.Config.Messaging.Enabled {
		go func() {
			ticker := time.NewTicker(emailRetryInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					retried, err := notifications.RetryPendingEmail(ctx, emailRetryBatch)
					if err != nil {
						app.Logger.Warn("email retry sweep failed", zap.Error(err))
						continue
					}
					if retried > 0 {
						app.Logger.Info("retried pending email notifications", zap.Int("count", retried))
					}
				}
			}
		}()
	}

	r := app.NewRouter()
	r.Register(registrars...)

	return app.Serve(ctx, r.Engine(), app.Config.Services.ServicePort("notify"))
}
