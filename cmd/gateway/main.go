// The gateway is the single public entrypoint. It validates tokens at
// the edge and proxies each request to the owning service.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/orderhub/backend/internal/bootstrap"
	"github.com/orderhub/backend/internal/gateway"
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
		ServiceName: "gateway",
		NeedRedis:   true,
	})
	if err != nil {
		return err
	}
	defer app.Shutdown(ctx)

	gw, err := gateway.New(app.Config.Services, app.Logger)
	if err != nil {
		return fmt.Errorf("build gateway: %w", err)
	}

	r := app.NewRouter()
	gw.RegisterRoutes(r.Engine())

	return app.Serve(ctx, r.Engine(), app.Config.Services.ServicePort("gateway"))
}
