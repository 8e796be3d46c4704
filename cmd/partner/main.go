// The partner service owns suppliers, the customer hierarchy and
// identity: login, token refresh, user administration.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/orderhub/backend/internal/bootstrap"
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
		ServiceName:  "partner",
		NeedDatabase: true,
		NeedRedis:    true,
	})
	if err != nil {
		return err
	}
	defer app.Shutdown(ctx)

	registrars, err := app.BuildPartner()
	if err != nil {
		return err
	}

	if err := app.Start(ctx); err != nil {
		return err
	}

	r := app.NewRouter()
	r.Register(registrars...)

	return app.Serve(ctx, r.Engine(), app.Config.Services.ServicePort("partner"))
}
