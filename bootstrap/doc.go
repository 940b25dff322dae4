// Package bootstrap runs the service lifecycle: apply and validate config,
// initialize logging, start registered components, run configure callbacks
// and hooks, block on a shutdown signal, then stop everything in reverse.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(asrComponent)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*AppConfig]) error {
//	    return a.RegisterComponent(httpServer)
//	})
//	err = app.Run(ctx)
package bootstrap
