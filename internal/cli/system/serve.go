package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/habitstreak/internal/api"
	"github.com/julianstephens/habitstreak/internal/cli"
	"github.com/julianstephens/habitstreak/internal/logger"
)

type ServeCmd struct {
	Addr string `help:"Listen address. Overrides server.addr from the config file."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Config.Server
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := api.NewRouter(api.NewHabitController(ctx.Service), ctx.Store, ctx.Config.Logging.Debug)
	logger.Info("Serving habits", "storage", ctx.Store.GetConfigPath(), "timezone", ctx.Config.Timezone)
	return api.NewServer(router, cfg).Run(sigCtx)
}
