package cmd

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/etnz/harvest/api"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// Version is reported by the API.
var Version = "dev"

type serveCmd struct {
	addr    string
	origins string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the workflows as a JSON API" }
func (*serveCmd) Usage() string {
	return `tlh serve [-addr <host:port>] [-origins <list>]

  Serves the workflows over HTTP. Every request posts a JSONL snapshot, the
  configuration is read once at startup. See 'tlh topic readme'.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "localhost:8080", "address to listen on")
	f.StringVar(&c.origins, "origins", "", "comma separated list of allowed CORS origins")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	setupLogger()
	cfg, err := loadConfig()
	if err != nil {
		return reportError("loading configuration", err)
	}

	var origins []string
	for _, o := range strings.Split(c.origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	srv := api.New(api.Config{
		Addr:           c.addr,
		AllowedOrigins: origins,
		Harvest:        cfg,
		Log:            log.Logger,
		Version:        Version,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", c.addr).Msg("server listening")
		errc <- srv.Start()
	}()

	select {
	case err := <-errc:
		if err != nil {
			return reportError("serving", err)
		}
		return subcommands.ExitSuccess
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return reportError("shutting down", err)
	}
	return subcommands.ExitSuccess
}
