// Command qrgate-station runs a scan station: the scanner page, its API and
// any configured hardware or NATS scanner sources

package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"qrgate/internal/adapters/console"
	"qrgate/internal/adapters/scanner"
	"qrgate/internal/modkit"
	"qrgate/internal/modkit/module"
	"qrgate/internal/platform/bus"
	"qrgate/internal/platform/config"
	"qrgate/internal/platform/logger"
	phttp "qrgate/internal/platform/net/http"

	"qrgate/internal/services/api"
	"qrgate/internal/services/station/domain"
	stationmod "qrgate/internal/services/station/module"
)

func main() {
	l := logger.Get()

	// QRGATE_* and CORE_API_* from env, optionally overlaid on a TOML file
	root, err := config.Load(os.Getenv("QRGATE_CONFIG_FILE"))
	if err != nil {
		l.Fatal().Err(err).Msg("config load failed")
	}
	qc := root.Prefix("QRGATE_")
	apiCfg := root.Prefix("CORE_API_")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := modkit.Deps{Log: *l, Cfg: root}

	// optional NATS bus: event publishing and the remote scanner source
	var conn *bus.Conn
	if url := qc.MayString("NATS_URL", ""); url != "" {
		conn, err = bus.Connect(url)
		if err != nil {
			l.Fatal().Err(err).Msg("nats connect failed")
		}
		defer conn.Close()
		deps.Bus = conn
	}

	opts := stationmod.FromConfig(root)
	station := stationmod.NewWithOptions(deps, opts)

	// http server (reads CORE_API_ADDR / CORE_API_SHUTDOWN_GRACE)
	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.Options{
		Deps:           deps,
		Station:        station,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", false),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})

	sp, ok := module.PortsAs[stationmod.Ports]("station")
	if !ok {
		l.Fatal().Strs("modules", module.Names()).Msg("station ports not registered")
	}
	l.Debug().Strs("modules", module.Names()).Msg("modules mounted")

	var wg sync.WaitGroup
	spawn := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				l.Error().Err(err).Str("task", name).Msg("task stopped")
			}
		}()
	}

	spawn("station", sp.Runner.Run)

	if qc.MayBool("BANNER", true) {
		spawn("banner", console.New(os.Stderr, sp.Hub).Run)
	}

	lines := qc.MayEnum("LINES", "off", "off", "stdin")
	if lines == "stdin" {
		src := scanner.NewLineSource(os.Stdin, sp.Attacher.Attach(domain.KindLines, "stdin"),
			scanner.WithDebounce(opts.ScanSuccessDelay))
		spawn("lines", src.Run)
	}

	if conn != nil {
		subject := qc.MayString("NATS_DECODE_SUBJECT", bus.SubjectDecode)
		src := scanner.NewNATSSource(conn, subject, sp.Attacher.Attach(domain.KindNATS, subject))
		spawn("nats", src.Run)
	}

	// stdin belongs to the line source when it is enabled
	if lines == "off" && opts.RearmKey == stationmod.RearmKeySpace {
		keys := scanner.NewKeyTrigger(os.Stdin, sp.Attacher.Attach(domain.KindKey, "terminal"), stop)
		spawn("keys", keys.Run)
	}

	l.Info().
		Str("addr", srv.Addr()).
		Str("template", opts.Template).
		Str("opener", opts.Opener).
		Str("lines", lines).
		Bool("nats", conn != nil).
		Msg("station starting")

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
	stop()
	wg.Wait()
	l.Info().Msg("station stopped")
}
