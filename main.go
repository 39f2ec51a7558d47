package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // Intentionally exposed on debug port.
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/die-net/socks5d/internal/config"
	"github.com/die-net/socks5d/internal/dialer"
	"github.com/die-net/socks5d/internal/logging"
	"github.com/die-net/socks5d/internal/metrics"
	"github.com/die-net/socks5d/internal/proxy"
	"github.com/die-net/socks5d/internal/resolver"
	"github.com/die-net/socks5d/internal/socks5"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Default()

	pflag.StringVar(&cfg.Listen, "socks5-listen", cfg.Listen, "SOCKS5 proxy listen address. A positional argument overrides it.")
	pflag.StringVar(&cfg.DNSServer, "dns-server", cfg.DNSServer, "DNS server (host:port) for domain requests, or 'system' for the OS resolver")
	pflag.DurationVar(&cfg.DNSTimeout, "dns-timeout", cfg.DNSTimeout, "Timeout for a single DNS exchange")
	pflag.DurationVar(&cfg.HandshakeTimeout, "handshake-timeout", cfg.HandshakeTimeout, "Timeout for the whole SOCKS5 handshake, including lookup and connect")
	pflag.DurationVar(&cfg.DialTimeout, "dial-timeout", cfg.DialTimeout, "Timeout for outbound TCP connect")
	pflag.StringVar(&cfg.Upstream, "upstream", cfg.Upstream, "Upstream forwarding target URL: direct:// | socks5://host:port")
	pflag.StringVar(&cfg.TCPKeepAlive, "tcp-keepalive", cfg.TCPKeepAlive, "TCP keepalive: on|off|keepidle:keepintvl:keepcnt")
	pflag.StringVar(&cfg.DebugListen, "debug-listen", cfg.DebugListen, "Debug HTTP listen address exposing /debug/pprof and /metrics (e.g. 127.0.0.1:6060). Empty disables.")
	pflag.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level: debug|info|warn|error")
	pflag.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "Log format: json|console")
	pflag.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Log failed sessions at info level")
	configPath := pflag.String("config", "", "YAML config file. Flags given on the command line override it.")

	pflag.CommandLine.SortFlags = false
	pflag.Parse()

	if *configPath != "" {
		if err := applyConfigFile(pflag.CommandLine, &cfg, *configPath); err != nil {
			return fmt.Errorf("invalid --config: %w", err)
		}
	}
	switch pflag.NArg() {
	case 0:
	case 1:
		cfg.Listen = pflag.Arg(0)
	default:
		return errors.New("at most one positional argument (listen address) is accepted")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	ka, err := config.ParseTCPKeepAlive(cfg.TCPKeepAlive)
	if err != nil {
		return fmt.Errorf("invalid --tcp-keepalive: %w", err)
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	m := metrics.New()
	pcfg := proxy.Config{
		HandshakeTimeout: cfg.HandshakeTimeout,
		Resolver:         newResolver(cfg),
		Observer:         m,
	}

	pcfg.Dialer, err = dialer.New(dialer.Config{DialTimeout: cfg.DialTimeout, KeepAlive: ka}, cfg.Upstream)
	if err != nil {
		return fmt.Errorf("invalid --upstream: %w", err)
	}

	g, ctx := errgroup.WithContext(context.Background())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DebugListen != "" {
		http.Handle("/metrics", m.Handler())
		debugSrv := &http.Server{Handler: http.DefaultServeMux} //nolint:gosec // Not concerned about timeouts on debug port.
		lc := net.ListenConfig{KeepAliveConfig: ka}
		debugLn, err := lc.Listen(ctx, "tcp", cfg.DebugListen)
		if err != nil {
			return fmt.Errorf("debug listen: %w", err)
		}
		context.AfterFunc(ctx, func() {
			_ = debugSrv.Close()
			_ = debugLn.Close()
		})

		g.Go(func() error {
			if err := debugSrv.Serve(debugLn); err != nil {
				return fmt.Errorf("debug serve: %w", err)
			}
			return nil
		})
		log.Info("debug listening", zap.String("addr", cfg.DebugListen))
	}

	ln, err := proxy.ListenTCP(ctx, "tcp", cfg.Listen, ka)
	if err != nil {
		return fmt.Errorf("socks5 listen: %w", err)
	}
	s5 := proxy.NewSOCKS5Server(ctx, pcfg, log, cfg.Verbose)
	context.AfterFunc(ctx, func() {
		_ = ln.Close()
	})

	g.Go(func() error {
		if err := s5.Serve(ln); err != nil {
			return fmt.Errorf("socks5 serve: %w", err)
		}
		return nil
	})
	log.Info("socks5 proxy listening",
		zap.Stringer("addr", ln.Addr()),
		zap.String("dns_server", cfg.DNSServer),
		zap.String("upstream", cfg.Upstream),
		zap.Duration("handshake_timeout", cfg.HandshakeTimeout),
	)

	err = g.Wait()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}

	log.Info("shutting down")
	return err
}

// applyConfigFile replaces cfg with the file at path, then re-applies every
// flag set on the command line. The flags are bound to fields of cfg.
func applyConfigFile(fs *pflag.FlagSet, cfg *config.Config, path string) error {
	fileCfg, err := config.Load(path)
	if err != nil {
		return err
	}

	set := map[string]string{}
	fs.Visit(func(f *pflag.Flag) {
		set[f.Name] = f.Value.String()
	})

	*cfg = fileCfg
	for name, v := range set {
		if err := fs.Set(name, v); err != nil {
			return fmt.Errorf("--%s: %w", name, err)
		}
	}
	return nil
}

func newResolver(cfg config.Config) socks5.Resolver {
	if cfg.DNSServer == config.SystemResolver {
		return resolver.New(resolver.System{})
	}
	return resolver.New(resolver.NewDNSClient(cfg.DNSServer, cfg.DNSTimeout))
}
