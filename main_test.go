package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/die-net/socks5d/internal/config"
)

func TestApplyConfigFileFlagsWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "socks5d.yaml")
	content := "listen: 0.0.0.0:1080\nhandshake_timeout: 3s\nverbose: true\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringVar(&cfg.Listen, "socks5-listen", cfg.Listen, "")
	fs.DurationVar(&cfg.HandshakeTimeout, "handshake-timeout", cfg.HandshakeTimeout, "")
	fs.StringVar(&cfg.DNSServer, "dns-server", cfg.DNSServer, "")
	if err := fs.Parse([]string{"--handshake-timeout=2s", "--dns-server=system"}); err != nil {
		t.Fatal(err)
	}

	if err := applyConfigFile(fs, &cfg, path); err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != "0.0.0.0:1080" || !cfg.Verbose {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.HandshakeTimeout != 2*time.Second || cfg.DNSServer != config.SystemResolver {
		t.Fatalf("flag values not kept: %+v", cfg)
	}
}
