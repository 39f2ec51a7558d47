package config

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "socks5d.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	t.Setenv("ALL_PROXY", "")
	t.Setenv("all_proxy", "")

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.HandshakeTimeout != 10*time.Second {
		t.Fatalf("handshake timeout %s", cfg.HandshakeTimeout)
	}
	if cfg.Upstream != "direct://" {
		t.Fatalf("upstream %q", cfg.Upstream)
	}
}

func TestDefaultUpstreamFromEnv(t *testing.T) {
	t.Setenv("ALL_PROXY", "socks5://10.0.0.1:1080")

	if got := Default().Upstream; got != "socks5://10.0.0.1:1080" {
		t.Fatalf("upstream %q", got)
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
listen: 0.0.0.0:1080
dns_server: system
handshake_timeout: 3s
tcp_keepalive: "off"
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != "0.0.0.0:1080" || cfg.DNSServer != SystemResolver {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.HandshakeTimeout != 3*time.Second {
		t.Fatalf("handshake timeout %s", cfg.HandshakeTimeout)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("log %+v", cfg.Log)
	}
	// Unset keys keep their defaults.
	if cfg.DialTimeout != 10*time.Second {
		t.Fatalf("dial timeout %s", cfg.DialTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != Default().Listen {
		t.Fatalf("listen %q", cfg.Listen)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file loaded")
	}
	if _, err := Load(writeFile(t, "listen_address: :1080\n")); err == nil {
		t.Fatal("unknown key accepted")
	}
	if _, err := Load(writeFile(t, "handshake_timeout: soon\n")); err == nil {
		t.Fatal("bad duration accepted")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "empty listen", modify: func(c *Config) { c.Listen = "" }},
		{name: "empty dns server", modify: func(c *Config) { c.DNSServer = "" }},
		{name: "zero handshake timeout", modify: func(c *Config) { c.HandshakeTimeout = 0 }},
		{name: "negative dial timeout", modify: func(c *Config) { c.DialTimeout = -time.Second }},
		{name: "zero dns timeout", modify: func(c *Config) { c.DNSTimeout = 0 }},
		{name: "bad keepalive", modify: func(c *Config) { c.TCPKeepAlive = "sometimes" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("invalid config accepted")
			}
		})
	}
}

func TestParseTCPKeepAlive(t *testing.T) {
	tests := []struct {
		in      string
		want    net.KeepAliveConfig
		wantErr bool
	}{
		{in: "on", want: net.KeepAliveConfig{Enable: true}},
		{in: " OFF ", want: net.KeepAliveConfig{}},
		{in: "45:45:3", want: net.KeepAliveConfig{Enable: true, Idle: 45 * time.Second, Interval: 45 * time.Second, Count: 3}},
		{in: "", wantErr: true},
		{in: "1:2", wantErr: true},
		{in: "0:45:3", wantErr: true},
		{in: "45:x:3", wantErr: true},
		{in: "45:45:-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTCPKeepAlive(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("got %+v want %+v", got, tt.want)
			}
		})
	}
}
