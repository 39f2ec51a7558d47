// Package config holds the daemon settings, loaded from an optional YAML
// file and overridden by command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SystemResolver as DNSServer selects the operating system resolver.
const SystemResolver = "system"

type Config struct {
	Listen           string        `yaml:"listen"`
	DNSServer        string        `yaml:"dns_server"`
	DNSTimeout       time.Duration `yaml:"dns_timeout"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	DialTimeout      time.Duration `yaml:"dial_timeout"`
	Upstream         string        `yaml:"upstream"`
	TCPKeepAlive     string        `yaml:"tcp_keepalive"`
	DebugListen      string        `yaml:"debug_listen"`
	Verbose          bool          `yaml:"verbose"`
	Log              Log           `yaml:"log"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		Listen:           "127.0.0.1:8080",
		DNSServer:        "8.8.8.8:53",
		DNSTimeout:       5 * time.Second,
		HandshakeTimeout: 10 * time.Second,
		DialTimeout:      10 * time.Second,
		Upstream:         defaultUpstream(),
		TCPKeepAlive:     "45:45:3",
		Log:              Log{Level: "info", Format: "json"},
	}
}

// Load reads the YAML file at path over Default. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	if c.Listen == "" {
		return errors.New("listen address is empty")
	}
	if c.DNSServer == "" {
		return errors.New("dns server is empty")
	}
	for _, d := range []struct {
		name string
		v    time.Duration
	}{
		{"dns timeout", c.DNSTimeout},
		{"handshake timeout", c.HandshakeTimeout},
		{"dial timeout", c.DialTimeout},
	} {
		if d.v <= 0 {
			return fmt.Errorf("%s must be > 0, got %s", d.name, d.v)
		}
	}
	if _, err := ParseTCPKeepAlive(c.TCPKeepAlive); err != nil {
		return fmt.Errorf("tcp keepalive: %w", err)
	}
	return nil
}

func defaultUpstream() string {
	if p := os.Getenv("ALL_PROXY"); p != "" {
		return p
	}

	if p := os.Getenv("all_proxy"); p != "" {
		return p
	}

	return "direct://"
}
