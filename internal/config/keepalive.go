package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// ParseTCPKeepAlive parses on, off or keepidle:keepintvl:keepcnt, with the
// first two in seconds.
func ParseTCPKeepAlive(s string) (net.KeepAliveConfig, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "":
		return net.KeepAliveConfig{}, errors.New("empty")
	case "on":
		return net.KeepAliveConfig{Enable: true}, nil
	case "off":
		return net.KeepAliveConfig{Enable: false}, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return net.KeepAliveConfig{}, errors.New("expected on|off|keepidle:keepintvl:keepcnt")
	}
	keepIdle, err := parsePositiveInt(parts[0])
	if err != nil {
		return net.KeepAliveConfig{}, fmt.Errorf("keepidle: %w", err)
	}
	keepIntvl, err := parsePositiveInt(parts[1])
	if err != nil {
		return net.KeepAliveConfig{}, fmt.Errorf("keepintvl: %w", err)
	}
	keepCnt, err := parsePositiveInt(parts[2])
	if err != nil {
		return net.KeepAliveConfig{}, fmt.Errorf("keepcnt: %w", err)
	}

	return net.KeepAliveConfig{
		Enable:   true,
		Idle:     time.Duration(keepIdle) * time.Second,
		Interval: time.Duration(keepIntvl) * time.Second,
		Count:    keepCnt,
	}, nil
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("must be > 0")
	}
	return n, nil
}
