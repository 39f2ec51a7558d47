package testutil

import (
	"net"
	"testing"

	"github.com/miekg/dns"
)

// StartDNSServer serves handler over UDP on a loopback port until the test
// ends and returns its address.
func StartDNSServer(t *testing.T, handler dns.HandlerFunc) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	started := make(chan struct{})
	srv := &dns.Server{
		PacketConn:        pc,
		Handler:           handler,
		NotifyStartedFunc: func() { close(started) },
	}
	go func() { _ = srv.ActivateAndServe() }()
	<-started

	t.Cleanup(func() { _ = srv.Shutdown() })

	return pc.LocalAddr().String()
}
