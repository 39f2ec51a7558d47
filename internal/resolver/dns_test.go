package resolver

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"slices"
	"testing"
	"time"

	"github.com/miekg/dns"

	"github.com/die-net/socks5d/internal/testutil"
)

func answerWith(rcode int, rrs ...string) dns.HandlerFunc {
	return func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetRcode(req, rcode)
		for _, s := range rrs {
			rr, err := dns.NewRR(s)
			if err != nil {
				panic(err)
			}
			m.Answer = append(m.Answer, rr)
		}
		_ = w.WriteMsg(m)
	}
}

func TestDNSClientLookup(t *testing.T) {
	tests := []struct {
		name    string
		handler dns.HandlerFunc
		want    []string
		wantErr bool
	}{
		{
			name:    "single a",
			handler: answerWith(dns.RcodeSuccess, "host.test. 60 IN A 192.0.2.1"),
			want:    []string{"192.0.2.1"},
		},
		{
			name: "a and aaaa in order",
			handler: answerWith(dns.RcodeSuccess,
				"host.test. 60 IN AAAA 2001:db8::1",
				"host.test. 60 IN A 192.0.2.2"),
			want: []string{"2001:db8::1", "192.0.2.2"},
		},
		{
			name: "cname skipped",
			handler: answerWith(dns.RcodeSuccess,
				"host.test. 60 IN CNAME real.test.",
				"real.test. 60 IN A 192.0.2.3"),
			want: []string{"192.0.2.3"},
		},
		{
			name:    "empty answer",
			handler: answerWith(dns.RcodeSuccess),
		},
		{
			name:    "nxdomain",
			handler: answerWith(dns.RcodeNameError),
			wantErr: true,
		},
		{
			name:    "servfail",
			handler: answerWith(dns.RcodeServerFailure),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.StartDNSServer(t, tt.handler)
			c := NewDNSClient(server, 2*time.Second)

			addrs, err := c.LookupNetIP(context.Background(), "host.test")
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", addrs)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}

			got := make([]string, 0, len(addrs))
			for _, a := range addrs {
				got = append(got, a.String())
			}
			if !slices.Equal(got, tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestDNSClientSendsSingleAQuery(t *testing.T) {
	queries := make(chan dns.Question, 4)
	server := testutil.StartDNSServer(t, func(w dns.ResponseWriter, req *dns.Msg) {
		queries <- req.Question[0]
		answerWith(dns.RcodeSuccess, "host.test. 60 IN A 192.0.2.1")(w, req)
	})

	r := New(NewDNSClient(server, 2*time.Second))
	ip, err := r.Resolve(context.Background(), "host.test")
	if err != nil {
		t.Fatal(err)
	}
	if ip != netip.MustParseAddr("192.0.2.1") {
		t.Fatalf("resolved %s", ip)
	}

	if q := <-queries; q.Name != "host.test." || q.Qtype != dns.TypeA {
		t.Fatalf("unexpected question %v", q)
	}
	select {
	case q := <-queries:
		t.Fatalf("unexpected second query %v", q)
	default:
	}
}

func TestResolveThroughDNSFailures(t *testing.T) {
	t.Run("no records", func(t *testing.T) {
		server := testutil.StartDNSServer(t, answerWith(dns.RcodeSuccess))
		_, err := New(NewDNSClient(server, 2*time.Second)).Resolve(context.Background(), "host.test")
		if !errors.Is(err, ErrNoAddressReturned) {
			t.Fatalf("expected ErrNoAddressReturned, got %v", err)
		}
	})

	t.Run("nxdomain", func(t *testing.T) {
		server := testutil.StartDNSServer(t, answerWith(dns.RcodeNameError))
		_, err := New(NewDNSClient(server, 2*time.Second)).Resolve(context.Background(), "host.test")
		if !errors.Is(err, ErrLookupFailed) {
			t.Fatalf("expected ErrLookupFailed, got %v", err)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		// Nothing answers on a bound but unread UDP socket.
		pc, err := net.ListenPacket("udp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		defer pc.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err = New(NewDNSClient(pc.LocalAddr().String(), 0)).Resolve(ctx, "host.test")
		if !errors.Is(err, ErrLookupFailed) {
			t.Fatalf("expected ErrLookupFailed, got %v", err)
		}
	})
}

func TestSystemLiteral(t *testing.T) {
	addrs, err := System{}.LookupNetIP(context.Background(), "127.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if len(addrs) != 1 || addrs[0].Unmap() != netip.MustParseAddr("127.0.0.1") {
		t.Fatalf("got %v", addrs)
	}
}
