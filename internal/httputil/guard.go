package httputil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// ErrBlockedAddress is returned when a guarded client is asked to connect to
// a non-public address.
var ErrBlockedAddress = errors.New("httputil: blocked non-public address")

// MaxRedirects is the number of redirects a guarded client follows.
const MaxRedirects = 10

// sharedAddressSpace is the carrier-grade NAT range (RFC 6598).
var sharedAddressSpace = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

// IsBlockedIP reports whether ip is private, loopback, link-local, shared or
// unspecified.
func IsBlockedIP(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified() || sharedAddressSpace.Contains(ip)
}

// lookupPublic resolves host and fails if any of its addresses is blocked.
func lookupPublic(ctx context.Context, host string) ([]net.IPAddr, error) {
	ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("httputil: no addresses found for host %s", host)
	}
	for _, a := range ips {
		if IsBlockedIP(a.IP) {
			return nil, fmt.Errorf("%w: %s (%s)", ErrBlockedAddress, host, a.IP)
		}
	}
	return ips, nil
}

// NewGuardedClient returns a client that only connects to public addresses.
// Every dial and every redirect target is checked after DNS resolution, and
// the connection goes to the checked address.
func NewGuardedClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				host, port, err := net.SplitHostPort(addr)
				if err != nil {
					return nil, err
				}
				ips, err := lookupPublic(ctx, host)
				if err != nil {
					return nil, err
				}
				return dialer.DialContext(ctx, network, net.JoinHostPort(ips[0].IP.String(), port))
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= MaxRedirects {
				return fmt.Errorf("httputil: stopped after %d redirects", MaxRedirects)
			}
			_, err := lookupPublic(req.Context(), req.URL.Hostname())
			return err
		},
	}
}
