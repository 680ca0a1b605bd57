package http

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPConfig controls which proxies may supply the client address through
// forwarding headers.
type IPConfig struct {
	TrustedProxies []string // CIDR ranges of trusted proxies
}

// ExtractClientIP returns the address used to identify a client for rate
// limiting. X-Forwarded-For and X-Real-IP are honoured only when the direct
// peer falls inside a trusted proxy range; otherwise RemoteAddr is used.
// The forwarded address is the rightmost X-Forwarded-For entry that is not
// itself a trusted proxy.
func ExtractClientIP(r *http.Request, config *IPConfig) string {
	remote := remoteHost(r.RemoteAddr)
	if config == nil || !config.trusts(remote) {
		return remote
	}

	// Proxies append, so only the right end of the chain is trustworthy.
	// Walk it backwards past our own proxies; anything further left is
	// client-supplied.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			if !config.trusts(addr.String()) {
				return addr.Unmap().String()
			}
		}
	}

	if addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return addr.String()
	}

	return remote
}

func (c *IPConfig) trusts(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()

	for _, cidr := range c.TrustedProxies {
		prefix, err := netip.ParsePrefix(strings.TrimSpace(cidr))
		if err != nil {
			continue
		}
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteHost(remoteAddr string) string {
	if remoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
