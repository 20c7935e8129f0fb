package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// TrustedRealIP extracts the real client IP from X-Real-IP or X-Forwarded-For
// headers, but only when the request comes from a trusted proxy CIDR.
// Untrusted clients cannot spoof their IP to bypass rate limiting.
func TrustedRealIP(trustedCIDRs []string) func(http.Handler) http.Handler {
	trustedNets := parseCIDRs(trustedCIDRs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remoteIP := extractIP(r.RemoteAddr)

			if isTrusted(remoteIP, trustedNets) {
				if ip := headerIP(r); ip != nil {
					r.RemoteAddr = ip.String()
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// headerIP returns the client IP claimed by proxy headers, X-Real-IP first,
// then the first entry of X-Forwarded-For. Returns nil when neither header
// carries a valid IP.
func headerIP(r *http.Request) net.IP {
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		if ip := net.ParseIP(strings.TrimSpace(rip)); ip != nil {
			return ip
		}
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		candidate := xff
		if idx := strings.Index(xff, ","); idx > 0 {
			candidate = xff[:idx]
		}
		return net.ParseIP(strings.TrimSpace(candidate))
	}
	return nil
}

// parseCIDRs parses the trusted proxy list once at startup. Bare IPs are
// accepted as /32 (or /128) networks.
func parseCIDRs(cidrs []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, cidr := range cidrs {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}

		if _, network, err := net.ParseCIDR(cidr); err == nil {
			nets = append(nets, network)
			continue
		}

		if ip := net.ParseIP(cidr); ip != nil {
			mask := net.CIDRMask(128, 128)
			if ip.To4() != nil {
				mask = net.CIDRMask(32, 32)
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: mask})
			continue
		}

		slog.Warn("realip: invalid trusted proxy CIDR, skipping", "cidr", cidr)
	}
	return nets
}

// extractIP parses an IP address from a host:port string or plain IP.
func extractIP(addr string) net.IP {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(addr)
}

// isTrusted checks if an IP is within any of the trusted networks.
func isTrusted(ip net.IP, trusted []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, network := range trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
