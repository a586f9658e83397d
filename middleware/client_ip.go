package middleware

import (
	"net"
	"net/http"
)

// ClientIP returns the client address from RemoteAddr. Forwarding headers are only
// honored when chi's RealIP middleware runs in front, which main enables for TRUST_PROXY.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RealIP stores a bare address
		return r.RemoteAddr
	}
	return host
}
