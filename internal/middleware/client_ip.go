package middleware

import "net"

// clientIP strips the port from a RemoteAddr. RealIP may already have
// replaced it with a bare address.
func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
