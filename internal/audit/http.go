package audit

import (
	"net"
	"strings"
)

// ClientIP extracts client ip from common headers or the remote address.
func ClientIP(header func(string) string, remoteAddr string) string {
	if header != nil {
		if forwarded := header("X-Forwarded-For"); forwarded != "" {
			parts := strings.Split(forwarded, ",")
			if len(parts) > 0 {
				return strings.TrimSpace(parts[0])
			}
		}
		if realIP := header("X-Real-IP"); realIP != "" {
			return strings.TrimSpace(realIP)
		}
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err == nil {
		return host
	}
	return remoteAddr
}
