package utils

import (
	"net"
	"strings"
)

// ClientIP resolves the requester identity: the first X-Forwarded-For entry
// when it is a literal IP address, else the host part of the transport peer
// address. The result always fits the 45-character author_ip columns.
func ClientIP(forwardedFor string, remoteAddr string) string {
	if forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(remoteAddr))
	if err != nil {
		host = strings.TrimSpace(remoteAddr)
	}

	if ip := net.ParseIP(host); ip != nil {
		return ip.String()
	}

	return host
}
