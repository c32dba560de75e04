package httpapi

import (
	"net/http"
	"net/netip"
	"strings"
)

// resolveClientIP returns the first parseable address from X-Forwarded-For,
// then X-Real-IP, then the socket peer. Login failures log it.
func resolveClientIP(r *http.Request) string {
	for hop := range strings.SplitSeq(r.Header.Get("X-Forwarded-For"), ",") {
		if addr, ok := parseClientAddr(hop); ok {
			return addr.String()
		}
	}
	if addr, ok := parseClientAddr(r.Header.Get("X-Real-IP")); ok {
		return addr.String()
	}
	if addrPort, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return addrPort.Addr().Unmap().String()
	}
	if addr, ok := parseClientAddr(r.RemoteAddr); ok {
		return addr.String()
	}
	return ""
}

func parseClientAddr(raw string) (netip.Addr, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return netip.Addr{}, false
	}
	if addrPort, err := netip.ParseAddrPort(value); err == nil {
		return addrPort.Addr().Unmap(), true
	}
	addr, err := netip.ParseAddr(strings.Trim(value, "[]"))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
