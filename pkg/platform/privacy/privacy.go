// Package privacy masks client addresses before they reach the logs.
package privacy

import (
	"net"
	"net/http"
	"net/netip"
)

// AnonymizeIP keeps the /24 network of an IPv4 address and the /48 prefix
// of an IPv6 address. It returns "unknown" for an empty input and
// "invalid" for anything that does not parse.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap().WithZone("")

	bits := 48
	if addr.Is4() {
		bits = 24
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.Addr().String()
}

// ClientIP returns the anonymized address of the peer that sent r.
// Forwarding headers are ignored since they are caller controlled.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return AnonymizeIP(host)
}
