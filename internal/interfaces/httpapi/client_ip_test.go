package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{name: "forwarded chain", headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, remoteAddr: "10.0.0.2:1234", want: "203.0.113.7"},
		{name: "skips bad hop", headers: map[string]string{"X-Forwarded-For": "unknown, 198.51.100.4"}, want: "198.51.100.4"},
		{name: "real ip header", headers: map[string]string{"X-Real-IP": "198.51.100.9"}, remoteAddr: "10.0.0.2:1234", want: "198.51.100.9"},
		{name: "socket peer", remoteAddr: "192.0.2.10:5555", want: "192.0.2.10"},
		{name: "ipv6 peer", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "mapped v4", headers: map[string]string{"X-Forwarded-For": "::ffff:192.0.2.44"}, want: "192.0.2.44"},
		{name: "garbage", headers: map[string]string{"X-Real-IP": "not-an-ip"}, remoteAddr: "also-bad", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := resolveClientIP(req); got != tt.want {
				t.Fatalf("resolveClientIP()=%q want=%q", got, tt.want)
			}
		})
	}
}
