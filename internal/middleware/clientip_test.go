package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	trusted := []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("2001:db8::/32"),
	}

	tests := []struct {
		name      string
		remote    string
		forwarded []string
		realIP    string
		want      string
	}{
		{name: "untrusted peer keeps socket address", remote: "203.0.113.5:1000", forwarded: []string{"198.51.100.1"}, want: "203.0.113.5:1000"},
		{name: "trusted peer uses forwarded client", remote: "10.0.0.1:1000", forwarded: []string{"198.51.100.1"}, want: "198.51.100.1"},
		{name: "skips trusted hops from the right", remote: "10.0.0.1:1000", forwarded: []string{"203.0.113.9, 198.51.100.1, 10.0.0.7"}, want: "198.51.100.1"},
		{name: "joins repeated headers", remote: "10.0.0.1:1000", forwarded: []string{"198.51.100.1", "10.0.0.7"}, want: "198.51.100.1"},
		{name: "all hops trusted", remote: "10.0.0.1:1000", forwarded: []string{"10.9.9.9"}, want: "10.9.9.9"},
		{name: "garbage hop stops the walk", remote: "10.0.0.1:1000", forwarded: []string{"evil, 10.0.0.7"}, want: "10.0.0.7"},
		{name: "real ip from trusted peer", remote: "10.0.0.1:1000", realIP: "198.51.100.4", want: "198.51.100.4"},
		{name: "bad real ip keeps socket address", remote: "10.0.0.1:1000", realIP: "nope", want: "10.0.0.1:1000"},
		{name: "ipv6 proxy", remote: "[2001:db8::5]:443", forwarded: []string{"::ffff:198.51.100.8"}, want: "198.51.100.8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got string
			handler := ClientIP(trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for _, v := range tt.forwarded {
				req.Header.Add("X-Forwarded-For", v)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientIP_WithoutTrustedProxiesIgnoresHeaders(t *testing.T) {
	t.Parallel()

	var got string
	handler := ClientIP(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.RemoteAddr
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1000"
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	req.Header.Set("X-Real-IP", "198.51.100.2")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "10.0.0.1:1000", got)
}
