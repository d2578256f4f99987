package middleware

import "net/http"

// DefaultMaxBodyBytes is 1 MiB.
const DefaultMaxBodyBytes = 1 << 20

// MaxBytes caps request bodies. Handlers see *http.MaxBytesError from their
// decoder once the cap is crossed.
func MaxBytes(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
