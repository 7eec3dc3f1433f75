package http

import (
	"errors"
	"net/http"

	"brazucas-cork/internal/handler/http/respond"
)

const (
	maxAuthHeaderBytes = 8 << 10
	maxPathBytes       = 2 << 10
	maxBodyBytes       = 10 << 20
)

// InputValidation rejects oversized Authorization headers and paths and caps
// the request body. The header check runs first.
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.Header.Get("Authorization")) > maxAuthHeaderBytes {
				respond.Error(w, http.StatusBadRequest, errors.New("authorization header too large"))
				return
			}
			if len(r.URL.Path) > maxPathBytes {
				respond.Error(w, http.StatusRequestURITooLong, errors.New("URI too long"))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			next.ServeHTTP(w, r)
		})
	}
}
