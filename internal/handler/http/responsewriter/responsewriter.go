// Package responsewriter records the status and size of a response for the
// logging and metrics middleware.
package responsewriter

import "net/http"

// ResponseWriter remembers the first status written and counts body bytes.
type ResponseWriter struct {
	http.ResponseWriter
	status int // 0 until the header is sent
	bytes  int
}

// Wrap starts recording w.
func Wrap(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w}
}

// WriteHeader forwards only the first call, as net/http would.
func (w *ResponseWriter) WriteHeader(code int) {
	if w.status != 0 {
		return
	}
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// StatusCode is the status sent, 200 if the handler wrote nothing.
func (w *ResponseWriter) StatusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// BytesWritten is the body size so far.
func (w *ResponseWriter) BytesWritten() int {
	return w.bytes
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
