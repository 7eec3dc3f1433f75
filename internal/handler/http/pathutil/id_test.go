package pathutil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"brazucas-cork/internal/domain/entity"
)

func TestExtractID(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		prefix  string
		wantID  int64
		wantErr bool
	}{
		{"news id", "/news/123", "/news/", 123, false},
		{"ad id", "/ads/456", "/ads/", 456, false},
		{"not a number", "/news/abc", "/news/", 0, true},
		{"zero", "/news/0", "/news/", 0, true},
		{"negative", "/ads/-1", "/ads/", 0, true},
		{"empty", "/news/", "/news/", 0, true},
		{"overflow", "/news/99999999999999999999", "/news/", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ExtractID(tt.path, tt.prefix)
			if tt.wantErr {
				if !errors.Is(err, entity.ErrValidationFailed) {
					t.Fatalf("err = %v, want validation error", err)
				}
				return
			}
			if err != nil || id != tt.wantID {
				t.Fatalf("ExtractID = %d, %v; want %d", id, err, tt.wantID)
			}
		})
	}
}

func TestPathID(t *testing.T) {
	mux := http.NewServeMux()
	var got int64
	var gotErr error
	mux.HandleFunc("GET /news/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = PathID(r, "id")
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/news/42", nil))
	if gotErr != nil || got != 42 {
		t.Fatalf("PathID = %d, %v; want 42", got, gotErr)
	}

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/news/x", nil))
	if gotErr == nil {
		t.Fatal("PathID accepted a non-numeric id")
	}
}
