package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brazucas-cork/internal/domain/entity"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusCreated, struct{ ID int }{ID: 123})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, `{"ID":123}`, strings.TrimSpace(w.Body.String()))
}

func TestJSON_EncodingError(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, make(chan int))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOK_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, http.StatusOK, map[string]int{"id": 7})

	assert.Equal(t, `{"success":true,"data":{"id":7}}`, strings.TrimSpace(w.Body.String()))
}

func TestOK_NoData(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, http.StatusOK, nil)

	assert.Equal(t, `{"success":true}`, strings.TrimSpace(w.Body.String()))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &entity.ValidationError{Field: "title", Message: "is required"}, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("news post: %w", entity.ErrNotFound), http.StatusNotFound},
		{"forbidden", &entity.ForbiddenError{Reason: "admin role required"}, http.StatusForbidden},
		{"unauthorized", entity.ErrUnauthorized, http.StatusUnauthorized},
		{"conflict", fmt.Errorf("Create: %w", entity.ErrConflict), http.StatusConflict},
		{"app error", NewAppError(http.StatusTeapot, "short and stout", nil), http.StatusTeapot},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "domain message passes through",
			err:      &entity.ForbiddenError{Reason: "caller does not own the resource"},
			wantCode: http.StatusForbidden,
			wantMsg:  "forbidden: caller does not own the resource",
		},
		{
			name:     "internal error is masked",
			err:      errors.New("pq: connection to postgres://u:pw@db failed"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  genericMessage,
		},
		{
			name:     "app error shows user message",
			err:      NewAppError(http.StatusBadRequest, "invalid JSON body", errors.New("unexpected EOF")),
			wantCode: http.StatusBadRequest,
			wantMsg:  "invalid JSON body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			FromError(w, tt.err)

			assert.Equal(t, tt.wantCode, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantMsg, env.Error)
		})
	}
}

func TestSafeError(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		err     error
		wantMsg string
	}{
		{"keyword on 400", http.StatusBadRequest, errors.New("limit must be between 1 and 100"), "limit must be between 1 and 100"},
		{"keyword on 500", http.StatusInternalServerError, errors.New("title is required"), genericMessage},
		{"plain 400", http.StatusBadRequest, errors.New("syntax error at offset 3"), genericMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			SafeError(w, tt.code, tt.err)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.wantMsg, decode(t, w).Error)
		})
	}
}

func TestSafeError_Nil(t *testing.T) {
	w := httptest.NewRecorder()
	SafeError(w, http.StatusBadRequest, nil)
	assert.Equal(t, 0, w.Body.Len())
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Title string `json:"title"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"ok"}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, "ok", v.Title)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"ok","extra":1}`))
	err := DecodeJSON(r, &v)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, StatusFor(err))
}
