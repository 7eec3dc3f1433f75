package auth

import (
	"log/slog"
	"net/http"
	"time"

	"brazucas-cork/internal/domain/entity"
	"brazucas-cork/internal/handler/http/requestid"
	"brazucas-cork/internal/handler/http/respond"
	userUC "brazucas-cork/internal/usecase/user"
)

// UserDTO is the public view of an account.
type UserDTO struct {
	ID        int64       `json:"id"`
	Email     string      `json:"email"`
	Nickname  string      `json:"nickname"`
	Role      entity.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NewUserDTO converts u, dropping the password hash.
func NewUserDTO(u *entity.User) UserDTO {
	return UserDTO{ID: u.ID, Email: u.Email, Nickname: u.Nickname, Role: u.Role, CreatedAt: u.CreatedAt}
}

type sessionDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserDTO   `json:"user"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Handler serves /auth.
type Handler struct {
	Users  *userUC.Service
	Tokens *TokenIssuer
	Logger *slog.Logger
}

// Register mounts the account routes. The limiter wraps the credential
// endpoints; pass nil to disable it.
func (h Handler) Register(mux *http.ServeMux, limiter func(http.Handler) http.Handler) {
	if limiter == nil {
		limiter = func(next http.Handler) http.Handler { return next }
	}
	mux.Handle("POST /auth/register", limiter(http.HandlerFunc(h.SignUp)))
	mux.Handle("POST /auth/login", limiter(http.HandlerFunc(h.Login)))
	mux.Handle("GET /auth/me", RequireAuth(http.HandlerFunc(h.Me)))
}

// SignUp creates an account and returns a session for it.
func (h Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.FromError(w, err)
		return
	}

	u, err := h.Users.Register(r.Context(), userUC.RegisterInput{
		Email:    req.Email,
		Nickname: req.Nickname,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.logger(r).Info("registration rejected", slog.Any("error", err))
		respond.FromError(w, err)
		return
	}
	h.session(w, r, u, http.StatusCreated, "register")
}

// Login exchanges credentials for a session.
func (h Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := h.logger(r)

	var req loginRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.FromError(w, err)
		return
	}

	u, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("authentication failed",
			slog.Any("error", err),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		respond.FromError(w, err)
		return
	}

	logger.Info("authentication successful",
		slog.Int64("user_id", u.ID),
		slog.String("role", string(u.Role)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	h.session(w, r, u, http.StatusOK, "login")
}

// Me returns the caller's account.
func (h Handler) Me(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFrom(r.Context())
	u, err := h.Users.Get(r.Context(), p, p.ID)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, NewUserDTO(u))
}

func (h Handler) session(w http.ResponseWriter, r *http.Request, u *entity.User, code int, endpoint string) {
	token, exp, err := h.Tokens.Issue(u)
	if err != nil {
		h.logger(r).Error("token generation failed", slog.Any("error", err))
		respond.FromError(w, err)
		return
	}
	RecordTokenIssued(string(u.Role), endpoint)
	respond.OK(w, code, sessionDTO{Token: token, ExpiresAt: exp, User: NewUserDTO(u)})
}

func (h Handler) logger(r *http.Request) *slog.Logger {
	l := h.Logger
	if l == nil {
		l = slog.Default()
	}
	return l.With(slog.String("request_id", requestid.FromContext(r.Context())))
}
