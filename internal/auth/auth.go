package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"Propmatic/internal/httputil"
	"Propmatic/internal/repo"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	userLoginKey contextKey = "userLogin"

	CookieName  = "session_token"
	sessionTTL  = 30 * 24 * time.Hour
	minPassword = 6
)

type Authenv struct {
	JWTkey []byte
	Repo   repo.Repository
	Logger hclog.Logger

	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost     int
	// Insecure drops the Secure flag from the session cookie for plain HTTP.
	Insecure bool
}

type Loginrequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type Registerrequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// Clients not seen for limiterIdle are forgotten.
const limiterIdle = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type IPRateLimiter struct {
	ips        map[string]*visitor
	mu         sync.Mutex
	r          rate.Limit
	b          int
	trustProxy bool
	logger     hclog.Logger
	lastSweep  time.Time
	now        func() time.Time
}

func NewIPRateLimiter(r rate.Limit, b int, trustProxy bool, logger hclog.Logger) *IPRateLimiter {
	return &IPRateLimiter{
		ips:        make(map[string]*visitor),
		r:          r,
		b:          b,
		trustProxy: trustProxy,
		logger:     logger,
		now:        time.Now,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if now.Sub(i.lastSweep) >= limiterIdle {
		for k, v := range i.ips {
			if now.Sub(v.lastSeen) >= limiterIdle {
				delete(i.ips, k)
			}
		}
		i.lastSweep = now
	}

	v, exists := i.ips[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// clients reports how many client addresses are tracked.
func (i *IPRateLimiter) clients() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.ips)
}

func (i *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := httputil.ClientIP(r, i.trustProxy)
		if !i.getLimiter(ip).Allow() {
			i.logger.Debug("rate limited", "ip", ip, "path", r.URL.Path)
			httputil.Error(w, http.StatusTooManyRequests, "too many requests, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (env *Authenv) HashPassword(password string) (string, error) {
	cost := env.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// IssueToken signs a session token for the user.
func (env *Authenv) IssueToken(userID int, login string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"login":   login,
		"exp":     now.Add(sessionTTL).Unix(),
	})
	return token.SignedString(env.JWTkey)
}

// ParseToken validates a session token and returns the user it was issued to.
func (env *Authenv) ParseToken(tokenString string) (int, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return env.JWTkey, nil
	})
	if err != nil {
		return 0, "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", jwt.ErrTokenInvalidClaims
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", jwt.ErrTokenInvalidClaims
	}
	login, ok := claims["login"].(string)
	if !ok || login == "" {
		return 0, "", jwt.ErrTokenInvalidClaims
	}
	return int(userID), login, nil
}

func (env *Authenv) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil {
			httputil.Error(w, http.StatusUnauthorized, "login required")
			return
		}
		userID, login, err := env.ParseToken(cookie.Value)
		if err != nil {
			env.Logger.Debug("rejected session token", "error", err)
			httputil.Error(w, http.StatusUnauthorized, "login required")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, userLoginKey, login)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// User returns the authenticated user stored by AuthMiddleware.
func User(ctx context.Context) (id int, login string, ok bool) {
	id, ok = ctx.Value(userIDKey).(int)
	if !ok {
		return 0, "", false
	}
	login, _ = ctx.Value(userLoginKey).(string)
	return id, login, true
}

func (env *Authenv) addCookie(w http.ResponseWriter, userID int, login string) error {
	now := time.Now()
	tokenString, err := env.IssueToken(userID, login, now)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tokenString,
		Expires:  now.Add(sessionTTL),
		Path:     "/",
		HttpOnly: true,
		Secure:   !env.Insecure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (env *Authenv) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req Registerrequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	req.Login = strings.TrimSpace(req.Login)
	req.Email = strings.TrimSpace(req.Email)
	if req.Login == "" || req.Email == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "login, email and password required")
		return
	}
	if len(req.Password) < minPassword {
		httputil.Error(w, http.StatusBadRequest, "password too short")
		return
	}

	hashedPassword, err := env.HashPassword(req.Password)
	if err != nil {
		env.Logger.Error("hash password", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "could not register")
		return
	}
	id, err := env.Repo.CreateUser(r.Context(), req.Login, req.Email, hashedPassword)
	if errors.Is(err, repo.ErrExists) {
		httputil.Error(w, http.StatusConflict, "user already exists")
		return
	}
	if err != nil {
		env.Logger.Error("create user", "login", req.Login, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "could not register")
		return
	}
	if err := env.addCookie(w, id, req.Login); err != nil {
		env.Logger.Error("issue session token", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "could not register")
		return
	}
	env.Logger.Info("registered user", "id", id, "login", req.Login)
	httputil.JSON(w, http.StatusCreated, map[string]any{"id": id, "login": req.Login})
}

func (env *Authenv) AuthHandler(w http.ResponseWriter, r *http.Request) {
	var req Loginrequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "login and password required")
		return
	}

	id, storedHash, err := env.Repo.GetByLogin(r.Context(), req.Login)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		env.Logger.Error("get user", "login", req.Login, "error", err)
		httputil.Error(w, http.StatusInternalServerError, "could not log in")
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.Password)) != nil {
		httputil.Error(w, http.StatusUnauthorized, "invalid login or password")
		return
	}
	if err := env.addCookie(w, id, req.Login); err != nil {
		env.Logger.Error("issue session token", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "could not log in")
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"id": id, "login": req.Login})
}

// Me reports the logged in user.
func (env *Authenv) Me(w http.ResponseWriter, r *http.Request) {
	id, login, ok := User(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "login required")
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"id": id, "login": login})
}
