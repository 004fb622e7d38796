package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/online-bookstore/internal/auth"
	"github.com/iliyamo/online-bookstore/internal/config"
	"github.com/iliyamo/online-bookstore/internal/model"
	"github.com/iliyamo/online-bookstore/internal/repository"
	"github.com/iliyamo/online-bookstore/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg     config.Config
	Users   *repository.UserRepo
	Revoked auth.RevocationStore
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, r auth.RevocationStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Revoked: r}
}

// ----- DTOs -----

type registerReq struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	MailID    string `json:"mailid"`
	UserType  string `json:"usertype"` // admin | seller | user
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Expires     time.Time `json:"expires"`
}

// Register creates a user account. Credentials are not issued here;
// the client logs in afterwards.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}
	role := model.RoleUser
	if strings.TrimSpace(req.UserType) != "" {
		parsed, err := model.ParseRole(req.UserType)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid usertype"})
		}
		role = parsed
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, model.User{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		Phone:     req.Phone,
		MailID:    req.MailID,
		Role:      role,
	}, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "user registered successfully",
		"id":       uid,
		"username": req.Username,
		"usertype": role.String(),
	})
}

// Login verifies credentials and returns a signed session token. A
// missing user and a wrong password produce the same response so the
// endpoint does not reveal which usernames exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusOK, loginResp{
		AccessToken: access.Token,
		TokenType:   "bearer",
		Expires:     access.Exp,
	})
}

// Logout revokes the presented bearer token. The operation is
// idempotent and succeeds even for a token that is already expired or
// malformed; the revocation entry's TTL is the token's remaining
// lifetime, so the store never holds a token longer than the token
// could have been used.
func (h *AuthHandler) Logout(c echo.Context) error {
	header := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing bearer token"})
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	ttl := time.Minute
	// Best-effort decode to size the revocation TTL; an unparseable
	// token is still revoked with the minimum TTL.
	if tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(h.Cfg.JWTSecret), nil
	}); err == nil && tok.Valid {
		if exp, err := tok.Claims.GetExpirationTime(); err == nil && exp != nil {
			if remain := time.Until(exp.Time); remain > ttl {
				ttl = remain
			}
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Revoked.Revoke(ctx, raw, ttl); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "successfully logged out"})
}

// Me returns the resolved identity of the caller.
func (h *AuthHandler) Me(c echo.Context) error {
	ident, ok := identityOr401(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":       ident.ID,
		"username": ident.Username,
		"usertype": ident.Role.String(),
	})
}
