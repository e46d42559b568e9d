package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tudduke/ministry-platform/internal/access"
	"github.com/tudduke/ministry-platform/internal/config"
	"github.com/tudduke/ministry-platform/internal/repository"
	"github.com/tudduke/ministry-platform/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Role          string `json:"role"` // teacher | preacher | kid
	GuardianName  string `json:"guardian_name"`
	GuardianPhone string `json:"guardian_phone"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID       uint64 `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Verified bool   `json:"verified"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// Register creates an account. Kid accounts are usable immediately and get
// a token pair in the response. Teacher and preacher accounts start
// unverified and receive no tokens; an admin has to verify them before
// login works.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name/email/password required"})
	}
	role, ok := access.ParseRole(req.Role)
	if !ok || !access.SelfServiceRole(role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be teacher, preacher or kid"})
	}

	var guardianName, guardianPhone *string
	if role == access.RoleKid {
		if v := strings.TrimSpace(req.GuardianName); v != "" {
			guardianName = &v
		}
		if v := strings.TrimSpace(req.GuardianPhone); v != "" {
			guardianPhone = &v
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.FullName, req.Email, req.Password, role, guardianName, guardianPhone, h.Cfg.BcryptCost)
	if err != nil {
		return writeDomainErr(c, err, "create user failed")
	}

	if access.RequiresVerification(role) {
		return c.JSON(http.StatusCreated, echo.Map{
			"user":    userPart{ID: uid, FullName: req.FullName, Email: req.Email, Role: string(role), Verified: false},
			"message": "account pending verification",
		})
	}

	pair, ok := h.issueTokens(c, uid, role)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusCreated, authResp{
		User:    userPart{ID: uid, FullName: req.FullName, Email: req.Email, Role: string(role), Verified: true},
		Access:  pair.access,
		Refresh: pair.refresh,
	})
}

// Login verifies credentials and returns a fresh token pair. Unverified
// teacher and preacher accounts are refused with the same status an admin
// would see in the pending queue.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !u.IsVerified {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account pending verification"})
	}

	pair, ok := h.issueTokens(c, u.ID, u.Role)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: string(u.Role), Verified: u.IsVerified},
		Access:  pair.access,
		Refresh: pair.refresh,
	})
}

// Refresh validates a refresh token by hash, revokes it, and issues a new
// pair (rotation).
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := reqCtx(c)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	if !u.IsVerified {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account pending verification"})
	}

	pair, ok := h.issueTokens(c, u.ID, u.Role)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: string(u.Role), Verified: u.IsVerified},
		Access:  pair.access,
		Refresh: pair.refresh,
	})
}

// RefreshAccess returns a new access token for a valid refresh token
// without rotating it. Useful for clients that refresh eagerly.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := reqCtx(c)
	defer cancel()

	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	if !u.IsVerified {
		// Same gate as login and rotate: a refresh token must not keep a
		// de-verified account alive.
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account pending verification"})
	}

	at, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, string(u.Role), h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: at.Token, Expires: at.Exp},
	})
}

// Logout revokes sessions. With a refresh token in the body only that
// session ends; an authenticated call without one revokes every session
// the caller has.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if refreshToken != "" {
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}

	id, ok := caller(c)
	if !ok {
		return nil
	}
	if err := h.Tokens.RevokeAllForUser(ctx, id.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the caller's own profile.
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := caller(c)
	if !ok {
		return nil
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id.ID)
	if err != nil {
		return writeDomainErr(c, err, "load user failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":             u.ID,
		"full_name":      u.FullName,
		"email":          u.Email,
		"role":           string(u.Role),
		"verified":       u.IsVerified,
		"guardian_name":  u.GuardianName,
		"guardian_phone": u.GuardianPhone,
		"profile_image":  u.ProfileImage,
		"created_at":     u.CreatedAt,
	})
}

type tokenPair struct {
	access  tokenPart
	refresh tokenPart
}

// issueTokens creates and persists a token pair. On failure the error
// response is already written and ok is false.
func (h *AuthHandler) issueTokens(c echo.Context, uid uint64, role access.Role) (pair tokenPair, ok bool) {
	at, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, string(role), h.Cfg.AccessTTLMin)
	if err != nil {
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
		return tokenPair{}, false
	}
	rt, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
		return tokenPair{}, false
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Tokens.StoreRefresh(ctx, uid, utils.HashRefreshRaw(rt.Raw), rt.Exp); err != nil {
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
		return tokenPair{}, false
	}
	return tokenPair{
		access:  tokenPart{Token: at.Token, Expires: at.Exp},
		refresh: tokenPart{Token: rt.Raw, Expires: rt.Exp}, // raw back to client
	}, true
}
