package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/concert-ticket-booking/internal/repository"
	"github.com/iliyamo/concert-ticket-booking/internal/utils"
)

// AuthHandler implements registration and login against the in-memory
// user store and issues HS256 access tokens.  Registration always
// creates CUSTOMER accounts; the single ADMIN account is bootstrapped
// from configuration at startup.
type AuthHandler struct {
	Users        *repository.UserStore
	JWTSecret    string
	AccessTTLMin int
}

// NewAuthHandler constructs an AuthHandler.  The store must be non-nil.
func NewAuthHandler(users *repository.UserStore, jwtSecret string, accessTTLMin int) *AuthHandler {
	if users == nil {
		panic("nil user store passed to NewAuthHandler")
	}
	return &AuthHandler{Users: users, JWTSecret: jwtSecret, AccessTTLMin: accessTTLMin}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /v1/auth/register.  It creates a CUSTOMER
// account and returns 201 with the new user's ID.  Duplicate emails
// yield 409.
func (h *AuthHandler) Register(c echo.Context) error {
	var body credentialsRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	email := strings.TrimSpace(body.Email)
	if email == "" || len(body.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and a password of at least 8 characters are required"})
	}
	u, err := h.Users.Create(email, body.Password, "CUSTOMER")
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create account"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"user_id": u.ID})
}

// Login handles POST /v1/auth/login.  On success it returns an access
// token and its expiry.  Unknown emails and wrong passwords are not
// distinguished.
func (h *AuthHandler) Login(c echo.Context) error {
	var body credentialsRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	u, err := h.Users.Authenticate(body.Email, body.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	tok, err := utils.NewAccessToken(h.JWTSecret, u.ID, u.Role, h.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"expires_at":   tok.Exp.Format(time.RFC3339),
	})
}

// Me handles GET /v1/me and returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := h.Users.ByID(userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":         u.ID,
		"email":      u.Email,
		"role":       u.Role,
		"created_at": u.CreatedAt.Format(time.RFC3339),
	})
}

// currentUserID extracts the authenticated user's ID from the context,
// where the JWT middleware stored it.
func currentUserID(c echo.Context) (string, error) {
	v, ok := c.Get("user_id").(string)
	if !ok || v == "" {
		return "", errors.New("no user in context")
	}
	return v, nil
}
