package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/shaikhimran1006/Student-Market-Place/models"
)

const sessionCookie = "token"

// IssueToken signs a session JWT for a user.
func IssueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":             float64(user.ID),
		"email":               user.Email,
		"role":                string(user.Role),
		"is_verified_student": user.IsVerifiedStudent,
		"exp":                 time.Now().Add(7 * 24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// SetAuthCookie issues a token and sets it as the http-only session cookie.
func SetAuthCookie(c *gin.Context, user *models.User) (string, error) {
	token, err := IssueToken(user)
	if err != nil {
		return "", err
	}
	secure := os.Getenv("APP_ENV") == "production"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(7*24*time.Hour/time.Second), "/", "", secure, true)
	return token, nil
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(sessionCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}

func setIdentity(c *gin.Context, claims jwt.MapClaims) {
	if id, ok := claims["user_id"].(float64); ok {
		c.Set("user_id", uint(id))
	}
	if role, ok := claims["role"].(string); ok {
		c.Set("role", role)
	}
}

// ValidateToken requires a valid session cookie or bearer token.
func ValidateToken(c *gin.Context) {
	tokenString := tokenFromRequest(c)
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "status": http.StatusUnauthorized, "message": "Not logged in"})
		return
	}

	claims, err := parseToken(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "status": http.StatusUnauthorized, "message": err.Error()})
		return
	}

	setIdentity(c, claims)
	c.Next()
}

// OptionalToken attaches the identity when a valid token is present but
// never rejects the request. Used by the chat assistant.
func OptionalToken(c *gin.Context) {
	if tokenString := tokenFromRequest(c); tokenString != "" {
		if claims, err := parseToken(tokenString); err == nil {
			setIdentity(c, claims)
		}
	}
	c.Next()
}

// UserID returns the authenticated user id from the request context.
func UserID(c *gin.Context) uint {
	id, _ := c.Get("user_id")
	uid, _ := id.(uint)
	return uid
}
