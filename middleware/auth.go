package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Phirakan/go-inventory/errs"
	"github.com/Phirakan/go-inventory/models"
	"github.com/Phirakan/go-inventory/utils"
)

const sessionKey = "session"

// TokenValidator checks a signed token of the wanted type.
type TokenValidator interface {
	Validate(signedToken string, want utils.TokenType) (*utils.JWTClaim, error)
}

// RevocationChecker reports whether a token id has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware requires a valid, unrevoked access token.
func AuthMiddleware(tokens TokenValidator, revoked RevocationChecker) gin.HandlerFunc {
	return authenticate(tokens, revoked, utils.AccessToken)
}

// RefreshTokenRequired requires a valid, unrevoked refresh token.
func RefreshTokenRequired(tokens TokenValidator, revoked RevocationChecker) gin.HandlerFunc {
	return authenticate(tokens, revoked, utils.RefreshToken)
}

func authenticate(tokens TokenValidator, revoked RevocationChecker, want utils.TokenType) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract token from "Bearer <token>"
		tokenString, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			Abort(c, errs.Auth("Token is missing or invalid"))
			return
		}

		claims, err := tokens.Validate(strings.TrimSpace(tokenString), want)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				Abort(c, errs.Auth("Token has expired"))
				return
			}
			Abort(c, errs.Auth("Token is missing or invalid"))
			return
		}

		isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			Abort(c, errs.Internal("check token revocation", err))
			return
		}
		if isRevoked {
			Abort(c, errs.Auth("Token has been revoked"))
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			Abort(c, errs.Auth("Token is missing or invalid"))
			return
		}
		session := models.Session{
			SubjectID: userID,
			Role:      claims.Role,
			TokenID:   claims.ID,
		}
		if claims.ExpiresAt != nil {
			session.ExpiresAt = claims.ExpiresAt.Time
		}
		c.Set(sessionKey, session)

		c.Next()
	}
}

// AdminRequired ensures the session has the admin role. It must run after
// AuthMiddleware.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := SessionFrom(c)
		if !ok {
			Abort(c, errs.Auth("Token is missing or invalid"))
			return
		}
		if !session.IsAdmin() {
			Abort(c, errs.Authorization("Unauthorized: Admins only"))
			return
		}
		c.Next()
	}
}

// SessionFrom returns the session set by AuthMiddleware.
func SessionFrom(c *gin.Context) (models.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return models.Session{}, false
	}
	session, ok := v.(models.Session)
	return session, ok
}

// Abort stops the chain with the error's status and public message. The error
// is attached to the context so the request logger can report it.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(errs.HTTPStatus(err), gin.H{"error": errs.PublicMessage(err)})
}
