package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Phirakan/go-inventory/errs"
	"github.com/Phirakan/go-inventory/middleware"
	"github.com/Phirakan/go-inventory/models"
	"github.com/Phirakan/go-inventory/utils"
)

// Login authenticates a user and returns an access and a refresh token
func (h *Handler) Login(c *gin.Context) {
	var input models.UserLogin
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errs.Validation("Invalid JSON format"))
		return
	}

	user, err := h.Accounts.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	pair, err := h.Tokens.GeneratePair(user.ID, user.Role)
	if err != nil {
		respondError(c, errs.Internal("generate tokens", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Login successful",
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// Refresh issues a new access token for the holder of a refresh token. The
// role is read again so role changes apply from the next refresh.
func (h *Handler) Refresh(c *gin.Context) {
	session, _ := middleware.SessionFrom(c)

	user, err := h.Accounts.Get(c.Request.Context(), session.SubjectID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			respondError(c, errs.Auth("Token is missing or invalid"))
			return
		}
		respondError(c, err)
		return
	}

	token, err := h.Tokens.Generate(user.ID, user.Role, utils.AccessToken)
	if err != nil {
		respondError(c, errs.Internal("generate access token", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout revokes the presented access token and, when given, the refresh token
// issued with it.
func (h *Handler) Logout(c *gin.Context) {
	session, _ := middleware.SessionFrom(c)
	ctx := c.Request.Context()

	var input logoutRequest
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, errs.Validation("Invalid JSON format"))
		return
	}

	if input.RefreshToken != "" {
		claims, err := h.Tokens.Validate(input.RefreshToken, utils.RefreshToken)
		if err != nil {
			respondError(c, errs.Auth("Token is missing or invalid"))
			return
		}
		if id, err := claims.UserID(); err != nil || id != session.SubjectID {
			respondError(c, errs.Auth("Token is missing or invalid"))
			return
		}
		if err := h.Revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			respondError(c, errs.Internal("revoke refresh token", err))
			return
		}
	}

	if err := h.Revocations.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		respondError(c, errs.Internal("revoke access token", err))
		return
	}
	h.Log.InfoContext(ctx, "user logged out", "user_id", session.SubjectID)
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out!"})
}

// Protected echoes the verified session.
func (h *Handler) Protected(c *gin.Context) {
	session, _ := middleware.SessionFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"message": "Access granted",
		"user":    gin.H{"id": session.SubjectID, "role": session.Role},
	})
}

// AddUser creates an account (admin only)
func (h *Handler) AddUser(c *gin.Context) {
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errs.Validation("Invalid JSON format"))
		return
	}

	user, err := h.Accounts.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

type roleUpdate struct {
	Role models.Role `json:"role"`
}

// UpdateRole changes a user's role (admin only)
func (h *Handler) UpdateRole(c *gin.Context) {
	userID, err := idParam(c, "user_id", "user")
	if err != nil {
		respondError(c, err)
		return
	}

	var input roleUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errs.Validation("Invalid JSON format"))
		return
	}

	user, err := h.Accounts.UpdateRole(c.Request.Context(), userID, input.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("User %s role updated to %s.", user.Username, user.Role),
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}
