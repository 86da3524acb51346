package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mesaja/seating/utils"
)

var errNoStaffToken = errors.New("request carries no staff token")

// AuthController exposes the caller's own token.
type AuthController struct{}

func NewAuthController() *AuthController {
	return &AuthController{}
}

func staffClaims(c *gin.Context) (*utils.StaffClaims, bool) {
	value, exists := c.Get("claims")
	if !exists {
		return nil, false
	}
	claims, ok := value.(*utils.StaffClaims)
	return claims, ok
}

// Me -> name and role of the authenticated staff member
func (ac *AuthController) Me(c *gin.Context) {
	claims, ok := staffClaims(c)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errNoStaffToken)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Staff session", gin.H{
		"name":       claims.Name,
		"role":       claims.Role,
		"expires_at": tokenExpiry(claims),
	})
}

// Logout -> revoke the token used for this request
func (ac *AuthController) Logout(c *gin.Context) {
	claims, ok := staffClaims(c)
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errNoStaffToken)
		return
	}
	utils.RevokeToken(claims.ID, tokenExpiry(claims))
	utils.InfoLogger.Printf("Staff token of %s revoked", claims.Name)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// tokens without exp are revoked for a day
func tokenExpiry(claims *utils.StaffClaims) time.Time {
	if claims.ExpiresAt == nil {
		return time.Now().Add(24 * time.Hour)
	}
	return claims.ExpiresAt.Time
}
