package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"shipment_backoffice/internal/middleware"
)

type loginInput struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// AuthController signs in the single back-office administrator configured
// by ADMIN_EMAIL and ADMIN_PASSWORD_HASH.
type AuthController struct {
	auth         *middleware.Auth
	adminEmail   string
	passwordHash []byte
}

func NewAuthController(auth *middleware.Auth, adminEmail, passwordHash string) *AuthController {
	return &AuthController{
		auth:         auth,
		adminEmail:   adminEmail,
		passwordHash: []byte(passwordHash),
	}
}

func (ac *AuthController) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c, "email and password are required.")
		return
	}

	if len(ac.passwordHash) == 0 ||
		!strings.EqualFold(input.Email, ac.adminEmail) ||
		bcrypt.CompareHashAndPassword(ac.passwordHash, []byte(input.Password)) != nil {
		c.JSON(http.StatusUnauthorized, errorBody{
			Errors:    []string{"Invalid email or password."},
			RequestID: middleware.GetRequestID(c),
		})
		return
	}

	token, err := ac.auth.GenerateToken(ac.adminEmail)
	if err != nil {
		logrus.WithError(err).Error("could not sign token")
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(ac.auth.TTL().Seconds()), "/", "", false, true)

	// The sign-in page posts a form and expects to land back on the site.
	if c.ContentType() != "application/json" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
