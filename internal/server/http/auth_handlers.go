package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/dsalog/internal/common"
	"github.com/dmitrijs2005/dsalog/internal/server/metrics"
	"github.com/dmitrijs2005/dsalog/internal/server/models"
)

func (s *Server) signup(c *gin.Context) {
	var in models.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.metrics.RecordAuth("signup", metrics.OutcomeFailure)
		abortInvalidBody(c)
		return
	}

	user, err := s.users.Signup(c.Request.Context(), in)
	s.recordAuth("signup", err)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("User %s %s created successfully", strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)),
		"user":    user.Public(),
	})
}

func (s *Server) login(c *gin.Context) {
	var in models.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.metrics.RecordAuth("login", metrics.OutcomeFailure)
		abortInvalidBody(c)
		return
	}

	session, err := s.users.Login(c.Request.Context(), in)
	s.recordAuth("login", err)
	if err != nil {
		abortWithError(c, err)
		return
	}

	s.setSessionCookie(c, session.Token)
	c.JSON(http.StatusOK, gin.H{"user": session.User.Public()})
}

// logout clears the cookie before revoking so the client loses its
// session even when revocation fails.
func (s *Server) logout(c *gin.Context) {
	token, _ := c.Cookie(common.SessionCookieName)
	s.clearSessionCookie(c)

	err := s.users.Logout(c.Request.Context(), token)
	s.recordAuth("logout", err)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

func (s *Server) checkAuth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
}

func (s *Server) changePassword(c *gin.Context) {
	var in models.ChangePasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.metrics.RecordAuth("change_password", metrics.OutcomeFailure)
		abortInvalidBody(c)
		return
	}

	session, err := s.users.ChangePassword(c.Request.Context(), currentUser(c).ID, in)
	s.recordAuth("change_password", err)
	if err != nil {
		abortWithError(c, err)
		return
	}

	s.setSessionCookie(c, session.Token)
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func (s *Server) recordAuth(operation string, err error) {
	if err == nil {
		s.metrics.RecordAuth(operation, metrics.OutcomeSuccess)
		return
	}
	status, _ := errorResponse(err)
	s.metrics.RecordAuth(operation, outcome(status))
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
