package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type setPhotoRequest struct {
	Photo string `json:"photo"`
}

func (s *Server) photoUploadURL(c *gin.Context) {
	upload, err := s.users.PhotoUploadURL(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

func (s *Server) setPhoto(c *gin.Context) {
	var req setPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidBody(c)
		return
	}

	user, err := s.users.SetPhoto(c.Request.Context(), currentUser(c).ID, req.Photo)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Public()})
}
