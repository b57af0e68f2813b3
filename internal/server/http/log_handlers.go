package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/dsalog/internal/server/models"
)

func (s *Server) addLog(c *gin.Context) {
	var in models.LogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortInvalidBody(c)
		return
	}

	entry, err := s.logs.Add(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		abortWithLogError(c, err, msgLogNotFound)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "DSA log added successfully", "log": entry})
}

func (s *Server) listLogs(c *gin.Context) {
	entries, err := s.logs.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		abortWithLogError(c, err, msgNoLogs)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": entries})
}

func (s *Server) updateLog(c *gin.Context) {
	var in models.LogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		abortInvalidBody(c)
		return
	}

	entry, err := s.logs.Update(c.Request.Context(), currentUser(c).ID, c.Param("id"), in)
	if err != nil {
		abortWithLogError(c, err, msgLogNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "DSA log updated successfully", "log": entry})
}

func (s *Server) deleteLog(c *gin.Context) {
	if err := s.logs.Delete(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		abortWithLogError(c, err, msgLogNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "DSA log deleted successfully"})
}
