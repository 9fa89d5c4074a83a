package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/invoiced/internal/invoice/domain"
)

type createClientPayload struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type updateClientPayload struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (s *Server) ListClients(c *gin.Context) {
	clients, err := s.clientSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": clients})
}

func (s *Server) GetClientByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	client, err := s.clientSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": client})
}

func (s *Server) CreateClient(c *gin.Context) {
	var payload createClientPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, domain.ErrInvalidRequest)
		return
	}

	client, err := s.clientSvc.Create(c.Request.Context(), domain.CreateClientRequest{
		Name:  payload.Name,
		Email: payload.Email,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": client})
}

func (s *Server) UpdateClient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var payload updateClientPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, domain.ErrInvalidRequest)
		return
	}

	client, err := s.clientSvc.Update(c.Request.Context(), id, domain.UpdateClientRequest{
		Name:  payload.Name,
		Email: payload.Email,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": client})
}

func (s *Server) DeleteClient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := s.clientSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
