package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/here-event-os/internal/middleware"
	"github.com/noah-isme/here-event-os/internal/models"
	appErrors "github.com/noah-isme/here-event-os/pkg/errors"
)

func sessionFromContext(c *gin.Context) (*models.Session, error) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	return session, nil
}

func queueParam(c *gin.Context) models.QueueName {
	return models.QueueName(c.Param("queue"))
}

func positionParam(c *gin.Context) (int, error) {
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil || position < 1 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "position must be a positive row number")
	}
	return position, nil
}
