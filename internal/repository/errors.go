// Package repository provides data access layer implementations for the server.
package repository

import (
	"errors"

	"gamerhub/internal/models"

	"gorm.io/gorm"
)

// translate maps gorm errors onto AppErrors.
func translate(err error, resource string, id interface{}) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewInternalError(err)
}
