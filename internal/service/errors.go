package service

import (
	"errors"
	"fmt"

	"github.com/noah-isme/here-event-os/internal/repository"
	appErrors "github.com/noah-isme/here-event-os/pkg/errors"
	"github.com/noah-isme/here-event-os/pkg/tabular"
)

// storeError classifies a failure coming back from the tabular store.
func storeError(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, repository.ErrSchema), errors.Is(err, tabular.ErrTableNotFound):
		return appErrors.Wrap(err, appErrors.ErrSchema.Code, appErrors.ErrSchema.Status, fmt.Sprintf("%s: %v", message, err))
	case errors.Is(err, repository.ErrUnknownField), errors.Is(err, tabular.ErrOutOfRange):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	default:
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, message)
	}
}
