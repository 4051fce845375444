package services

import (
	"context"
	"errors"
	"time"

	"crm/internal/domain"
	applog "crm/internal/log"
)

const defaultTimeout = 5 * time.Second

var businessErrs = []error{
	domain.ErrNotFound,
	domain.ErrAlreadyExists,
	domain.ErrBadPassword,
	domain.ErrInvalidCredential,
	domain.ErrUnauthenticated,
	domain.ErrForbidden,
	domain.ErrInsufficientStock,
	domain.ErrInvalidInput,
	domain.ErrUnavailable,
}

// fault passes business errors through and turns everything else (driver
// faults, timeouts, serialization errors) into ErrUnavailable after logging
// the raw cause.
func fault(action string, err error, fields map[string]any) error {
	if err == nil {
		return nil
	}
	for _, be := range businessErrs {
		if errors.Is(err, be) {
			return err
		}
	}
	applog.Error(nil, action, err, fields)
	return domain.ErrUnavailable
}

func bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultTimeout
	}
	return context.WithTimeout(ctx, d)
}

func requireActor(actor domain.Identity) error {
	if actor.ID == "" {
		return domain.ErrUnauthenticated
	}
	return nil
}
