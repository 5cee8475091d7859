package service

import (
	"errors"

	"github.com/stemsi/unirecords-backend/internal/repository"
)

// notFoundAs replaces a repository not-found error with a more specific one.
// Other errors, and nil, pass through unchanged.
func notFoundAs(err, target error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return target
	}
	return err
}
