package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"linkboard/internal/domain"
)

const uniqueViolation = pq.ErrorCode("23505")

func mapInsertError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", pqErr.Constraint, domain.ErrAlreadyRegistered)
	}
	return err
}
