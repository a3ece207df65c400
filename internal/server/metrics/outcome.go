package metrics

import (
	"errors"

	"github.com/dmitrijs2005/filevault/internal/common"
)

// Outcome maps an operation error to a low-cardinality label.
func Outcome(err error) string {
	var (
		ve *common.ValidationError
		se *common.StoreError
		pe *common.PersistenceError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ve):
		return "invalid"
	case errors.Is(err, common.ErrorForbidden):
		return "forbidden"
	case errors.Is(err, common.ErrorNotFound):
		return "not_found"
	case errors.Is(err, common.ErrorUnauthorized):
		return "unauthorized"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return "bad_token"
	case errors.As(err, &se):
		return "store_error"
	case errors.As(err, &pe):
		return "db_error"
	default:
		return "error"
	}
}
