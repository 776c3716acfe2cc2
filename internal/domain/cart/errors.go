package cart

import (
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

var (
	ErrLineNotFound = apperrors.ErrCartLineNotFound
	ErrEmptyCart    = apperrors.ErrEmptyCart
)
