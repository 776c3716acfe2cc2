package book

import (
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// 图书领域错误
var (
	ErrBookNotFound      = apperrors.ErrBookNotFound
	ErrInsufficientStock = apperrors.ErrInsufficientStock

	ErrTitleRequired    = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")
	ErrAuthorRequired   = apperrors.New(apperrors.ErrCodeInvalidParams, "作者不能为空")
	ErrCategoryRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "分类不能为空")
	ErrInvalidPrice     = apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须大于0")
	ErrInvalidStock     = apperrors.New(apperrors.ErrCodeInvalidParams, "库存不能为负数")
)
