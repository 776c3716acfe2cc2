package dto

// AddToCartRequest 加入购物车,每次一本
type AddToCartRequest struct {
	BookID uint `json:"book_id" binding:"required,min=1" example:"1"`
}
