package dto

// CreateBookRequest HTTP上架请求
// 价格单位为分,业务规则(价格>0、库存>=0)在领域层再校验一次
type CreateBookRequest struct {
	Title    string `json:"title" binding:"required,notblank,max=200" example:"The Go Programming Language"`
	Author   string `json:"author" binding:"required,notblank,max=100" example:"Alan Donovan"`
	Price    int64  `json:"price" binding:"required,min=1,max=99999999" example:"5900"` // 分
	Category string `json:"category" binding:"required,notblank,max=50" example:"Programming"`
	ImageURL string `json:"image_url" binding:"omitempty,url,max=500" example:"https://example.com/cover.jpg"`
	Stock    int    `json:"stock" binding:"min=0" example:"10"`
}

// ListBooksRequest HTTP图书列表请求
// page_size为0或缺省时返回全部
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=0,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"Go"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc created_at_desc" example:"created_at_desc"`
}

// SetStockRequest 管理员直接设置库存
// 负数由用例返回参数错误
type SetStockRequest struct {
	Stock *int `json:"stock" binding:"required" example:"20"`
}
