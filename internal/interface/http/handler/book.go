package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	listBooksUseCase  *appbook.ListBooksUseCase
	getBookUseCase    *appbook.GetBookUseCase
	createBookUseCase *appbook.CreateBookUseCase
	deleteBookUseCase *appbook.DeleteBookUseCase
	setStockUseCase   *appbook.SetStockUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listBooksUseCase *appbook.ListBooksUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	createBookUseCase *appbook.CreateBookUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
	setStockUseCase *appbook.SetStockUseCase,
) *BookHandler {
	return &BookHandler{
		listBooksUseCase:  listBooksUseCase,
		getBookUseCase:    getBookUseCase,
		createBookUseCase: createBookUseCase,
		deleteBookUseCase: deleteBookUseCase,
		setStockUseCase:   setStockUseCase,
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  分页查询图书,支持按书名、作者、分类搜索;page_size为0时返回全部
// @Tags         图书
// @Produce      json
// @Param        page      query int    false "页码" default(1)
// @Param        page_size query int    false "每页数量,0表示全部" default(0)
// @Param        keyword   query string false "关键词"
// @Param        sort_by   query string false "排序" Enums(price_asc, price_desc, created_at_desc)
// @Success      200 {object} response.Response{data=appbook.ListBooksResponse}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		SortBy:   req.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookInfo}
// @Failure      200 {object} response.Response "40402 图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.getBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateBook 上架图书
// @Summary      上架图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookInfo}
// @Router       /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.createBookUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Title:    req.Title,
		Author:   req.Author,
		Price:    req.Price,
		Category: req.Category,
		ImageURL: req.ImageURL,
		Stock:    req.Stock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteBook 下架图书,同时移除所有购物车中的该书
// @Summary      下架图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.deleteBookUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

// SetStock 设置库存
// @Summary      设置库存
// @Description  直接覆盖库存数量,不影响已在购物车中的数量
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                   true "图书ID"
// @Param        request body dto.SetStockRequest   true "库存"
// @Success      200 {object} response.Response{data=appbook.BookInfo}
// @Router       /api/v1/books/{id}/stock [patch]
func (h *BookHandler) SetStock(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.setStockUseCase.Execute(c.Request.Context(), appbook.SetStockRequest{
		BookID: id,
		Stock:  *req.Stock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
