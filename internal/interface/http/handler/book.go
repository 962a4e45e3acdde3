package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookstore-api/internal/application/book"
	"github.com/xiebiao/bookstore-api/internal/interface/http/dto"
	"github.com/xiebiao/bookstore-api/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	createUseCase *appbook.CreateBookUseCase
	getUseCase    *appbook.GetBookUseCase
	listUseCase   *appbook.ListBooksUseCase
	updateUseCase *appbook.UpdateBookUseCase
	deleteUseCase *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createUseCase *appbook.CreateBookUseCase,
	getUseCase *appbook.GetBookUseCase,
	listUseCase *appbook.ListBooksUseCase,
	updateUseCase *appbook.UpdateBookUseCase,
	deleteUseCase *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		listUseCase:   listUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// Create 图书上架
// @Summary      创建图书
// @Description  同名(书名+作者+出版社)图书已被删除时恢复该图书并覆盖字段
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      201 {object} response.Response{data=appbook.BookResponse}
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "分类不存在"
// @Failure      409 {object} response.Response "图书已存在"
// @Failure      422 {object} response.Response "参数校验失败"
// @Router       /api/v1/books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req dto.CreateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	stock := 0
	if req.StockQuantity != nil {
		stock = *req.StockQuantity
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Title:           req.Title,
		Writer:          req.Writer,
		Publisher:       req.Publisher,
		ISBN:            req.ISBN,
		Description:     req.Description,
		PublicationYear: req.PublicationYear,
		Condition:       req.Condition,
		Price:           req.Price,
		StockQuantity:   stock,
		GenreID:         req.GenreID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "图书创建成功"
	if result.Restored {
		message = "图书已恢复"
	}
	response.Created(c, message, result.Book)
}

// List 图书列表
// @Summary      图书列表
// @Description  不包含已删除的图书以及已删除分类下的图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        page               query int    false "页码" default(1)
// @Param        limit              query int    false "每页数量(1-100)" default(10)
// @Param        search             query string false "书名包含"
// @Param        condition          query string false "品相" Enums(NEW, LIKE_NEW, VERY_GOOD, GOOD, ACCEPTABLE, POOR)
// @Param        orderByTitle       query string false "按书名排序" Enums(asc, desc)
// @Param        orderByPublishDate query string false "按出版年份排序" Enums(asc, desc)
// @Success      200 {object} response.Response{data=[]appbook.BookResponse,meta=pagination.Meta}
// @Router       /api/v1/books [get]
func (h *BookHandler) List(c *gin.Context) {
	h.list(c, "")
}

// ListByGenre 分类下的图书
// @Summary      分类下的图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        genreId path  string true  "分类ID"
// @Param        page    query int    false "页码" default(1)
// @Param        limit   query int    false "每页数量(1-100)" default(10)
// @Success      200 {object} response.Response{data=[]appbook.BookResponse,meta=pagination.Meta}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/books/genre/{genreId} [get]
func (h *BookHandler) ListByGenre(c *gin.Context) {
	h.list(c, c.Param("genreId"))
}

func (h *BookHandler) list(c *gin.Context, genreID string) {
	var q dto.ListBooksQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:               q.Pagination(),
		GenreID:            genreID,
		Search:             q.Search,
		Condition:          q.Condition,
		OrderByTitle:       q.OrderByTitle,
		OrderByPublishDate: q.OrderByPublishDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, "获取成功", result.List, result.Meta)
}

// Get 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	result, err := h.getUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "获取成功", result)
}

// Update 部分更新图书
// @Summary      修改图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                true "图书ID"
// @Param        request body dto.UpdateBookRequest true "需要修改的字段"
// @Success      200 {object} response.Response{data=appbook.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "图书已存在"
// @Failure      422 {object} response.Response "参数校验失败"
// @Router       /api/v1/books/{id} [patch]
func (h *BookHandler) Update(c *gin.Context) {
	var req dto.UpdateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ID:    c.Param("id"),
		Patch: req.Patch(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "图书修改成功", result)
}

// Delete 图书下架(软删除)
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "图书ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	if err := h.deleteUseCase.Execute(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "图书删除成功", nil)
}
