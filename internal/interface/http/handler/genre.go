package handler

import (
	"github.com/gin-gonic/gin"

	appgenre "github.com/xiebiao/bookstore-api/internal/application/genre"
	"github.com/xiebiao/bookstore-api/internal/interface/http/dto"
	"github.com/xiebiao/bookstore-api/pkg/response"
)

// GenreHandler 分类HTTP处理器
type GenreHandler struct {
	genres *appgenre.GenreUseCase
}

// NewGenreHandler 创建分类处理器
func NewGenreHandler(genres *appgenre.GenreUseCase) *GenreHandler {
	return &GenreHandler{genres: genres}
}

// Create 创建分类
// @Summary      创建分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.GenreRequest true "分类名称"
// @Success      201 {object} response.Response{data=appgenre.GenreResponse}
// @Failure      409 {object} response.Response "分类已存在"
// @Failure      422 {object} response.Response "参数校验失败"
// @Router       /api/v1/genre [post]
func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.GenreRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.genres.Create(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "分类创建成功", result)
}

// List 分类列表
// @Summary      分类列表
// @Tags         分类
// @Produce      json
// @Security     BearerAuth
// @Param        page        query int    false "页码" default(1)
// @Param        limit       query int    false "每页数量(1-100)" default(10)
// @Param        search      query string false "名称包含"
// @Param        orderByName query string false "按名称排序" Enums(asc, desc)
// @Success      200 {object} response.Response{data=[]appgenre.GenreResponse,meta=pagination.Meta}
// @Router       /api/v1/genre [get]
func (h *GenreHandler) List(c *gin.Context) {
	var q dto.ListGenresQuery
	if !bindQuery(c, &q) {
		return
	}

	result, err := h.genres.List(c.Request.Context(), appgenre.ListGenresRequest{
		Page:        q.Pagination(),
		Search:      q.Search,
		OrderByName: q.OrderByName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, "获取成功", result.List, result.Meta)
}

// Get 分类详情
// @Summary      分类详情
// @Tags         分类
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "分类ID"
// @Success      200 {object} response.Response{data=appgenre.GenreResponse}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/genre/{id} [get]
func (h *GenreHandler) Get(c *gin.Context) {
	result, err := h.genres.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "获取成功", result)
}

// Update 重命名分类
// @Summary      修改分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string           true "分类ID"
// @Param        request body dto.GenreRequest true "新名称"
// @Success      200 {object} response.Response{data=appgenre.GenreResponse}
// @Failure      404 {object} response.Response "分类不存在"
// @Failure      409 {object} response.Response "分类已存在"
// @Router       /api/v1/genre/{id} [patch]
func (h *GenreHandler) Update(c *gin.Context) {
	var req dto.GenreRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.genres.Rename(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "分类修改成功", result)
}

// Delete 删除分类(软删除)
// @Summary      删除分类
// @Tags         分类
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "分类ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/genre/{id} [delete]
func (h *GenreHandler) Delete(c *gin.Context) {
	if err := h.genres.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "分类删除成功", nil)
}
