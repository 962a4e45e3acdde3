package handler

import (
	"github.com/gin-gonic/gin"

	apptx "github.com/xiebiao/bookstore-api/internal/application/transaction"
	"github.com/xiebiao/bookstore-api/internal/interface/http/dto"
	"github.com/xiebiao/bookstore-api/internal/interface/http/middleware"
	"github.com/xiebiao/bookstore-api/pkg/pagination"
	"github.com/xiebiao/bookstore-api/pkg/response"
)

// TransactionHandler 交易HTTP处理器
type TransactionHandler struct {
	createUseCase     *apptx.CreateTransactionUseCase
	listUseCase       *apptx.ListTransactionsUseCase
	getUseCase        *apptx.GetTransactionUseCase
	statisticsUseCase *apptx.GetStatisticsUseCase
}

// NewTransactionHandler 创建交易处理器
func NewTransactionHandler(
	createUseCase *apptx.CreateTransactionUseCase,
	listUseCase *apptx.ListTransactionsUseCase,
	getUseCase *apptx.GetTransactionUseCase,
	statisticsUseCase *apptx.GetStatisticsUseCase,
) *TransactionHandler {
	return &TransactionHandler{
		createUseCase:     createUseCase,
		listUseCase:       listUseCase,
		getUseCase:        getUseCase,
		statisticsUseCase: statisticsUseCase,
	}
}

// Create 创建交易
// @Summary      创建交易
// @Description  同一本书出现多次时数量合并;扣减库存与写入交易在同一个事务中完成
// @Tags         交易
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateTransactionRequest true "购买明细"
// @Success      201 {object} response.Response{data=apptx.TransactionResponse}
// @Failure      400 {object} response.Response "库存不足"
// @Failure      401 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "并发冲突,请重试"
// @Failure      422 {object} response.Response{data=[]apperrors.FieldError} "参数校验失败"
// @Router       /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), apptx.CreateTransactionRequest{
		UserID:   middleware.GetUserID(c),
		Username: middleware.GetUsername(c),
		Items:    req.Lines(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "交易创建成功", result)
}

// List 交易列表(最新的在前)
// @Summary      交易列表
// @Tags         交易
// @Produce      json
// @Security     BearerAuth
// @Param        page  query int false "页码" default(1)
// @Param        limit query int false "每页数量(1-100)" default(10)
// @Success      200 {object} response.Response{data=[]apptx.TransactionResponse,meta=pagination.Meta}
// @Router       /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	params := pagination.Parse(c.Query("page"), c.Query("limit"))

	result, err := h.listUseCase.Execute(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, "获取成功", result.List, result.Meta)
}

// Get 交易详情
// @Summary      交易详情
// @Tags         交易
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "交易ID"
// @Success      200 {object} response.Response{data=apptx.TransactionResponse}
// @Failure      404 {object} response.Response "交易不存在"
// @Router       /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	result, err := h.getUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "获取成功", result)
}

// Statistics 交易统计
// @Summary      交易统计
// @Description  交易总数、平均金额、最畅销和最滞销的分类(没有销量时为null)
// @Tags         交易
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=apptx.StatisticsResponse}
// @Router       /api/v1/transactions/statistics [get]
func (h *TransactionHandler) Statistics(c *gin.Context) {
	result, err := h.statisticsUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "获取成功", result)
}
