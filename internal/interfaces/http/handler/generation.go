package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"icang-ai-api/internal/application/content"
	"icang-ai-api/internal/interfaces/http/dto"
	"icang-ai-api/internal/interfaces/http/middleware"
	apperrors "icang-ai-api/pkg/errors"
	"icang-ai-api/pkg/logger"
	"icang-ai-api/pkg/utils"
)

// GenerationHandler 内容生成处理器
type GenerationHandler struct {
	service *content.Service
}

// NewGenerationHandler 创建内容生成处理器
func NewGenerationHandler(service *content.Service) *GenerationHandler {
	return &GenerationHandler{service: service}
}

// ListModes 返回可用模式及页面文案，不依赖 API Key
func (h *GenerationHandler) ListModes(c *gin.Context) {
	dto.Success(c, dto.NewModeListResponse(h.service.Modes()))
}

// Generate 执行一次同步生成
func (h *GenerationHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var body dto.GenerateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		dto.AbortWithError(c, apperrors.ErrInvalidParam.WithDetail(err.Error()))
		return
	}

	req, err := body.ToEntity()
	if err != nil {
		dto.AbortWithError(c, err)
		return
	}

	if v, ok := c.Get(middleware.ClaimsKey); ok {
		if claims, ok := v.(*utils.Claims); ok && !claims.AllowsMode(req.Mode.String()) {
			dto.Error(c, http.StatusForbidden, "mode not permitted for this client")
			c.Abort()
			return
		}
	}

	res, err := h.service.GenerateContent(ctx, req)
	if err != nil {
		if !apperrors.IsValidation(err) {
			logger.Warn(ctx, "generate rejected", "mode", req.Mode.String(), "error", err.Error())
		}
		dto.AbortWithError(c, err)
		return
	}

	if !res.OK() {
		dto.ErrorWithDetail(c, http.StatusBadGateway, res.Message, &dto.ErrorDetail{
			ErrorCode: string(apperrors.CodeLLMCallFailed),
			Details:   apperrors.ErrLLMCallFailed.Message,
		})
		return
	}

	dto.Success(c, dto.ToGenerateResponse(res))
}
