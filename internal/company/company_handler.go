package company

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("company.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) GetMe(c *gin.Context) {
	companyID := c.GetUint("company_id")
	if companyID == 0 {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	comp, err := h.service.GetByID(c.Request.Context(), companyID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, comp, nil)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	log := contextutil.GetLogger(c.Request.Context(), h.logger)
	companyID := c.GetUint("company_id")
	if companyID == 0 {
		response.FromError(c, apperror.ErrUnauthorized)
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	comp, err := h.service.Update(c.Request.Context(), companyID, req)
	if err != nil {
		log.Warn("update company failed", zap.Uint("company_id", companyID), zap.Error(err))
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, comp, nil)
}
