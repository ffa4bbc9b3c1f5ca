package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	searchUC "github.com/khoahotran/me-api/internal/application/usecase/search"
	"github.com/khoahotran/me-api/pkg/apperror"
	"github.com/khoahotran/me-api/pkg/logger"
)

type searchService interface {
	Execute(ctx context.Context, input searchUC.SearchInput) (*searchUC.SearchOutput, error)
}

type SearchHandler struct {
	searchUseCase searchService
	logger        logger.Logger
}

func NewSearchHandler(uc searchService, log logger.Logger) *SearchHandler {
	return &SearchHandler{
		searchUseCase: uc,
		logger:        log,
	}
}

func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.Error(apperror.NewInvalidInput("'q' query param is required", nil))
		return
	}

	output, err := h.searchUseCase.Execute(c.Request.Context(), searchUC.SearchInput{Query: query})
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]SearchResultDTO, len(output.Results))
	for i, res := range output.Results {
		dtos[i] = ToSearchResultDTO(res)
	}
	c.JSON(http.StatusOK, dtos)
}
