package handler

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/segyhp/lendbook/internal/domain"
	"github.com/segyhp/lendbook/pkg/response"
)

// CalculatorService is the calculator operation exposed over HTTP.
type CalculatorService interface {
	Calculate(ctx context.Context, request *domain.CalculateRequest) (*domain.CalculateResponse, error)
}

type CalculatorHandler struct {
	service   CalculatorService
	validator *validator.Validate
}

func NewCalculatorHandler(service CalculatorService) *CalculatorHandler {
	return &CalculatorHandler{
		service:   service,
		validator: newValidator(),
	}
}

// Calculate handles POST /calculator
func (h *CalculatorHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var request domain.CalculateRequest
	if err := decodeAndValidate(r, h.validator, &request); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Calculate(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, result)
}
