package handlers

import (
	"errors"
	"net/http"

	"github.com/preston-bernstein/prediction-service/internal/app/predictions"
	"github.com/preston-bernstein/prediction-service/internal/domain/money"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
	"github.com/preston-bernstein/prediction-service/internal/logging"
)

type predictRequest struct {
	UserID string       `json:"userId" validate:"required"`
	GameID string       `json:"gameId" validate:"required"`
	Pick   string       `json:"pick" validate:"required"`
	Amount money.Amount `json:"amount" validate:"gt=0"`
}

type predictResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	User    users.User `json:"user"`
}

const predictionPlacedMessage = "Prediction placed successfully"

// Predict debits the user and records a pending prediction.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}

	var body predictRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if err := h.validate.Struct(body); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err), h.logger)
		return
	}

	user, err := h.predictions.Submit(r.Context(), predictions.Request{
		UserID: body.UserID,
		GameID: body.GameID,
		Pick:   body.Pick,
		Amount: body.Amount,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, predictResponse{
		Success: true,
		Message: predictionPlacedMessage,
		User:    user,
	}, h.logger)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, predictions.ErrUserNotFound):
		writeError(w, r, http.StatusNotFound, "User not found", h.logger)
	case errors.Is(err, predictions.ErrInsufficientBalance):
		writeError(w, r, http.StatusBadRequest, "Insufficient balance", h.logger)
	case errors.Is(err, predictions.ErrInvalidPrediction):
		writeError(w, r, http.StatusBadRequest, err.Error(), h.logger)
	default:
		logging.Error(loggerFromContext(r, h.logger), "ledger request failed", err)
		writeError(w, r, http.StatusInternalServerError, "internal error", h.logger)
	}
}
