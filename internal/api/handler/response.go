package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RoyceAzure/lab/shoeshop/internal/constants"
	"github.com/RoyceAzure/lab/shoeshop/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/shoeshop/internal/pkg/sizes"
	"github.com/RoyceAzure/lab/shoeshop/internal/service"
	"github.com/rs/zerolog/log"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeError 把 service/repo 的錯誤種類翻成 HTTP 狀態碼
// 對應關係: 空車/格式錯 400, 庫存衝突 409, 不存在 404, 其餘 500
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidCartItem),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidSize),
		errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidReview),
		errors.Is(err, service.ErrReviewNotAllowed),
		errors.Is(err, sizes.ErrInvalidSizesInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrSizeSoldOut),
		errors.Is(err, service.ErrStockNotEnough),
		errors.Is(err, db.ErrProductStockNotEnough):
		status = http.StatusConflict
	case errors.Is(err, db.ErrProductNotFound),
		errors.Is(err, db.ErrSizeNotExist),
		errors.Is(err, db.ErrCartItemNotFound),
		errors.Is(err, db.ErrOrderNotFound),
		errors.Is(err, db.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("unexpected error")
		writeJSON(w, status, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// getUserID 從 context 取登入者，middleware 已保證存在
func getUserID(r *http.Request) int {
	userID, _ := r.Context().Value(constants.UserIDKey).(int)
	return userID
}
