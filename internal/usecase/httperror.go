package usecase

import (
	"errors"
	"fmt"
	"net/http"

	repo "app/internal/repository"
)

// 業務エラーの機械判読コード。HTTPステータスと一緒にレスポンスへ載せる。
const (
	CodeInsufficientStock          = "INSUFFICIENT_STOCK"
	CodeOrderNotFound              = "ORDER_NOT_FOUND"
	CodeDuplicateSchedule          = "DUPLICATE_SCHEDULE"
	CodeInvalidTransition          = "INVALID_TRANSITION"
	CodeCourierUnavailable         = "COURIER_UNAVAILABLE"
	CodeCourierHasActiveDeliveries = "COURIER_HAS_ACTIVE_DELIVERIES"
	CodeAlreadyRequested           = "ALREADY_REQUESTED"
	CodeNotCancellable             = "NOT_CANCELLABLE"
	CodeStorageTimeout             = "STORAGE_TIMEOUT"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// コード付きの業務エラー
func NewBusinessError(status int, code string, message string) error {
	return &HTTPError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// ストレージ層のエラーをHTTPエラーへ。タイムアウトは504で区別する
func dbError(err error) error {
	if errors.Is(err, repo.ErrStorageTimeout) {
		return NewBusinessError(http.StatusGatewayTimeout, CodeStorageTimeout, "storage timeout")
	}
	return NewHTTPError(http.StatusInternalServerError, "db error")
}
