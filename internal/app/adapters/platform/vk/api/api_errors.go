package api

import (
	"errors"
	"fmt"
)

var (
	ErrRateLimited = errors.New("rate limited")
	ErrAPI         = errors.New("vk api error")
)

// коды ошибок VK API, на которые повторяем запрос
const (
	codeTooManyRequests = 6
	codeFloodControl    = 9
)

type APIError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vk api error %d: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrAPI
}

func (e *APIError) retryable() bool {
	return e.Code == codeTooManyRequests || e.Code == codeFloodControl
}
