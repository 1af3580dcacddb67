package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"stockval/internal/application"
	"stockval/internal/domain"
)

type errorBody struct {
	Code     int           `json:"code"`
	Message  string        `json:"message"`
	Failures []failureBody `json:"failures,omitempty"`
}

type failureBody struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Code: status, Message: msg})
}

// statusFor maps the error taxonomy onto HTTP status codes. Portfolio
// errors match on any of their failures; client errors are checked first.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrBadFormat),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrNoHoldings):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoMatch),
		errors.Is(err, domain.ErrNoDataBeforeFloor):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDivisionByZero):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrProviderError),
		errors.Is(err, domain.ErrInvalidCurrencyPair):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func errorBodyFor(status int, err error) errorBody {
	body := errorBody{Code: status, Message: err.Error()}
	if status == http.StatusInternalServerError {
		body.Message = http.StatusText(status)
	}
	var pe *application.PortfolioError
	if errors.As(err, &pe) {
		for _, f := range pe.Failures {
			body.Failures = append(body.Failures, failureBody{Symbol: f.Symbol, Error: f.Err.Error()})
		}
	}
	return body
}
