package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/diewo77/go-shop/internal/apperr"
	"github.com/diewo77/go-shop/internal/gate"
	"github.com/diewo77/go-shop/internal/httpx"
	"github.com/diewo77/go-shop/internal/i18n"
	"github.com/diewo77/go-shop/internal/validation"
)

var kindStatus = map[apperr.Kind]int{
	apperr.KindInvalidQuantity:       http.StatusBadRequest,
	apperr.KindInvalidInput:          http.StatusBadRequest,
	apperr.KindIndexOutOfRange:       http.StatusNotFound,
	apperr.KindNotFound:              http.StatusNotFound,
	apperr.KindDiscountUnknown:       http.StatusNotFound,
	apperr.KindEmptyCart:             http.StatusUnprocessableEntity,
	apperr.KindDiscountExpired:       http.StatusUnprocessableEntity,
	apperr.KindDiscountMinimumNotMet: http.StatusUnprocessableEntity,
	apperr.KindInsufficientStock:     http.StatusConflict,
	apperr.KindAlreadyCancelled:      http.StatusConflict,
	apperr.KindInvalidTransition:     http.StatusConflict,
	apperr.KindTransactionConflict:   http.StatusConflict,
	apperr.KindForbidden:             http.StatusForbidden,
	apperr.KindPersistenceFailure:    http.StatusInternalServerError,
}

// StatusFor returns the HTTP status of a domain error kind.
func StatusFor(k apperr.Kind) int {
	if s, ok := kindStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// writeError renders err as {"error": code, "message": localized, "details": ...}.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	lang := i18n.LangFrom(r.Context())
	if errors.Is(err, gate.ErrUnauthorized) {
		err = apperr.Wrap(apperr.KindForbidden, "authorize", err)
	}
	kind := apperr.KindOf(err)
	code := kind.String()

	var details any
	var v validation.Violations
	if errors.As(err, &v) {
		details = i18n.Localize(lang, v)
	}
	httpx.JSONError(w, StatusFor(kind), code, i18n.T(lang, code), details)
}

func badRequest(w http.ResponseWriter, r *http.Request, detail string) {
	writeError(w, r, apperr.New(apperr.KindInvalidInput, "decode", "%s", detail))
}

func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.New(apperr.KindInvalidInput, "path", "%s %q", name, r.PathValue(name))
	}
	return uint(id), nil
}

func pathIndex(r *http.Request) (int, error) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		return 0, apperr.New(apperr.KindIndexOutOfRange, "path", "index %q", r.PathValue("index"))
	}
	return i, nil
}
