package server

import (
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/treescape/pkg/errors"
	"github.com/matzehuels/treescape/pkg/render"
	"github.com/matzehuels/treescape/pkg/store"
	"github.com/matzehuels/treescape/pkg/tree"
)

type errorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

// statusByCode maps error codes to HTTP statuses.
var statusByCode = map[errors.Code]int{
	errors.ErrCodeInvalidInput:  http.StatusBadRequest,
	errors.ErrCodeInvalidTree:   http.StatusUnprocessableEntity,
	errors.ErrCodeInvalidConfig: http.StatusInternalServerError,
	errors.ErrCodeInvalidFormat: http.StatusBadRequest,
	errors.ErrCodeNotFound:      http.StatusNotFound,
	errors.ErrCodeUnknownNode:   http.StatusNotFound,
	errors.ErrCodeDuplicateNode: http.StatusConflict,
	errors.ErrCodeStorage:       http.StatusServiceUnavailable,
	errors.ErrCodeTimeout:       http.StatusGatewayTimeout,
	errors.ErrCodeInternal:      http.StatusInternalServerError,
	errors.ErrCodeUnsupported:   http.StatusNotImplemented,
}

// classify picks the code of err. Known sentinels anywhere in the chain
// win over the outermost code.
func classify(err error) errors.Code {
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		return errors.ErrCodeNotFound
	case stderrors.Is(err, store.ErrExists), stderrors.Is(err, tree.ErrDuplicateNodeID):
		return errors.ErrCodeDuplicateNode
	case stderrors.Is(err, tree.ErrUnknownNode), stderrors.Is(err, tree.ErrUnknownParent):
		return errors.ErrCodeUnknownNode
	case stderrors.Is(err, tree.ErrInvalidNodeID),
		stderrors.Is(err, tree.ErrInvalidKind),
		stderrors.Is(err, tree.ErrRemoveRoot),
		stderrors.Is(err, tree.ErrSiblingTaken):
		return errors.ErrCodeInvalidInput
	case stderrors.Is(err, render.ErrConverterMissing):
		return errors.ErrCodeUnsupported
	}
	if code := errors.GetCode(err); code != "" {
		return code
	}
	return errors.ErrCodeInternal
}

// storeError codes a store failure. Sentinels pass through unchanged.
func storeError(err error, op string) error {
	if err == nil || stderrors.Is(err, store.ErrNotFound) || stderrors.Is(err, store.ErrExists) {
		return err
	}
	return errors.Wrap(errors.ErrCodeStorage, err, "%s", op)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := classify(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}
	if code.Temporary() {
		w.Header().Set("Retry-After", "1")
	}
	writeJSON(w, status, errorResponse{Code: code, Error: errors.Detail(err)})
}
