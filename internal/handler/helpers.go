package handler

import (
	goerrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/inkwell-dev/inkwell/internal/authz"
	"github.com/inkwell-dev/inkwell/internal/errors"
	"github.com/inkwell-dev/inkwell/internal/utils"
)

// writeError maps the error taxonomy onto the wire: validation errors become
// a 422 field map, verification gating a 403 with needs_verification, policy
// denials a 403 with a machine-readable reason. Everything else falls back to
// the status carried by the error, or 500.
func writeError(w http.ResponseWriter, err error) {
	var verr *errors.ValidationError
	if goerrors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": verr.Fields})
		return
	}

	var dup *errors.DuplicateEmailError
	if goerrors.As(err, &dup) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": map[string][]string{"email": {dup.Error()}},
		})
		return
	}

	var nverr *errors.NeedsVerificationError
	if goerrors.As(err, &nverr) {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"message":            nverr.Error(),
			"needs_verification": true,
			"email":              nverr.Email,
		})
		return
	}

	var deny *authz.DenyError
	if goerrors.As(err, &deny) {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"message": deny.Error(),
			"reason":  deny.Reason,
		})
		return
	}

	utils.WriteErrorAndStatusCode(w, err)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// parseIntParam parses an integer route parameter with a meaningful error.
func parseIntParam(param string, paramName string) (int64, error) {
	val, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, &errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("invalid %s: must be an integer", paramName),
			StatusCode: http.StatusBadRequest,
		}
	}
	return val, nil
}
