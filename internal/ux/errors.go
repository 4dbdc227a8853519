package ux

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	perrors "github.com/tecsupnav/placesadmin/internal/errors"
	"github.com/tecsupnav/placesadmin/internal/platform"
	"github.com/tecsupnav/placesadmin/internal/resource"
)

// EnhanceError turns client errors into coded errors with recovery
// suggestions. Coded errors and unknown errors pass through unchanged.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	var coded *perrors.Error
	if errors.As(err, &coded) {
		return err
	}

	var conn *platform.ConnectivityError
	if errors.As(err, &conn) {
		if isTimeout(conn.Cause) {
			return perrors.Wrap(perrors.ErrCodeNetTimeout,
				fmt.Sprintf("backend at %s did not answer in time", conn.BaseURL), conn.Cause).
				WithSuggestion("Raise the timeout with 'placesadmin config set timeout 60s'").
				WithSuggestion("The hosted backend may be waking up; try again in a minute")
		}
		return perrors.NewBackendUnreachableError(conn.BaseURL, conn.Cause)
	}

	var verr *platform.ValidationError
	if errors.As(err, &verr) {
		return perrors.NewRequiredFieldError(verr.Field)
	}

	var cerr *platform.ContractError
	if errors.As(err, &cerr) {
		return perrors.Wrap(perrors.ErrCodeHTTPContract,
			fmt.Sprintf("%s %s was not sent", cerr.Method, cerr.Path), cerr.Cause).
			WithSuggestion("Check the flag values against 'placesadmin <command> --help'").
			WithSuggestion("Disable local checks with 'placesadmin config set strict_contract false'")
	}

	if errors.Is(err, resource.ErrQueryTooShort) {
		return perrors.Wrap(perrors.ErrCodeValidationInvalid, "search query is too short", err).
			WithSuggestion(fmt.Sprintf("Use at least %d characters", resource.MinSearchLength))
	}

	if errors.Is(err, resource.ErrNoID) {
		return perrors.NewRequiredFieldError("id")
	}

	var herr *platform.HTTPError
	if errors.As(err, &herr) {
		return enhanceHTTP(herr)
	}

	if errors.Is(err, ErrAborted) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return perrors.Wrap(perrors.ErrCodeNetTimeout, "request timed out", err)
	}
	return err
}

func enhanceHTTP(herr *platform.HTTPError) error {
	switch {
	case herr.Status == http.StatusUnauthorized:
		return perrors.NewSessionExpiredError(herr)
	case herr.Status == http.StatusForbidden:
		return perrors.NewForbiddenError(herr)
	case herr.Status == http.StatusNotFound:
		return perrors.New(perrors.ErrCodeHTTPNotFound, herr.Message).
			WithSuggestion("List the existing records to find the right id")
	case herr.Status == http.StatusConflict:
		return perrors.New(perrors.ErrCodeHTTPConflict, herr.Message)
	case herr.Status == http.StatusBadRequest || herr.Status == http.StatusUnprocessableEntity:
		return perrors.New(perrors.ErrCodeHTTPBadRequest, herr.Message).
			WithSuggestion("Fix the values reported by the backend and retry")
	case herr.Status >= 500:
		return perrors.New(perrors.ErrCodeHTTPServer, herr.Message).
			WithSuggestion("The backend failed; try again later")
	default:
		return perrors.New(perrors.ErrCodeHTTPStatus, fmt.Sprintf("%d %s: %s", herr.Status, herr.StatusText, herr.Message))
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
