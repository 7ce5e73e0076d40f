package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minewalk/internal/mines"
	"github.com/vancomm/minewalk/internal/records"
	"github.com/vancomm/minewalk/internal/session"
)

func SendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Add("Content-Type", "application/json")
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, logger *logrus.Logger, v any) {
	sendStatusJSONOrLog(w, logger, http.StatusOK, v)
}

func sendStatusJSONOrLog(w http.ResponseWriter, logger *logrus.Logger, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		logger.WithError(err).WithField("response", v).Error("unable to encode response")
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		logger.WithError(err).Warn("unable to send response")
	}
}

func sendErrorOrLog(w http.ResponseWriter, logger *logrus.Logger, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.WithError(err).Error("request failed")
	}
	sendStatusJSONOrLog(w, logger, status, wrapError(err))
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, mines.ErrInvalidConfiguration),
		errors.Is(err, session.ErrEmptyPlayer):
		return http.StatusBadRequest
	case errors.Is(err, mines.ErrNotStarted),
		errors.Is(err, mines.ErrAlreadyStarted),
		errors.Is(err, mines.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, session.ErrQuit):
		return http.StatusGone
	case errors.Is(err, records.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
