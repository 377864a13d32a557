package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/game-updater/internal/errors"
	"github.com/Kamar-Folarin/game-updater/internal/launcher"
	"github.com/Kamar-Folarin/game-updater/internal/models"
)

const defaultHistoryLimit = 20

type Handler struct {
	service launcher.GameService
	logger  *logrus.Logger
}

func NewHandler(service launcher.GameService, logger *logrus.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Health reports service liveness
// @Summary Health check
// @Description Report that the launcher backend is running
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, newHealthResponse(time.Now()))
}

// CheckVersion compares the installed and published versions
// @Summary Check game version
// @Description Fetch the published version and compare it with the installed one
// @Tags game
// @Produce json
// @Success 200 {object} models.VersionCheck
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /game/check [post]
func (h *Handler) CheckVersion(c *gin.Context) {
	check, err := h.service.CheckVersion(c.Request.Context())
	if err != nil {
		h.respondWithError(c, "check version", err)
		return
	}
	c.JSON(http.StatusOK, check)
}

// CloneGame installs the game
// @Summary Clone game
// @Description Clone the game repository into the install directory. With async=true the transfer runs in the background and progress is read from /game/progress.
// @Tags game
// @Produce json
// @Param async query bool false "Run in the background" default(false)
// @Success 200 {object} models.SyncOutcome
// @Success 202 {object} models.SyncOutcome
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /game/clone [post]
func (h *Handler) CloneGame(c *gin.Context) {
	h.runSync(c, "clone", h.service.Clone, h.service.StartClone)
}

// UpdateGame brings the installed game up to date
// @Summary Update game
// @Description Pull the latest game files when the published version differs from the installed one
// @Tags game
// @Produce json
// @Param async query bool false "Run in the background" default(false)
// @Success 200 {object} models.SyncOutcome
// @Success 202 {object} models.SyncOutcome
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /game/update [post]
func (h *Handler) UpdateGame(c *gin.Context) {
	h.runSync(c, "update", h.service.Update, h.service.StartUpdate)
}

type syncFunc func(ctx context.Context) (*models.SyncOutcome, error)

func (h *Handler) runSync(c *gin.Context, action string, blocking, background syncFunc) {
	async, err := getBoolQueryParam(c, "async", false)
	if err != nil {
		h.respondWithError(c, action, errors.NewValidationError("invalid async parameter", err))
		return
	}

	run, status := blocking, http.StatusOK
	if async {
		run, status = background, http.StatusAccepted
	}

	outcome, err := run(c.Request.Context())
	if err != nil {
		h.respondWithError(c, action, err)
		return
	}
	// Nothing was started when the game is already current.
	if outcome.UpToDate {
		status = http.StatusOK
	}
	c.JSON(status, outcome)
}

// LaunchGame starts the installed game
// @Summary Launch game
// @Description Start the game launcher. On non-Windows hosts it runs through wine.
// @Tags game
// @Produce json
// @Success 200 {object} models.LaunchResult
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /game/launch [post]
func (h *Handler) LaunchGame(c *gin.Context) {
	result, err := h.service.Launch(c.Request.Context())
	if err != nil {
		h.respondWithError(c, "launch", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetProgress returns the progress of the latest clone or update
// @Summary Get transfer progress
// @Description Snapshot of the most recent clone or update. Safe to poll while a transfer runs.
// @Tags game
// @Produce json
// @Success 200 {object} progress.Snapshot
// @Router /game/progress [get]
func (h *Handler) GetProgress(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Progress())
}

// SetGamePath changes the install directory
// @Summary Set game path
// @Description Change where the game is installed. Existing files are not moved.
// @Tags game
// @Accept json
// @Produce json
// @Param request body SetGamePathRequest true "New install directory"
// @Success 200 {object} GamePathResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /game/path [put]
func (h *Handler) SetGamePath(c *gin.Context) {
	var req SetGamePathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, "set game path", errors.NewValidationError("invalid request body", err))
		return
	}

	gamePath, err := h.service.SetGamePath(c.Request.Context(), req.Path)
	if err != nil {
		h.respondWithError(c, "set game path", err)
		return
	}
	c.JSON(http.StatusOK, GamePathResponse{Status: models.StatusOK, GamePath: gamePath})
}

// GetSyncHistory lists recent clone and update runs
// @Summary Get sync history
// @Description List recent clone and update runs, newest first
// @Tags sync
// @Produce json
// @Param limit query int false "Number of records to return" default(20)
// @Success 200 {object} SyncHistoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sync/history [get]
func (h *Handler) GetSyncHistory(c *gin.Context) {
	limit, err := getIntQueryParam(c, "limit", defaultHistoryLimit)
	if err != nil {
		h.respondWithError(c, "sync history", errors.NewValidationError("invalid limit parameter", err))
		return
	}

	records, err := h.service.History(c.Request.Context(), limit)
	if err != nil {
		h.respondWithError(c, "sync history", err)
		return
	}
	if records == nil {
		records = []*models.SyncRecord{}
	}
	c.JSON(http.StatusOK, SyncHistoryResponse{Status: models.StatusOK, Records: records, Count: len(records)})
}

func (h *Handler) respondWithError(c *gin.Context, action string, err error) {
	errType := errors.TypeOf(err)
	code := statusCode(errType)

	entry := h.logger.WithError(err).WithFields(logrus.Fields{
		"action":     action,
		"error_type": errType,
		"status":     code,
	})
	if code >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	c.JSON(code, ErrorResponse{Status: models.StatusError, Error: errors.MessageOf(err), Type: string(errType)})
}

func statusCode(t errors.ErrorType) int {
	switch t {
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrAlreadyExists, errors.ErrSyncInProgress:
		return http.StatusConflict
	case errors.ErrInvalidInput:
		return http.StatusBadRequest
	case errors.ErrUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func getIntQueryParam(c *gin.Context, param string, defaultValue int) (int, error) {
	value := c.Query(param)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}

func getBoolQueryParam(c *gin.Context, param string, defaultValue bool) (bool, error) {
	value := c.Query(param)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.ParseBool(value)
}
