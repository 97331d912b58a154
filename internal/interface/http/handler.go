package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ecoquest/quest-engine/internal/domain/environment"
	"github.com/ecoquest/quest-engine/internal/domain/quest"
	apperrors "github.com/ecoquest/quest-engine/pkg/errors"
)

// Handler wires the HTTP transport to the quest engine.
type Handler struct {
	quests quest.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(quests quest.Service, logger *slog.Logger) *Handler {
	return &Handler{
		quests: quests,
		logger: logger.With("component", "http.handler"),
	}
}

type generateRequest struct {
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// GenerateQuests runs a synthesis cycle for the user at the given location.
func (h *Handler) GenerateQuests(c *gin.Context) {
	userID := c.Param("userId")

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	quests, err := h.quests.Generate(c.Request.Context(), userID, environment.Location{
		City:    req.City,
		Country: req.Country,
		Lat:     req.Lat,
		Lon:     req.Lon,
	})
	if err != nil {
		abortWithError(c, questError(err, "generate_failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"quests": quests})
}

// ListQuests returns the user's quests, most urgent first.
func (h *Handler) ListQuests(c *gin.Context) {
	quests, err := h.quests.List(c.Request.Context(), c.Param("userId"))
	if err != nil {
		abortWithError(c, questError(err, "list_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"quests": quests})
}

type actionRequest struct {
	Action         string `json:"action" binding:"required"`
	ObjectiveIndex *int   `json:"objectiveIndex"`
}

// ApplyQuestAction applies accept, complete_objective or skip to a quest.
func (h *Handler) ApplyQuestAction(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	action := quest.Action{Kind: quest.ActionKind(req.Action)}
	if action.Kind == quest.ActionCompleteObjective {
		if req.ObjectiveIndex == nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "objectiveIndex is required for complete_objective", nil))
			return
		}
		action.ObjectiveIndex = *req.ObjectiveIndex
	}

	updated, err := h.quests.ApplyAction(c.Request.Context(), c.Param("questId"), action)
	if err != nil {
		abortWithError(c, questError(err, "action_failed"))
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ListNotifications returns the user's in-app notification records.
func (h *Handler) ListNotifications(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	records, err := h.quests.Notifications(c.Request.Context(), c.Param("userId"), limit)
	if err != nil {
		abortWithError(c, questError(err, "notifications_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": records})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func questError(err error, fallbackCode string) *HTTPError {
	status := http.StatusInternalServerError
	code := fallbackCode
	switch {
	case apperrors.IsCode(err, "invalid_input"):
		status = http.StatusBadRequest
		code = "invalid_request"
	case apperrors.IsCode(err, "not_found"):
		status = http.StatusNotFound
		code = "not_found"
	case apperrors.IsCode(err, "invalid_state"):
		status = http.StatusConflict
		code = "invalid_state"
	case apperrors.IsCode(err, "synthesis_failed"):
		status = http.StatusInternalServerError
		code = "synthesis_failed"
	}
	return NewHTTPError(status, code, errMessage(err), err)
}
