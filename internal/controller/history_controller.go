package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quizshare/api/internal/dto"
	"github.com/quizshare/api/internal/service"
)

type HistoryController struct {
	historyService service.HistoryService
}

func NewHistoryController(historyService service.HistoryService) *HistoryController {
	return &HistoryController{historyService: historyService}
}

// Record godoc
// @Summary Save the result of a completed quiz run
// @Tags History
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param result body dto.HistoryCreateDTO true "Completed run"
// @Success 201 {object} dto.HistoryResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /history [post]
func (c *HistoryController) Record(ctx *gin.Context) {
	var req dto.HistoryCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	entry, err := c.historyService.Record(mustUserID(ctx), req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, entry)
}

// List godoc
// @Summary List the caller's quiz history, most recent first
// @Tags History
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries to return (default 50)"
// @Success 200 {array} dto.HistoryResponseDTO
// @Router /history [get]
func (c *HistoryController) List(ctx *gin.Context) {
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val < 0 {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid limit format"})
			return
		}
		limit = val
	}

	entries, err := c.historyService.ListForUser(mustUserID(ctx), limit)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, entries)
}

// Stats godoc
// @Summary Aggregate statistics over the caller's history
// @Tags History
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.HistoryStatsDTO
// @Router /history/stats [get]
func (c *HistoryController) Stats(ctx *gin.Context) {
	stats, err := c.historyService.Stats(mustUserID(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// Delete godoc
// @Summary Delete one of the caller's history entries
// @Tags History
// @Produce json
// @Security BearerAuth
// @Param history_id path int true "History entry ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /history/{history_id} [delete]
func (c *HistoryController) Delete(ctx *gin.Context) {
	entryID, ok := pathID(ctx, "history_id")
	if !ok {
		return
	}

	if err := c.historyService.DeleteEntry(entryID, mustUserID(ctx)); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Entry deleted"})
}
