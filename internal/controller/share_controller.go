package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizshare/api/internal/dto"
	"github.com/quizshare/api/internal/service"
	"github.com/rs/zerolog/log"
)

type ShareController struct {
	shareService service.ShareService
}

func NewShareController(shareService service.ShareService) *ShareController {
	return &ShareController{shareService: shareService}
}

// GenerateCode godoc
// @Summary Issue a share code for an owned quiz
// @Description Idempotent: a quiz that already has a code gets the same one back.
// @Tags Share
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {object} dto.ShareCodeDTO
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse "Code space exhausted"
// @Router /share/{quiz_id}/generate-code [post]
func (c *ShareController) GenerateCode(ctx *gin.Context) {
	quizID, ok := pathID(ctx, "quiz_id")
	if !ok {
		return
	}

	code, err := c.shareService.IssueCode(quizID, mustUserID(ctx))
	if err != nil {
		log.Warn().Err(err).Uint("quizID", quizID).Msg("GenerateCode failed")
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, code)
}

// RevokeCode godoc
// @Summary Revoke a quiz's share code and make it private again
// @Tags Share
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /share/{quiz_id}/revoke-code [delete]
func (c *ShareController) RevokeCode(ctx *gin.Context) {
	quizID, ok := pathID(ctx, "quiz_id")
	if !ok {
		return
	}

	if err := c.shareService.RevokeCode(ctx.Request.Context(), quizID, mustUserID(ctx)); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Code revoked successfully"})
}

// ResolveSummary godoc
// @Summary Look up a shared quiz's metadata by code
// @Description Returns title, owner name and question count only; never any question content.
// @Tags Share
// @Produce json
// @Security BearerAuth
// @Param code path string true "Share code (case-insensitive)"
// @Success 200 {object} dto.SharedQuizInfoDTO
// @Failure 404 {object} dto.ErrorResponse "Unknown code or quiz not public"
// @Router /share/code/{code} [get]
func (c *ShareController) ResolveSummary(ctx *gin.Context) {
	info, err := c.shareService.ResolveSummary(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, info)
}

// ResolveFull godoc
// @Summary Fetch a shared quiz with questions and choices for playing
// @Tags Share
// @Produce json
// @Security BearerAuth
// @Param code path string true "Share code (case-insensitive)"
// @Success 200 {object} dto.QuizResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Unknown code or quiz not public"
// @Router /share/code/{code}/full [get]
func (c *ShareController) ResolveFull(ctx *gin.Context) {
	quiz, err := c.shareService.ResolveFull(ctx.Param("code"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quiz)
}

// ListShared godoc
// @Summary List the caller's quizzes that have an active share code
// @Tags Share
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.SharedQuizInfoDTO
// @Router /share/my-shared [get]
func (c *ShareController) ListShared(ctx *gin.Context) {
	infos, err := c.shareService.ListShared(mustUserID(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, infos)
}
