package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizshare/api/internal/dto"
	"github.com/quizshare/api/internal/service"
	"github.com/rs/zerolog/log"
)

type QuizController struct {
	quizService service.QuizService
}

func NewQuizController(quizService service.QuizService) *QuizController {
	return &QuizController{quizService: quizService}
}

// CreateQuiz godoc
// @Summary Create an empty quiz
// @Tags Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quiz body dto.QuizCreateDTO true "Quiz title"
// @Success 201 {object} dto.QuizResponseDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var req dto.QuizCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	quiz, err := c.quizService.CreateQuiz(mustUserID(ctx), req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, quiz)
}

// ListQuizzes godoc
// @Summary List the caller's quizzes with question counts
// @Tags Quizzes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.QuizSummaryDTO
// @Router /quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	quizzes, err := c.quizService.ListQuizzes(mustUserID(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quizzes)
}

// GetQuiz godoc
// @Summary Get an owned quiz with its questions and choices
// @Tags Quizzes
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {object} dto.QuizResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Quiz missing or owned by someone else"
// @Router /quizzes/{quiz_id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	quizID, ok := pathID(ctx, "quiz_id")
	if !ok {
		return
	}

	quiz, err := c.quizService.GetQuiz(quizID, mustUserID(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quiz)
}

// UpdateQuiz godoc
// @Summary Rename an owned quiz
// @Tags Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Param quiz body dto.QuizUpdateDTO true "New title"
// @Success 200 {object} dto.QuizResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{quiz_id} [put]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	quizID, ok := pathID(ctx, "quiz_id")
	if !ok {
		return
	}

	var req dto.QuizUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	quiz, err := c.quizService.RenameQuiz(quizID, mustUserID(ctx), req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quiz)
}

// DeleteQuiz godoc
// @Summary Delete an owned quiz with all its questions and choices
// @Tags Quizzes
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{quiz_id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	quizID, ok := pathID(ctx, "quiz_id")
	if !ok {
		return
	}

	if err := c.quizService.DeleteQuiz(ctx.Request.Context(), quizID, mustUserID(ctx)); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// AddQuestion godoc
// @Summary Append a question with its choices to an owned quiz
// @Tags Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Param question body dto.QuestionCreateDTO true "Question text, answer type and choices"
// @Success 201 {object} dto.QuestionResponseDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{quiz_id}/questions [post]
func (c *QuizController) AddQuestion(ctx *gin.Context) {
	quizID, ok := pathID(ctx, "quiz_id")
	if !ok {
		return
	}

	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	question, err := c.quizService.AddQuestion(quizID, mustUserID(ctx), req)
	if err != nil {
		log.Warn().Err(err).Uint("quizID", quizID).Msg("AddQuestion failed")
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, question)
}
