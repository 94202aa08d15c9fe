package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizshare/api/internal/dto"
	"github.com/quizshare/api/internal/service"
)

type QuestionController struct {
	quizService service.QuizService
}

func NewQuestionController(quizService service.QuizService) *QuestionController {
	return &QuestionController{quizService: quizService}
}

// UpdateQuestion godoc
// @Summary Replace a question's text, type and entire choice list
// @Description Full replace: existing choices are deleted and the supplied list inserted. Ownership is resolved through the parent quiz.
// @Tags Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Param question body dto.QuestionCreateDTO true "Replacement question"
// @Success 200 {object} dto.QuestionResponseDTO
// @Failure 403 {object} dto.ErrorResponse "Question belongs to another user's quiz"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /questions/{question_id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	questionID, ok := pathID(ctx, "question_id")
	if !ok {
		return
	}

	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	question, err := c.quizService.UpdateQuestion(questionID, mustUserID(ctx), req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, question)
}

// DeleteQuestion godoc
// @Summary Delete a question and its choices
// @Tags Questions
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Success 204 "Deleted"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /questions/{question_id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	questionID, ok := pathID(ctx, "question_id")
	if !ok {
		return
	}

	if err := c.quizService.DeleteQuestion(questionID, mustUserID(ctx)); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
