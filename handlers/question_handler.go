package handlers

import (
	"net/http"

	"cityrace/services"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	questionService *services.QuestionService
}

func NewQuestionHandler(questionService *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.questionService.AddQuestion(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	question, err := h.questionService.GetQuestion(c.Param("id"), c.GetString("role"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// NextQuestion hands the member the question they should pursue next, based
// on their current position.
func (h *QuestionHandler) NextQuestion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	position, err := coordinateFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	question, err := h.questionService.NextQuestion(c.Param("id"), c.Param("memberId"), userID, position)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}
