package api

import (
	"clinigoal/backend/internal/domain"
	"clinigoal/backend/internal/service"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService service.QuizService
}

func NewQuizHandler(quizService service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

type QuizOptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuizQuestionRequest struct {
	Text    string              `json:"text" binding:"required"`
	Options []QuizOptionRequest `json:"options" binding:"required,min=2"`
}

type QuizRequest struct {
	CourseID  string                `json:"courseId" binding:"required"`
	Title     string                `json:"title" binding:"required"`
	Questions []QuizQuestionRequest `json:"questions" binding:"required,min=1"`
}

func mapQuestions(reqs []QuizQuestionRequest) []domain.QuizQuestion {
	questions := make([]domain.QuizQuestion, 0, len(reqs))
	for _, q := range reqs {
		options := make([]domain.QuizOption, 0, len(q.Options))
		for _, opt := range q.Options {
			options = append(options, domain.QuizOption{Text: opt.Text, IsCorrect: opt.IsCorrect})
		}
		questions = append(questions, domain.QuizQuestion{Text: q.Text, Options: options})
	}
	return questions
}

func (h *QuizHandler) Create(c *gin.Context) {
	var req QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	courseID, err := parseHexID(req.CourseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid courseId format")
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), courseID, req.Title, mapQuestions(req.Questions))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidQuiz):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create quiz")
		}
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

func (h *QuizHandler) List(c *gin.Context) {
	quizzes, err := h.quizService.List(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list quizzes")
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

func (h *QuizHandler) ListByCourse(c *gin.Context) {
	courseID, ok := parseIDParam(c, "courseId")
	if !ok {
		return
	}
	quizzes, err := h.quizService.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list quizzes")
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

func (h *QuizHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	quiz, err := h.quizService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrQuizNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch quiz")
		}
		return
	}
	c.JSON(http.StatusOK, quiz)
}

type QuizUpdateRequest struct {
	Title     string                `json:"title"`
	Questions []QuizQuestionRequest `json:"questions" binding:"required,min=1"`
}

func (h *QuizHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req QuizUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	quiz, err := h.quizService.Update(c.Request.Context(), id, req.Title, mapQuestions(req.Questions))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuizNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidQuiz):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update quiz")
		}
		return
	}
	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.quizService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrQuizNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete quiz")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted"})
}
