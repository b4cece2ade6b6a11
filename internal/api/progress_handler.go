package api

import (
	"clinigoal/backend/internal/service"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressHandler serves a learner's per-course progress. Every mutating
// endpoint runs behind the payment gate, which surfaces as a 403.
type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

type courseRef struct {
	CourseID string `json:"courseId" binding:"required"`
}

type videoWatchedRequest struct {
	CourseID string `json:"courseId" binding:"required"`
	VideoID  string `json:"videoId" binding:"required"`
}

type quizSubmitRequest struct {
	CourseID  string `json:"courseId" binding:"required"`
	QuizTitle string `json:"quizTitle"`
	Score     *int   `json:"score" binding:"required"`
}

func (h *ProgressHandler) subjectAndCourse(c *gin.Context, courseIDHex string) (userID, courseID primitive.ObjectID, ok bool) {
	userID, err := getSubjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	courseID, err = parseHexID(courseIDHex)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid courseId format")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return userID, courseID, true
}

func (h *ProgressHandler) progressError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotUnlocked):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrVideoNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidScore):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to update progress")
	}
}

// Get returns the learner's progress for a course, identified by the
// courseId query parameter. Reads are allowed before payment approval so the
// UI can render the locked state.
func (h *ProgressHandler) Get(c *gin.Context) {
	userID, courseID, ok := h.subjectAndCourse(c, c.Query("courseId"))
	if !ok {
		return
	}
	progress, err := h.progressService.Get(c.Request.Context(), userID, courseID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch progress")
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *ProgressHandler) MarkVideoWatched(c *gin.Context) {
	var req videoWatchedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	userID, courseID, ok := h.subjectAndCourse(c, req.CourseID)
	if !ok {
		return
	}
	videoID, err := parseHexID(req.VideoID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid videoId format")
		return
	}

	progress, err := h.progressService.MarkVideoWatched(c.Request.Context(), userID, courseID, videoID)
	if err != nil {
		h.progressError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *ProgressHandler) MarkNotesViewed(c *gin.Context) {
	var req courseRef
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	userID, courseID, ok := h.subjectAndCourse(c, req.CourseID)
	if !ok {
		return
	}

	progress, err := h.progressService.MarkNotesViewed(c.Request.Context(), userID, courseID)
	if err != nil {
		h.progressError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *ProgressHandler) MarkAssignmentSubmitted(c *gin.Context) {
	var req courseRef
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	userID, courseID, ok := h.subjectAndCourse(c, req.CourseID)
	if !ok {
		return
	}

	progress, err := h.progressService.MarkAssignmentSubmitted(c.Request.Context(), userID, courseID)
	if err != nil {
		h.progressError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *ProgressHandler) SubmitQuiz(c *gin.Context) {
	var req quizSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	userID, courseID, ok := h.subjectAndCourse(c, req.CourseID)
	if !ok {
		return
	}

	result, err := h.progressService.SubmitQuiz(c.Request.Context(), userID, courseID, req.QuizTitle, *req.Score)
	if err != nil {
		h.progressError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ProgressHandler) GenerateCertificate(c *gin.Context) {
	var req courseRef
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	userID, courseID, ok := h.subjectAndCourse(c, req.CourseID)
	if !ok {
		return
	}

	url, err := h.progressService.GenerateCertificate(c.Request.Context(), userID, courseID)
	if err != nil {
		h.progressError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"certificateUrl": url})
}

// ListSubmissions returns all raw quiz submissions for admin reporting.
func (h *ProgressHandler) ListSubmissions(c *gin.Context) {
	subs, err := h.progressService.ListSubmissions(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list quiz submissions")
		return
	}
	c.JSON(http.StatusOK, subs)
}
