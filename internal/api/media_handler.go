package api

import (
	"clinigoal/backend/internal/service"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MediaHandler serves video and note endpoints. Uploads arrive as multipart
// forms with the binary under the "file" field.
type MediaHandler struct {
	mediaService service.MediaService
}

func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

type uploadForm struct {
	CourseID    string `form:"courseId" binding:"required"`
	Title       string `form:"title" binding:"required"`
	Description string `form:"description"`
}

// bindUpload extracts the form fields and the multipart file.
func (h *MediaHandler) bindUpload(c *gin.Context) (*uploadForm, service.Upload, func(), bool) {
	var form uploadForm
	if err := c.ShouldBind(&form); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return nil, service.Upload{}, nil, false
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Missing file upload")
		return nil, service.Upload{}, nil, false
	}
	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to read uploaded file")
		return nil, service.Upload{}, nil, false
	}

	up := service.Upload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	}
	return &form, up, func() { file.Close() }, true
}

func (h *MediaHandler) uploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmptyUpload):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process upload")
	}
}

// --- Videos ---

func (h *MediaHandler) UploadVideo(c *gin.Context) {
	form, up, closeFile, ok := h.bindUpload(c)
	if !ok {
		return
	}
	defer closeFile()

	courseID, err := parseHexID(form.CourseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid courseId format")
		return
	}

	video, err := h.mediaService.UploadVideo(c.Request.Context(), courseID, form.Title, form.Description, up)
	if err != nil {
		h.uploadError(c, err)
		return
	}
	c.JSON(http.StatusCreated, video)
}

func (h *MediaHandler) ListVideos(c *gin.Context) {
	videos, err := h.mediaService.ListVideos(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list videos")
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (h *MediaHandler) GetVideo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	video, err := h.mediaService.GetVideo(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch video")
		}
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *MediaHandler) ListVideosByCourse(c *gin.Context) {
	courseID, ok := parseIDParam(c, "courseId")
	if !ok {
		return
	}
	videos, err := h.mediaService.ListVideosByCourse(c.Request.Context(), courseID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list videos")
		return
	}
	c.JSON(http.StatusOK, videos)
}

type updateVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *MediaHandler) UpdateVideo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	video, err := h.mediaService.UpdateVideo(c.Request.Context(), id, req.Title, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update video")
		}
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *MediaHandler) DeleteVideo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.mediaService.DeleteVideo(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete video")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Video deleted"})
}

// --- Notes ---

func (h *MediaHandler) UploadNote(c *gin.Context) {
	form, up, closeFile, ok := h.bindUpload(c)
	if !ok {
		return
	}
	defer closeFile()

	courseID, err := parseHexID(form.CourseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid courseId format")
		return
	}

	note, err := h.mediaService.UploadNote(c.Request.Context(), courseID, form.Title, up)
	if err != nil {
		h.uploadError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *MediaHandler) ListNotes(c *gin.Context) {
	notes, err := h.mediaService.ListNotes(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list notes")
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (h *MediaHandler) GetNote(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	note, err := h.mediaService.GetNote(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch note")
		}
		return
	}
	c.JSON(http.StatusOK, note)
}

type updateNoteRequest struct {
	Title string `json:"title" binding:"required"`
}

func (h *MediaHandler) UpdateNote(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	note, err := h.mediaService.UpdateNote(c.Request.Context(), id, req.Title)
	if err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update note")
		}
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *MediaHandler) ListNotesByCourse(c *gin.Context) {
	courseID, ok := parseIDParam(c, "courseId")
	if !ok {
		return
	}
	notes, err := h.mediaService.ListNotesByCourse(c.Request.Context(), courseID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list notes")
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (h *MediaHandler) DeleteNote(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.mediaService.DeleteNote(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete note")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Note deleted"})
}

// Download redirects to the storage URL for a stored object. Used when the
// storage backend presigns URLs rather than serving files directly.
func (h *MediaHandler) Download(c *gin.Context) {
	key := c.Param("key")
	if len(key) > 0 && key[0] == '/' {
		key = key[1:]
	}
	if key == "" {
		abortWithError(c, http.StatusBadRequest, "Missing object key")
		return
	}

	url, err := h.mediaService.DownloadURL(c.Request.Context(), key)
	if err != nil {
		abortWithError(c, http.StatusNotFound, "File not found")
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}
