package service

import (
	"clinigoal/backend/internal/domain"
	"clinigoal/backend/internal/repository"
	"clinigoal/backend/internal/storage"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrVideoNotFound = errors.New("video not found")
	ErrNoteNotFound  = errors.New("note not found")
	ErrEmptyUpload   = errors.New("uploaded file is empty")
)

// Upload describes an incoming multipart file.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// MediaService manages uploaded course content (videos and notes): the file
// goes to storage, the metadata to Mongo, and the owning course's content
// array is kept in sync.
type MediaService interface {
	UploadVideo(ctx context.Context, courseID primitive.ObjectID, title, description string, up Upload) (*domain.Video, error)
	GetVideo(ctx context.Context, id primitive.ObjectID) (*domain.Video, error)
	ListVideos(ctx context.Context) ([]domain.Video, error)
	ListVideosByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Video, error)
	UpdateVideo(ctx context.Context, id primitive.ObjectID, title, description string) (*domain.Video, error)
	DeleteVideo(ctx context.Context, id primitive.ObjectID) error

	UploadNote(ctx context.Context, courseID primitive.ObjectID, title string, up Upload) (*domain.Note, error)
	GetNote(ctx context.Context, id primitive.ObjectID) (*domain.Note, error)
	UpdateNote(ctx context.Context, id primitive.ObjectID, title string) (*domain.Note, error)
	ListNotes(ctx context.Context) ([]domain.Note, error)
	ListNotesByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Note, error)
	DeleteNote(ctx context.Context, id primitive.ObjectID) error

	// DownloadURL resolves the storage URL for a stored object key.
	DownloadURL(ctx context.Context, objectKey string) (string, error)
}

type mediaService struct {
	videoRepo  repository.VideoRepository
	noteRepo   repository.NoteRepository
	courseRepo repository.CourseRepository
	files      storage.FileStorage
}

func NewMediaService(videoRepo repository.VideoRepository, noteRepo repository.NoteRepository, courseRepo repository.CourseRepository, files storage.FileStorage) MediaService {
	return &mediaService{
		videoRepo:  videoRepo,
		noteRepo:   noteRepo,
		courseRepo: courseRepo,
		files:      files,
	}
}

// objectKey builds a collision-free storage key, keeping the original
// extension so content type sniffing keeps working downstream.
func objectKey(prefix, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), ext)
}

func (s *mediaService) storeUpload(ctx context.Context, prefix string, up Upload) (key, url string, err error) {
	if up.Body == nil || up.Size <= 0 {
		return "", "", ErrEmptyUpload
	}

	key = objectKey(prefix, up.FileName)
	if err := s.files.Store(ctx, key, up.Body, up.Size, up.ContentType); err != nil {
		return "", "", fmt.Errorf("storing upload: %w", err)
	}
	url, err = s.files.DownloadURL(ctx, key, storage.DefaultDownloadURLExpiry)
	if err != nil {
		return "", "", fmt.Errorf("resolving download URL: %w", err)
	}
	return key, url, nil
}

func (s *mediaService) UploadVideo(ctx context.Context, courseID primitive.ObjectID, title, description string, up Upload) (*domain.Video, error) {
	if title == "" {
		return nil, errors.New("video title cannot be empty")
	}
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	key, url, err := s.storeUpload(ctx, "videos", up)
	if err != nil {
		return nil, err
	}

	video := &domain.Video{
		CourseID:    courseID,
		Title:       title,
		Description: description,
		FileName:    up.FileName,
		ObjectKey:   key,
		URL:         url,
		Size:        up.Size,
		ContentType: up.ContentType,
	}
	id, err := s.videoRepo.Create(ctx, video)
	if err != nil {
		// Metadata insert failed; drop the orphaned file.
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("objectKey", key).Msg("Failed to clean up orphaned upload")
		}
		return nil, err
	}
	video.ID = id

	if err := s.courseRepo.AttachContent(ctx, courseID, repository.CourseVideos, id); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *mediaService) GetVideo(ctx context.Context, id primitive.ObjectID) (*domain.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return video, nil
}

func (s *mediaService) ListVideos(ctx context.Context) ([]domain.Video, error) {
	return s.videoRepo.List(ctx)
}

func (s *mediaService) ListVideosByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Video, error) {
	return s.videoRepo.ListByCourse(ctx, courseID)
}

func (s *mediaService) UpdateVideo(ctx context.Context, id primitive.ObjectID, title, description string) (*domain.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	if title != "" {
		video.Title = title
	}
	video.Description = description
	if err := s.videoRepo.Update(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// DeleteVideo removes metadata, the course reference and the stored file.
// A storage failure is logged but does not block the delete; the record is
// gone either way and a stray object is harmless.
func (s *mediaService) DeleteVideo(ctx context.Context, id primitive.ObjectID) error {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrVideoNotFound
		}
		return err
	}

	if err := s.files.Delete(ctx, video.ObjectKey); err != nil {
		log.Warn().Err(err).Str("objectKey", video.ObjectKey).Msg("Failed to delete stored video file")
	}
	if err := s.videoRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrVideoNotFound
		}
		return err
	}
	if err := s.courseRepo.DetachContent(ctx, video.CourseID, repository.CourseVideos, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Warn().Err(err).Str("courseId", video.CourseID.Hex()).Msg("Failed to detach deleted video from course")
	}
	return nil
}

func (s *mediaService) UploadNote(ctx context.Context, courseID primitive.ObjectID, title string, up Upload) (*domain.Note, error) {
	if title == "" {
		return nil, errors.New("note title cannot be empty")
	}
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	key, url, err := s.storeUpload(ctx, "notes", up)
	if err != nil {
		return nil, err
	}

	note := &domain.Note{
		CourseID:    courseID,
		Title:       title,
		FileName:    up.FileName,
		ObjectKey:   key,
		URL:         url,
		Size:        up.Size,
		ContentType: up.ContentType,
	}
	id, err := s.noteRepo.Create(ctx, note)
	if err != nil {
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("objectKey", key).Msg("Failed to clean up orphaned upload")
		}
		return nil, err
	}
	note.ID = id

	if err := s.courseRepo.AttachContent(ctx, courseID, repository.CourseNotes, id); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *mediaService) GetNote(ctx context.Context, id primitive.ObjectID) (*domain.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return note, nil
}

func (s *mediaService) UpdateNote(ctx context.Context, id primitive.ObjectID, title string) (*domain.Note, error) {
	if title == "" {
		return nil, errors.New("note title cannot be empty")
	}
	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	note.Title = title
	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *mediaService) ListNotes(ctx context.Context) ([]domain.Note, error) {
	return s.noteRepo.List(ctx)
}

func (s *mediaService) ListNotesByCourse(ctx context.Context, courseID primitive.ObjectID) ([]domain.Note, error) {
	return s.noteRepo.ListByCourse(ctx, courseID)
}

func (s *mediaService) DeleteNote(ctx context.Context, id primitive.ObjectID) error {
	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoteNotFound
		}
		return err
	}

	if err := s.files.Delete(ctx, note.ObjectKey); err != nil {
		log.Warn().Err(err).Str("objectKey", note.ObjectKey).Msg("Failed to delete stored note file")
	}
	if err := s.noteRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoteNotFound
		}
		return err
	}
	if err := s.courseRepo.DetachContent(ctx, note.CourseID, repository.CourseNotes, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Warn().Err(err).Str("courseId", note.CourseID.Hex()).Msg("Failed to detach deleted note from course")
	}
	return nil
}

func (s *mediaService) DownloadURL(ctx context.Context, key string) (string, error) {
	return s.files.DownloadURL(ctx, key, storage.DefaultDownloadURLExpiry)
}
