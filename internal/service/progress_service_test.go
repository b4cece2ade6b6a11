package service

import (
	"clinigoal/backend/internal/domain"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type progressTestEnv struct {
	svc          ProgressService
	progressRepo *fakeProgressRepo
	subRepo      *fakeSubmissionRepo
	paymentRepo  *fakePaymentRepo
	videoRepo    *fakeVideoRepo
	userID       primitive.ObjectID
	courseID     primitive.ObjectID
	videoID      primitive.ObjectID
}

// newProgressEnv builds a learner with an approved payment unless locked.
func newProgressEnv(t *testing.T, locked bool) *progressTestEnv {
	t.Helper()
	ctx := context.Background()

	env := &progressTestEnv{
		progressRepo: newFakeProgressRepo(),
		subRepo:      newFakeSubmissionRepo(),
		paymentRepo:  newFakePaymentRepo(),
		videoRepo:    newFakeVideoRepo(),
		userID:       primitive.NewObjectID(),
		courseID:     primitive.NewObjectID(),
	}

	videoID, err := env.videoRepo.Create(ctx, &domain.Video{CourseID: env.courseID, Title: "Intro"})
	require.NoError(t, err)
	env.videoID = videoID

	if !locked {
		id, err := env.paymentRepo.Create(ctx, &domain.Payment{
			UserID:   env.userID,
			CourseID: env.courseID,
			Amount:   4999,
			Status:   domain.PaymentPending,
		})
		require.NoError(t, err)
		_, err = env.paymentRepo.MarkApproved(ctx, id, primitive.NewObjectID())
		require.NoError(t, err)
	}

	env.svc = NewProgressService(env.progressRepo, env.subRepo, env.paymentRepo, env.videoRepo)
	return env
}

func TestProgressLockedBeforeApproval(t *testing.T) {
	env := newProgressEnv(t, true)
	ctx := context.Background()

	_, err := env.svc.MarkVideoWatched(ctx, env.userID, env.courseID, env.videoID)
	assert.ErrorIs(t, err, ErrCourseNotUnlocked)
	_, err = env.svc.MarkNotesViewed(ctx, env.userID, env.courseID)
	assert.ErrorIs(t, err, ErrCourseNotUnlocked)
	_, err = env.svc.MarkAssignmentSubmitted(ctx, env.userID, env.courseID)
	assert.ErrorIs(t, err, ErrCourseNotUnlocked)
	_, err = env.svc.SubmitQuiz(ctx, env.userID, env.courseID, "Final", 80)
	assert.ErrorIs(t, err, ErrCourseNotUnlocked)
	_, err = env.svc.GenerateCertificate(ctx, env.userID, env.courseID)
	assert.ErrorIs(t, err, ErrCourseNotUnlocked)

	// Reads still work and show the empty state.
	progress, err := env.svc.Get(ctx, env.userID, env.courseID)
	require.NoError(t, err)
	assert.Empty(t, progress.VideosWatched)
}

func TestProgressLockedWhilePending(t *testing.T) {
	env := newProgressEnv(t, true)
	ctx := context.Background()

	_, err := env.paymentRepo.Create(ctx, &domain.Payment{
		UserID:   env.userID,
		CourseID: env.courseID,
		Status:   domain.PaymentPending,
	})
	require.NoError(t, err)

	// Pending is not enough; only Approved unlocks.
	_, err = env.svc.MarkVideoWatched(ctx, env.userID, env.courseID, env.videoID)
	assert.ErrorIs(t, err, ErrCourseNotUnlocked)
}

func TestMarkVideoWatchedIdempotent(t *testing.T) {
	env := newProgressEnv(t, false)
	ctx := context.Background()

	progress, err := env.svc.MarkVideoWatched(ctx, env.userID, env.courseID, env.videoID)
	require.NoError(t, err)
	assert.Len(t, progress.VideosWatched, 1)

	// Re-watching the same video does not duplicate the entry.
	progress, err = env.svc.MarkVideoWatched(ctx, env.userID, env.courseID, env.videoID)
	require.NoError(t, err)
	assert.Len(t, progress.VideosWatched, 1)
}

func TestMarkVideoWatchedUnknownVideo(t *testing.T) {
	env := newProgressEnv(t, false)

	_, err := env.svc.MarkVideoWatched(context.Background(), env.userID, env.courseID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrVideoNotFound)
}

func TestProgressFlags(t *testing.T) {
	env := newProgressEnv(t, false)
	ctx := context.Background()

	progress, err := env.svc.MarkNotesViewed(ctx, env.userID, env.courseID)
	require.NoError(t, err)
	assert.True(t, progress.NotesViewed)

	progress, err = env.svc.MarkAssignmentSubmitted(ctx, env.userID, env.courseID)
	require.NoError(t, err)
	assert.True(t, progress.AssignmentSubmitted)
	assert.True(t, progress.NotesViewed, "earlier flag survives")
}

func TestSubmitQuizPassAndFailThreshold(t *testing.T) {
	for _, tc := range []struct {
		score  int
		passed bool
	}{
		{score: 70, passed: true},
		{score: 69, passed: false},
		{score: 100, passed: true},
		{score: 0, passed: false},
	} {
		t.Run(fmt.Sprintf("score_%d", tc.score), func(t *testing.T) {
			env := newProgressEnv(t, false)

			result, err := env.svc.SubmitQuiz(context.Background(), env.userID, env.courseID, "Final", tc.score)
			require.NoError(t, err)
			assert.Equal(t, tc.passed, result.Passed)
			assert.True(t, result.Recorded)
			assert.Equal(t, 1, result.RemainingAttempts)
		})
	}
}

func TestSubmitQuizAttemptCap(t *testing.T) {
	env := newProgressEnv(t, false)
	ctx := context.Background()

	first, err := env.svc.SubmitQuiz(ctx, env.userID, env.courseID, "Final", 50)
	require.NoError(t, err)
	assert.True(t, first.Recorded)
	assert.Equal(t, 1, first.RemainingAttempts)

	second, err := env.svc.SubmitQuiz(ctx, env.userID, env.courseID, "Final", 60)
	require.NoError(t, err)
	assert.True(t, second.Recorded)
	assert.Equal(t, 0, second.RemainingAttempts)

	// The third submission saturates: no error, nothing recorded, even a
	// passing score reports failed.
	third, err := env.svc.SubmitQuiz(ctx, env.userID, env.courseID, "Final", 95)
	require.NoError(t, err)
	assert.False(t, third.Recorded)
	assert.False(t, third.Passed)
	assert.Equal(t, 0, third.RemainingAttempts)

	progress, err := env.svc.Get(ctx, env.userID, env.courseID)
	require.NoError(t, err)
	require.Len(t, progress.QuizAttempts, domain.MaxQuizAttempts)
	assert.Equal(t, 1, progress.QuizAttempts[0].AttemptNumber)
	assert.Equal(t, 2, progress.QuizAttempts[1].AttemptNumber)

	// Only recorded attempts produce submission rows.
	subs, err := env.svc.ListSubmissions(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 2)
}

func TestSubmitQuizInvalidScore(t *testing.T) {
	env := newProgressEnv(t, false)

	_, err := env.svc.SubmitQuiz(context.Background(), env.userID, env.courseID, "Final", 101)
	assert.ErrorIs(t, err, ErrInvalidScore)
	_, err = env.svc.SubmitQuiz(context.Background(), env.userID, env.courseID, "Final", -1)
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestSubmitQuizRetriesOnConcurrentAppend(t *testing.T) {
	env := newProgressEnv(t, false)
	ctx := context.Background()

	// Another request sneaks in an attempt between the read and the guarded
	// append; the first append fails the size guard and the service retries
	// with the fresh count.
	env.progressRepo.afterGet = func() {
		_, err := env.progressRepo.AppendQuizAttempt(ctx, env.userID, env.courseID, domain.QuizAttempt{
			AttemptNumber: 1,
			Score:         40,
			SubmittedAt:   time.Now(),
		}, 0)
		require.NoError(t, err)
	}

	result, err := env.svc.SubmitQuiz(ctx, env.userID, env.courseID, "Final", 80)
	require.NoError(t, err)
	assert.True(t, result.Recorded)
	assert.Equal(t, 0, result.RemainingAttempts)

	progress, err := env.svc.Get(ctx, env.userID, env.courseID)
	require.NoError(t, err)
	assert.Len(t, progress.QuizAttempts, domain.MaxQuizAttempts)
}

func TestGenerateCertificate(t *testing.T) {
	env := newProgressEnv(t, false)
	ctx := context.Background()

	url, err := env.svc.GenerateCertificate(ctx, env.userID, env.courseID)
	require.NoError(t, err)
	expected := fmt.Sprintf("https://certificates.clinigoal.com/%s-%s.pdf", env.userID.Hex(), env.courseID.Hex())
	assert.Equal(t, expected, url)

	progress, err := env.svc.Get(ctx, env.userID, env.courseID)
	require.NoError(t, err)
	assert.True(t, progress.CertificateGenerated)

	// Repeat calls return the same URL.
	again, err := env.svc.GenerateCertificate(ctx, env.userID, env.courseID)
	require.NoError(t, err)
	assert.Equal(t, expected, again)
}
