package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCourseCRUD(t *testing.T) {
	svc := NewCourseService(newFakeCourseRepo())
	ctx := context.Background()

	course, err := svc.Create(ctx, "Clinical Research 101", "Introductory course")
	require.NoError(t, err)
	assert.False(t, course.ID.IsZero())

	got, err := svc.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clinical Research 101", got.Name)

	updated, err := svc.Update(ctx, course.ID, "Clinical Research 102", "Second edition")
	require.NoError(t, err)
	assert.Equal(t, "Clinical Research 102", updated.Name)

	courses, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 1)

	require.NoError(t, svc.Delete(ctx, course.ID))
	_, err = svc.GetByID(ctx, course.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseValidation(t *testing.T) {
	svc := NewCourseService(newFakeCourseRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, "", "no name")
	assert.Error(t, err)

	_, err = svc.GetByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrCourseNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, primitive.NewObjectID()), ErrCourseNotFound)
}
