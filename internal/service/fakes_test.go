package service

import (
	"bytes"
	"clinigoal/backend/internal/domain"
	"clinigoal/backend/internal/repository"
	"context"
	"io"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes implementing the repository interfaces, mirroring the
// semantics of the Mongo implementations (sentinel errors, guarded updates).

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	id := primitive.NewObjectID()
	cp := *user
	cp.ID = id
	cp.CreatedAt = time.Now()
	r.users[id] = &cp
	return id, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) SetOTP(_ context.Context, email, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u.OTP = code
			u.OTPExpiresAt = &expiresAt
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeUserRepo) ResetPassword(_ context.Context, email, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u.PasswordHash = passwordHash
			u.OTP = ""
			u.OTPExpiresAt = nil
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeAdminRepo struct {
	mu     sync.Mutex
	admins map[primitive.ObjectID]*domain.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: map[primitive.ObjectID]*domain.Admin{}}
}

func (r *fakeAdminRepo) Create(_ context.Context, admin *domain.Admin) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Email == admin.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	id := primitive.NewObjectID()
	cp := *admin
	cp.ID = id
	r.admins[id] = &cp
	return id, nil
}

func (r *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAdminRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.admins[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAdminRepo) SetOTP(_ context.Context, email, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Email == email {
			a.OTP = code
			a.OTPExpiresAt = &expiresAt
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeAdminRepo) ResetPassword(_ context.Context, email, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Email == email {
			a.PasswordHash = passwordHash
			a.OTP = ""
			a.OTPExpiresAt = nil
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeCourseRepo struct {
	mu      sync.Mutex
	courses map[primitive.ObjectID]*domain.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: map[primitive.ObjectID]*domain.Course{}}
}

func (r *fakeCourseRepo) Create(_ context.Context, course *domain.Course) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	cp := *course
	cp.ID = id
	r.courses[id] = &cp
	return id, nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCourseRepo) List(_ context.Context) ([]domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Course, 0, len(r.courses))
	for _, c := range r.courses {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCourseRepo) Update(_ context.Context, course *domain.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[course.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *course
	r.courses[course.ID] = &cp
	return nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *fakeCourseRepo) AttachContent(_ context.Context, courseID primitive.ObjectID, field repository.CourseContentField, contentID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[courseID]
	if !ok {
		return repository.ErrNotFound
	}
	switch field {
	case repository.CourseVideos:
		c.VideoIDs = appendUnique(c.VideoIDs, contentID)
	case repository.CourseNotes:
		c.NoteIDs = appendUnique(c.NoteIDs, contentID)
	case repository.CourseQuizzes:
		c.QuizIDs = appendUnique(c.QuizIDs, contentID)
	}
	return nil
}

func (r *fakeCourseRepo) DetachContent(_ context.Context, courseID primitive.ObjectID, field repository.CourseContentField, contentID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[courseID]
	if !ok {
		return repository.ErrNotFound
	}
	switch field {
	case repository.CourseVideos:
		c.VideoIDs = removeID(c.VideoIDs, contentID)
	case repository.CourseNotes:
		c.NoteIDs = removeID(c.NoteIDs, contentID)
	case repository.CourseQuizzes:
		c.QuizIDs = removeID(c.QuizIDs, contentID)
	}
	return nil
}

func appendUnique(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

type fakeVideoRepo struct {
	mu     sync.Mutex
	videos map[primitive.ObjectID]*domain.Video
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: map[primitive.ObjectID]*domain.Video{}}
}

func (r *fakeVideoRepo) Create(_ context.Context, video *domain.Video) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	cp := *video
	cp.ID = id
	r.videos[id] = &cp
	return id, nil
}

func (r *fakeVideoRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.videos[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeVideoRepo) List(_ context.Context) ([]domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Video, 0, len(r.videos))
	for _, v := range r.videos {
		out = append(out, *v)
	}
	return out, nil
}

func (r *fakeVideoRepo) ListByCourse(_ context.Context, courseID primitive.ObjectID) ([]domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Video
	for _, v := range r.videos {
		if v.CourseID == courseID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) Update(_ context.Context, video *domain.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[video.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *video
	r.videos[video.ID] = &cp
	return nil
}

func (r *fakeVideoRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.videos, id)
	return nil
}

type fakeNoteRepo struct {
	mu    sync.Mutex
	notes map[primitive.ObjectID]*domain.Note
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: map[primitive.ObjectID]*domain.Note{}}
}

func (r *fakeNoteRepo) Create(_ context.Context, note *domain.Note) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	cp := *note
	cp.ID = id
	r.notes[id] = &cp
	return id, nil
}

func (r *fakeNoteRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.notes[id]; ok {
		cp := *n
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeNoteRepo) List(_ context.Context) ([]domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Note, 0, len(r.notes))
	for _, n := range r.notes {
		out = append(out, *n)
	}
	return out, nil
}

func (r *fakeNoteRepo) ListByCourse(_ context.Context, courseID primitive.ObjectID) ([]domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Note
	for _, n := range r.notes {
		if n.CourseID == courseID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeNoteRepo) Update(_ context.Context, note *domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notes[note.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *note
	r.notes[note.ID] = &cp
	return nil
}

func (r *fakeNoteRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.notes, id)
	return nil
}

type fakeQuizRepo struct {
	mu      sync.Mutex
	quizzes map[primitive.ObjectID]*domain.Quiz
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{quizzes: map[primitive.ObjectID]*domain.Quiz{}}
}

func (r *fakeQuizRepo) Create(_ context.Context, quiz *domain.Quiz) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	cp := *quiz
	cp.ID = id
	r.quizzes[id] = &cp
	return id, nil
}

func (r *fakeQuizRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.quizzes[id]; ok {
		cp := *q
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeQuizRepo) List(_ context.Context) ([]domain.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Quiz, 0, len(r.quizzes))
	for _, q := range r.quizzes {
		out = append(out, *q)
	}
	return out, nil
}

func (r *fakeQuizRepo) ListByCourse(_ context.Context, courseID primitive.ObjectID) ([]domain.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Quiz
	for _, q := range r.quizzes {
		if q.CourseID == courseID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (r *fakeQuizRepo) Update(_ context.Context, quiz *domain.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quizzes[quiz.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *quiz
	r.quizzes[quiz.ID] = &cp
	return nil
}

func (r *fakeQuizRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quizzes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.quizzes, id)
	return nil
}

type fakeSubmissionRepo struct {
	mu   sync.Mutex
	subs []domain.QuizSubmission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{}
}

func (r *fakeSubmissionRepo) Create(_ context.Context, sub *domain.QuizSubmission) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	cp := *sub
	cp.ID = id
	r.subs = append(r.subs, cp)
	return id, nil
}

func (r *fakeSubmissionRepo) List(_ context.Context) ([]domain.QuizSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.QuizSubmission(nil), r.subs...), nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[primitive.ObjectID]*domain.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[primitive.ObjectID]*domain.Payment{}}
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *domain.Payment) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	cp := *payment
	cp.ID = id
	cp.CreatedAt = time.Now()
	r.payments[id] = &cp
	return id, nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.payments[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakePaymentRepo) ExistsActive(_ context.Context, userID, courseID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.UserID == userID && p.CourseID == courseID && p.Status != domain.PaymentRejected {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentRepo) HasApproved(_ context.Context, userID, courseID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.UserID == userID && p.CourseID == courseID && p.Status == domain.PaymentApproved {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentRepo) MarkApproved(_ context.Context, id, adminID primitive.ObjectID) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok || p.Status != domain.PaymentPending {
		return nil, repository.ErrNotFound
	}
	now := time.Now()
	p.Status = domain.PaymentApproved
	p.ApprovedAt = &now
	p.ApprovedBy = &adminID
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) MarkRejected(_ context.Context, id primitive.ObjectID, reason string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok || p.Status != domain.PaymentPending {
		return nil, repository.ErrNotFound
	}
	p.Status = domain.PaymentRejected
	p.Reason = reason
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) ListAll(_ context.Context) ([]domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Payment, 0, len(r.payments))
	for _, p := range r.payments {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePaymentRepo) ListByStatus(_ context.Context, status domain.PaymentStatus) ([]domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Payment
	for _, p := range r.payments {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

type progressKey struct {
	userID, courseID primitive.ObjectID
}

type fakeProgressRepo struct {
	mu   sync.Mutex
	docs map[progressKey]*domain.UserProgress
	// afterGet, when set, runs once after the next Get returns. Lets tests
	// interleave a write between a read and a guarded append.
	afterGet func()
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{docs: map[progressKey]*domain.UserProgress{}}
}

func (r *fakeProgressRepo) getOrCreate(userID, courseID primitive.ObjectID) *domain.UserProgress {
	key := progressKey{userID, courseID}
	doc, ok := r.docs[key]
	if !ok {
		doc = &domain.UserProgress{
			ID:        primitive.NewObjectID(),
			UserID:    userID,
			CourseID:  courseID,
			CreatedAt: time.Now(),
		}
		r.docs[key] = doc
	}
	doc.UpdatedAt = time.Now()
	return doc
}

func (r *fakeProgressRepo) Get(_ context.Context, userID, courseID primitive.ObjectID) (*domain.UserProgress, error) {
	r.mu.Lock()
	doc, ok := r.docs[progressKey{userID, courseID}]
	var cp domain.UserProgress
	if ok {
		cp = *doc
	}
	hook := r.afterGet
	r.afterGet = nil
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &cp, nil
}

func (r *fakeProgressRepo) AddVideoWatched(_ context.Context, userID, courseID, videoID primitive.ObjectID) (*domain.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc := r.getOrCreate(userID, courseID)
	doc.VideosWatched = appendUnique(doc.VideosWatched, videoID)
	cp := *doc
	return &cp, nil
}

func (r *fakeProgressRepo) SetNotesViewed(_ context.Context, userID, courseID primitive.ObjectID) (*domain.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc := r.getOrCreate(userID, courseID)
	doc.NotesViewed = true
	cp := *doc
	return &cp, nil
}

func (r *fakeProgressRepo) SetAssignmentSubmitted(_ context.Context, userID, courseID primitive.ObjectID) (*domain.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc := r.getOrCreate(userID, courseID)
	doc.AssignmentSubmitted = true
	cp := *doc
	return &cp, nil
}

func (r *fakeProgressRepo) SetCertificateGenerated(_ context.Context, userID, courseID primitive.ObjectID) (*domain.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc := r.getOrCreate(userID, courseID)
	doc.CertificateGenerated = true
	cp := *doc
	return &cp, nil
}

func (r *fakeProgressRepo) AppendQuizAttempt(_ context.Context, userID, courseID primitive.ObjectID, attempt domain.QuizAttempt, priorCount int) (*domain.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc := r.getOrCreate(userID, courseID)
	if len(doc.QuizAttempts) != priorCount {
		return nil, repository.ErrStale
	}
	doc.QuizAttempts = append(doc.QuizAttempts, attempt)
	cp := *doc
	return &cp, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[primitive.ObjectID]*domain.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[primitive.ObjectID]*domain.Review{}}
}

func (r *fakeReviewRepo) Create(_ context.Context, review *domain.Review) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	cp := *review
	cp.ID = id
	r.reviews[id] = &cp
	return id, nil
}

func (r *fakeReviewRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rv, ok := r.reviews[id]; ok {
		cp := *rv
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeReviewRepo) List(_ context.Context) ([]domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Review, 0, len(r.reviews))
	for _, rv := range r.reviews {
		out = append(out, *rv)
	}
	return out, nil
}

func (r *fakeReviewRepo) ListByCourse(_ context.Context, courseID primitive.ObjectID) ([]domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Review
	for _, rv := range r.reviews {
		if rv.CourseID == courseID {
			out = append(out, *rv)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) SetAdminReply(_ context.Context, id primitive.ObjectID, reply string) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rv.AdminReply = reply
	cp := *rv
	return &cp, nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.reviews, id)
	return nil
}

// fakeStorage records stored objects in memory. failDelete simulates an
// unreachable storage backend on delete.
type fakeStorage struct {
	mu         sync.Mutex
	objects    map[string][]byte
	failDelete bool
	deleted    []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Store(_ context.Context, objectKey string, body io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectKey] = data
	return nil
}

func (s *fakeStorage) DownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "/uploads/" + objectKey, nil
}

func (s *fakeStorage) Delete(_ context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, objectKey)
	if s.failDelete {
		return io.ErrUnexpectedEOF
	}
	delete(s.objects, objectKey)
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *fakeMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return io.ErrUnexpectedEOF
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

type fakeGateway struct {
	mu     sync.Mutex
	orders []int64
	fail   bool
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return "", io.ErrUnexpectedEOF
	}
	g.orders = append(g.orders, amount)
	return "order_test123", nil
}

func uploadOf(content, fileName, contentType string) Upload {
	return Upload{
		FileName:    fileName,
		ContentType: contentType,
		Size:        int64(len(content)),
		Body:        bytes.NewReader([]byte(content)),
	}
}
