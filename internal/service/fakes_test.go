package service

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/quizportal/quizportal-backend/internal/model"
	"github.com/quizportal/quizportal-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// In-memory store fakes. They mimic the repositories' contracts: sentinel
// errors, value-copy isolation, and the updated_at optimistic guard.

type memUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uuid.UUID]model.User)}
}

func (s *memUserStore) Create(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = *u
	return nil
}

func (s *memUserStore) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memUserStore) ListStudentsByCohort(ctx context.Context, year *int, branches []model.Branch) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.User
	for _, u := range s.users {
		if u.Role != model.RoleStudent {
			continue
		}
		if year != nil && (u.Year == nil || *u.Year != *year) {
			continue
		}
		if len(branches) > 0 {
			if u.Branch == nil {
				continue
			}
			match := false
			for _, b := range branches {
				if b == *u.Branch {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, u)
	}
	return out, nil
}

type memQuizStore struct {
	mu      sync.Mutex
	quizzes map[uuid.UUID]model.Quiz
	now     time.Time
}

func newMemQuizStore() *memQuizStore {
	return &memQuizStore{quizzes: make(map[uuid.UUID]model.Quiz), now: time.Now()}
}

// tick produces strictly increasing timestamps so the optimistic guard can
// distinguish writes that happen within the same wall-clock instant.
func (s *memQuizStore) tick() time.Time {
	s.now = s.now.Add(time.Millisecond)
	return s.now
}

func (s *memQuizStore) Create(ctx context.Context, q *model.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.ID = uuid.New()
	q.CreatedAt = s.tick()
	q.UpdatedAt = q.CreatedAt
	if q.Questions == nil {
		q.Questions = []model.Question{}
	}
	s.quizzes[q.ID] = *q
	return nil
}

func (s *memQuizStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quizzes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	q.Questions = append([]model.Question(nil), q.Questions...)
	return &q, nil
}

func (s *memQuizStore) Update(ctx context.Context, q *model.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.quizzes[q.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if !current.UpdatedAt.Equal(q.UpdatedAt) {
		return repository.ErrStaleQuiz
	}
	q.UpdatedAt = s.tick()
	s.quizzes[q.ID] = *q
	return nil
}

func (s *memQuizStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.quizzes, id)
	return nil
}

func (s *memQuizStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Quiz
	for _, q := range s.quizzes {
		if q.OwnerID == ownerID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *memQuizStore) ListPublishedForCohort(ctx context.Context, year int, branch model.Branch) ([]model.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Quiz
	for _, q := range s.quizzes {
		if q.Status != model.QuizStatusPublished {
			continue
		}
		y, b := year, branch
		if !q.TargetsCohort(&y, &b) {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

type memSubmissionStore struct {
	mu   sync.Mutex
	subs []model.Submission
	now  time.Time
}

func newMemSubmissionStore() *memSubmissionStore {
	return &memSubmissionStore{now: time.Now()}
}

func (s *memSubmissionStore) Create(ctx context.Context, sub *model.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub.ID = uuid.New()
	s.now = s.now.Add(time.Millisecond)
	sub.SubmittedAt = s.now
	if sub.Answers == nil {
		sub.Answers = []model.Answer{}
	}
	s.subs = append(s.subs, *sub)
	return nil
}

func (s *memSubmissionStore) LatestByQuizAndStudent(ctx context.Context, quizID, studentID uuid.UUID) (*model.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *model.Submission
	for i := range s.subs {
		sub := s.subs[i]
		if sub.QuizID != quizID || sub.StudentID != studentID {
			continue
		}
		if latest == nil || sub.SubmittedAt.After(latest.SubmittedAt) {
			latest = &sub
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (s *memSubmissionStore) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Submission
	for _, sub := range s.subs {
		if sub.QuizID == quizID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (s *memSubmissionStore) ListByQuizWithStudent(ctx context.Context, quizID uuid.UUID) ([]model.SubmissionWithStudent, error) {
	subs, _ := s.ListByQuiz(ctx, quizID)
	out := make([]model.SubmissionWithStudent, len(subs))
	for i, sub := range subs {
		out[i] = model.SubmissionWithStudent{Submission: sub}
	}
	return out, nil
}

type notifiedEvent struct {
	quizID     uuid.UUID
	recipients []model.User
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notifiedEvent
}

func (n *fakeNotifier) QuizPublished(ctx context.Context, quiz *model.Quiz, recipients []model.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notifiedEvent{quizID: quiz.ID, recipients: recipients})
}

// testEnv wires a full service stack over in-memory stores and miniredis.
type testEnv struct {
	users       *memUserStore
	quizzes     *memQuizStore
	subs        *memSubmissionStore
	notifier    *fakeNotifier
	rdb         *redis.Client
	mr          *miniredis.Miniredis
	quizService *QuizService
	subService  *SubmissionService
	analytics   *AnalyticsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	env := &testEnv{
		users:    newMemUserStore(),
		quizzes:  newMemQuizStore(),
		subs:     newMemSubmissionStore(),
		notifier: &fakeNotifier{},
		rdb:      rdb,
		mr:       mr,
	}
	log := zerolog.Nop()
	env.quizService = NewQuizService(env.quizzes, env.users, rdb, env.notifier, log)
	env.subService = NewSubmissionService(env.quizService, env.subs, log)
	env.analytics = NewAnalyticsService(env.quizService, env.subs)
	return env
}

func (e *testEnv) addFaculty(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: name + "@example.edu", PasswordHash: "x", Role: model.RoleFaculty}
	if err := e.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create faculty: %v", err)
	}
	return u
}

func (e *testEnv) addStudent(t *testing.T, name string, year int, branch model.Branch) *model.User {
	t.Helper()
	u := &model.User{
		Name: name, Email: name + "@example.edu", PasswordHash: "x",
		Role: model.RoleStudent, Year: &year, Branch: &branch,
	}
	if err := e.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create student: %v", err)
	}
	return u
}

func (e *testEnv) createQuiz(t *testing.T, ownerID uuid.UUID, req *model.CreateQuizRequest) *model.Quiz {
	t.Helper()
	quiz, err := e.quizService.Create(context.Background(), ownerID, req)
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return quiz
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func sampleQuizRequest() *model.CreateQuizRequest {
	return &model.CreateQuizRequest{
		Title:       "Signals and Systems",
		Description: "Weekly check",
		Questions: []model.QuestionPayload{
			{QuestionText: "Q1", Options: []string{"a", "b"}, CorrectAnswer: intPtr(1)},
			{QuestionText: "Q2", Options: []string{"a", "b"}, CorrectAnswer: intPtr(0)},
			{QuestionText: "Q3", Options: []string{"a", "b", "c"}, CorrectAnswer: intPtr(2)},
		},
	}
}
