package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"lms_backend/models"
)

type fakeRepo struct {
	exercises     map[int]models.Exercise
	lastCompleted *models.Exercise
	questions     []models.QuizQuestion
	answers       []models.QuizAnswer

	createErr error
	created   []models.QuizAttempt
}

func (f *fakeRepo) GetExercise(_ context.Context, exerciseID int) (*models.Exercise, error) {
	e, ok := f.exercises[exerciseID]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (f *fakeRepo) LastCompletedExercise(_ context.Context, _, _ int) (*models.Exercise, error) {
	return f.lastCompleted, nil
}

func (f *fakeRepo) ListExercisesUpTo(_ context.Context, courseID, orderIndex int) ([]models.Exercise, error) {
	var out []models.Exercise
	for _, e := range f.exercises {
		if e.CourseID == courseID && e.OrderIndex <= orderIndex {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListQuestions(_ context.Context, courseID int) ([]models.QuizQuestion, error) {
	var out []models.QuizQuestion
	for _, q := range f.questions {
		if q.CourseID == courseID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAnswers(_ context.Context, _ int) ([]models.QuizAnswer, error) {
	return f.answers, nil
}

func (f *fakeRepo) CreateAttempt(_ context.Context, attempt *models.QuizAttempt) error {
	if f.createErr != nil {
		return f.createErr
	}
	attempt.ID = len(f.created) + 1
	f.created = append(f.created, *attempt)
	return nil
}

func intp(v int) *int { return &v }

func question(id int, categoryID, exerciseID *int) models.QuizQuestion {
	return models.QuizQuestion{
		ID:            id,
		CourseID:      1,
		CategoryID:    categoryID,
		ExerciseID:    exerciseID,
		Question:      "q",
		Options:       []string{"a", "b", "c", "d"},
		CorrectAnswer: "a",
	}
}

func quizExercise(metadata string) models.Exercise {
	return models.Exercise{
		ID:       10,
		CourseID: 1,
		Title:    "quiz",
		Type:     models.ExerciseTypeQuiz,
		Metadata: json.RawMessage(metadata),
	}
}

// reference is the student's last completed exercise, in category 100 at
// order index 1 unless a test says otherwise.
func newRepo(metadata string) *fakeRepo {
	ref := models.Exercise{ID: 1, CourseID: 1, CategoryID: intp(100), Type: models.ExerciseTypeContent, OrderIndex: 1}
	return &fakeRepo{
		exercises:     map[int]models.Exercise{10: quizExercise(metadata), 1: ref},
		lastCompleted: &ref,
	}
}

func newGenerator(repo Repository) *Generator {
	return NewSeededGenerator(repo, rand.New(rand.NewSource(1)))
}

func answeredAt(min int) time.Time {
	return time.Date(2025, 3, 1, 12, min, 0, 0, time.UTC)
}

func TestGenerateRejectsNonQuizExercise(t *testing.T) {
	repo := newRepo("")
	repo.exercises[2] = models.Exercise{ID: 2, CourseID: 1, Type: models.ExerciseTypeContent}
	g := newGenerator(repo)

	cases := []struct {
		name       string
		exerciseID int
	}{
		{"unknown exercise", 999},
		{"content exercise", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.Generate(context.Background(), Request{StudentID: 7, ExerciseID: tc.exerciseID})
			if !errors.Is(err, ErrInvalidExercise) {
				t.Fatalf("got %v, want ErrInvalidExercise", err)
			}
		})
	}
}

func TestGenerateNoCompletedExercise(t *testing.T) {
	repo := newRepo("")
	repo.lastCompleted = nil
	repo.questions = []models.QuizQuestion{question(1, nil, nil)}

	_, err := newGenerator(repo).Generate(context.Background(), Request{StudentID: 7, ExerciseID: 10})
	if !errors.Is(err, ErrNoCompletedExercise) {
		t.Fatalf("got %v, want ErrNoCompletedExercise", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("attempt was persisted on error")
	}
}

func TestChapterQuizMissingCategory(t *testing.T) {
	repo := newRepo("")
	ref := models.Exercise{ID: 1, CourseID: 1, Type: models.ExerciseTypeContent, OrderIndex: 1}
	repo.lastCompleted = &ref
	repo.questions = []models.QuizQuestion{question(1, nil, nil)}

	_, err := newGenerator(repo).Generate(context.Background(),
		Request{StudentID: 7, ExerciseID: 10, QuizType: models.QuizTypeChapter})
	if !errors.Is(err, ErrMissingCategory) {
		t.Fatalf("got %v, want ErrMissingCategory", err)
	}
}

func TestNoQuestionsAvailable(t *testing.T) {
	repo := newRepo("")

	_, err := newGenerator(repo).Generate(context.Background(),
		Request{StudentID: 7, ExerciseID: 10, QuizType: models.QuizTypeChapter})

	var nqe *NoQuestionsError
	if !errors.As(err, &nqe) {
		t.Fatalf("got %v, want NoQuestionsError", err)
	}
	if !strings.Contains(nqe.Scope, "chapter 100") {
		t.Errorf("scope hint = %q, want chapter 100 named", nqe.Scope)
	}
	if len(repo.created) != 0 {
		t.Fatalf("attempt was persisted despite empty scope")
	}
}

func TestGenerateStripsAnswersAndRecordsAttempt(t *testing.T) {
	repo := newRepo("")
	for i := 1; i <= 6; i++ {
		repo.questions = append(repo.questions, question(i, intp(100), nil))
	}

	res, err := newGenerator(repo).Generate(context.Background(),
		Request{StudentID: 7, ExerciseID: 10, QuizType: models.QuizTypeChapter})
	if err != nil {
		t.Fatal(err)
	}

	for _, q := range res.Questions {
		if q.CorrectAnswer != "" {
			t.Errorf("question %d still carries its correct answer", q.ID)
		}
	}

	if len(repo.created) != 1 {
		t.Fatalf("created %d attempts, want 1", len(repo.created))
	}
	attempt := repo.created[0]
	if attempt.Passed || attempt.CompletedAt != nil {
		t.Errorf("new attempt must start unpassed and incomplete")
	}
	if attempt.PassingScore != DefaultPassingScore {
		t.Errorf("passing score = %d, want %d", attempt.PassingScore, DefaultPassingScore)
	}
	if attempt.TotalQuestions != len(res.Questions) {
		t.Errorf("total = %d, want %d", attempt.TotalQuestions, len(res.Questions))
	}
	if attempt.PublicID == "" {
		t.Errorf("attempt has no public id")
	}
	if len(attempt.QuestionIDs) != len(res.Questions) {
		t.Fatalf("recorded %d ids, served %d questions", len(attempt.QuestionIDs), len(res.Questions))
	}
	for i, q := range res.Questions {
		if attempt.QuestionIDs[i] != int64(q.ID) {
			t.Errorf("id %d = %d, want %d (must match display order)", i, attempt.QuestionIDs[i], q.ID)
		}
	}
}

func TestGeneralQuestionsServeEmptyChapter(t *testing.T) {
	// Chapter has no questions of its own; the three general questions are
	// the whole eligible pool and all of them come back.
	repo := newRepo("")
	repo.questions = []models.QuizQuestion{
		question(1, nil, nil),
		question(2, nil, nil),
		question(3, nil, nil),
		question(4, intp(999), nil), // other chapter, out of scope
	}

	res, err := newGenerator(repo).Generate(context.Background(),
		Request{StudentID: 7, ExerciseID: 10, QuizType: models.QuizTypeChapter})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(res.Questions))
	}
	for _, q := range res.Questions {
		if q.ID == 4 {
			t.Errorf("out-of-scope question 4 was served")
		}
	}
}

func TestChapterScopeIsolation(t *testing.T) {
	repo := newRepo("")
	repo.questions = []models.QuizQuestion{
		question(1, intp(100), nil),
		question(2, intp(100), nil),
		question(3, intp(200), nil),
		question(4, intp(200), nil),
		question(5, nil, nil),
	}

	res, err := newGenerator(repo).Generate(context.Background(),
		Request{StudentID: 7, ExerciseID: 10, QuizType: models.QuizTypeChapter})
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range res.Questions {
		if q.CategoryID != nil && *q.CategoryID != 100 {
			t.Errorf("question %d from category %d leaked into a chapter-100 quiz", q.ID, *q.CategoryID)
		}
	}
}

func TestUnansweredQuestionsTakePriority(t *testing.T) {
	// 8 unanswered plus 2 answered-incorrect with max 5: the whole result
	// must come from the unanswered pool.
	repo := newRepo(`{"quiz_config": {"max_questions": 5}}`)
	unanswered := make(map[int]bool)
	for i := 1; i <= 8; i++ {
		repo.questions = append(repo.questions, question(i, intp(100), nil))
		unanswered[i] = true
	}
	for i := 9; i <= 10; i++ {
		repo.questions = append(repo.questions, question(i, intp(100), nil))
		repo.answers = append(repo.answers, models.QuizAnswer{
			QuestionID: i, IsCorrect: false, AnsweredAt: answeredAt(i),
		})
	}

	res, err := newGenerator(repo).Generate(context.Background(),
		Request{StudentID: 7, ExerciseID: 10, QuizType: models.QuizTypeChapter})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Questions) != 5 {
		t.Fatalf("got %d questions, want 5", len(res.Questions))
	}
	for _, q := range res.Questions {
		if !unanswered[q.ID] {
			t.Errorf("question %d selected ahead of unanswered ones", q.ID)
		}
	}
}

func TestMostRecentAnswerDecidesBucket(t *testing.T) {
	// Question 5 was answered wrong twice and then right; question 6 only
	// wrong. With four unanswered questions and max 5, the last slot must go
	// to the incorrect-tier question 6, never to 5.
	repo := newRepo(`{"quiz_config": {"max_questions": 5}}`)
	for i := 1; i <= 4; i++ {
		repo.questions = append(repo.questions, question(i, intp(100), nil))
	}
	repo.questions = append(repo.questions, question(5, intp(100), nil), question(6, intp(100), nil))
	repo.answers = []models.QuizAnswer{
		{QuestionID: 5, IsCorrect: false, AnsweredAt: answeredAt(1)},
		{QuestionID: 5, IsCorrect: false, AnsweredAt: answeredAt(2)},
		{QuestionID: 5, IsCorrect: true, AnsweredAt: answeredAt(3)},
		{QuestionID: 6, IsCorrect: false, AnsweredAt: answeredAt(1)},
	}

	res, err := newGenerator(repo).Generate(context.Background(),
		Request{StudentID: 7, ExerciseID: 10, QuizType: models.QuizTypeChapter})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Questions) != 5 {
		t.Fatalf("got %d questions, want 5", len(res.Questions))
	}
	var got5, got6 bool
	for _, q := range res.Questions {
		if q.ID == 5 {
			got5 = true
		}
		if q.ID == 6 {
			got6 = true
		}
	}
	if got5 {
		t.Errorf("correctly answered question 5 selected ahead of incorrect tier")
	}
	if !got6 {
		t.Errorf("incorrectly answered question 6 missing from selection")
	}
}

func TestProgressScope(t *testing.T) {
	repo := newRepo("")
	addExercise := func(id int, categoryID *int, order int) {
		repo.exercises[id] = models.Exercise{
			ID: id, CourseID: 1, CategoryID: categoryID,
			Type: models.ExerciseTypeContent, OrderIndex: order,
		}
	}
	addExercise(1, intp(100), 1)
	addExercise(2, intp(100), 2)
	addExercise(3, intp(200), 3)
	addExercise(4, nil, 4)
	addExercise(5, intp(200), 5)
	addExercise(6, intp(300), 6) // past the reference point

	ref := repo.exercises[5]
	repo.lastCompleted = &ref

	repo.questions = []models.QuizQuestion{
		question(1, intp(100), nil),
		question(2, intp(200), nil),
		question(3, intp(300), nil), // future chapter
		question(4, nil, intp(4)),   // exercise-scoped, within progress
		question(5, nil, intp(6)),   // exercise-scoped, past reference
		question(6, nil, nil),       // general
	}

	res, err := newGenerator(repo).Generate(context.Background(),
		Request{StudentID: 7, ExerciseID: 10, QuizType: models.QuizTypeProgress})
	if err != nil {
		t.Fatal(err)
	}

	got := make(map[int]bool)
	for _, q := range res.Questions {
		got[q.ID] = true
	}
	for _, want := range []int{1, 2, 4, 6} {
		if !got[want] {
			t.Errorf("question %d missing from progress scope", want)
		}
	}
	for _, excluded := range []int{3, 5} {
		if got[excluded] {
			t.Errorf("question %d past the reference point was served", excluded)
		}
	}
}

func TestBackfillReachesConfiguredMinimum(t *testing.T) {
	// max below min leaves the priority pass short; the backfill pass tops
	// the selection up to the minimum from the rest of the pool.
	repo := newRepo(`{"quiz_config": {"min_questions": 8, "max_questions": 5}}`)
	for i := 1; i <= 12; i++ {
		repo.questions = append(repo.questions, question(i, intp(100), nil))
	}

	res, err := newGenerator(repo).Generate(context.Background(),
		Request{StudentID: 7, ExerciseID: 10, QuizType: models.QuizTypeChapter})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Questions) != 8 {
		t.Fatalf("got %d questions, want 8", len(res.Questions))
	}
	seen := make(map[int]bool)
	for _, q := range res.Questions {
		if seen[q.ID] {
			t.Errorf("question %d served twice", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestConfigSuppliesQuizTypeWhenRequestOmitsIt(t *testing.T) {
	// The reference exercise has no category, so a chapter quiz would fail;
	// succeeding proves the configured progress type was used.
	repo := newRepo(`{"quiz_config": {"quiz_type": "progress"}}`)
	ref := models.Exercise{ID: 1, CourseID: 1, Type: models.ExerciseTypeContent, OrderIndex: 1}
	repo.exercises[1] = ref
	repo.lastCompleted = &ref
	repo.questions = []models.QuizQuestion{question(1, nil, nil)}

	if _, err := newGenerator(repo).Generate(context.Background(),
		Request{StudentID: 7, ExerciseID: 10}); err != nil {
		t.Fatalf("got %v, want progress quiz from config", err)
	}
}

func TestPersistenceFailureReturnsNoQuestions(t *testing.T) {
	repo := newRepo("")
	repo.questions = []models.QuizQuestion{question(1, intp(100), nil)}
	cause := errors.New("connection reset")
	repo.createErr = cause

	res, err := newGenerator(repo).Generate(context.Background(),
		Request{StudentID: 7, ExerciseID: 10, QuizType: models.QuizTypeChapter})
	if res != nil {
		t.Fatalf("questions returned despite failed attempt write")
	}
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want PersistenceError", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause not preserved through wrap")
	}
}
