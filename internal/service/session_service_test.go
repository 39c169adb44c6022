package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/studyloop/studyloop-backend/internal/model"
)

// ─── In-memory stores ───

type fakeExamStore struct {
	exams map[uuid.UUID]*model.Exam
}

func (f *fakeExamStore) GetByID(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	exam, ok := f.exams[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *exam
	return &cp, nil
}

type fakeQuestionStore struct {
	byChapter map[uuid.UUID][]model.Question
}

func (f *fakeQuestionStore) ListByChapter(_ context.Context, chapterID uuid.UUID) ([]model.Question, error) {
	return f.byChapter[chapterID], nil
}

func (f *fakeQuestionStore) ListByCourse(_ context.Context, _ uuid.UUID) ([]model.Question, error) {
	var all []model.Question
	for _, qs := range f.byChapter {
		all = append(all, qs...)
	}
	return all, nil
}

type fakeAttemptStore struct {
	attempts  map[uuid.UUID]*model.Attempt
	snapshots map[uuid.UUID][]model.SnapshotQuestion
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{
		attempts:  make(map[uuid.UUID]*model.Attempt),
		snapshots: make(map[uuid.UUID][]model.SnapshotQuestion),
	}
}

func (f *fakeAttemptStore) GetByID(_ context.Context, id uuid.UUID) (*model.Attempt, error) {
	attempt, ok := f.attempts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *attempt
	return &cp, nil
}

func (f *fakeAttemptStore) Replace(_ context.Context, attempt *model.Attempt, questions []model.SnapshotQuestion) error {
	for id, existing := range f.attempts {
		if existing.ExamID == attempt.ExamID && existing.LearnerID == attempt.LearnerID {
			delete(f.attempts, id)
			delete(f.snapshots, id)
		}
	}
	cp := *attempt
	f.attempts[attempt.ID] = &cp
	f.snapshots[attempt.ID] = append([]model.SnapshotQuestion(nil), questions...)
	return nil
}

func (f *fakeAttemptStore) SnapshotQuestions(_ context.Context, attemptID uuid.UUID) ([]model.SnapshotQuestion, error) {
	return append([]model.SnapshotQuestion(nil), f.snapshots[attemptID]...), nil
}

func (f *fakeAttemptStore) MarkSubmitted(_ context.Context, attemptID uuid.UUID, score float64, completedAt time.Time, _ map[uuid.UUID]string) (bool, error) {
	attempt, ok := f.attempts[attemptID]
	if !ok || attempt.Status != model.AttemptStatusInProgress {
		return false, nil
	}
	attempt.Status = model.AttemptStatusSubmitted
	attempt.Score = &score
	attempt.CompletedAt = &completedAt
	return true, nil
}

func (f *fakeAttemptStore) ListResults(_ context.Context, learnerID uuid.UUID, _ *uuid.UUID) ([]model.AttemptResult, error) {
	var results []model.AttemptResult
	for _, a := range f.attempts {
		if a.LearnerID != learnerID {
			continue
		}
		res := model.AttemptResult{
			AttemptID: a.ID,
			ExamID:    a.ExamID,
			Status:    a.Status,
			StartedAt: a.StartedAt,
			Score:     a.Score,
		}
		if a.Score != nil {
			scaled := *a.Score / 10
			res.ScoreScaled = &scaled
		}
		results = append(results, res)
	}
	return results, nil
}

// ─── Fixtures ───

type sessionFixture struct {
	svc       *SessionService
	exams     *fakeExamStore
	questions *fakeQuestionStore
	attempts  *fakeAttemptStore
	chapterID uuid.UUID
	courseID  uuid.UUID
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	f := &sessionFixture{
		exams:     &fakeExamStore{exams: make(map[uuid.UUID]*model.Exam)},
		questions: &fakeQuestionStore{byChapter: make(map[uuid.UUID][]model.Question)},
		attempts:  newFakeAttemptStore(),
		chapterID: uuid.New(),
		courseID:  uuid.New(),
	}
	f.svc = NewSessionService(f.exams, f.questions, f.attempts, rdb)
	return f
}

func (f *sessionFixture) addQuestions(chapterID uuid.UUID, count int, correct string) []model.Question {
	qs := make([]model.Question, count)
	for i := range qs {
		qs[i] = model.Question{
			ID:            uuid.New(),
			ChapterID:     chapterID,
			QuestionText:  "q",
			CorrectOption: correct,
		}
	}
	f.questions.byChapter[chapterID] = append(f.questions.byChapter[chapterID], qs...)
	return qs
}

func (f *sessionFixture) addExam(chapterID *uuid.UUID, questionCount, limitMinutes int) *model.Exam {
	exam := &model.Exam{
		ID:               uuid.New(),
		CourseID:         f.courseID,
		ChapterID:        chapterID,
		Title:            "exam",
		TimeLimitMinutes: limitMinutes,
		QuestionCount:    questionCount,
	}
	f.exams.exams[exam.ID] = exam
	return exam
}

// ─── Tests ───

func TestStartAttemptSamplesFromChapter(t *testing.T) {
	f := newSessionFixture(t)
	f.addQuestions(f.chapterID, 5, "A")
	exam := f.addExam(&f.chapterID, 3, 30)
	learnerID := uuid.New()

	attempt, err := f.svc.StartAttempt(context.Background(), exam.ID, learnerID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if attempt.Status != model.AttemptStatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", attempt.Status)
	}

	questions, err := f.svc.AttemptQuestions(context.Background(), attempt.ID, learnerID)
	if err != nil {
		t.Fatalf("AttemptQuestions: %v", err)
	}
	if len(questions) != 3 {
		t.Errorf("snapshot size = %d, want 3", len(questions))
	}
	for i, q := range questions {
		if q.Position != i+1 {
			t.Errorf("question %d position = %d, want %d", i, q.Position, i+1)
		}
	}
}

func TestStartAttemptSmallPoolTakesAll(t *testing.T) {
	f := newSessionFixture(t)
	f.addQuestions(f.chapterID, 4, "A")
	exam := f.addExam(&f.chapterID, 10, 30)
	learnerID := uuid.New()

	attempt, err := f.svc.StartAttempt(context.Background(), exam.ID, learnerID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	if attempt.QuestionCount != 4 {
		t.Errorf("reported question count = %d, want the whole pool of 4", attempt.QuestionCount)
	}

	questions, err := f.svc.AttemptQuestions(context.Background(), attempt.ID, learnerID)
	if err != nil {
		t.Fatalf("AttemptQuestions: %v", err)
	}
	if len(questions) != 4 {
		t.Errorf("snapshot size = %d, want the whole pool of 4", len(questions))
	}
}

func TestStartAttemptEmptyPool(t *testing.T) {
	f := newSessionFixture(t)
	exam := f.addExam(&f.chapterID, 5, 30)

	_, err := f.svc.StartAttempt(context.Background(), exam.ID, uuid.New())
	if !errors.Is(err, ErrNoQuestionsAvailable) {
		t.Errorf("err = %v, want ErrNoQuestionsAvailable", err)
	}
}

func TestStartAttemptFinalExamPoolsWholeCourse(t *testing.T) {
	f := newSessionFixture(t)
	other := uuid.New()
	f.addQuestions(f.chapterID, 3, "A")
	f.addQuestions(other, 3, "B")
	exam := f.addExam(nil, 6, 60)
	learnerID := uuid.New()

	attempt, err := f.svc.StartAttempt(context.Background(), exam.ID, learnerID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	questions, err := f.svc.AttemptQuestions(context.Background(), attempt.ID, learnerID)
	if err != nil {
		t.Fatalf("AttemptQuestions: %v", err)
	}
	if len(questions) != 6 {
		t.Errorf("final exam drew %d questions, want all 6 across chapters", len(questions))
	}
}

func TestStartAttemptFinalExamUnevenChapters(t *testing.T) {
	f := newSessionFixture(t)
	first := f.addQuestions(uuid.New(), 4, "A")
	empty := uuid.New()
	f.questions.byChapter[empty] = nil
	third := f.addQuestions(uuid.New(), 6, "B")
	exam := f.addExam(nil, 8, 60)
	learnerID := uuid.New()

	pool := make(map[uuid.UUID]bool, 10)
	for _, q := range append(first, third...) {
		pool[q.ID] = true
	}

	attempt, err := f.svc.StartAttempt(context.Background(), exam.ID, learnerID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if attempt.QuestionCount != 8 {
		t.Errorf("reported question count = %d, want 8", attempt.QuestionCount)
	}

	questions, err := f.svc.AttemptQuestions(context.Background(), attempt.ID, learnerID)
	if err != nil {
		t.Fatalf("AttemptQuestions: %v", err)
	}
	if len(questions) != 8 {
		t.Fatalf("snapshot size = %d, want 8 of the 10 pooled questions", len(questions))
	}
	seen := make(map[uuid.UUID]bool, len(questions))
	for _, q := range questions {
		if seen[q.ID] {
			t.Errorf("question %s sampled twice", q.ID)
		}
		seen[q.ID] = true
		if !pool[q.ID] {
			t.Errorf("question %s not in the course pool", q.ID)
		}
	}
}

func TestStartAttemptReplacesPrior(t *testing.T) {
	f := newSessionFixture(t)
	f.addQuestions(f.chapterID, 10, "A")
	exam := f.addExam(&f.chapterID, 5, 30)
	learnerID := uuid.New()
	ctx := context.Background()

	first, err := f.svc.StartAttempt(ctx, exam.ID, learnerID)
	if err != nil {
		t.Fatalf("first StartAttempt: %v", err)
	}

	// Submit the first attempt, then start again: the submitted attempt and
	// its result are discarded, not kept alongside the new one.
	if _, err := f.svc.Submit(ctx, first.ID, learnerID, nil); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	second, err := f.svc.StartAttempt(ctx, exam.ID, learnerID)
	if err != nil {
		t.Fatalf("second StartAttempt: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("second attempt reused the first attempt's ID")
	}

	if _, err := f.svc.AttemptQuestions(ctx, first.ID, learnerID); !errors.Is(err, ErrAttemptNotFound) {
		t.Errorf("first attempt still readable after replacement: %v", err)
	}

	results, err := f.svc.Results(ctx, learnerID, nil)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (prior attempt discarded)", len(results))
	}
	if results[0].AttemptID != second.ID {
		t.Errorf("surviving result belongs to %s, want %s", results[0].AttemptID, second.ID)
	}
}

func TestSnapshotImmuneToPoolChanges(t *testing.T) {
	f := newSessionFixture(t)
	f.addQuestions(f.chapterID, 5, "A")
	exam := f.addExam(&f.chapterID, 5, 30)
	learnerID := uuid.New()
	ctx := context.Background()

	attempt, err := f.svc.StartAttempt(ctx, exam.ID, learnerID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	before, err := f.svc.AttemptQuestions(ctx, attempt.ID, learnerID)
	if err != nil {
		t.Fatalf("AttemptQuestions: %v", err)
	}

	// Grow the pool mid-session; the frozen snapshot must not move.
	f.addQuestions(f.chapterID, 20, "B")

	after, err := f.svc.AttemptQuestions(ctx, attempt.ID, learnerID)
	if err != nil {
		t.Fatalf("AttemptQuestions after pool change: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("snapshot size changed from %d to %d", len(before), len(after))
	}
	for i := range before {
		if before[i].ID != after[i].ID {
			t.Errorf("snapshot question %d changed identity", i)
		}
	}
}

func TestAttemptQuestionsHideAnswers(t *testing.T) {
	f := newSessionFixture(t)
	f.addQuestions(f.chapterID, 3, "C")
	exam := f.addExam(&f.chapterID, 3, 30)
	learnerID := uuid.New()

	attempt, err := f.svc.StartAttempt(context.Background(), exam.ID, learnerID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	questions, err := f.svc.AttemptQuestions(context.Background(), attempt.ID, learnerID)
	if err != nil {
		t.Fatalf("AttemptQuestions: %v", err)
	}
	for _, q := range questions {
		if q.ID == uuid.Nil {
			t.Error("learner question lost its ID")
		}
	}
}

func TestAttemptOwnership(t *testing.T) {
	f := newSessionFixture(t)
	f.addQuestions(f.chapterID, 3, "A")
	exam := f.addExam(&f.chapterID, 3, 30)
	owner := uuid.New()
	stranger := uuid.New()
	ctx := context.Background()

	attempt, err := f.svc.StartAttempt(ctx, exam.ID, owner)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	if _, err := f.svc.AttemptQuestions(ctx, attempt.ID, stranger); !errors.Is(err, ErrAttemptNotFound) {
		t.Errorf("stranger reading questions = %v, want ErrAttemptNotFound", err)
	}
	if _, err := f.svc.State(ctx, attempt.ID, stranger); !errors.Is(err, ErrAttemptNotFound) {
		t.Errorf("stranger reading state = %v, want ErrAttemptNotFound", err)
	}
	if _, err := f.svc.Submit(ctx, attempt.ID, stranger, nil); !errors.Is(err, ErrAttemptNotFound) {
		t.Errorf("stranger submitting = %v, want ErrAttemptNotFound", err)
	}
}

func TestSubmitScoring(t *testing.T) {
	f := newSessionFixture(t)
	qs := f.addQuestions(f.chapterID, 10, "A")
	exam := f.addExam(&f.chapterID, 10, 30)
	learnerID := uuid.New()
	ctx := context.Background()

	attempt, err := f.svc.StartAttempt(ctx, exam.ID, learnerID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	// Answer 7 correctly, 2 wrong, leave 1 blank.
	answers := make(map[uuid.UUID]string)
	for i, q := range qs {
		switch {
		case i < 7:
			answers[q.ID] = "A"
		case i < 9:
			answers[q.ID] = "B"
		}
	}

	state, err := f.svc.Submit(ctx, attempt.ID, learnerID, answers)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if state.Score == nil || *state.Score != 70 {
		t.Errorf("score = %v, want 70", state.Score)
	}
	if state.ScoreScaled == nil || *state.ScoreScaled != 7 {
		t.Errorf("scaled score = %v, want 7", state.ScoreScaled)
	}
	if state.Status != model.AttemptStatusSubmitted {
		t.Errorf("status = %s, want SUBMITTED", state.Status)
	}
}

func TestSubmitBlankScoresZero(t *testing.T) {
	f := newSessionFixture(t)
	f.addQuestions(f.chapterID, 5, "A")
	exam := f.addExam(&f.chapterID, 5, 30)
	learnerID := uuid.New()
	ctx := context.Background()

	attempt, err := f.svc.StartAttempt(ctx, exam.ID, learnerID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	state, err := f.svc.Submit(ctx, attempt.ID, learnerID, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if state.Score == nil || *state.Score != 0 {
		t.Errorf("score = %v, want 0 for an all-blank sheet", state.Score)
	}
	if state.Status != model.AttemptStatusSubmitted {
		t.Errorf("status = %s, want SUBMITTED", state.Status)
	}
}

func TestSubmitTwiceRejected(t *testing.T) {
	f := newSessionFixture(t)
	f.addQuestions(f.chapterID, 5, "A")
	exam := f.addExam(&f.chapterID, 5, 30)
	learnerID := uuid.New()
	ctx := context.Background()

	attempt, err := f.svc.StartAttempt(ctx, exam.ID, learnerID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	if _, err := f.svc.Submit(ctx, attempt.ID, learnerID, nil); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if _, err := f.svc.Submit(ctx, attempt.ID, learnerID, nil); !errors.Is(err, ErrAttemptAlreadySubmitted) {
		t.Errorf("second Submit = %v, want ErrAttemptAlreadySubmitted", err)
	}
}

func TestForceSubmitScoresRecordedAnswers(t *testing.T) {
	f := newSessionFixture(t)
	f.addQuestions(f.chapterID, 4, "A")
	exam := f.addExam(&f.chapterID, 4, 30)
	learnerID := uuid.New()
	ctx := context.Background()

	attempt, err := f.svc.StartAttempt(ctx, exam.ID, learnerID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	if err := f.svc.ForceSubmit(ctx, attempt.ID); err != nil {
		t.Fatalf("ForceSubmit: %v", err)
	}

	state, err := f.svc.State(ctx, attempt.ID, learnerID)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.Status != model.AttemptStatusSubmitted {
		t.Errorf("status = %s, want SUBMITTED", state.Status)
	}
	if state.Score == nil || *state.Score != 0 {
		t.Errorf("score = %v, want 0 with no answers", state.Score)
	}

	// Forcing again is a no-op, not an error.
	if err := f.svc.ForceSubmit(ctx, attempt.ID); err != nil {
		t.Errorf("second ForceSubmit: %v", err)
	}
}

func TestStateCountsDown(t *testing.T) {
	f := newSessionFixture(t)
	f.addQuestions(f.chapterID, 3, "A")
	exam := f.addExam(&f.chapterID, 3, 30)
	learnerID := uuid.New()
	ctx := context.Background()

	start := time.Now()
	f.svc.now = func() time.Time { return start }

	attempt, err := f.svc.StartAttempt(ctx, exam.ID, learnerID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	state, err := f.svc.State(ctx, attempt.ID, learnerID)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state.RemainingSeconds < 1795 || state.RemainingSeconds > 1800 {
		t.Errorf("remaining = %d, want about 1800", state.RemainingSeconds)
	}

	f.svc.now = func() time.Time { return start.Add(10 * time.Minute) }
	state, err = f.svc.State(ctx, attempt.ID, learnerID)
	if err != nil {
		t.Fatalf("State after 10m: %v", err)
	}
	if state.RemainingSeconds < 1195 || state.RemainingSeconds > 1200 {
		t.Errorf("remaining after 10m = %d, want about 1200", state.RemainingSeconds)
	}

	// Past the deadline the countdown clamps at zero.
	f.svc.now = func() time.Time { return start.Add(40 * time.Minute) }
	state, err = f.svc.State(ctx, attempt.ID, learnerID)
	if err != nil {
		t.Fatalf("State after 40m: %v", err)
	}
	if state.RemainingSeconds != 0 {
		t.Errorf("remaining after expiry = %d, want 0", state.RemainingSeconds)
	}
}

func TestDeadlineCacheHealsFromDatabase(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	f := &sessionFixture{
		exams:     &fakeExamStore{exams: make(map[uuid.UUID]*model.Exam)},
		questions: &fakeQuestionStore{byChapter: make(map[uuid.UUID][]model.Question)},
		attempts:  newFakeAttemptStore(),
		chapterID: uuid.New(),
		courseID:  uuid.New(),
	}
	f.svc = NewSessionService(f.exams, f.questions, f.attempts, rdb)

	f.addQuestions(f.chapterID, 3, "A")
	exam := f.addExam(&f.chapterID, 3, 30)
	learnerID := uuid.New()
	ctx := context.Background()

	attempt, err := f.svc.StartAttempt(ctx, exam.ID, learnerID)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	// Simulate cache loss; state must recompute from the attempt row.
	mr.FlushAll()

	state, err := f.svc.State(ctx, attempt.ID, learnerID)
	if err != nil {
		t.Fatalf("State after cache flush: %v", err)
	}
	if state.RemainingSeconds == 0 {
		t.Error("remaining dropped to 0 after cache loss")
	}
}
