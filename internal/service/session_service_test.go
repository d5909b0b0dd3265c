package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
	apperrors "github.com/yourusername/cars-practice-api/internal/pkg/errors"
	"github.com/yourusername/cars-practice-api/internal/repository/postgres"
	"github.com/yourusername/cars-practice-api/internal/testutil"
)

type sessionFixture struct {
	db       *gorm.DB
	service  *SessionService
	progress *ProgressService
	user     *entity.User
	passage  *entity.Passage
	now      time.Time
}

func newSessionFixture(t *testing.T, questionCount int) *sessionFixture {
	t.Helper()
	db := testutil.NewTestDB(t)

	sessionRepo := postgres.NewSessionRepo(db)
	questionRepo := postgres.NewQuestionRepo(db)
	progressService := NewProgressService(postgres.NewProgressRepo(db), sessionRepo)
	passageService := NewPassageService(postgres.NewPassageRepo(db), nil, 0)

	f := &sessionFixture{
		db:       db,
		progress: progressService,
		user:     testutil.CreateUser(t, db, "session@example.com"),
		passage:  testutil.CreatePassage(t, db, "Jazz and Improvisation", questionCount),
		now:      time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC),
	}
	f.service = NewSessionService(db, sessionRepo, questionRepo, passageService, progressService).
		WithClock(func() time.Time { return f.now })
	return f
}

func (f *sessionFixture) answer(t *testing.T, sessionID uint, questionNumber int, letter string) *entity.SessionAnswer {
	t.Helper()
	choiceID := testutil.ChoiceID(t, f.passage, questionNumber, letter)
	a, err := f.service.SubmitAnswer(context.Background(), sessionID, f.user.ID, SubmitAnswerInput{
		QuestionID:       testutil.QuestionID(t, f.passage, questionNumber),
		SelectedChoiceID: &choiceID,
	})
	require.NoError(t, err)
	return a
}

func TestSessionService_CreateSession(t *testing.T) {
	f := newSessionFixture(t, 4)
	ctx := context.Background()

	created, err := f.service.CreateSession(ctx, f.user.ID, f.passage.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 4, created.Session.TotalQuestions)
	assert.True(t, created.Session.TimedSession)
	assert.Nil(t, created.Session.CompletedAt)
	require.Len(t, created.Passage.Questions, 4)
	assert.Equal(t, 1, created.Passage.Questions[0].QuestionNumber)

	details, err := f.service.GetSession(ctx, created.Session.ID, f.user.ID)
	require.NoError(t, err)
	require.Len(t, details.Answers, 4)
	for _, a := range details.Answers {
		assert.Nil(t, a.SelectedChoiceID)
		assert.False(t, a.IsFlagged)
	}
}

func TestSessionService_CreateSession_PassageNotFound(t *testing.T) {
	f := newSessionFixture(t, 1)

	_, err := f.service.CreateSession(context.Background(), f.user.ID, 9999, false)
	assert.ErrorIs(t, err, ErrPassageNotFound)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSessionService_GetSession_OtherUser(t *testing.T) {
	f := newSessionFixture(t, 1)
	ctx := context.Background()

	created, err := f.service.CreateSession(ctx, f.user.ID, f.passage.ID, false)
	require.NoError(t, err)

	other := testutil.CreateUser(t, f.db, "other@example.com")
	_, err = f.service.GetSession(ctx, created.Session.ID, other.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_SubmitAnswer(t *testing.T) {
	f := newSessionFixture(t, 2)
	ctx := context.Background()

	created, err := f.service.CreateSession(ctx, f.user.ID, f.passage.ID, false)
	require.NoError(t, err)
	sid := created.Session.ID

	correct := f.answer(t, sid, 1, "B")
	require.NotNil(t, correct.IsCorrect)
	assert.True(t, *correct.IsCorrect)
	require.NotNil(t, correct.AnsweredAt)
	assert.True(t, f.now.Equal(*correct.AnsweredAt))

	wrong := f.answer(t, sid, 2, "D")
	require.NotNil(t, wrong.IsCorrect)
	assert.False(t, *wrong.IsCorrect)

	// только флаг: выбор и корректность не меняются
	flag := true
	flagged, err := f.service.SubmitAnswer(ctx, sid, f.user.ID, SubmitAnswerInput{
		QuestionID: testutil.QuestionID(t, f.passage, 1),
		IsFlagged:  &flag,
	})
	require.NoError(t, err)
	assert.True(t, flagged.IsFlagged)
	require.NotNil(t, flagged.IsCorrect)
	assert.True(t, *flagged.IsCorrect)

	details, err := f.service.GetSession(ctx, sid, f.user.ID)
	require.NoError(t, err)
	for _, a := range details.Answers {
		if a.QuestionID == testutil.QuestionID(t, f.passage, 1) {
			assert.True(t, a.IsFlagged)
			require.NotNil(t, a.SelectedChoiceID)
			assert.Equal(t, testutil.ChoiceID(t, f.passage, 1, "B"), *a.SelectedChoiceID)
		}
	}
}

func TestSessionService_SubmitAnswer_Errors(t *testing.T) {
	f := newSessionFixture(t, 2)
	ctx := context.Background()

	created, err := f.service.CreateSession(ctx, f.user.ID, f.passage.ID, false)
	require.NoError(t, err)
	sid := created.Session.ID
	q1 := testutil.QuestionID(t, f.passage, 1)

	_, err = f.service.SubmitAnswer(ctx, sid, f.user.ID, SubmitAnswerInput{QuestionID: q1})
	assert.ErrorIs(t, err, ErrEmptyAnswerUpdate)

	flag := true
	_, err = f.service.SubmitAnswer(ctx, sid, f.user.ID, SubmitAnswerInput{QuestionID: 9999, IsFlagged: &flag})
	assert.ErrorIs(t, err, ErrQuestionNotInSession)

	missing := uint(9999)
	_, err = f.service.SubmitAnswer(ctx, sid, f.user.ID, SubmitAnswerInput{QuestionID: q1, SelectedChoiceID: &missing})
	assert.ErrorIs(t, err, ErrInvalidChoice)

	// вариант из другого вопроса
	foreign := testutil.ChoiceID(t, f.passage, 2, "B")
	_, err = f.service.SubmitAnswer(ctx, sid, f.user.ID, SubmitAnswerInput{QuestionID: q1, SelectedChoiceID: &foreign})
	assert.ErrorIs(t, err, ErrInvalidChoice)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.service.SubmitAnswer(ctx, sid, f.user.ID+100, SubmitAnswerInput{QuestionID: q1, IsFlagged: &flag})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.service.CompleteSession(ctx, sid, f.user.ID, nil)
	require.NoError(t, err)

	_, err = f.service.SubmitAnswer(ctx, sid, f.user.ID, SubmitAnswerInput{QuestionID: q1, IsFlagged: &flag})
	assert.ErrorIs(t, err, ErrSessionAlreadyCompleted)
}

func TestSessionService_CompleteAndResults_ThreeQuestions(t *testing.T) {
	f := newSessionFixture(t, 3)
	ctx := context.Background()

	created, err := f.service.CreateSession(ctx, f.user.ID, f.passage.ID, false)
	require.NoError(t, err)
	sid := created.Session.ID

	f.answer(t, sid, 1, "B") // верно
	f.answer(t, sid, 2, "A") // неверно
	// вопрос 3 без ответа

	_, err = f.service.GetSessionResults(ctx, sid, f.user.ID)
	assert.ErrorIs(t, err, ErrSessionNotCompleted)

	spent := 300
	f.now = f.now.Add(10 * time.Minute)
	completed, err := f.service.CompleteSession(ctx, sid, f.user.ID, &spent)
	require.NoError(t, err)
	assert.Equal(t, 1, completed.Score)
	assert.Equal(t, 3, completed.TotalQuestions)
	require.NotNil(t, completed.Session.CompletedAt)

	results, err := f.service.GetSessionResults(ctx, sid, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, results.Score)
	assert.Equal(t, 3, results.TotalQuestions)
	require.NotNil(t, results.TimeSpent)
	assert.Equal(t, 300, *results.TimeSpent)
	require.Len(t, results.Questions, 3)

	q1, q2, q3 := results.Questions[0], results.Questions[1], results.Questions[2]
	assert.Equal(t, entity.OutcomeCorrect, q1.Outcome)
	assert.Equal(t, "B", q1.UserAnswer.ChoiceLetter)

	assert.Equal(t, entity.OutcomeIncorrect, q2.Outcome)
	assert.Equal(t, "A", q2.UserAnswer.ChoiceLetter)
	assert.Equal(t, "B", q2.CorrectAnswer.ChoiceLetter)

	assert.Equal(t, entity.OutcomeUnanswered, q3.Outcome)
	assert.Nil(t, q3.UserAnswer)
	assert.False(t, q3.IsCorrect())
	assert.Len(t, q3.AllChoices, 4)

	// повторное завершение отклоняется и ничего не пишет
	_, err = f.service.CompleteSession(ctx, sid, f.user.ID, nil)
	assert.ErrorIs(t, err, ErrSessionAlreadyCompleted)

	again, err := f.service.GetSessionResults(ctx, sid, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 300, *again.TimeSpent)

	progress, err := f.progress.GetProgress(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.TotalSessions)
}

func TestSessionService_Complete_TimedSessionDerivesTimeSpent(t *testing.T) {
	f := newSessionFixture(t, 1)
	ctx := context.Background()

	created, err := f.service.CreateSession(ctx, f.user.ID, f.passage.ID, true)
	require.NoError(t, err)

	f.now = f.now.Add(95 * time.Second)
	completed, err := f.service.CompleteSession(ctx, created.Session.ID, f.user.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, completed.Session.TimeSpent)
	assert.Equal(t, 95, *completed.Session.TimeSpent)
}

func TestSessionService_Complete_UntimedKeepsNullTimeSpent(t *testing.T) {
	f := newSessionFixture(t, 1)
	ctx := context.Background()

	created, err := f.service.CreateSession(ctx, f.user.ID, f.passage.ID, false)
	require.NoError(t, err)

	completed, err := f.service.CompleteSession(ctx, created.Session.ID, f.user.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, completed.Session.TimeSpent)
	assert.Equal(t, 0, completed.Score)
}

func TestSessionService_ProgressAcrossSessions(t *testing.T) {
	f := newSessionFixture(t, 3)
	ctx := context.Background()

	first, err := f.service.CreateSession(ctx, f.user.ID, f.passage.ID, false)
	require.NoError(t, err)
	f.answer(t, first.Session.ID, 1, "B")
	f.answer(t, first.Session.ID, 2, "B")
	spent := 200
	f.now = f.now.Add(time.Hour)
	firstCompletedAt := f.now
	_, err = f.service.CompleteSession(ctx, first.Session.ID, f.user.ID, &spent)
	require.NoError(t, err)

	second, err := f.service.CreateSession(ctx, f.user.ID, f.passage.ID, false)
	require.NoError(t, err)
	f.answer(t, second.Session.ID, 3, "B")
	f.now = f.now.Add(time.Hour)
	secondCompletedAt := f.now
	_, err = f.service.CompleteSession(ctx, second.Session.ID, f.user.ID, nil)
	require.NoError(t, err)

	// незавершенная сессия в статистику не попадает
	_, err = f.service.CreateSession(ctx, f.user.ID, f.passage.ID, false)
	require.NoError(t, err)

	progress, err := f.progress.GetProgress(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, progress.TotalSessions)
	assert.Equal(t, 6, progress.TotalQuestionsAnswered)
	assert.Equal(t, 3, progress.TotalCorrect)
	assert.InDelta(t, 50.0, progress.AverageScore, 0.001)
	assert.Equal(t, 200, progress.TotalTimeSpent)
	require.NotNil(t, progress.LastPracticeAt)
	assert.True(t, secondCompletedAt.Equal(*progress.LastPracticeAt))
	assert.False(t, firstCompletedAt.Equal(*progress.LastPracticeAt))

	sessions, err := f.service.ListSessions(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 3)

	history, err := f.progress.ListHistory(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.Session.ID, history[0].ID)
}
