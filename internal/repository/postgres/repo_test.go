package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
	"github.com/yourusername/cars-practice-api/internal/domain/repository"
	apperrors "github.com/yourusername/cars-practice-api/internal/pkg/errors"
	"github.com/yourusername/cars-practice-api/internal/testutil"
)

func TestUserRepo_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	user := &entity.User{Email: "reader@example.com", Password: "password123", Name: "Reader"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "password123", user.Password, "пароль должен храниться хешем")

	byEmail, err := repo.GetByEmail(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.True(t, byEmail.CheckPassword("password123"))

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Reader", byID.Name)

	_, err = repo.GetByEmail(ctx, "READER@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "email сравнивается точно")

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPassageRepo_GetWithQuestionsOrdered(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPassageRepo(db)
	ctx := context.Background()

	created := testutil.CreatePassage(t, db, "Jazz and Improvisation", 3)

	passage, err := repo.GetWithQuestions(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, passage.Questions, 3)
	for i, q := range passage.Questions {
		assert.Equal(t, i+1, q.QuestionNumber)
		require.Len(t, q.Choices, 4)
		assert.Equal(t, []string{"A", "B", "C", "D"}, []string{
			q.Choices[0].ChoiceLetter, q.Choices[1].ChoiceLetter, q.Choices[2].ChoiceLetter, q.Choices[3].ChoiceLetter,
		})
	}

	_, err = repo.GetWithQuestions(ctx, 9999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPassageRepo_ListAndExists(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewPassageRepo(db)
	ctx := context.Background()

	testutil.CreatePassage(t, db, "First", 1)
	testutil.CreatePassage(t, db, "Second", 2)

	passages, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, passages, 2)
	assert.Empty(t, passages[0].Questions, "список не содержит вопросов")

	exists, err := repo.ExistsByTitle(ctx, "Second")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByTitle(ctx, "Third")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSessionRepo_CreateWithAnswers(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSessionRepo(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "s@example.com")
	passage := testutil.CreatePassage(t, db, "Passage", 3)

	session := &entity.PracticeSession{
		UserID:         user.ID,
		PassageID:      passage.ID,
		StartedAt:      time.Now(),
		TotalQuestions: 3,
	}
	ids := []uint{
		testutil.QuestionID(t, passage, 1),
		testutil.QuestionID(t, passage, 2),
		testutil.QuestionID(t, passage, 3),
	}
	require.NoError(t, repo.CreateWithAnswers(ctx, session, ids))

	answers, err := repo.GetAnswers(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, answers, 3)
	for _, a := range answers {
		assert.Nil(t, a.SelectedChoiceID)
		assert.Nil(t, a.IsCorrect)
		assert.False(t, a.IsFlagged)
	}

	// чужой пользователь сессию не видит
	_, err = repo.GetByIDForUser(ctx, session.ID, user.ID+1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	got, err := repo.GetByIDForUser(ctx, session.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, got.IsCompleted())
}

func TestSessionRepo_MarkCompletedOnlyOnce(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSessionRepo(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "once@example.com")
	passage := testutil.CreatePassage(t, db, "Passage", 1)
	session := &entity.PracticeSession{UserID: user.ID, PassageID: passage.ID, StartedAt: time.Now(), TotalQuestions: 1}
	require.NoError(t, repo.CreateWithAnswers(ctx, session, []uint{testutil.QuestionID(t, passage, 1)}))

	answer, err := repo.GetAnswer(ctx, session.ID, testutil.QuestionID(t, passage, 1))
	require.NoError(t, err)
	require.NoError(t, repo.UpdateAnswer(ctx, session.ID, answer.ID, map[string]interface{}{"is_correct": true}))

	spent := 120
	score, err := repo.MarkCompleted(db, session.ID, time.Now(), &spent)
	require.NoError(t, err)
	assert.Equal(t, 1, score)

	_, err = repo.MarkCompleted(db, session.ID, time.Now(), nil)
	assert.ErrorIs(t, err, repository.ErrSessionAlreadyCompleted)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	got, err := repo.GetByIDForUser(ctx, session.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Score)
	assert.Equal(t, 1, *got.Score, "повторный вызов ничего не пишет")
	require.NotNil(t, got.TimeSpent)
	assert.Equal(t, 120, *got.TimeSpent)

	completed, err := repo.ListCompletedByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	require.NotNil(t, completed[0].Passage)
	assert.Equal(t, "Passage", completed[0].Passage.Title)
}

func TestSessionRepo_MarkCompletedScoresAtomically(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSessionRepo(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "count@example.com")
	passage := testutil.CreatePassage(t, db, "Passage", 2)
	q1 := testutil.QuestionID(t, passage, 1)
	q2 := testutil.QuestionID(t, passage, 2)
	session := &entity.PracticeSession{UserID: user.ID, PassageID: passage.ID, StartedAt: time.Now(), TotalQuestions: 2}
	require.NoError(t, repo.CreateWithAnswers(ctx, session, []uint{q1, q2}))

	a1, err := repo.GetAnswer(ctx, session.ID, q1)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateAnswer(ctx, session.ID, a1.ID, map[string]interface{}{
		"selected_choice_id": testutil.ChoiceID(t, passage, 1, "B"),
		"is_correct":         true,
	}))
	a2, err := repo.GetAnswer(ctx, session.ID, q2)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateAnswer(ctx, session.ID, a2.ID, map[string]interface{}{"is_correct": false}))

	// score считается в том же UPDATE, что и завершение
	var score int
	err = db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		score, txErr = repo.MarkCompleted(tx, session.ID, time.Now(), nil)
		return txErr
	})
	require.NoError(t, err)
	assert.Equal(t, 1, score)

	// Запись, прошедшая проверку до завершения, после него отклоняется и не меняет ответ
	err = repo.UpdateAnswer(ctx, session.ID, a2.ID, map[string]interface{}{
		"selected_choice_id": testutil.ChoiceID(t, passage, 2, "B"),
		"is_correct":         true,
	})
	assert.ErrorIs(t, err, repository.ErrSessionAlreadyCompleted)

	stored, err := repo.GetAnswer(ctx, session.ID, q2)
	require.NoError(t, err)
	require.NotNil(t, stored.IsCorrect)
	assert.False(t, *stored.IsCorrect)
	assert.Nil(t, stored.SelectedChoiceID)

	got, err := repo.GetByIDForUser(ctx, session.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Score)
	assert.Equal(t, 1, *got.Score)

	_, err = repo.GetAnswer(ctx, session.ID, 9999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProgressRepo_InitAndUpsert(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProgressRepo(db)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "progress@example.com")

	_, err := repo.GetByUserID(ctx, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, repo.Init(ctx, user.ID))
	require.NoError(t, repo.Init(ctx, user.ID), "повторная инициализация не падает")

	last := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(db, &entity.UserProgress{
		UserID:                 user.ID,
		TotalSessions:          2,
		TotalQuestionsAnswered: 10,
		TotalCorrect:           7,
		AverageScore:           70,
		TotalTimeSpent:         900,
		LastPracticeAt:         &last,
	}))

	p, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.TotalSessions)
	assert.Equal(t, 7, p.TotalCorrect)
	assert.InDelta(t, 70.0, p.AverageScore, 0.001)
	require.NotNil(t, p.LastPracticeAt)
	assert.True(t, last.Equal(*p.LastPracticeAt))

	var count int64
	require.NoError(t, db.Model(&entity.UserProgress{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "одна строка на пользователя")
}

func TestQuestionRepo_GetByPassageIDAndChoice(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewQuestionRepo(db)
	ctx := context.Background()

	passage := testutil.CreatePassage(t, db, "Passage", 2)

	questions, err := repo.GetByPassageID(ctx, passage.ID)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, 1, questions[0].QuestionNumber)
	assert.Equal(t, "A", questions[0].Choices[0].ChoiceLetter)

	choice, err := repo.GetChoiceByID(ctx, testutil.ChoiceID(t, passage, 2, "B"))
	require.NoError(t, err)
	assert.True(t, choice.IsCorrect)
	assert.Equal(t, testutil.QuestionID(t, passage, 2), choice.QuestionID)

	_, err = repo.GetChoiceByID(ctx, 9999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
