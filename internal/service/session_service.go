package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
	"github.com/yourusername/cars-practice-api/internal/domain/repository"
	apperrors "github.com/yourusername/cars-practice-api/internal/pkg/errors"
	"github.com/yourusername/cars-practice-api/pkg/timer"
)

// SessionService ведет сессию практики: создание, ответы, завершение, разбор
type SessionService struct {
	db              *gorm.DB
	sessionRepo     repository.SessionRepository
	questionRepo    repository.QuestionRepository
	passageService  *PassageService
	progressService *ProgressService
	now             func() time.Time
}

// SessionWithPassage - сессия и ее пассаж с вопросами
type SessionWithPassage struct {
	Session *entity.PracticeSession
	Passage *entity.Passage
}

// SessionDetails - сессия, пассаж и текущие ответы
type SessionDetails struct {
	Session *entity.PracticeSession
	Passage *entity.Passage
	Answers []entity.SessionAnswer
}

// SubmitAnswerInput - частичное обновление ответа; nil-поля не меняются
type SubmitAnswerInput struct {
	QuestionID       uint
	SelectedChoiceID *uint
	IsFlagged        *bool
}

// CompletionResult - итог завершения сессии
type CompletionResult struct {
	Session        *entity.PracticeSession
	Score          int
	TotalQuestions int
}

// SessionResults - разбор завершенной сессии по вопросам
type SessionResults struct {
	Session        *entity.PracticeSession
	Score          int
	TotalQuestions int
	TimeSpent      *int
	Questions      []entity.QuestionResult
}

// NewSessionService создает сервис сессий
func NewSessionService(
	db *gorm.DB,
	sessionRepo repository.SessionRepository,
	questionRepo repository.QuestionRepository,
	passageService *PassageService,
	progressService *ProgressService,
) *SessionService {
	return &SessionService{
		db:              db,
		sessionRepo:     sessionRepo,
		questionRepo:    questionRepo,
		passageService:  passageService,
		progressService: progressService,
		now:             time.Now,
	}
}

// WithClock подменяет источник времени (для тестов)
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// CreateSession начинает новую сессию по пассажу.
// Число вопросов фиксируется в момент создания, на каждый вопрос создается пустой ответ.
func (s *SessionService) CreateSession(ctx context.Context, userID, passageID uint, timed bool) (*SessionWithPassage, error) {
	passage, err := s.passageService.GetPassageWithQuestions(ctx, passageID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.GetByPassageID(ctx, passageID)
	if err != nil {
		return nil, fmt.Errorf("load questions for passage #%d: %w", passageID, err)
	}
	questionIDs := make([]uint, 0, len(questions))
	for _, q := range questions {
		questionIDs = append(questionIDs, q.ID)
	}

	session := &entity.PracticeSession{
		UserID:         userID,
		PassageID:      passageID,
		StartedAt:      s.now(),
		TimedSession:   timed,
		TotalQuestions: len(questionIDs),
	}
	if err := s.sessionRepo.CreateWithAnswers(ctx, session, questionIDs); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	log.Printf("[SessionService] Пользователь ID=%d начал сессию ID=%d по пассажу ID=%d (timed=%t, вопросов=%d)",
		userID, session.ID, passageID, timed, session.TotalQuestions)
	return &SessionWithPassage{Session: session, Passage: passage}, nil
}

// GetSession возвращает сессию пользователя с пассажем и ответами
func (s *SessionService) GetSession(ctx context.Context, sessionID, userID uint) (*SessionDetails, error) {
	session, err := s.getOwnedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	passage, err := s.passageService.GetPassageWithQuestions(ctx, session.PassageID)
	if err != nil {
		return nil, err
	}

	answers, err := s.sessionRepo.GetAnswers(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("load answers for session #%d: %w", session.ID, err)
	}

	return &SessionDetails{Session: session, Passage: passage, Answers: answers}, nil
}

// ListSessions возвращает все сессии пользователя, новые первыми
func (s *SessionService) ListSessions(ctx context.Context, userID uint) ([]entity.PracticeSession, error) {
	sessions, err := s.sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// SubmitAnswer записывает выбор варианта и/или флаг вопроса в незавершенной сессии
func (s *SessionService) SubmitAnswer(ctx context.Context, sessionID, userID uint, input SubmitAnswerInput) (*entity.SessionAnswer, error) {
	if input.SelectedChoiceID == nil && input.IsFlagged == nil {
		return nil, ErrEmptyAnswerUpdate
	}

	session, err := s.getOwnedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, ErrSessionAlreadyCompleted
	}

	answer, err := s.sessionRepo.GetAnswer(ctx, session.ID, input.QuestionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrQuestionNotInSession
		}
		return nil, fmt.Errorf("load answer: %w", err)
	}

	updates := make(map[string]interface{}, 4)
	if input.SelectedChoiceID != nil {
		choice, err := s.questionRepo.GetChoiceByID(ctx, *input.SelectedChoiceID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, ErrInvalidChoice
			}
			return nil, fmt.Errorf("load choice: %w", err)
		}
		if choice.QuestionID != input.QuestionID {
			return nil, ErrInvalidChoice
		}

		answeredAt := s.now()
		isCorrect := choice.IsCorrect
		answer.SelectedChoiceID = &choice.ID
		answer.IsCorrect = &isCorrect
		answer.AnsweredAt = &answeredAt
		updates["selected_choice_id"] = choice.ID
		updates["is_correct"] = isCorrect
		updates["answered_at"] = answeredAt
	}
	if input.IsFlagged != nil {
		answer.IsFlagged = *input.IsFlagged
		updates["is_flagged"] = *input.IsFlagged
	}

	if err := s.sessionRepo.UpdateAnswer(ctx, session.ID, answer.ID, updates); err != nil {
		// Сессия завершилась между проверкой и записью
		if errors.Is(err, repository.ErrSessionAlreadyCompleted) {
			return nil, ErrSessionAlreadyCompleted
		}
		return nil, fmt.Errorf("update answer: %w", err)
	}
	return answer, nil
}

// CompleteSession подсчитывает результат, закрывает сессию и пересчитывает статистику.
// Закрытие и пересчет выполняются в одной транзакции; повторное завершение отклоняется.
func (s *SessionService) CompleteSession(ctx context.Context, sessionID, userID uint, timeSpent *int) (*CompletionResult, error) {
	session, err := s.getOwnedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, ErrSessionAlreadyCompleted
	}

	// Для сессии на время без присланного значения берем время с начала сессии
	if timeSpent == nil && session.TimedSession {
		elapsed := timer.StartedAt(session.StartedAt, s.now).ElapsedSeconds()
		timeSpent = &elapsed
	}

	completedAt := s.now()
	var score int
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		score, err = s.sessionRepo.MarkCompleted(tx, session.ID, completedAt, timeSpent)
		if err != nil {
			return err
		}
		_, err = s.progressService.Recompute(tx, userID, completedAt)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrSessionAlreadyCompleted) {
			return nil, ErrSessionAlreadyCompleted
		}
		return nil, fmt.Errorf("complete session #%d: %w", session.ID, err)
	}

	session.CompletedAt = &completedAt
	session.Score = &score
	session.TimeSpent = timeSpent

	log.Printf("[SessionService] Сессия ID=%d завершена: %d/%d", session.ID, score, session.TotalQuestions)
	return &CompletionResult{
		Session:        session,
		Score:          score,
		TotalQuestions: session.TotalQuestions,
	}, nil
}

// GetSessionResults строит разбор завершенной сессии в порядке вопросов пассажа
func (s *SessionService) GetSessionResults(ctx context.Context, sessionID, userID uint) (*SessionResults, error) {
	session, err := s.getOwnedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if !session.IsCompleted() {
		return nil, ErrSessionNotCompleted
	}

	questions, err := s.questionRepo.GetByPassageID(ctx, session.PassageID)
	if err != nil {
		return nil, fmt.Errorf("load questions for passage #%d: %w", session.PassageID, err)
	}
	answers, err := s.sessionRepo.GetAnswers(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("load answers for session #%d: %w", session.ID, err)
	}
	byQuestion := make(map[uint]*entity.SessionAnswer, len(answers))
	for i := range answers {
		byQuestion[answers[i].QuestionID] = &answers[i]
	}

	results := make([]entity.QuestionResult, 0, len(questions))
	for _, q := range questions {
		results = append(results, entity.NewQuestionResult(q, byQuestion[q.ID]))
	}

	score := 0
	if session.Score != nil {
		score = *session.Score
	}
	return &SessionResults{
		Session:        session,
		Score:          score,
		TotalQuestions: session.TotalQuestions,
		TimeSpent:      session.TimeSpent,
		Questions:      results,
	}, nil
}

func (s *SessionService) getOwnedSession(ctx context.Context, sessionID, userID uint) (*entity.PracticeSession, error) {
	session, err := s.sessionRepo.GetByIDForUser(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session #%d: %w", sessionID, err)
	}
	return session, nil
}
