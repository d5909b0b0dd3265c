package entity

// QuestionOutcome - итог по вопросу в результатах сессии
type QuestionOutcome string

const (
	OutcomeCorrect    QuestionOutcome = "correct"
	OutcomeIncorrect  QuestionOutcome = "incorrect"
	OutcomeUnanswered QuestionOutcome = "unanswered"
)

// QuestionResult - разбор одного вопроса завершенной сессии.
// Outcome == unanswered тогда и только тогда, когда UserAnswer == nil.
type QuestionResult struct {
	Question      Question
	Outcome       QuestionOutcome
	UserAnswer    *AnswerChoice
	CorrectAnswer *AnswerChoice
	IsFlagged     bool
	AllChoices    []AnswerChoice
}

// IsCorrect сообщает, ответил ли пользователь верно
func (r *QuestionResult) IsCorrect() bool {
	return r.Outcome == OutcomeCorrect
}

// NewQuestionResult строит разбор вопроса по его вариантам и ответу пользователя.
// answer может быть nil, если строки ответа нет.
func NewQuestionResult(q Question, answer *SessionAnswer) QuestionResult {
	res := QuestionResult{
		Question:      q,
		Outcome:       OutcomeUnanswered,
		CorrectAnswer: q.CorrectChoice(),
		AllChoices:    q.Choices,
	}
	if answer == nil {
		return res
	}
	res.IsFlagged = answer.IsFlagged
	if answer.SelectedChoiceID == nil {
		return res
	}
	res.UserAnswer = q.ChoiceByID(*answer.SelectedChoiceID)
	if res.UserAnswer == nil {
		return res
	}
	if answer.IsCorrect != nil && *answer.IsCorrect {
		res.Outcome = OutcomeCorrect
	} else {
		res.Outcome = OutcomeIncorrect
	}
	return res
}
