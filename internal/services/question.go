package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"candle-backend/internal/content"
	"candle-backend/internal/models"
	"candle-backend/internal/repository"
	"candle-backend/internal/textgen"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	maxAnswerLength = 500
	historyLimit    = 100
)

// Reactions are the emoji reactions allowed on a daily question
var Reactions = []string{"heart", "laugh", "surprised", "cry", "fire"}

// QuestionService serves the daily question of each couple
type QuestionService struct {
	questions repository.QuestionStore
	streaks   *StreakService
	gen       textgen.Generator
	now       func() time.Time
	intn      func(int) int
}

// NewQuestionService creates a new question service
func NewQuestionService(questions repository.QuestionStore, streaks *StreakService, gen textgen.Generator) *QuestionService {
	return &QuestionService{
		questions: questions,
		streaks:   streaks,
		gen:       gen,
		now:       time.Now,
		intn:      rand.IntN,
	}
}

// AnswerRequest is the payload of POST /questions/answer
type AnswerRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
	AnswerText string `json:"answer_text" validate:"required"`
}

// ReactRequest is the payload of POST /questions/react
type ReactRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
	Reaction   string `json:"reaction" validate:"required"`
}

// QuestionView is a question as seen by one partner. The partner's answer
// and reaction stay hidden until both have answered.
type QuestionView struct {
	ID                string     `json:"id"`
	Text              string     `json:"text"`
	Category          string     `json:"category"`
	Date              string     `json:"date"`
	UserAnswer        *string    `json:"user_answer"`
	UserAnsweredAt    *time.Time `json:"user_answered_at"`
	PartnerAnswer     *string    `json:"partner_answer"`
	PartnerAnsweredAt *time.Time `json:"partner_answered_at"`
	BothAnswered      bool       `json:"both_answered"`
	UserReaction      *string    `json:"user_reaction"`
	PartnerReaction   *string    `json:"partner_reaction"`
}

func newQuestionView(q *models.Question, userID, partnerID string) *QuestionView {
	v := &QuestionView{
		ID:       q.ID,
		Text:     q.Text,
		Category: q.Category,
		Date:     q.Date,
	}
	mine, userAnswered := q.Answers[userID]
	theirs, partnerAnswered := q.Answers[partnerID]
	v.BothAnswered = userAnswered && partnerAnswered

	if userAnswered {
		v.UserAnswer = &mine.Text
		v.UserAnsweredAt = &mine.AnsweredAt
	}
	if r, ok := q.Reactions[userID]; ok {
		v.UserReaction = &r
	}
	if v.BothAnswered {
		v.PartnerAnswer = &theirs.Text
		v.PartnerAnsweredAt = &theirs.AnsweredAt
		if r, ok := q.Reactions[partnerID]; ok {
			v.PartnerReaction = &r
		}
	}
	return v
}

// CategoryForDate picks the question category of a YYYY-MM-DD date
func CategoryForDate(date string) string {
	day, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return content.QuestionCategories[0]
	}
	return content.QuestionCategories[day.YearDay()%len(content.QuestionCategories)]
}

// Today returns the couple's question for the current UTC day, creating it on
// first access
func (s *QuestionService) Today(ctx context.Context, user *models.User) (*QuestionView, error) {
	partnerID, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	date := models.Day(s.now())

	q, err := s.questions.GetByPairAndDate(ctx, pairKey, date)
	if err == nil {
		return newQuestionView(q, user.ID, partnerID), nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("failed to get today's question: %w", err)
	}

	previous, err := s.questions.ListByPair(ctx, pairKey, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list previous questions: %w", err)
	}
	texts := make([]string, 0, len(previous))
	for i := len(previous) - 1; i >= 0; i-- {
		texts = append(texts, previous[i].Text)
	}

	category := CategoryForDate(date)
	q = &models.Question{
		ID:        uuid.New().String(),
		PairKey:   pairKey,
		Text:      s.generate(ctx, category, texts),
		Category:  category,
		Date:      date,
		Answers:   map[string]models.Answer{},
		Reactions: map[string]string{},
		CreatedAt: s.now().UTC(),
	}
	if err := s.questions.Create(ctx, q); err != nil {
		if !isDuplicate(err) {
			return nil, fmt.Errorf("failed to create question: %w", err)
		}
		// the partner created it first
		if q, err = s.questions.GetByPairAndDate(ctx, pairKey, date); err != nil {
			return nil, fmt.Errorf("failed to get today's question: %w", err)
		}
	}
	return newQuestionView(q, user.ID, partnerID), nil
}

func (s *QuestionService) generate(ctx context.Context, category string, previous []string) string {
	raw, err := s.gen.Generate(ctx, content.QuestionSystem, content.QuestionPrompt(category, previous))
	if err == nil {
		if text, ok := content.CleanQuestion(raw); ok {
			return text
		}
		log.Warn().Str("category", category).Msg("Generated question too short, using fallback")
	} else {
		log.Warn().Err(err).Str("category", category).Msg("Question generation failed, using fallback")
	}
	fallback := content.FallbackQuestions(category)
	return fallback[s.intn(len(fallback))]
}

func (s *QuestionService) pairQuestion(ctx context.Context, id, pairKey string) (*models.Question, error) {
	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if q.PairKey != pairKey {
		return nil, ErrQuestionNotFound
	}
	return q, nil
}

// Answer stores the user's answer. The answer that completes the question
// advances both partners' streaks.
func (s *QuestionService) Answer(ctx context.Context, user *models.User, req AnswerRequest) (*QuestionView, error) {
	partnerID, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(req.AnswerText) > maxAnswerLength {
		return nil, ErrAnswerTooLong
	}

	q, err := s.pairQuestion(ctx, req.QuestionID, pairKey)
	if err != nil {
		return nil, err
	}
	if _, ok := q.Answers[user.ID]; ok {
		return nil, ErrAlreadyAnswered
	}

	answer := models.Answer{Text: req.AnswerText, AnsweredAt: s.now().UTC()}
	if err := s.questions.SetAnswer(ctx, q.ID, user.ID, answer); err != nil {
		if isDuplicate(err) {
			return nil, ErrAlreadyAnswered
		}
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}

	q, err = s.questions.GetByID(ctx, q.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload question: %w", err)
	}
	view := newQuestionView(q, user.ID, partnerID)
	if view.BothAnswered {
		for _, id := range []string{user.ID, partnerID} {
			if err := s.streaks.Update(ctx, id, q.Date); err != nil {
				return nil, err
			}
		}
	}
	return view, nil
}

// React sets the user's reaction on a question of their couple
func (s *QuestionService) React(ctx context.Context, user *models.User, req ReactRequest) error {
	if !slices.Contains(Reactions, req.Reaction) {
		return invalid("Reaction must be one of: " + strings.Join(Reactions, ", "))
	}
	q, err := s.pairQuestion(ctx, req.QuestionID, user.PairKey())
	if err != nil {
		return err
	}
	if err := s.questions.SetReaction(ctx, q.ID, user.ID, req.Reaction); err != nil {
		if isNotFound(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to save reaction: %w", err)
	}
	return nil
}

// History lists the couple's questions, newest date first
func (s *QuestionService) History(ctx context.Context, user *models.User) ([]*QuestionView, error) {
	partnerID, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	questions, err := s.questions.ListByPair(ctx, pairKey, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	views := make([]*QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, newQuestionView(q, user.ID, partnerID))
	}
	return views, nil
}
