package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"candle-backend/internal/content"
	"candle-backend/internal/models"
	"candle-backend/internal/repository"
	"candle-backend/internal/textgen"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	pointsPerCorrectGuess = 10
	pendingTriviaLimit    = 20
)

// TriviaService runs the "how well do you know me" game
type TriviaService struct {
	trivia repository.TriviaStore
	scores repository.TriviaScoreStore
	gen    textgen.Generator
	now    func() time.Time
	intn   func(int) int
}

// NewTriviaService creates a new trivia service
func NewTriviaService(trivia repository.TriviaStore, scores repository.TriviaScoreStore, gen textgen.Generator) *TriviaService {
	return &TriviaService{
		trivia: trivia,
		scores: scores,
		gen:    gen,
		now:    time.Now,
		intn:   rand.IntN,
	}
}

// TriviaQuestionResponse is a freshly generated trivia round
type TriviaQuestionResponse struct {
	ID        string   `json:"id"`
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	Category  string   `json:"category"`
	AboutUser string   `json:"about_user"`
}

// SetAnswerRequest carries the subject's correct answer
type SetAnswerRequest struct {
	TriviaID string `json:"trivia_id" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

// GuessRequest is the payload of POST /trivia/guess
type GuessRequest struct {
	TriviaID       string `json:"trivia_id" validate:"required"`
	SelectedOption string `json:"selected_option" validate:"required"`
}

// GuessResult reports the outcome of a guess
type GuessResult struct {
	ID            string `json:"id"`
	Question      string `json:"question"`
	YourGuess     string `json:"your_guess"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	PointsEarned  int    `json:"points_earned"`
}

// ScoresResponse compares both partners' trivia scores
type ScoresResponse struct {
	UserScore      int `json:"user_score"`
	PartnerScore   int `json:"partner_score"`
	TotalQuestions int `json:"total_questions"`
	UserCorrect    int `json:"user_correct"`
	PartnerCorrect int `json:"partner_correct"`
}

// NewQuestion creates a trivia round about the user or the partner
func (s *TriviaService) NewQuestion(ctx context.Context, user *models.User) (*TriviaQuestionResponse, error) {
	partnerID, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}

	aboutID, aboutName := user.ID, user.Name
	if s.intn(2) == 1 {
		aboutID, aboutName = partnerID, user.PartnerNameValue()
	}
	category := content.TriviaCategories[s.intn(len(content.TriviaCategories))]
	tq := s.generate(ctx, aboutName, category)

	t := &models.Trivia{
		ID:            uuid.New().String(),
		PairKey:       pairKey,
		Question:      tq.Question,
		Options:       tq.Options,
		Category:      category,
		AboutUserID:   aboutID,
		AboutUserName: aboutName,
		Guesses:       map[string]models.Guess{},
		CreatedAt:     s.now().UTC(),
	}
	if err := s.trivia.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create trivia: %w", err)
	}

	return &TriviaQuestionResponse{
		ID:        t.ID,
		Question:  t.Question,
		Options:   t.Options,
		Category:  t.Category,
		AboutUser: t.AboutUserName,
	}, nil
}

func (s *TriviaService) generate(ctx context.Context, subject, category string) content.TriviaQuestion {
	raw, err := s.gen.Generate(ctx, content.TriviaSystem, content.TriviaPrompt(subject, category))
	if err != nil {
		log.Warn().Err(err).Str("category", category).Msg("Trivia generation failed, using fallback")
		return content.FallbackTrivia(subject, category)
	}
	tq, ok := content.ParseTrivia(raw)
	if !ok {
		log.Warn().Str("category", category).Msg("Unparseable trivia response, using fallback")
		return content.FallbackTrivia(subject, category)
	}
	return tq
}

func (s *TriviaService) get(ctx context.Context, id string) (*models.Trivia, error) {
	t, err := s.trivia.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTriviaNotFound
		}
		return nil, fmt.Errorf("failed to get trivia: %w", err)
	}
	return t, nil
}

// SetAnswer lets the subject of a round record the correct option
func (s *TriviaService) SetAnswer(ctx context.Context, user *models.User, req SetAnswerRequest) error {
	t, err := s.get(ctx, req.TriviaID)
	if err != nil {
		return err
	}
	if t.AboutUserID != user.ID {
		return ErrNotTriviaSubject
	}
	if !t.HasOption(req.Answer) {
		return ErrInvalidOption
	}
	if err := s.trivia.SetCorrectAnswer(ctx, t.ID, req.Answer); err != nil {
		return fmt.Errorf("failed to set correct answer: %w", err)
	}
	return nil
}

// Guess scores the partner's guess. Each user may guess a round once.
func (s *TriviaService) Guess(ctx context.Context, user *models.User, req GuessRequest) (*GuessResult, error) {
	t, err := s.get(ctx, req.TriviaID)
	if err != nil {
		return nil, err
	}
	if t.PairKey != user.PairKey() {
		return nil, ErrTriviaNotFound
	}
	if t.AboutUserID == user.ID {
		return nil, ErrGuessOwnTrivia
	}
	if t.CorrectAnswer == nil || *t.CorrectAnswer == "" {
		return nil, ErrAnswerNotSet
	}

	correct := req.SelectedOption == *t.CorrectAnswer
	points, correctCount := 0, 0
	if correct {
		points, correctCount = pointsPerCorrectGuess, 1
	}

	guess := models.Guess{
		Answer:    req.SelectedOption,
		IsCorrect: correct,
		Points:    points,
		GuessedAt: s.now().UTC(),
	}
	if err := s.trivia.SetGuess(ctx, t.ID, user.ID, guess); err != nil {
		if isDuplicate(err) {
			return nil, ErrAlreadyGuessed
		}
		return nil, fmt.Errorf("failed to save guess: %w", err)
	}
	if err := s.scores.Increment(ctx, user.ID, t.PairKey, points, correctCount); err != nil {
		return nil, fmt.Errorf("failed to update score: %w", err)
	}

	return &GuessResult{
		ID:            t.ID,
		Question:      t.Question,
		YourGuess:     req.SelectedOption,
		CorrectAnswer: *t.CorrectAnswer,
		IsCorrect:     correct,
		PointsEarned:  points,
	}, nil
}

// Pending lists rounds about the user that still need a correct answer
func (s *TriviaService) Pending(ctx context.Context, user *models.User) ([]*models.Trivia, error) {
	_, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	pending, err := s.trivia.ListPendingAbout(ctx, pairKey, user.ID, pendingTriviaLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending trivia: %w", err)
	}
	return pending, nil
}

// Scores returns both partners' scores inside the current couple
func (s *TriviaService) Scores(ctx context.Context, user *models.User) (*ScoresResponse, error) {
	partnerID, pairKey, err := requirePartner(user)
	if err != nil {
		return nil, err
	}
	mine, err := s.score(ctx, user.ID, pairKey)
	if err != nil {
		return nil, err
	}
	theirs, err := s.score(ctx, partnerID, pairKey)
	if err != nil {
		return nil, err
	}
	return &ScoresResponse{
		UserScore:      mine.Score,
		PartnerScore:   theirs.Score,
		TotalQuestions: mine.TotalQuestions + theirs.TotalQuestions,
		UserCorrect:    mine.Correct,
		PartnerCorrect: theirs.Correct,
	}, nil
}

func (s *TriviaService) score(ctx context.Context, userID, pairKey string) (*models.TriviaScore, error) {
	score, err := s.scores.Get(ctx, userID, pairKey)
	if err != nil {
		if isNotFound(err) {
			return &models.TriviaScore{UserID: userID, PairKey: pairKey}, nil
		}
		return nil, fmt.Errorf("failed to get score: %w", err)
	}
	return score, nil
}
