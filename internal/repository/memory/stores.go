package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"candle-backend/internal/models"
	"candle-backend/internal/repository"
)

func notFound(what string) error {
	return fmt.Errorf("%s not found: %w", what, repository.ErrNotFound)
}

func duplicate(what string) error {
	return fmt.Errorf("%s: %w", what, repository.ErrDuplicate)
}

type userStore struct{ *db }

func (s *userStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return duplicate("user")
		}
	}
	if _, ok := s.users[user.ID]; ok {
		return duplicate("user")
	}
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *userStore) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, notFound("user")
	}
	return cloneUser(u), nil
}

func (s *userStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, notFound("user")
}

func (s *userStore) update(id string, fn func(*models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return notFound("user")
	}
	fn(u)
	return nil
}

func (s *userStore) SetPartner(_ context.Context, userID string, partnerID, partnerName *string) error {
	return s.update(userID, func(u *models.User) {
		u.PartnerID = copyPtr(partnerID)
		u.PartnerName = copyPtr(partnerName)
	})
}

func (s *userStore) UpdatePushToken(_ context.Context, userID string, pushToken *string) error {
	return s.update(userID, func(u *models.User) { u.PushToken = copyPtr(pushToken) })
}

func (s *userStore) UpdateWebPush(_ context.Context, userID string, sub *models.WebPushSubscription) error {
	return s.update(userID, func(u *models.User) { u.WebPush = copyPtr(sub) })
}

type pairingCodeStore struct{ *db }

func (s *pairingCodeStore) Create(_ context.Context, code *models.PairingCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pairingCodes[code.Code]; ok {
		return duplicate("pairing code")
	}
	s.pairingCodes[code.Code] = copyPtr(code)
	return nil
}

func (s *pairingCodeStore) GetByCode(_ context.Context, code string) (*models.PairingCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pc, ok := s.pairingCodes[code]
	if !ok {
		return nil, notFound("pairing code")
	}
	return copyPtr(pc), nil
}

func (s *pairingCodeStore) Delete(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pairingCodes, code)
	return nil
}

func (s *pairingCodeStore) DeleteByUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for code, pc := range s.pairingCodes {
		if pc.UserID == userID {
			delete(s.pairingCodes, code)
		}
	}
	return nil
}

type streakStore struct{ *db }

func (s *streakStore) Get(_ context.Context, userID string) (*models.Streak, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.streaks[userID]
	if !ok {
		return nil, notFound("streak")
	}
	return cloneStreak(st), nil
}

func (s *streakStore) Upsert(_ context.Context, streak *models.Streak) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streaks[streak.UserID] = cloneStreak(streak)
	return nil
}

type questionStore struct{ *db }

func (s *questionStore) Create(_ context.Context, q *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, _ := find(s.questions, func(e *models.Question) bool {
		return e.ID == q.ID || (e.PairKey == q.PairKey && e.Date == q.Date)
	}); i >= 0 {
		return duplicate("question")
	}
	s.questions = append(s.questions, cloneQuestion(q))
	return nil
}

func (s *questionStore) byID(id string) *models.Question {
	_, q := find(s.questions, func(e *models.Question) bool { return e.ID == id })
	return q
}

func (s *questionStore) GetByID(_ context.Context, id string) (*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if q := s.byID(id); q != nil {
		return cloneQuestion(q), nil
	}
	return nil, notFound("question")
}

func (s *questionStore) GetByPairAndDate(_ context.Context, pairKey, date string) (*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, q := find(s.questions, func(e *models.Question) bool { return e.PairKey == pairKey && e.Date == date })
	if q == nil {
		return nil, notFound("question")
	}
	return cloneQuestion(q), nil
}

func (s *questionStore) ListByPair(_ context.Context, pairKey string, limit int) ([]*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.questions,
		func(q *models.Question) bool { return q.PairKey == pairKey },
		func(a, b *models.Question) bool { return a.Date > b.Date },
		cloneQuestion, limit), nil
}

func (s *questionStore) SetAnswer(_ context.Context, id, userID string, answer models.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.byID(id)
	if q == nil {
		return notFound("question")
	}
	if _, ok := q.Answers[userID]; ok {
		return duplicate("answer")
	}
	if q.Answers == nil {
		q.Answers = map[string]models.Answer{}
	}
	q.Answers[userID] = answer
	return nil
}

func (s *questionStore) SetReaction(_ context.Context, id, userID, reaction string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.byID(id)
	if q == nil {
		return notFound("question")
	}
	if q.Reactions == nil {
		q.Reactions = map[string]string{}
	}
	q.Reactions[userID] = reaction
	return nil
}

type triviaStore struct{ *db }

func (s *triviaStore) Create(_ context.Context, t *models.Trivia) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trivia = append(s.trivia, cloneTrivia(t))
	return nil
}

func (s *triviaStore) byID(id string) *models.Trivia {
	_, t := find(s.trivia, func(e *models.Trivia) bool { return e.ID == id })
	return t
}

func (s *triviaStore) GetByID(_ context.Context, id string) (*models.Trivia, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t := s.byID(id); t != nil {
		return cloneTrivia(t), nil
	}
	return nil, notFound("trivia")
}

func (s *triviaStore) SetCorrectAnswer(_ context.Context, id, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.byID(id)
	if t == nil {
		return notFound("trivia")
	}
	t.CorrectAnswer = &answer
	return nil
}

func (s *triviaStore) SetGuess(_ context.Context, id, userID string, guess models.Guess) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.byID(id)
	if t == nil {
		return notFound("trivia")
	}
	if _, ok := t.Guesses[userID]; ok {
		return duplicate("guess")
	}
	if t.Guesses == nil {
		t.Guesses = map[string]models.Guess{}
	}
	t.Guesses[userID] = guess
	return nil
}

func (s *triviaStore) ListPendingAbout(_ context.Context, pairKey, userID string, limit int) ([]*models.Trivia, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.trivia,
		func(t *models.Trivia) bool {
			return t.PairKey == pairKey && t.AboutUserID == userID && t.CorrectAnswer == nil
		},
		createdDesc(func(t *models.Trivia) time.Time { return t.CreatedAt }),
		cloneTrivia, limit), nil
}

type triviaScoreStore struct{ *db }

func (s *triviaScoreStore) Get(_ context.Context, userID, pairKey string) (*models.TriviaScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.scores[scoreKey{userID, pairKey}]
	if !ok {
		return nil, notFound("trivia score")
	}
	return copyPtr(sc), nil
}

func (s *triviaScoreStore) Increment(_ context.Context, userID, pairKey string, points, correct int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := scoreKey{userID, pairKey}
	sc, ok := s.scores[key]
	if !ok {
		sc = &models.TriviaScore{UserID: userID, PairKey: pairKey}
		s.scores[key] = sc
	}
	sc.Score += points
	sc.TotalQuestions++
	sc.Correct += correct
	return nil
}

type noteStore struct{ *db }

func (s *noteStore) Create(_ context.Context, n *models.LoveNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, cloneNote(n))
	return nil
}

func (s *noteStore) list(keep func(*models.LoveNote) bool, limit int) []*models.LoveNote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.notes, keep,
		createdDesc(func(n *models.LoveNote) time.Time { return n.CreatedAt }),
		cloneNote, limit)
}

func (s *noteStore) ListReceived(_ context.Context, userID string, limit int) ([]*models.LoveNote, error) {
	return s.list(func(n *models.LoveNote) bool { return n.ToUserID == userID }, limit), nil
}

func (s *noteStore) ListSent(_ context.Context, userID string, limit int) ([]*models.LoveNote, error) {
	return s.list(func(n *models.LoveNote) bool { return n.FromUserID == userID }, limit), nil
}

func (s *noteStore) MarkRead(_ context.Context, id, toUserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, n := find(s.notes, func(e *models.LoveNote) bool {
		return e.ID == id && e.ToUserID == toUserID && !e.IsRead
	})
	if n == nil {
		return notFound("love note")
	}
	n.IsRead = true
	return nil
}

func (s *noteStore) CountUnread(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.notes {
		if n.ToUserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

type dateIdeaStore struct{ *db }

func (s *dateIdeaStore) Create(_ context.Context, d *models.DateIdea) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dateIdeas = append(s.dateIdeas, cloneDateIdea(d))
	return nil
}

func (s *dateIdeaStore) byID(id string) *models.DateIdea {
	_, d := find(s.dateIdeas, func(e *models.DateIdea) bool { return e.ID == id })
	return d
}

func (s *dateIdeaStore) GetByID(_ context.Context, id string) (*models.DateIdea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d := s.byID(id); d != nil {
		return cloneDateIdea(d), nil
	}
	return nil, notFound("date idea")
}

func (s *dateIdeaStore) ListByPair(_ context.Context, pairKey string, limit int) ([]*models.DateIdea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.dateIdeas,
		func(d *models.DateIdea) bool { return d.PairKey == pairKey },
		createdDesc(func(d *models.DateIdea) time.Time { return d.CreatedAt }),
		cloneDateIdea, limit), nil
}

func (s *dateIdeaStore) update(id string, fn func(*models.DateIdea)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.byID(id)
	if d == nil {
		return notFound("date idea")
	}
	fn(d)
	return nil
}

func (s *dateIdeaStore) SetFavorite(_ context.Context, id string, favorite bool) error {
	return s.update(id, func(d *models.DateIdea) { d.IsFavorite = favorite })
}

func (s *dateIdeaStore) SetCompleted(_ context.Context, id string, completed bool) error {
	return s.update(id, func(d *models.DateIdea) { d.IsCompleted = completed })
}

type memoryStore struct{ *db }

func (s *memoryStore) Create(_ context.Context, m *models.Memory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memories = append(s.memories, cloneMemory(m))
	return nil
}

func (s *memoryStore) ListByPair(_ context.Context, pairKey string, limit int) ([]*models.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.memories,
		func(m *models.Memory) bool { return m.PairKey == pairKey },
		func(a, b *models.Memory) bool { return a.Date > b.Date },
		cloneMemory, limit), nil
}

func (s *memoryStore) Delete(_ context.Context, id, createdBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, _ := find(s.memories, func(e *models.Memory) bool { return e.ID == id && e.CreatedBy == createdBy })
	if i < 0 {
		return notFound("memory")
	}
	s.memories = slices.Delete(s.memories, i, i+1)
	return nil
}

type moodStore struct{ *db }

func (s *moodStore) Upsert(_ context.Context, m *models.MoodCheckin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, existing := find(s.moods, func(e *models.MoodCheckin) bool { return e.UserID == m.UserID && e.Date == m.Date })
	if existing == nil {
		s.moods = append(s.moods, cloneMood(m))
		return nil
	}
	m.ID = existing.ID
	existing.UserName = m.UserName
	existing.Mood = m.Mood
	existing.Note = copyPtr(m.Note)
	existing.CreatedAt = m.CreatedAt
	return nil
}

func (s *moodStore) GetByUserAndDate(_ context.Context, userID, date string) (*models.MoodCheckin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, m := find(s.moods, func(e *models.MoodCheckin) bool { return e.UserID == userID && e.Date == date })
	if m == nil {
		return nil, notFound("mood")
	}
	return cloneMood(m), nil
}

func (s *moodStore) ListByUsers(_ context.Context, userIDs []string, limit int) ([]*models.MoodCheckin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.moods,
		func(m *models.MoodCheckin) bool { return slices.Contains(userIDs, m.UserID) },
		func(a, b *models.MoodCheckin) bool {
			if a.Date != b.Date {
				return a.Date > b.Date
			}
			return a.CreatedAt.After(b.CreatedAt)
		},
		cloneMood, limit), nil
}

type couponStore struct{ *db }

func (s *couponStore) Create(_ context.Context, c *models.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupons = append(s.coupons, cloneCoupon(c))
	return nil
}

func (s *couponStore) GetByID(_ context.Context, id string) (*models.Coupon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, c := find(s.coupons, func(e *models.Coupon) bool { return e.ID == id })
	if c == nil {
		return nil, notFound("coupon")
	}
	return cloneCoupon(c), nil
}

func (s *couponStore) list(keep func(*models.Coupon) bool, limit int) []*models.Coupon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.coupons, keep,
		createdDesc(func(c *models.Coupon) time.Time { return c.CreatedAt }),
		cloneCoupon, limit)
}

func (s *couponStore) ListReceived(_ context.Context, userID string, limit int) ([]*models.Coupon, error) {
	return s.list(func(c *models.Coupon) bool { return c.ToUserID == userID }, limit), nil
}

func (s *couponStore) ListSent(_ context.Context, userID string, limit int) ([]*models.Coupon, error) {
	return s.list(func(c *models.Coupon) bool { return c.FromUserID == userID }, limit), nil
}

func (s *couponStore) Redeem(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, c := find(s.coupons, func(e *models.Coupon) bool { return e.ID == id && e.Status == models.CouponActive })
	if c == nil {
		return notFound("coupon")
	}
	c.Status = models.CouponRedeemed
	c.RedeemedAt = &at
	return nil
}

type bucketStore struct{ *db }

func (s *bucketStore) Create(_ context.Context, b *models.BucketItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bucket = append(s.bucket, cloneBucketItem(b))
	return nil
}

func (s *bucketStore) GetByID(_ context.Context, id string) (*models.BucketItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, b := find(s.bucket, func(e *models.BucketItem) bool { return e.ID == id })
	if b == nil {
		return nil, notFound("bucket item")
	}
	return cloneBucketItem(b), nil
}

func (s *bucketStore) ListByPair(_ context.Context, pairKey string, limit int) ([]*models.BucketItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.bucket,
		func(b *models.BucketItem) bool { return b.PairKey == pairKey },
		func(a, b *models.BucketItem) bool {
			if a.IsCompleted != b.IsCompleted {
				return !a.IsCompleted
			}
			return a.CreatedAt.After(b.CreatedAt)
		},
		cloneBucketItem, limit), nil
}

func (s *bucketStore) SetCompleted(_ context.Context, id string, completed bool, by *string, at *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, b := find(s.bucket, func(e *models.BucketItem) bool { return e.ID == id })
	if b == nil {
		return notFound("bucket item")
	}
	b.IsCompleted = completed
	b.CompletedBy = copyPtr(by)
	b.CompletedAt = copyPtr(at)
	return nil
}

func (s *bucketStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, _ := find(s.bucket, func(e *models.BucketItem) bool { return e.ID == id })
	if i < 0 {
		return notFound("bucket item")
	}
	s.bucket = slices.Delete(s.bucket, i, i+1)
	return nil
}

type thumbTouchStore struct{ *db }

func (s *thumbTouchStore) Upsert(_ context.Context, t *models.ThumbTouch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touches[t.UserID] = copyPtr(t)
	return nil
}

func (s *thumbTouchStore) Get(_ context.Context, userID string) (*models.ThumbTouch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.touches[userID]
	if !ok {
		return nil, notFound("thumb touch")
	}
	return copyPtr(t), nil
}

type diceStore struct{ *db }

func (s *diceStore) Create(_ context.Context, d *models.DiceRoll) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dice = append(s.dice, copyPtr(d))
	return nil
}

func (s *diceStore) ListByPair(_ context.Context, pairKey string, limit int) ([]*models.DiceRoll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.dice,
		func(d *models.DiceRoll) bool { return d.PairKey == pairKey },
		createdDesc(func(d *models.DiceRoll) time.Time { return d.CreatedAt }),
		copyPtr[models.DiceRoll], limit), nil
}

type drawingStore struct{ *db }

func (s *drawingStore) Create(_ context.Context, d *models.Drawing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawings = append(s.drawings, cloneDrawing(d))
	return nil
}

func (s *drawingStore) ListByPair(_ context.Context, pairKey string, limit int) ([]*models.Drawing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirst(s.drawings,
		func(d *models.Drawing) bool { return d.PairKey == pairKey },
		createdDesc(func(d *models.Drawing) time.Time { return d.CreatedAt }),
		cloneDrawing, limit), nil
}

func (s *drawingStore) Delete(_ context.Context, id, createdBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, _ := find(s.drawings, func(e *models.Drawing) bool { return e.ID == id && e.CreatedBy == createdBy })
	if i < 0 {
		return notFound("drawing")
	}
	s.drawings = slices.Delete(s.drawings, i, i+1)
	return nil
}

type fantasyStore struct{ *db }

func (s *fantasyStore) Get(_ context.Context, userID string) (*models.FantasyProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.fantasy[userID]
	if !ok {
		return nil, notFound("fantasy profile")
	}
	return cloneFantasy(p), nil
}

func (s *fantasyStore) Upsert(_ context.Context, p *models.FantasyProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fantasy[p.UserID] = cloneFantasy(p)
	return nil
}
