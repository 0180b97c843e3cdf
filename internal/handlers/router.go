package handlers

import (
	"net/http"
	"slices"
	"time"

	"candle-backend/internal/middleware"
	"candle-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

// DefaultAuthRateLimit is the number of register and login attempts allowed
// per client IP and minute
const DefaultAuthRateLimit = 20

// RouterConfig tunes the HTTP surface
type RouterConfig struct {
	CORSOrigins   []string
	AuthRateLimit int
}

// NewRouter builds the HTTP handler serving the API and the WebSocket
func NewRouter(svc *services.Services, cfg RouterConfig) http.Handler {
	if cfg.AuthRateLimit <= 0 {
		cfg.AuthRateLimit = DefaultAuthRateLimit
	}

	authHandler := NewAuthHandler(svc.Users)
	pairingHandler := NewPairingHandler(svc.Pairs)
	questionHandler := NewQuestionHandler(svc.Questions, svc.Streaks)
	triviaHandler := NewTriviaHandler(svc.Trivia)
	noteHandler := NewNoteHandler(svc.Notes)
	dateHandler := NewDateHandler(svc.Dates)
	memoryHandler := NewMemoryHandler(svc.Memories, svc.Media)
	moodHandler := NewMoodHandler(svc.Moods)
	couponHandler := NewCouponHandler(svc.Coupons)
	bucketHandler := NewBucketHandler(svc.Bucket)
	playHandler := NewPlayHandler(svc.ThumbKiss, svc.Dice, svc.Canvas)
	fantasyHandler := NewFantasyHandler(svc.Fantasy)
	wsHandler := NewWebSocketHandler(svc.Hub, svc.Users)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(requestIDLogger)
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsHandler(cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/", root)
		r.Get("/health", health)
		r.Get("/fantasy/catalog", fantasyHandler.Catalog)

		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(cfg.AuthRateLimit, time.Minute))
			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/login", authHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(svc.Users))

			r.Get("/auth/me", authHandler.Me)
			r.Put("/users/me/push-token", authHandler.UpdatePushToken)
			r.Put("/users/me/web-push", authHandler.UpdateWebPush)

			r.Post("/pairing/generate", pairingHandler.Generate)
			r.Post("/pairing/connect", pairingHandler.Connect)
			r.Post("/pairing/disconnect", pairingHandler.Disconnect)

			r.Get("/questions/today", questionHandler.Today)
			r.Post("/questions/answer", questionHandler.Answer)
			r.Post("/questions/react", questionHandler.React)
			r.Get("/questions/history", questionHandler.History)
			r.Get("/streaks", questionHandler.Streak)

			r.Get("/trivia/question", triviaHandler.Question)
			r.Post("/trivia/set-answer", triviaHandler.SetAnswer)
			r.Post("/trivia/guess", triviaHandler.Guess)
			r.Get("/trivia/pending", triviaHandler.Pending)
			r.Get("/trivia/scores", triviaHandler.Scores)

			r.Post("/notes", noteHandler.Send)
			r.Get("/notes", noteHandler.Received)
			r.Get("/notes/sent", noteHandler.Sent)
			r.Get("/notes/unread-count", noteHandler.UnreadCount)
			r.Post("/notes/{id}/read", noteHandler.MarkRead)

			r.Post("/dates/generate", dateHandler.Generate)
			r.Get("/dates", dateHandler.List)
			r.Post("/dates/{id}/favorite", dateHandler.ToggleFavorite)
			r.Post("/dates/{id}/complete", dateHandler.ToggleCompleted)

			r.Post("/memories", memoryHandler.Create)
			r.Get("/memories", memoryHandler.List)
			r.Delete("/memories/{id}", memoryHandler.Delete)
			r.Post("/media/upload", memoryHandler.Upload)
			r.Post("/media/presign", memoryHandler.Presign)

			r.Post("/mood", moodHandler.CheckIn)
			r.Get("/mood/today", moodHandler.Today)
			r.Get("/mood/history", moodHandler.History)

			r.Post("/coupons", couponHandler.Create)
			r.Get("/coupons", couponHandler.List)
			r.Post("/coupons/{id}/redeem", couponHandler.Redeem)

			r.Post("/bucket-list", bucketHandler.Create)
			r.Get("/bucket-list", bucketHandler.List)
			r.Post("/bucket-list/{id}/toggle", bucketHandler.Toggle)
			r.Delete("/bucket-list/{id}", bucketHandler.Delete)

			r.Post("/thumb-kiss", playHandler.Touch)
			r.Get("/thumb-kiss", playHandler.TouchStatus)
			r.Post("/spicy-dice/roll", playHandler.Roll)
			r.Get("/spicy-dice/history", playHandler.RollHistory)
			r.Post("/canvas", playHandler.CreateDrawing)
			r.Get("/canvas", playHandler.ListDrawings)
			r.Delete("/canvas/{id}", playHandler.DeleteDrawing)

			r.Get("/fantasy/profile", fantasyHandler.Profile)
			r.Put("/fantasy/profile", fantasyHandler.UpdateProfile)
			r.Get("/fantasy/matches", fantasyHandler.Matches)
		})
	})

	r.Get("/ws", wsHandler.HandleWebSocket)

	return r
}

// requestIDLogger adds chi's request id to the request logger
func requestIDLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chiMiddleware.GetReqID(r.Context()); id != "" {
			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("request_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Stringer("url", r.URL).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("Request handled")
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: !slices.Contains(origins, "*"),
	}).Handler
}
