package services

import (
	"errors"

	"candle-backend/internal/models"
	"candle-backend/internal/repository"
)

// Kind classifies a domain failure
type Kind int

const (
	KindInvalid Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
)

// Error is a failure the caller can act on. Handlers map Kind to a status
// code and return Message to the client.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func invalid(msg string) *Error {
	return &Error{Kind: KindInvalid, Message: msg}
}

func notFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

var (
	ErrNotPaired          = invalid("You need to pair with a partner first")
	ErrAlreadyPaired      = invalid("You are already paired with a partner")
	ErrEmailTaken         = invalid("Email already registered")
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "Invalid email or password"}
	ErrInvalidToken       = &Error{Kind: KindUnauthorized, Message: "Invalid token"}
	ErrUserNotFound       = &Error{Kind: KindUnauthorized, Message: "User not found"}

	ErrInvalidCode    = notFound("Invalid pairing code")
	ErrCodeExpired    = invalid("Pairing code has expired")
	ErrSelfPairing    = invalid("You cannot pair with yourself")
	ErrPartnerTaken   = invalid("This user is already paired with someone else")
	ErrCodeGeneration = errors.New("failed to generate a unique pairing code")

	ErrQuestionNotFound = notFound("Question not found")
	ErrAlreadyAnswered  = invalid("You have already answered this question")
	ErrAnswerTooLong    = invalid("Answer must be 500 characters or less")

	ErrTriviaNotFound   = notFound("Trivia not found")
	ErrNotTriviaSubject = invalid("Only the person this question is about can set the answer")
	ErrInvalidOption    = invalid("Invalid answer option")
	ErrGuessOwnTrivia   = invalid("You can't guess on a question about yourself")
	ErrAnswerNotSet     = invalid("Waiting for partner to set the correct answer")
	ErrAlreadyGuessed   = invalid("You have already guessed this question")

	ErrMessageTooLong = invalid("Message must be 500 characters or less")
	ErrEmptyMessage   = invalid("Message cannot be empty")
	ErrNoteNotFound   = notFound("Note not found")

	ErrDateIdeaNotFound = notFound("Date idea not found")
	ErrMemoryNotFound   = notFound("Memory not found or you don't have permission to delete it")
	ErrInvalidDate      = invalid("Date must be in YYYY-MM-DD format")
	ErrEmptyTitle       = invalid("Title is required")

	ErrMediaDisabled    = invalid("Media uploads are not configured")
	ErrPresignDisabled  = invalid("Direct uploads are not supported by the media provider")
	ErrNotAnImage       = invalid("Only image uploads are allowed")
	ErrFileTooLarge     = invalid("File must be 10 MB or smaller")
	ErrInvalidImageData = invalid("image_data must be a base64 encoded data:image URL")
	ErrImageTooLarge    = invalid("Drawing must be 5 MB or smaller")

	ErrInvalidDays = invalid("days must be a number")

	ErrCouponTitle         = invalid("Title must be between 1 and 100 characters")
	ErrCouponNotFound      = notFound("Coupon not found")
	ErrCouponRedeemed      = invalid("Coupon already redeemed")
	ErrBucketItemNotFound  = notFound("Bucket list item not found")
	ErrInvalidCoordinates  = invalid("x and y must be between 0 and 1")
	ErrDrawingNotFound     = notFound("Drawing not found or you don't have permission to delete it")
	ErrUnknownFantasyItem  = invalid("Unknown fantasy item")
	ErrInvalidFantasyValue = invalid("Answers must be one of: yes, maybe, no")
)

// requirePartner returns the partner id and pair key of a paired user
func requirePartner(user *models.User) (partnerID, pairKey string, err error) {
	if !user.HasPartner() {
		return "", "", ErrNotPaired
	}
	return *user.PartnerID, user.PairKey(), nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, repository.ErrDuplicate)
}
