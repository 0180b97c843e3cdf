package memory

import (
	"context"
	"testing"
	"time"

	"candle-backend/internal/models"
	"candle-backend/internal/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContract(t *testing.T) {
	repotest.Run(t, New())
}

func TestReturnedDocumentsAreCopies(t *testing.T) {
	ctx := context.Background()
	repos := New()
	q := &models.Question{ID: "q1", PairKey: "a_b", Text: "Hi?", Category: "playful", Date: "2024-01-01", CreatedAt: time.Now()}
	require.NoError(t, repos.Questions.Create(ctx, q))

	got, err := repos.Questions.GetByID(ctx, "q1")
	require.NoError(t, err)
	got.Answers["a"] = models.Answer{Text: "mutated"}
	got.Text = "changed"

	again, err := repos.Questions.GetByID(ctx, "q1")
	require.NoError(t, err)
	assert.Empty(t, again.Answers)
	assert.Equal(t, "Hi?", again.Text)
}
