package services

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"candle-backend/internal/content"
	"candle-backend/internal/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pngHeader = "\x89PNG\r\n\x1a\n"

func pngDataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(pngHeader+"pixels"))
}

func TestThumbKiss(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alex, sam := env.couple(t)

	t0 := time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC)
	clock := t0
	env.svc.ThumbKiss.now = func() time.Time { return clock }

	_, err := env.svc.ThumbKiss.Touch(ctx, alex, 1.2, 0.5)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)

	st, err := env.svc.ThumbKiss.Touch(ctx, alex, 0.5, 0.5)
	require.NoError(t, err)
	assert.False(t, st.PartnerTouching)

	clock = t0.Add(time.Second)
	st, err = env.svc.ThumbKiss.Touch(ctx, sam, 0.55, 0.45)
	require.NoError(t, err)
	assert.True(t, st.PartnerTouching)
	assert.True(t, st.Kiss)
	assert.Equal(t, 0.5, *st.PartnerX)

	st, err = env.svc.ThumbKiss.Touch(ctx, sam, 0.9, 0.9)
	require.NoError(t, err)
	assert.True(t, st.PartnerTouching)
	assert.False(t, st.Kiss, "touches too far apart")

	// alex's touch is now older than the active window
	clock = t0.Add(4 * time.Second)
	st, err = env.svc.ThumbKiss.Status(ctx, sam)
	require.NoError(t, err)
	assert.False(t, st.PartnerTouching)
	assert.Nil(t, st.PartnerX)

	st, err = env.svc.ThumbKiss.Status(ctx, alex)
	require.NoError(t, err)
	assert.True(t, st.PartnerTouching)
	assert.False(t, st.Kiss)
}

func TestDiceRoll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alex, sam := env.couple(t)
	env.svc.Dice.intn = func(int) int { return 0 }

	roll, err := env.svc.Dice.Roll(ctx, alex, "")
	require.NoError(t, err)
	assert.Equal(t, "mild", roll.Intensity)
	assert.Equal(t, "Kiss", roll.Action)
	assert.Equal(t, "hands", roll.Target)

	hot, _ := content.DiceFor("hot")
	env.svc.Dice.intn = func(n int) int { return n - 1 }
	roll, err = env.svc.Dice.Roll(ctx, sam, "hot")
	require.NoError(t, err)
	assert.Equal(t, hot.Actions[5], roll.Action)
	assert.Equal(t, hot.Targets[5], roll.Target)

	_, err = env.svc.Dice.Roll(ctx, sam, "volcanic")
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindInvalid, svcErr.Kind)

	history, err := env.svc.Dice.History(ctx, alex)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestCanvas(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alex, sam := env.couple(t)

	_, err := env.svc.Canvas.Create(ctx, alex, DrawingRequest{ImageData: "not a data url"})
	assert.ErrorIs(t, err, ErrInvalidImageData)
	_, err = env.svc.Canvas.Create(ctx, alex, DrawingRequest{ImageData: "data:image/png;base64,!!!"})
	assert.ErrorIs(t, err, ErrInvalidImageData)
	_, err = env.svc.Canvas.Create(ctx, alex, DrawingRequest{
		ImageData: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("plain text")),
	})
	assert.ErrorIs(t, err, ErrNotAnImage)

	drawing, err := env.svc.Canvas.Create(ctx, alex, DrawingRequest{ImageData: pngDataURL()})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(drawing.ImageURL, "https://cdn.test/"+alex.PairKey()+"/canvas/"))
	assert.True(t, strings.HasSuffix(drawing.ImageURL, ".png"))

	list, err := env.svc.Canvas.List(ctx, sam)
	require.NoError(t, err)
	require.Len(t, list, 1)

	assert.ErrorIs(t, env.svc.Canvas.Delete(ctx, sam, drawing.ID), ErrDrawingNotFound)
	require.NoError(t, env.svc.Canvas.Delete(ctx, alex, drawing.ID))
}

func TestDecodeDataURLSizeLimit(t *testing.T) {
	big := make([]byte, MaxDrawingSize+1)
	_, err := decodeDataURL("data:image/png;base64," + base64.StdEncoding.EncodeToString(big))
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestMediaUploads(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alex, _ := env.couple(t)

	resp, err := env.svc.Media.Upload(ctx, alex, []byte(pngHeader+"data"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.URL, "https://cdn.test/"+alex.PairKey()+"/"))
	for _, ct := range env.media.uploads {
		assert.Equal(t, "image/png", ct)
	}

	_, err = env.svc.Media.Upload(ctx, alex, []byte("%PDF-1.4"))
	assert.ErrorIs(t, err, ErrNotAnImage)
	_, err = env.svc.Media.Upload(ctx, alex, make([]byte, MaxUploadSize+1))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	upload, err := env.svc.Media.Presign(ctx, alex, PresignRequest{Filename: "Beach.JPG", ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(upload.URL, ".jpg"))

	_, err = env.svc.Media.Presign(ctx, alex, PresignRequest{Filename: "notes.txt", ContentType: "text/plain"})
	assert.ErrorIs(t, err, ErrNotAnImage)

	env.media.presignErr = media.ErrPresignUnsupported
	_, err = env.svc.Media.Presign(ctx, alex, PresignRequest{Filename: "a.png", ContentType: "image/png"})
	assert.ErrorIs(t, err, ErrPresignDisabled)
}

func TestMediaDisabled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alex, _ := env.couple(t)

	disabled := NewMediaService(nil)
	assert.False(t, disabled.Enabled())
	_, err := disabled.Upload(ctx, alex, []byte(pngHeader))
	assert.ErrorIs(t, err, ErrMediaDisabled)

	canvas := NewCanvasService(env.repos.Drawings, disabled, env.svc.Hub)
	_, err = canvas.Create(ctx, alex, DrawingRequest{ImageData: pngDataURL()})
	assert.ErrorIs(t, err, ErrMediaDisabled)
}

func TestFantasyMatches(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alex, sam := env.couple(t)

	_, err := env.svc.Fantasy.Update(ctx, alex, map[string]string{"unicorn": FantasyYes})
	assert.ErrorIs(t, err, ErrUnknownFantasyItem)
	_, err = env.svc.Fantasy.Update(ctx, alex, map[string]string{"massage": "definitely"})
	assert.ErrorIs(t, err, ErrInvalidFantasyValue)

	profile, err := env.svc.Fantasy.Get(ctx, alex)
	require.NoError(t, err)
	assert.Empty(t, profile.Answers)

	_, err = env.svc.Fantasy.Update(ctx, alex, map[string]string{"massage": FantasyYes, "bath": FantasyMaybe, "roleplay": FantasyNo})
	require.NoError(t, err)
	profile, err = env.svc.Fantasy.Update(ctx, alex, map[string]string{"sexting": FantasyYes})
	require.NoError(t, err)
	assert.Len(t, profile.Answers, 4, "updates merge into the profile")

	_, err = env.svc.Fantasy.Update(ctx, sam, map[string]string{"massage": FantasyYes, "bath": FantasyYes, "roleplay": FantasyYes, "sexting": FantasyNo})
	require.NoError(t, err)

	matches, err := env.svc.Fantasy.Matches(ctx, sam)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "massage", matches[0].ID)
	assert.True(t, matches[0].BothYes)
	assert.Equal(t, "bath", matches[1].ID)
	assert.False(t, matches[1].BothYes)

	assert.Len(t, env.svc.Fantasy.Catalog(), len(content.FantasyCatalog))
}
