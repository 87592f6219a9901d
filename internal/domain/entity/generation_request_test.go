package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "icang-ai-api/pkg/errors"
)

func TestParseModeAcceptsPageAliases(t *testing.T) {
	cases := map[string]Mode{
		"story":      ModeStory,
		" Cerita ":   ModeStory,
		"berita":     ModeInfo,
		"INFO":       ModeInfo,
		"matematika": ModeMath,
		"math":       ModeMath,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMode("poetry")
	assert.True(t, apperrors.IsValidation(err))
}

func TestParseGenre(t *testing.T) {
	g, err := ParseGenre("comedy")
	require.NoError(t, err)
	assert.Equal(t, GenreComedy, g)

	g, err = ParseGenre("serius")
	require.NoError(t, err)
	assert.Equal(t, GenreSerius, g)

	_, err = ParseGenre("romance")
	assert.True(t, apperrors.IsValidation(err))
}

func TestValidateRejectsBlankTopic(t *testing.T) {
	for _, topic := range []string{"", "   ", "\t\n"} {
		for _, req := range []GenerationRequest{
			NewInfoRequest(topic),
			NewMathRequest(topic),
			NewStoryRequest(topic, 300, GenreHorror),
		} {
			err := req.Validate()
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err), "mode %s", req.Mode)
		}
	}
}

func TestValidateStoryBounds(t *testing.T) {
	for _, length := range []int{MinStoryLength, 350, MaxStoryLength} {
		assert.NoError(t, NewStoryRequest("Kancil", length, GenreComedy).Validate(), length)
	}
	for _, length := range []int{0, 100, MinStoryLength - 1, MaxStoryLength + 1} {
		assert.Error(t, NewStoryRequest("Kancil", length, GenreComedy).Validate(), length)
	}
	assert.Error(t, NewStoryRequest("Kancil", 300, Genre("Romance")).Validate())
}

func TestValidateIgnoresStoryOptionsOutsideStory(t *testing.T) {
	req := GenerationRequest{Topic: "Tips Belajar Python", Mode: ModeInfo, Length: 5, Genre: "nope"}
	assert.NoError(t, req.Validate())

	req.Mode = "poetry"
	assert.Error(t, req.Validate())
}

func TestResultDisplay(t *testing.T) {
	ok := Success("halo")
	assert.True(t, ok.OK())
	assert.Equal(t, "halo", ok.Display())

	bad := Failure("gagal")
	assert.False(t, bad.OK())
	assert.Equal(t, "gagal", bad.Display())
}
