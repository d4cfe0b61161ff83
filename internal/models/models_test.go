package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRefEquals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b UserRef
		want bool
	}{
		{"same id", UserRef{ID: 1, Email: "a@x.io"}, UserRef{ID: 1, Email: "b@x.io"}, true},
		{"different id same email", UserRef{ID: 1, Email: "a@x.io"}, UserRef{ID: 2, Email: "a@x.io"}, false},
		{"missing id falls back to email", UserRef{Email: "A@x.io "}, UserRef{ID: 2, Email: "a@x.io"}, true},
		{"missing id different email", UserRef{Email: "a@x.io"}, UserRef{ID: 2, Email: "b@x.io"}, false},
		{"both empty", UserRef{}, UserRef{}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.a.Equals(tt.b))
			assert.Equal(t, tt.want, tt.b.Equals(tt.a))
		})
	}
}

func TestUnknownUser(t *testing.T) {
	u := UnknownUser()
	assert.Equal(t, uint(0), u.ID)
	assert.Equal(t, "Unknown User", u.Name)
	assert.Equal(t, "unknown@example.com", u.Email)
	assert.True(t, u.IsUnknown())
	assert.False(t, User{ID: 3, Email: "x@y.z"}.IsUnknown())
}

func TestParseGameType(t *testing.T) {
	g, err := ParseGameType("valorant")
	require.NoError(t, err)
	assert.Equal(t, GameValorant, g)

	g, err = ParseGameType("")
	require.NoError(t, err)
	assert.Equal(t, GameGeneral, g)

	_, err = ParseGameType("minecraft")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, 400, StatusFor(NewValidationError("bad")))
	assert.Equal(t, 404, StatusFor(NewNotFoundError("Post", 1)))
	assert.Equal(t, 403, StatusFor(fmt.Errorf("wrapped: %w", NewUnauthorizedError("no"))))
	assert.Equal(t, 409, StatusFor(NewConflictError("dup")))
	assert.Equal(t, 500, StatusFor(errors.New("boom")))
}

func TestPostRankingID(t *testing.T) {
	id := uint(7)
	assert.Equal(t, uint(0), (&Post{}).RankingID())
	assert.Equal(t, uint(7), (&Post{GameRankingID: &id}).RankingID())
	assert.Equal(t, uint(9), (&Post{GameRanking: &Ranking{ID: 9}}).RankingID())
}
