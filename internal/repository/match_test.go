package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/testing/suite"
)

const testTTL = time.Minute

func newMatch(id string) *entity.Match {
	return &entity.Match{
		ID:      id,
		Board:   entity.Board{{entity.PlayerMark, entity.Empty, entity.Empty}, {entity.Empty, entity.AiMark, entity.Empty}, {entity.Empty, entity.Empty, entity.Empty}},
		Turn:    entity.Player,
		Starter: entity.Player,
		Result:  entity.InProgress,
	}
}

func TestMatchRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	matchRepo := NewMatchRepository(st.Storage, testTTL)

	// Given: a match in progress
	match := newMatch("123")

	// When: CreateOrUpdate is called
	err := matchRepo.CreateOrUpdate(ctx, match)

	// Then: no error should be returned, and the match expires with the session
	require.NoError(t, err)

	ttl, err := st.Storage.TTL(ctx, "match:123").Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)
	assert.LessOrEqual(t, ttl, testTTL)
}

func TestMatchRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		matchRepo := NewMatchRepository(st.Storage, testTTL)

		// Given: a stored match
		match := newMatch("123")
		require.NoError(t, matchRepo.CreateOrUpdate(ctx, match))

		// When: GetByID is called with existing ID
		retrievedMatch, err := matchRepo.GetByID(ctx, match.ID)

		// Then: the retrieved match should match the saved match
		require.NoError(t, err)
		assert.Equal(t, match, retrievedMatch)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		matchRepo := NewMatchRepository(st.Storage, testTTL)

		// When: GetByID is called with non-existent ID
		retrievedMatch, err := matchRepo.GetByID(ctx, "9999999")

		// Then: an ErrMatchNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrMatchNotFound)
		assert.Nil(t, retrievedMatch)
	})

	t.Run("GetByID_Corrupted", func(t *testing.T) {
		ctx, st := suite.New(t)

		matchRepo := NewMatchRepository(st.Storage, testTTL)

		// Given: a stored value that is not a match
		require.NoError(t, st.Storage.Set(ctx, "match:bad", `{"board":"nope"}`, testTTL).Err())

		// When: GetByID is called
		_, err := matchRepo.GetByID(ctx, "bad")

		// Then: a decode error is returned
		require.Error(t, err)
		assert.NotErrorIs(t, err, apperror.ErrMatchNotFound)
	})
}

func TestMatchRepository_DeleteByID(t *testing.T) {
	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		matchRepo := NewMatchRepository(st.Storage, testTTL)

		// Given: a stored match
		match := newMatch("123")
		require.NoError(t, matchRepo.CreateOrUpdate(ctx, match))

		// When: DeleteByID is called with existing ID
		err := matchRepo.DeleteByID(ctx, match.ID)

		// Then: no error should be returned and the match is gone
		require.NoError(t, err)

		_, err = matchRepo.GetByID(ctx, match.ID)
		assert.ErrorIs(t, err, apperror.ErrMatchNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		matchRepo := NewMatchRepository(st.Storage, testTTL)

		// When: DeleteByID is called with non-existent ID
		err := matchRepo.DeleteByID(ctx, "9999999")

		// Then: an ErrMatchNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrMatchNotFound)
	})
}
