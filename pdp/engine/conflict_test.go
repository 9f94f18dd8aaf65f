package engine_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	test_mock "github.com/stretchr/testify/mock"

	"github.com/counselware/praxis/model"
	"github.com/counselware/praxis/pdp/engine"
	"github.com/counselware/praxis/test/mock"
)

func clearedResolver() *mock.MockWaiverResolver {
	resolver := new(mock.MockWaiverResolver)
	resolver.On("FindValidWaiver", test_mock.Anything, test_mock.Anything, test_mock.Anything, test_mock.Anything).
		Return("", nil)
	return resolver
}

func TestConflictScreener_Cleared(t *testing.T) {
	screener := engine.NewConflictScreener(clearedResolver())

	principal := &model.Principal{
		ID:        "atty-1",
		ClientIDs: []string{"client-a"},
	}
	matter := &model.MatterConflictMetadata{
		MatterID:        "matter-1",
		ClientID:        "client-b",
		OpposingParties: []string{"party-x"},
	}

	check, err := screener.Screen(context.Background(), principal, matter)
	assert.NoError(t, err)
	assert.False(t, check.ConflictDetected)
	assert.Equal(t, model.ConflictTypeNone, check.ConflictType)
	assert.Equal(t, model.ConflictStatusCleared, check.Status)
	assert.True(t, check.AccessGranted)
	assert.NotEmpty(t, check.CheckID)
	assert.False(t, check.CheckedAt.IsZero())
}

func TestConflictScreener_EthicalWall(t *testing.T) {
	matter := &model.MatterConflictMetadata{
		MatterID:         "matter-1",
		ClientID:         "client-b",
		OpposingParties:  []string{"party-x"},
		RelatedMatterIDs: []string{"matter-7"},
	}

	cases := []struct {
		name string
		wall *model.EthicalWall
	}{
		{"ScreensMatter", &model.EthicalWall{ID: "wall-1", PrincipalID: "atty-1", MatterIDs: []string{"matter-1"}}},
		{"ScreensRelatedMatter", &model.EthicalWall{ID: "wall-2", PrincipalID: "atty-1", MatterIDs: []string{"matter-7"}}},
		{"ScreensClient", &model.EthicalWall{ID: "wall-3", PrincipalID: "atty-1", ClientIDs: []string{"client-b"}}},
		{"ScreensOpposingParty", &model.EthicalWall{ID: "wall-4", PrincipalID: "atty-1", OpposingPartyIDs: []string{"party-x"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			screener := engine.NewConflictScreener(clearedResolver())
			principal := &model.Principal{ID: "atty-1", Wall: tc.wall}

			check, err := screener.Screen(context.Background(), principal, matter)
			assert.NoError(t, err)
			assert.True(t, check.ConflictDetected)
			assert.Equal(t, model.ConflictTypeImputed, check.ConflictType)
			assert.Equal(t, model.ConflictStatusScreened, check.Status)
			assert.False(t, check.AccessGranted)
		})
	}
}

func TestConflictScreener_ExpiredWallIsInert(t *testing.T) {
	expired := time.Now().Add(-48 * time.Hour)
	principal := &model.Principal{
		ID: "atty-1",
		Wall: &model.EthicalWall{
			ID:          "wall-1",
			PrincipalID: "atty-1",
			MatterIDs:   []string{"matter-1"},
			ExpiresAt:   &expired,
		},
	}
	matter := &model.MatterConflictMetadata{MatterID: "matter-1", ClientID: "client-b"}

	screener := engine.NewConflictScreener(clearedResolver())
	check, err := screener.Screen(context.Background(), principal, matter)
	assert.NoError(t, err)
	assert.False(t, check.ConflictDetected)
	assert.Equal(t, model.ConflictStatusCleared, check.Status)
	assert.True(t, check.AccessGranted)
}

func TestConflictScreener_WallBeatsDirectAdversity(t *testing.T) {
	// The principal both sits behind a wall and represents an opposing party;
	// the wall must win and no waiver lookup may happen.
	resolver := new(mock.MockWaiverResolver)
	screener := engine.NewConflictScreener(resolver)

	principal := &model.Principal{
		ID:        "atty-1",
		ClientIDs: []string{"party-x"},
		WaiverIDs: []string{"waiver-1"},
		Wall: &model.EthicalWall{
			ID:          "wall-1",
			PrincipalID: "atty-1",
			MatterIDs:   []string{"matter-1"},
		},
	}
	matter := &model.MatterConflictMetadata{
		MatterID:        "matter-1",
		OpposingParties: []string{"party-x"},
	}

	check, err := screener.Screen(context.Background(), principal, matter)
	assert.NoError(t, err)
	assert.Equal(t, model.ConflictTypeImputed, check.ConflictType)
	assert.Equal(t, model.ConflictStatusScreened, check.Status)
	resolver.AssertNotCalled(t, "FindValidWaiver", test_mock.Anything, test_mock.Anything, test_mock.Anything, test_mock.Anything)
}

func TestConflictScreener_DirectAdversity(t *testing.T) {
	principal := &model.Principal{
		ID:        "atty-1",
		ClientIDs: []string{"party-x"},
		WaiverIDs: []string{"waiver-1"},
	}
	matter := &model.MatterConflictMetadata{
		MatterID:        "matter-1",
		ClientID:        "client-b",
		OpposingParties: []string{"party-x"},
	}

	t.Run("WithWaiver_AllowedAsWaived", func(t *testing.T) {
		resolver := new(mock.MockWaiverResolver)
		resolver.On("FindValidWaiver", test_mock.Anything, []string{"waiver-1"}, "matter-1", model.ConflictTypeDirectAdverse).
			Return("waiver-1", nil)
		screener := engine.NewConflictScreener(resolver)

		check, err := screener.Screen(context.Background(), principal, matter)
		assert.NoError(t, err)
		assert.True(t, check.ConflictDetected)
		assert.Equal(t, model.ConflictTypeDirectAdverse, check.ConflictType)
		assert.Equal(t, model.ConflictStatusWaived, check.Status)
		assert.True(t, check.AccessGranted)
		assert.Equal(t, "waiver-1", check.WaiverID)
		resolver.AssertExpectations(t)
	})

	t.Run("WithoutWaiver_Denied", func(t *testing.T) {
		screener := engine.NewConflictScreener(clearedResolver())

		check, err := screener.Screen(context.Background(), principal, matter)
		assert.NoError(t, err)
		assert.True(t, check.ConflictDetected)
		assert.Equal(t, model.ConflictTypeDirectAdverse, check.ConflictType)
		assert.Equal(t, model.ConflictStatusActive, check.Status)
		assert.False(t, check.AccessGranted)
		assert.Equal(t, "Principal currently represents opposing party party-x", check.Reason)
	})

	t.Run("WaiverLookupFailure_Propagates", func(t *testing.T) {
		resolver := new(mock.MockWaiverResolver)
		resolver.On("FindValidWaiver", test_mock.Anything, test_mock.Anything, test_mock.Anything, test_mock.Anything).
			Return("", fmt.Errorf("store unavailable"))
		screener := engine.NewConflictScreener(resolver)

		check, err := screener.Screen(context.Background(), principal, matter)
		assert.Error(t, err)
		assert.Nil(t, check)
	})
}

func TestConflictScreener_FormerClient(t *testing.T) {
	screener := engine.NewConflictScreener(clearedResolver())

	principal := &model.Principal{
		ID:              "atty-1",
		FormerClientIDs: []string{"party-x"},
	}
	matter := &model.MatterConflictMetadata{
		MatterID:        "matter-1",
		OpposingParties: []string{"party-x"},
	}

	check, err := screener.Screen(context.Background(), principal, matter)
	assert.NoError(t, err)
	assert.True(t, check.ConflictDetected)
	assert.Equal(t, model.ConflictTypeFormerClient, check.ConflictType)
	assert.Equal(t, model.ConflictStatusActive, check.Status)
	assert.False(t, check.AccessGranted)
}

func TestConflictScreener_UniqueCheckIDs(t *testing.T) {
	screener := engine.NewConflictScreener(clearedResolver())
	principal := &model.Principal{ID: "atty-1"}
	matter := &model.MatterConflictMetadata{MatterID: "matter-1"}

	first, err := screener.Screen(context.Background(), principal, matter)
	assert.NoError(t, err)
	second, err := screener.Screen(context.Background(), principal, matter)
	assert.NoError(t, err)
	assert.NotEqual(t, first.CheckID, second.CheckID)
}
