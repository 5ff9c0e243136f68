package memory

import (
	"testing"

	"trade-alerts-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndGetRoundTrip(t *testing.T) {
	repo := NewFlowSessionRepository()
	userID := uuid.New()

	session := &store.FlowSession{
		ID:     uuid.NewString(),
		UserID: userID,
		Step:   store.StepReason,
	}
	repo.Save(session)

	got, found := repo.Get(userID)
	require.True(t, found)
	assert.Same(t, session, got)
}

func TestGetUnknownUser(t *testing.T) {
	repo := NewFlowSessionRepository()

	got, found := repo.Get(uuid.New())
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestSaveReplacesPreviousSession(t *testing.T) {
	repo := NewFlowSessionRepository()
	userID := uuid.New()

	first := &store.FlowSession{ID: uuid.NewString(), UserID: userID}
	second := &store.FlowSession{ID: uuid.NewString(), UserID: userID}
	repo.Save(first)
	repo.Save(second)

	got, found := repo.Get(userID)
	require.True(t, found)
	assert.Equal(t, second.ID, got.ID)
}

func TestDeleteRemovesSession(t *testing.T) {
	repo := NewFlowSessionRepository()
	userID := uuid.New()

	repo.Save(&store.FlowSession{ID: uuid.NewString(), UserID: userID})
	repo.Delete(userID)

	_, found := repo.Get(userID)
	assert.False(t, found)
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	repo := NewFlowSessionRepository()
	alice := uuid.New()
	bob := uuid.New()

	repo.Save(&store.FlowSession{ID: "a", UserID: alice})
	repo.Save(&store.FlowSession{ID: "b", UserID: bob})
	repo.Delete(alice)

	_, found := repo.Get(alice)
	assert.False(t, found)

	got, found := repo.Get(bob)
	require.True(t, found)
	assert.Equal(t, "b", got.ID)
}
