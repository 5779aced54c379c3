package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/Pulse/internal/models"
)

func newTestContacts(store ContactStore) *ContactService {
	svc := NewContactService(store)
	svc.now = fixedNow
	svc.idGen = seqIDs("c-")
	return svc
}

func TestContactSubmitDedup(t *testing.T) {
	store := newFakeStore()
	store.addSession("s1", "owner", "Retro")
	store.addSession("s2", "owner", "Planning")
	svc := newTestContacts(store)
	ctx := context.Background()

	c, err := svc.Submit(ctx, "s1", ContactInput{Name: "Bo", Email: "bo@x.io", Mobile: "123", Description: "call me"})
	require.NoError(t, err)
	assert.Equal(t, "owner", c.AdminID)
	assert.Equal(t, "s1", c.SessionID)

	// same email, different details
	_, err = svc.Submit(ctx, "s1", ContactInput{Name: "Other", Email: "BO@x.io"})
	assert.ErrorIs(t, err, ErrAlreadyContacted)
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorConflict, se.Code)
	assert.Equal(t, "You have already contacted us.", se.Message)

	_, err = svc.Submit(ctx, "s2", ContactInput{Name: "Bo", Email: "bo@x.io"})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "missing", ContactInput{Name: "Bo", Email: "bo@x.io"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Len(t, store.contacts, 2)
}

func TestContactSubmitValidation(t *testing.T) {
	store := newFakeStore()
	store.addSession("s1", "owner", "Retro")
	svc := newTestContacts(store)
	for _, in := range []ContactInput{{Email: "bo@x.io"}, {Name: "Bo"}, {Name: "Bo", Email: "nope"}} {
		_, err := svc.Submit(context.Background(), "s1", in)
		se, ok := AsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, ErrorInvalid, se.Code)
	}
}

func TestContactSubmitConstraintRace(t *testing.T) {
	store := newFakeStore()
	store.addSession("s1", "owner", "Retro")
	store.insertErr = fmt.Errorf("insert contact: %w", models.ErrDuplicate)
	_, err := newTestContacts(store).Submit(context.Background(), "s1", ContactInput{Name: "Bo", Email: "bo@x.io"})
	assert.ErrorIs(t, err, ErrAlreadyContacted)
}

func TestContactListByAdmin(t *testing.T) {
	store := newFakeStore()
	store.addSession("s1", "owner", "Retro")
	svc := newTestContacts(store)
	ctx := context.Background()
	_, err := svc.Submit(ctx, "s1", ContactInput{Name: "A", Email: "a@x.io"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, "s1", ContactInput{Name: "B", Email: "b@x.io"})
	require.NoError(t, err)

	out, err := svc.ListByAdmin(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "B", out[0].Name)

	none, err := svc.ListByAdmin(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
