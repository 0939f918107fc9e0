package usecases

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bagcheck-inc/bagcheck/internal/shared/errors"
)

func TestListTicketsUseCase_Execute(t *testing.T) {
	h := newHarness()
	ids := []string{h.seedTicket(1), h.seedTicket(1), h.seedTicket(1)}
	_, err := h.startReview().Execute(context.Background(), StartReviewCommand{TicketID: ids[0]})
	require.NoError(t, err)
	_, err = h.complete().Execute(context.Background(), CompleteTicketCommand{TicketID: ids[1], Result: "FAKE", Comment: "no"})
	require.NoError(t, err)

	uc := NewListTicketsUseCase(h.repo, h.settings.URLs, h.log)

	t.Run("all tickets", func(t *testing.T) {
		res, err := uc.Execute(context.Background(), ListTicketsQuery{})
		require.NoError(t, err)
		assert.Len(t, res.Tickets, 3)
		assert.Equal(t, int64(3), res.Total)
		assert.Equal(t, 10, res.Limit)
		assert.Equal(t, int64(3), res.Counts.Total)
		assert.Equal(t, int64(1), res.Counts.Pending)
		assert.Equal(t, int64(1), res.Counts.InReview)
		assert.Equal(t, int64(1), res.Counts.Completed)
		assert.Equal(t, int64(0), res.Counts.NeedsPhotos)
	})

	t.Run("status filter keeps full counts", func(t *testing.T) {
		res, err := uc.Execute(context.Background(), ListTicketsQuery{Status: "COMPLETED"})
		require.NoError(t, err)
		require.Len(t, res.Tickets, 1)
		assert.Equal(t, ids[1], res.Tickets[0].ID)
		assert.Equal(t, int64(1), res.Total)
		assert.Equal(t, int64(3), res.Counts.Total)
	})

	t.Run("limit is clamped", func(t *testing.T) {
		res, err := uc.Execute(context.Background(), ListTicketsQuery{Limit: 1000})
		require.NoError(t, err)
		assert.Equal(t, 100, res.Limit)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), ListTicketsQuery{Status: "DONE"})
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("invalid client email", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), ListTicketsQuery{ClientEmail: "nope"})
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestListClientTicketsUseCase_Execute(t *testing.T) {
	h := newHarness()
	h.seedTicket(1)
	h.seedTicket(2)
	_, err := h.submit().Execute(context.Background(), SubmitTicketCommand{
		ClientEmail: "other@example.com",
		Files:       []ImageFile{jpeg("x.jpg")},
	})
	require.NoError(t, err)

	uc := NewListClientTicketsUseCase(h.repo, h.settings.URLs, h.log)

	res, err := uc.Execute(context.Background(), ListClientTicketsQuery{Email: " A@B.COM"})
	require.NoError(t, err)
	assert.Len(t, res.Tickets, 2)
	for _, tk := range res.Tickets {
		assert.Equal(t, "a@b.com", tk.ClientEmail)
	}
	assert.Equal(t, int64(2), res.Stats.Total)
	assert.Equal(t, int64(2), res.Stats.Pending)

	for _, bad := range []string{"", "not-an-email", "a b@c.com", "a@b"} {
		t.Run(fmt.Sprintf("reject %q", bad), func(t *testing.T) {
			_, err := uc.Execute(context.Background(), ListClientTicketsQuery{Email: bad})
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestDeleteTicketUseCase_Execute(t *testing.T) {
	h := newHarness()
	id := h.seedTicket(2)
	uc := NewDeleteTicketUseCase(h.deps(), h.store)
	uc.wait = true

	res, err := uc.Execute(context.Background(), DeleteTicketCommand{TicketID: id})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Nil(t, h.repo.stored(id))
	assert.ElementsMatch(t, h.store.uploads(), h.store.deletes())

	_, err = uc.Execute(context.Background(), DeleteTicketCommand{TicketID: id})
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestGetTicketUseCase_Execute(t *testing.T) {
	h := newHarness()
	id := h.seedTicket(1)

	got, err := h.getTicket().Execute(context.Background(), GetTicketQuery{TicketID: id})
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Len(t, got.Images, 1)
	assert.Empty(t, got.PhotoRequests)

	_, err = h.getTicket().Execute(context.Background(), GetTicketQuery{TicketID: "missing"})
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}
