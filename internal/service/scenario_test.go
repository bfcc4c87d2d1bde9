package service

import (
	"context"
	"testing"

	"github.com/gigflow/gigflow-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Full lifecycle: post, compete, hire, lose, talk.
func TestLandingPageLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.createUser(t, "client-a")
	b := env.createUser(t, "freelancer-b")
	c := env.createUser(t, "freelancer-c")

	gig, err := env.gigs.Create(ctx, a.ID, CreateGigInput{
		Title:       "Landing Page",
		Description: "Single page site for a product launch.",
		Budget:      500,
		BudgetType:  model.BudgetTypeFixed,
	})
	require.NoError(t, err)

	bidB, err := env.bids.Create(ctx, gig.ID, b.ID, "Twenty char proposal", 400)
	require.NoError(t, err)
	assert.Equal(t, model.BidStatusPending, bidB.Status)

	bidC, err := env.bids.Create(ctx, gig.ID, c.ID, "Another fine proposal", 450)
	require.NoError(t, err)
	assert.Equal(t, model.BidStatusPending, bidC.Status)

	hired, err := env.bids.Hire(ctx, bidB.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BidStatusHired, hired.Status)
	assert.Equal(t, model.GigStatusAssigned, hired.Gig.Status)
	require.NotNil(t, hired.Gig.AssignedFreelancerID)
	assert.Equal(t, b.ID, *hired.Gig.AssignedFreelancerID)

	var storedC model.Bid
	require.NoError(t, env.db.First(&storedC, bidC.ID).Error)
	assert.Equal(t, model.BidStatusRejected, storedC.Status)

	// The rejected bid cannot be withdrawn.
	err = env.bids.Withdraw(ctx, bidC.ID, c.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	cv, err := env.convs.GetOrCreateByBid(ctx, bidB.ID, b.ID)
	require.NoError(t, err)

	msgB, err := env.convs.SendMessage(ctx, cv.ID, b.ID, "Starting now")
	require.NoError(t, err)
	_, err = env.convs.SendMessage(ctx, cv.ID, a.ID, "Thanks")
	require.NoError(t, err)

	edited, err := env.convs.EditMessage(ctx, msgB.ID, b.ID, "Starting now!")
	require.NoError(t, err)
	assert.Equal(t, "Starting now!", edited.Text)
	require.NotNil(t, edited.EditedAt)

	msgs, err := env.convs.ListMessages(ctx, cv.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Starting now!", msgs[0].Text)
	assert.Equal(t, "Thanks", msgs[1].Text)
}
