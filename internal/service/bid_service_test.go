package service

import (
	"context"
	"sync"
	"testing"

	"github.com/gigflow/gigflow-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBidValidation(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	freelancer := env.createUser(t, "freelancer")
	gig := env.createGig(t, owner.ID, "Landing page build")
	ctx := context.Background()

	tests := []struct {
		name    string
		gigID   uint64
		userID  uint64
		message string
		price   float64
		wantErr error
	}{
		{"message too short", gig.ID, freelancer.ID, "too short", 100, ErrValidation},
		{"price not positive", gig.ID, freelancer.ID, "a perfectly fine proposal", 0, ErrValidation},
		{"gig missing", 9999, freelancer.ID, "a perfectly fine proposal", 100, ErrNotFound},
		{"own gig", gig.ID, owner.ID, "a perfectly fine proposal", 100, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.bids.Create(ctx, tt.gigID, tt.userID, tt.message, tt.price)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateBidDuplicate(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	freelancer := env.createUser(t, "freelancer")
	gig := env.createGig(t, owner.ID, "Landing page build")

	env.createBid(t, gig.ID, freelancer.ID, 400)
	_, err := env.bids.Create(context.Background(), gig.ID, freelancer.ID, "another proposal, same freelancer", 300)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateBidConcurrentDuplicate(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	freelancer := env.createUser(t, "freelancer")
	gig := env.createGig(t, owner.ID, "Landing page build")
	ctx := context.Background()

	const attempts = 2
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.bids.Create(ctx, gig.ID, freelancer.ID, "racing proposal for the same gig", 400)
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, ErrConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, conflicts)
}

func TestCreateBidEnrichesAndRejectsClosedGig(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	b := env.createUser(t, "bidder-b")
	c := env.createUser(t, "bidder-c")
	gig := env.createGig(t, owner.ID, "Landing page build")

	bid := env.createBid(t, gig.ID, b.ID, 400)
	require.NotNil(t, bid.Freelancer)
	assert.Equal(t, b.Name, bid.Freelancer.Name)
	assert.Equal(t, model.BidStatusPending, bid.Status)

	_, err := env.bids.Hire(context.Background(), bid.ID, owner.ID)
	require.NoError(t, err)

	_, err = env.bids.Create(context.Background(), gig.ID, c.ID, "late proposal on an assigned gig", 450)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestHireRejectsSiblingsAtomically(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	b := env.createUser(t, "bidder-b")
	c := env.createUser(t, "bidder-c")
	d := env.createUser(t, "bidder-d")
	gig := env.createGig(t, owner.ID, "Landing page build")
	ctx := context.Background()

	winner := env.createBid(t, gig.ID, b.ID, 400)
	env.createBid(t, gig.ID, c.ID, 450)
	env.createBid(t, gig.ID, d.ID, 420)

	hired, err := env.bids.Hire(ctx, winner.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BidStatusHired, hired.Status)
	require.NotNil(t, hired.Gig)
	assert.Equal(t, model.GigStatusAssigned, hired.Gig.Status)
	require.NotNil(t, hired.Gig.AssignedBidID)
	assert.Equal(t, winner.ID, *hired.Gig.AssignedBidID)
	require.NotNil(t, hired.Gig.AssignedFreelancerID)
	assert.Equal(t, b.ID, *hired.Gig.AssignedFreelancerID)

	bids, err := env.bids.ListByGig(ctx, gig.ID)
	require.NoError(t, err)
	require.Len(t, bids, 3)
	var hiredCount, rejectedCount int
	for _, bd := range bids {
		switch bd.Status {
		case model.BidStatusHired:
			hiredCount++
		case model.BidStatusRejected:
			rejectedCount++
		}
	}
	assert.Equal(t, 1, hiredCount)
	assert.Equal(t, 2, rejectedCount)
}

func TestHireAuthorization(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	b := env.createUser(t, "bidder-b")
	stranger := env.createUser(t, "stranger")
	gig := env.createGig(t, owner.ID, "Landing page build")

	bid := env.createBid(t, gig.ID, b.ID, 400)

	_, err := env.bids.Hire(context.Background(), bid.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.bids.Hire(context.Background(), 9999, owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHireTwiceFails(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	b := env.createUser(t, "bidder-b")
	c := env.createUser(t, "bidder-c")
	gig := env.createGig(t, owner.ID, "Landing page build")
	ctx := context.Background()

	first := env.createBid(t, gig.ID, b.ID, 400)
	second := env.createBid(t, gig.ID, c.ID, 450)

	_, err := env.bids.Hire(ctx, first.ID, owner.ID)
	require.NoError(t, err)

	_, err = env.bids.Hire(ctx, second.ID, owner.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestHireConcurrentSingleWinner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	b := env.createUser(t, "bidder-b")
	c := env.createUser(t, "bidder-c")
	gig := env.createGig(t, owner.ID, "Landing page build")
	ctx := context.Background()

	bidB := env.createBid(t, gig.ID, b.ID, 400)
	bidC := env.createBid(t, gig.ID, c.ID, 450)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, bidID := range []uint64{bidB.ID, bidC.ID} {
		wg.Add(1)
		go func(i int, bidID uint64) {
			defer wg.Done()
			_, errs[i] = env.bids.Hire(ctx, bidID, owner.ID)
		}(i, bidID)
	}
	wg.Wait()

	var ok, invalid int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, ErrInvalidState):
			invalid++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, invalid)

	bids, err := env.bids.ListByGig(ctx, gig.ID)
	require.NoError(t, err)
	var hiredCount int
	for _, bd := range bids {
		if bd.Status == model.BidStatusHired {
			hiredCount++
		}
	}
	assert.Equal(t, 1, hiredCount)
}

func TestWithdraw(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	b := env.createUser(t, "bidder-b")
	c := env.createUser(t, "bidder-c")
	gig := env.createGig(t, owner.ID, "Landing page build")
	ctx := context.Background()

	bidB := env.createBid(t, gig.ID, b.ID, 400)
	bidC := env.createBid(t, gig.ID, c.ID, 450)

	err := env.bids.Withdraw(ctx, bidB.ID, c.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, env.bids.Withdraw(ctx, bidB.ID, b.ID))
	err = env.bids.Withdraw(ctx, bidB.ID, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// A resolved bid can no longer be withdrawn.
	_, err = env.bids.Hire(ctx, bidC.ID, owner.ID)
	require.NoError(t, err)
	err = env.bids.Withdraw(ctx, bidC.ID, c.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestListBidsForFreelancerIncludesGig(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	b := env.createUser(t, "bidder-b")
	gigOne := env.createGig(t, owner.ID, "Landing page build")
	gigTwo := env.createGig(t, owner.ID, "API for inventory")

	env.createBid(t, gigOne.ID, b.ID, 400)
	env.createBid(t, gigTwo.ID, b.ID, 900)

	bids, err := env.bids.ListByFreelancer(context.Background(), b.ID)
	require.NoError(t, err)
	require.Len(t, bids, 2)
	for _, bd := range bids {
		require.NotNil(t, bd.Gig)
	}
	// Newest first.
	assert.Equal(t, gigTwo.ID, bids[0].GigID)
}
