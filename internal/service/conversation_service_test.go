package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gigflow/gigflow-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type convFixture struct {
	env        *testEnv
	owner      *model.User
	freelancer *model.User
	stranger   *model.User
	gig        *model.Gig
	bid        *BidDetail
}

func newConvFixture(t *testing.T) *convFixture {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	freelancer := env.createUser(t, "freelancer")
	stranger := env.createUser(t, "stranger")
	gig := env.createGig(t, owner.ID, "Landing page build")
	bid := env.createBid(t, gig.ID, freelancer.ID, 400)
	return &convFixture{env: env, owner: owner, freelancer: freelancer, stranger: stranger, gig: gig, bid: bid}
}

func (f *convFixture) open(t *testing.T) *ConversationDetail {
	t.Helper()
	cv, err := f.env.convs.GetOrCreateByBid(context.Background(), f.bid.ID, f.owner.ID)
	require.NoError(t, err)
	return cv
}

func TestGetOrCreateConversationIdempotent(t *testing.T) {
	f := newConvFixture(t)
	ctx := context.Background()

	first, err := f.env.convs.GetOrCreateByBid(ctx, f.bid.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, f.gig.ID, first.GigID)
	assert.Equal(t, f.owner.ID, first.OwnerID)
	assert.Equal(t, f.freelancer.ID, first.FreelancerID)
	require.NotNil(t, first.Gig)
	require.NotNil(t, first.Owner)
	require.NotNil(t, first.Freelancer)

	// The other participant lands on the same conversation.
	second, err := f.env.convs.GetOrCreateByBid(ctx, f.bid.ID, f.freelancer.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, f.env.db.Model(&model.Conversation{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetOrCreateConversationConcurrent(t *testing.T) {
	f := newConvFixture(t)
	ctx := context.Background()

	const n = 4
	ids := make([]uint64, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cv, err := f.env.convs.GetOrCreateByBid(ctx, f.bid.ID, f.owner.ID)
			if err == nil {
				ids[i] = cv.ID
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	var count int64
	require.NoError(t, f.env.db.Model(&model.Conversation{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestConversationAccessControl(t *testing.T) {
	f := newConvFixture(t)
	ctx := context.Background()

	_, err := f.env.convs.GetOrCreateByBid(ctx, f.bid.ID, f.stranger.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.env.convs.GetOrCreateByBid(ctx, 9999, f.owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	cv := f.open(t)

	_, err = f.env.convs.ListMessages(ctx, cv.ID, f.stranger.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.env.convs.SendMessage(ctx, cv.ID, f.stranger.ID, "let me in")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.env.convs.ListMessages(ctx, 9999, f.owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSendMessage(t *testing.T) {
	f := newConvFixture(t)
	cv := f.open(t)
	ctx := context.Background()

	_, err := f.env.convs.SendMessage(ctx, cv.ID, f.owner.ID, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	msg, err := f.env.convs.SendMessage(ctx, cv.ID, f.owner.ID, "  hello there  ")
	require.NoError(t, err)
	assert.Equal(t, "hello there", msg.Text)
	assert.Equal(t, []uint64{f.owner.ID}, msg.ReadBy)
	require.NotNil(t, msg.Sender)
	assert.Equal(t, f.owner.ID, msg.Sender.ID)
	assert.Nil(t, msg.EditedAt)

	var stored model.Conversation
	require.NoError(t, f.env.db.First(&stored, cv.ID).Error)
	require.NotNil(t, stored.LastMessageAt)
	assert.WithinDuration(t, time.Now(), *stored.LastMessageAt, 5*time.Second)
}

func TestListMessagesOrderedOldestFirst(t *testing.T) {
	f := newConvFixture(t)
	cv := f.open(t)
	ctx := context.Background()

	first, err := f.env.convs.SendMessage(ctx, cv.ID, f.owner.ID, "first")
	require.NoError(t, err)
	second, err := f.env.convs.SendMessage(ctx, cv.ID, f.freelancer.ID, "second")
	require.NoError(t, err)

	msgs, err := f.env.convs.ListMessages(ctx, cv.ID, f.freelancer.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, first.ID, msgs[0].ID)
	assert.Equal(t, second.ID, msgs[1].ID)
	require.NotNil(t, msgs[1].Sender)
	assert.Equal(t, f.freelancer.Name, msgs[1].Sender.Name)
}

func TestConversationListOrdering(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner")
	b := env.createUser(t, "bidder-b")
	c := env.createUser(t, "bidder-c")
	ctx := context.Background()

	gig := env.createGig(t, owner.ID, "Landing page build")
	bidB := env.createBid(t, gig.ID, b.ID, 400)
	bidC := env.createBid(t, gig.ID, c.ID, 450)

	cvB, err := env.convs.GetOrCreateByBid(ctx, bidB.ID, owner.ID)
	require.NoError(t, err)
	cvC, err := env.convs.GetOrCreateByBid(ctx, bidC.ID, owner.ID)
	require.NoError(t, err)

	// Only one conversation has traffic; it sorts ahead of the silent one.
	_, err = env.convs.SendMessage(ctx, cvB.ID, owner.ID, "hello")
	require.NoError(t, err)

	convs, err := env.convs.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, cvB.ID, convs[0].ID)
	assert.Equal(t, cvC.ID, convs[1].ID)

	// The freelancer only sees their own conversation.
	convsB, err := env.convs.ListByUser(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, convsB, 1)
	assert.Equal(t, cvB.ID, convsB[0].ID)
}

func TestEditMessage(t *testing.T) {
	f := newConvFixture(t)
	cv := f.open(t)
	ctx := context.Background()

	msg, err := f.env.convs.SendMessage(ctx, cv.ID, f.owner.ID, "original")
	require.NoError(t, err)

	_, err = f.env.convs.EditMessage(ctx, msg.ID, f.freelancer.ID, "hijacked")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.env.convs.EditMessage(ctx, msg.ID, f.owner.ID, " ")
	assert.ErrorIs(t, err, ErrValidation)

	edited, err := f.env.convs.EditMessage(ctx, msg.ID, f.owner.ID, "revised")
	require.NoError(t, err)
	assert.Equal(t, "revised", edited.Text)
	require.NotNil(t, edited.EditedAt)

	_, err = f.env.convs.EditMessage(ctx, 9999, f.owner.ID, "revised")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMessage(t *testing.T) {
	f := newConvFixture(t)
	cv := f.open(t)
	ctx := context.Background()

	msg, err := f.env.convs.SendMessage(ctx, cv.ID, f.owner.ID, "going away")
	require.NoError(t, err)

	_, err = f.env.convs.DeleteMessage(ctx, msg.ID, f.freelancer.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	convID, err := f.env.convs.DeleteMessage(ctx, msg.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, cv.ID, convID)

	msgs, err := f.env.convs.ListMessages(ctx, cv.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	_, err = f.env.convs.DeleteMessage(ctx, msg.ID, f.owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
