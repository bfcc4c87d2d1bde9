package service

import (
	"context"
	"testing"

	"github.com/gigflow/gigflow-backend/internal/model"
	"github.com/gigflow/gigflow-backend/internal/notify"
	"github.com/gigflow/gigflow-backend/internal/repository"
	"github.com/gigflow/gigflow-backend/internal/ws"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database. A single connection
// serializes concurrent transactions the way a server-grade database
// would isolate them, so the race tests below exercise the conditional
// updates rather than driver lock errors.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Gig{}, &model.Bid{}, &model.Conversation{}, &model.Message{}))
	return db
}

type testEnv struct {
	db       *gorm.DB
	users    repository.UserRepository
	gigs     GigService
	bids     BidService
	convs    ConversationService
	accounts UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	gigRepo := repository.NewGigRepository(db)
	bidRepo := repository.NewBidRepository(db)
	convRepo := repository.NewConversationRepository(db)
	notifier := notify.New(ws.NewHub(), userRepo)
	return &testEnv{
		db:       db,
		users:    userRepo,
		gigs:     NewGigService(gigRepo, userRepo),
		bids:     NewBidService(bidRepo, gigRepo, userRepo, notifier),
		convs:    NewConversationService(convRepo, bidRepo, gigRepo, userRepo, notifier),
		accounts: NewUserService(userRepo),
	}
}

func (e *testEnv) createUser(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: name + "@example.com", PasswordHash: "x"}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *testEnv) createGig(t *testing.T, ownerID uint64, title string) *model.Gig {
	t.Helper()
	gig, err := e.gigs.Create(context.Background(), ownerID, CreateGigInput{
		Title:       title,
		Description: "A reasonable amount of detail about the work.",
		Budget:      500,
	})
	require.NoError(t, err)
	return gig
}

func (e *testEnv) createBid(t *testing.T, gigID, freelancerID uint64, price float64) *BidDetail {
	t.Helper()
	bid, err := e.bids.Create(context.Background(), gigID, freelancerID, "I can deliver this on time and on budget.", price)
	require.NoError(t, err)
	return bid
}
