package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gigflow/gigflow-backend/internal/model"
	"github.com/gigflow/gigflow-backend/internal/notify"
	"github.com/gigflow/gigflow-backend/internal/repository"
	"gorm.io/gorm"
)

// ConversationDetail is a conversation enriched with its gig and both
// participants.
type ConversationDetail struct {
	model.Conversation
	Gig        *model.Gig        `json:"gig,omitempty"`
	Owner      *model.PublicUser `json:"owner,omitempty"`
	Freelancer *model.PublicUser `json:"freelancer,omitempty"`
}

type MessageDetail struct {
	model.Message
	Sender *model.PublicUser `json:"sender,omitempty"`
}

type ConversationService interface {
	GetOrCreateByBid(ctx context.Context, bidID, requesterID uint64) (*ConversationDetail, error)
	ListByUser(ctx context.Context, userID uint64) ([]ConversationDetail, error)
	ListMessages(ctx context.Context, convID, requesterID uint64) ([]MessageDetail, error)
	SendMessage(ctx context.Context, convID, senderID uint64, text string) (*MessageDetail, error)
	EditMessage(ctx context.Context, messageID, requesterID uint64, text string) (*MessageDetail, error)
	DeleteMessage(ctx context.Context, messageID, requesterID uint64) (conversationID uint64, err error)
}

type conversationService struct {
	convRepo repository.ConversationRepository
	bidRepo  repository.BidRepository
	gigRepo  repository.GigRepository
	userRepo repository.UserRepository
	notifier *notify.Notifier
}

func NewConversationService(convRepo repository.ConversationRepository, bidRepo repository.BidRepository, gigRepo repository.GigRepository, userRepo repository.UserRepository, notifier *notify.Notifier) ConversationService {
	return &conversationService{convRepo: convRepo, bidRepo: bidRepo, gigRepo: gigRepo, userRepo: userRepo, notifier: notifier}
}

func (s *conversationService) GetOrCreateByBid(ctx context.Context, bidID, requesterID uint64) (*ConversationDetail, error) {
	bid, err := s.bidRepo.FindByID(ctx, bidID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: bid not found", ErrNotFound)
		}
		return nil, err
	}
	gig, err := s.gigRepo.FindByID(ctx, bid.GigID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: gig not found", ErrNotFound)
		}
		return nil, err
	}
	if requesterID != gig.OwnerID && requesterID != bid.FreelancerID {
		return nil, fmt.Errorf("%w: not a participant", ErrForbidden)
	}

	cv, err := s.convRepo.FindOrCreate(ctx, &model.Conversation{
		BidID:        bid.ID,
		GigID:        gig.ID,
		OwnerID:      gig.OwnerID,
		FreelancerID: bid.FreelancerID,
	})
	if err != nil {
		return nil, err
	}

	details, err := s.enrich(ctx, []model.Conversation{*cv})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *conversationService) ListByUser(ctx context.Context, userID uint64) ([]ConversationDetail, error) {
	convs, err := s.convRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, convs)
}

// authorize is the single access-control gate for all message
// operations: the conversation must exist and the requester must be one
// of its two participants.
func (s *conversationService) authorize(ctx context.Context, convID, userID uint64) (*model.Conversation, error) {
	cv, err := s.convRepo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: conversation not found", ErrNotFound)
		}
		return nil, err
	}
	if !cv.IsParticipant(userID) {
		return nil, fmt.Errorf("%w: not a participant", ErrForbidden)
	}
	return cv, nil
}

func (s *conversationService) ListMessages(ctx context.Context, convID, requesterID uint64) ([]MessageDetail, error) {
	if _, err := s.authorize(ctx, convID, requesterID); err != nil {
		return nil, err
	}
	msgs, err := s.convRepo.ListMessages(ctx, convID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.SenderID)
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]MessageDetail, 0, len(msgs))
	for _, m := range msgs {
		d := MessageDetail{Message: m}
		if u, ok := users[m.SenderID]; ok {
			pub := u.Public()
			d.Sender = &pub
		}
		details = append(details, d)
	}
	return details, nil
}

func (s *conversationService) SendMessage(ctx context.Context, convID, senderID uint64, text string) (*MessageDetail, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message text is required", ErrValidation)
	}
	if len(text) > 2000 {
		return nil, fmt.Errorf("%w: message text cannot exceed 2000 characters", ErrValidation)
	}

	cv, err := s.authorize(ctx, convID, senderID)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{
		ConversationID: convID,
		SenderID:       senderID,
		Text:           text,
		ReadBy:         []uint64{senderID},
	}
	if err := s.convRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.convRepo.TouchLastMessageAt(ctx, convID, time.Now()); err != nil {
		return nil, err
	}

	detail := s.withSender(ctx, msg)
	s.notifier.NewMessage(cv.OtherParticipant(senderID), convID, detail)
	return detail, nil
}

func (s *conversationService) EditMessage(ctx context.Context, messageID, requesterID uint64, text string) (*MessageDetail, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message text is required", ErrValidation)
	}
	if len(text) > 2000 {
		return nil, fmt.Errorf("%w: message text cannot exceed 2000 characters", ErrValidation)
	}

	msg, err := s.convRepo.FindMessageByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: message not found", ErrNotFound)
		}
		return nil, err
	}
	cv, err := s.authorize(ctx, msg.ConversationID, requesterID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != requesterID {
		return nil, fmt.Errorf("%w: only the sender can edit a message", ErrForbidden)
	}

	now := time.Now()
	msg.Text = text
	msg.EditedAt = &now
	if err := s.convRepo.UpdateMessage(ctx, msg); err != nil {
		return nil, err
	}

	detail := s.withSender(ctx, msg)
	s.notifier.MessageUpdated(cv.OtherParticipant(requesterID), cv.ID, detail)
	return detail, nil
}

func (s *conversationService) DeleteMessage(ctx context.Context, messageID, requesterID uint64) (uint64, error) {
	msg, err := s.convRepo.FindMessageByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: message not found", ErrNotFound)
		}
		return 0, err
	}
	cv, err := s.authorize(ctx, msg.ConversationID, requesterID)
	if err != nil {
		return 0, err
	}
	if msg.SenderID != requesterID {
		return 0, fmt.Errorf("%w: only the sender can delete a message", ErrForbidden)
	}

	if err := s.convRepo.DeleteMessage(ctx, messageID); err != nil {
		return 0, err
	}

	s.notifier.MessageDeleted(cv.OtherParticipant(requesterID), cv.ID, messageID)
	return cv.ID, nil
}

func (s *conversationService) withSender(ctx context.Context, msg *model.Message) *MessageDetail {
	detail := &MessageDetail{Message: *msg}
	if u, err := s.userRepo.FindByID(ctx, msg.SenderID); err == nil {
		pub := u.Public()
		detail.Sender = &pub
	}
	return detail
}

func (s *conversationService) enrich(ctx context.Context, convs []model.Conversation) ([]ConversationDetail, error) {
	ids := make([]uint64, 0, len(convs)*2)
	for _, cv := range convs {
		ids = append(ids, cv.OwnerID, cv.FreelancerID)
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]ConversationDetail, 0, len(convs))
	for _, cv := range convs {
		d := ConversationDetail{Conversation: cv}
		if gig, err := s.gigRepo.FindByID(ctx, cv.GigID); err == nil {
			d.Gig = gig
		}
		if u, ok := users[cv.OwnerID]; ok {
			pub := u.Public()
			d.Owner = &pub
		}
		if u, ok := users[cv.FreelancerID]; ok {
			pub := u.Public()
			d.Freelancer = &pub
		}
		details = append(details, d)
	}
	return details, nil
}
