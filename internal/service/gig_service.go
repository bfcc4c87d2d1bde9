package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gigflow/gigflow-backend/internal/model"
	"github.com/gigflow/gigflow-backend/internal/repository"
	"gorm.io/gorm"
)

type CreateGigInput struct {
	Title          string
	Description    string
	Budget         float64
	BudgetType     model.BudgetType
	SkillsRequired []string
	Deadline       string
}

// GigDetail is a gig enriched with participant identities for API
// responses.
type GigDetail struct {
	model.Gig
	Owner              *model.PublicUser `json:"owner,omitempty"`
	AssignedFreelancer *model.PublicUser `json:"assignedFreelancer,omitempty"`
}

type GigService interface {
	Create(ctx context.Context, ownerID uint64, in CreateGigInput) (*model.Gig, error)
	Get(ctx context.Context, id uint64) (*GigDetail, error)
	List(ctx context.Context, search string, status model.GigStatus) ([]GigDetail, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]GigDetail, error)
}

type gigService struct {
	gigRepo  repository.GigRepository
	userRepo repository.UserRepository
}

func NewGigService(gigRepo repository.GigRepository, userRepo repository.UserRepository) GigService {
	return &gigService{gigRepo: gigRepo, userRepo: userRepo}
}

func (s *gigService) Create(ctx context.Context, ownerID uint64, in CreateGigInput) (*model.Gig, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if len(title) < 5 || len(title) > 100 {
		return nil, fmt.Errorf("%w: title must be between 5 and 100 characters", ErrValidation)
	}
	if len(description) < 10 || len(description) > 1000 {
		return nil, fmt.Errorf("%w: description must be between 10 and 1000 characters", ErrValidation)
	}
	if in.Budget <= 0 {
		return nil, fmt.Errorf("%w: budget must be positive", ErrValidation)
	}

	budgetType := in.BudgetType
	switch budgetType {
	case "":
		budgetType = model.BudgetTypeFixed
	case model.BudgetTypeFixed, model.BudgetTypeHourly:
	default:
		return nil, fmt.Errorf("%w: budget type must be fixed or hourly", ErrValidation)
	}

	var deadline *time.Time
	if in.Deadline != "" {
		t, err := parseDeadline(in.Deadline)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid deadline", ErrValidation)
		}
		deadline = &t
	}

	skills := make([]string, 0, len(in.SkillsRequired))
	for _, sk := range in.SkillsRequired {
		if sk = strings.TrimSpace(sk); sk != "" {
			skills = append(skills, sk)
		}
	}

	gig := &model.Gig{
		Title:          title,
		Description:    description,
		Budget:         in.Budget,
		BudgetType:     budgetType,
		SkillsRequired: skills,
		Deadline:       deadline,
		OwnerID:        ownerID,
		Status:         model.GigStatusOpen,
	}
	if err := s.gigRepo.Create(ctx, gig); err != nil {
		return nil, err
	}
	return gig, nil
}

func parseDeadline(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

func (s *gigService) Get(ctx context.Context, id uint64) (*GigDetail, error) {
	gig, err := s.gigRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: gig not found", ErrNotFound)
		}
		return nil, err
	}
	details, err := s.enrich(ctx, []model.Gig{*gig})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *gigService) List(ctx context.Context, search string, status model.GigStatus) ([]GigDetail, error) {
	gigs, err := s.gigRepo.List(ctx, search, status)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, gigs)
}

func (s *gigService) ListByOwner(ctx context.Context, ownerID uint64) ([]GigDetail, error) {
	gigs, err := s.gigRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, gigs)
}

func (s *gigService) enrich(ctx context.Context, gigs []model.Gig) ([]GigDetail, error) {
	ids := make([]uint64, 0, len(gigs)*2)
	for _, g := range gigs {
		ids = append(ids, g.OwnerID)
		if g.AssignedFreelancerID != nil {
			ids = append(ids, *g.AssignedFreelancerID)
		}
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]GigDetail, 0, len(gigs))
	for _, g := range gigs {
		d := GigDetail{Gig: g}
		if u, ok := users[g.OwnerID]; ok {
			pub := u.Public()
			d.Owner = &pub
		}
		if g.AssignedFreelancerID != nil {
			if u, ok := users[*g.AssignedFreelancerID]; ok {
				pub := u.Public()
				d.AssignedFreelancer = &pub
			}
		}
		details = append(details, d)
	}
	return details, nil
}
