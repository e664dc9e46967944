package service

import (
	"context"
	"errors"

	"github.com/Payphone-Digital/leadgen/internal/dto"
	apperrors "github.com/Payphone-Digital/leadgen/internal/errors"
	"github.com/Payphone-Digital/leadgen/internal/model"
	"github.com/Payphone-Digital/leadgen/internal/repository"
	ctxutil "github.com/Payphone-Digital/leadgen/pkg/context"
	"github.com/Payphone-Digital/leadgen/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeadService struct {
	repoLead *repository.LeadRepository
}

func NewLeadService(repoLead *repository.LeadRepository) *LeadService {
	return &LeadService{repoLead: repoLead}
}

func (s *LeadService) List(ctx context.Context, filter dto.LeadFilter) ([]dto.LeadResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "LeadList")

	leads, err := s.repoLead.List(ctx, filter)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrStorage, err)
	}

	res := make([]dto.LeadResponse, 0, len(leads))
	for i := range leads {
		res = append(res, ToLeadResponse(&leads[i]))
	}
	return res, nil
}

func (s *LeadService) Count(ctx context.Context, filter dto.LeadFilter) (int64, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "LeadCount")

	total, err := s.repoLead.Count(ctx, filter)
	if err != nil {
		return 0, apperrors.WrapError(apperrors.ErrStorage, err)
	}
	return total, nil
}

func (s *LeadService) Get(ctx context.Context, id uuid.UUID) (*dto.LeadResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "LeadGet")

	lead, err := s.repoLead.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrLeadNotFound
	}
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrStorage, err)
	}

	res := ToLeadResponse(lead)
	return &res, nil
}

func (s *LeadService) Create(ctx context.Context, req *dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "LeadCreate")

	lead := &model.Lead{
		BusinessName:  req.BusinessName,
		Industry:      req.Industry,
		LeadScore:     req.LeadScore,
		Verified:      req.Verified,
		ContactPerson: req.ContactPerson,
		Designation:   req.Designation,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		Address:       req.Address,
		Country:       req.Country,
		Website:       req.Website,
		Summary:       req.Summary,
		UserID:        req.UserID,
	}

	if err := s.repoLead.Create(ctx, lead); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrStorage, err)
	}

	logger.InfoWithContext(ctx, "Lead created").
		String("lead_id", lead.ID.String()).
		Log()

	res := ToLeadResponse(lead)
	return &res, nil
}

// Update changes only the fields present in req
func (s *LeadService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateLeadRequest) (*dto.LeadResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "LeadUpdate")

	lead, err := s.repoLead.Update(ctx, id, leadUpdates(req))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrLeadNotFound
	}
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrStorage, err)
	}

	res := ToLeadResponse(lead)
	return &res, nil
}

func (s *LeadService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx = ctxutil.WithFunction(ctx, "service", "LeadDelete")

	deleted, err := s.repoLead.Delete(ctx, id)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrStorage, err)
	}
	if !deleted {
		return apperrors.ErrLeadNotFound
	}
	return nil
}

func leadUpdates(req *dto.UpdateLeadRequest) map[string]interface{} {
	updates := make(map[string]interface{})
	setString := func(column string, value *string) {
		if value != nil {
			updates[column] = *value
		}
	}

	setString("business_name", req.BusinessName)
	setString("industry", req.Industry)
	setString("contact_person", req.ContactPerson)
	setString("designation", req.Designation)
	setString("contact_number", req.ContactNumber)
	setString("email", req.Email)
	setString("address", req.Address)
	setString("country", req.Country)
	setString("website", req.Website)
	setString("summary", req.Summary)
	if req.LeadScore != nil {
		updates["lead_score"] = *req.LeadScore
	}
	if req.Verified != nil {
		updates["verified"] = *req.Verified
	}
	return updates
}

func ToLeadResponse(lead *model.Lead) dto.LeadResponse {
	return dto.LeadResponse{
		ID:            lead.ID,
		BusinessName:  lead.BusinessName,
		Industry:      lead.Industry,
		LeadScore:     lead.LeadScore,
		Verified:      lead.Verified,
		ContactPerson: lead.ContactPerson,
		Designation:   lead.Designation,
		ContactNumber: lead.ContactNumber,
		Email:         lead.Email,
		Address:       lead.Address,
		Country:       lead.Country,
		Website:       lead.Website,
		Summary:       lead.Summary,
		UserID:        lead.UserID,
		CreatedAt:     lead.CreatedAt,
		UpdatedAt:     lead.UpdatedAt,
	}
}
