package usecases

import (
	"context"
	"time"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
)

type ListPersonsCommand struct {
	Page     int
	PageSize int
	Status   string
	OrderBy  string
	Order    string
}

// PersonSummary is the public listing row. Email and front desk fields never
// appear here; callers wanting the full record go through GetPersonUseCase.
type PersonSummary struct {
	PersonID      uint
	FullName      string
	UID           *string
	Status        string
	StatusLabel   string
	StatusChanged time.Time
}

type ListPersonsResult struct {
	Persons []PersonSummary
	Total   int64
}

type ListPersonsUseCase struct {
	personRepo person.Repository
	logger     logger.Interface
}

func NewListPersonsUseCase(personRepo person.Repository, logger logger.Interface) *ListPersonsUseCase {
	return &ListPersonsUseCase{personRepo: personRepo, logger: logger}
}

func (uc *ListPersonsUseCase) Execute(ctx context.Context, cmd ListPersonsCommand) (*ListPersonsResult, error) {
	if cmd.Status != "" && !membership.Status(cmd.Status).IsValid() {
		return nil, errors.NewValidationError("unknown status: " + cmd.Status)
	}

	filter := person.ListFilter{
		Page:     cmd.Page,
		PageSize: cmd.PageSize,
		Status:   cmd.Status,
		OrderBy:  cmd.OrderBy,
		Order:    cmd.Order,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 50
	}

	persons, total, err := uc.personRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list persons", "error", err)
		return nil, errors.NewInternalError("failed to list persons")
	}

	result := &ListPersonsResult{Total: total}
	for _, p := range persons {
		desc := p.Status().Descriptor()
		result.Persons = append(result.Persons, PersonSummary{
			PersonID:      p.ID(),
			FullName:      p.FullName(),
			UID:           p.UID(),
			Status:        p.Status().String(),
			StatusLabel:   desc.Long,
			StatusChanged: p.StatusChanged(),
		})
	}

	return result, nil
}
