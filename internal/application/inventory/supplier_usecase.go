package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/retail-stock/internal/application/dto"
	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/codes"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
)

// SupplierUseCase manages suppliers.
type SupplierUseCase struct {
	uow  *UnitOfWork
	read repository.Repos
}

// NewSupplierUseCase builds the use case. read is bound to the pool and serves queries.
func NewSupplierUseCase(uow *UnitOfWork, read repository.Repos) *SupplierUseCase {
	return &SupplierUseCase{uow: uow, read: read}
}

// Create inserts a supplier with its SUP code in one unit.
func (uc *SupplierUseCase) Create(ctx context.Context, actor Actor, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}

	var created *entity.Supplier
	err := uc.uow.Do(ctx, OpCreateSupplier, func(repos repository.Repos) error {
		existing, err := repos.Suppliers.GetByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.NewValidationError("name", "a supplier named "+name+" already exists")
		}
		now := uc.uow.Now()
		code, err := resolveCode(ctx, repos, codes.KindSupplier, now, in.Code, supplierCodeTaken(repos))
		if err != nil {
			return err
		}
		s := &entity.Supplier{
			ID:            newID(),
			Code:          code,
			Name:          name,
			ContactPerson: in.ContactPerson,
			Phone:         in.Phone,
			Email:         in.Email,
			Address:       in.Address,
			PaymentTerms:  in.PaymentTerms,
			Notes:         in.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := repos.Suppliers.Create(ctx, s); err != nil {
			return err
		}
		if err := logActivity(ctx, repos, actor, entity.ActionAddSupplier, "added supplier "+s.Code+" "+s.Name, now); err != nil {
			return err
		}
		created = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(created), nil
}

// Update edits the descriptive fields of a supplier.
func (uc *SupplierUseCase) Update(ctx context.Context, actor Actor, code string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var updated *entity.Supplier
	err := uc.uow.Do(ctx, OpUpdateSupplier, func(repos repository.Repos) error {
		s, err := repos.Suppliers.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.NotFound("supplier", code)
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return domain.NewValidationError("name", "is required")
			}
			if !strings.EqualFold(name, s.Name) {
				other, err := repos.Suppliers.GetByName(ctx, name)
				if err != nil {
					return err
				}
				if other != nil && other.ID != s.ID {
					return domain.NewValidationError("name", "a supplier named "+name+" already exists")
				}
			}
			s.Name = name
		}
		if in.ContactPerson != nil {
			s.ContactPerson = *in.ContactPerson
		}
		if in.Phone != nil {
			s.Phone = *in.Phone
		}
		if in.Email != nil {
			s.Email = *in.Email
		}
		if in.Address != nil {
			s.Address = *in.Address
		}
		if in.PaymentTerms != nil {
			s.PaymentTerms = *in.PaymentTerms
		}
		if in.Notes != nil {
			s.Notes = *in.Notes
		}
		now := uc.uow.Now()
		s.UpdatedAt = now
		if err := repos.Suppliers.Update(ctx, s); err != nil {
			return err
		}
		updated = s
		return logActivity(ctx, repos, actor, entity.ActionUpdateSupplier, "updated supplier "+s.Code, now)
	})
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(updated), nil
}

// GetByCode returns one supplier.
func (uc *SupplierUseCase) GetByCode(ctx context.Context, code string) (*dto.SupplierResponse, error) {
	s, err := uc.read.Suppliers.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NotFound("supplier", code)
	}
	return toSupplierResponse(s), nil
}

// List returns suppliers ordered by code.
func (uc *SupplierUseCase) List(ctx context.Context, p dto.PageRequest) (*dto.SupplierListResponse, error) {
	p = page(p)
	list, err := uc.read.Suppliers.List(ctx, p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.SupplierListResponse{
		Suppliers: make([]dto.SupplierResponse, 0, len(list)),
		Page:      dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Total: len(list)},
	}
	for _, s := range list {
		out.Suppliers = append(out.Suppliers, *toSupplierResponse(s))
	}
	return out, nil
}

// Delete removes a supplier. Its items lose the reference; suppliers with restock
// orders cannot be deleted.
func (uc *SupplierUseCase) Delete(ctx context.Context, actor Actor, code string) error {
	return uc.uow.Do(ctx, OpDeleteSupplier, func(repos repository.Repos) error {
		s, err := repos.Suppliers.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.NotFound("supplier", code)
		}
		orders, err := repos.Restocks.List(ctx, repository.RestockFilter{SupplierID: s.ID, Limit: 1})
		if err != nil {
			return err
		}
		if len(orders) > 0 {
			return domain.NewInvariantViolation("supplier", s.Code+" is referenced by restock orders")
		}
		if err := repos.Suppliers.Delete(ctx, s.ID); err != nil {
			return err
		}
		return logActivity(ctx, repos, actor, entity.ActionDeleteSupplier, "deleted supplier "+s.Code+" "+s.Name, uc.uow.Now())
	})
}

// supplierForName returns the supplier called name, creating it when absent.
func (uc *SupplierUseCase) supplierForName(ctx context.Context, repos repository.Repos, actor Actor, name string) (*entity.Supplier, error) {
	s, err := repos.Suppliers.GetByName(ctx, name)
	if err != nil || s != nil {
		return s, err
	}
	now := uc.uow.Now()
	code, err := assignCode(ctx, repos, codes.KindSupplier, now)
	if err != nil {
		return nil, err
	}
	s = &entity.Supplier{ID: newID(), Code: code, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := repos.Suppliers.Create(ctx, s); err != nil {
		return nil, err
	}
	if err := logActivity(ctx, repos, actor, entity.ActionAddSupplier, "added supplier "+s.Code+" "+s.Name+" on first reference", now); err != nil {
		return nil, err
	}
	return s, nil
}

func supplierCodeTaken(repos repository.Repos) func(context.Context, string) (bool, error) {
	return func(ctx context.Context, code string) (bool, error) {
		s, err := repos.Suppliers.GetByCode(ctx, code)
		return s != nil, err
	}
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		Code:          s.Code,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		Address:       s.Address,
		PaymentTerms:  s.PaymentTerms,
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
	}
}
