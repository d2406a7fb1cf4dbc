package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/retail-stock/internal/application/dto"
	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/codes"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
	"github.com/jhoicas/retail-stock/internal/domain/inventory"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
	"github.com/jhoicas/retail-stock/pkg/logger"
)

// SaleUseCase records sales against the ledger.
type SaleUseCase struct {
	uow  *UnitOfWork
	read repository.Repos
	log  *logger.Logger
}

// NewSaleUseCase builds the use case.
func NewSaleUseCase(uow *UnitOfWork, read repository.Repos, log *logger.Logger) *SaleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SaleUseCase{uow: uow, read: read, log: log}
}

// RecordSale locks the item, checks stock, appends the ledger row with its TXN code,
// decrements stock and writes the activity row. Either all of it commits or none of it.
func (uc *SaleUseCase) RecordSale(ctx context.Context, actor Actor, in dto.RecordSaleRequest) (*dto.SaleResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	method := entity.PaymentCash
	if in.PaymentMethod != "" {
		m, ok := entity.ParsePaymentMethod(in.PaymentMethod)
		if !ok {
			return nil, domain.NewValidationError("payment_method", "unknown payment method "+in.PaymentMethod)
		}
		method = m
	}
	if in.UnitPrice != nil {
		if err := nonNegative("unit_price", *in.UnitPrice); err != nil {
			return nil, err
		}
	}

	var (
		sale   *entity.SaleTransaction
		item   *entity.InventoryItem
		seller *entity.User
	)
	err := uc.uow.Do(ctx, OpRecordSale, func(repos repository.Repos) error {
		ref, err := repos.Items.GetByCode(ctx, in.ItemCode)
		if err != nil {
			return err
		}
		if ref == nil {
			return domain.NewInvariantViolation("item_code", "item "+in.ItemCode+" does not exist")
		}
		locked, err := repos.Items.GetForUpdate(ctx, ref.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			// deleted between the lookup and the lock
			return domain.NotFound("item", in.ItemCode)
		}
		if err := inventory.CheckSale(locked, in.QuantitySold); err != nil {
			return err
		}
		soldBy, user, err := actorRef(ctx, repos, actor)
		if err != nil {
			return err
		}

		now := uc.uow.Now()
		today := uc.uow.Today()
		code, err := assignCode(ctx, repos, codes.KindSale, today)
		if err != nil {
			return err
		}
		s := &entity.SaleTransaction{
			ID:            newID(),
			Code:          code,
			ItemID:        locked.ID,
			QuantitySold:  in.QuantitySold,
			UnitPrice:     locked.SellingPrice,
			PaymentMethod: method,
			SoldBy:        soldBy,
			SaleDate:      today,
			SaleTime:      now.Format("15:04:05"),
			Notes:         strings.TrimSpace(in.Notes),
			CreatedAt:     now,
		}
		if in.UnitPrice != nil {
			s.UnitPrice = *in.UnitPrice
		}
		inventory.RecomputeSale(s)

		if err := repos.Sales.Create(ctx, s); err != nil {
			return err
		}
		if err := inventory.ApplySale(locked, s); err != nil {
			return err
		}
		if err := repos.Items.UpdateStock(ctx, locked.ID, locked.QuantityInStock, locked.LastRestocked, now); err != nil {
			return err
		}
		details := fmt.Sprintf("sold %d x %s (%s) for %s, %d left", s.QuantitySold, locked.Code, s.Code, s.TotalAmount.StringFixed(2), locked.QuantityInStock)
		if err := logActivity(ctx, repos, actor, entity.ActionRecordSale, details, now); err != nil {
			return err
		}
		sale, item, seller = s, locked, user
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("code", sale.Code).
		Str("item", item.Code).
		Int("qty", sale.QuantitySold).
		Str("total", sale.TotalAmount.StringFixed(2)).
		Int("stock_left", item.QuantityInStock).
		Msg("sale recorded")

	r := toSaleResponse(sale, item, seller)
	left := item.QuantityInStock
	r.RemainingStock = &left
	return r, nil
}

// GetByCode returns one ledger row.
func (uc *SaleUseCase) GetByCode(ctx context.Context, code string) (*dto.SaleResponse, error) {
	s, err := uc.read.Sales.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NotFound("sale", code)
	}
	item, err := uc.read.Items.GetByID(ctx, s.ItemID)
	if err != nil {
		return nil, err
	}
	seller, err := sellerOf(ctx, uc.read, s)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(s, item, seller), nil
}

// List returns sales, newest first.
func (uc *SaleUseCase) List(ctx context.Context, q dto.SaleQuery) (*dto.SaleListResponse, error) {
	sales, p, err := uc.Ledger(ctx, q)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{
		Sales: make([]dto.SaleResponse, 0, len(sales)),
		Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Total: len(sales)},
	}
	items := map[string]*entity.InventoryItem{}
	for _, s := range sales {
		item, ok := items[s.ItemID]
		if !ok {
			if item, err = uc.read.Items.GetByID(ctx, s.ItemID); err != nil {
				return nil, err
			}
			items[s.ItemID] = item
		}
		seller, err := sellerOf(ctx, uc.read, s)
		if err != nil {
			return nil, err
		}
		out.Sales = append(out.Sales, *toSaleResponse(s, item, seller))
	}
	return out, nil
}

// Ledger returns the raw ledger rows matching q. Used by list and export.
func (uc *SaleUseCase) Ledger(ctx context.Context, q dto.SaleQuery) ([]*entity.SaleTransaction, dto.PageRequest, error) {
	if err := dto.Validate(q); err != nil {
		return nil, dto.PageRequest{}, err
	}
	p := page(q.PageRequest)
	from, err := parseDate("from", q.From, uc.uow.Location())
	if err != nil {
		return nil, p, err
	}
	to, err := parseDate("to", q.To, uc.uow.Location())
	if err != nil {
		return nil, p, err
	}
	f := repository.SaleFilter{From: from, To: to, Limit: p.Limit, Offset: p.Offset}
	if q.ItemCode != "" {
		item, err := uc.read.Items.GetByCode(ctx, q.ItemCode)
		if err != nil {
			return nil, p, err
		}
		if item == nil {
			return nil, p, domain.NotFound("item", q.ItemCode)
		}
		f.ItemID = item.ID
	}
	sales, err := uc.read.Sales.List(ctx, f)
	return sales, p, err
}

func sellerOf(ctx context.Context, repos repository.Repos, s *entity.SaleTransaction) (*entity.User, error) {
	if s.SoldBy == nil {
		return nil, nil
	}
	return repos.Users.GetByID(ctx, *s.SoldBy)
}

func toSaleResponse(s *entity.SaleTransaction, item *entity.InventoryItem, seller *entity.User) *dto.SaleResponse {
	r := &dto.SaleResponse{
		Code:          s.Code,
		QuantitySold:  s.QuantitySold,
		UnitPrice:     s.UnitPrice,
		TotalAmount:   s.TotalAmount,
		PaymentMethod: string(s.PaymentMethod),
		SaleDate:      s.SaleDate.Format(dto.DateLayout),
		SaleTime:      s.SaleTime,
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
	}
	if item != nil {
		r.ItemCode = item.Code
		r.ItemName = item.Name
	}
	if seller != nil {
		r.SoldBy = seller.Username
	}
	return r
}
