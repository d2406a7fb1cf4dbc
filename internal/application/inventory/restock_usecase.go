package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/retail-stock/internal/application/dto"
	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/codes"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
	"github.com/jhoicas/retail-stock/internal/domain/inventory"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
	"github.com/jhoicas/retail-stock/pkg/logger"
)

// RestockUseCase manages restock orders and applies received quantities to stock.
type RestockUseCase struct {
	uow  *UnitOfWork
	read repository.Repos
	log  *logger.Logger
}

// NewRestockUseCase builds the use case.
func NewRestockUseCase(uow *UnitOfWork, read repository.Repos, log *logger.Logger) *RestockUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RestockUseCase{uow: uow, read: read, log: log}
}

// RestockOrderView bundles an order with the rows it references, for rendering.
type RestockOrderView struct {
	Order    *entity.RestockOrder
	Item     *entity.InventoryItem
	Supplier *entity.Supplier
}

// Response renders the view as the public order body.
func (v RestockOrderView) Response() *dto.RestockOrderResponse {
	return toRestockResponse(v)
}

// CreateOrder inserts a Pending order with its PO code.
func (uc *RestockUseCase) CreateOrder(ctx context.Context, actor Actor, in dto.CreateRestockOrderRequest) (*dto.RestockOrderResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var view RestockOrderView
	err := uc.uow.Do(ctx, OpCreateRestock, func(repos repository.Repos) error {
		v, err := uc.insertPending(ctx, repos, actor, in)
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("code", view.Order.Code).Str("item", view.Item.Code).Int("qty", view.Order.QuantityOrdered).Msg("restock order created")
	return toRestockResponse(view), nil
}

// UpdateOrder applies a status change and edits notes and expected delivery.
// Moving into Received increments stock exactly once.
func (uc *RestockUseCase) UpdateOrder(ctx context.Context, actor Actor, code string, in dto.UpdateRestockOrderRequest) (*dto.RestockOrderResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	loc := uc.uow.Location()
	var (
		to           *entity.RestockStatus
		dateReceived *time.Time
		expected     *time.Time
		err          error
	)
	if in.Status != nil {
		s, ok := entity.ParseRestockStatus(*in.Status)
		if !ok {
			return nil, domain.NewValidationError("status", "must be Pending, Received or Cancelled")
		}
		to = &s
	}
	if in.DateReceived != nil {
		if dateReceived, err = parseDate("date_received", *in.DateReceived, loc); err != nil {
			return nil, err
		}
	}
	if in.ExpectedDelivery != nil {
		if expected, err = parseDate("expected_delivery", *in.ExpectedDelivery, loc); err != nil {
			return nil, err
		}
	}

	var view RestockOrderView
	err = uc.uow.Do(ctx, OpUpdateRestock, func(repos repository.Repos) error {
		order, err := lockOrder(ctx, repos, code)
		if err != nil {
			return err
		}
		target := order.Status
		if to != nil {
			target = *to
		}
		date := dateReceived
		if date == nil && to == nil && target == entity.RestockReceived {
			// editing notes on a received order keeps its date
			date = order.DateReceived
		}
		v, err := uc.transition(ctx, repos, actor, order, target, date)
		if err != nil {
			return err
		}
		if in.ExpectedDelivery != nil {
			v.Order.ExpectedDelivery = expected
		}
		if in.Notes != nil {
			v.Order.Notes = strings.TrimSpace(*in.Notes)
		}
		v.Order.UpdatedAt = uc.uow.Now()
		if err := repos.Restocks.Update(ctx, v.Order); err != nil {
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRestockResponse(view), nil
}

// ReceiveOrder marks the order Received on dateReceived (today when nil) and applies its quantity.
func (uc *RestockUseCase) ReceiveOrder(ctx context.Context, actor Actor, code string, in dto.ReceiveRestockOrderRequest) (*dto.RestockOrderResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	date, err := parseDate("date_received", in.DateReceived, uc.uow.Location())
	if err != nil {
		return nil, err
	}
	if date == nil {
		today := uc.uow.Today()
		date = &today
	}
	var view RestockOrderView
	err = uc.uow.Do(ctx, OpUpdateRestock, func(repos repository.Repos) error {
		order, err := lockOrder(ctx, repos, code)
		if err != nil {
			return err
		}
		v, err := uc.transition(ctx, repos, actor, order, entity.RestockReceived, date)
		if err != nil {
			return err
		}
		v.Order.UpdatedAt = uc.uow.Now()
		if err := repos.Restocks.Update(ctx, v.Order); err != nil {
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRestockResponse(view), nil
}

// CancelOrder moves a Pending order to Cancelled.
func (uc *RestockUseCase) CancelOrder(ctx context.Context, actor Actor, code string) (*dto.RestockOrderResponse, error) {
	status := string(entity.RestockCancelled)
	return uc.UpdateOrder(ctx, actor, code, dto.UpdateRestockOrderRequest{Status: &status})
}

// RestockNow creates an order and receives it in the same unit.
func (uc *RestockUseCase) RestockNow(ctx context.Context, actor Actor, in dto.RestockNowRequest) (*dto.RestockOrderResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	date, err := parseDate("date_received", in.DateReceived, uc.uow.Location())
	if err != nil {
		return nil, err
	}
	if date == nil {
		today := uc.uow.Today()
		date = &today
	}
	var view RestockOrderView
	err = uc.uow.Do(ctx, OpRestockNow, func(repos repository.Repos) error {
		v, err := uc.insertPending(ctx, repos, actor, in.CreateRestockOrderRequest)
		if err != nil {
			return err
		}
		v, err = uc.transition(ctx, repos, actor, v.Order, entity.RestockReceived, date)
		if err != nil {
			return err
		}
		if err := repos.Restocks.Update(ctx, v.Order); err != nil {
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRestockResponse(view), nil
}

// GetByCode returns one order.
func (uc *RestockUseCase) GetByCode(ctx context.Context, code string) (*dto.RestockOrderResponse, error) {
	v, err := uc.View(ctx, code)
	if err != nil {
		return nil, err
	}
	return toRestockResponse(v), nil
}

// View loads an order with its item and supplier.
func (uc *RestockUseCase) View(ctx context.Context, code string) (RestockOrderView, error) {
	o, err := uc.read.Restocks.GetByCode(ctx, code)
	if err != nil {
		return RestockOrderView{}, err
	}
	if o == nil {
		return RestockOrderView{}, domain.NotFound("restock order", code)
	}
	return loadView(ctx, uc.read, o)
}

// List returns orders, newest first.
func (uc *RestockUseCase) List(ctx context.Context, q dto.RestockQuery) (*dto.RestockOrderListResponse, error) {
	if err := dto.Validate(q); err != nil {
		return nil, err
	}
	p := page(q.PageRequest)
	f := repository.RestockFilter{Limit: p.Limit, Offset: p.Offset}
	if q.Status != "" {
		s, ok := entity.ParseRestockStatus(q.Status)
		if !ok {
			return nil, domain.NewValidationError("status", "must be Pending, Received or Cancelled")
		}
		f.Status = s
	}
	if q.ItemCode != "" {
		item, err := uc.read.Items.GetByCode(ctx, q.ItemCode)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.NotFound("item", q.ItemCode)
		}
		f.ItemID = item.ID
	}
	orders, err := uc.read.Restocks.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.RestockOrderListResponse{
		Orders: make([]dto.RestockOrderResponse, 0, len(orders)),
		Page:   dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Total: len(orders)},
	}
	for _, o := range orders {
		v, err := loadView(ctx, uc.read, o)
		if err != nil {
			return nil, err
		}
		out.Orders = append(out.Orders, *toRestockResponse(v))
	}
	return out, nil
}

func (uc *RestockUseCase) insertPending(ctx context.Context, repos repository.Repos, actor Actor, in dto.CreateRestockOrderRequest) (RestockOrderView, error) {
	item, err := repos.Items.GetByCode(ctx, in.ItemCode)
	if err != nil {
		return RestockOrderView{}, err
	}
	if item == nil {
		return RestockOrderView{}, domain.NewInvariantViolation("item_code", "item "+in.ItemCode+" does not exist")
	}

	var supplier *entity.Supplier
	switch {
	case in.SupplierCode != "":
		if supplier, err = repos.Suppliers.GetByCode(ctx, in.SupplierCode); err != nil {
			return RestockOrderView{}, err
		}
		if supplier == nil {
			return RestockOrderView{}, domain.NewInvariantViolation("supplier_code", "supplier "+in.SupplierCode+" does not exist")
		}
	case item.SupplierID != nil:
		if supplier, err = repos.Suppliers.GetByID(ctx, *item.SupplierID); err != nil {
			return RestockOrderView{}, err
		}
	}
	if supplier == nil {
		return RestockOrderView{}, domain.NewValidationError("supplier_code", "item "+item.Code+" has no supplier, one must be given")
	}

	costPerUnit := item.CostPrice
	if in.CostPerUnit != nil {
		if err := nonNegative("cost_per_unit", *in.CostPerUnit); err != nil {
			return RestockOrderView{}, err
		}
		costPerUnit = *in.CostPerUnit
	}
	expected, err := parseDate("expected_delivery", in.ExpectedDelivery, uc.uow.Location())
	if err != nil {
		return RestockOrderView{}, err
	}
	creator, _, err := actorRef(ctx, repos, actor)
	if err != nil {
		return RestockOrderView{}, err
	}

	now := uc.uow.Now()
	today := uc.uow.Today()
	code, err := assignCode(ctx, repos, codes.KindRestock, today)
	if err != nil {
		return RestockOrderView{}, err
	}
	order := &entity.RestockOrder{
		ID:               newID(),
		Code:             code,
		SupplierID:       supplier.ID,
		ItemID:           item.ID,
		QuantityOrdered:  in.QuantityOrdered,
		CostPerUnit:      costPerUnit,
		Status:           entity.RestockPending,
		DateOrdered:      today,
		ExpectedDelivery: expected,
		Notes:            strings.TrimSpace(in.Notes),
		CreatedBy:        creator,
		UpdatedAt:        now,
	}
	inventory.RecomputeRestock(order)
	if err := repos.Restocks.Create(ctx, order); err != nil {
		return RestockOrderView{}, err
	}
	details := fmt.Sprintf("ordered %d x %s from %s (%s)", order.QuantityOrdered, item.Code, supplier.Code, order.Code)
	if err := logActivity(ctx, repos, actor, entity.ActionCreateRestock, details, now); err != nil {
		return RestockOrderView{}, err
	}
	return RestockOrderView{Order: order, Item: item, Supplier: supplier}, nil
}

// transition applies the state machine to a locked order and propagates stock when the
// order enters Received. The caller persists the order.
func (uc *RestockUseCase) transition(ctx context.Context, repos repository.Repos, actor Actor,
	order *entity.RestockOrder, to entity.RestockStatus, dateReceived *time.Time,
) (RestockOrderView, error) {
	prev := order.Status
	entered, err := inventory.Transition(order, to, dateReceived)
	if err != nil {
		return RestockOrderView{}, err
	}
	if err := inventory.CheckConsistency(order); err != nil {
		return RestockOrderView{}, err
	}
	now := uc.uow.Now()

	item, err := repos.Items.GetForUpdate(ctx, order.ItemID)
	if err != nil {
		return RestockOrderView{}, err
	}
	if item == nil {
		return RestockOrderView{}, domain.NewInvariantViolation("item_id", "order references a missing item")
	}
	supplier, err := repos.Suppliers.GetByID(ctx, order.SupplierID)
	if err != nil {
		return RestockOrderView{}, err
	}

	if entered {
		if err := inventory.ApplyReceipt(item, order); err != nil {
			return RestockOrderView{}, err
		}
		if err := repos.Items.UpdateStock(ctx, item.ID, item.QuantityInStock, item.LastRestocked, now); err != nil {
			return RestockOrderView{}, err
		}
		details := fmt.Sprintf("received %d x %s (%s), stock now %d", order.QuantityOrdered, item.Code, order.Code, item.QuantityInStock)
		if err := logActivity(ctx, repos, actor, entity.ActionReceiveRestock, details, now); err != nil {
			return RestockOrderView{}, err
		}
		uc.log.Info().Str("code", order.Code).Str("item", item.Code).Int("qty", order.QuantityOrdered).Int("stock", item.QuantityInStock).Msg("restock received")
	} else if prev != entity.RestockCancelled && order.Status == entity.RestockCancelled {
		if err := logActivity(ctx, repos, actor, entity.ActionCancelRestock, "cancelled "+order.Code, now); err != nil {
			return RestockOrderView{}, err
		}
	}
	return RestockOrderView{Order: order, Item: item, Supplier: supplier}, nil
}

func lockOrder(ctx context.Context, repos repository.Repos, code string) (*entity.RestockOrder, error) {
	o, err := repos.Restocks.GetForUpdate(ctx, code)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NotFound("restock order", code)
	}
	return o, nil
}

func loadView(ctx context.Context, repos repository.Repos, o *entity.RestockOrder) (RestockOrderView, error) {
	item, err := repos.Items.GetByID(ctx, o.ItemID)
	if err != nil {
		return RestockOrderView{}, err
	}
	supplier, err := repos.Suppliers.GetByID(ctx, o.SupplierID)
	if err != nil {
		return RestockOrderView{}, err
	}
	return RestockOrderView{Order: o, Item: item, Supplier: supplier}, nil
}

func toRestockResponse(v RestockOrderView) *dto.RestockOrderResponse {
	o := v.Order
	r := &dto.RestockOrderResponse{
		Code:             o.Code,
		QuantityOrdered:  o.QuantityOrdered,
		CostPerUnit:      o.CostPerUnit,
		TotalCost:        o.TotalCost,
		Status:           string(o.Status),
		DateOrdered:      o.DateOrdered.Format(dto.DateLayout),
		ExpectedDelivery: formatDate(o.ExpectedDelivery),
		DateReceived:     formatDate(o.DateReceived),
		Notes:            o.Notes,
		UpdatedAt:        o.UpdatedAt,
	}
	if v.Item != nil {
		r.ItemCode = v.Item.Code
		r.ItemName = v.Item.Name
		stock := v.Item.QuantityInStock
		r.StockAfter = &stock
	}
	if v.Supplier != nil {
		r.SupplierCode = v.Supplier.Code
		r.SupplierName = v.Supplier.Name
	}
	return r
}
