package inventory

import (
	"time"

	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
)

// Transition moves order to status `to`, setting DateReceived when entering Received.
//
//	Pending -> Received   (dateReceived required)
//	Pending -> Cancelled
//
// Re-saving the current status is allowed and changes nothing. entered is true only
// when the order moved from another status into Received, which is the single case
// where stock must be incremented.
func Transition(order *entity.RestockOrder, to entity.RestockStatus, dateReceived *time.Time) (entered bool, err error) {
	if to != entity.RestockReceived && dateReceived != nil {
		return false, domain.NewInvariantViolation("date_received", "can only be set when status is Received")
	}
	if to == entity.RestockReceived && dateReceived == nil {
		return false, domain.NewInvariantViolation("date_received", "is required when status is Received")
	}

	if order.Status == to {
		if to == entity.RestockReceived && !sameDay(*order.DateReceived, *dateReceived) {
			return false, domain.NewInvariantViolation("date_received", "order was already received on "+order.DateReceived.Format(time.DateOnly))
		}
		return false, nil
	}

	if order.Status != entity.RestockPending {
		return false, domain.NewInvariantViolation("status",
			"cannot move a "+string(order.Status)+" order to "+string(to))
	}

	switch to {
	case entity.RestockReceived:
		d := truncateDay(*dateReceived)
		order.Status = entity.RestockReceived
		order.DateReceived = &d
		return true, nil
	case entity.RestockCancelled:
		order.Status = entity.RestockCancelled
		order.DateReceived = nil
		return false, nil
	}
	return false, domain.NewInvariantViolation("status", "cannot move a Pending order to "+string(to))
}

// CheckConsistency verifies the status/date_received pairing of a stored order.
func CheckConsistency(order *entity.RestockOrder) error {
	if (order.Status == entity.RestockReceived) != (order.DateReceived != nil) {
		return domain.NewInvariantViolation("date_received", "must be set if and only if status is Received")
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
