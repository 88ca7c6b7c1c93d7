// Package booking orchestrates bookings, service orders and settlement over
// the room, customer, bill and policy repositories.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/karaoke-backend/internal/billing"
	"github.com/angelmondragon/karaoke-backend/internal/bills"
	"github.com/angelmondragon/karaoke-backend/internal/catalog"
	"github.com/angelmondragon/karaoke-backend/internal/customers"
	"github.com/angelmondragon/karaoke-backend/internal/discounts"
	"github.com/angelmondragon/karaoke-backend/internal/rooms"
	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/karaoke-backend/pkg/errors"
	"github.com/angelmondragon/karaoke-backend/pkg/logger"
	"github.com/angelmondragon/karaoke-backend/pkg/metrics"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Engine is the front-desk surface: booking, ordering, previewing and settling bills.
type Engine interface {
	Book(ctx context.Context, input BookInput) (*models.Bill, error)
	AddService(ctx context.Context, billID, serviceID uint, quantity int) (*models.BillLineItem, error)
	RemoveService(ctx context.Context, lineItemID uint) error
	SettlePayment(ctx context.Context, billID uint, now time.Time) (billing.Snapshot, error)
	PreviewBill(ctx context.Context, billID uint, now time.Time) (billing.Snapshot, error)
	ListActiveBills(ctx context.Context) ([]bills.BillView, error)
	ListBillItems(ctx context.Context, billID uint) (*BillItems, error)
	CurrentBill(ctx context.Context, roomID uint) (*models.Bill, error)
}

// Deps groups the collaborators an Engine needs.
type Deps struct {
	Tx        txRunner
	Rooms     rooms.Repository
	Customers customers.Repository
	Bills     bills.Repository
	Policies  discounts.Repository
	Catalog   catalog.Repository
	Metrics   *metrics.BookingMetrics
	Logger    *logger.Logger
}

type engine struct {
	tx        txRunner
	rooms     rooms.Repository
	customers customers.Repository
	bills     bills.Repository
	policies  discounts.Repository
	catalog   catalog.Repository
	metrics   *metrics.BookingMetrics
	logg      *logger.Logger
}

// NewEngine wires an Engine. Metrics are optional.
func NewEngine(deps Deps) (Engine, error) {
	if deps.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if deps.Rooms == nil {
		return nil, fmt.Errorf("rooms repository required")
	}
	if deps.Customers == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	if deps.Bills == nil {
		return nil, fmt.Errorf("bills repository required")
	}
	if deps.Policies == nil {
		return nil, fmt.Errorf("discount policy repository required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &engine{
		tx:        deps.Tx,
		rooms:     deps.Rooms,
		customers: deps.Customers,
		bills:     deps.Bills,
		policies:  deps.Policies,
		catalog:   deps.Catalog,
		metrics:   deps.Metrics,
		logg:      deps.Logger,
	}, nil
}

// scoped is the set of repositories bound to one transaction.
type scoped struct {
	rooms     rooms.Repository
	customers customers.Repository
	bills     bills.Repository
	policies  discounts.Repository
	catalog   catalog.Repository
}

func (e *engine) scope(tx *gorm.DB) scoped {
	return scoped{
		rooms:     e.rooms.WithTx(tx),
		customers: e.customers.WithTx(tx),
		bills:     e.bills.WithTx(tx),
		policies:  e.policies.WithTx(tx),
		catalog:   e.catalog.WithTx(tx),
	}
}

func (s scoped) settlementStore() billing.Store {
	return billing.Store{Bills: s.bills, Rooms: s.rooms, Policies: s.policies}
}

// inTx runs fn in one transaction and types any untyped failure as a storage error.
func (e *engine) inTx(ctx context.Context, operation string, fn func(repos scoped) error) error {
	err := e.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(e.scope(tx))
	})
	if err == nil {
		return nil
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeDependency, err, operation+" failed")
	}
	e.metrics.IncFailure(operation, string(typed.Code()))
	return typed
}

// storageErr wraps a repository failure. Typed errors such as a refused room
// transition pass through unchanged.
func storageErr(err error, message, entity string, id any) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message).Entity(entity, id)
}

func paidBillErr(billID uint) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "bill already paid").Entity("bill", billID)
}
