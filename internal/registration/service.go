// Package registration exposes the spa and therapist lifecycle operations. Every
// write validates input, loads the entity, asks the lifecycle engine for the
// transition and hands one unit to the write coordinator.
package registration

import (
	"context"
	"time"

	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/lifecycle"
	"spa-registry/internal/models"
	"spa-registry/internal/query"
	"spa-registry/internal/store"
	"spa-registry/internal/txn"
)

var errCountsDisabled = apperrors.NewInternalError("status counts are not configured", nil)

// DB is satisfied by *sql.DB.
type DB interface {
	store.DBTX
	txn.TxBeginner
}

// Deps are the collaborators of a Service. Counter may be nil.
type Deps struct {
	DB          DB
	Engine      *lifecycle.Engine
	Coordinator *txn.Coordinator
	Lister      *query.Lister
	Counter     *query.Counter
	Logger      logger.Logger
}

// Service implements the registration operations.
type Service struct {
	db      DB
	engine  *lifecycle.Engine
	coord   *txn.Coordinator
	lister  *query.Lister
	counter *query.Counter
	logger  logger.Logger
}

// NewService wires the operations. When a Counter is given, cached status counts are
// dropped after every committed unit.
func NewService(d Deps) *Service {
	s := &Service{
		db:      d.DB,
		engine:  d.Engine,
		coord:   d.Coordinator,
		lister:  d.Lister,
		counter: d.Counter,
		logger:  d.Logger.WithFields(map[string]interface{}{"component": "registration"}),
	}
	if s.engine == nil {
		s.engine = lifecycle.NewEngine()
	}
	if s.counter != nil {
		s.coord.AfterCommit("invalidate-status-counts", func(ctx context.Context, u txn.Unit, _ int64) error {
			return s.counter.Invalidate(ctx, u.EntityType)
		})
	}
	return s
}

// Submission is the result of creating an entity.
type Submission struct {
	ID              int64  `json:"id"`
	ReferenceNumber string `json:"referenceNumber"`
	Status          string `json:"status"`
}

// Outcome is the result of a committed transition.
type Outcome struct {
	EntityType     string    `json:"entityType"`
	EntityID       int64     `json:"entityId"`
	PreviousStatus string    `json:"previousStatus"`
	Status         string    `json:"status"`
	At             time.Time `json:"at"`
	HistoryClosed  bool      `json:"historyClosed,omitempty"`
}

func outcomeOf(r *lifecycle.TransitionResult) *Outcome {
	return &Outcome{
		EntityType:     r.Change.EntityType,
		EntityID:       r.Change.EntityID,
		PreviousStatus: r.Change.From,
		Status:         r.Change.To,
		At:             r.At,
		HistoryClosed:  r.HistoryClosed,
	}
}

// GetSpa loads a spa outside any transaction.
func (s *Service) GetSpa(ctx context.Context, id int64) (*models.Spa, error) {
	return store.GetSpa(ctx, s.db, id)
}

// GetTherapist loads a therapist outside any transaction.
func (s *Service) GetTherapist(ctx context.Context, id int64) (*models.Therapist, error) {
	return store.GetTherapist(ctx, s.db, id)
}

// ListSpas pages through spas matching f.
func (s *Service) ListSpas(ctx context.Context, f query.FilterSpec, page, limit int) (*query.Page[models.Spa], error) {
	return s.lister.ListSpas(ctx, f, page, limit)
}

// ListTherapists pages through therapists matching f.
func (s *Service) ListTherapists(ctx context.Context, f query.FilterSpec, page, limit int) (*query.Page[models.Therapist], error) {
	return s.lister.ListTherapists(ctx, f, page, limit)
}

// CountStatuses returns status counts for an entity type.
func (s *Service) CountStatuses(ctx context.Context, entityType string) (map[string]int, error) {
	if s.counter == nil {
		return nil, errCountsDisabled
	}
	return s.counter.CountByStatus(ctx, entityType)
}

func int64Ptr(v int64) *int64 {
	return &v
}
