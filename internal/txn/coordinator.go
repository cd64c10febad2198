// Package txn runs a lifecycle write unit atomically: entity mutation, audit row and
// notification rows commit together or not at all.
package txn

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	apperrors "spa-registry/internal/common/errors"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/metrics"
	"spa-registry/internal/common/observability"
	"spa-registry/internal/models"
	"spa-registry/internal/notification"
	"spa-registry/internal/store"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// TxBeginner is satisfied by *sql.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// MutateFunc performs the entity change inside the transaction and returns the
// entity id (the new id on creation).
type MutateFunc func(ctx context.Context, tx store.DBTX) (int64, error)

// Unit is one transition's worth of writes.
type Unit struct {
	Name          string
	EntityType    string
	Action        string
	Mutate        MutateFunc
	Audit         models.ActivityLog
	Notifications []notification.Draft
}

// AfterCommitFunc runs once a unit has committed. Failures are reported, never returned.
type AfterCommitFunc func(ctx context.Context, u Unit, entityID int64) error

type hook struct {
	name string
	fn   AfterCommitFunc
}

// Coordinator owns transaction scope for lifecycle writes. It never retries.
type Coordinator struct {
	db     TxBeginner
	mapper *notification.Mapper
	logger logger.Logger
	obs    *observability.Observability
	hooks  []hook
}

func NewCoordinator(db TxBeginner, mapper *notification.Mapper, log logger.Logger, obs *observability.Observability) *Coordinator {
	return &Coordinator{
		db:     db,
		mapper: mapper,
		logger: log.WithFields(map[string]interface{}{"component": "txn"}),
		obs:    obs,
	}
}

// AfterCommit registers a best-effort hook.
func (c *Coordinator) AfterCommit(name string, fn AfterCommitFunc) {
	c.hooks = append(c.hooks, hook{name: name, fn: fn})
}

// ApplyAtomically runs the unit: mutation, audit insert, notification inserts,
// commit. Typed errors propagate unchanged; anything else from the store becomes a
// TransactionError. The transaction is rolled back on every path but commit.
func (c *Coordinator) ApplyAtomically(ctx context.Context, u Unit) (entityID int64, err error) {
	if u.Mutate == nil {
		return 0, apperrors.NewInternalError(fmt.Sprintf("unit %s has no mutation", u.Name), nil)
	}
	if len(u.Notifications) == 0 {
		return 0, apperrors.NewInternalError(fmt.Sprintf("unit %s creates no notification", u.Name), nil)
	}

	ctx, span := c.obs.StartSpan(ctx, "txn."+u.Name,
		attribute.String("entity_type", u.EntityType),
		attribute.String("action", u.Action),
	)
	start := time.Now()
	defer func() {
		metrics.TransactionDuration.WithLabelValues(u.Name).Observe(time.Since(start).Seconds())
		metrics.TransitionsTotal.WithLabelValues(u.EntityType, u.Action, outcome(err)).Inc()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, apperrors.NewTransactionError(u.Name+": begin", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			c.logger.Warn("rollback failed", map[string]interface{}{"unit": u.Name, "error": rbErr})
		}
	}()

	entityID, err = u.Mutate(ctx, tx)
	if err != nil {
		return 0, c.fail(u, "mutate", err)
	}

	audit := u.Audit
	audit.EntityType = u.EntityType
	if audit.EntityID == 0 {
		audit.EntityID = entityID
	}
	if audit.Action == "" {
		audit.Action = u.Action
	}
	if _, err = store.InsertActivityLog(ctx, tx, &audit); err != nil {
		return 0, c.fail(u, "audit", err)
	}

	for _, d := range u.Notifications {
		if d.RelatedID == nil && d.RelatedType == u.EntityType {
			id := entityID
			d.RelatedID = &id
		}
		if _, err = store.InsertNotification(ctx, tx, c.mapper.Canonical(d)); err != nil {
			return 0, c.fail(u, "notification", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, c.fail(u, "commit", err)
	}
	committed = true

	c.logger.Debug("unit committed", map[string]interface{}{
		"unit":          u.Name,
		"entityType":    u.EntityType,
		"entityId":      entityID,
		"notifications": len(u.Notifications),
	})
	c.runHooks(ctx, u, entityID)
	return entityID, nil
}

func (c *Coordinator) fail(u Unit, stage string, err error) error {
	c.logger.Warn("unit rolled back", map[string]interface{}{
		"unit":  u.Name,
		"stage": stage,
		"error": err,
	})
	if _, ok := apperrors.AsStandard(err); ok {
		return err
	}
	return apperrors.NewTransactionError(u.Name+": "+stage, err)
}

func (c *Coordinator) runHooks(ctx context.Context, u Unit, entityID int64) {
	for _, h := range c.hooks {
		if err := h.fn(ctx, u, entityID); err != nil {
			metrics.AfterCommitHookFailures.WithLabelValues(h.name).Inc()
			c.logger.Warn("after-commit hook failed", map[string]interface{}{
				"hook":  h.name,
				"unit":  u.Name,
				"error": err,
			})
		}
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeCommitted
	case apperrors.IsDomainError(err):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeTransactionFailed
	}
}
