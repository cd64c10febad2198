// internal/query/lister.go
package query

import (
	"context"
	"fmt"

	"spa-registry/internal/models"
	"spa-registry/internal/store"
)

const orderNewestFirst = " ORDER BY created_at DESC, id DESC"

// Lister pages through spas and therapists.
type Lister struct {
	db     store.DBTX
	limits Limits
}

func NewLister(db store.DBTX, limits Limits) *Lister {
	return &Lister{db: db, limits: limits}
}

// Normalize applies the lister's page-size limits.
func (l *Lister) Normalize(page, limit int) Pagination {
	return NewPagination(page, limit, l.limits)
}

func spaPredicate(f FilterSpec) *predicate {
	p := &predicate{}
	if f.Status != "" {
		p.add("status = %s", f.Status)
	}
	if f.VerificationStatus != "" {
		p.add("status = %s", f.VerificationStatus)
	}
	if f.PaymentStatus != "" {
		p.add("payment_status = %s", f.PaymentStatus)
	}
	if f.District != "" {
		p.add("district = %s", f.District)
	}
	p.search(f.Search, "name", "email", "reference_number")
	return p
}

func therapistPredicate(f FilterSpec) *predicate {
	p := &predicate{}
	if f.Status != "" {
		p.add("status = %s", f.Status)
	}
	if f.VerificationStatus != "" {
		p.add(`(SELECT r.request_status FROM therapist_requests r
			WHERE r.therapist_id = therapists.id
			ORDER BY r.created_at DESC, r.id DESC LIMIT 1) = %s`, f.VerificationStatus)
	}
	if f.District != "" {
		p.add("spa_id IN (SELECT id FROM spas WHERE district = %s)", f.District)
	}
	if f.SpaID != nil {
		p.add("spa_id = %s", *f.SpaID)
	}
	p.search(f.Search, "first_name", "last_name", "email", "reference_number")
	return p
}

// ListSpas returns one page of spas matching f, newest first. The total counts
// every spa matching f.
func (l *Lister) ListSpas(ctx context.Context, f FilterSpec, page, limit int) (*Page[models.Spa], error) {
	pg := l.Normalize(page, limit)
	pred := spaPredicate(f)

	total, err := l.count(ctx, "spas", pred)
	if err != nil {
		return nil, err
	}

	rows, err := l.db.QueryContext(ctx,
		"SELECT "+store.SpaSelectList+" FROM spas"+pred.where()+orderNewestFirst+pageClause(pred),
		pageArgs(pred, pg)...)
	if err != nil {
		return nil, fmt.Errorf("list spas: %w", err)
	}
	defer rows.Close()

	items := []models.Spa{}
	for rows.Next() {
		s, err := store.ScanSpa(rows)
		if err != nil {
			return nil, fmt.Errorf("scan spa: %w", err)
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list spas: %w", err)
	}
	return newPage(items, total, pg), nil
}

// ListTherapists returns one page of therapists matching f, newest first.
func (l *Lister) ListTherapists(ctx context.Context, f FilterSpec, page, limit int) (*Page[models.Therapist], error) {
	pg := l.Normalize(page, limit)
	pred := therapistPredicate(f)

	total, err := l.count(ctx, "therapists", pred)
	if err != nil {
		return nil, err
	}

	rows, err := l.db.QueryContext(ctx,
		"SELECT "+store.TherapistSelectList+" FROM therapists"+pred.where()+orderNewestFirst+pageClause(pred),
		pageArgs(pred, pg)...)
	if err != nil {
		return nil, fmt.Errorf("list therapists: %w", err)
	}
	defer rows.Close()

	items := []models.Therapist{}
	for rows.Next() {
		t, err := store.ScanTherapist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan therapist: %w", err)
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list therapists: %w", err)
	}
	return newPage(items, total, pg), nil
}

func (l *Lister) count(ctx context.Context, table string, pred *predicate) (int, error) {
	var total int
	if err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+pred.where(), pred.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return total, nil
}

func pageClause(pred *predicate) string {
	n := len(pred.args)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2)
}

func pageArgs(pred *predicate, pg Pagination) []interface{} {
	args := make([]interface{}, 0, len(pred.args)+2)
	args = append(args, pred.args...)
	return append(args, pg.Limit, pg.Offset())
}

func newPage[T any](items []T, total int, pg Pagination) *Page[T] {
	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       pg.Page,
		Limit:      pg.Limit,
		TotalPages: TotalPages(total, pg.Limit),
	}
}
