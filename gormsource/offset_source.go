package gormsource

import (
	"context"
	"fmt"

	"github.com/Alp4ka/mergepager"
	"gorm.io/gorm"
)

// OffsetSource reads a gorm query with LIMIT/OFFSET pagination. Each row's
// position is an OffsetCursor. Rows inserted or deleted between fetches shift
// the offsets, so prefer KeysetSource wherever the ordering allows it.
type OffsetSource[M any] struct {
	db        *gorm.DB
	sortKey   func(M) string
	orderings Orderings
	count     bool
}

// NewOffsetSource reads db ordered by orderBy. Without orderings the row order
// is whatever the database returns.
func NewOffsetSource[M any](db *gorm.DB, sortKey func(M) string, orderBy ...OrderBy) *OffsetSource[M] {
	return &OffsetSource[M]{
		db:        db,
		sortKey:   sortKey,
		orderings: orderBy,
	}
}

// WithCount makes every fetch also run COUNT(*) over the query.
func (s *OffsetSource[M]) WithCount() *OffsetSource[M] {
	s.count = true
	return s
}

// GetResults - implements mergepager.OneShotSource. Only forward reads are
// supported.
func (s *OffsetSource[M]) GetResults(ctx context.Context, cursor string, forward bool, limit int) (mergepager.OneShotResults[Row[M]], error) {
	if !forward {
		return mergepager.OneShotResults[Row[M]]{}, ErrBackwardUnsupported
	}

	if len(s.orderings) > 0 {
		if err := s.orderings.validate(); err != nil {
			return mergepager.OneShotResults[Row[M]]{}, fmt.Errorf("invalid offset source: %w", err)
		}
	}

	offset, err := DecodeOffsetCursor(cursor)
	if err != nil {
		return mergepager.OneShotResults[Row[M]]{}, fmt.Errorf("%w: %w", ErrInvalidPosition, err)
	}

	query := s.db.WithContext(ctx)
	if len(s.orderings) > 0 {
		query = s.orderings.Apply(query)
	}

	var models []M
	if err = offset.Apply(query).Limit(mergepager.NormalizePageSize(limit)).Find(&models).Error; err != nil {
		return mergepager.OneShotResults[Row[M]]{}, fmt.Errorf("cannot fetch rows: %w", err)
	}

	rows := make([]Row[M], 0, len(models))
	for i, model := range models {
		rows = append(rows, Row[M]{
			Model:    model,
			position: NewOffsetCursor(offset.GetOffset() + i + 1).String(),
		})
	}

	res := mergepager.OneShotResults[Row[M]]{Results: rows}
	if s.count {
		if res.Total, err = countRows[M](ctx, s.db); err != nil {
			return mergepager.OneShotResults[Row[M]]{}, err
		}
	}

	return res, nil
}

// SortKey - implements mergepager.OneShotSource.
func (s *OffsetSource[M]) SortKey(r Row[M]) string {
	return s.sortKey(r.Model)
}

var _ mergepager.OneShotSource[Row[struct{}]] = (*OffsetSource[struct{}])(nil)
