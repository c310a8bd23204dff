package gormsource

import (
	"context"
	"fmt"

	"github.com/Alp4ka/mergepager"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// KeysetSource reads a gorm query with keyset pagination. Each row's position
// is a KeysetCursor over the source's orderings.
type KeysetSource[M any] struct {
	db        *gorm.DB
	sortKey   func(M) string
	getters   Getters[M]
	orderings Orderings
	count     bool
}

// NewKeysetSource reads db, which may carry filters of its own, ordered by
// orderBy. getters must cover every ordering column. sortKey gives the key the
// merge compares rows by and has to agree with the ordering.
func NewKeysetSource[M any](db *gorm.DB, sortKey func(M) string, getters Getters[M], orderBy ...OrderBy) *KeysetSource[M] {
	return &KeysetSource[M]{
		db:        db,
		sortKey:   sortKey,
		getters:   getters,
		orderings: orderBy,
	}
}

// WithCount makes every fetch also run COUNT(*) over the query and report it
// as the source total.
func (s *KeysetSource[M]) WithCount() *KeysetSource[M] {
	s.count = true
	return s
}

// GetResults - implements mergepager.OneShotSource. With forward=false the
// rows before cursor are returned, nearest first.
func (s *KeysetSource[M]) GetResults(ctx context.Context, cursor string, forward bool, limit int) (mergepager.OneShotResults[Row[M]], error) {
	if err := s.orderings.validate(); err != nil {
		return mergepager.OneShotResults[Row[M]]{}, fmt.Errorf("invalid keyset source: %w", err)
	}

	keyset, err := DecodeKeysetCursor(cursor)
	if err != nil {
		return mergepager.OneShotResults[Row[M]]{}, fmt.Errorf("%w: %w", ErrInvalidPosition, err)
	}
	if err = keyset.validate(s.orderings); err != nil {
		return mergepager.OneShotResults[Row[M]]{}, fmt.Errorf("%w: %w", ErrInvalidPosition, err)
	}

	orderings := s.orderings
	if !forward {
		orderings = orderings.Inverse()
		keyset = keyset.Inverse()
	}

	var models []M
	query := orderings.Apply(keyset.Apply(s.db.WithContext(ctx)))
	if err = query.Limit(mergepager.NormalizePageSize(limit)).Find(&models).Error; err != nil {
		return mergepager.OneShotResults[Row[M]]{}, fmt.Errorf("cannot fetch rows: %w", err)
	}

	rows := make([]Row[M], 0, len(models))
	for _, model := range models {
		// Positions always point forward; backward reads invert them on the way in.
		position, err := keysetCursorFor(model, s.orderings, s.getters)
		if err != nil {
			return mergepager.OneShotResults[Row[M]]{}, err
		}

		rows = append(rows, Row[M]{Model: model, position: position.String()})
	}

	res := mergepager.OneShotResults[Row[M]]{Results: rows}
	if s.count {
		total, err := countRows[M](ctx, s.db)
		if err != nil {
			return mergepager.OneShotResults[Row[M]]{}, err
		}
		res.Total = total
	}

	return res, nil
}

// SortKey - implements mergepager.OneShotSource.
func (s *KeysetSource[M]) SortKey(r Row[M]) string {
	return s.sortKey(r.Model)
}

func countRows[M any](ctx context.Context, db *gorm.DB) (*int, error) {
	var total int64
	if err := db.WithContext(ctx).Model(new(M)).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("cannot count rows: %w", err)
	}

	return lo.ToPtr(int(total)), nil
}

var _ mergepager.OneShotSource[Row[struct{}]] = (*KeysetSource[struct{}])(nil)
