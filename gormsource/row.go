package gormsource

import (
	"github.com/Alp4ka/mergepager"
	"github.com/samber/lo"
)

// Row is a model loaded by a source together with its position in that
// source.
type Row[M any] struct {
	Model    M
	position string
}

// Position - implements mergepager.Positioned.
func (r Row[M]) Position() string {
	return r.position
}

// Models strips positions from a page of rows.
func Models[M any](page mergepager.Page[Row[M]]) []M {
	return lo.Map(page.Items(), func(r Row[M], _ int) M {
		return r.Model
	})
}

var _ mergepager.Positioned = Row[struct{}]{}
