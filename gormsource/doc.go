// Package gormsource provides mergepager.OneShotSource implementations on top
// of GORM queries.
//
// Overview
//
// Two strategies are available:
//   - KeysetSource: keyset pagination. Every row's position holds the values
//     of the ordering columns, and the next page is selected with comparison
//     operators against them. Requires a deterministic ordering that ends
//     with a unique column.
//   - OffsetSource: LIMIT/OFFSET pagination for queries where keyset
//     pagination is not possible. Forward only.
//
// Rows are returned as Row values carrying their position, and the sort key
// used by the merge is supplied by the caller.
package gormsource
