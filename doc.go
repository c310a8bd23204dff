// Package mergepager merges several independently sorted, cursor-paginated
// sources into one ordered stream addressed by a single opaque cursor.
//
// Overview
//
// Every source returns items that know their own position (Positioned) and
// orders them by a sort key of its choosing. A Comparator over those keys
// defines the global order; ties go to the source listed first.
//
// Three pagers are provided:
//   - OneShotPage: stateless. Fetches one page per source, merges once,
//     truncates. Resume with the cursor of the last returned result.
//   - QueuePager: a k-way merge that persists between calls, reading each
//     source through an Adapter one batch at a time.
//   - StatefulPager: buffers surplus items per source so that every page but
//     the last one has exactly the requested size.
//
// Key concepts
//   - Cursor: EncodeCursor/DecodeCursor pack one position per source. A
//     malformed cursor restarts every source rather than failing.
//   - Source: a OneShotSource (cursor, direction, limit) or a StreamingSource
//     (cursor, has-more flag), tagged once with OneShot or Streaming.
//   - Total: the sum of all source totals. As soon as one source cannot
//     report a total, the pager stops reporting one for good.
//
// See the gormsource package for SQL-backed sources.
package mergepager
