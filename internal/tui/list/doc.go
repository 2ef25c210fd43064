// Package listview provides the windowed (virtualized) list the dashboard
// uses to display result sets of any size.
//
// Only rows intersecting the visible window, plus a small overscan margin,
// are materialized per frame; render cost is O(window height) regardless of
// item count. The emitted view holds exactly the window rows, never the
// overscan. Rows have a fixed height, the window height is capped at a
// configurable maximum, and every row carries a stable identity key derived
// from the record itself (with a positional fallback) so scrolling and data
// updates never cause identity churn.
package listview
