// Package frame implements the feature-shaping pipeline that turns
// long-format macroeconomic observations into a model-ready monthly
// feature matrix.
//
// The pipeline mirrors the transforms the recession classifier was
// trained with, in this order:
//
//  1. Pivot the long frame to wide form (one row per date, one column
//     per series).
//  2. Resample to month-end granularity, keeping the last observation
//     on or before each month end.
//  3. Forward-fill gaps within each column, since many series publish
//     at irregular or lower-than-monthly cadence.
//  4. Convert level series to 12-month percentage change, stored under
//     <series>_YoY with the raw level dropped. The first 12 months of
//     a YoY column are undefined and stay missing.
//  5. Align columns to the classifier's expected feature schema:
//     exact set, exact order, with entirely absent columns
//     zero-filled.
//
// Missing cells are represented as NaN throughout.
package frame
