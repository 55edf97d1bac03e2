// Package explain decomposes a single prediction into additive
// per-feature attributions and selects the strongest contributors.
//
// The attribution engine walks each tree's decision path and credits
// every split feature with the change in positive-class fraction it
// caused, averaged across the ensemble. Attributions therefore sum to
// the predicted probability minus the ensemble baseline.
//
// Engines may report their output in several layouts (a per-class
// list, a sample-by-feature-by-class cube, or a flat matrix for the
// binary-symmetric case). RawAttribution models them as a tagged union
// with one normalization path per shape, all collapsing to a single
// positive-class vector over features.
//
// Explanation failure never blocks a prediction: the explainer
// degrades to an empty contributor list and logs the cause.
package explain
