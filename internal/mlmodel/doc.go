// Package mlmodel loads the fitted recession classifier and runs
// inference against shaped feature rows.
//
// The artifact is a JSON-serialized ensemble of binary decision trees
// exported by the offline training job. Each node carries the fraction
// of positive-class (recession) training samples that reached it, so
// the ensemble supports both probability prediction and additive
// per-feature attribution without re-touching training data.
//
// The model is loaded exactly once at process start into a Context and
// passed by reference into every call; it is never mutated after load
// and is safe to share across concurrent requests.
package mlmodel
