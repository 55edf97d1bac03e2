// Package services orchestrates the pipeline components behind the
// HTTP transport: querying the series store, shaping features, running
// the predictor and explainer, and computing category outlooks.
//
// Services hold no per-request state. The model context is loaded once
// at startup and shared read-only.
package services
