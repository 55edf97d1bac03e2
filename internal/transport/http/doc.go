// Package http exposes the dashboard-facing REST API: category
// outlooks, the live recession prediction with its contributors, the
// precomputed prediction history, and per-series drill-down data.
package http
