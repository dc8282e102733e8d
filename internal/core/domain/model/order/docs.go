// Package order holds the Order aggregate and its lifecycle.
//
// The lifecycle is a table of transitions keyed by Action (see transition.go).
// Every aggregate method checks the table, mutates the order in memory and
// returns a Change. Persisting the Change is a single conditional update
// guarded by the status and version observed on load, so two actors racing
// for the same order cannot both succeed.
//
// Key business rules:
//   - departure and destination are different logistics points
//   - an order carries at least one nomenclature, each listed once
//   - the driver is cleared whenever the order returns to CREATED
//   - COMPLETED and CANCELLED are terminal
package order
