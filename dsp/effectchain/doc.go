// Package effectchain runs unit.Unit instances in series.
//
// A chain is described by a Config (a list of nodes with an ID, a unit
// type, a bypass flag and named parameters) and loaded from Go values,
// JSON or YAML. Reloading keeps the unit of every node whose ID and type
// are unchanged, so a running chain can be edited without resetting its
// delay lines and filters.
package effectchain
