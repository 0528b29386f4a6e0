// Package report renders benchmark tables: log-log charts on the terminal
// and as SVG, the energy error history, and a plain text table.
//
// Charts group rows by integrator in order of first appearance, so the
// legend follows the order integrators were given to the sweep. Points with
// a non-positive coordinate cannot be placed on a log axis and are skipped.
package report
