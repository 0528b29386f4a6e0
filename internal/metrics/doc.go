// Package metrics evaluates observers over the saved states of a solution.
// Observers run after the solve so they never count toward measured
// runtime.
package metrics
