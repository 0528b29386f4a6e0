// Package bench is the benchmark core: it times solves of the argon
// problem, sweeps integrators over step sizes and tolerances, and
// normalizes per-step cost against a baseline integrator.
//
// All runs are sequential. Memory is collected before each batch so
// allocation and timing figures are comparable between configurations.
package bench
