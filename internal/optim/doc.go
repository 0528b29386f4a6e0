// Package optim searches step sizes for matched accuracy: the largest step
// at which each integrator still keeps the energy error within a target.
package optim
