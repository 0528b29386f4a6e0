// Package analysis derives summary figures from a benchmark table.
//
//   - [Orders]: observed convergence order per integrator from a log-log
//     fit of energy error against step size (or tolerance)
//   - [CheckMonotonic]: refinements whose energy error got worse
//   - [MeanCosts]: average per-step cost per integrator
//
// A fixed-step integrator of order p should show an energy error slope of
// about p against dt once dt is in the asymptotic range:
//
//	for _, c := range analysis.Orders(table) {
//	    fmt.Printf("%s: %.2f\n", c.Integrator, c.Slope)
//	}
package analysis
