package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/san-kum/argonbench/internal/bench"
	"github.com/san-kum/argonbench/internal/experiment"
)

// WriteTable prints one line per row in table order.
func WriteTable(w io.Writer, table *bench.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INTEGRATOR\tKIND\tSTEP CONTROL\tRUNTIME\tALLOC\tSTEPS\tREJECTED\tEVALS\tENERGY ERROR\tTEMP\tCOST/STEP")
	for _, r := range table.Rows() {
		control := fmt.Sprintf("dt=%g", r.Dt)
		if r.Kind == experiment.Adaptive {
			control = fmt.Sprintf("tol=%.0e/%.0e", r.AbsTol, r.RelTol)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%v\t%s\t%d\t%d\t%d\t%.3e\t%.3f\t%.3e\n",
			r.Integrator, r.Kind, control, r.Runtime.Round(10*time.Microsecond), formatBytes(r.AllocBytes),
			r.Accepted, r.Rejected, r.Evaluations, r.EnergyError, r.Temperature, r.NormalizedCost)
	}
	return tw.Flush()
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
