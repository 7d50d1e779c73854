package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/clients/sheetsclient"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/engine"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/db"
)

const emptyCell = "—"

// printTable writes the rendered schedule as fixed width columns
func printTable(w io.Writer, table *sheetsclient.PublishedSchedule) {
	widths := make([]int, len(table.Columns))
	for i, col := range table.Columns {
		widths[i] = len(col)
	}
	for _, row := range table.Rows {
		for i, cell := range row.Cells {
			widths[i] = max(widths[i], len(cell), len(emptyCell))
		}
	}

	fmt.Fprintf(w, "%-16s", "Date")
	for i, col := range table.Columns {
		fmt.Fprintf(w, "  %-*s", widths[i], col)
	}
	fmt.Fprintln(w)

	fmt.Fprint(w, strings.Repeat("-", 16))
	for _, width := range widths {
		fmt.Fprint(w, "  "+strings.Repeat("-", width))
	}
	fmt.Fprintln(w)

	for _, row := range table.Rows {
		fmt.Fprintf(w, "%-16s", row.Date)
		for i, cell := range row.Cells {
			if cell == "" {
				cell = emptyCell
			}
			fmt.Fprintf(w, "  %-*s", widths[i], cell)
		}
		fmt.Fprintln(w)
	}
}

// printSummary writes the per-staff totals ordered by staff ID
func printSummary(w io.Writer, sm *engine.ScheduleMonth) {
	ids := make([]string, 0, len(sm.Summary))
	for id := range sm.Summary {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintf(w, "%-20s  %8s  %8s  %8s  %6s  %8s\n", "Staff", "Target", "Hours", "Overtime", "Wkends", "Extra")
	fmt.Fprintln(w, "--------------------  --------  --------  --------  ------  --------")
	for _, id := range ids {
		s := sm.Summary[id]
		fmt.Fprintf(w, "%-20s  %8.1f  %8.1f  %8.1f  %6d  %8d\n",
			id, s.TargetHours, s.TotalHours, s.OvertimeHours, s.WeekendCount, s.ExtraDays)
	}
}

// printGaps lists the unfilled slots with the reasons candidates were excluded
func printGaps(w io.Writer, gaps []engine.Gap) {
	if len(gaps) == 0 {
		fmt.Fprintln(w, "No gaps, every slot is filled.")
		return
	}
	fmt.Fprintf(w, "%d unfilled slots:\n", len(gaps))
	for _, g := range gaps {
		reasons := ""
		if len(g.Reasons) > 0 {
			reasons = " (" + strings.Join(g.Reasons, ", ") + ")"
		}
		fmt.Fprintf(w, "  ✗ %s %-12s %s%s\n", g.Date, g.ShiftKey, g.Priority, reasons)
	}
}

func printConsentRequests(w io.Writer, requests []db.ConsentRequest) {
	if len(requests) == 0 {
		fmt.Fprintln(w, "No consent requests.")
		return
	}
	fmt.Fprintf(w, "%-36s  %-12s  %-10s  %-12s  %-10s  %s\n", "ID", "Staff", "Date", "Shift", "Status", "Decision")
	for _, r := range requests {
		decision := r.Decision
		if decision == "" {
			decision = emptyCell
		}
		fmt.Fprintf(w, "%-36s  %-12s  %-10s  %-12s  %-10s  %s\n", r.ID, r.StaffID, r.Date, r.ShiftKey, r.Status, decision)
	}
}
