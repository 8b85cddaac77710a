package display

// Predefined table schemas - single source of truth for each command's
// column structure.

// VersionsColumns names the columns of the 'esky versions' table:
// VERSION, PLATFORM, SOURCE, COST.
var VersionsColumns = []struct {
	Name     string
	MinWidth int
}{
	{"VERSION", 9},
	{"PLATFORM", 10},
	{"SOURCE", 6},
	{"COST", 6},
}

// NewVersionsTable creates a table for the 'versions' command output.
func NewVersionsTable() *Table {
	t := NewTable()
	for _, c := range VersionsColumns {
		t.AddColumnWithMinWidth(c.Name, c.MinWidth)
	}
	return t
}

// PlanColumns names the columns of the 'esky plan' path table: STEP,
// FROM, TO, URL, COST.
var PlanColumns = []struct {
	Name     string
	MinWidth int
}{
	{"STEP", 4},
	{"FROM", 9},
	{"TO", 9},
	{"URL", 6},
	{"COST", 6},
}

// NewPlanTable creates a table for the 'plan' command output.
func NewPlanTable() *Table {
	t := NewTable()
	for _, c := range PlanColumns {
		t.AddColumnWithMinWidth(c.Name, c.MinWidth)
	}
	return t
}

// CleanupColumns names the columns of the 'esky cleanup' report table:
// FILE, ACTION, REASON.
var CleanupColumns = []struct {
	Name     string
	MinWidth int
}{
	{"FILE", 4},
	{"ACTION", 6},
	{"REASON", 6},
}

// NewCleanupTable creates a table for the 'cleanup' command output.
func NewCleanupTable() *Table {
	t := NewTable()
	for _, c := range CleanupColumns {
		t.AddColumnWithMinWidth(c.Name, c.MinWidth)
	}
	return t
}
