package output

// Metrics records counters for the core flows. Implementations must be safe for concurrent use.
type Metrics interface {
	Participation(op, result string)
	Reminder(result string)
	Trade(stage string)
	// PendingReminders reports the current reminder queue length.
	PendingReminders(n int)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) Participation(string, string) {}
func (NopMetrics) Reminder(string)              {}
func (NopMetrics) Trade(string)                 {}
func (NopMetrics) PendingReminders(int)         {}
