package application

import "expvar"

// Counters published under /api/debug/vars.
var (
	metrics        = expvar.NewMap("studentmanager")
	signIns        = new(expvar.Int)
	signInFailures = new(expvar.Int)
	linkedCreates  = new(expvar.Int)
	cascadeDeletes = new(expvar.Int)
	txConflicts    = new(expvar.Int)
	notifyFailures = new(expvar.Int)
)

func init() {
	metrics.Set("sign_ins", signIns)
	metrics.Set("sign_in_failures", signInFailures)
	metrics.Set("linked_creates", linkedCreates)
	metrics.Set("cascade_deletes", cascadeDeletes)
	metrics.Set("tx_conflicts", txConflicts)
	metrics.Set("notify_failures", notifyFailures)
}
