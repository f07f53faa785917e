package lookup

// ProgressFunc receives one event after each provider attempt completes, in
// call order: current is the 1-based number of attempts made so far, total
// the number of providers that will be tried, and label the provider's ID.
// Events carry no wall-clock guarantee.
//
// The orchestrator calls the sink defensively; a sink that panics cannot
// break a lookup.
type ProgressFunc func(current, total int, label string)

// notify invokes the sink, swallowing panics. Progress is fire-and-forget
// UI feedback and must never affect the cascade.
func (fn ProgressFunc) notify(current, total int, label string) {
	if fn == nil {
		return
	}
	defer func() { _ = recover() }()
	fn(current, total, label)
}
