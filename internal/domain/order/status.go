package order

// Status is the order lifecycle state.
type Status string

const (
	// StatusPending is the initial state of the payment-gated flow: the order
	// exists but payment has not been confirmed with the provider.
	StatusPending Status = "pending"
	// StatusReceived is the initial state of the direct-placement flow, and
	// the state a pending order reaches once payment is confirmed.
	StatusReceived Status = "received"
	// StatusPreparing, StatusDelivered, StatusCompleted are advanced manually
	// by the back office.
	StatusPreparing Status = "preparing"
	StatusDelivered Status = "delivered"
	StatusCompleted Status = "completed"
	// StatusCancelled is terminal and reachable from any pre-terminal state.
	StatusCancelled Status = "cancelled"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusReceived: true, StatusCancelled: true},
	StatusReceived:  {StatusPreparing: true, StatusCancelled: true},
	StatusPreparing: {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered: {StatusCompleted: true, StatusCancelled: true},
	StatusCompleted: {},
	StatusCancelled: {},
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

// Terminal reports whether no further transitions are possible from s.
func (s Status) Terminal() bool {
	return len(validNext[s]) == 0
}

// CanTransition reports whether from -> to is a forward edge of the state
// machine.
func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// ValidPredecessors returns the states from which to is reachable in one
// step. Used by the repository to express status updates as conditional
// writes.
func ValidPredecessors(to Status) []Status {
	var from []Status
	for s, next := range validNext {
		if next[to] {
			from = append(from, s)
		}
	}
	return from
}

// StatusInfo is the fixed presentation mapping for a status.
type StatusInfo struct {
	Label string
	Tag   string
}

// StatusTable maps each status to its display label and styling tag.
var StatusTable = map[Status]StatusInfo{
	StatusPending:   {Label: "Pending Payment", Tag: "warning"},
	StatusReceived:  {Label: "Received", Tag: "info"},
	StatusPreparing: {Label: "Preparing", Tag: "info"},
	StatusDelivered: {Label: "Delivered", Tag: "success"},
	StatusCompleted: {Label: "Completed", Tag: "success"},
	StatusCancelled: {Label: "Cancelled", Tag: "danger"},
}
