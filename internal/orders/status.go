package orders

type Status string

const (
	StatusPending         Status = "PENDING"
	StatusConfirmed       Status = "CONFIRMED"
	StatusShipped         Status = "SHIPPED"
	StatusDelivered       Status = "DELIVERED"
	StatusCancelled       Status = "CANCELLED"
	StatusReturnRequested Status = "RETURN_REQUESTED"
	StatusReturned        Status = "RETURNED"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:         {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed:       {StatusShipped: true, StatusCancelled: true},
	StatusShipped:         {StatusDelivered: true},
	StatusDelivered:       {StatusReturnRequested: true},
	StatusReturnRequested: {StatusReturned: true, StatusDelivered: true},
	StatusReturned:        {},
	StatusCancelled:       {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func Valid(s Status) bool {
	_, ok := validNext[s]
	return ok
}
