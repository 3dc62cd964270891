package events

import "time"

type State string

const (
	StatePending   State = "PENDING"
	StatePublished State = "PUBLISHED"
	StateCanceled  State = "CANCELED"
)

func ParseState(value string) (State, bool) {
	switch State(value) {
	case StatePending, StatePublished, StateCanceled:
		return State(value), true
	default:
		return "", false
	}
}

// StateAction is a requested lifecycle transition carried in an update patch.
// Owners may send events to review or cancel them; admins publish or reject.
type StateAction string

const (
	ActionSendToReview StateAction = "SEND_TO_REVIEW"
	ActionCancelReview StateAction = "CANCEL_REVIEW"
	ActionPublish      StateAction = "PUBLISH_EVENT"
	ActionReject       StateAction = "REJECT_EVENT"
)

// Location is a coordinate pair, deduplicated by exact lat/lon match.
type Location struct {
	ID  int64
	Lat float64
	Lon float64
}

type Category struct {
	ID   int64
	Name string
}

type Event struct {
	ID                int64
	Title             string
	Annotation        string
	Description       string
	Category          Category
	InitiatorID       int64
	InitiatorName     string
	Location          Location
	EventDate         time.Time
	Paid              bool
	ParticipantLimit  int
	RequestModeration bool
	State             State
	CreatedOn         time.Time
	PublishedOn       *time.Time
	// ConfirmedRequests counts CONFIRMED participation requests. Whenever
	// ParticipantLimit > 0 it never exceeds the limit.
	ConfirmedRequests int
	// Views is sourced from the stats collaborator on read paths; it is not
	// persisted with the event.
	Views int64
}

// Available reports whether the event can still accept confirmed requests.
func (e *Event) Available() bool {
	return e.ParticipantLimit == 0 || e.ConfirmedRequests < e.ParticipantLimit
}

// Draft carries the fields of a new event.
type Draft struct {
	Title             string
	Annotation        string
	Description       string
	CategoryID        int64
	Lat               float64
	Lon               float64
	EventDate         time.Time
	Paid              bool
	ParticipantLimit  int
	RequestModeration bool
}

// Patch is a partial update: nil fields are left untouched. Blank strings
// for Title, Annotation and Description are ignored rather than applied.
type Patch struct {
	Title             *string
	Annotation        *string
	Description       *string
	CategoryID        *int64
	Lat               *float64
	Lon               *float64
	EventDate         *time.Time
	Paid              *bool
	ParticipantLimit  *int
	RequestModeration *bool
	StateAction       *StateAction
}

type Sort string

const (
	SortEventDate Sort = "EVENT_DATE"
	SortViews     Sort = "VIEWS"
)

// Filters narrows the public event listing. Text matches annotation or
// description case-insensitively.
type Filters struct {
	Text          string
	Categories    []int64
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Sort          Sort
}

// AdminFilters narrows the admin event listing.
type AdminFilters struct {
	Users      []int64
	States     []State
	Categories []int64
	RangeStart *time.Time
	RangeEnd   *time.Time
}

// Page is offset pagination as exposed by the API: skip From items,
// return up to Size.
type Page struct {
	From int
	Size int
}
