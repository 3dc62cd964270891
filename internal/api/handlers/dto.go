package handlers

import (
	"time"

	"github.com/gatherhub/server/internal/domain/compilations"
	"github.com/gatherhub/server/internal/domain/events"
	"github.com/gatherhub/server/internal/domain/requests"
	"github.com/gatherhub/server/internal/domain/users"
)

// apiTime marshals timestamps in the "2006-01-02 15:04:05" wire format.
type apiTime struct {
	time.Time
}

func (t apiTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(timeLayout) + `"`), nil
}

func (t *apiTime) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "null" {
		return nil
	}
	if len(raw) >= 2 && raw[0] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	parsed, err := time.Parse(timeLayout, raw)
	if err != nil {
		return err
	}
	t.Time = parsed.UTC()
	return nil
}

type locationDTO struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

type categoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type userShortDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type userDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type eventShortDTO struct {
	ID                int64        `json:"id"`
	Title             string       `json:"title"`
	Annotation        string       `json:"annotation"`
	Category          categoryDTO  `json:"category"`
	ConfirmedRequests int          `json:"confirmedRequests"`
	EventDate         apiTime      `json:"eventDate"`
	Initiator         userShortDTO `json:"initiator"`
	Paid              bool         `json:"paid"`
	Views             int64        `json:"views"`
}

type eventFullDTO struct {
	ID                int64        `json:"id"`
	Title             string       `json:"title"`
	Annotation        string       `json:"annotation"`
	Description       string       `json:"description"`
	Category          categoryDTO  `json:"category"`
	ConfirmedRequests int          `json:"confirmedRequests"`
	CreatedOn         apiTime      `json:"createdOn"`
	EventDate         apiTime      `json:"eventDate"`
	Initiator         userShortDTO `json:"initiator"`
	Location          locationDTO  `json:"location"`
	Paid              bool         `json:"paid"`
	ParticipantLimit  int          `json:"participantLimit"`
	PublishedOn       *apiTime     `json:"publishedOn,omitempty"`
	RequestModeration bool         `json:"requestModeration"`
	State             string       `json:"state"`
	Views             int64        `json:"views"`
}

type requestDTO struct {
	ID        int64   `json:"id"`
	Event     int64   `json:"event"`
	Requester int64   `json:"requester"`
	Created   apiTime `json:"created"`
	Status    string  `json:"status"`
}

type compilationDTO struct {
	ID     int64           `json:"id"`
	Title  string          `json:"title"`
	Pinned bool            `json:"pinned"`
	Events []eventShortDTO `json:"events"`
}

type viewStatDTO struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

func toEventShort(event events.Event) eventShortDTO {
	return eventShortDTO{
		ID:                event.ID,
		Title:             event.Title,
		Annotation:        event.Annotation,
		Category:          categoryDTO{ID: event.Category.ID, Name: event.Category.Name},
		ConfirmedRequests: event.ConfirmedRequests,
		EventDate:         apiTime{event.EventDate},
		Initiator:         userShortDTO{ID: event.InitiatorID, Name: event.InitiatorName},
		Paid:              event.Paid,
		Views:             event.Views,
	}
}

func toEventShortList(items []events.Event) []eventShortDTO {
	result := make([]eventShortDTO, 0, len(items))
	for _, item := range items {
		result = append(result, toEventShort(item))
	}
	return result
}

func toEventFull(event *events.Event) eventFullDTO {
	dto := eventFullDTO{
		ID:                event.ID,
		Title:             event.Title,
		Annotation:        event.Annotation,
		Description:       event.Description,
		Category:          categoryDTO{ID: event.Category.ID, Name: event.Category.Name},
		ConfirmedRequests: event.ConfirmedRequests,
		CreatedOn:         apiTime{event.CreatedOn},
		EventDate:         apiTime{event.EventDate},
		Initiator:         userShortDTO{ID: event.InitiatorID, Name: event.InitiatorName},
		Location:          locationDTO{Lat: event.Location.Lat, Lon: event.Location.Lon},
		Paid:              event.Paid,
		ParticipantLimit:  event.ParticipantLimit,
		RequestModeration: event.RequestModeration,
		State:             string(event.State),
		Views:             event.Views,
	}
	if event.PublishedOn != nil {
		dto.PublishedOn = &apiTime{*event.PublishedOn}
	}
	return dto
}

func toEventFullList(items []events.Event) []eventFullDTO {
	result := make([]eventFullDTO, 0, len(items))
	for i := range items {
		result = append(result, toEventFull(&items[i]))
	}
	return result
}

func toRequestDTO(request requests.Request) requestDTO {
	return requestDTO{
		ID:        request.ID,
		Event:     request.EventID,
		Requester: request.RequesterID,
		Created:   apiTime{request.Created},
		Status:    string(request.Status),
	}
}

func toRequestList(items []requests.Request) []requestDTO {
	result := make([]requestDTO, 0, len(items))
	for _, item := range items {
		result = append(result, toRequestDTO(item))
	}
	return result
}

func toUserDTO(user *users.User) userDTO {
	return userDTO{ID: user.ID, Name: user.Name, Email: user.Email}
}

func toCompilationDTO(compilation *compilations.Compilation) compilationDTO {
	return compilationDTO{
		ID:     compilation.ID,
		Title:  compilation.Title,
		Pinned: compilation.Pinned,
		Events: toEventShortList(compilation.Events),
	}
}

// newEventRequest is the create-event body.
type newEventRequest struct {
	Title             string      `json:"title" validate:"required,min=3,max=120"`
	Annotation        string      `json:"annotation" validate:"required,min=20,max=2000"`
	Description       string      `json:"description" validate:"required,min=20,max=7000"`
	Category          int64       `json:"category" validate:"required,gt=0"`
	Location          locationDTO `json:"location" validate:"required"`
	EventDate         apiTime     `json:"eventDate" validate:"required"`
	Paid              bool        `json:"paid"`
	ParticipantLimit  int         `json:"participantLimit" validate:"min=0"`
	RequestModeration *bool       `json:"requestModeration"`
}

func (b newEventRequest) toDraft() events.Draft {
	moderation := true
	if b.RequestModeration != nil {
		moderation = *b.RequestModeration
	}
	return events.Draft{
		Title:             b.Title,
		Annotation:        b.Annotation,
		Description:       b.Description,
		CategoryID:        b.Category,
		Lat:               b.Location.Lat,
		Lon:               b.Location.Lon,
		EventDate:         b.EventDate.Time,
		Paid:              b.Paid,
		ParticipantLimit:  b.ParticipantLimit,
		RequestModeration: moderation,
	}
}

// updateEventRequest is the partial-update body shared by owner and admin
// endpoints; only the accepted state actions differ.
type updateEventRequest struct {
	Title             *string      `json:"title" validate:"omitempty,min=3,max=120"`
	Annotation        *string      `json:"annotation" validate:"omitempty,max=2000"`
	Description       *string      `json:"description" validate:"omitempty,max=7000"`
	Category          *int64       `json:"category" validate:"omitempty,gt=0"`
	Location          *locationDTO `json:"location"`
	EventDate         *apiTime     `json:"eventDate"`
	Paid              *bool        `json:"paid"`
	ParticipantLimit  *int         `json:"participantLimit" validate:"omitempty,min=0"`
	RequestModeration *bool        `json:"requestModeration"`
	StateAction       *string      `json:"stateAction" validate:"omitempty,oneof=SEND_TO_REVIEW CANCEL_REVIEW PUBLISH_EVENT REJECT_EVENT"`
}

func (b updateEventRequest) toPatch() events.Patch {
	patch := events.Patch{
		Title:             b.Title,
		Annotation:        b.Annotation,
		Description:       b.Description,
		CategoryID:        b.Category,
		Paid:              b.Paid,
		ParticipantLimit:  b.ParticipantLimit,
		RequestModeration: b.RequestModeration,
	}
	if b.Location != nil {
		patch.Lat = &b.Location.Lat
		patch.Lon = &b.Location.Lon
	}
	if b.EventDate != nil {
		patch.EventDate = &b.EventDate.Time
	}
	if b.StateAction != nil {
		action := events.StateAction(*b.StateAction)
		patch.StateAction = &action
	}
	return patch
}

type newUserRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=250"`
	Email string `json:"email" validate:"required,email,min=6,max=254"`
}

type newCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

type newCompilationRequest struct {
	Title  string  `json:"title" validate:"required,min=1,max=50"`
	Pinned bool    `json:"pinned"`
	Events []int64 `json:"events"`
}

type updateCompilationRequest struct {
	Title  *string  `json:"title" validate:"omitempty,min=1,max=50"`
	Pinned *bool    `json:"pinned"`
	Events *[]int64 `json:"events"`
}

// moderationRequest selects pending requests and the status to drive them to.
type moderationRequest struct {
	RequestIDs []int64 `json:"requestIds" validate:"required,min=1"`
	Status     string  `json:"status" validate:"required,oneof=CONFIRMED REJECTED"`
}

type moderationResultDTO struct {
	ConfirmedRequests []requestDTO `json:"confirmedRequests"`
	RejectedRequests  []requestDTO `json:"rejectedRequests"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}
