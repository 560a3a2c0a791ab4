package model

import "time"

// User represents a member profile in the system.
type User struct {
	// ID unique identifier of the user.
	ID string `json:"id"`

	// Name is the user display name.
	Name string `json:"name"`

	// Description is a free-text bio.
	Description string `json:"description"`

	// Coordinates is the [longitude, latitude] pair of the user location.
	Coordinates []float64 `json:"coordinates"`

	// Languages the user speaks.
	Languages []string `json:"languages"`

	// Topics the user is interested in.
	Topics []string `json:"topics"`

	// Email is the user email. Unique across the system.
	Email string `json:"email"`

	// Phone is the user phone number.
	Phone string `json:"phone"`

	// Organization the user belongs to.
	Organization string `json:"organization"`

	// Status is the user professional status.
	Status string `json:"status"`

	// Industry the user works in.
	Industry string `json:"industry"`

	// Age of the user.
	Age int `json:"age"`

	// Gender of the user.
	Gender string `json:"gender"`

	// Discoverable permits the user to appear in other users' network listing.
	Discoverable bool `json:"discoverable"`

	// PasswordHash contains the password hash. Never serialized to clients.
	PasswordHash string `json:"-"`

	// CreatedAt is the time at which the user signed up.
	CreatedAt time.Time `json:"created_at"`
}

// Event represents an event published by a user.
type Event struct {
	// ID unique identifier of the event.
	ID string `json:"id"`

	// OwnerID is the id of the user that created the event.
	OwnerID string `json:"uid"`

	// Name of the event.
	Name string `json:"name"`

	// Description of the event.
	Description string `json:"description"`

	// Language the event is held in.
	Language string `json:"language"`

	// Topics covered by the event.
	Topics []string `json:"topics"`

	// Fields is the ordered list of attendee-data field names the organizer
	// requires from registrants (e.g. ["Name", "Phone"]). Fixed at creation.
	Fields []string `json:"fields"`

	// Email is the organizer contact email.
	Email string `json:"email"`

	// Phone is the organizer contact phone.
	Phone string `json:"phone"`

	// Status of the event.
	Status string `json:"status"`

	// Industry the event targets.
	Industry string `json:"industry"`

	// MinAge is the minimum attendee age.
	MinAge int `json:"minAge"`

	// MaxAge is the maximum attendee age.
	MaxAge int `json:"maxAge"`

	// StartDate is the event start date as provided by the organizer.
	StartDate string `json:"startDate"`

	// EndDate is the event end date as provided by the organizer.
	EndDate string `json:"endDate"`

	// Coordinates is the [longitude, latitude] pair of the event location.
	Coordinates []float64 `json:"coordinates"`

	// Venue hosting the event.
	Venue string `json:"venue"`

	// Location is the human-readable event location.
	Location string `json:"location"`

	// URL is the event external page.
	URL string `json:"url"`

	// Genders the event is open to.
	Genders []string `json:"genders"`

	// CreatedAt is the server-assigned creation time.
	CreatedAt time.Time `json:"created_at"`
}

// Attendee is a per-registration record whose data keys are determined by the
// owning event's field schema: lowercase(field) -> submitted value.
type Attendee struct {
	// ID unique identifier of the record.
	ID string `json:"id"`

	// EventID references the owning event.
	EventID string `json:"eid"`

	// UserID references the registrant. Empty for anonymous registrations.
	UserID string `json:"uid,omitempty"`

	// Data maps lowercase schema field names to the submitted values.
	Data map[string]any `json:"data"`
}

// Identity is the resolved caller identity, threaded explicitly into every
// operation. A nil *Identity means the caller is anonymous.
type Identity struct {
	// UserID is the id of the authenticated user.
	UserID string

	// Email is the email of the authenticated user.
	Email string
}

// MailKind discriminates outbound mail events.
type MailKind string

const (
	// MailKindWelcome is sent after a successful signup.
	MailKindWelcome MailKind = "welcome"

	// MailKindPasswordReset is sent on a forgot-password request.
	MailKindPasswordReset MailKind = "password-reset"
)

// MailEvent is an outbound mail request published by the server and consumed
// by the delivery worker.
type MailEvent struct {
	// ID is the event id.
	ID string `json:"id"`

	// Kind selects the mail template.
	Kind MailKind `json:"kind"`

	// To is the recipient email address.
	To string `json:"to"`

	// Name is the recipient display name.
	Name string `json:"name"`

	// CreatedAt is the time the event was emitted.
	CreatedAt time.Time `json:"created_at"`
}

// Mail is a composed message ready for delivery.
type Mail struct {
	// To is the recipient address.
	To string

	// Subject line.
	Subject string

	// Text is the plain-text body.
	Text string

	// HTML is the HTML body. Optional.
	HTML string
}
