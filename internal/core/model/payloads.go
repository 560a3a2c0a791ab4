package model

// SignupArgs contain the arguments of the Signup method. Payload carries the
// raw request body so that presence of each required field can be checked.
type SignupArgs struct {
	// Payload is the decoded signup request body.
	Payload map[string]any
}

// SignupResponse contains the response of the Signup method.
type SignupResponse struct {
	// User is the created user. PasswordHash is cleared.
	User User
}

// AuthenticateArgs contain the arguments of the Authenticate method.
type AuthenticateArgs struct {
	// Email is the login email.
	Email string

	// Password is the plain-text password to verify.
	Password string
}

// AuthenticateResponse contains the response of the Authenticate method.
type AuthenticateResponse struct {
	// User is the authenticated user. PasswordHash is cleared.
	User User
}

// ForgotPasswordArgs contain the arguments of the ForgotPassword method.
type ForgotPasswordArgs struct {
	// Email is the account email to reset.
	Email string
}

// ProfileArgs contain the arguments of the Profile method.
type ProfileArgs struct {
	// Caller is the authenticated caller. Nil means anonymous.
	Caller *Identity
}

// ProfileResponse contains the caller's own user record.
type ProfileResponse struct {
	// User is the caller's profile. PasswordHash is cleared.
	User User
}

// ListNetworkArgs contain the arguments for the ListNetwork use-case.
type ListNetworkArgs struct {
	// Caller is the authenticated caller. Nil means anonymous.
	Caller *Identity
}

// ListNetworkResponse contains the discoverable users visible to the caller.
type ListNetworkResponse struct {
	// Users are discoverable users, excluding the caller.
	Users []User
}

// CreateEventArgs contain the arguments of the CreateEvent method.
type CreateEventArgs struct {
	// Caller is the authenticated event owner. Nil means anonymous.
	Caller *Identity

	// Payload is the decoded event creation request body.
	Payload map[string]any
}

// CreateEventResponse contains the response of the CreateEvent method.
type CreateEventResponse struct {
	// Event is the created event.
	Event Event
}

// ListOwnedEventsArgs contain the arguments of the ListOwned method.
type ListOwnedEventsArgs struct {
	// Caller is the authenticated caller. Nil means anonymous.
	Caller *Identity
}

// SearchEventsArgs contain the arguments of the Search method.
type SearchEventsArgs struct {
	// Caller is the authenticated caller. Nil means anonymous.
	Caller *Identity

	// Query is matched case-insensitively as a substring against name,
	// venue, location, topics and description. Empty matches all events.
	Query string
}

// ListEventsResponse contains events matching a catalog query.
type ListEventsResponse struct {
	// Events in storage order.
	Events []Event
}

// RegisterArgs contain the arguments of the Register method.
type RegisterArgs struct {
	// EventID is the id of the event to register for.
	EventID string

	// Caller is the authenticated caller. Nil means anonymous.
	Caller *Identity

	// Payload is the decoded registration request body. It must contain the
	// boolean isRegistered flag plus one entry per schema field when
	// registering.
	Payload map[string]any
}

// RegisterResponse contains the response of the Register method.
type RegisterResponse struct {
	// Registered reports the resulting state.
	Registered bool `json:"registered"`

	// Fields echoes the event schema when registering.
	Fields []string `json:"fields,omitempty"`
}

// ListAttendeesArgs contain the arguments of the ListAttendees method.
type ListAttendeesArgs struct {
	// EventID is the id of the event whose roster is requested.
	EventID string

	// Caller is the authenticated caller. Nil means anonymous.
	Caller *Identity
}

// ListAttendeesResponse contains the attendee roster of an event.
type ListAttendeesResponse struct {
	// Attendees in storage order.
	Attendees []Attendee
}
