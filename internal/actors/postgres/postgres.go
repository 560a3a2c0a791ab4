package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
	"github.com/rbroggi/oneclick/internal/core/model"
	"github.com/rbroggi/oneclick/internal/core/ports"
)

// PostgresDB is a relational adapter for persistence. The schema-driven part
// of each attendee record lives in a jsonb column; uniqueness of
// (event, registrant) is enforced by a partial unique index.
type PostgresDB struct {
	db *pg.DB
}

// PostgresDBArgs are the mandatory arguments for the creation of a PostgresDB.
type PostgresDBArgs struct {
	// DB is a postgres database handle.
	DB *pg.DB
}

// NewPostgresDB creates a new PostgresDB.
func NewPostgresDB(args PostgresDBArgs) (*PostgresDB, error) {
	if args.DB == nil {
		return nil, errors.New("nil db passed to NewPostgresDB")
	}
	return &PostgresDB{db: args.DB}, nil
}

// SaveUser will save the user in the database.
func (p *PostgresDB) SaveUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return errors.New("nil user passed to save method")
	}

	dbUser := toUserDB(user)
	if _, err := p.db.ModelContext(ctx, dbUser).Insert(); err != nil {
		if isIntegrityViolation(err) {
			return model.ErrDuplicate
		}
		return &model.StorageError{Err: err}
	}

	user.ID = strconv.FormatInt(dbUser.ID, 10)
	return nil
}

// GetUserByEmail returns the user with the given email.
func (p *PostgresDB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	dbUser := new(userDB)
	err := p.db.ModelContext(ctx, dbUser).Where("email = ?", email).Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, &model.StorageError{Err: err}
	}
	user := toUserModel(*dbUser)
	return &user, nil
}

// ListUsers lists users matching the parameters in input.
func (p *PostgresDB) ListUsers(ctx context.Context, query ports.ListUsersQuery) (*ports.ListUsersResult, error) {
	var dbUsers []userDB
	q := p.db.ModelContext(ctx, &dbUsers).Order("id ASC")
	if query.Discoverable {
		q = q.Where("discoverable = TRUE")
	}
	if query.ExcludeEmail != "" {
		q = q.Where("email <> ?", query.ExcludeEmail)
	}
	if err := q.Select(); err != nil {
		return nil, &model.StorageError{Err: err}
	}

	users := make([]model.User, len(dbUsers))
	for i, dbUser := range dbUsers {
		users[i] = toUserModel(dbUser)
	}
	return &ports.ListUsersResult{Users: users}, nil
}

// SaveEvent will save the event in the database.
func (p *PostgresDB) SaveEvent(ctx context.Context, event *model.Event) error {
	if event == nil {
		return errors.New("nil event passed to save method")
	}

	dbEvent := toEventDB(event)
	if _, err := p.db.ModelContext(ctx, dbEvent).Insert(); err != nil {
		return &model.StorageError{Err: err}
	}

	event.ID = strconv.FormatInt(dbEvent.ID, 10)
	return nil
}

// GetEvent returns the event with the given id.
func (p *PostgresDB) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	numericID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		// a malformed id cannot reference any event
		return nil, model.ErrNotFound
	}

	dbEvent := new(eventDB)
	err = p.db.ModelContext(ctx, dbEvent).Where("id = ?", numericID).Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, &model.StorageError{Err: err}
	}
	event := toEventModel(*dbEvent)
	return &event, nil
}

// ListEvents lists events matching the parameters in input. Text matches as a
// case-insensitive substring against name, venue, location, topics and
// description; empty text matches all events.
func (p *PostgresDB) ListEvents(ctx context.Context, query ports.ListEventsQuery) (*ports.ListEventsResult, error) {
	var dbEvents []eventDB
	q := p.db.ModelContext(ctx, &dbEvents).Order("id ASC")
	if query.OwnerID != "" {
		q = q.Where("uid = ?", query.OwnerID)
	}
	if query.Text != "" {
		pattern := "%" + escapeLike(query.Text) + "%"
		q = q.WhereGroup(func(q *orm.Query) (*orm.Query, error) {
			q = q.WhereOr("name ILIKE ?", pattern).
				WhereOr("venue ILIKE ?", pattern).
				WhereOr("location ILIKE ?", pattern).
				WhereOr("array_to_string(topics, ' ') ILIKE ?", pattern).
				WhereOr("description ILIKE ?", pattern)
			return q, nil
		})
	}
	if err := q.Select(); err != nil {
		return nil, &model.StorageError{Err: err}
	}

	events := make([]model.Event, len(dbEvents))
	for i, dbEvent := range dbEvents {
		events[i] = toEventModel(dbEvent)
	}
	return &ports.ListEventsResult{Events: events}, nil
}

// UpsertAttendee saves the attendee record. The partial unique index on
// (eid, uid) makes authenticated re-registration replace the existing record;
// anonymous records (uid NULL) never conflict and are plain inserts.
func (p *PostgresDB) UpsertAttendee(ctx context.Context, attendee *model.Attendee) error {
	if attendee == nil {
		return errors.New("nil attendee passed to upsert method")
	}

	dbAttendee := toAttendeeDB(attendee)
	_, err := p.db.ModelContext(ctx, dbAttendee).
		OnConflict("(eid, uid) WHERE uid IS NOT NULL DO UPDATE").
		Set("data = EXCLUDED.data").
		Insert()
	if err != nil {
		return &model.StorageError{Err: err}
	}

	attendee.ID = strconv.FormatInt(dbAttendee.ID, 10)
	return nil
}

// DeleteAttendees removes every record matching the query. Removing none is
// not an error.
func (p *PostgresDB) DeleteAttendees(ctx context.Context, query ports.DeleteAttendeesQuery) error {
	_, err := p.db.ModelContext(ctx, (*attendeeDB)(nil)).
		Where("eid = ?", query.EventID).
		Where("uid = ?", query.UserID).
		Delete()
	if err != nil {
		return &model.StorageError{Err: err}
	}
	return nil
}

// HasAttendee reports whether a record exists for the (eventID, userID) pair.
func (p *PostgresDB) HasAttendee(ctx context.Context, eventID, userID string) (bool, error) {
	exists, err := p.db.ModelContext(ctx, (*attendeeDB)(nil)).
		Where("eid = ?", eventID).
		Where("uid = ?", userID).
		Exists()
	if err != nil {
		return false, &model.StorageError{Err: err}
	}
	return exists, nil
}

// ListAttendees returns every attendee record of the event in storage order.
func (p *PostgresDB) ListAttendees(ctx context.Context, eventID string) ([]model.Attendee, error) {
	var dbAttendees []attendeeDB
	err := p.db.ModelContext(ctx, &dbAttendees).
		Where("eid = ?", eventID).
		Order("id ASC").
		Select()
	if err != nil {
		return nil, &model.StorageError{Err: err}
	}

	attendees := make([]model.Attendee, len(dbAttendees))
	for i, dbAttendee := range dbAttendees {
		attendees[i] = toAttendeeModel(dbAttendee)
	}
	return attendees, nil
}

func isIntegrityViolation(err error) bool {
	pgErr, ok := err.(pg.Error)
	return ok && pgErr.IntegrityViolation()
}

// escapeLike neutralizes LIKE wildcards so that query text matches literally.
func escapeLike(text string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(text)
}

func toUserDB(user *model.User) *userDB {
	dbUser := &userDB{
		Name:         user.Name,
		Description:  user.Description,
		Coordinates:  user.Coordinates,
		Languages:    user.Languages,
		Topics:       user.Topics,
		Email:        user.Email,
		Phone:        user.Phone,
		Organization: user.Organization,
		Status:       user.Status,
		Industry:     user.Industry,
		Age:          user.Age,
		Gender:       user.Gender,
		Discoverable: user.Discoverable,
		Password:     user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}
	if user.ID != "" {
		if id, err := strconv.ParseInt(user.ID, 10, 64); err == nil {
			dbUser.ID = id
		}
	}
	return dbUser
}

func toUserModel(dbUser userDB) model.User {
	return model.User{
		ID:           strconv.FormatInt(dbUser.ID, 10),
		Name:         dbUser.Name,
		Description:  dbUser.Description,
		Coordinates:  dbUser.Coordinates,
		Languages:    dbUser.Languages,
		Topics:       dbUser.Topics,
		Email:        dbUser.Email,
		Phone:        dbUser.Phone,
		Organization: dbUser.Organization,
		Status:       dbUser.Status,
		Industry:     dbUser.Industry,
		Age:          dbUser.Age,
		Gender:       dbUser.Gender,
		Discoverable: dbUser.Discoverable,
		PasswordHash: dbUser.Password,
		CreatedAt:    dbUser.CreatedAt,
	}
}

func toEventDB(event *model.Event) *eventDB {
	dbEvent := &eventDB{
		OwnerID:     event.OwnerID,
		Name:        event.Name,
		Description: event.Description,
		Language:    event.Language,
		Topics:      event.Topics,
		Fields:      event.Fields,
		Email:       event.Email,
		Phone:       event.Phone,
		Status:      event.Status,
		Industry:    event.Industry,
		MinAge:      event.MinAge,
		MaxAge:      event.MaxAge,
		StartDate:   event.StartDate,
		EndDate:     event.EndDate,
		Coordinates: event.Coordinates,
		Venue:       event.Venue,
		Location:    event.Location,
		URL:         event.URL,
		Genders:     event.Genders,
		CreatedAt:   event.CreatedAt,
	}
	if event.ID != "" {
		if id, err := strconv.ParseInt(event.ID, 10, 64); err == nil {
			dbEvent.ID = id
		}
	}
	return dbEvent
}

func toEventModel(dbEvent eventDB) model.Event {
	return model.Event{
		ID:          strconv.FormatInt(dbEvent.ID, 10),
		OwnerID:     dbEvent.OwnerID,
		Name:        dbEvent.Name,
		Description: dbEvent.Description,
		Language:    dbEvent.Language,
		Topics:      dbEvent.Topics,
		Fields:      dbEvent.Fields,
		Email:       dbEvent.Email,
		Phone:       dbEvent.Phone,
		Status:      dbEvent.Status,
		Industry:    dbEvent.Industry,
		MinAge:      dbEvent.MinAge,
		MaxAge:      dbEvent.MaxAge,
		StartDate:   dbEvent.StartDate,
		EndDate:     dbEvent.EndDate,
		Coordinates: dbEvent.Coordinates,
		Venue:       dbEvent.Venue,
		Location:    dbEvent.Location,
		URL:         dbEvent.URL,
		Genders:     dbEvent.Genders,
		CreatedAt:   dbEvent.CreatedAt,
	}
}

func toAttendeeDB(attendee *model.Attendee) *attendeeDB {
	dbAttendee := &attendeeDB{
		EventID: attendee.EventID,
		Data:    attendee.Data,
	}
	if attendee.UserID != "" {
		userID := attendee.UserID
		dbAttendee.UserID = &userID
	}
	return dbAttendee
}

func toAttendeeModel(dbAttendee attendeeDB) model.Attendee {
	attendee := model.Attendee{
		ID:      strconv.FormatInt(dbAttendee.ID, 10),
		EventID: dbAttendee.EventID,
		Data:    dbAttendee.Data,
	}
	if dbAttendee.UserID != nil {
		attendee.UserID = *dbAttendee.UserID
	}
	return attendee
}

type userDB struct {
	tableName struct{} `pg:"oneclick.users"`

	ID           int64     `pg:"id,pk"`
	Name         string    `pg:"name,use_zero"`
	Description  string    `pg:"description,use_zero"`
	Coordinates  []float64 `pg:"coordinates,array"`
	Languages    []string  `pg:"languages,array"`
	Topics       []string  `pg:"topics,array"`
	Email        string    `pg:"email,use_zero"`
	Phone        string    `pg:"phone,use_zero"`
	Organization string    `pg:"organization,use_zero"`
	Status       string    `pg:"status,use_zero"`
	Industry     string    `pg:"industry,use_zero"`
	Age          int       `pg:"age,use_zero"`
	Gender       string    `pg:"gender,use_zero"`
	Discoverable bool      `pg:"discoverable,use_zero"`
	Password     string    `pg:"password,use_zero"`
	CreatedAt    time.Time `pg:"created_at"`
}

type eventDB struct {
	tableName struct{} `pg:"oneclick.events"`

	ID          int64     `pg:"id,pk"`
	OwnerID     string    `pg:"uid,use_zero"`
	Name        string    `pg:"name,use_zero"`
	Description string    `pg:"description,use_zero"`
	Language    string    `pg:"language,use_zero"`
	Topics      []string  `pg:"topics,array"`
	Fields      []string  `pg:"fields,array"`
	Email       string    `pg:"email,use_zero"`
	Phone       string    `pg:"phone,use_zero"`
	Status      string    `pg:"status,use_zero"`
	Industry    string    `pg:"industry,use_zero"`
	MinAge      int       `pg:"min_age,use_zero"`
	MaxAge      int       `pg:"max_age,use_zero"`
	StartDate   string    `pg:"start_date,use_zero"`
	EndDate     string    `pg:"end_date,use_zero"`
	Coordinates []float64 `pg:"coordinates,array"`
	Venue       string    `pg:"venue,use_zero"`
	Location    string    `pg:"location,use_zero"`
	URL         string    `pg:"url,use_zero"`
	Genders     []string  `pg:"genders,array"`
	CreatedAt   time.Time `pg:"created_at"`
}

type attendeeDB struct {
	tableName struct{} `pg:"oneclick.attendees"`

	ID      int64          `pg:"id,pk"`
	EventID string         `pg:"eid,use_zero"`
	UserID  *string        `pg:"uid"`
	Data    map[string]any `pg:"data"`
}
