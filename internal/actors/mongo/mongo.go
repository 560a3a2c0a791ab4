package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/rbroggi/oneclick/internal/core/model"
	"github.com/rbroggi/oneclick/internal/core/ports"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB is a document-store adapter for persistence. Attendee records are
// stored as flat documents whose keys follow the owning event's field schema.
type MongoDB struct {
	users     *mongo.Collection
	events    *mongo.Collection
	attendees *mongo.Collection
}

// MongoDBArgs are the mandatory arguments for the creation of a MongoDB.
type MongoDBArgs struct {
	// Database is the mongo database holding the users, events and
	// attendees collections.
	Database *mongo.Database
}

// NewMongoDB creates a new MongoDB.
func NewMongoDB(args MongoDBArgs) (*MongoDB, error) {
	if args.Database == nil {
		return nil, errors.New("nil database passed to NewMongoDB")
	}
	return &MongoDB{
		users:     args.Database.Collection("users"),
		events:    args.Database.Collection("events"),
		attendees: args.Database.Collection("attendees"),
	}, nil
}

// EnsureIndexes creates the indexes the adapter relies on: a unique index on
// user emails and a partial unique index on (eid, uid) so that concurrent
// double-registration cannot produce duplicate attendee records.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	_, err := m.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return &model.StorageError{Err: err}
	}

	_, err = m.attendees.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "eid", Value: 1}, {Key: "uid", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.D{{Key: "uid", Value: bson.D{{Key: "$exists", Value: true}}}}),
	})
	if err != nil {
		return &model.StorageError{Err: err}
	}
	return nil
}

// SaveUser will save the user in the database.
func (m *MongoDB) SaveUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return errors.New("nil user passed to save method")
	}

	dbUser := toUserDB(user)
	if _, err := m.users.InsertOne(ctx, dbUser); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrDuplicate
		}
		return &model.StorageError{Err: err}
	}

	user.ID = dbUser.ID.Hex()
	return nil
}

// GetUserByEmail returns the user with the given email.
func (m *MongoDB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	dbUser := new(userDB)
	err := m.users.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(dbUser)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, &model.StorageError{Err: err}
	}
	user := toUserModel(*dbUser)
	return &user, nil
}

// ListUsers lists users matching the parameters in input.
func (m *MongoDB) ListUsers(ctx context.Context, query ports.ListUsersQuery) (*ports.ListUsersResult, error) {
	filters := bson.M{}
	if query.Discoverable {
		filters["discoverable"] = true
	}
	if query.ExcludeEmail != "" {
		filters["email"] = bson.M{"$ne": query.ExcludeEmail}
	}

	cursor, err := m.users.Find(ctx, filters)
	if err != nil {
		return nil, &model.StorageError{Err: err}
	}
	var dbUsers []userDB
	if err := cursor.All(ctx, &dbUsers); err != nil {
		return nil, &model.StorageError{Err: err}
	}

	users := make([]model.User, len(dbUsers))
	for i, dbUser := range dbUsers {
		users[i] = toUserModel(dbUser)
	}
	return &ports.ListUsersResult{Users: users}, nil
}

// SaveEvent will save the event in the database.
func (m *MongoDB) SaveEvent(ctx context.Context, event *model.Event) error {
	if event == nil {
		return errors.New("nil event passed to save method")
	}

	dbEvent := toEventDB(event)
	if _, err := m.events.InsertOne(ctx, dbEvent); err != nil {
		return &model.StorageError{Err: err}
	}

	event.ID = dbEvent.ID.Hex()
	return nil
}

// GetEvent returns the event with the given id.
func (m *MongoDB) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// a malformed id cannot reference any event
		return nil, model.ErrNotFound
	}

	dbEvent := new(eventDB)
	err = m.events.FindOne(ctx, bson.D{{Key: "_id", Value: objectID}}).Decode(dbEvent)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
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
func (m *MongoDB) ListEvents(ctx context.Context, query ports.ListEventsQuery) (*ports.ListEventsResult, error) {
	filters := bson.M{}
	if query.OwnerID != "" {
		filters["uid"] = query.OwnerID
	}
	if query.Text != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query.Text), Options: "i"}
		filters["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"venue": pattern},
			bson.M{"location": pattern},
			bson.M{"topics": pattern},
			bson.M{"description": pattern},
		}
	}

	cursor, err := m.events.Find(ctx, filters)
	if err != nil {
		return nil, &model.StorageError{Err: err}
	}
	var dbEvents []eventDB
	if err := cursor.All(ctx, &dbEvents); err != nil {
		return nil, &model.StorageError{Err: err}
	}

	events := make([]model.Event, len(dbEvents))
	for i, dbEvent := range dbEvents {
		events[i] = toEventModel(dbEvent)
	}
	return &ports.ListEventsResult{Events: events}, nil
}

// UpsertAttendee saves the attendee record. Authenticated records are keyed
// on (eid, uid): a second registration replaces the first instead of
// duplicating it. Anonymous records are plain inserts.
func (m *MongoDB) UpsertAttendee(ctx context.Context, attendee *model.Attendee) error {
	if attendee == nil {
		return errors.New("nil attendee passed to upsert method")
	}

	doc := toAttendeeDoc(attendee)
	if attendee.UserID == "" {
		res, err := m.attendees.InsertOne(ctx, doc)
		if err != nil {
			return &model.StorageError{Err: err}
		}
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			attendee.ID = oid.Hex()
		}
		return nil
	}

	filter := bson.D{{Key: "eid", Value: attendee.EventID}, {Key: "uid", Value: attendee.UserID}}
	res, err := m.attendees.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// concurrent upsert on the partial unique index; the record exists
			return nil
		}
		return &model.StorageError{Err: err}
	}
	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		attendee.ID = oid.Hex()
	}
	return nil
}

// DeleteAttendees removes every record matching the query. Removing none is
// not an error.
func (m *MongoDB) DeleteAttendees(ctx context.Context, query ports.DeleteAttendeesQuery) error {
	filter := bson.D{{Key: "eid", Value: query.EventID}, {Key: "uid", Value: query.UserID}}
	if _, err := m.attendees.DeleteMany(ctx, filter); err != nil {
		return &model.StorageError{Err: err}
	}
	return nil
}

// HasAttendee reports whether a record exists for the (eventID, userID) pair.
func (m *MongoDB) HasAttendee(ctx context.Context, eventID, userID string) (bool, error) {
	filter := bson.D{{Key: "eid", Value: eventID}, {Key: "uid", Value: userID}}
	err := m.attendees.FindOne(ctx, filter).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, &model.StorageError{Err: err}
	}
	return true, nil
}

// ListAttendees returns every attendee record of the event in storage order.
func (m *MongoDB) ListAttendees(ctx context.Context, eventID string) ([]model.Attendee, error) {
	cursor, err := m.attendees.Find(ctx, bson.D{{Key: "eid", Value: eventID}})
	if err != nil {
		return nil, &model.StorageError{Err: err}
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, &model.StorageError{Err: err}
	}

	attendees := make([]model.Attendee, len(docs))
	for i, doc := range docs {
		attendees[i] = toAttendeeModel(doc)
	}
	return attendees, nil
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
	if user.ID == "" {
		dbUser.ID = primitive.NewObjectID()
	} else {
		objectID, err := primitive.ObjectIDFromHex(user.ID)
		if err != nil {
			dbUser.ID = primitive.NewObjectID()
		} else {
			dbUser.ID = objectID
		}
	}
	return dbUser
}

func toUserModel(dbUser userDB) model.User {
	return model.User{
		ID:           dbUser.ID.Hex(),
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
	if event.ID == "" {
		dbEvent.ID = primitive.NewObjectID()
	} else {
		objectID, err := primitive.ObjectIDFromHex(event.ID)
		if err != nil {
			dbEvent.ID = primitive.NewObjectID()
		} else {
			dbEvent.ID = objectID
		}
	}
	return dbEvent
}

func toEventModel(dbEvent eventDB) model.Event {
	return model.Event{
		ID:          dbEvent.ID.Hex(),
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

// toAttendeeDoc flattens the record: the schema-driven data keys live at the
// top level of the document next to eid/uid, mirroring the per-event shape of
// the collection.
func toAttendeeDoc(attendee *model.Attendee) bson.M {
	doc := bson.M{}
	for k, v := range attendee.Data {
		doc[k] = v
	}
	doc["eid"] = attendee.EventID
	if attendee.UserID != "" {
		doc["uid"] = attendee.UserID
	}
	return doc
}

func toAttendeeModel(doc bson.M) model.Attendee {
	attendee := model.Attendee{Data: make(map[string]any)}
	for k, v := range doc {
		switch k {
		case "_id":
			if oid, ok := v.(primitive.ObjectID); ok {
				attendee.ID = oid.Hex()
			}
		case "eid":
			attendee.EventID, _ = v.(string)
		case "uid":
			attendee.UserID, _ = v.(string)
		default:
			attendee.Data[k] = v
		}
	}
	return attendee
}

type userDB struct {
	// ID unique identifier of the user.
	ID primitive.ObjectID `bson:"_id"`

	// Name is the user display name.
	Name string `bson:"name"`

	// Description is a free-text bio.
	Description string `bson:"description"`

	// Coordinates is the [longitude, latitude] pair of the user location.
	Coordinates []float64 `bson:"coordinates"`

	// Languages the user speaks.
	Languages []string `bson:"languages"`

	// Topics the user is interested in.
	Topics []string `bson:"topics"`

	// Email is the user email.
	Email string `bson:"email"`

	// Phone is the user phone number.
	Phone string `bson:"phone"`

	// Organization the user belongs to.
	Organization string `bson:"organization"`

	// Status is the user professional status.
	Status string `bson:"status"`

	// Industry the user works in.
	Industry string `bson:"industry"`

	// Age of the user.
	Age int `bson:"age"`

	// Gender of the user.
	Gender string `bson:"gender"`

	// Discoverable permits the user to appear in network listings.
	Discoverable bool `bson:"discoverable"`

	// Password contains the password hash.
	Password string `bson:"password"`

	// CreatedAt is the time at which the user signed up.
	CreatedAt time.Time `bson:"createdAt"`
}

type eventDB struct {
	// ID unique identifier of the event.
	ID primitive.ObjectID `bson:"_id"`

	// OwnerID is the id of the user that created the event.
	OwnerID string `bson:"uid"`

	// Name of the event.
	Name string `bson:"name"`

	// Description of the event.
	Description string `bson:"description"`

	// Language the event is held in.
	Language string `bson:"language"`

	// Topics covered by the event.
	Topics []string `bson:"topics"`

	// Fields is the ordered attendee-data schema.
	Fields []string `bson:"fields"`

	// Email is the organizer contact email.
	Email string `bson:"email"`

	// Phone is the organizer contact phone.
	Phone string `bson:"phone"`

	// Status of the event.
	Status string `bson:"status"`

	// Industry the event targets.
	Industry string `bson:"industry"`

	// MinAge is the minimum attendee age.
	MinAge int `bson:"minAge"`

	// MaxAge is the maximum attendee age.
	MaxAge int `bson:"maxAge"`

	// StartDate is the event start date.
	StartDate string `bson:"startDate"`

	// EndDate is the event end date.
	EndDate string `bson:"endDate"`

	// Coordinates is the [longitude, latitude] pair of the event location.
	Coordinates []float64 `bson:"coordinates"`

	// Venue hosting the event.
	Venue string `bson:"venue"`

	// Location is the human-readable event location.
	Location string `bson:"location"`

	// URL is the event external page.
	URL string `bson:"url"`

	// Genders the event is open to.
	Genders []string `bson:"genders"`

	// CreatedAt is the server-assigned creation time.
	CreatedAt time.Time `bson:"createdAt"`
}
