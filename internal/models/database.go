package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DB is the database used by the backend.
var DB *gorm.DB

type TBContext string

const (
	DBContextURL TBContext = "tb-backend-url"
)

// Connect opens the SQLite database at dsn and configures the connection pool.
func Connect(dsn string) error {
	if !strings.Contains(dsn, "_pragma=foreign_keys") {
		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		dsn = fmt.Sprintf("%s%s_pragma=foreign_keys(1)", dsn, separator)
	}

	err := ConnectDialector(sqlite.Open(dsn))
	if err != nil {
		return err
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	// This is done to prevent SQLITE_BUSY errors.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	return nil
}

// ConnectDialector opens the database with any gorm dialector, migrates the
// schema and registers the error translating callbacks.
func ConnectDialector(dialector gorm.Dialector) error {
	config := &gorm.Config{
		// Set generated timestamps in UTC
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
		Logger: &logger{
			Logger: log.Logger,
		},
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = migrate(db)
	if err != nil {
		return err
	}

	err = registerCallbacks(db)
	if err != nil {
		return err
	}

	// Set the exported variable
	DB = db

	return nil
}

func registerCallbacks(db *gorm.DB) error {
	callbacks := []struct {
		processor interface {
			Register(string, func(*gorm.DB)) error
		}
		name string
		fn   func(*gorm.DB)
	}{
		{db.Callback().Query().After("*"), "twobolsos:after_query", queryCallback},
		{db.Callback().Query().After("*"), "twobolsos:after_query_general", generalCallback},
		{db.Callback().Create().After("*"), "twobolsos:after_create", createUpdateCallback},
		{db.Callback().Create().After("*"), "twobolsos:after_create_general", generalCallback},
		{db.Callback().Update().After("*"), "twobolsos:after_update", createUpdateCallback},
		{db.Callback().Update().After("*"), "twobolsos:after_update_general", generalCallback},
		{db.Callback().Delete().After("*"), "twobolsos:after_delete_general", generalCallback},
		{db.Callback().Raw().After("*"), "twobolsos:after_raw_general", generalCallback},
		{db.Callback().Row().After("*"), "twobolsos:after_row_general", generalCallback},
	}

	for _, c := range callbacks {
		if err := c.processor.Register(c.name, c.fn); err != nil {
			return err
		}
	}

	return nil
}

var pluralIES = regexp.MustCompile("ies$")

// queryCallback replaces the generic "no record" error with a more user
// friendly one
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		// Use the table name as information about the type of resource
		// and replace "_" with "[space]"
		name := strings.ReplaceAll(db.Statement.Table, "_", " ")

		// Replace pluralized "ies" with "y"
		name = pluralIES.ReplaceAllString(name, "y")

		// Remove plural "s"
		name = strings.TrimSuffix(name, "s")

		db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, name)
	}
}

// uniqueViolation reports whether err is a unique constraint violation
// on SQLite or MySQL.
func uniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Error 1062")
}

// foreignKeyViolation reports whether err is a foreign key constraint
// violation on SQLite or MySQL.
func foreignKeyViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") || strings.Contains(msg, "Error 1452")
}

// createUpdateCallback inspects errors returned by the database for create
// and update calls and replaces them with user friendly ones
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// A referenced resource does not exist
	if foreignKeyViolation(db.Error) {
		db.Error = fmt.Errorf("%w resource referenced by this %s", ErrResourceNotFound, strings.TrimSuffix(strings.ReplaceAll(db.Statement.Table, "_", " "), "s"))
		return
	}

	if !uniqueViolation(db.Error) {
		return
	}

	switch db.Statement.Table {
	case "users":
		db.Error = ErrUsernameTaken
	case "memberships":
		db.Error = ErrAlreadyMember
	default:
		db.Error = fmt.Errorf("%w: %s", ErrConflict, strings.ReplaceAll(db.Statement.Table, "_", " "))
	}
}

// generalCallback handles unspecified errors.
//
// For these errors, we cannot provide the user with a helpful message.
// Instead, the error is logged and we return a general message to users.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// "sql: database is closed" is hard-coded in the sql module, see
	// https://cs.opensource.google/go/go/+/master:src/database/sql/sql.go;l=1298;drc=0d018b49e33b1383dc0ae5cc968e800dffeeaf7d
	if db.Error.Error() == "sql: database is closed" || reflect.TypeOf(db.Error) == reflect.TypeOf(&go_sqlite.Error{}) {
		log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
		db.Error = ErrUnavailable
	}
}

// migrate migrates all models to the schema defined in the code.
func migrate(db *gorm.DB) (err error) {
	err = db.AutoMigrate(User{}, Wallet{}, Membership{}, Transaction{}, FixedExpense{}, FixedExpensePayment{}, InviteCode{})
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	return nil
}
