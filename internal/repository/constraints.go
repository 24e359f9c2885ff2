package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// MySQL error number for a duplicate entry on a unique key.
const dupKeyErrNum = 1062

// constraintErrors maps a named unique key to the validation error reported
// to the client when that key is violated.  The table is deliberately
// explicit: an unlisted constraint is NOT guessed at from error text, it
// propagates as an internal error and a new entry must be added here.
var constraintErrors = map[string]ValidationError{
	"uq_users_email":    {Field: "email", Message: "email is taken"},
	"uq_users_username": {Field: "username", Message: "username is taken"},
	"uq_articles_slug":  {Field: "slug", Message: "duplicate article slug"},
}

// mapConstraint translates a duplicate-key failure into the *ValidationError
// registered for the violated key.  Any other error, including duplicate-key
// failures on keys not in the table, is returned unchanged.  Call this at
// the exact statement that can violate a constraint, before the surrounding
// transaction is rolled back.
func mapConstraint(err error) error {
	if err == nil {
		return nil
	}
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) || myErr.Number != dupKeyErrNum {
		return err
	}
	if ve, ok := constraintErrors[dupKeyName(myErr.Message)]; ok {
		return &ValidationError{Field: ve.Field, Message: ve.Message}
	}
	return err
}

// dupKeyName extracts the violated key name from a 1062 message, e.g.
//
//	Duplicate entry 'bob@x.io' for key 'users.uq_users_email'
//
// returns "uq_users_email".  The server qualifies the key with the table
// name, which we strip so the lookup table stays keyed by index name alone.
func dupKeyName(msg string) string {
	const marker = "for key '"
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return ""
	}
	name := strings.TrimSuffix(msg[i+len(marker):], "'")
	if j := strings.LastIndexByte(name, '.'); j >= 0 {
		name = name[j+1:]
	}
	return name
}
