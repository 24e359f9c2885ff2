package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dupKey(key string) error {
	return &mysql.MySQLError{
		Number:  1062,
		Message: fmt.Sprintf("Duplicate entry 'x' for key '%s'", key),
	}
}

func TestMapConstraintKnownKeys(t *testing.T) {
	cases := map[string]string{
		"users.uq_users_email":    "email",
		"users.uq_users_username": "username",
		"articles.uq_articles_slug": "slug",
		// some server versions report the key without the table qualifier
		"uq_users_email": "email",
	}
	for key, field := range cases {
		t.Run(key, func(t *testing.T) {
			err := mapConstraint(dupKey(key))
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, field, ve.Field)
			assert.NotEmpty(t, ve.Message)
		})
	}
}

func TestMapConstraintUnknownKeyPassesThrough(t *testing.T) {
	orig := dupKey("orders.uq_orders_number")
	err := mapConstraint(orig)
	var ve *ValidationError
	assert.False(t, errors.As(err, &ve))
	assert.Equal(t, orig, err)
}

func TestMapConstraintOtherErrorsPassThrough(t *testing.T) {
	assert.NoError(t, mapConstraint(nil))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, mapConstraint(plain))

	deadlock := &mysql.MySQLError{Number: 1213, Message: "Deadlock found"}
	assert.Equal(t, error(deadlock), mapConstraint(deadlock))
}

func TestDupKeyName(t *testing.T) {
	assert.Equal(t, "uq_users_email",
		dupKeyName("Duplicate entry 'a@b.io' for key 'users.uq_users_email'"))
	assert.Equal(t, "uq_articles_slug",
		dupKeyName("Duplicate entry 'my-post' for key 'uq_articles_slug'"))
	assert.Equal(t, "", dupKeyName("some unrelated message"))
}
