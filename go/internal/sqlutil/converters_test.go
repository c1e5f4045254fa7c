package sqlutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestConverters(t *testing.T) {
	assert.False(t, ToSqlString(nil).Valid)
	s := "p1"
	assert.Equal(t, "p1", ToSqlString(&s).String)

	assert.False(t, ToNullUUID(nil).Valid)
	id := uuid.New()
	assert.Equal(t, id, ToNullUUID(&id).UUID)

	assert.False(t, ToSqlInt32Direct(0).Valid)
	n := ToSqlInt32Direct(12)
	assert.True(t, n.Valid)
	assert.Equal(t, 12, *FromSqlInt32(n))
	assert.Nil(t, FromSqlInt32(ToSqlInt32Direct(0)))
}
