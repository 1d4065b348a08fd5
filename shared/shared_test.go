package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evotodo/shared"
)

func TestConvertStringToBool(t *testing.T) {
	assert.Nil(t, shared.ConvertStringToBool(""))
	assert.Nil(t, shared.ConvertStringToBool("not-a-bool"))

	truthy := shared.ConvertStringToBool("true")
	require.NotNil(t, truthy)
	assert.True(t, *truthy)

	falsy := shared.ConvertStringToBool("0")
	require.NotNil(t, falsy)
	assert.False(t, *falsy)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "limiter:10.0.0.1:curl", shared.BuildCacheKey("limiter", "10.0.0.1", "curl"))
	assert.Equal(t, "single", shared.BuildCacheKey("single"))
}

func TestFilterByID(t *testing.T) {
	filter := shared.FilterByID(7, "id", "todos")

	where, args := filter.GetWhereClause()
	assert.Equal(t, "(todos.id = :id)", where)
	assert.Equal(t, int64(7), args["id"])
}

func TestFilterByOwner(t *testing.T) {
	filter := shared.FilterByOwner("user-a", "user_id", "todos")

	where, args := filter.GetWhereClause()
	assert.Equal(t, "(todos.user_id = :user_id)", where)
	assert.Equal(t, "user-a", args["user_id"])
}
