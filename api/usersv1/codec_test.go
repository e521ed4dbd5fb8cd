package usersv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/mem"
)

func TestJSONCodecRegistered(t *testing.T) {
	c := encoding.GetCodecV2(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, CodecName, c.Name())
}

func TestMissingFieldsStayNil(t *testing.T) {
	var req UpdateUserRequest
	require.NoError(t, jsonCodec{}.Unmarshal(mem.BufferSlice{mem.SliceBuffer(`{"id":3,"name":"Bob"}`)}, &req))
	require.NotNil(t, req.Id)
	assert.Equal(t, int64(3), *req.Id)
	assert.Equal(t, "Bob", *req.Name)
	assert.Nil(t, req.Email)
}

func TestUserOmitsZeroID(t *testing.T) {
	data, err := jsonCodec{}.Marshal(&User{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Bob","email":"bob@example.com"}`, string(data.Materialize()))
	assert.Zero(t, (*User)(nil).GetId())
}
