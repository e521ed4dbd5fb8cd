package client_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "github.com/afoley587/coding-challenges-2025/user-records/api/usersv1"
	"github.com/afoley587/coding-challenges-2025/user-records/internal/client"
	"github.com/afoley587/coding-challenges-2025/user-records/internal/server"
	"github.com/afoley587/coding-challenges-2025/user-records/internal/service"
	"github.com/afoley587/coding-challenges-2025/user-records/internal/store"
)

func startServer(t *testing.T) string {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Serve(ctx, lis, server.New(service.New(store.NewInMemoryStore()), zerolog.Nop()))
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return lis.Addr().String()
}

func TestClientRoundTrip(t *testing.T) {
	c, err := client.NewClient(client.DialConfig{Address: startServer(t), Insecure: true})
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	users, err := c.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = c.Client().GetUser(ctx, &pb.GetUserRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err), "raw stub reaches the server")

	alice, err := c.CreateUser(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)
	_, err = c.CreateUser(ctx, "Bob", "bob@example.com")
	require.NoError(t, err)

	users, err = c.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].GetName())
	assert.Equal(t, "Bob", users[1].GetName())

	updated, err := c.UpdateUser(ctx, alice.GetId(), "Alice Smith", "alice.smith@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.GetId(), updated.GetId())
	assert.Equal(t, "Alice Smith", updated.GetName())

	require.NoError(t, c.DeleteUser(ctx, alice.GetId()))
	_, err = c.GetUser(ctx, alice.GetId())
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestNewClientTLSErrors(t *testing.T) {
	_, err := client.NewClient(client.DialConfig{Address: "127.0.0.1:1", RootCA: "does-not-exist.pem"})
	assert.Error(t, err)

	_, err = client.NewClient(client.DialConfig{Address: "127.0.0.1:1", ClientCert: "cert.pem"})
	assert.Error(t, err)
}
