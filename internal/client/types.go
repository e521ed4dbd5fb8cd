package client

import (
	"fmt"

	"google.golang.org/grpc"

	pb "github.com/afoley587/coding-challenges-2025/user-records/api/usersv1"
)

type DialConfig struct {
	Address    string
	Insecure   bool
	RootCA     string // optional root CA cert
	ClientCert string // optional client cert (mTLS)
	ClientKey  string // optional client key (mTLS)
}

type GRPCClient struct {
	conn *grpc.ClientConn
	api  pb.UserServiceClient
}

func (c *GRPCClient) Client() pb.UserServiceClient {
	return c.api
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func NewClient(cfg DialConfig) (*GRPCClient, error) {
	conn, err := dial(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to dial server: %w", err)
	}
	return &GRPCClient{conn: conn, api: pb.NewUserServiceClient(conn)}, nil
}
