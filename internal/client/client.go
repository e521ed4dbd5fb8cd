package client

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	pb "github.com/afoley587/coding-challenges-2025/user-records/api/usersv1"
)

// dial opens a connection according to cfg.  Without Insecure the
// connection uses TLS, verified against RootCA when given and the system
// pool otherwise; ClientCert and ClientKey enable mutual TLS.
func dial(cfg DialConfig) (*grpc.ClientConn, error) {
	var creds credentials.TransportCredentials
	if cfg.Insecure {
		creds = insecure.NewCredentials()
	} else {
		tlsCfg, err := clientTLSConfig(cfg)
		if err != nil {
			return nil, err
		}
		creds = credentials.NewTLS(tlsCfg)
	}
	return grpc.NewClient(cfg.Address, grpc.WithTransportCredentials(creds))
}

func clientTLSConfig(cfg DialConfig) (*tls.Config, error) {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if cfg.RootCA != "" {
		caPEM, err := os.ReadFile(cfg.RootCA)
		if err != nil {
			return nil, fmt.Errorf("read root ca: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, fmt.Errorf("no certificates found in %s", cfg.RootCA)
		}
		tlsCfg.RootCAs = pool
	}
	if (cfg.ClientCert == "") != (cfg.ClientKey == "") {
		return nil, errors.New("client certificate and key must be provided together")
	}
	if cfg.ClientCert != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCert, cfg.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("load client key pair: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}
	return tlsCfg, nil
}

// ListUsers drains the ListUsers stream.
func (c *GRPCClient) ListUsers(ctx context.Context) ([]*pb.User, error) {
	stream, err := c.api.ListUsers(ctx, &pb.Empty{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var users []*pb.User
	for {
		u, err := stream.Recv()
		if err == io.EOF {
			return users, nil
		}
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, u)
	}
}

func (c *GRPCClient) GetUser(ctx context.Context, id int64) (*pb.User, error) {
	return c.api.GetUser(ctx, &pb.GetUserRequest{Id: pb.Int64(id)})
}

func (c *GRPCClient) CreateUser(ctx context.Context, name, email string) (*pb.User, error) {
	return c.api.CreateUser(ctx, &pb.CreateUserRequest{
		Name:  pb.String(name),
		Email: pb.String(email),
	})
}

func (c *GRPCClient) UpdateUser(ctx context.Context, id int64, name, email string) (*pb.User, error) {
	return c.api.UpdateUser(ctx, &pb.UpdateUserRequest{
		Id:    pb.Int64(id),
		Name:  pb.String(name),
		Email: pb.String(email),
	})
}

func (c *GRPCClient) DeleteUser(ctx context.Context, id int64) error {
	_, err := c.api.DeleteUser(ctx, &pb.DeleteUserRequest{Id: pb.Int64(id)})
	return err
}
