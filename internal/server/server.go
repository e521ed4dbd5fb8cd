package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	pb "github.com/afoley587/coding-challenges-2025/user-records/api/usersv1"
	"github.com/afoley587/coding-challenges-2025/user-records/internal/service"
)

// New builds a gRPC server with the users.v1 service and the logging
// interceptors registered.  Extra options (credentials, limits) are
// appended.
func New(svc service.UserService, log zerolog.Logger, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(UnaryLogger(log)),
		grpc.ChainStreamInterceptor(StreamLogger(log)),
	}, opts...)
	gs := grpc.NewServer(opts...)
	pb.RegisterUserServiceServer(gs, NewGRPCServer(svc))
	return gs
}

// Serve runs gs on lis until ctx is cancelled, then stops it
// gracefully.  A clean shutdown returns nil.
func Serve(ctx context.Context, lis net.Listener, gs *grpc.Server) error {
	errc := make(chan error, 1)
	go func() { errc <- gs.Serve(lis) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		gs.GracefulStop()
		if err := <-errc; err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	}
}

// Run starts a gRPC server listening on addr backed by svc.  It blocks
// until ctx is cancelled or the server fails.  Pass grpc.Creds with a
// ServerTLSConfig to serve mutual TLS.
func Run(ctx context.Context, addr string, svc service.UserService, log zerolog.Logger, opts ...grpc.ServerOption) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return Serve(ctx, lis, New(svc, log, opts...))
}

// ServerTLSConfig loads a server key pair and the CA used to verify
// client certificates.
func ServerTLSConfig(certFile, keyFile, caFile string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("load server key pair: %w", err)
	}
	caPEM, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("no certificates found in %s", caFile)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientCAs:    pool,
		ClientAuth:   tls.RequireAndVerifyClientCert,
		MinVersion:   tls.VersionTLS12,
	}, nil
}
