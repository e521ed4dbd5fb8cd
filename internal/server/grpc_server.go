package server

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "github.com/afoley587/coding-challenges-2025/user-records/api/usersv1"
	"github.com/afoley587/coding-challenges-2025/user-records/internal/service"
	"github.com/afoley587/coding-challenges-2025/user-records/internal/user"
)

// grpcServer implements the users.v1 gRPC interface by delegating
// operations to the record service.  It contains no business logic of
// its own beyond request checks and status mapping.
type grpcServer struct {
	svc service.UserService
}

// NewGRPCServer constructs a gRPC service implementation backed by the
// provided record service.
func NewGRPCServer(svc service.UserService) pb.UserServiceServer {
	return &grpcServer{svc: svc}
}

// GetUser returns a single user identified by id.  If the user is not
// found, a NotFound status code is returned.
func (s *grpcServer) GetUser(ctx context.Context, req *pb.GetUserRequest) (*pb.User, error) {
	if req == nil || req.Id == nil {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	u, err := s.svc.GetUserByID(ctx, *req.Id)
	if err != nil {
		return nil, toStatus("get user", err)
	}
	return toProto(u), nil
}

// ListUsers streams all users to the client.  If no users exist, the
// stream is closed without sending any messages.
func (s *grpcServer) ListUsers(_ *pb.Empty, stream pb.UserService_ListUsersServer) error {
	users, err := s.svc.GetAllUsers(stream.Context())
	if err != nil {
		return toStatus("list users", err)
	}
	for _, u := range users {
		if err := stream.Send(toProto(u)); err != nil {
			return err
		}
	}
	return nil
}

// CreateUser creates a new user with the provided name and email.  Name
// and email are required; if either is missing, an InvalidArgument
// status is returned.
func (s *grpcServer) CreateUser(ctx context.Context, req *pb.CreateUserRequest) (*pb.User, error) {
	if req == nil || req.Name == nil || req.Email == nil {
		return nil, status.Error(codes.InvalidArgument, "name and email are required")
	}
	u, err := s.svc.CreateUser(ctx, &user.User{Name: *req.Name, Email: *req.Email})
	if err != nil {
		return nil, toStatus("create user", err)
	}
	return toProto(u), nil
}

// UpdateUser replaces the name and email of an existing user.
func (s *grpcServer) UpdateUser(ctx context.Context, req *pb.UpdateUserRequest) (*pb.User, error) {
	if req == nil || req.Id == nil || req.Name == nil || req.Email == nil {
		return nil, status.Error(codes.InvalidArgument, "id, name and email are required")
	}
	u, err := s.svc.UpdateUser(ctx, *req.Id, &user.User{Name: *req.Name, Email: *req.Email})
	if err != nil {
		return nil, toStatus("update user", err)
	}
	return toProto(u), nil
}

func (s *grpcServer) DeleteUser(ctx context.Context, req *pb.DeleteUserRequest) (*pb.Empty, error) {
	if req == nil || req.Id == nil {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	if err := s.svc.DeleteUser(ctx, *req.Id); err != nil {
		return nil, toStatus("delete user", err)
	}
	return &pb.Empty{}, nil
}

func toStatus(op string, err error) error {
	if user.IsNotFound(err) {
		return status.Error(codes.NotFound, err.Error())
	}
	return status.Errorf(codes.Internal, "%s failed: %v", op, err)
}

func toProto(u *user.User) *pb.User {
	return &pb.User{Id: u.ID, Name: u.Name, Email: u.Email}
}
