package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDKey is the metadata key carrying the per-call request id.
// A caller-supplied value is kept; otherwise a new UUID is generated.
const RequestIDKey = "x-request-id"

func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(RequestIDKey); len(v) > 0 && v[0] != "" {
			return v[0]
		}
	}
	return uuid.NewString()
}

// UnaryLogger logs every unary call with its status code and latency.
func UnaryLogger(log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		id := requestID(ctx)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDKey, id))
		l := log.With().Str("request_id", id).Str("method", info.FullMethod).Logger()

		resp, err := handler(l.WithContext(ctx), req)
		logCall(l, start, err)
		return resp, err
	}
}

// StreamLogger is the streaming counterpart of UnaryLogger.
func StreamLogger(log zerolog.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		id := requestID(ss.Context())
		_ = ss.SetHeader(metadata.Pairs(RequestIDKey, id))
		l := log.With().Str("request_id", id).Str("method", info.FullMethod).Logger()

		err := handler(srv, ss)
		logCall(l, start, err)
		return err
	}
}

func logCall(l zerolog.Logger, start time.Time, err error) {
	code := status.Code(err)
	ev := l.Info()
	if err != nil {
		ev = l.Warn().Err(err)
	}
	ev.Str("code", code.String()).Dur("duration", time.Since(start)).Msg("grpc call")
}
