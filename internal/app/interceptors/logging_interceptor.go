package interceptors

import (
	"context"
	"fmt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"log/slog"
	"strings"
	"time"
)

// LoggingInterceptor logs finished calls, metadata pairs go to debug level
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		const op = "interceptors.LoggingInterceptor"
		log := logger.With(slog.String("op", op), slog.String("method", info.FullMethod))

		if md, ok := metadata.FromIncomingContext(ctx); ok {
			pairs := make([]string, 0, len(md))
			for k, v := range md {
				pairs = append(pairs, fmt.Sprintf("%s: %s", k, strings.Join(v, ",")))
			}
			log.Debug("incoming metadata", slog.String("metadata", strings.Join(pairs, "; ")))
		}

		start := time.Now()
		resp, err := handler(ctx, req)
		log.Info("call completed",
			slog.String("code", status.Code(err).String()),
			slog.Duration("elapsed", time.Since(start)),
		)
		return resp, err
	}
}
