package rpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fuzzwell/fuzzwell/pkg/fuzzy"
	"github.com/fuzzwell/fuzzwell/pkg/types"
	"github.com/fuzzwell/fuzzwell/pkg/wellness"
	"github.com/fuzzwell/fuzzwell/pkg/wellnessrpc"
	"github.com/fuzzwell/fuzzwell/server/internal/api"
)

// Server implements wellnessrpc.WellnessServer on top of a Runner.
type Server struct {
	wellnessrpc.UnimplementedWellnessServer
	run api.Runner
}

// New creates a Server that evaluates requests with run.
func New(run api.Runner) *Server {
	return &Server{run: run}
}

// Evaluate is the unary RPC handler. Authentication is enforced by the gRPC
// server interceptor before this is called.
func (s *Server) Evaluate(ctx context.Context, req *types.EvaluateRequest) (*types.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	a, err := s.run.Run(*req)
	if err != nil {
		code := Code(err)
		if code == codes.Internal {
			slog.Error("rpc: evaluation failed", "err", err)
		}
		return nil, status.Error(code, err.Error())
	}

	ev := a.Evaluation()
	slog.Debug("rpc: evaluated", "id", ev.ID, "score", ev.Score, "band", ev.Band)
	return ev, nil
}

// Code maps an evaluation error to a gRPC status code.
func Code(err error) codes.Code {
	switch {
	case wellness.IsInputError(err):
		return codes.InvalidArgument
	case errors.Is(err, fuzzy.ErrNoRuleFired):
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}
