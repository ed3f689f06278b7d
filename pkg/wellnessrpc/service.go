package wellnessrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fuzzwell/fuzzwell/pkg/types"
)

const (
	ServiceName    = "fuzzwell.v1.WellnessService"
	EvaluateMethod = "/" + ServiceName + "/Evaluate"
)

// WellnessServer is the server API for WellnessService.
type WellnessServer interface {
	Evaluate(context.Context, *types.EvaluateRequest) (*types.Evaluation, error)
}

// UnimplementedWellnessServer can be embedded to satisfy WellnessServer.
type UnimplementedWellnessServer struct{}

func (UnimplementedWellnessServer) Evaluate(context.Context, *types.EvaluateRequest) (*types.Evaluation, error) {
	return nil, status.Error(codes.Unimplemented, "method Evaluate not implemented")
}

// RegisterWellnessServer registers srv on s.
func RegisterWellnessServer(s grpc.ServiceRegistrar, srv WellnessServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func evaluateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(types.EvaluateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WellnessServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: EvaluateMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(WellnessServer).Evaluate(ctx, req.(*types.EvaluateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc describes WellnessService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WellnessServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Evaluate", Handler: evaluateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fuzzwell/v1/wellness.proto",
}

// WellnessClient is the client API for WellnessService.
type WellnessClient interface {
	Evaluate(ctx context.Context, in *types.EvaluateRequest, opts ...grpc.CallOption) (*types.Evaluation, error)
}

type wellnessClient struct {
	cc grpc.ClientConnInterface
}

// NewWellnessClient returns a client that talks JSON over cc.
func NewWellnessClient(cc grpc.ClientConnInterface) WellnessClient {
	return &wellnessClient{cc: cc}
}

func (c *wellnessClient) Evaluate(ctx context.Context, in *types.EvaluateRequest, opts ...grpc.CallOption) (*types.Evaluation, error) {
	out := new(types.Evaluation)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, EvaluateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
