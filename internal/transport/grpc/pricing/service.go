package pricing

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "pricing.v1.PricingService"

// Full method names, usable with grpc.ClientConn.Invoke.
const (
	ComputePriceMethod       = "/" + ServiceName + "/ComputePrice"
	ComputeBatchPriceMethod  = "/" + ServiceName + "/ComputeBatchPrice"
	CheckPromoCodeMethod     = "/" + ServiceName + "/CheckPromoCode"
	PublishRateMethod        = "/" + ServiceName + "/PublishRate"
	CreateDiscountRuleMethod = "/" + ServiceName + "/CreateDiscountRule"
	RetireDiscountRuleMethod = "/" + ServiceName + "/RetireDiscountRule"
)

// PricingServiceServer is the server API for the pricing service.
// Requests and replies are google.protobuf.Struct values carrying the JSON bodies of the HTTP API.
type PricingServiceServer interface {
	ComputePrice(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ComputeBatchPrice(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CheckPromoCode(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PublishRate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateDiscountRule(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RetireDiscountRule(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(PricingServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PricingServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(PricingServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes the pricing service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PricingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ComputePrice",
			Handler:    unaryHandler(ComputePriceMethod, PricingServiceServer.ComputePrice),
		},
		{
			MethodName: "ComputeBatchPrice",
			Handler:    unaryHandler(ComputeBatchPriceMethod, PricingServiceServer.ComputeBatchPrice),
		},
		{
			MethodName: "CheckPromoCode",
			Handler:    unaryHandler(CheckPromoCodeMethod, PricingServiceServer.CheckPromoCode),
		},
		{
			MethodName: "PublishRate",
			Handler:    unaryHandler(PublishRateMethod, PricingServiceServer.PublishRate),
		},
		{
			MethodName: "CreateDiscountRule",
			Handler:    unaryHandler(CreateDiscountRuleMethod, PricingServiceServer.CreateDiscountRule),
		},
		{
			MethodName: "RetireDiscountRule",
			Handler:    unaryHandler(RetireDiscountRuleMethod, PricingServiceServer.RetireDiscountRule),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pricing/v1/pricing.proto",
}

// RegisterPricingServiceServer registers srv with s.
func RegisterPricingServiceServer(s grpc.ServiceRegistrar, srv PricingServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls the pricing service over a gRPC connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a pricing service client.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes one pricing method with a Struct request.
func (c *Client) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
