package grpcjson

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type echoRequest struct {
	Text string `json:"text"`
}

type echoResponse struct {
	Text  string `json:"text"`
	Calls int    `json:"calls"`
}

type echoServer interface {
	Echo(ctx context.Context, req *echoRequest) (*echoResponse, error)
}

type echo struct{ calls int }

func (e *echo) Echo(_ context.Context, req *echoRequest) (*echoResponse, error) {
	if req.Text == "" {
		return nil, status.Error(codes.InvalidArgument, "empty text")
	}
	e.calls++
	return &echoResponse{Text: req.Text, Calls: e.calls}, nil
}

var echoDesc = grpc.ServiceDesc{
	ServiceName: "test.Echo",
	HandlerType: (*echoServer)(nil),
	Methods: []grpc.MethodDesc{
		Unary("test.Echo", "Echo", echoServer.Echo),
	},
}

func dial(t *testing.T, opts ...grpc.ServerOption) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(opts...)
	srv.RegisterService(&echoDesc, &echo{})
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestUnary_RoundTrip(t *testing.T) {
	conn := dial(t)
	resp, err := Invoke[echoResponse](context.Background(), conn, "/test.Echo/Echo", &echoRequest{Text: "bale"})
	require.NoError(t, err)
	assert.Equal(t, "bale", resp.Text)
	assert.Equal(t, 1, resp.Calls)

	_, err = Invoke[echoResponse](context.Background(), conn, "/test.Echo/Echo", &echoRequest{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestUnary_RunsInterceptor(t *testing.T) {
	var seen string
	conn := dial(t, grpc.UnaryInterceptor(func(ctx context.Context, req any, info *grpc.UnaryServerInfo, h grpc.UnaryHandler) (any, error) {
		seen = info.FullMethod
		return h(ctx, req)
	}))
	_, err := Invoke[echoResponse](context.Background(), conn, "/test.Echo/Echo", &echoRequest{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, "/test.Echo/Echo", seen)
}
