package api

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestToStruct_WireShape(t *testing.T) {
	s, err := ToStruct(&RegisterResponse{Status: StatusError, Message: "taken"})
	require.NoError(t, err)

	assert.Equal(t, float64(-1), s.Fields["status"].GetNumberValue())
	assert.Equal(t, "taken", s.Fields["message"].GetStringValue())
	assert.NotContains(t, s.Fields, "added_user")
}

func TestStruct_SurvivesProtoEncoding(t *testing.T) {
	created := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	in := &RegisterResponse{
		Status:    StatusOK,
		AddedUser: &Account{ID: "u-1", Username: "alice", Handle: "@alice", Email: "a@x.com", CreatedAt: created},
	}

	s, err := ToStruct(in)
	require.NoError(t, err)
	raw, err := proto.Marshal(s)
	require.NoError(t, err)

	back := new(structpb.Struct)
	require.NoError(t, proto.Unmarshal(raw, back))

	var out RegisterResponse
	require.NoError(t, FromStruct(back, &out))
	assert.Equal(t, in.Status, out.Status)
	require.NotNil(t, out.AddedUser)
	assert.Equal(t, "@alice", out.AddedUser.Handle)
	assert.True(t, created.Equal(out.AddedUser.CreatedAt))
}

func TestFromStruct_Errors(t *testing.T) {
	var req LoginRequest
	require.NoError(t, FromStruct(nil, &req))
	assert.Equal(t, LoginRequest{}, req)

	bad, err := structpb.NewStruct(map[string]any{"username": 42.0})
	require.NoError(t, err)
	assert.Error(t, FromStruct(bad, &req), "number into a string field")

	_, err = ToStruct([]string{"not", "an", "object"})
	assert.Error(t, err)
}

func TestServiceDesc(t *testing.T) {
	assert.Equal(t, ServiceName, AuthServiceDesc.ServiceName)

	names := make([]string, 0, len(AuthServiceDesc.Methods))
	for _, m := range AuthServiceDesc.Methods {
		names = append(names, m.MethodName)
		assert.Equal(t, "/"+ServiceName+"/"+m.MethodName,
			map[string]string{"Register": RegisterMethod, "Login": LoginMethod, "Profile": ProfileMethod}[m.MethodName])
	}
	assert.ElementsMatch(t, []string{"Register", "Login", "Profile"}, names)
}

type echoServer struct {
	seenMethod string
}

func (e *echoServer) Register(_ context.Context, in *RegisterRequest) (*RegisterResponse, error) {
	return &RegisterResponse{Status: StatusOK, AddedUser: &Account{Username: in.Username, Handle: "@" + in.Username, Email: in.Email}}, nil
}

func (e *echoServer) Login(_ context.Context, in *LoginRequest) (*LoginResponse, error) {
	return &LoginResponse{Status: StatusError, Message: "no such user " + in.Username}, nil
}

func (e *echoServer) Profile(context.Context, *ProfileRequest) (*ProfileResponse, error) {
	return &ProfileResponse{Status: StatusOK, User: &Account{ID: "u-1"}}, nil
}

func TestClientServer_OverBufconn(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	impl := &echoServer{}

	srv := grpc.NewServer(grpc.UnaryInterceptor(func(ctx context.Context, req any, info *grpc.UnaryServerInfo, h grpc.UnaryHandler) (any, error) {
		if _, ok := req.(*RegisterRequest); ok {
			impl.seenMethod = info.FullMethod
		}
		return h(ctx, req)
	}))
	RegisterAuthServiceServer(srv, impl)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	c := NewAuthServiceClient(conn)
	ctx := context.Background()

	reg, err := c.Register(ctx, &RegisterRequest{Username: "alice", Email: "a@x.com", Password: "p@ss1"})
	require.NoError(t, err)
	assert.Equal(t, StatusOK, reg.Status)
	assert.Equal(t, "@alice", reg.AddedUser.Handle)
	assert.Equal(t, RegisterMethod, impl.seenMethod, "interceptors see typed requests")

	login, err := c.Login(ctx, &LoginRequest{Username: "bob", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, StatusError, login.Status)
	assert.Equal(t, "no such user bob", login.Message)

	prof, err := c.Profile(ctx, &ProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, "u-1", prof.User.ID)
}
