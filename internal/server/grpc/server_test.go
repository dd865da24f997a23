package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/postsets/internal/api"
	"github.com/dmitrijs2005/postsets/internal/common"
	"github.com/dmitrijs2005/postsets/internal/logging"
	"github.com/dmitrijs2005/postsets/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", logging.Nop(), &fakeSets{}, "secret")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.Nop(), &fakeSets{}, "secret")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}

// dialBufconn serves s over an in-memory listener and returns a client.
func dialBufconn(t *testing.T, s *GRPCServer) api.SetServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := s.NewServer()
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return api.NewSetServiceClient(conn)
}

func TestServer_RoundTrip(t *testing.T) {
	const secret = "secret"
	f := &fakeSets{set: sampleSet()}
	client := dialBufconn(t, NewGRPCServer("", logging.Nop(), f, secret))

	ping, err := client.Ping(context.Background(), &api.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "OK", ping.Status)

	token, err := auth.GenerateToken(7, []string{auth.ScopeUser}, []byte(secret), time.Hour)
	require.NoError(t, err)
	ctx := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, token)

	got, err := client.GetSet(ctx, &api.GetSetRequest{ID: "AAAAAAAAAAE"})
	require.NoError(t, err)
	assert.Equal(t, "AAAAAAAAAAE", got.ID)
	assert.Equal(t, "Favorites", *got.Title)
	assert.True(t, got.Created.Equal(sampleSet().Created))
	assert.Equal(t, auth.Caller{ID: 7, Authenticated: true, Scopes: []string{auth.ScopeUser}}, f.caller)
}

func TestServer_StatusCodesOverTheWire(t *testing.T) {
	f := &fakeSets{err: common.NewNotFound("no data was found for the provided set id: AAAAAAAAAAE.")}
	client := dialBufconn(t, NewGRPCServer("", logging.Nop(), f, "secret"))

	_, err := client.DeleteSet(context.Background(), &api.DeleteSetRequest{ID: "AAAAAAAAAAE"})
	st := status.Convert(err)
	assert.Equal(t, codes.NotFound, st.Code())
	assert.Equal(t, "no data was found for the provided set id: AAAAAAAAAAE.", st.Message())

	ctx := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, "garbage")
	_, err = client.GetSet(ctx, &api.GetSetRequest{ID: "AAAAAAAAAAE"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
