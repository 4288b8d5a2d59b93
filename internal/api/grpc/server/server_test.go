package server

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

type fakeSecurity struct {
	ln  net.Listener
	err error
}

func (f fakeSecurity) Listen(_, _ string) (net.Listener, error) {
	return f.ln, f.err
}

func TestGRPCServer_Address(t *testing.T) {
	s := NewGRPCServer(grpc.NewServer(), ":0")
	assert.Equal(t, ":0", s.Address())
}

func TestGRPCServer_StartStop(t *testing.T) {
	srv := NewGRPCServer(grpc.NewServer(), "bufnet")
	lis := bufconn.Listen(1 << 16)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(fakeSecurity{ln: lis}) }()

	// Serve must be running before the server is stopped.
	require.Eventually(t, func() bool {
		conn, err := lis.Dial()
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestGRPCServer_Start_ListenError(t *testing.T) {
	srv := NewGRPCServer(grpc.NewServer(), ":0")
	err := srv.Start(fakeSecurity{err: errors.New("address in use")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
