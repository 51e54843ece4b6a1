package e2e

import (
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"space-chat/api"
	"space-chat/codec"
	"space-chat/internal"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1 << 20

type BaseGrpcSuite struct {
	suite.Suite
	Config Config

	// in-process server, only when Config.ServerAddr is empty
	db       *badger.DB
	app      *internal.App
	listener *bufconn.Listener
}

// SetupSuite loads the environment configuration and, without SERVER_ADDR,
// boots the whole backend on an in-memory Badger behind a bufconn listener.
func (s *BaseGrpcSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerAddr != "" {
		return
	}

	config := internal.Config{
		JWTSecret:            "e2e-signing-secret",
		JWTExpirationMs:      time.Hour.Milliseconds(),
		ChatEncryptionKey:    base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")),
		LogLevel:             "ERROR",
		MaxContentLength:     4000,
		SubscriberBufferSize: 16,
		DeliveryTimeout:      time.Second,
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	s.db, err = badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	s.Require().NoError(err)
	keys, err := internal.LoadKeys(config)
	s.Require().NoError(err)
	s.app, err = internal.NewApp(config, keys, logger, s.db)
	s.Require().NoError(err)

	s.listener = bufconn.Listen(bufSize)
	go func() {
		_ = s.app.Server.Serve(s.listener)
	}()
}

func (s *BaseGrpcSuite) TearDownSuite() {
	if s.app == nil {
		return
	}
	s.app.Server.Stop()
	_ = s.app.Close()
	_ = s.db.Close()
}

// GrpcConn initializes a CBOR gRPC connection with logging, colors and diagnostic dumps
func (s *BaseGrpcSuite) GrpcConn(t *testing.T, name string) *grpc.ClientConn {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	target := s.Config.ServerAddr
	options := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		api.WithCBOR(),
		grpc.WithUnaryInterceptor(func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
			start := time.Now()
			err := invoker(ctx, method, req, reply, cc, opts...)

			logBuilder := strings.Builder{}
			fmt.Fprintf(&logBuilder, "GRPC %s [%s] in %v", method, status.Code(err), time.Since(start))
			if s.Config.DebugCBOR {
				fmt.Fprintln(&logBuilder, "\nREQUEST:")
				fmt.Fprintln(&logBuilder, diagnose(req))
				if err != nil {
					fmt.Fprintln(&logBuilder, "ERROR:", err)
				} else {
					fmt.Fprintln(&logBuilder, "RESPONSE:")
					fmt.Fprintln(&logBuilder, diagnose(reply))
				}
			}
			t.Log(logBuilder.String())
			return err
		}),
	}
	if s.listener != nil {
		target = "passthrough:///bufnet"
		options = append(options, grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return s.listener.DialContext(ctx)
		}))
	}

	conn, err := grpc.NewClient(target, options...)
	s.Require().NoError(err, "Failed to connect to gRPC server at "+target)
	return conn
}

// WithClients provides both service clients within a contextual test step
func (s *BaseGrpcSuite) WithClients(name string, fn func(ctx context.Context, auth api.AuthServiceClient, chat api.ChatServiceClient)) {
	conn := s.GrpcConn(s.T(), name)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fn(ctx, api.NewAuthServiceClient(conn), api.NewChatServiceClient(conn))
}

// Bearer attaches a session token to outgoing calls.
func Bearer(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

func diagnose(v any) string {
	text, err := codec.Diagnose(v)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return text
}
