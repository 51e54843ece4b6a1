package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"space-chat/api"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
// Without CHAT_SPACE_ID the client registers a new space and prints its id.
type Config struct {
	ServerAddress string `env:"CHAT_SERVER_ADDR,default=localhost:8080"`
	Username      string `env:"CHAT_USERNAME,required=true"`
	Password      string `env:"CHAT_PASSWORD,required=true"`
	Register      bool   `env:"CHAT_REGISTER,default=false"`
	SpaceID       int64  `env:"CHAT_SPACE_ID,default=0"`
	LogLevel      string `env:"LOG_LEVEL,default=WARN"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := grpc.NewClient(config.ServerAddress,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		api.WithCBOR())
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()

	token, err := signIn(ctx, api.NewAuthServiceClient(conn), config)
	if err != nil {
		return exitRuntime, err
	}
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	chat := api.NewChatServiceClient(conn)

	if config.SpaceID == 0 {
		space, err := chat.CreateSpace(ctx, &api.CreateSpaceRequest{})
		if err != nil {
			return exitRuntime, fmt.Errorf("create space: %w", err)
		}
		color.Green.Printf("Space %d registered, share this id with renters.\n", space.SpaceID)
		return exitOK, nil
	}

	conversation, err := chat.GetOrCreateConversation(ctx, &api.GetOrCreateConversationRequest{SpaceID: config.SpaceID})
	if err != nil {
		return exitRuntime, fmt.Errorf("open conversation: %w", err)
	}
	color.Cyan.Printf(">>> Chatting with %s (conversation %d), Ctrl+C to quit\n",
		conversation.OtherPartyDisplayName, conversation.ID)

	history, err := chat.ListMessages(ctx, &api.ListMessagesRequest{ConversationID: conversation.ID})
	if err != nil {
		return exitRuntime, fmt.Errorf("load history: %w", err)
	}
	for _, message := range history.Messages {
		printMessage(message, conversation.OtherPartyDisplayName)
	}

	stream, err := chat.Subscribe(ctx, &api.SubscribeRequest{ConversationID: conversation.ID})
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open stream: %w", err)
	}
	go func() {
		for {
			message, err := stream.Recv()
			if err != nil {
				if ctx.Err() == nil {
					log.Error("Stream closed", "error", err)
					stop()
				}
				return
			}
			// The sender already printed its own copy.
			if !message.FromMe {
				printMessage(message, conversation.OtherPartyDisplayName)
			}
		}
	}()

	lines := readLines(ctx)
	for {
		select {
		case <-ctx.Done():
			return exitOK, nil
		case line, ok := <-lines:
			if !ok {
				return exitOK, nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			sent, err := chat.SendMessage(ctx, &api.SendMessageRequest{ConversationID: conversation.ID, Text: line})
			if err != nil {
				color.Red.Printf("not sent: %v\n", err)
				continue
			}
			printMessage(sent, conversation.OtherPartyDisplayName)
		}
	}
}

func signIn(ctx context.Context, client api.AuthServiceClient, config Config) (string, error) {
	var (
		response *api.AuthResponse
		err      error
	)
	if config.Register {
		response, err = client.Register(ctx, &api.RegisterRequest{Username: config.Username, Password: config.Password})
	} else {
		response, err = client.Login(ctx, &api.LoginRequest{Username: config.Username, Password: config.Password})
	}
	if err != nil {
		return "", fmt.Errorf("sign in: %w", err)
	}
	return response.Token, nil
}

func printMessage(message *api.MessageResponse, otherParty string) {
	at := message.SentAt.Local().Format(time.TimeOnly)
	switch {
	case message.Unreadable:
		color.Red.Printf("[%s] <unreadable message>\n", at)
	case message.FromMe:
		color.Green.Printf("[%s] me: %s\n", at, message.Body)
	default:
		color.Yellow.Printf("[%s] %s: %s\n", at, otherParty, message.Body)
	}
}

// readLines forwards stdin lines until EOF. The goroutine may outlive ctx
// while blocked on a read, which only matters at process exit.
func readLines(ctx context.Context) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
