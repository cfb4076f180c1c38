package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"github.com/andy6609/chat-relay/internal/chat"
	"github.com/andy6609/chat-relay/internal/config"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	_ = godotenv.Load()

	cfg, err := config.LoadClient()
	if err != nil {
		return exitConfig, err
	}

	addr := flag.String("addr", cfg.ServerAddr, "chat server address")
	nick := flag.String("nick", cfg.Nickname, "nickname, prompted when empty")
	flag.Parse()

	logger := logs.GetLoggerFromString(cfg.LogLevel)
	stdin := bufio.NewReader(os.Stdin)

	nickname := strings.TrimSpace(*nick)
	if nickname == "" {
		fmt.Print("Enter your nickname: ")
		line, err := stdin.ReadString('\n')
		if err != nil && line == "" {
			return exitConfig, fmt.Errorf("read nickname: %w", err)
		}
		nickname = strings.TrimSpace(line)
	}
	if nickname == "" {
		return exitConfig, errors.New("nickname must not be empty")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []chat.ClientOption{
		chat.WithClientBufferSize(cfg.ReadBufferSize),
		chat.WithClientLogger(logger),
	}
	if cfg.Color {
		opts = append(opts, chat.WithRenderer(colorize))
	}

	session, err := chat.Dial(ctx, *addr, nickname, opts...)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to %s, make sure the server is running: %w", *addr, err)
	}
	fmt.Printf("Connected to %s as %s. Type messages, /quit or /exit to leave.\n", *addr, nickname)

	err = session.Run(ctx, stdin, os.Stdout)
	switch {
	case errors.Is(err, chat.ErrServerClosed):
		fmt.Println("[DISCONNECTED] Server is unavailable.")
		return exitRuntime, nil
	case err != nil:
		return exitRuntime, err
	}
	fmt.Println("Disconnected from chat.")
	return exitOK, nil
}

func colorize(line chat.ChatLine) string {
	if line.System {
		return color.Yellow.Sprint(line.Text)
	}
	return color.Cyan.Sprint(line.Text)
}
