package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"notekeeper-be/internal/config"
	"notekeeper-be/internal/dialogue"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/pkg/notesclient"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	apiBaseURL string
	chatId     string
	redisURL   string
	logPath    string
)

var rootCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the notes service through the dialogue front end",
	Args:  cobra.NoArgs,
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&apiBaseURL, "api", "", "base URL of the notes API (default API_BASE_URL)")
	rootCmd.Flags().StringVar(&chatId, "chat-id", "console", "conversation id, linked to your account by /register or /login")
	rootCmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for shared sessions (default REDIS_URL, in-memory when empty)")
	rootCmd.Flags().StringVar(&logPath, "log", "logs/chat.log", "log file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if apiBaseURL == "" {
		apiBaseURL = cfg.Chat.APIBaseURL
	}
	if redisURL == "" {
		redisURL = cfg.Chat.RedisURL
	}

	// File only, so log lines never interleave with the conversation.
	chatLogger := logger.NewIsolatedLogger(logPath)
	defer chatLogger.Sync()

	var store dialogue.SessionStore
	if redisURL != "" {
		rdb := dialogue.NewRedisClient(redisURL)
		defer rdb.Close()
		store = dialogue.NewRedisStore(rdb, cfg.Chat.SessionTTL)
	} else {
		store = dialogue.NewMemoryStore(cfg.Chat.SessionTTL)
	}

	machine := dialogue.NewMachine(notesclient.New(apiBaseURL, nil), store, chatLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prompt := color.New(color.FgCyan, color.Bold)
	color.Green("Connected to %s as conversation %q. Send /help for commands, Ctrl+D to quit.", apiBaseURL, chatId)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		prompt.Print("> ")

		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Println()
				return nil
			}

			reply, err := machine.Handle(ctx, chatId, line)
			if err != nil {
				color.Red("error: %v", err)
				continue
			}
			color.Yellow("%s", reply)
		}
	}
}
