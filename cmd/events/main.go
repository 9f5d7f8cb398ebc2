package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"notekeeper-be/internal/config"
	"notekeeper-be/pkg/events"
	pktNats "notekeeper-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	natsURL   string
	eventType string
	durable   string
)

var rootCmd = &cobra.Command{
	Use:   "events",
	Short: "Follow the note and user lifecycle events the API forwards to NATS",
	Args:  cobra.NoArgs,
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&natsURL, "nats", "", "NATS URL (default NATS_URL)")
	rootCmd.Flags().StringVar(&eventType, "type", "*", "event type to follow, e.g. NOTE_CREATED")
	rootCmd.Flags().StringVar(&durable, "durable", "", "durable consumer name to resume from")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if natsURL == "" {
		natsURL = config.Load().Events.NatsURL
	}
	if natsURL == "" {
		return fmt.Errorf("no NATS URL: pass --nats or set NATS_URL")
	}

	sub, err := pktNats.NewSubscriber(natsURL)
	if err != nil {
		return err
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = sub.Subscribe(ctx, eventType, durable, func(_ context.Context, event events.Event) error {
		data, _ := json.Marshal(event.Payload())
		color.Cyan("%s %s", event.Timestamp().Format("2006-01-02T15:04:05Z07:00"), event.EventType())
		fmt.Printf("  %s\n", data)
		return nil
	})
	if err != nil {
		return err
	}

	color.Green("Following %s on %s, Ctrl+C to stop.", pktNats.Subject(eventType), natsURL)
	<-ctx.Done()
	return nil
}
