/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/falak-club/apiserver/config"
	"github.com/falak-club/apiserver/internal/server"
	"github.com/falak-club/apiserver/internal/services"
	"github.com/spf13/cobra"
)

// notificationsCmd represents the notifications command
var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Tails club notifications from the message broker",
	Long: `Tails club notifications from the message broker and logs them.
The API server only ever publishes; consuming runs in this separate
process. Usage:

	falak notifications
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadConfig()

		broker, err := server.NewBroker(cmd.Context(), cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to connect broker: %v\n", err)
			os.Exit(1)
		}
		if broker == nil {
			fmt.Fprintln(os.Stderr, "MQ_BACKEND is none, nothing to consume")
			os.Exit(1)
		}
		defer broker.Close()

		listener := services.NewListener(broker, cfg.MQ.Channel, slog.Default())
		if err := listener.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "notifications error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(notificationsCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// notificationsCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// notificationsCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}
