package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/giftgenie/backend/internal/domain"
	"github.com/giftgenie/backend/internal/usecase"
)

var profilePath string

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Run one recommendation request and print the result as JSON",
	Long: `Reads a request file with a recipient profile, a budget and optional intents.
Without intents, gift ideas are generated first.

  {"profile": {"age": 32, "interests": ["요리"]}, "budget": {"min": 50000, "max": 150000}}`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&profilePath, "profile", "p", "", "request file (JSON)")
	resolveCmd.MarkFlagRequired("profile")
	rootCmd.AddCommand(resolveCmd)
}

// resolveFile is the request file read by the resolve command
type resolveFile struct {
	Profile domain.RecipientProfile `json:"profile"`
	Budget  domain.Budget           `json:"budget"`
	Intents []domain.GiftIntent     `json:"intents"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(profilePath)
	if err != nil {
		return fmt.Errorf("read request file: %w", err)
	}

	var req resolveFile
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parse request file: %w", err)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.shutdown(context.Background())

	ctx := cmd.Context()
	if a.cfg.Server.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Server.RequestTimeout)
		defer cancel()
	}

	var resolution *usecase.Resolution
	if len(req.Intents) > 0 {
		resolution, err = a.gifts.Resolve(ctx, req.Intents, req.Budget, req.Profile)
	} else {
		resolution, err = a.gifts.Recommend(ctx, req.Profile, req.Budget)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resolution)
}
