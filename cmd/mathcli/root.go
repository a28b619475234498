package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/math-practice/backend/internal/client"
)

var rootCmd = &cobra.Command{
	Use:           "mathcli",
	Short:         "Practice Primary 5 math word problems with Otto",
	Long:          "mathcli is a terminal client for the math practice server. Score, streak and history are kept locally.",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		return playCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().String("server", "", "Server base URL (overrides MATHCLI_SERVER, default http://localhost:8080)")
	rootCmd.PersistentFlags().String("state", "", "Path to the progress file (overrides MATHCLI_STATE)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(nameCmd)
	rootCmd.AddCommand(resetCmd)
}

func resolveServer(cmd *cobra.Command) string {
	if s, _ := cmd.Flags().GetString("server"); s != "" {
		return s
	}
	if s := os.Getenv("MATHCLI_SERVER"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

// resolveStatePath returns the progress file path using --state, then
// MATHCLI_STATE, then $XDG_DATA_HOME/mathpractice/progress.json.
func resolveStatePath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("state"); p != "" {
		return p, nil
	}
	if p := os.Getenv("MATHCLI_STATE"); p != "" {
		return p, nil
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "mathpractice", "progress.json"), nil
}

func openSession(cmd *cobra.Command) (*client.Session, error) {
	path, err := resolveStatePath(cmd)
	if err != nil {
		return nil, err
	}
	storage, err := client.OpenFileStorage(path)
	if err != nil {
		return nil, fmt.Errorf("open progress: %w", err)
	}
	return client.NewSession(client.NewHTTPClient(resolveServer(cmd)), storage), nil
}
