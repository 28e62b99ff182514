package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mediadex",
	Short: "Search service for a personal media catalog",
	Long: `Mediadex indexes a personal media catalog (scenes, actors, movies,
studios, images) into in-process inverted indexes and serves full-text
search with filtering, sorting, and pagination over HTTP.`,
	SilenceUsage: true,
}
