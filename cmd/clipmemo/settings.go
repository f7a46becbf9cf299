package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// langCmd represents the lang command
var langCmd = &cobra.Command{
	Use:   "lang [ko|en]",
	Short: "Show or set the display language",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openVault()

		if len(args) == 0 {
			fmt.Println(svc.Settings().Language)
			return
		}

		if err := svc.SetLanguage(context.Background(), args[0]); err != nil {
			fatal("Failed to set language", err)
		}
		fmt.Printf("Language set to %s\n", args[0])
	},
}

// bannerCmd represents the banner command
var bannerCmd = &cobra.Command{
	Use:   "banner close",
	Short: "Dismiss the install banner permanently",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if args[0] != "close" {
			fatal("Unknown banner action", fmt.Errorf("%s", args[0]))
		}

		svc := openVault()
		if err := svc.CloseBanner(context.Background()); err != nil {
			fatal("Failed to close banner", err)
		}
		fmt.Println("Banner closed.")
	},
}

func init() {
	rootCmd.AddCommand(langCmd)
	rootCmd.AddCommand(bannerCmd)
}
