package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) favoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Your saved products (requires login)",
	}

	add := &cobra.Command{
		Use:   "add ID",
		Short: "Save a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Catalog.AddFavorite(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Added to favorites.")
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := c.app.Catalog.Favorites(cmd.Context())
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func (c *cli) viewedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "viewed",
		Short: "Recently viewed products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.app.Gate.IsAuthenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Log in to keep a viewing history.")
				return nil
			}
			products, err := c.app.Catalog.RecentlyViewed(cmd.Context())
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}
}
