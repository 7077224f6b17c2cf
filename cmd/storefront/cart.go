package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/dwikikusuma/storefront/internal/pricing"
	"github.com/spf13/cobra"
)

func (c *cli) cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change your cart",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show cart contents and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.showCart(cmd)
		},
	}

	add := &cobra.Command{
		Use:   "add ID [QTY]",
		Short: "Add a product",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			qty := 1
			if len(args) == 2 {
				if qty, err = parseQty(args[1]); err != nil {
					return err
				}
				if qty < 1 {
					return fmt.Errorf("quantity must be at least 1, got %d", qty)
				}
			}
			p, err := c.app.Catalog.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := c.app.Cart.Add(cmd.Context(), p, qty); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s added to cart\n", p.Name)
			return c.showCart(cmd)
		},
	}

	set := &cobra.Command{
		Use:   "set ID QTY",
		Short: "Set a quantity; 0 removes the line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			qty, err := parseQty(args[1])
			if err != nil {
				return err
			}
			if err := c.app.Cart.UpdateQuantity(cmd.Context(), id, qty); err != nil {
				return err
			}
			return c.showCart(cmd)
		},
	}

	// Quantities may be negative; stop flag parsing at the first argument so
	// "-1" is not read as a shorthand flag.
	add.Flags().SetInterspersed(false)
	set.Flags().SetInterspersed(false)

	adjust := func(use, short string, delta int) *cobra.Command {
		return &cobra.Command{
			Use:   use + " ID",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := c.app.Cart.Adjust(cmd.Context(), id, delta); err != nil {
					return err
				}
				return c.showCart(cmd)
			},
		}
	}

	remove := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.app.Cart.Remove(cmd.Context(), id); err != nil {
				return err
			}
			return c.showCart(cmd)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Cart.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared.")
			return nil
		},
	}

	checkout := &cobra.Command{
		Use:   "checkout",
		Short: "Check out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := c.app.Cart.Checkout(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if rc.Mode == cartapp.ModeRemote {
				fmt.Fprintf(out, "Order %s placed.\n", rc.OrderID)
			} else {
				fmt.Fprintln(out, "Checkout complete (offline cart, no payment taken).")
			}
			printLines(out, rc.Items)
			printTotals(out, rc.Totals)
			return nil
		},
	}

	cmd.AddCommand(show, add, set,
		adjust("inc", "Increase quantity by one", 1),
		adjust("dec", "Decrease quantity by one; removes at zero", -1),
		remove, clearCmd, checkout)
	return cmd
}

func (c *cli) showCart(cmd *cobra.Command) error {
	items, err := c.app.Cart.Items(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "Your cart is empty.")
		return nil
	}

	recent, _ := c.app.Cart.RecentlyAdded(cmd.Context())
	printLinesMarked(out, items, recent)
	printTotals(out, c.app.Engine.Compute(items))
	return nil
}

func printLines(w io.Writer, items []domain.LineItem) {
	printLinesMarked(w, items, 0)
}

func printLinesMarked(w io.Writer, items []domain.LineItem, recent int64) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tQTY\tPRICE\tLINE\t")
	for _, it := range items {
		mark := ""
		if it.ProductID == recent {
			mark = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\n", it.ProductID, it.Title, it.Quantity,
			pricing.FormatUSD(it.Price), pricing.FormatUSD(it.LineTotal()), mark)
	}
	_ = tw.Flush()
}

func printTotals(w io.Writer, t pricing.Totals) {
	d := t.Display()
	fmt.Fprintf(w, "Items:    %d\n", d.ItemCount)
	fmt.Fprintf(w, "Subtotal: %s\n", d.Subtotal)
	fmt.Fprintf(w, "Tax:      %s\n", d.Tax)
	fmt.Fprintf(w, "Total:    %s\n", d.Total)
}
