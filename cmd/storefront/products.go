package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/dwikikusuma/storefront/internal/pricing"
	"github.com/spf13/cobra"
)

func (c *cli) productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
	}

	var q domain.Query
	list := &cobra.Command{
		Use:   "list",
		Short: "List one page of products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := c.app.Catalog.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			printPage(cmd.OutOrStdout(), page)
			return nil
		},
	}
	list.Flags().IntVar(&q.Page, "page", 1, "page number")
	list.Flags().IntVar(&q.Limit, "limit", catalogapp.DefaultLimit, "products per page")
	list.Flags().StringVar(&q.Search, "search", "", "search term")
	list.Flags().StringVar(&q.Category, "category", "", "category filter")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := c.app.Catalog.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			c.app.Catalog.RecordView(cmd.Context(), id)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "#%d %s\n", p.ID, p.Name)
			fmt.Fprintf(out, "%s\n", pricing.FormatUSD(p.Price))
			if p.Category != "" {
				fmt.Fprintf(out, "Category: %s\n", p.Category)
			}
			if p.Description != "" {
				fmt.Fprintf(out, "\n%s\n", p.Description)
			}
			return nil
		},
	}

	search := &cobra.Command{
		Use:   "search TERM",
		Short: "Search products by name or description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := c.app.Catalog.Search(cmd.Context(), strings.Join(args, " "), domain.Query{})
			if err != nil {
				return err
			}
			printPage(cmd.OutOrStdout(), page)
			return nil
		},
	}

	categories := &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := c.app.Catalog.Categories(cmd.Context())
			if err != nil {
				return err
			}
			for _, cat := range cats {
				fmt.Fprintln(cmd.OutOrStdout(), cat)
			}
			return nil
		},
	}

	recommend := &cobra.Command{
		Use:   "recommend",
		Short: "Products picked for you (requires login)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.app.Gate.IsAuthenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Log in to see recommendations.")
				return nil
			}
			products, err := c.app.Catalog.Recommendations(cmd.Context())
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}

	var limit int
	browse := &cobra.Command{
		Use:   "browse",
		Short: "Live search: each stdin line is the current search box text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.browse(cmd, limit)
		},
	}
	browse.Flags().IntVar(&limit, "limit", catalogapp.DefaultLimit, "products per page")

	cmd.AddCommand(list, get, search, categories, recommend, browse)
	return cmd
}

func (c *cli) browse(cmd *cobra.Command, limit int) error {
	b := c.app.NewBrowser(limit)
	out := cmd.OutOrStdout()

	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for res := range b.Results() {
			if res.Err != nil {
				fmt.Fprintf(out, "search %q failed: %v\n", res.Query.Search, res.Err)
				continue
			}
			fmt.Fprintf(out, "== %q (page %d)\n", res.Query.Search, res.Page.Page)
			printPage(out, res.Page)
		}
	}()

	sc := bufio.NewScanner(c.input)
	for sc.Scan() {
		b.Type(cmd.Context(), sc.Text())
	}
	b.Flush()
	b.Close()
	<-printed
	return sc.Err()
}

func printProducts(w io.Writer, products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tCATEGORY\tPRICE")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, pricing.FormatUSD(p.Price))
	}
	_ = tw.Flush()
}

func printPage(w io.Writer, page domain.Page) {
	printProducts(w, page.Products)
	if len(page.Products) > 0 {
		more := ""
		if page.HasMore {
			more = ", more available"
		}
		fmt.Fprintf(w, "page %d, %d total%s\n", page.Page, page.Total, more)
	}
}
