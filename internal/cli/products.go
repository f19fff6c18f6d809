package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Showcase/internal/catalog"
)

type productsFlags struct {
	url      string
	paid     bool
	free     bool
	viewOnly bool
	search   string
	sort     string
	minPrice float64
	maxPrice float64
	asJSON   bool
}

func newProductsCommand(d Deps) *cobra.Command {
	var f productsFlags

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the visible products for a set of filters",
		Long: "Loads the catalog, seeds the filters from --url and then applies the\n" +
			"filter flags on top. Prints the visible list and the shareable link.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProducts(cmd, d, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.url, "url", "/products", "page address to seed the filters from")
	fl.BoolVar(&f.paid, "paid", false, "show paid products")
	fl.BoolVar(&f.free, "free", false, "show free products")
	fl.BoolVar(&f.viewOnly, "view-only", false, "show view-only products")
	fl.StringVar(&f.search, "search", "", "match title or owner, case-insensitive")
	fl.StringVar(&f.sort, "sort", "name", "name, higherPrice or lowerPrice")
	fl.Float64Var(&f.minPrice, "min-price", 0, "lowest price shown")
	fl.Float64Var(&f.maxPrice, "max-price", 0, "highest price shown (0 means no limit)")
	fl.BoolVar(&f.asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func runProducts(cmd *cobra.Command, d Deps, f productsFlags) error {
	loc := catalog.NewMemoryLocation(f.url)
	b := catalog.NewBrowser(loc, d.Log)
	if err := b.Init(cmd.Context(), d.Loader); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	fl := cmd.Flags()
	for _, cf := range []struct {
		flag string
		on   bool
		c    catalog.PricingCategory
	}{
		{"paid", f.paid, catalog.Paid},
		{"free", f.free, catalog.Free},
		{"view-only", f.viewOnly, catalog.ViewOnly},
	} {
		if fl.Changed(cf.flag) {
			b.SetCategories(b.State().Categories.With(cf.c, cf.on))
		}
	}
	if fl.Changed("search") {
		b.SetSearch(f.search)
	}
	if fl.Changed("sort") {
		k, err := catalog.ParseSortKey(f.sort)
		if err != nil {
			return err
		}
		b.SetSort(k)
	}
	if fl.Changed("min-price") {
		b.SetPriceMin(f.minPrice)
	}
	if fl.Changed("max-price") && f.maxPrice > 0 {
		b.SetPriceMax(f.maxPrice)
	}

	out := cmd.OutOrStdout()
	if f.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(catalog.ListResponse{
			Items: b.Visible(),
			Total: len(b.Visible()),
			Query: b.Query(),
		})
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tOWNER\tPRICING\tPRICE")
	for _, p := range b.Visible() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Title, p.OwnerName, p.Category, formatPrice(p))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d of %d products\nlink: %s\n", len(b.Visible()), len(b.Catalog()), loc)
	return nil
}

func formatPrice(p catalog.Product) string {
	if p.Price == nil {
		return "-"
	}
	return "$" + strconv.FormatFloat(*p.Price, 'f', 2, 64)
}
