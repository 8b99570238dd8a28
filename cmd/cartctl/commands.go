package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	catalogv1 "github.com/dwikikusuma/videoshop-cart/api/catalog/v1"
	cartapp "github.com/dwikikusuma/videoshop-cart/internal/cart/app"
	"github.com/dwikikusuma/videoshop-cart/internal/cart/domain"
	"github.com/dwikikusuma/videoshop-cart/internal/cart/infra/adapter"
	"github.com/dwikikusuma/videoshop-cart/internal/cart/infra/sqlite"
	"github.com/dwikikusuma/videoshop-cart/pkg/config"
	"github.com/dwikikusuma/videoshop-cart/pkg/logger"
	"github.com/spf13/cobra"
)

// writeWarning is appended to the help of commands that rewrite cart state.
const writeWarning = `Writes go straight to the state database. Run it only while no gateway
serves this database: a gateway holding the cart in memory overwrites the
change on its next mutation of that cart.`

type options struct {
	dbPath      string
	catalogAddr string
	logLevel    string
	locale      string
	asJSON      bool
}

func rootCmd(cfg config.Config) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "cartctl",
		Short:         "Inspect and repair persisted shopper carts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", cfg.Cart.DBPath, "SQLite cart state database")
	cmd.PersistentFlags().StringVar(&opts.catalogAddr, "catalog", cfg.CatalogAddr, "Catalog gRPC address (sync only)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	show := &cobra.Command{
		Use:   "show <session>",
		Short: "Print a session's cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return withSessions(c, cfg, opts, nil, func(ss *cartapp.Sessions) error {
				st, err := ss.Cart(c.Context(), args[0])
				if err != nil {
					return err
				}
				return printCart(c.OutOrStdout(), st.Snapshot(), opts)
			})
		},
	}
	show.Flags().StringVar(&opts.locale, "locale", "en", "Item name locale (en, ko)")
	show.Flags().BoolVar(&opts.asJSON, "json", false, "Print the cart as JSON")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "sessions",
			Short: "List sessions with a persisted cart",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, args []string) error {
				return withSessions(c, cfg, opts, nil, func(ss *cartapp.Sessions) error {
					ids, err := ss.List(c.Context())
					if err != nil {
						return err
					}
					for _, id := range ids {
						fmt.Fprintln(c.OutOrStdout(), id)
					}
					return nil
				})
			},
		},
		show,
		&cobra.Command{
			Use:   "clear <session>",
			Short: "Empty a session's cart",
			Long:  "Empty a session's cart.\n\n" + writeWarning,
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				return withSessions(c, cfg, opts, nil, func(ss *cartapp.Sessions) error {
					st, err := ss.Cart(c.Context(), args[0])
					if err != nil {
						return err
					}
					removed := st.Len()
					st.Clear(c.Context())
					fmt.Fprintf(c.OutOrStdout(), "cleared %s (%d items removed)\n", args[0], removed)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "sync <session>",
			Short: "Reconcile a session's cart with the catalog once",
			Long:  "Reconcile a session's cart with the catalog once.\n\n" + writeWarning,
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				conn, err := adapter.DialCatalog(opts.catalogAddr)
				if err != nil {
					return err
				}
				defer conn.Close()
				stock := adapter.NewCatalogClient(catalogv1.NewCatalogServiceClient(conn))

				return withSessions(c, cfg, opts, stock, func(ss *cartapp.Sessions) error {
					st, err := ss.Cart(c.Context(), args[0])
					if err != nil {
						return err
					}
					r := st.SyncWithBackend(c.Context())
					if r.Err != nil {
						return r.Err
					}
					fmt.Fprintf(c.OutOrStdout(),
						"checked %d: %d out of stock, %d restocked, %d repriced, %d price flags, %d removed\n",
						r.Checked, r.MarkedOutOfStock, r.Restocked, r.PriceUpdated, r.PriceFlagged, r.Removed)
					return nil
				})
			},
		},
	)
	return cmd
}

// withSessions opens the state database, runs fn and closes everything again.
func withSessions(c *cobra.Command, cfg config.Config, opts *options, stock cartapp.StockChecker, fn func(*cartapp.Sessions) error) error {
	store, err := sqlite.Open(opts.dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	policy, err := cartapp.ParsePriceChangePolicy(cfg.Cart.PriceChangePolicy)
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Service: "cartctl",
		Env:     cfg.AppEnv,
		Level:   opts.logLevel,
		Output:  c.ErrOrStderr(),
	})

	ss := cartapp.NewSessions(cartapp.SessionsConfig{
		Store: cartapp.StoreConfig{
			Currency:           cfg.Cart.Currency,
			Shipping:           domain.ShippingPolicy{Fee: cfg.Cart.ShippingFee, FreeFrom: cfg.Cart.FreeShippingFrom},
			DefaultMaxQuantity: int32(cfg.Cart.DefaultMaxQty),
			PriceChangePolicy:  policy,
			SyncTimeout:        cfg.Cart.SyncTimeout,
		},
		SyncInterval: cfg.Cart.SyncInterval,
		IdleCarts:    cfg.Cart.IdleCarts,
	}, cartapp.Deps{
		Storage: store,
		Stock:   stock,
		Logger:  log.With(slog.String("db", opts.dbPath)),
	})
	defer ss.Close()

	return fn(ss)
}

func printCart(w io.Writer, c domain.Cart, opts *options) error {
	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tPRODUCT\tNAME\tQTY\tUNIT\tLINE\tSTOCK")
	for _, it := range c.Items {
		stock := "in"
		if !it.InStock {
			stock = "OUT"
		}
		if it.PendingPrice != nil {
			stock += fmt.Sprintf(" (now %d)", *it.PendingPrice)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%d\t%d\t%s\n",
			it.ID, it.ProductID, it.Name.In(opts.locale), it.Quantity, it.MaxQuantity, it.UnitPrice, it.LineTotal(), stock)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nsubtotal %d %s, shipping %d, discount %d", c.SubtotalAmount, c.Currency, c.ShippingAmount, c.DiscountAmount)
	if code := c.DiscountCode(); code != "" {
		fmt.Fprintf(w, " (%s)", code)
	}
	fmt.Fprintf(w, ", total %d\n", c.TotalAmount)
	if !c.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "revision %d, updated %s\n", c.Revision, c.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}
