// Command quote prices line items against a YAML catalog file without a database.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain/services"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/queries/check_promo_code"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/repo/memory"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/usecases/compute_price"
	"github.com/light-bringer/adpricing-service/internal/pkg/clock"
	"github.com/light-bringer/adpricing-service/internal/pkg/logger"
	"github.com/light-bringer/adpricing-service/internal/transport/dto"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// cli holds the state shared by the subcommands.
type cli struct {
	catalogFile  string
	asOf         string
	logLevel     string
	noPromotions bool

	catalog *memory.Catalog
	logger  *zap.Logger
	clock   clock.Clock
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "quote",
		Short:         "Price advertising line items against a catalog file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			c.logger, err = logger.New(c.logLevel, false)
			if err != nil {
				return err
			}
			c.clock, err = c.pricingClock()
			if err != nil {
				return err
			}
			c.catalog, err = memory.LoadCatalog(c.catalogFile)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.catalogFile, "catalog", "catalog.yaml", "catalog file with rates and discount rules")
	root.PersistentFlags().StringVar(&c.asOf, "as-of", "", "pricing instant, RFC 3339 (default now)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level")
	root.PersistentFlags().BoolVar(&c.noPromotions, "no-promotions", false, "ignore promo codes")

	root.AddCommand(c.priceCmd(), c.batchCmd(), c.promoCmd())
	return root
}

func (c *cli) priceCmd() *cobra.Command {
	var (
		product  string
		quantity int64
		duration int64
		promo    string
	)

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price one line item",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &compute_price.Request{
				Product:            product,
				Quantity:           quantity,
				DurationDays:       duration,
				SuppressPromotions: c.suppress(),
			}
			if promo != "" {
				req.PromoCodes = []string{promo}
			}

			q, err := c.interactor().Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), q)
		},
	}

	cmd.Flags().StringVar(&product, "product", "", "box-advertising, sponsored-placement or service")
	cmd.Flags().Int64Var(&quantity, "quantity", 1, "number of units")
	cmd.Flags().Int64Var(&duration, "duration", 1, "duration in days")
	cmd.Flags().StringVar(&promo, "promo", "", "promo code")
	_ = cmd.MarkFlagRequired("product")
	return cmd
}

// batchFile is the YAML layout read by the batch command.
type batchFile struct {
	Items []batchItem `yaml:"items"`
}

type batchItem struct {
	Product      string `yaml:"product"`
	Quantity     int64  `yaml:"quantity"`
	DurationDays int64  `yaml:"duration_days"`
	PromoCode    string `yaml:"promo_code"`
}

func (c *cli) batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <items.yaml>",
		Short: "Price a batch of line items; failed items are reported inline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read items: %w", err)
			}
			var file batchFile
			if err := yaml.Unmarshal(raw, &file); err != nil {
				return fmt.Errorf("failed to decode items %s: %w", args[0], err)
			}

			req := &compute_price.BatchRequest{}
			for _, item := range file.Items {
				r := &compute_price.Request{
					Product:            item.Product,
					Quantity:           item.Quantity,
					DurationDays:       item.DurationDays,
					SuppressPromotions: c.suppress(),
				}
				if item.PromoCode != "" {
					r.PromoCodes = []string{item.PromoCode}
				}
				req.Items = append(req.Items, r)
			}

			items := c.interactor().ExecuteBatch(cmd.Context(), req)
			return writeJSON(cmd.OutOrStdout(), dto.BatchQuoteResponse{Items: items})
		},
	}
}

func (c *cli) promoCmd() *cobra.Command {
	var product string

	cmd := &cobra.Command{
		Use:   "promo <code>",
		Short: "Check whether a promo code is redeemable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := check_promo_code.NewQuery(c.catalog, c.clock)
			res, err := query.Execute(cmd.Context(), &check_promo_code.Request{
				Code:    args[0],
				Product: product,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.FromPromoCodeResult(res))
		},
	}

	cmd.Flags().StringVar(&product, "product", "", "limit the check to one product")
	return cmd
}

func (c *cli) interactor() *compute_price.Interactor {
	return compute_price.NewInteractor(
		contracts.Providers{Rates: c.catalog, Rules: c.catalog},
		services.NewPriceCalculator(),
		c.clock,
		compute_price.Options{PromotionsEnabled: true},
		c.logger,
	)
}

func (c *cli) suppress() *bool {
	if !c.noPromotions {
		return nil
	}
	suppress := true
	return &suppress
}

// pricingClock pins every lookup to --as-of when it is given.
func (c *cli) pricingClock() (clock.Clock, error) {
	if c.asOf == "" {
		return clock.NewRealClock(), nil
	}
	t, err := time.Parse(time.RFC3339, c.asOf)
	if err != nil {
		return nil, fmt.Errorf("invalid --as-of: %w", err)
	}
	return clock.At(t), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
