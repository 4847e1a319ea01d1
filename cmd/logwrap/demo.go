package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/logwrap/pkg/intercept"
)

var (
	errOutOfStock = errors.New("out of stock")
	errDeclined   = errors.New("card declined")
)

// shop is the demo service. Reserve and Charge are collaborators stored as
// func fields so that wrapping with class properties intercepts them too.
type shop struct {
	mu     sync.Mutex
	stock  map[string]int
	prices map[string]int

	Reserve func(ctx context.Context, sku string, qty int) error
	Charge  func(ctx context.Context, card string, amount int) (string, error)
}

func newShop() *shop {
	s := &shop{
		stock:  map[string]int{"book": 100, "lamp": 1},
		prices: map[string]int{"book": 12, "lamp": 40},
	}
	s.Reserve = s.reserve
	s.Charge = charge
	return s
}

func (s *shop) reserve(_ context.Context, sku string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stock[sku] < qty {
		return errOutOfStock
	}
	s.stock[sku] -= qty
	return nil
}

func charge(_ context.Context, card string, amount int) (string, error) {
	if strings.HasSuffix(card, "0000") {
		return "", errDeclined
	}
	return fmt.Sprintf("rcpt-%s-%d", uuid.NewString()[:8], amount), nil
}

// PlaceOrder reserves stock and charges the card.
func (s *shop) PlaceOrder(ctx context.Context, sku string, qty int, card string) (string, error) {
	if err := s.Reserve(ctx, sku, qty); err != nil {
		return "", err
	}
	return s.Charge(ctx, card, qty*s.prices[sku])
}

// PlaceOrderAsync is PlaceOrder in the background.
func (s *shop) PlaceOrderAsync(ctx context.Context, sku string, qty int, card string) *intercept.Future {
	return intercept.Go(ctx, func(ctx context.Context) (any, error) {
		return s.PlaceOrder(ctx, sku, qty, card)
	})
}

type demoOptions struct {
	deepest     bool
	errorsOnly  bool
	duplicates  bool
	paramsLevel string
	concurrency int
}

type order struct {
	sku  string
	qty  int
	card string
}

func newDemoCmd(configPath *string) *cobra.Command {
	var opts demoOptions

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a small intercepted service and print its logs",
		Long: `Run a demo shop service whose methods and collaborators are intercepted.
It places a successful order, one that fails deep in the call chain, one
that fails at the payment step, and a batch of concurrent async orders.

Examples:
  # Default settings
  logwrap demo

  # Log nested failures once and show params
  logwrap demo --deepest --params-level debug

  # Only failures, stacked twice
  logwrap demo --errors-only --duplicates`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := intercept.ConfigFromFile(*configPath)
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, &cfg); err != nil {
				return err
			}
			return runDemo(cmd, cfg, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.deepest, "deepest", false, "log a propagating error only where it started")
	cmd.Flags().BoolVar(&opts.errorsOnly, "errors-only", false, "skip success logs")
	cmd.Flags().BoolVar(&opts.duplicates, "duplicates", false, "wrap twice to show stacked layers")
	cmd.Flags().StringVar(&opts.paramsLevel, "params-level", "", "log params at this level (trace|debug|info|warn|error)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 3, "number of concurrent async orders")
	return cmd
}

// apply overrides cfg with the flags the user set explicitly.
func (o demoOptions) apply(cmd *cobra.Command, cfg *intercept.Config) error {
	flags := cmd.Flags()
	if flags.Changed("deepest") {
		cfg.LogErrors.Deepest = intercept.Bool(o.deepest)
	}
	if flags.Changed("errors-only") {
		cfg.ErrorsOnly = intercept.Bool(o.errorsOnly)
	}
	if flags.Changed("duplicates") {
		cfg.Duplicates = intercept.Bool(o.duplicates)
	}
	if o.paramsLevel != "" {
		lvl, err := intercept.ParseLevel(o.paramsLevel)
		if err != nil {
			return err
		}
		cfg.ParamsLevel = intercept.Static(lvl)
	}
	if o.concurrency < 0 {
		return fmt.Errorf("concurrency must be >= 0, got %d", o.concurrency)
	}
	return nil
}

func runDemo(cmd *cobra.Command, cfg intercept.Config, opts demoOptions) error {
	w, err := intercept.New(cfg)
	if err != nil {
		return err
	}

	s := newShop()
	svc, err := intercept.Bind(s)
	if err != nil {
		return err
	}

	local := &intercept.Options{ClassProperties: intercept.Bool(true)}
	if cfg.ParamsSanitizer == nil {
		local.ParamsSanitizer = intercept.MustRedact(`\d{4}-\d{4}-\d{4}-`)
	}
	passes := 1
	if opts.duplicates {
		passes = 2
	}
	for range passes {
		if _, err := w.Wrap(svc, local); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	orders := []order{
		{sku: "book", qty: 2, card: "4111-1111-1111-1111"},
		{sku: "lamp", qty: 3, card: "4111-1111-1111-1111"},
		{sku: "book", qty: 1, card: "4000-0000-0000-0000"},
	}
	for i, o := range orders {
		res, err := svc.Call(ctx, "PlaceOrder", o.sku, o.qty, o.card)
		report(out, fmt.Sprintf("order %d", i+1), res, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	results := make([]string, opts.concurrency)
	for i := range opts.concurrency {
		g.Go(func() error {
			res, err := svc.Call(gctx, "PlaceOrderAsync", "book", 1, "5500-0000-0000-0004")
			if err != nil {
				return err
			}
			v, err := res.(*intercept.Future).Await(gctx)
			if err != nil {
				return err
			}
			results[i] = fmt.Sprint(v)
			return nil
		})
	}
	err = g.Wait()
	for i, r := range results {
		if r != "" {
			report(out, fmt.Sprintf("async order %d", i+1), r, nil)
		}
	}
	return err
}

func report(w io.Writer, label string, res any, err error) {
	if err != nil {
		fmt.Fprintf(w, "%s: error: %v\n", label, err)
		return
	}
	fmt.Fprintf(w, "%s: %v\n", label, res)
}
