package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"stockval/internal/application"
	"stockval/internal/bootstrap"
	"stockval/internal/domain"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// env carries the output streams and builds the service on first use, so
// help and usage errors work without any configuration.
type env struct {
	out, errOut io.Writer
	build       func() (*application.ValuationService, func(), error)
	svc         *application.ValuationService
	cleanup     func()
}

func newEnv(out, errOut io.Writer) *env {
	return &env{out: out, errOut: errOut, build: func() (*application.ValuationService, func(), error) {
		app, cleanup, err := bootstrap.Init()
		if err != nil {
			return nil, cleanup, err
		}
		return app.Service, cleanup, nil
	}}
}

func (e *env) service() (*application.ValuationService, error) {
	if e.svc != nil {
		return e.svc, nil
	}
	svc, cleanup, err := e.build()
	if err != nil {
		return nil, err
	}
	e.svc, e.cleanup = svc, cleanup
	return svc, nil
}

func (e *env) close() {
	if e.cleanup != nil {
		e.cleanup()
	}
}

// fail prints err and maps it to an exit status.
func (e *env) fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(e.errOut, "Error:", err)
	return subcommands.ExitFailure
}

func (e *env) usage(f *flag.FlagSet, format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(e.errOut, format+"\n", args...)
	f.Usage()
	return subcommands.ExitUsageError
}

// base validates an explicit -b flag against the rate provider.
func (e *env) base(ctx context.Context, svc *application.ValuationService, raw string) (domain.Currency, error) {
	if raw == "" {
		return svc.DefaultBase(), nil
	}
	return svc.CheckCurrency(ctx, raw)
}

func commands(e *env) []subcommands.Command {
	return []subcommands.Command{
		&valueCmd{env: e},
		&portfolioCmd{env: e},
		&changeCmd{env: e},
		&currenciesCmd{env: e},
	}
}

type valueCmd struct {
	*env
	date string
	cur  string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "close value of a symbol on a date, in the base currency" }
func (*valueCmd) Usage() string {
	return `stockval value [-d <date>] [-b <currency>] <symbol>

  Prints the close of <symbol> on the last trading day at or before
  <date>, converted into the base currency.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Valuation date (YYYY-MM-DD, defaults to today).")
	f.StringVar(&c.cur, "b", "", "Base currency (defaults to BASE_CURRENCY).")
}

func (c *valueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.usage(f, "value takes exactly one symbol")
	}
	svc, err := c.service()
	if err != nil {
		return c.fail(err)
	}
	base, err := c.base(ctx, svc, c.cur)
	if err != nil {
		return c.fail(err)
	}
	v, err := svc.CloseValue(ctx, f.Arg(0), c.date, base)
	if err != nil {
		return c.fail(err)
	}
	fmt.Fprintf(c.out, "%s on %s (%s): %s\n", v.Symbol, v.Date, v.TradingDay, v.Base.Format(v.Value))
	if v.RateFallback {
		fmt.Fprintf(c.out, "warning: no %s/%s rate, converted at 1\n", v.Native, v.Base)
	}
	return subcommands.ExitSuccess
}

type portfolioCmd struct {
	*env
	date string
	cur  string
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "total value of holdings on a date" }
func (*portfolioCmd) Usage() string {
	return `stockval portfolio [-d <date>] [-b <currency>] <symbol>:<quantity>...

  Values every holding and prints one line each plus the total. If any
  holding cannot be valued no total is printed.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Valuation date (YYYY-MM-DD, defaults to today).")
	f.StringVar(&c.cur, "b", "", "Base currency (defaults to BASE_CURRENCY).")
}

func (c *portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return c.usage(f, "portfolio needs at least one <symbol>:<quantity>")
	}
	holdings, err := parseHoldings(f.Args())
	if err != nil {
		return c.usage(f, "%v", err)
	}
	svc, err := c.service()
	if err != nil {
		return c.fail(err)
	}
	base, err := c.base(ctx, svc, c.cur)
	if err != nil {
		return c.fail(err)
	}
	pv, err := svc.PortfolioValue(ctx, holdings, c.date, base)
	if err != nil {
		return c.fail(err)
	}
	for _, l := range pv.Lines {
		fmt.Fprintf(c.out, "%-10s %12s x %-14s = %s\n",
			l.Holding.Symbol, l.Holding.Quantity.String(), pv.Base.Format(l.Valuation.Value), pv.Base.Format(l.Value))
	}
	fmt.Fprintf(c.out, "Total on %s: %s\n", pv.Date, pv.Base.Format(pv.Total))
	return subcommands.ExitSuccess
}

func parseHoldings(args []string) ([]domain.Holding, error) {
	out := make([]domain.Holding, 0, len(args))
	for _, a := range args {
		sym, qty, ok := strings.Cut(a, ":")
		if !ok || sym == "" {
			return nil, fmt.Errorf("holding %q: want <symbol>:<quantity>", a)
		}
		q, err := decimal.NewFromString(qty)
		if err != nil || !q.IsPositive() {
			return nil, fmt.Errorf("holding %q: quantity must be a positive number", a)
		}
		out = append(out, domain.Holding{Symbol: sym, Quantity: q})
	}
	return out, nil
}

type changeCmd struct {
	*env
	cur string
}

func (*changeCmd) Name() string     { return "change" }
func (*changeCmd) Synopsis() string { return "percent change of a symbol between two dates" }
func (*changeCmd) Usage() string {
	return `stockval change [-b <currency>] <symbol> <day1> <day2>

  Prints (value on day1 - value on day2) / value on day2 * 100.
`
}

func (c *changeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.cur, "b", "", "Base currency (defaults to BASE_CURRENCY).")
}

func (c *changeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		return c.usage(f, "change takes <symbol> <day1> <day2>")
	}
	svc, err := c.service()
	if err != nil {
		return c.fail(err)
	}
	base, err := c.base(ctx, svc, c.cur)
	if err != nil {
		return c.fail(err)
	}
	ch, err := svc.PercentChange(ctx, f.Arg(0), f.Arg(1), f.Arg(2), base)
	if err != nil {
		return c.fail(err)
	}
	fmt.Fprintf(c.out, "%s %s -> %s: %s%%\n", ch.Symbol, ch.Day2.TradingDay, ch.Day1.TradingDay, ch.Percent.StringFixed(2))
	return subcommands.ExitSuccess
}

type currenciesCmd struct{ *env }

func (*currenciesCmd) Name() string           { return "currencies" }
func (*currenciesCmd) Synopsis() string       { return "list the currencies usable as a base" }
func (*currenciesCmd) Usage() string          { return "stockval currencies\n" }
func (*currenciesCmd) SetFlags(*flag.FlagSet) {}

func (c *currenciesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := c.service()
	if err != nil {
		return c.fail(err)
	}
	list, err := svc.Currencies(ctx)
	if err != nil {
		return c.fail(err)
	}
	for _, cur := range list {
		mark := " "
		if cur == svc.DefaultBase() {
			mark = "*"
		}
		fmt.Fprintf(c.out, "%s %s\n", mark, cur)
	}
	return subcommands.ExitSuccess
}
