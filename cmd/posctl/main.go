// posctl is the operator's terminal: it drives the same payment service the
// HTTP daemon exposes, but face to face. Charge a card, watch the journal,
// look up accounts, email a receipt. One operator, one submission at a time.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dwgops/pospay/internal/alert"
	"github.com/dwgops/pospay/internal/card"
	"github.com/dwgops/pospay/internal/config"
	"github.com/dwgops/pospay/internal/domain"
	"github.com/dwgops/pospay/internal/faillog"
	"github.com/dwgops/pospay/internal/gateway"
	"github.com/dwgops/pospay/internal/journal"
	"github.com/dwgops/pospay/internal/ledger"
	"github.com/dwgops/pospay/internal/receipt"
	"github.com/dwgops/pospay/internal/service"
	"github.com/dwgops/pospay/internal/store"
)

// clipboardSink copies the auth reference so the operator can paste it into
// whatever they are reconciling with.
type clipboardSink struct{}

func (clipboardSink) Copy(ref string) error { return clipboard.WriteAll(ref) }

type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	pool     *pgxpool.Pool
	gw       *gateway.Client
	journal  *journal.Journal
	accounts *store.AccountStore
	orch     *service.Orchestrator
	receipts *receipt.SMTPSender
}

func newApp() (*app, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(context.Background(), cfg.DBSource)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	gw := gateway.NewClient(cfg.GatewayURL, cfg.GatewayPublicKey, cfg.GatewayPrivateKey)
	if gw.Sandbox() {
		fmt.Fprintln(os.Stderr, "== Sandbox Environment -- Not for normal use -- Payments are not real ==")
	}

	var alerts alert.Notifier = alert.Discard{}
	if cfg.PushoverToken != "" {
		alerts = alert.NewPushover(cfg.PushoverToken, cfg.PushoverUser, logger)
	}

	failures := faillog.New(cfg.FailureLogPath, cfg.Operator, logger)
	j := journal.New(cfg.JournalPath)
	poster := ledger.NewPoster(pool, cfg.Operator, cfg.Hostname, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		gw:       gw,
		journal:  j,
		accounts: store.NewAccountStore(pool),
		orch:     service.NewOrchestrator(gw, poster, j, alerts, clipboardSink{}, failures, logger),
		receipts: receipt.NewSMTPSender(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword, logger),
	}, nil
}

func (a *app) close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func main() {
	root := &cobra.Command{
		Use:           "posctl",
		Short:         "MOTO payment terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(chargeCmd(), journalCmd(), accountCmd(), receiptCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func chargeCmd() *cobra.Command {
	var (
		customer string
		amount   string
		cardNum  string
		expiry   string
		cvc      string
		desc     string
	)

	cmd := &cobra.Command{
		Use:   "charge",
		Short: "Submit a MOTO payment (max $3,000)",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Same gating as the form: an invalid card never reaches the
			// gateway.
			if !card.Validate(cardNum) {
				return fmt.Errorf("card number failed validation")
			}
			month, year, ok := strings.Cut(expiry, "/")
			if !ok {
				return fmt.Errorf("expiry must be MM/YY")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			a.warnIfInactive(cmd.Context(), customer)

			outcome := a.orch.Process(cmd.Context(), domain.PaymentRequest{
				CardNumber:    cardNum,
				ExpiryMonth:   month,
				ExpiryYear:    year,
				CVC:           cvc,
				AmountText:    amount,
				CustomerLabel: customer,
				Description:   desc,
			})

			fmt.Println(outcome.Message)
			if outcome.State == domain.StateSuccess && !outcome.Applied {
				fmt.Println("(reference copied to clipboard)")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "customer label, e.g. \"12345 Smith\" (00000 for new accounts)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount in dollars, e.g. $50.00")
	cmd.Flags().StringVar(&cardNum, "card", "", "16-digit card number")
	cmd.Flags().StringVar(&expiry, "expiry", "", "expiry as MM/YY")
	cmd.Flags().StringVar(&cvc, "cvc", "", "3-digit security code")
	cmd.Flags().StringVar(&desc, "description", "", "order description")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("card")
	cmd.MarkFlagRequired("expiry")
	cmd.MarkFlagRequired("cvc")

	return cmd
}

// warnIfInactive mirrors the form's pre-submit account check: a bad or
// inactive account is worth a warning, never a hard stop, because the
// operator may be taking a payment for a brand new customer.
func (a *app) warnIfInactive(ctx context.Context, customer string) {
	token, _, _ := strings.Cut(customer, " ")
	if token == "" || token == domain.SentinelAccount {
		return
	}
	acct, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %q is not an account number; payment will not be applied to a ledger account\n", token)
		return
	}
	account, err := a.accounts.GetAccount(ctx, acct)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: account %d not found; payment will not be applied to a ledger account\n", acct)
		return
	}
	if account.Inactive {
		fmt.Fprintf(os.Stderr, "warning: account %d is inactive\n", acct)
	}
}

func journalCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show the most recent payment attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			if err := printJournal(a.journal); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			ticker := time.NewTicker(3500 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case <-ticker.C:
					fmt.Println("----")
					if err := printJournal(a.journal); err != nil {
						return err
					}
				}
			}
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "refresh the view periodically")
	return cmd
}

func printJournal(j *journal.Journal) error {
	entries, err := j.Recent()
	if err != nil {
		return err
	}
	for i, e := range entries {
		status := "⚠️"
		switch {
		case e.Outcome == "APPROVED":
			status = "✅"
		case strings.Contains(e.Outcome, "DECLINED"):
			status = "❌"
		}
		fmt.Printf("%d %s %s - %s - %s\n",
			i, status, e.CustomerLabel, e.AmountText, e.When().Format("02-01-2006 15:04:05"))
	}
	return nil
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Look up or search ledger accounts",
	}

	lookup := &cobra.Command{
		Use:   "lookup <acct>",
		Short: "Fetch one account by its 5-digit code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("account number must be numeric")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			account, err := a.accounts.GetAccount(cmd.Context(), acct)
			if err != nil {
				return err
			}
			printAccount(*account)
			return nil
		},
	}

	search := &cobra.Command{
		Use:   "search <name>",
		Short: "Search accounts by first or last name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			accounts, err := a.accounts.SearchAccounts(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, acc := range accounts {
				printAccount(acc)
			}
			return nil
		},
	}

	cmd.AddCommand(lookup, search)
	return cmd
}

func printAccount(a domain.Account) {
	name := a.LastName
	if a.First != nil {
		name = *a.First + " " + a.LastName
	}
	line := fmt.Sprintf("%d - %s (balance $%s)", a.Acct, name, a.Balance.StringFixed(2))
	if a.Inactive {
		line += " [inactive]"
	}
	if a.Email != nil {
		line += " <" + *a.Email + ">"
	}
	fmt.Println(line)
}

func receiptCmd() *cobra.Command {
	var (
		to       string
		customer string
		amount   string
		when     int64
		authCode string
	)

	cmd := &cobra.Command{
		Use:   "receipt",
		Short: "Email an HTML receipt for a past payment",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			// Prefill the address from the account when the operator
			// didn't supply one, the way the form did.
			if to == "" {
				to = a.lookupEmail(cmd.Context(), customer)
			}
			if to == "" {
				return fmt.Errorf("no recipient address (supply --to or use a customer with an email on file)")
			}

			body, err := receipt.Render(customer, amount, time.Unix(when, 0), authCode)
			if err != nil {
				return err
			}
			if err := a.receipts.Send(to, body); err != nil {
				return err
			}
			fmt.Println("Email sent successfully!")
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "recipient email address")
	cmd.Flags().StringVar(&customer, "customer", "", "customer label from the journal entry")
	cmd.Flags().StringVar(&amount, "amount", "", "amount text from the journal entry")
	cmd.Flags().Int64Var(&when, "time", time.Now().Unix(), "unix timestamp of the payment")
	cmd.Flags().StringVar(&authCode, "auth", "", "authorization reference")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("auth")

	return cmd
}

func (a *app) lookupEmail(ctx context.Context, customer string) string {
	token, _, _ := strings.Cut(customer, " ")
	acct, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return ""
	}
	account, err := a.accounts.GetAccount(ctx, acct)
	if err != nil || account.Email == nil {
		return ""
	}
	return *account.Email
}
