package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pquerna/otp/totp"

	"github.com/toshilabs/toshiref/pkg/cryptox"
	"github.com/toshilabs/toshiref/pkg/refsdk"
)

type globals struct {
	URL     string
	Timeout time.Duration
}

func (g *globals) client() *refsdk.Client { return refsdk.NewClient(g.URL) }

func (g *globals) withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), g.Timeout)
}

func configureGlobals(app *kingpin.Application) *globals {
	g := &globals{}
	app.Flag("url", "Base URL of the refdash API").
		Envar("REFDASH_URL").
		Default("http://localhost:8080").
		StringVar(&g.URL)
	app.Flag("timeout", "Request timeout").
		Default("10s").
		DurationVar(&g.Timeout)
	return g
}

func configureHashKeyCommand(app *kingpin.Application) {
	var pepperFile, key string

	cmd := app.Command("hash-key", "Print the AUTH_SHARED_KEY_HASH value for a key (read from stdin when omitted)")
	cmd.Flag("pepper-file", "Pepper file shared with the server").
		Envar("AUTH_PEPPER_FILE").
		Default("pepper").
		StringVar(&pepperFile)
	cmd.Arg("key", "Shared key").StringVar(&key)

	cmd.Action(func(*kingpin.ParseContext) error {
		if key == "" {
			var err error
			if key, err = readLine(os.Stdin); err != nil {
				return err
			}
		}
		err := hashKey(os.Stdout, pepperFile, key)
		app.FatalIfError(err, "hash-key")
		return nil
	})
}

func hashKey(w io.Writer, pepperFile, key string) error {
	if key == "" {
		return errors.New("key is empty")
	}
	pepper, err := cryptox.LoadOrCreatePepper(pepperFile)
	if err != nil {
		return err
	}
	hash, err := cryptox.NewSecretHasher(pepper).Hash(key)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, hash)
	return err
}

func configureTOTPCommand(app *kingpin.Application) {
	var issuer, account string

	cmd := app.Command("totp-secret", "Generate an AUTH_TOTP_SECRET and its otpauth:// enrolment URL")
	cmd.Flag("issuer", "Issuer shown in the authenticator app").Default("ToshiRef").StringVar(&issuer)
	cmd.Flag("account", "Account name shown in the authenticator app").Default("dashboard").StringVar(&account)

	cmd.Action(func(*kingpin.ParseContext) error {
		err := generateTOTP(os.Stdout, issuer, account)
		app.FatalIfError(err, "totp-secret")
		return nil
	})
}

func generateTOTP(w io.Writer, issuer, account string) error {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: issuer, AccountName: account})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "AUTH_TOTP_SECRET=%s\n%s\n", key.Secret(), key.URL())
	return err
}

func configureDecideCommand(app *kingpin.Application, g *globals, name, decision, help string) {
	var token, code string

	cmd := app.Command(name, help)
	cmd.Flag("token", "Approver token").Envar("APPROVER_TOKEN").Required().StringVar(&token)
	cmd.Arg("code", "Authorization code").Required().StringVar(&code)

	cmd.Action(func(*kingpin.ParseContext) error {
		ctx, cancel := g.withTimeout()
		defer cancel()

		err := decide(ctx, os.Stdout, g.client(), token, code, decision)
		app.FatalIfError(err, "%s", name)
		return nil
	})
}

func decide(ctx context.Context, w io.Writer, c *refsdk.Client, token, code, decision string) error {
	resp, err := c.Decide(ctx, token, code, decision)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, resp.Message)
	return err
}

func configureStatusCommand(app *kingpin.Application, g *globals) {
	var token, code string

	cmd := app.Command("status", "Show the status of an authorization code without consuming it")
	cmd.Flag("token", "Approver token").Envar("APPROVER_TOKEN").Required().StringVar(&token)
	cmd.Arg("code", "Authorization code").Required().StringVar(&code)

	cmd.Action(func(*kingpin.ParseContext) error {
		ctx, cancel := g.withTimeout()
		defer cancel()

		err := lookup(ctx, os.Stdout, g.client(), token, code)
		app.FatalIfError(err, "status")
		return nil
	})
}

func lookup(ctx context.Context, w io.Writer, c *refsdk.Client, token, code string) error {
	resp, err := c.Lookup(ctx, token, code)
	if err != nil {
		return err
	}
	if resp.DecidedAt == nil {
		_, err = fmt.Fprintf(w, "%s (expires %s)\n", resp.Status, resp.ExpiresAt.Format(time.RFC3339))
		return err
	}
	_, err = fmt.Fprintf(w, "%s by %s at %s\n", resp.Status, resp.DecidedBy, resp.DecidedAt.Format(time.RFC3339))
	return err
}

func configureLoginCommand(app *kingpin.Application, g *globals) {
	var key, otpCode string
	var wait time.Duration

	cmd := app.Command("login", "Request a dashboard session and wait for approval")
	cmd.Flag("key", "Shared key").Envar("REFDASH_KEY").Required().StringVar(&key)
	cmd.Flag("otp", "One-time code, when the server requires one").StringVar(&otpCode)
	cmd.Flag("wait", "How long to wait for the approver").Default("5m").DurationVar(&wait)

	cmd.Action(func(*kingpin.ParseContext) error {
		ctx, cancel := context.WithTimeout(context.Background(), wait)
		defer cancel()

		err := login(ctx, os.Stdout, os.Stderr, g.client(), key, otpCode)
		app.FatalIfError(err, "login")
		return nil
	})
}

// login prints the code to stderr for the approver and the session token to
// stdout so it can be captured.
func login(ctx context.Context, out, info io.Writer, c *refsdk.Client, key, otpCode string) error {
	code, err := c.Begin(ctx, key, otpCode)
	if err != nil {
		return err
	}
	fmt.Fprintf(info, "waiting for approval of %s\n", code)

	sess, err := c.WaitForApproval(ctx, code)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, sess.Token())
	return err
}

func configureHealthCommand(app *kingpin.Application, g *globals) {
	cmd := app.Command("health", "Query the readiness probe")

	cmd.Action(func(*kingpin.ParseContext) error {
		ctx, cancel := g.withTimeout()
		defer cancel()

		resp, err := g.client().GetReadiness(ctx)
		app.FatalIfError(err, "health")
		fmt.Printf("%s (version %s, uptime %s)\n", resp.Status, resp.Version, resp.Uptime)
		if resp.Checks != nil {
			fmt.Printf("  database:      %s\n  pending store: %s\n", resp.Checks.Database, resp.Checks.PendingStore)
		}
		return nil
	})
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
