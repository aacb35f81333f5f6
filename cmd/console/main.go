// Command console is a terminal client for the PayPSP API: sign-in
// with an optional second factor, profile and API key management, the
// KYC submission wizard, and the staff listings.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"paypsp/internal/console/api"
	"paypsp/internal/console/authflow"
	"paypsp/internal/console/session"
	"paypsp/internal/console/wizard"
	"paypsp/internal/validation"
)

type console struct {
	client *api.Client
	store  *session.Store
	flow   *authflow.Flow
	in     *bufio.Reader
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	baseURL := os.Getenv("PAYPSP_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	store := session.NewStore()
	client := api.NewClient(baseURL, store.AccessToken)
	c := &console{
		client: client,
		store:  store,
		flow:   authflow.New(client, store),
		in:     bufio.NewReader(os.Stdin),
	}

	switch os.Args[1] {
	case "login":
		c.cmdLogin(os.Args[2:])
	case "verify-email":
		c.cmdVerifyEmail(os.Args[2:])
	case "refresh":
		c.cmdRefresh(os.Args[2:])
	case "password":
		c.cmdPassword(os.Args[2:])
	case "mfa":
		c.cmdMFA(os.Args[2:])
	case "profile":
		c.cmdProfile(os.Args[2:])
	case "kyc":
		c.cmdKYC(os.Args[2:])
	case "keys":
		c.cmdKeys(os.Args[2:])
	case "admin":
		c.cmdAdmin(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: console <command> [args]

Commands:
  login                       sign in (prompts for credentials and 2FA)
  verify-email <token>        confirm the address from the registration token
  refresh                     exchange a refresh token for a new pair
  password                    change the account password
  mfa status|setup|enable|disable|backup-codes
                              two-factor authentication settings
  profile show|update         merchant profile
  kyc submit|status|cancel    identity verification
  keys list|create|revoke     API keys
  admin users|merchants|kyc   staff listings and review`)
}

func (c *console) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

func (c *console) prompt(label string) string {
	fmt.Print(label)
	line, _ := c.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// login drives the full auth flow, including the second-factor
// challenge when the server asks for one.
func (c *console) cmdLogin(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Account email (prompted when omitted)")
	fs.Parse(args)

	addr := *email
	if addr == "" {
		addr = c.prompt("Email: ")
	}
	password := c.prompt("Password: ")

	ctx, cancel := c.ctx()
	defer cancel()

	state, err := c.flow.SubmitCredentials(ctx, addr, password)
	if err != nil {
		die("%v", err)
	}

	switch state {
	case authflow.StateFailed:
		for field, msg := range c.flow.FieldErrors() {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
		}
		die("%s", c.flow.Message())
	case authflow.StateAwaitingSecondFactor:
		c.runChallenge(ctx)
	}

	sess := c.store.Current()
	fmt.Printf("Signed in as %s (%s)\n", sess.User.Email, sess.User.Role)
	fmt.Printf("Access token: %s\n", sess.AccessToken)
	fmt.Printf("Refresh token: %s\n", sess.RefreshToken)
}

func (c *console) runChallenge(ctx context.Context) {
	for {
		code := c.prompt("Two-factor code (or 'backup <code>'): ")
		useBackup := false
		if rest, ok := strings.CutPrefix(code, "backup "); ok {
			useBackup = true
			code = strings.TrimSpace(rest)
		}

		state, err := c.flow.SubmitSecondFactor(ctx, code, useBackup)
		if err != nil {
			die("%v", err)
		}
		if state == authflow.StateAuthenticated {
			return
		}
		fmt.Fprintln(os.Stderr, c.flow.Message())
	}
}

func (c *console) requireToken() {
	tok := os.Getenv("PAYPSP_TOKEN")
	if tok == "" {
		die("set PAYPSP_TOKEN (run 'console login' to obtain one)")
	}
	sess := session.Session{AccessToken: tok, RefreshToken: tok}
	if id, ok := session.IdentityFromToken(tok); ok {
		sess.User = id
	}
	c.store.Set(sess)
}

func (c *console) cmdVerifyEmail(args []string) {
	if len(args) < 1 {
		die("usage: console verify-email <token>")
	}
	ctx, cancel := c.ctx()
	defer cancel()

	if err := c.client.VerifyEmail(ctx, args[0]); err != nil {
		die("%v", err)
	}
	fmt.Println("Email verified")
}

func (c *console) cmdRefresh(args []string) {
	fs := flag.NewFlagSet("refresh", flag.ExitOnError)
	token := fs.String("token", os.Getenv("PAYPSP_REFRESH_TOKEN"), "Refresh token")
	fs.Parse(args)
	if *token == "" {
		die("pass -token or set PAYPSP_REFRESH_TOKEN")
	}

	ctx, cancel := c.ctx()
	defer cancel()

	resp, err := c.client.Refresh(ctx, *token)
	if err != nil {
		die("%v", err)
	}
	fmt.Printf("Access token: %s\n", resp.AccessToken)
	fmt.Printf("Refresh token: %s\n", resp.RefreshToken)
}

func (c *console) cmdPassword(args []string) {
	c.requireToken()
	ctx, cancel := c.ctx()
	defer cancel()

	current := c.prompt("Current password: ")
	updated := c.prompt("New password: ")
	if err := c.client.ChangePassword(ctx, current, updated); err != nil {
		die("%v", err)
	}
	fmt.Println("Password changed. Existing tokens are no longer valid; sign in again.")
}

func (c *console) cmdMFA(args []string) {
	if len(args) < 1 {
		die("usage: console mfa status|setup|enable|disable|backup-codes")
	}
	c.requireToken()
	ctx, cancel := c.ctx()
	defer cancel()

	switch args[0] {
	case "status":
		status, err := c.client.MFAStatus(ctx)
		if err != nil {
			die("%v", err)
		}
		fmt.Printf("Two-factor enabled: %t\n", status.Enabled)
		if status.BackupCodesRemaining != nil {
			fmt.Printf("Backup codes remaining: %d\n", *status.BackupCodesRemaining)
		}
	case "setup":
		setup, err := c.client.MFASetup(ctx)
		if err != nil {
			die("%v", err)
		}
		fmt.Printf("Secret: %s\n", setup.Secret)
		fmt.Printf("Provisioning URI: %s\n", setup.ProvisioningURI)
		printBackupCodes(setup.BackupCodes)
		fmt.Println("Add the secret to your authenticator, then run 'console mfa enable'.")
	case "enable":
		code := c.prompt("Authenticator code: ")
		if err := c.client.MFAEnable(ctx, code); err != nil {
			die("%v", err)
		}
		fmt.Println("Two-factor authentication enabled")
	case "disable":
		code := c.prompt("Authenticator code: ")
		password := c.prompt("Password: ")
		if err := c.client.MFADisable(ctx, code, password); err != nil {
			die("%v", err)
		}
		fmt.Println("Two-factor authentication disabled")
	case "backup-codes":
		code := c.prompt("Authenticator code: ")
		password := c.prompt("Password: ")
		codes, err := c.client.MFARegenerateBackupCodes(ctx, code, password)
		if err != nil {
			die("%v", err)
		}
		printBackupCodes(codes)
		fmt.Println("Previous backup codes no longer work.")
	default:
		die("usage: console mfa status|setup|enable|disable|backup-codes")
	}
}

func printBackupCodes(codes []string) {
	if len(codes) == 0 {
		return
	}
	fmt.Println("Backup codes (each works once, store them safely):")
	for _, code := range codes {
		fmt.Printf("  %s\n", code)
	}
}

func (c *console) cmdProfile(args []string) {
	if len(args) < 1 {
		die("usage: console profile show|update")
	}
	c.requireToken()
	ctx, cancel := c.ctx()
	defer cancel()

	switch args[0] {
	case "show":
		profile, err := c.client.GetProfile(ctx)
		if err != nil {
			die("%v", err)
		}
		printProfile(profile)
	case "update":
		fs := flag.NewFlagSet("profile update", flag.ExitOnError)
		name := fs.String("name", "", "Business name")
		regNo := fs.String("registration", "", "Registration number")
		taxID := fs.String("tax-id", "", "Tax ID")
		country := fs.String("country", "", "2-letter country code")
		fs.Parse(args[1:])

		var update api.ProfileUpdate
		if *name != "" {
			update.BusinessName = name
		}
		if *regNo != "" {
			update.RegistrationNumber = regNo
		}
		if *taxID != "" {
			update.TaxID = taxID
		}
		if *country != "" {
			normalized := validation.NormalizeCountry(*country)
			update.Address = &api.AddressUpdate{Country: &normalized}
		}

		profile, err := c.client.UpdateProfile(ctx, update)
		if err != nil {
			die("%v", err)
		}
		printProfile(profile)
	default:
		die("usage: console profile show|update")
	}
}

func printProfile(p *api.MerchantProfile) {
	fmt.Printf("%-20s %s\n", "Business:", p.BusinessName)
	fmt.Printf("%-20s %s\n", "Registration no:", p.RegistrationNumber)
	fmt.Printf("%-20s %s\n", "Tax ID:", p.TaxID)
	fmt.Printf("%-20s %s\n", "Country:", p.Address.Country)
	fmt.Printf("%-20s %s\n", "KYC status:", p.KYCStatus)
}

// cmdKYC walks the wizard non-interactively from flags, then performs
// the two-phase submission.
func (c *console) cmdKYC(args []string) {
	if len(args) < 1 {
		die("usage: console kyc submit|status|cancel")
	}
	c.requireToken()
	ctx, cancel := c.ctx()
	defer cancel()

	switch args[0] {
	case "status":
		status, err := c.client.GetKYCStatus(ctx)
		if err != nil {
			die("%v", err)
		}
		fmt.Printf("Job %s: %s (submitted %s)\n", status.ID, status.Status, status.CreatedAt.Format(time.RFC3339))
	case "cancel":
		result, err := c.client.CancelKYC(ctx)
		if err != nil {
			die("%v", err)
		}
		fmt.Printf("Cancelled job %s (was %s)\n", result.JobID, result.PreviousStatus)
	case "submit":
		c.cmdKYCSubmit(ctx, args[1:])
	default:
		die("usage: console kyc submit|status|cancel")
	}
}

func (c *console) cmdKYCSubmit(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("kyc submit", flag.ExitOnError)
	merchantType := fs.String("type", wizard.MerchantIndividual, "INDIVIDUAL or BUSINESS")
	name := fs.String("name", "", "Business name")
	country := fs.String("country", "", "Business country (2-letter code)")
	idType := fs.String("id-type", wizard.IDNationalID, "NATIONAL_ID, PASSPORT or DRIVERS_LICENSE")
	idCountry := fs.String("id-country", "", "ID issuing country (2-letter code)")
	selfie := fs.String("selfie", "", "Selfie image path")
	idFront := fs.String("id-front", "", "ID front image path")
	idBack := fs.String("id-back", "", "ID back image path")
	regDoc := fs.String("registration-doc", "", "Business registration document path")
	fs.Parse(args)

	w := wizard.New()
	if !w.SetMerchantType(*merchantType) {
		die("invalid merchant type %q", *merchantType)
	}
	w.Business.BusinessName = *name
	w.Business.Country = *country

	if w.MerchantType() == wizard.MerchantIndividual {
		if !w.SetIDType(*idType) {
			die("invalid id type %q", *idType)
		}
		w.SetIDCountry(*idCountry)
		stage(w, wizard.FileIDFront, *idFront)
		stage(w, wizard.FileSelfie, *selfie)
		if *idBack != "" {
			if !w.OffersIDBack() {
				die("%s does not have a back image", w.IDType())
			}
			stage(w, wizard.FileIDBack, *idBack)
		}
	} else {
		stage(w, wizard.FileBusinessRegistration, *regDoc)
	}

	if !w.CanSubmit() {
		die("submission incomplete: check business name, country and required documents")
	}

	payload := w.Payload()
	submitter := wizard.NewSubmitter(c.client)
	ref, err := submitter.Submit(ctx, payload)
	if err != nil {
		var partial *wizard.PartialFailure
		if errors.As(err, &partial) {
			fmt.Fprintln(os.Stderr, partial.Error())
			if strings.EqualFold(c.prompt("Retry verification only? [y/N]: "), "y") {
				ref, err = submitter.RetryInitiate(ctx, payload)
			}
		}
		if err != nil {
			die("%v", err)
		}
	}

	fmt.Printf("Verification started: job %s (%d documents)\n", ref.JobID, len(ref.DocumentsUploaded))
}

func stage(w *wizard.Wizard, kind, path string) {
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		die("read %s: %v", path, err)
	}
	w.StageFile(kind, filepath.Base(path), contentTypeFor(path), data)
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".pdf":
		return "application/pdf"
	}
	return "application/octet-stream"
}

func (c *console) cmdKeys(args []string) {
	if len(args) < 1 {
		die("usage: console keys list|create|revoke")
	}
	c.requireToken()
	ctx, cancel := c.ctx()
	defer cancel()

	switch args[0] {
	case "list":
		keys, err := c.client.ListAPIKeys(ctx)
		if err != nil {
			die("%v", err)
		}
		fmt.Printf("%-38s %-12s %-6s %-8s %s\n", "ID", "PREFIX", "ENV", "ACTIVE", "LABEL")
		for _, k := range keys {
			fmt.Printf("%-38s %-12s %-6s %-8t %s\n", k.ID, k.Prefix, k.Environment, k.IsActive, k.Label)
		}
	case "create":
		fs := flag.NewFlagSet("keys create", flag.ExitOnError)
		label := fs.String("label", "", "Key label")
		env := fs.String("env", "TEST", "TEST or LIVE")
		fs.Parse(args[1:])

		environment := strings.ToUpper(*env)
		if environment == "LIVE" {
			// Mirror the server's gate before sending anything.
			if !c.store.Current().User.EmailVerified {
				die("verify your email address before creating LIVE keys")
			}
			profile, err := c.client.GetProfile(ctx)
			if err != nil {
				die("%v", err)
			}
			if profile.KYCStatus != "VERIFIED" {
				die("LIVE keys need a verified merchant (current KYC status: %s)", profile.KYCStatus)
			}
		}

		key, err := c.client.CreateAPIKey(ctx, *label, environment)
		if err != nil {
			die("%v", err)
		}
		fmt.Printf("Created key %s (%s)\n", key.ID, key.Environment)
		fmt.Printf("Secret (shown once): %s\n", key.Key)
		// Mirror the acknowledgement gate: do not move on until the
		// user confirms the secret is saved.
		for !strings.EqualFold(c.prompt("Type 'saved' once you have stored the secret: "), "saved") {
		}
	case "revoke":
		fs := flag.NewFlagSet("keys revoke", flag.ExitOnError)
		fs.Parse(args[1:])
		if fs.NArg() < 1 {
			die("usage: console keys revoke <key-id>")
		}
		keyID := fs.Arg(0)
		if !strings.EqualFold(c.prompt("Revoke key "+keyID+"? This cannot be undone. [y/N]: "), "y") {
			return
		}
		if err := c.client.RevokeAPIKey(ctx, keyID); err != nil {
			die("%v", err)
		}
		fmt.Println("Key revoked")
	default:
		die("usage: console keys list|create|revoke")
	}
}

func (c *console) cmdAdmin(args []string) {
	if len(args) < 1 {
		die("usage: console admin users|merchants|kyc")
	}
	c.requireToken()
	ctx, cancel := c.ctx()
	defer cancel()

	switch args[0] {
	case "users":
		users, meta, err := c.client.AdminListUsers(ctx, 1, 50)
		if err != nil {
			die("%v", err)
		}
		fmt.Printf("%-6s %-30s %-10s %-8s %s\n", "ID", "EMAIL", "ROLE", "2FA", "STATUS")
		for _, u := range users {
			fmt.Printf("%-6d %-30s %-10s %-8t %s\n", u.ID, u.Email, u.Role, u.MFAEnabled, u.Status)
		}
		fmt.Printf("(%d total)\n", meta.TotalItems)
	case "merchants":
		profiles, meta, err := c.client.AdminListMerchants(ctx, 1, 50)
		if err != nil {
			die("%v", err)
		}
		fmt.Printf("%-38s %-30s %s\n", "ID", "BUSINESS", "KYC")
		for _, p := range profiles {
			fmt.Printf("%-38s %-30s %s\n", p.ID, p.BusinessName, p.KYCStatus)
		}
		fmt.Printf("(%d total)\n", meta.TotalItems)
	case "kyc":
		if len(args) > 1 && args[1] == "decide" {
			c.cmdAdminDecide(ctx, args[2:])
			return
		}
		jobs, meta, err := c.client.AdminListKYCJobs(ctx, "", 1, 50)
		if err != nil {
			die("%v", err)
		}
		fmt.Printf("%-38s %-12s %-14s %s\n", "JOB", "TYPE", "STATUS", "DOCS")
		for _, j := range jobs {
			fmt.Printf("%-38s %-12s %-14s %d\n", j.ID, j.MerchantType, j.Status, j.Documents)
		}
		fmt.Printf("(%d total)\n", meta.TotalItems)
	default:
		die("usage: console admin users|merchants|kyc [decide]")
	}
}

func (c *console) cmdAdminDecide(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("admin kyc decide", flag.ExitOnError)
	note := fs.String("note", "", "Review note")
	fs.Parse(args)
	if fs.NArg() < 2 {
		die("usage: console admin kyc decide <job-id> approve|reject|flag")
	}

	if err := c.client.AdminDecideKYC(ctx, fs.Arg(0), fs.Arg(1), *note); err != nil {
		die("%v", err)
	}
	fmt.Println("Decision recorded")
}
