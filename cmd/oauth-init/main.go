// Command oauth-init runs the one-time OAuth consent flow for the payment
// mirror and writes the token where mirror-worker expects it.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	oauthgoogle "golang.org/x/oauth2/google"
	gsheet "google.golang.org/api/sheets/v4"

	"vencehoje/internal/config"
	applog "vencehoje/internal/log"
)

const consentTimeout = 5 * time.Minute

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentSheets})
	applog.SetDefault(logger)

	// Only the client material is checked here: the full config Validate
	// demands the token file this command exists to create.
	cfg := config.Load()

	oauthCfg, err := consentConfig(cfg)
	if err != nil {
		logger.Error("OAuth client not configured", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code, err := awaitAuthCode(ctx, oauthCfg, cfg.OAuthRedirectPort, logger)
	if err != nil {
		logger.Error("Authorization failed", "error", err)
		os.Exit(1)
	}

	token, err := oauthCfg.Exchange(ctx, code)
	if err != nil {
		logger.Error("Token exchange failed", "error", err)
		os.Exit(1)
	}

	tokenFile := cfg.GoogleOAuthTokenFile
	if tokenFile == "" {
		tokenFile = "token.json"
	}
	if err := writeToken(tokenFile, token); err != nil {
		logger.Error("Failed to write token", "error", err, "path", tokenFile)
		os.Exit(1)
	}

	logger.Info("Token saved, the payment mirror can now run", "path", tokenFile)
}

// consentConfig builds the OAuth config from the same client material the
// sheets mirror reads, inline JSON preferred over the file.
func consentConfig(cfg *config.Config) (*oauth2.Config, error) {
	var material []byte
	switch {
	case cfg.GoogleOAuthClientJSON != "":
		material = []byte(cfg.GoogleOAuthClientJSON)
	case cfg.GoogleOAuthClientFile != "":
		b, err := os.ReadFile(cfg.GoogleOAuthClientFile)
		if err != nil {
			return nil, fmt.Errorf("read OAuth client file: %w", err)
		}
		material = b
	default:
		return nil, errors.New("set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE")
	}

	oc, err := oauthgoogle.ConfigFromJSON(material, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}

	// The OAuth client must list this redirect URI as authorized.
	oc.RedirectURL = "http://localhost:" + cfg.OAuthRedirectPort + "/callback"
	return oc, nil
}

// awaitAuthCode serves the local redirect endpoint, prints the consent URL
// and blocks until the browser delivers an authorization code.
func awaitAuthCode(ctx context.Context, oc *oauth2.Config, port string, logger *applog.Logger) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if denied := r.URL.Query().Get("error"); denied != "" {
			http.Error(w, "authorization error: "+denied, http.StatusBadRequest)
			errCh <- fmt.Errorf("authorization denied: %s", denied)
			return
		}
		fmt.Fprintln(w, "Authorized. You can close this tab and return to the terminal.")
		codeCh <- r.URL.Query().Get("code")
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	defer srv.Close()

	logger.Info("Waiting for consent", "redirect_url", oc.RedirectURL)
	fmt.Printf("Open this URL to authorize the payment mirror:\n\n%s\n\n", oc.AuthCodeURL("state-token", oauth2.AccessTypeOffline))

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-time.After(consentTimeout):
		return "", errors.New("authorization timed out")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func writeToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open token file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}
