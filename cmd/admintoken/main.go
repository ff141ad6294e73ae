// Command admintoken prints a signed token for the admin contact routes.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/aurasat/backend/internal/config"
	"github.com/aurasat/backend/internal/logging"
	"github.com/aurasat/backend/pkg/auth"
	flag "github.com/spf13/pflag"
)

func main() {
	subject := flag.StringP("subject", "s", "", "who the token is issued to (required)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "admintoken: --subject is required")
		flag.Usage()
		os.Exit(2)
	}
	if !cfg.AuthRequired {
		fmt.Fprintln(os.Stderr, "admintoken: AUTH_REQUIRED is off, the server will not check this token")
	}

	token, err := auth.IssueAdminToken(*subject, auth.SecretBytes(cfg.TokenSecret), *ttl, time.Now())
	if err != nil {
		logging.Fatal("issue token failed", "error", err)
	}
	fmt.Println(token)
}
