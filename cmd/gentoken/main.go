// Command gentoken mints an admin bearer token for local development and
// operational scripts.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gatherhub/server/internal/auth"
)

func main() {
	subject := flag.String("subject", "admin", "token subject")
	expiry := flag.Duration("expiry", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(1)
	}

	manager := auth.NewJWTManager(secret, *expiry, "gatherhub")
	token, err := manager.Generate(*subject, auth.RoleAdmin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
