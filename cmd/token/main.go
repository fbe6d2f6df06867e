// Command token mints an access token the server accepts, standing in for
// the identity provider during development.
//
//	go run ./cmd/token -identity KevinIsom
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-content-storefront/config"
	"github.com/oksasatya/go-content-storefront/pkg/helpers"
)

func main() {
	identity := flag.String("identity", "", "identity to put in the token subject")
	flag.Parse()
	if *identity == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Load()

	tok, exp, err := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.AccessTTL).GenerateAccessToken(*identity)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Fprintf(os.Stderr, "expires %s\n", exp.Format("2006-01-02 15:04:05 MST"))
	fmt.Println(tok)
}
