// Command webhook-secret prints the bcrypt hash to put in WEBHOOK_SECRET_HASH.
package main

import (
	"fmt" // Output
	"os"  // Arguments and exit codes

	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Secret hashing
)

func main() {
	// Exactly one non-empty secret is required
	if len(os.Args) != 2 || os.Args[1] == "" {
		fmt.Fprintln(os.Stderr, "usage: webhook-secret <secret>")
		os.Exit(2)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), bcrypt.DefaultCost) // Hash the shared secret
	if err != nil {
		logrus.Fatalf("failed to hash secret: %v", err)
	}
	fmt.Println(string(hash)) // Paste into WEBHOOK_SECRET_HASH
}
