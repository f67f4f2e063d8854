// Command generate-secrets prints a fresh pair of JWT signing secrets for
// the .env file. Access and refresh tokens must not share a secret.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
)

const secretBytes = 32 // 256-bit HS256 keys

func main() {
	accessSecret, err := randomHex(secretBytes)
	if err != nil {
		log.Fatalf("Failed to generate access secret: %v", err)
	}

	refreshSecret, err := randomHex(secretBytes)
	if err != nil {
		log.Fatalf("Failed to generate refresh secret: %v", err)
	}

	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", accessSecret)
	fmt.Printf("JWT_REFRESH_SECRET=%s\n", refreshSecret)
	fmt.Println()
	fmt.Println("Keep them out of version control.")
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
