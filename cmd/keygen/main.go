package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
)

// keygen prints fresh AES-256 key material for the encryption key ring,
// base64-encoded the way ENCRYPTION_KEY expects it.

func main() {
	count := flag.Int("n", 1, "number of keys to generate")
	flag.Parse()

	if *count < 1 {
		log.Fatalf("invalid n: %d (must be at least 1)", *count)
	}

	for i := 0; i < *count; i++ {
		key, err := generateKey()
		if err != nil {
			log.Fatalf("failed to generate key: %v", err)
		}
		if i == 0 {
			fmt.Printf("ENCRYPTION_KEY=%s\n", key)
		} else {
			fmt.Printf("ENCRYPTION_KEY_V%d=%s\n", i+1, key)
		}
	}
}

func generateKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
