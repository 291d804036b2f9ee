// ABOUTME: Loads environment variables from .env files at startup using godotenv.
// ABOUTME: Variables already present in the environment are never overwritten.
package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
)

// loadDotEnv loads each existing path in order. Missing files are
// skipped; earlier files win over later ones.
func loadDotEnv(paths ...string) {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			log.Printf("component=cli action=dotenv path=%s err=%v", p, err)
			continue
		}
		log.Printf("component=cli action=dotenv path=%s loaded=true", p)
	}
}
