package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names for the mail account.
const (
	EnvSenderAddress  = "GMAIL_ADDRESS"
	EnvSenderPassword = "GMAIL_APP_PASSWORD"
	EnvRecipient      = "RECIPIENT_EMAIL"
)

// Credentials holds the mail account identity sourced from the environment.
// Any missing field means the notification step is skipped, not failed.
type Credentials struct {
	Sender    string
	Password  string
	Recipient string
}

// LoadCredentials reads the mail credentials from the environment. A .env
// file is loaded first when present; its absence is not an error.
func LoadCredentials(envFiles ...string) Credentials {
	// godotenv never overrides variables already set in the environment.
	_ = godotenv.Load(envFiles...)

	return Credentials{
		Sender:    os.Getenv(EnvSenderAddress),
		Password:  os.Getenv(EnvSenderPassword),
		Recipient: os.Getenv(EnvRecipient),
	}
}

// Complete reports whether all three fields needed to send mail are present.
func (c Credentials) Complete() bool {
	return c.Sender != "" && c.Password != "" && c.Recipient != ""
}
