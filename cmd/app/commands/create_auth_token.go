package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	authService "github.com/allisson/credstore/internal/auth/service"
)

// RunCreateAuthToken generates a bearer token for actor and prints the AUTH_TOKENS
// entry holding its Argon2id hash. The plain token is shown once and never stored.
func RunCreateAuthToken(
	secretService authService.SecretService,
	logger *slog.Logger,
	writer io.Writer,
	actor string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	actor = strings.TrimSpace(actor)
	if actor == "" {
		return fmt.Errorf("actor is required")
	}
	if strings.ContainsAny(actor, ":;") {
		return fmt.Errorf("invalid actor %q: must not contain ':' or ';'", actor)
	}

	token, hash, err := secretService.GenerateSecret()
	if err != nil {
		return fmt.Errorf("failed to generate auth token: %w", err)
	}

	logger.Info("auth token generated", slog.String("actor", actor))

	entry := fmt.Sprintf("%s:%s", actor, hash)
	result := map[string]string{"actor": actor, "token": token, "auth_entry": entry}
	return render(writer, format, result, func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "# Save the token now, it cannot be recovered")
		_, _ = fmt.Fprintf(w, "Token: %s\n\n", token)
		_, _ = fmt.Fprintln(w, "# Append the entry to AUTH_TOKENS, separating entries with ';'")
		_, _ = fmt.Fprintf(w, "AUTH_TOKENS=\"%s\"\n", entry)
	})
}
