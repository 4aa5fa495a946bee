package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	encryptionDomain "github.com/allisson/credstore/internal/encryption/domain"
	encryptionService "github.com/allisson/credstore/internal/encryption/service"
)

const encryptionKeySize = 32

// RunCreateEncryptionKey generates a 32-byte key for the internal encryption provider
// and prints the configuration entries that register it. When kmsKeyURI is set the
// key is wrapped by that keeper and only the ciphertext is printed. Key material is
// zeroed after encoding.
func RunCreateEncryptionKey(
	ctx context.Context,
	kmsService encryptionService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	kmsKeyURI string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	if name == "" {
		name = fmt.Sprintf("key-%s", time.Now().UTC().Format("2006-01-02"))
	}
	if strings.ContainsAny(name, ":, ") {
		return fmt.Errorf("invalid key name %q: must not contain ':', ',' or spaces", name)
	}

	key := make([]byte, encryptionKeySize)
	defer encryptionDomain.Zero(key)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate encryption key: %w", err)
	}

	material := key
	if kmsKeyURI != "" {
		wrapped, err := wrapWithKMS(ctx, kmsService, kmsKeyURI, key)
		if err != nil {
			return err
		}
		material = wrapped
	}
	encoded := base64.StdEncoding.EncodeToString(material)

	logger.Info("encryption key generated",
		slog.String("name", name),
		slog.Bool("kms_wrapped", kmsKeyURI != ""),
	)

	result := map[string]any{"name": name, "material": encoded, "kms_key_uri": kmsKeyURI}
	return render(writer, format, result, func(w io.Writer) {
		if kmsKeyURI != "" {
			_, _ = fmt.Fprintln(w, "# Key material is wrapped with KMS")
		} else {
			_, _ = fmt.Fprintln(w, "# Key material is plaintext, keep it out of version control")
		}
		_, _ = fmt.Fprintln(w, "# Append the entry to ENCRYPTION_KEYS when rotating")
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintf(w, "ENCRYPTION_KEYS=\"%s:%s\"\n", name, encoded)
		_, _ = fmt.Fprintf(w, "ACTIVE_ENCRYPTION_KEY=\"%s\"\n", name)
		if kmsKeyURI != "" {
			_, _ = fmt.Fprintf(w, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
		}
	})
}

func wrapWithKMS(
	ctx context.Context,
	kmsService encryptionService.KMSService,
	kmsKeyURI string,
	key []byte,
) ([]byte, error) {
	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() { _ = keeper.Close() }()

	wrapped, err := keeper.Encrypt(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt key with KMS: %w", err)
	}
	return wrapped, nil
}
