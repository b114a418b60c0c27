package encryption

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"

	"autobk/internal/autobk"
	"autobk/internal/config"
)

// scryptWorkFactor is the log2 scrypt cost used when sealing a password.
var scryptWorkFactor = 18

// EncryptPassword seals password with age's scrypt passphrase encryption and
// returns the ASCII-armored ciphertext suitable for the db_pass_age key.
func EncryptPassword(password, passphrase string) (string, error) {
	if passphrase == "" {
		return "", fmt.Errorf("passphrase must not be empty")
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return "", fmt.Errorf("creating scrypt recipient: %w", err)
	}
	recipient.SetWorkFactor(scryptWorkFactor)

	var buf bytes.Buffer
	aw := armor.NewWriter(&buf)

	w, err := age.Encrypt(aw, recipient)
	if err != nil {
		return "", fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.WriteString(w, password); err != nil {
		return "", fmt.Errorf("writing encrypted password: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalizing encryption: %w", err)
	}
	if err := aw.Close(); err != nil {
		return "", fmt.Errorf("finalizing armor: %w", err)
	}

	return buf.String(), nil
}

// DecryptPassword opens an armored ciphertext produced by EncryptPassword.
func DecryptPassword(armored, passphrase string) (string, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return "", fmt.Errorf("creating scrypt identity: %w", err)
	}

	r, err := age.Decrypt(armor.NewReader(strings.NewReader(armored)), identity)
	if err != nil {
		return "", fmt.Errorf("decrypting password: %w", err)
	}

	plain, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading decrypted password: %w", err)
	}
	return string(plain), nil
}

// UnlockPassword fills cfg.Pass from cfg.PassAge when no plaintext password
// is configured. passphrase is only called when decryption is needed.
func UnlockPassword(cfg *config.DatabaseConfig, passphrase func() (string, error)) error {
	if cfg.Pass != "" || cfg.PassAge == "" {
		return nil
	}

	phrase, err := passphrase()
	if err != nil {
		return fmt.Errorf("%w: reading passphrase: %w", autobk.ErrConfig, err)
	}

	pass, err := DecryptPassword(cfg.PassAge, phrase)
	if err != nil {
		return fmt.Errorf("%w: db_pass_age: %w", autobk.ErrConfig, err)
	}
	cfg.Pass = pass
	return nil
}
