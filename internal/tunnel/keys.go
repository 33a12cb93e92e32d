package tunnel

import "strings"

// GeneratePrivateKey creates a new private key with `wg genkey`.
func (c *Controller) GeneratePrivateKey() (string, error) {
	out, err := c.runner.CombinedOutput("wg", "genkey")
	if err != nil {
		return "", &CommandError{Tool: "wg genkey", Output: strings.TrimSpace(string(out))}
	}
	return strings.TrimSpace(string(out)), nil
}

// PublicKey derives the public key for privateKey. `wg pubkey` reads the
// private key from stdin.
func (c *Controller) PublicKey(privateKey string) (string, error) {
	out, err := c.runner.CombinedOutputWithInput(privateKey, "wg", "pubkey")
	if err != nil {
		return "", &CommandError{Tool: "wg pubkey", Output: strings.TrimSpace(string(out))}
	}
	return strings.TrimSpace(string(out)), nil
}
