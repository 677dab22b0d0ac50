// Package secrets abstracts how per-submission credentials are sealed
// before they leave the machine. The orchestrator never sees a cipher;
// it forwards whatever ciphertext the provider produces.
package secrets

// Provider seals plaintext credential material for transmission.
type Provider interface {
	Encrypt(plaintext []byte) (string, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(plaintext []byte) (string, error)

func (f ProviderFunc) Encrypt(plaintext []byte) (string, error) {
	return f(plaintext)
}
