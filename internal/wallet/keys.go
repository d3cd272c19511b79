package wallet

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/chacha20poly1305"
)

var ErrBadSecret = errors.New("wallet secret must be 32 hex-encoded bytes")

// Keyring generates wallet keypairs and seals private key material under a
// server-side secret. Ciphertext layout: nonce || box, hex encoded.
type Keyring struct {
	secret []byte
}

func NewKeyring(secretHex string) (*Keyring, error) {
	secret, err := hex.DecodeString(secretHex)
	if err != nil || len(secret) != chacha20poly1305.KeySize {
		return nil, ErrBadSecret
	}
	return &Keyring{secret: secret}, nil
}

// Generate returns a fresh address and the sealed private key.
func (k *Keyring) Generate() (address, encPrivKey string, err error) {
	priv, err := ethcrypto.GenerateKey()
	if err != nil {
		return "", "", fmt.Errorf("generate key: %w", err)
	}
	address = ethcrypto.PubkeyToAddress(priv.PublicKey).Hex()
	encPrivKey, err = k.seal(ethcrypto.FromECDSA(priv))
	if err != nil {
		return "", "", err
	}
	return address, encPrivKey, nil
}

func (k *Keyring) seal(plain []byte) (string, error) {
	aead, err := chacha20poly1305.NewX(k.secret)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	box := aead.Seal(nonce, nonce, plain, nil)
	return hex.EncodeToString(box), nil
}

// Open decrypts sealed key material. The caller is responsible for treating
// the returned bytes as sensitive.
func (k *Keyring) Open(encHex string) ([]byte, error) {
	box, err := hex.DecodeString(encHex)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}
	aead, err := chacha20poly1305.NewX(k.secret)
	if err != nil {
		return nil, err
	}
	if len(box) < aead.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, sealed := box[:aead.NonceSize()], box[aead.NonceSize():]
	return aead.Open(nil, nonce, sealed, nil)
}
