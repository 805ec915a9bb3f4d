// Package sm2keyutils converts SM2 key material between in-memory objects and
// the PEM form in which institution keypairs are stored.
package sm2keyutils

import (
	"encoding/pem"
	"fmt"

	"github.com/pkg/errors"
	"github.com/tjfoc/gmsm/sm2"
	"github.com/tjfoc/gmsm/x509"
)

// GenerateKeyPair generates a fresh SM2 keypair and returns both halves in
// PEM form. Institutions receive exactly one keypair at onboarding time.
func GenerateKeyPair() (publicKeyPEM []byte, privateKeyPEM []byte, err error) {
	privKey, err := sm2.GenerateKey(nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot generate an SM2 private key")
	}

	privateKeyPEM, err = ConvertPrivateKeyToPEM(privKey)
	if err != nil {
		return nil, nil, err
	}

	publicKeyPEM, err = ConvertPublicKeyToPEM(&privKey.PublicKey)
	if err != nil {
		return nil, nil, err
	}

	return publicKeyPEM, privateKeyPEM, nil
}

// Convert a PEM formatted private key to an `sm2.PrivateKey` object.
func ConvertPEMToPrivateKey(pemBytes []byte) (*sm2.PrivateKey, error) {
	decodedPrivKeyBlock, _ := pem.Decode(pemBytes)
	if decodedPrivKeyBlock == nil {
		return nil, fmt.Errorf("cannot convert PEM to SM2 private key because the PEM block is invalid")
	}

	parsedPrivKey, err := x509.ParsePKCS8UnecryptedPrivateKey(decodedPrivKeyBlock.Bytes)
	if err != nil {
		return nil, errors.Wrap(err, "cannot convert PEM to SM2 private key")
	}

	return parsedPrivKey, nil
}

// Convert an `sm2.PrivateKey` object to PEM formatted bytes.
func ConvertPrivateKeyToPEM(privKey *sm2.PrivateKey) ([]byte, error) {
	privKeyDer, err := x509.MarshalSm2UnecryptedPrivateKey(privKey)
	if err != nil {
		return nil, errors.Wrap(err, "cannot convert private key to PEM")
	}

	privKeyPemBlock := pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: privKeyDer,
	}

	return pem.EncodeToMemory(&privKeyPemBlock), nil
}

// Convert a PEM formatted public key to an `sm2.PublicKey` object.
func ConvertPEMToPublicKey(pemBytes []byte) (*sm2.PublicKey, error) {
	decodedPubKeyBlock, _ := pem.Decode(pemBytes)
	if decodedPubKeyBlock == nil {
		return nil, fmt.Errorf("cannot convert PEM to SM2 public key because the PEM block is invalid")
	}

	parsedPubKey, err := x509.ParseSm2PublicKey(decodedPubKeyBlock.Bytes)
	if err != nil {
		return nil, errors.Wrap(err, "cannot convert PEM to SM2 public key")
	}

	return parsedPubKey, nil
}

// Convert an `sm2.PublicKey` object to PEM formatted bytes.
func ConvertPublicKeyToPEM(pubKey *sm2.PublicKey) ([]byte, error) {
	pubKeyDer, err := x509.MarshalSm2PublicKey(pubKey)
	if err != nil {
		return nil, errors.Wrap(err, "cannot convert public key to PEM")
	}

	pubKeyPemBlock := pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubKeyDer,
	}

	return pem.EncodeToMemory(&pubKeyPemBlock), nil
}
