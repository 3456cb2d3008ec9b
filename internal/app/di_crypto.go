package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/ledgerlock/ledgerlock/internal/crypto/domain"
	cryptoService "github.com/ledgerlock/ledgerlock/internal/crypto/service"
)

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KeyDeriver returns the Argon2id key derivation service.
func (c *Container) KeyDeriver() (cryptoService.KeyDeriver, error) {
	var err error
	c.keyDeriverInit.Do(func() {
		c.keyDeriver, err = c.initKeyDeriver()
		if err != nil {
			c.initErrors["keyDeriver"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyDeriver"]; exists {
		return nil, storedErr
	}
	return c.keyDeriver, nil
}

// KeyManager returns the key manager service.
func (c *Container) KeyManager() (cryptoService.KeyManager, error) {
	var err error
	c.keyManagerInit.Do(func() {
		c.keyManager, err = c.initKeyManager()
		if err != nil {
			c.initErrors["keyManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyManager"]; exists {
		return nil, storedErr
	}
	return c.keyManager, nil
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// EnvelopeWrapper returns the envelope wrapper for the optional deployment-KMS
// outer wrap. Without a configured KMS key it passes envelopes through.
func (c *Container) EnvelopeWrapper() (cryptoService.EnvelopeWrapper, error) {
	var err error
	c.envelopeWrapperInit.Do(func() {
		c.envelopeWrapper, err = c.initEnvelopeWrapper()
		if err != nil {
			c.initErrors["envelopeWrapper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelopeWrapper"]; exists {
		return nil, storedErr
	}
	return c.envelopeWrapper, nil
}

// algorithm resolves the configured AEAD algorithm.
func (c *Container) algorithm() (cryptoDomain.Algorithm, error) {
	switch c.config.CryptoAlgorithm {
	case string(cryptoDomain.XChaCha20):
		return cryptoDomain.XChaCha20, nil
	case string(cryptoDomain.AESGCM):
		return cryptoDomain.AESGCM, nil
	default:
		return "", fmt.Errorf("unsupported crypto algorithm: %s", c.config.CryptoAlgorithm)
	}
}

// initKeyDeriver creates the KDF service with the version 1 cost parameters.
func (c *Container) initKeyDeriver() (cryptoService.KeyDeriver, error) {
	keyDeriver, err := cryptoService.NewKDFService(
		cryptoDomain.DefaultCostParams(),
		c.config.KDFMaxConcurrentDerivations,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kdf service: %w", err)
	}
	return keyDeriver, nil
}

// initKeyManager creates the key manager service for the configured algorithm.
func (c *Container) initKeyManager() (cryptoService.KeyManager, error) {
	algorithm, err := c.algorithm()
	if err != nil {
		return nil, err
	}

	aeadManager := c.AEADManager()
	return cryptoService.NewKeyManager(aeadManager, algorithm), nil
}

// initEnvelopeWrapper creates the envelope wrapper, opening a KMS keeper when
// a deployment key URI is configured.
func (c *Container) initEnvelopeWrapper() (cryptoService.EnvelopeWrapper, error) {
	if c.config.KMSKeyURI == "" {
		return cryptoService.NewEnvelopeWrapper(nil), nil
	}

	kmsService := c.KMSService()
	keeper, err := kmsService.OpenKeeper(context.Background(), c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open kms keeper: %w", err)
	}

	return cryptoService.NewEnvelopeWrapper(keeper), nil
}
