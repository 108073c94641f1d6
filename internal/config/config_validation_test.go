package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenSignKey:  "jwt_secret",
			TokenIssuer:   "cardvault",
			TokenDuration: time.Hour,
		},
		Storage: Storage{
			DB:    DB{DSN: "postgres://localhost/vault"},
			Files: Files{VaultDir: "/var/vault"},
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().validate())
}

func TestValidate_S3BackendOK(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.BlobBackend = BlobBackendS3
	cfg.Storage.Files = Files{}
	cfg.Storage.S3 = S3{Endpoint: "minio:9000", Bucket: "vault-blobs"}

	require.NoError(t, cfg.validate())
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *StructuredConfig)
		wantErr error
	}{
		{
			name:    "missing token sign key",
			mutate:  func(cfg *StructuredConfig) { cfg.App.TokenSignKey = "" },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "missing token issuer",
			mutate:  func(cfg *StructuredConfig) { cfg.App.TokenIssuer = "" },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "zero token duration",
			mutate:  func(cfg *StructuredConfig) { cfg.App.TokenDuration = 0 },
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "missing dsn",
			mutate:  func(cfg *StructuredConfig) { cfg.Storage.DB.DSN = "" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "file backend without vault dir",
			mutate:  func(cfg *StructuredConfig) { cfg.Storage.Files.VaultDir = "" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name: "s3 backend without endpoint",
			mutate: func(cfg *StructuredConfig) {
				cfg.Storage.BlobBackend = BlobBackendS3
				cfg.Storage.S3 = S3{Bucket: "vault-blobs"}
			},
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "unknown blob backend",
			mutate:  func(cfg *StructuredConfig) { cfg.Storage.BlobBackend = "tape" },
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "missing http address",
			mutate:  func(cfg *StructuredConfig) { cfg.Server.HTTPAddress = "" },
			wantErr: ErrInvalidServerConfigs,
		},
		{
			name:    "negative worker count",
			mutate:  func(cfg *StructuredConfig) { cfg.Workers.ReencryptWorkers = -1 },
			wantErr: ErrInvalidWorkerConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.validate()

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNetAddress_SetAndString(t *testing.T) {
	var addr NetAddress
	require.NoError(t, addr.Set("localhost:8080"))
	assert.Equal(t, "localhost:8080", addr.String())

	assert.Error(t, (&NetAddress{}).Set("no-port"))
	assert.Error(t, (&NetAddress{}).Set("localhost:zero"))
	assert.Error(t, (&NetAddress{}).Set("localhost:0"))
	assert.Error(t, (&NetAddress{}).Set("not-an-ip:8080"))

	assert.Empty(t, (&NetAddress{}).String())
}
