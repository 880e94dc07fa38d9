package httpclient

import (
	"testing"
	"time"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Name != "http" {
		t.Errorf("Name = %q, want http", cfg.Name)
	}
	if cfg.Timeout != 0 {
		t.Errorf("Timeout = %v, want no timeout", cfg.Timeout)
	}

	cfg = Config{Name: "hydra", Timeout: time.Second}
	cfg.ApplyDefaults()
	if cfg.Name != "hydra" || cfg.Timeout != time.Second {
		t.Errorf("explicit values overwritten: %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty", Config{}, false},
		{"negative timeout", Config{Timeout: -time.Second}, true},
		{"cert without key", Config{TLS: &TLSConfig{CertFile: "client.pem"}}, true},
		{"cert and key", Config{TLS: &TLSConfig{CertFile: "client.pem", KeyFile: "client.key"}}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestTLSConfig_Build(t *testing.T) {
	var nilCfg *TLSConfig
	if nilCfg.IsEnabled() {
		t.Error("nil TLS config should not be enabled")
	}

	empty := &TLSConfig{}
	got, err := empty.Build()
	if err != nil || got != nil {
		t.Errorf("empty config: got %v, %v; want nil, nil", got, err)
	}

	cfg := &TLSConfig{SkipVerify: true, ServerName: "api.example.com"}
	got, err = cfg.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if !got.InsecureSkipVerify || got.ServerName != "api.example.com" {
		t.Errorf("unexpected tls config: %+v", got)
	}

	missing := &TLSConfig{CAFile: "/does/not/exist.pem"}
	if _, err := missing.Build(); err == nil {
		t.Error("expected error for a missing CA file")
	}
}
