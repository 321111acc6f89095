package config

import (
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	conf := Default()

	if conf.Timespan != 3 {
		t.Errorf("Expected default timespan of 3 hours, got %d", conf.Timespan)
	}
	if conf.Delay != 5 {
		t.Errorf("Expected default delay of 5 seconds, got %d", conf.Delay)
	}
	if conf.Country != "USA" {
		t.Errorf("Expected default country USA, got %s", conf.Country)
	}
	if conf.PostalCode != "" {
		t.Errorf("Expected no default postal code, got %s", conf.PostalCode)
	}
}

func TestLineupID(t *testing.T) {
	conf := Default()
	if got := conf.LineupID(); got != "USA---DEFAULT" {
		t.Errorf("Expected lineup id USA---DEFAULT, got %s", got)
	}

	conf.Country = "CAN"
	conf.Device = "X"
	if got := conf.LineupID(); got != "CAN-X-DEFAULT" {
		t.Errorf("Expected lineup id CAN-X-DEFAULT, got %s", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(c *Config) { c.PostalCode = "60657" },
		},
		{
			name:    "missing postal code",
			mutate:  func(c *Config) {},
			wantErr: true,
		},
		{
			name: "zero timespan",
			mutate: func(c *Config) {
				c.PostalCode = "60657"
				c.Timespan = 0
			},
			wantErr: true,
		},
		{
			name: "negative delay",
			mutate: func(c *Config) {
				c.PostalCode = "60657"
				c.Delay = -1
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := Default()
			tt.mutate(&conf)
			err := conf.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.toml")

	conf := Default()
	conf.PostalCode = "60657"
	conf.Timespan = 6
	conf.OutputFile = "/tmp/guide.xml"

	if err := Write(cfgPath, conf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Read(cfgPath)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got != conf {
		t.Errorf("Round trip mismatch: got %+v, want %+v", got, conf)
	}
}

func TestReadMissingFileKeepsDefaults(t *testing.T) {
	conf, err := Read(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("Expected an error for a missing config file")
	}
	if conf.Timespan != 3 {
		t.Errorf("Expected defaults on missing file, got timespan %d", conf.Timespan)
	}
}
