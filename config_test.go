package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(WithDefaults())
	if err != nil {
		t.Fatal(err)
	}

	if config.BindAddress != "0.0.0.0:8080" {
		t.Errorf("BindAddress = %q", config.BindAddress)
	}
	if config.SerialPort != "/dev/ttyUSB0" {
		t.Errorf("SerialPort = %q", config.SerialPort)
	}
	if config.BaudRate != 115200 {
		t.Errorf("BaudRate = %d", config.BaudRate)
	}
	if config.LogLevel != "info" {
		t.Errorf("LogLevel = %q", config.LogLevel)
	}
	if config.SaveFile != "odrive-config.toml" {
		t.Errorf("SaveFile = %q", config.SaveFile)
	}
	if config.SerialNumber != "000000000000" {
		t.Errorf("SerialNumber = %q", config.SerialNumber)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
serial_port = "/dev/ttyACM3"
baud_rate = 921600
serial_number = "3858335A3037"
`)

	config, err := LoadConfig(WithDefaults(), WithFile(path))
	if err != nil {
		t.Fatal(err)
	}

	if config.SerialPort != "/dev/ttyACM3" {
		t.Errorf("SerialPort = %q", config.SerialPort)
	}
	if config.BaudRate != 921600 {
		t.Errorf("BaudRate = %d", config.BaudRate)
	}
	if config.SerialNumber != "3858335A3037" {
		t.Errorf("SerialNumber = %q", config.SerialNumber)
	}
	// Untouched fields keep their defaults.
	if config.BindAddress != "0.0.0.0:8080" {
		t.Errorf("BindAddress = %q", config.BindAddress)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadConfig(WithDefaults(), WithFile(filepath.Join(t.TempDir(), "missing.toml")))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("SERIAL_PORT", "/dev/ttyS9")
	t.Setenv("BAUD_RATE", "57600")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig(WithDefaults(), WithEnv())
	if err != nil {
		t.Fatal(err)
	}

	if config.SerialPort != "/dev/ttyS9" {
		t.Errorf("SerialPort = %q", config.SerialPort)
	}
	if config.BaudRate != 57600 {
		t.Errorf("BaudRate = %d", config.BaudRate)
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", config.LogLevel)
	}
}

func TestLoadConfigEnvInvalidBaudIgnored(t *testing.T) {
	t.Setenv("BAUD_RATE", "fast")

	config, err := LoadConfig(WithDefaults(), WithEnv())
	if err != nil {
		t.Fatal(err)
	}

	if config.BaudRate != 115200 {
		t.Errorf("BaudRate = %d, want default kept", config.BaudRate)
	}
}

func TestLoadConfigFlags(t *testing.T) {
	fSet := flag.NewFlagSet("test", flag.ContinueOnError)
	fSet.String("serial-port", "/dev/ttyUSB0", "")
	fSet.Int("baud-rate", 115200, "")
	fSet.String("bind-address", "0.0.0.0:8080", "")
	if err := fSet.Parse([]string{"-serial-port", "/dev/ttyACM0", "-baud-rate", "230400"}); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(WithDefaults(), WithFlags(fSet))
	if err != nil {
		t.Fatal(err)
	}

	if config.SerialPort != "/dev/ttyACM0" {
		t.Errorf("SerialPort = %q", config.SerialPort)
	}
	if config.BaudRate != 230400 {
		t.Errorf("BaudRate = %d", config.BaudRate)
	}
	// Flags not set on the command line must not override.
	if config.BindAddress != "0.0.0.0:8080" {
		t.Errorf("BindAddress = %q", config.BindAddress)
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := writeConfigFile(t, `
serial_port = "/dev/from-file"
log_level = "warn"
`)
	t.Setenv("SERIAL_PORT", "/dev/from-env")

	fSet := flag.NewFlagSet("test", flag.ContinueOnError)
	fSet.String("serial-port", "/dev/ttyUSB0", "")
	if err := fSet.Parse([]string{"-serial-port", "/dev/from-flag"}); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(WithDefaults(), WithFile(path), WithEnv(), WithFlags(fSet))
	if err != nil {
		t.Fatal(err)
	}

	if config.SerialPort != "/dev/from-flag" {
		t.Errorf("SerialPort = %q, want flag to win", config.SerialPort)
	}
	if config.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want file value kept", config.LogLevel)
	}
}
