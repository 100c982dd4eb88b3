package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		expectedOutput string
	}{
		{
			name:           "version command shows version info",
			args:           []string{"version"},
			expectedOutput: "VoxNote Ideas API",
		},
		{
			name:           "version command with --short flag",
			args:           []string{"version", "--short"},
			expectedOutput: "v" + Version,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}

			if !strings.Contains(buf.String(), tt.expectedOutput) {
				t.Errorf("Expected output to contain %q, got %q", tt.expectedOutput, buf.String())
			}
		})
	}
}

func TestVersionCommandFlags(t *testing.T) {
	cmd := NewRootCmd()
	versionCmd, _, err := cmd.Find([]string{"version"})
	if err != nil {
		t.Fatalf("Failed to find version command: %v", err)
	}

	// Test short flag
	shortFlag := versionCmd.Flags().Lookup("short")
	if shortFlag == nil {
		t.Error("Expected short flag to be registered")
	}
}
