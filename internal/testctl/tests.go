package testctl

import (
	"context"
)

// Tests
func runGoTests() error {
	info("==== Run Go tests ====")
	return runCmdStreaming(context.Background(), "go", "test", "./...", "-v")
}

func runBlackboxTests() error {
	info("==== Run blackbox tests (builds the binary) ====")
	return runEnvCmdStreaming(context.Background(),
		map[string]string{"DOCEXD_BLACKBOX": "1"},
		"go", "test", "./tests/blackbox/...", "-v")
}
