package testctl

// Indirection layer to allow stubbing in tests

var (
	fnInstallGo    = installGo
	fnInstallLlama = installLlama

	fnRunGoTests       = runGoTests
	fnRunBlackboxTests = runBlackboxTests

	fnSmoke = smoke
)
