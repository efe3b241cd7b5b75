package testctl

import (
	"context"
	"os"
	"path/filepath"
)

func installGo() error {
	info("Downloading Go modules...")
	return runCmdVerbose(context.Background(), "go", "mod", "download")
}

// installLlama clones and builds llama.cpp so the service can be built with
// -tags=llama. The shared library lands in llama.cpp's build directory; copy
// or symlink it into ./bin before running.
func installLlama() error {
	home, _ := os.UserHomeDir()
	srcDir := filepath.Join(home, "src")
	llamaDir := filepath.Join(srcDir, "llama.cpp")
	buildDir := filepath.Join(llamaDir, "build")
	if _, err := os.Stat(llamaDir); os.IsNotExist(err) {
		if err := os.MkdirAll(srcDir, 0o755); err != nil {
			return err
		}
		info("[llama] Cloning llama.cpp into %s", llamaDir)
		if err := runCmdVerbose(context.Background(), "git", "clone", "https://github.com/ggerganov/llama.cpp.git", llamaDir); err != nil {
			return err
		}
	} else {
		info("[llama] Updating llama.cpp in %s", llamaDir)
		_ = runCmdVerbose(context.Background(), "git", "-C", llamaDir, "pull", "--ff-only")
	}

	info("[llama] Configuring CMake build")
	if err := runCmdVerbose(context.Background(), "cmake",
		"-S", llamaDir,
		"-B", buildDir,
		"-DCMAKE_BUILD_TYPE=Release",
		"-DBUILD_SHARED_LIBS=ON",
	); err != nil {
		return err
	}
	info("[llama] Building libllama")
	return runCmdVerbose(context.Background(), "cmake", "--build", buildDir, "--config", "Release", "-j")
}
