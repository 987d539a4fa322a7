package commands_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.trai.ch/bob/cmd/bob/commands"
	"go.trai.ch/bob/internal/adapters/buildlog"
	"go.trai.ch/bob/internal/adapters/fs"
	"go.trai.ch/bob/internal/adapters/telemetry"
	"go.trai.ch/bob/internal/app"
	"go.trai.ch/bob/internal/core/domain"
	"go.trai.ch/bob/internal/core/ports/mocks"
	"go.trai.ch/bob/internal/engine/executor"
	"go.uber.org/mock/gomock"
)

// newCLI wires a CLI around a real app with mocked collaborators.
func newCLI(t *testing.T) (*commands.CLI, *mocks.MockConfigLoader, *mocks.MockRunner) {
	t.Helper()
	ctrl := gomock.NewController(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	runner := mocks.NewMockRunner(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	exec := executor.New(
		runner,
		fs.NewSnapshotter(),
		buildlog.NewOpener(),
		telemetry.NewNoOpTracer(),
		logger,
	)

	return commands.New(app.New(loader, exec, logger)), loader, runner
}

func enterTempDir(t *testing.T) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(cwd); err != nil {
			t.Fatalf("failed to restore working directory: %v", err)
		}
	})
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("failed to enter temp directory: %v", err)
	}
}

func TestBuildCommand(t *testing.T) {
	enterTempDir(t)
	cli, loader, runner := newCLI(t)

	out := filepath.Join("build", "app")
	set := domain.NewTaskSet()
	set.AddCommand("compile", nil, []string{out})
	loader.EXPECT().Load(".").Return(&domain.Manifest{TargetDir: "build", Tasks: set}, nil)

	runner.EXPECT().
		Run(gomock.Any(), domain.Command{Line: "compile"}, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, _ domain.TaskAction, _, _ io.Writer) error {
			return os.WriteFile(out, []byte("bin"), 0o600)
		})

	cli.SetArgs([]string{"build"})
	if err := cli.Execute(t.Context()); err != nil {
		t.Fatalf("build command failed: %v", err)
	}
}

func TestBuildCommand_PropagatesFailure(t *testing.T) {
	enterTempDir(t)
	cli, loader, _ := newCLI(t)

	loader.EXPECT().Load(".").Return(&domain.Manifest{TargetDir: "build", Tasks: domain.NewTaskSet()}, nil)

	cli.SetArgs([]string{"build"})
	if err := cli.Execute(t.Context()); err == nil {
		t.Fatal("expected error for empty task set")
	}
}

func TestCleanCommand(t *testing.T) {
	enterTempDir(t)
	cli, loader, _ := newCLI(t)

	set := domain.NewTaskSet()
	set.AddCommand("compile", nil, []string{filepath.Join("build", "app")})
	loader.EXPECT().Load(".").Return(&domain.Manifest{TargetDir: "build", Tasks: set}, nil)

	if err := os.MkdirAll("build", 0o750); err != nil {
		t.Fatal(err)
	}

	cli.SetArgs([]string{"clean"})
	if err := cli.Execute(t.Context()); err != nil {
		t.Fatalf("clean command failed: %v", err)
	}
	if _, err := os.Stat("build"); !os.IsNotExist(err) {
		t.Error("target directory should be gone")
	}
}

func TestVersionCommand(t *testing.T) {
	cli, _, _ := newCLI(t)

	var buf bytes.Buffer
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	cli.SetArgs([]string{"version"})
	execErr := cli.Execute(t.Context())
	_ = w.Close()
	os.Stdout = orig
	_, _ = buf.ReadFrom(r)

	if execErr != nil {
		t.Fatalf("version command failed: %v", execErr)
	}
	if !strings.Contains(buf.String(), "bob version") {
		t.Errorf("unexpected version output: %q", buf.String())
	}
}

func TestChangeDirectoryFlag(t *testing.T) {
	enterTempDir(t)
	cli, loader, _ := newCLI(t)

	sub := "project"
	if err := os.Mkdir(sub, 0o750); err != nil {
		t.Fatal(err)
	}
	loader.EXPECT().Load(".").Return(&domain.Manifest{TargetDir: "build", Tasks: domain.NewTaskSet()}, nil)

	cli.SetArgs([]string{"-C", sub, "clean"})
	if err := cli.Execute(t.Context()); err != nil {
		t.Fatalf("clean with -C failed: %v", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(cwd) != sub {
		t.Errorf("expected to run inside %q, got %q", sub, cwd)
	}
}

func TestVerboseFlag(t *testing.T) {
	enterTempDir(t)
	cli, loader, runner := newCLI(t)

	out := filepath.Join("build", "app")
	set := domain.NewTaskSet()
	set.AddCommand("compile", nil, []string{out})
	loader.EXPECT().Load(".").Return(&domain.Manifest{TargetDir: "build", Tasks: set}, nil)

	runner.EXPECT().
		Run(gomock.Any(), domain.Command{Line: "compile"}, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, _ domain.TaskAction, _, _ io.Writer) error {
			return os.WriteFile(out, []byte("bin"), 0o600)
		})

	cli.SetArgs([]string{"build", "-v"})
	if err := cli.Execute(t.Context()); err != nil {
		t.Fatalf("build -v failed: %v", err)
	}
}
