package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommands(t *testing.T) {
	root := NewRootCmd()
	want := map[string]bool{"serve": false, "migrate": false, "user": false, "gmail": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestUserCreateRequiresFlags(t *testing.T) {
	_, err := execute(t, "", "user", "create", "--name", "Anna")
	if err == nil || !strings.Contains(err.Error(), "required flag") {
		t.Fatalf("expected required flag error, got %v", err)
	}

	_, err = execute(t, "", "user", "create", "--email", "a@b.de", "--password", "123")
	if err == nil || !strings.Contains(err.Error(), "at least 6") {
		t.Fatalf("expected short password error, got %v", err)
	}
}

func TestGmailAuthorizeWithoutCredentials(t *testing.T) {
	t.Setenv("GMAIL_CREDENTIALS", "")
	_, err := execute(t, "", "gmail", "authorize")
	if err == nil || !strings.Contains(err.Error(), "GMAIL_CREDENTIALS") {
		t.Fatalf("expected missing credentials error, got %v", err)
	}
}

func TestEnvFileAndLogFlags(t *testing.T) {
	t.Cleanup(func() { os.Unsetenv("LOG_FORMAT") })
	dir := t.TempDir()
	env := filepath.Join(dir, "test.env")
	if err := os.WriteFile(env, []byte("GMAIL_CREDENTIALS=\nLOG_FORMAT=json\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, "", "--env-file", env, "--debug", "gmail", "authorize")
	if err == nil {
		t.Fatal("expected error")
	}
	if cfg == nil || cfg.LogFormat != "json" {
		t.Fatalf("env file not loaded: %+v", cfg)
	}
	if logger == nil || !logger.Enabled(t.Context(), -4) {
		t.Fatal("expected debug logger")
	}
}
