package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"online-judge/internal/domain"
	redisinfra "online-judge/internal/infra/redis"
)

func TestHashSecretCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"hash-secret", "admin123"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	hash := strings.TrimSpace(out.String())
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("admin123")); err != nil {
		t.Fatalf("printed hash does not match: %v", err)
	}
}

func TestConsoleCommandUsesFileCatalog(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "problems.txt")
	if err := os.WriteFile(catalogPath, []byte("Sum|Add 2+2|Easy|2,2|4\n"), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "catalog:\n  path: " + catalogPath + "\nlog:\n  level: error\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("2\nalice\n2\n1\n4\n0\n"))
	cmd.SetArgs([]string{"--config", cfgPath, "console"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "✅ Passed! +10 points") {
		t.Fatalf("unexpected console output:\n%s", out.String())
	}
}

func TestUnknownCatalogBackend(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("catalog:\n  backend: floppy\nlog:\n  level: error\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{"--config", cfgPath, "console"})

	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "unknown catalog backend") {
		t.Fatalf("expected unknown backend error, got %v", err)
	}
}

func TestTopCommandReadsMirror(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mirror := redisinfra.NewLeaderboardMirror(client, "judge:leaderboard", time.Minute)
	err = mirror.Publish(context.Background(), domain.Leaderboard{Entries: []domain.LeaderboardEntry{
		{Rank: 1, UserID: "u2", Username: "bob", Score: 30},
		{Rank: 2, UserID: "u1", Username: "alice", Score: -5, Penalties: 1},
	}})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := "redis:\n  addr: " + mr.Addr() + "\nlog:\n  level: error\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "top", "-n", "5"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := "1. bob | Score: 30 | Penalties: 0\n2. alice | Score: -5 | Penalties: 1\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}
