package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/robalobadob/recall/internal/config"
	"github.com/robalobadob/recall/internal/locale"
	"github.com/robalobadob/recall/internal/profile"
	"github.com/robalobadob/recall/internal/rank"
)

func testConfig(t *testing.T) config.Config {
	return config.Config{
		StoreDriver: "sqlite",
		DBPath:      filepath.Join(t.TempDir(), "recall.db"),
		DayTZ:       time.UTC,
		DefaultLang: "en",
	}
}

func run(t *testing.T, cfg config.Config, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(cfg)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

func TestProfilePersistsAcrossRuns(t *testing.T) {
	cfg := testConfig(t)
	run(t, cfg, "migrate")

	out := run(t, cfg, "profile", "--name", "  ada  ")
	if !strings.Contains(out, "ada") {
		t.Fatalf("rename not shown:\n%s", out)
	}
	out = run(t, cfg, "profile")
	if !strings.Contains(out, "ada") || !strings.Contains(out, "Novice") {
		t.Fatalf("profile not persisted:\n%s", out)
	}
}

func TestProfileRejectsBlankName(t *testing.T) {
	cmd := NewRootCmd(testConfig(t))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"profile", "--name", "   "})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("blank name accepted")
	}
}

func TestClaimHeartFreshInstall(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreDriver = "memory"
	out := run(t, cfg, "claim-heart")
	if !strings.Contains(out, "nothing to claim") {
		t.Fatalf("fresh install claimed hearts:\n%s", out)
	}
}

func TestRanksLocalized(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreDriver = "memory"
	if out := run(t, cfg, "ranks"); !strings.Contains(out, "Oracle") {
		t.Fatalf("english ranks:\n%s", out)
	}
	if out := run(t, cfg, "ranks", "--lang", "ar"); !strings.Contains(out, "مبتدئ") {
		t.Fatalf("arabic ranks:\n%s", out)
	}
}

func TestWriteProfile(t *testing.T) {
	cat, err := locale.Load("en")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	writeProfile(&buf, profileCard{
		Profile:  profile.Profile{Username: "ada", XP: 250, Coins: 7, Hearts: 2},
		Frontier: 4,
		ResetIn:  "03:00:00",
	}, cat, "en", rank.Default)
	out := buf.String()
	for _, want := range []string{"ada", "Rememberer", "250 xp to Mnemonist", "unlocked up to 4", "next in 03:00:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPortFlagOnRootAndServe(t *testing.T) {
	for _, args := range [][]string{{"--port", "9000"}, {"serve", "--port", "9000"}} {
		root := NewRootCmd(testConfig(t))
		cmd, rest, err := root.Find(args)
		if err != nil {
			t.Fatalf("%v: find: %v", args, err)
		}
		if err := cmd.ParseFlags(rest); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		if got := cmd.Flags().Lookup("port").Value.String(); got != "9000" {
			t.Fatalf("%v: port=%q", args, got)
		}
	}
}
