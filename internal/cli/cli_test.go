package cli_test

import (
	"strings"
	"testing"

	"github.com/hashkv/store/internal/cli"
)

func TestCreate_MakesDatabase(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	out := c.MustRun("create", c.DBPath(), "50")

	if !strings.Contains(out, "created") {
		t.Errorf("stdout=%q, want to contain %q", out, "created")
	}
}

func TestCreate_RejectsExistingFile(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("create", c.DBPath(), "50")

	stderr := c.MustFail("create", c.DBPath(), "50")
	cli.AssertContains(t, stderr, "cannot open database file")
}

func TestCreate_RejectsZeroElements(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustFail("create", c.DBPath(), "0")
}

func TestSetGet_RoundTrips(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("create", c.DBPath(), "50")

	c.MustRun("set", c.DBPath(), "k1", "v1")
	out := c.MustRun("get", c.DBPath(), "k1")

	if out != "v1" {
		t.Errorf("get=%q, want %q", out, "v1")
	}
}

func TestGet_MissingKeyReportsNotFound(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("create", c.DBPath(), "50")

	out := c.MustRun("get", c.DBPath(), "missing")
	if out != "not found" {
		t.Errorf("get=%q, want %q", out, "not found")
	}
}

func TestSet_OverwritePreservesFirstTimestamp(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("create", c.DBPath(), "50")

	c.MustRun("set", c.DBPath(), "k", "v1")
	tsBefore := c.MustRun("ts", c.DBPath(), "k")

	c.MustRun("set", c.DBPath(), "k", "v2")
	tsAfter := c.MustRun("ts", c.DBPath(), "k")

	firstBefore := strings.SplitN(tsBefore, "\n", 2)[0]
	firstAfter := strings.SplitN(tsAfter, "\n", 2)[0]

	if firstBefore != firstAfter {
		t.Errorf("first timestamp changed across overwrite: %q -> %q", firstBefore, firstAfter)
	}
}

func TestDel_RemovesKey(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("create", c.DBPath(), "50")
	c.MustRun("set", c.DBPath(), "k", "v")

	out := c.MustRun("del", c.DBPath(), "k")
	if out != "deleted" {
		t.Errorf("del=%q, want %q", out, "deleted")
	}

	get := c.MustRun("get", c.DBPath(), "k")
	if get != "not found" {
		t.Errorf("get after del=%q, want %q", get, "not found")
	}
}

func TestDel_MissingKeyIsIdempotent(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("create", c.DBPath(), "50")

	out := c.MustRun("del", c.DBPath(), "missing")
	if out != "not found" {
		t.Errorf("del=%q, want %q", out, "not found")
	}
}

func TestTs_FormatsTimestamps(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("create", c.DBPath(), "50")
	c.MustRun("set", c.DBPath(), "k", "v")

	out := c.MustRun("ts", c.DBPath(), "k")
	cli.AssertContains(t, out, "first=")
	cli.AssertContains(t, out, "last=")
}

func TestConfig_PrintsResolvedDefaults(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	out := c.MustRun("config")
	cli.AssertContains(t, out, "{")
}

func TestConfig_NonPositivePoolSizeOverrideWarns(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, code := c.Run("--pool-size", "0", "config")

	if code != 1 {
		t.Errorf("exit code=%d, want 1", code)
	}
	cli.AssertContains(t, stdout, "{")
	cli.AssertContains(t, stderr, "--pool-size 0 is not positive")
}

func TestRun_NoArgsPrintsUsage(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	out := c.MustRun()
	cli.AssertContains(t, out, "Usage: hashkv")
}

func TestRun_UnknownCommandFails(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("nonsense")
	cli.AssertContains(t, stderr, "unknown command")
}
