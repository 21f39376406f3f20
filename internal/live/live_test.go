package live

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscover_SandboxedChild(t *testing.T) {
	lister := &MockProcessLister{
		Processes: []Process{
			{Pid: 100, Ppid: 1, Cmdline: []string{"emerge", "-uDN", "world"}, StartTicks: 0},
			{Pid: 200, Ppid: 100, Cmdline: []string{"bash", "ebuild.sh", "app-editors/vim-9.0.1", "compile"}, StartTicks: 500},
		},
		TicksPerSec: 100,
		BootUnix:    1000,
	}
	res := Discover(lister, ResumeNo, "", "", nil)
	require.False(t, res.Incomplete)
	require.Len(t, res.InFlight, 1)
	require.Equal(t, "app-editors/vim", res.InFlight[0].Pkg.ID())
	require.Equal(t, "compile", res.InFlight[0].Phase)
	require.Equal(t, int64(1005), res.InFlight[0].StartedAt)
	require.NotNil(t, res.Driver)
	require.Equal(t, 100, res.Driver.Pid)
}

func TestProcessDisplay_Truncation(t *testing.T) {
	s := "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	cases := []struct {
		pid    int
		cmdlen int
		width  int
		want   string
	}{
		{1, 1, 1, "Pid 1: a"},
		{1, 2, 1, "Pid 1: ab"},
		{2, 3, 1, "Pid 2: abc"},
		{3, 4, 1, "Pid 3: ..."},
		{330, 1, 1, "Pid 330: a"},
		{333, 4, 1, "Pid 333: ..."},
		{1, 6, 12, "Pid 1: ...ef"},
		{1, 7, 12, "Pid 1: ...fg"},
		{22, 9, 12, "Pid 22: ...i"},
	}
	for _, c := range cases {
		p := Process{Pid: c.pid, Cmdline: []string{s[:c.cmdlen]}}
		require.Equal(t, c.want, p.Display(c.width))
	}
}

func TestDiscover_IgnoresUnrelatedProcess(t *testing.T) {
	lister := &MockProcessLister{
		Processes: []Process{
			{Pid: 5, Ppid: 1, Cmdline: []string{"sshd"}},
		},
	}
	res := Discover(lister, ResumeNo, "", "", nil)
	require.Empty(t, res.InFlight)
}

func TestDiscover_ListErrMarksIncomplete(t *testing.T) {
	lister := &MockProcessLister{ListErr: assertErr{}}
	res := Discover(lister, ResumeNo, "", "", nil)
	require.True(t, res.Incomplete)
}

func TestDiscover_ResumeAutoOnlyWhenDriverRunning(t *testing.T) {
	mainPath := filepath.Join(t.TempDir(), "mtimedb")
	content := `{"resume":{"mergelist":[["app-editors","merge","app-editors/vim-9.0.1","gentoo"]]}}`
	require.NoError(t, os.WriteFile(mainPath, []byte(content), 0644))

	noDriver := &MockProcessLister{Processes: []Process{{Pid: 5, Ppid: 1, Cmdline: []string{"sshd"}}}}
	res := Discover(noDriver, ResumeAuto, mainPath, "", nil)
	require.False(t, res.DriverRunning)
	require.Empty(t, res.InFlight)

	withDriver := &MockProcessLister{Processes: []Process{{Pid: 100, Ppid: 1, Cmdline: []string{"emerge", "-uDN", "world"}}}}
	res = Discover(withDriver, ResumeAuto, mainPath, "", nil)
	require.True(t, res.DriverRunning)
	require.Len(t, res.InFlight, 1)
	require.Equal(t, "app-editors/vim", res.InFlight[0].Pkg.ID())
	require.Equal(t, SourceResumeMain, res.InFlight[0].Source)
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

func TestParsePretend(t *testing.T) {
	in := strings.NewReader(
		"These are the packages that would be merged, in order:\n\n" +
			"[ebuild   R   ] app-editors/vim-9.0.1\n" +
			"[binary   N   ] sys-apps/foo-1.2.3\n" +
			"not a package line\n")
	out := ParsePretend(in)
	require.Len(t, out, 2)
	require.Equal(t, "app-editors/vim", out[0].Pkg.ID())
	require.False(t, out[0].Binary)
	require.Equal(t, "sys-apps/foo", out[1].Pkg.ID())
	require.True(t, out[1].Binary)
}

func TestParsePretend_IgnoresRepoTagSuffix(t *testing.T) {
	in := strings.NewReader("[ebuild   R   ] app-editors/vim-9.0.1::gentoo\n")
	out := ParsePretend(in)
	require.Len(t, out, 1)
	require.Equal(t, "app-editors/vim", out[0].Pkg.ID())
}

func TestStripANSI(t *testing.T) {
	require.Equal(t, "hello", StripANSI("\x1b[32mhello\x1b[0m"))
}
