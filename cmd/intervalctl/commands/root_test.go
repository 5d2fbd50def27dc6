package commands

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/henderiw/intervaltree/internal/config"
	"github.com/henderiw/intervaltree/pkg/interval"
	"github.com/henderiw/intervaltree/pkg/iprange"
	"github.com/henderiw/intervaltree/pkg/tree"
)

const testConfig = `intervals:
  - interval: "[0,3]"
    labels:
      zone: a
  - interval: "[5,8]"
    labels:
      zone: a
  - interval: "[6,10]"
  - interval: "[8,9]"
  - interval: "[15,23]"
    labels:
      zone: b
  - interval: "[16,21]"
  - interval: "[17,19]"
  - interval: "[19,20]"
  - interval: "[25,30]"
  - interval: "[26,26]"
ipranges:
  - range: 10.0.0.0/16
    labels:
      site: a
  - range: 10.0.1.0/24
  - range: 10.1.0.0-10.1.0.9
    labels:
      site: b
`

func execute(t *testing.T, content string, args ...string) (string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "intervalctl.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	out := new(bytes.Buffer)
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestCommands_Text(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		args      []string
		expectOut string
		expectErr error
	}{
		"Overlaps": {
			args:      []string{"overlaps", "[15,18]"},
			expectOut: "[15,23] zone=b\n[16,21]\n[17,19]\n",
		},
		"OverlapsNone": {
			args: []string{"overlaps", "[12,14]"},
		},
		"Find": {
			args:      []string{"find", "[1,2]"},
			expectOut: "[0,3] zone=a\n",
		},
		"FindTouching": {
			args:      []string{"find", "[10,14]"},
			expectOut: "[6,10]\n",
		},
		"FindNone": {
			args:      []string{"find", "[31,36]"},
			expectErr: ErrNoOverlap,
		},
		"Select": {
			args:      []string{"select", "0"},
			expectOut: "[0,3] zone=a\n",
		},
		"SelectOutOfRange": {
			args:      []string{"select", "10"},
			expectErr: tree.ErrOutOfRange,
		},
		"Rank": {
			args:      []string{"rank", "[8,9]"},
			expectOut: "3\n",
		},
		"Between": {
			args:      []string{"between", "[5,8]", "[16,21]"},
			expectOut: "[5,8] zone=a\n[6,10]\n[8,9]\n[15,23] zone=b\n",
		},
		"List": {
			args:      []string{"list", "--selector", "zone=a"},
			expectOut: "[0,3] zone=a\n[5,8] zone=a\n",
		},
		"InvalidInterval": {
			args:      []string{"overlaps", "[3,1]"},
			expectErr: interval.ErrInvalidInterval,
		},
		"IPLookup": {
			args:      []string{"ip", "lookup", "10.0.1.15"},
			expectOut: "10.0.0.0-10.0.255.255 site=a\n10.0.1.0-10.0.1.255\n",
		},
		"IPFree": {
			args:      []string{"ip", "free", "10.1.0.0/24"},
			expectOut: "10.1.0.10\n",
		},
		"IPFreeNone": {
			args:      []string{"ip", "free", "10.0.2.0/24"},
			expectErr: iprange.ErrNoFree,
		},
		"IPRoute": {
			args:      []string{"ip", "route", "10.0.1.15"},
			expectOut: "10.0.1.0/24\n",
		},
		"IPRouteShorterPrefix": {
			args:      []string{"ip", "route", "10.0.200.1"},
			expectOut: "10.0.0.0/16 site=a\n",
		},
		"IPRouteNotAPrefix": {
			args:      []string{"ip", "route", "10.1.0.3"},
			expectErr: iprange.ErrNoRoute,
		},
		"IPList": {
			args:      []string{"ip", "list", "-l", "site"},
			expectOut: "10.0.0.0-10.0.255.255 site=a\n10.1.0.0-10.1.0.9 site=b\n",
		},
		"LogLevelFlag": {
			args:      []string{"--log-level", "verbose", "list"},
			expectErr: config.ErrInvalidLogLevel,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			out, err := execute(t, testConfig, tc.args...)
			if tc.expectErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.expectErr), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectOut, out)
		})
	}
}

func TestCommands_YAML(t *testing.T) {
	t.Parallel()

	out, err := execute(t, testConfig, "-o", "yaml", "overlaps", "[1,6]")
	require.NoError(t, err)

	var views []entryView
	require.NoError(t, yaml.Unmarshal([]byte(out), &views))
	assert.Equal(t, []entryView{
		{Interval: "[0,3]", Labels: map[string]string{"zone": "a"}},
		{Interval: "[5,8]", Labels: map[string]string{"zone": "a"}},
		{Interval: "[6,10]"},
	}, views)

	out, err = execute(t, testConfig, "--output", "yaml", "rank", "[8,9]")
	require.NoError(t, err)

	var rank map[string]int
	require.NoError(t, yaml.Unmarshal([]byte(out), &rank))
	assert.Equal(t, map[string]int{"rank": 3}, rank)

	out, err = execute(t, testConfig, "--output", "yaml", "ip", "free", "10.1.0.0/24")
	require.NoError(t, err)

	var free map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(out), &free))
	assert.Equal(t, map[string]string{"free": "10.1.0.10"}, free)
}

func TestCommands_InvalidDataset(t *testing.T) {
	t.Parallel()

	content := `intervals:
  - interval: "[3,1]"
  - interval: "[1,2]"
  - interval: "[1,2]"
ipranges:
  - range: 10.0.0.9-10.0.0.1
`
	_, err := execute(t, content, "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, interval.ErrInvalidInterval)
	assert.Contains(t, err.Error(), "intervals[0]")
	assert.Contains(t, err.Error(), "intervals[2]")
	assert.Contains(t, err.Error(), "ipranges[0]")
	assert.NotContains(t, err.Error(), "intervals[1]")
}

func TestCommands_Version(t *testing.T) {
	t.Parallel()

	out := new(bytes.Buffer)
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetArgs([]string{"version", "--config", "/nonexistent/path/config.yaml"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "intervalctl dev")
}

func TestCommands_FlagsOverrideConfigFile(t *testing.T) {
	t.Parallel()

	content := testConfig + "log:\n  level: verbose\noutput: json\n"

	_, err := execute(t, content, "rank", "[8,9]")
	assert.ErrorIs(t, err, config.ErrInvalidLogLevel)

	out, err := execute(t, content, "--log-level", "error", "-o", "text", "rank", "[8,9]")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}
