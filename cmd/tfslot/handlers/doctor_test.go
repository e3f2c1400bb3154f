package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/tfslot/internal/config"
	tstest "github.com/imamik/tfslot/internal/testing"
	"github.com/imamik/tfslot/internal/util/prerequisites"
	"github.com/imamik/tfslot/internal/workspace"
)

func stubTools(t *testing.T, missing ...string) *[]prerequisites.Tool {
	t.Helper()
	orig := checkTools
	t.Cleanup(func() { checkTools = orig })

	var seen []prerequisites.Tool
	checkTools = func(_ context.Context, tools []prerequisites.Tool) *prerequisites.CheckResults {
		seen = tools
		res := &prerequisites.CheckResults{}
		for _, tool := range tools {
			found := true
			for _, m := range missing {
				if tool.Name == m {
					found = false
				}
			}
			res.Results = append(res.Results, prerequisites.CheckResult{Tool: tool, Found: found, Version: tool.Name + " 1.0"})
			if !found {
				res.Missing = append(res.Missing, tool)
			}
		}
		return res
	}
	return &seen
}

func stubBucket(t *testing.T, ok bool, err error) {
	t.Helper()
	orig := checkBucket
	t.Cleanup(func() { checkBucket = orig })
	checkBucket = func(context.Context, config.ArchiveConfig, string) (bool, error) { return ok, err }
}

func TestDoctor_AllGood(t *testing.T) {
	f := newFixture(t, tstest.NewConfigBuilder().WithBinaries("/opt/bin/terraform", "aws2").Build())
	seen := stubTools(t)

	require.NoError(t, Doctor(context.Background(), ""))

	require.GreaterOrEqual(t, len(*seen), 2)
	assert.Equal(t, "/opt/bin/terraform", (*seen)[0].Name)
	assert.Equal(t, "aws2", (*seen)[1].Name)
	assert.Contains(t, f.out.String(), "Workspace:     "+f.loc.Dir)
	assert.Contains(t, f.out.String(), "[OK]")
}

func TestDoctor_MissingTool(t *testing.T) {
	newFixture(t, tstest.MinimalConfig())
	stubTools(t, "aws")

	err := Doctor(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required tools: aws")
}

func TestDoctor_ConfigErrorStillChecksTools(t *testing.T) {
	f := newFixture(t, tstest.MinimalConfig())
	resolveWorkspace = func(string, string) (*workspace.Location, error) {
		return nil, &config.Error{Path: "/repo/configs/tfslot.cfg", Err: config.ErrFileMissing}
	}
	seen := stubTools(t)

	err := Doctor(context.Background(), "")
	require.ErrorIs(t, err, config.ErrFileMissing)
	assert.NotEmpty(t, *seen)
	assert.Contains(t, f.out.String(), "Configuration: configuration error")
}

func TestDoctor_Mirror(t *testing.T) {
	tests := []struct {
		name    string
		ok      bool
		err     error
		wantErr string
		wantOut string
	}{
		{name: "reachable", ok: true, wantOut: "Mirror:        s3://state-bucket\n"},
		{name: "missing bucket", ok: false, wantErr: "does not exist", wantOut: "not found"},
		{name: "unreachable", err: errors.New("access denied"), wantErr: "access denied", wantOut: "unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tstest.NewConfigBuilder().WithMirror("state-bucket").Build())
			stubTools(t)
			stubBucket(t, tt.ok, tt.err)

			err := Doctor(context.Background(), "")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Contains(t, f.out.String(), tt.wantOut)
		})
	}
}
