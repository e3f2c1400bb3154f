package eks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/tfslot/internal/command"
	tstest "github.com/imamik/tfslot/internal/testing"
)

func TestCommands(t *testing.T) {
	c := &CLI{Binary: "aws", Region: "us-east-1", Profile: "qa"}

	up := c.UpdateKubeconfigCommand("alpha")
	assert.Equal(t, "aws eks update-kubeconfig --name alpha --region us-east-1", up.String())
	assert.Equal(t, []string{"AWS_PROFILE=qa"}, up.Env)

	list := c.ListClustersCommand()
	assert.Equal(t, "aws eks list-clusters --region us-east-1 --query clusters --output json", list.String())

	assert.Nil(t, (&CLI{Region: "x"}).ListClustersCommand().Env)
	assert.Equal(t, "aws", (&CLI{}).ListClustersCommand().Name)
}

func TestParseClusterList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "array", input: "[\n  \"alpha\",\n  \"beta\"\n]\n", want: []string{"alpha", "beta"}},
		{name: "empty array", input: "[]", want: []string{}},
		{name: "full response", input: `{"clusters": ["gamma"]}`, want: []string{"gamma"}},
		{name: "empty output", input: "  \n", want: nil},
		{name: "null", input: "null", want: nil},
		{name: "garbage", input: "An error occurred", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClusterList(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClusterExists(t *testing.T) {
	runner := &tstest.FakeRunner{Handle: func(line string, _ command.Command) (*command.Result, error) {
		return &command.Result{Stdout: `["alpha", "beta"]`}, nil
	}}
	c := &CLI{Runner: runner, Region: "us-east-1"}

	ok, clusters, err := c.ClusterExists(context.Background(), "beta")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"alpha", "beta"}, clusters)

	ok, _, err = c.ClusterExists(context.Background(), "delta")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListClusters_Failure(t *testing.T) {
	runner := &tstest.FakeRunner{Handle: func(string, command.Command) (*command.Result, error) {
		return &command.Result{Stderr: "Unable to locate credentials", ExitCode: 255}, nil
	}}
	c := &CLI{Runner: runner, Region: "us-east-1"}

	_, err := c.ListClusters(context.Background())
	var cmdErr *command.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 255, cmdErr.ExitCode)
	assert.Contains(t, err.Error(), "Unable to locate credentials")
}
