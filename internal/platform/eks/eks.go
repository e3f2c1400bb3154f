// Package eks drives the aws CLI for the EKS control-plane calls tfslot needs:
// writing kubeconfig entries and listing clusters.
package eks

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/imamik/tfslot/internal/command"
)

// CLI builds and runs aws eks invocations.
type CLI struct {
	Runner  command.Runner
	Binary  string
	Region  string
	Profile string
}

// UpdateKubeconfigCommand returns the command that writes a kubeconfig
// context for cluster.
func (c *CLI) UpdateKubeconfigCommand(cluster string) command.Command {
	return c.cmd("eks", "update-kubeconfig", "--name", cluster, "--region", c.Region)
}

// ListClustersCommand returns the command that prints cluster names as a
// JSON array.
func (c *CLI) ListClustersCommand() command.Command {
	return c.cmd("eks", "list-clusters", "--region", c.Region, "--query", "clusters", "--output", "json")
}

// ListClusters returns the EKS clusters in the configured region.
func (c *CLI) ListClusters(ctx context.Context) ([]string, error) {
	cmd := c.ListClustersCommand()
	res, err := c.Runner.Run(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, &command.CommandError{
			Step:     "list-clusters",
			Command:  cmd.String(),
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
			ExitCode: res.ExitCode,
		}
	}
	return ParseClusterList(res.Stdout)
}

// ClusterExists reports whether name is among the listed clusters.
func (c *CLI) ClusterExists(ctx context.Context, name string) (bool, []string, error) {
	clusters, err := c.ListClusters(ctx)
	if err != nil {
		return false, nil, err
	}
	return slices.Contains(clusters, name), clusters, nil
}

// ParseClusterList decodes the output of list-clusters. It accepts both the
// bare array produced by --query clusters and the full response object.
func ParseClusterList(out string) ([]string, error) {
	out = strings.TrimSpace(out)
	if out == "" || out == "null" {
		return nil, nil
	}

	var names []string
	if err := json.Unmarshal([]byte(out), &names); err == nil {
		return names, nil
	}

	var resp struct {
		Clusters []string `json:"clusters"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse cluster list: %w", err)
	}
	return resp.Clusters, nil
}

func (c *CLI) cmd(args ...string) command.Command {
	bin := c.Binary
	if bin == "" {
		bin = "aws"
	}
	cmd := command.Command{Name: bin, Args: args}
	if c.Profile != "" {
		cmd.Env = []string{"AWS_PROFILE=" + c.Profile}
	}
	return cmd
}
