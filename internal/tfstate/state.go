package tfstate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// State file names, in scan order.
const (
	StateFile  = "terraform.tfstate"
	BackupFile = "terraform.tfstate.backup"
)

// Files lists every member of a state set.
var Files = []string{StateFile, BackupFile}

const (
	resourceEKSCluster = "aws_eks_cluster"
	resourceEC2Tag     = "aws_ec2_tag"
	clusterTagPrefix   = "kubernetes.io/cluster/"
)

// State is the subset of the Terraform state document needed to recover the
// owning cluster.
type State struct {
	Version          int        `json:"version"`
	TerraformVersion string     `json:"terraform_version"`
	Serial           int64      `json:"serial"`
	Lineage          string     `json:"lineage"`
	Resources        []Resource `json:"resources"`
}

// Resource is one resource block of a state document.
type Resource struct {
	Mode      string     `json:"mode"`
	Type      string     `json:"type"`
	Name      string     `json:"name"`
	Instances []Instance `json:"instances"`
}

// Instance holds the recorded attributes of one resource instance.
type Instance struct {
	Attributes map[string]any `json:"attributes"`
}

// Identity returns the first cluster name found in resource order, or "".
func (s *State) Identity() string {
	for _, r := range s.Resources {
		for _, inst := range r.Instances {
			switch r.Type {
			case resourceEKSCluster:
				if name, ok := inst.Attributes["name"].(string); ok && name != "" {
					return name
				}
			case resourceEC2Tag:
				key, _ := inst.Attributes["key"].(string)
				if name, ok := strings.CutPrefix(key, clusterTagPrefix); ok && name != "" {
					return name
				}
			}
		}
	}
	return ""
}

// ParseIdentity recovers the cluster name from a state document. Empty or
// whitespace-only input yields "" without error.
func ParseIdentity(data []byte) (string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return "", nil
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return "", err
	}
	return st.Identity(), nil
}

// ReadIdentity recovers the cluster name from the state file at path.
func ReadIdentity(path string) (string, error) {
	// #nosec G304 - paths are derived from the resolved workspace
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	id, err := ParseIdentity(data)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnreadableState, path, err)
	}
	return id, nil
}
