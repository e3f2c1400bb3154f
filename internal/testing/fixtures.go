package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// State file names as written by terraform.
const (
	StateFile  = "terraform.tfstate"
	BackupFile = "terraform.tfstate.backup"
)

// EKSState returns a state document whose aws_eks_cluster is named cluster.
func EKSState(cluster string) string {
	return fmt.Sprintf(`{
  "version": 4,
  "terraform_version": "1.9.8",
  "serial": 7,
  "lineage": "lineage-%[1]s",
  "resources": [
    {
      "mode": "managed",
      "type": "aws_vpc",
      "name": "main",
      "instances": [{"attributes": {"id": "vpc-123"}}]
    },
    {
      "mode": "managed",
      "type": "aws_eks_cluster",
      "name": "this",
      "instances": [{"attributes": {"name": %[1]q, "version": "1.31"}}]
    }
  ]
}
`, cluster)
}

// TagState returns a state document that names cluster only through an
// aws_ec2_tag kubernetes.io/cluster/ key.
func TagState(cluster string) string {
	return fmt.Sprintf(`{
  "version": 4,
  "resources": [
    {
      "mode": "managed",
      "type": "aws_ec2_tag",
      "name": "subnet_tag",
      "instances": [{"attributes": {"key": "kubernetes.io/cluster/%s", "value": "shared"}}]
    }
  ]
}
`, cluster)
}

// AnonymousState returns a valid state document that names no cluster.
func AnonymousState() string {
	return `{"version": 4, "resources": []}` + "\n"
}

// WriteStateSet writes a state set into dir. Empty contents skip that file.
func WriteStateSet(t *testing.T, dir, state, backup string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if state != "" {
		WriteFile(t, filepath.Join(dir, StateFile), state)
	}
	if backup != "" {
		WriteFile(t, filepath.Join(dir, BackupFile), backup)
	}
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadFile returns the content of path, or "" when it does not exist.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	// #nosec G304 - test helper
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ""
	}
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// Snapshot returns the contents of every regular file under dir keyed by
// slash-separated relative path.
func Snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = ReadFile(t, path)
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", dir, err)
	}
	return out
}

// Declaration returns a main.tf body declaring cluster in cluster_custom_name.
func Declaration(cluster string) string {
	return fmt.Sprintf(`module "eks" {
  source = "./modules/eks"

  cluster_custom_name = %q
  cluster_version     = "1.31"
}
`, cluster)
}
