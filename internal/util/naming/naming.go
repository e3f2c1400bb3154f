package naming

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// DefaultArchivePrefix is prepended to a cluster name to form its archive directory.
const DefaultArchivePrefix = "tf.state_"

// unclaimedMarker separates the prefix from the stash timestamp.
const unclaimedMarker = "@unclaimed-"

func ArchiveDir(prefix, cluster string) string {
	return prefix + cluster
}

// ClusterFromArchiveDir reverses ArchiveDir. It reports false for names that
// do not carry the prefix and for unclaimed stashes.
func ClusterFromArchiveDir(prefix, dir string) (string, bool) {
	if !strings.HasPrefix(dir, prefix) {
		return "", false
	}
	cluster := strings.TrimPrefix(dir, prefix)
	if cluster == "" || strings.HasPrefix(cluster, "@") {
		return "", false
	}
	return cluster, true
}

func UnclaimedDir(prefix string, at time.Time) string {
	return fmt.Sprintf("%s%s%s", prefix, unclaimedMarker, at.UTC().Format("20060102T150405Z"))
}

func MirrorKeyPrefix(mirrorPrefix, cluster string) string {
	return path.Join(mirrorPrefix, cluster) + "/"
}

func MirrorKey(mirrorPrefix, cluster, file string) string {
	return path.Join(mirrorPrefix, cluster, file)
}
