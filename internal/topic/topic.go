// Package topic provides validation and composition helpers for topic,
// namespace and partition names used on the pub/sub bus. The storage engine
// stores whatever names it is handed; these rules apply at the edges that
// accept names from users, such as the CLI.
package topic

import (
	"fmt"
	"strings"
)

// MaxNameLength is the maximum number of characters allowed in a namespace,
// a partition name, a topic name, and a fully qualified topic name.
const MaxNameLength = 65535

func containsWhitespace(s string) bool {
	return strings.ContainsAny(s, " \t\r\n")
}

// IsValidTopic reports whether a topic name is valid: any non-empty string
// without whitespace or '@' (reserved as the partition delimiter), no longer
// than MaxNameLength. Examples of valid topics: abc, /abc, /abc/de, /abc/de/.
func IsValidTopic(topic string) bool {
	return topic != "" &&
		len(topic) <= MaxNameLength &&
		!strings.Contains(topic, "@") &&
		!containsWhitespace(topic)
}

// IsValidPartition reports whether a partition name is valid. The topic rules
// apply, with the addition of the empty string, meaning no partition is used.
func IsValidPartition(partition string) bool {
	return partition == "" || IsValidTopic(partition)
}

// IsValidNamespace reports whether a namespace is valid. A namespace follows
// the partition rules: empty means no namespace.
func IsValidNamespace(ns string) bool {
	return IsValidPartition(ns)
}

// FullyQualifiedName composes the full topic path for a partition, namespace
// and topic name, following the syntax @<PARTITION>@<NAMESPACE>/<TOPIC>:
//
//	Only topic:                @@/topic
//	No partition:              @@/namespace/topic1
//	No namespace:              @/partition@/topic1
//	Partition+namespace+topic: @/my_partition@/name/space/topic
//
// A "/" is prefixed to non-empty partition and namespace names, and trailing
// slashes are removed everywhere.
func FullyQualifiedName(partition, ns, topic string) (string, error) {
	if !IsValidPartition(partition) {
		return "", fmt.Errorf("invalid partition %q", partition)
	}
	if !IsValidNamespace(ns) {
		return "", fmt.Errorf("invalid namespace %q", ns)
	}
	if !IsValidTopic(topic) {
		return "", fmt.Errorf("invalid topic %q", topic)
	}

	partition = strings.TrimRight(partition, "/")
	if partition != "" && !strings.HasPrefix(partition, "/") {
		partition = "/" + partition
	}
	ns = strings.TrimRight(ns, "/")
	if ns != "" && !strings.HasPrefix(ns, "/") {
		ns = "/" + ns
	}
	topic = strings.TrimRight(topic, "/")
	if topic == "" {
		return "", fmt.Errorf("invalid topic %q", topic)
	}
	if !strings.HasPrefix(topic, "/") {
		topic = "/" + topic
	}

	name := "@" + partition + "@" + ns + topic
	if len(name) > MaxNameLength {
		return "", fmt.Errorf("fully qualified name exceeds %d characters", MaxNameLength)
	}
	return name, nil
}
