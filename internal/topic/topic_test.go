package topic

import (
	"strings"
	"testing"
)

func TestIsValidTopic(t *testing.T) {
	valid := []string{"abc", "/abc", "/abc/de", "/abc/de/", "odom", "/robot_1/cmd_vel"}
	for _, s := range valid {
		if !IsValidTopic(s) {
			t.Errorf("IsValidTopic(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "has space", "tab\there", "new\nline", "part@topic",
		strings.Repeat("a", MaxNameLength+1)}
	for _, s := range invalid {
		if IsValidTopic(s) {
			t.Errorf("IsValidTopic(%q) = true, want false", s)
		}
	}
}

func TestIsValidPartitionAllowsEmpty(t *testing.T) {
	if !IsValidPartition("") {
		t.Error("empty partition should be valid")
	}
	if !IsValidNamespace("") {
		t.Error("empty namespace should be valid")
	}
	if IsValidPartition("a@b") {
		t.Error("partition with '@' should be invalid")
	}
}

func TestFullyQualifiedName(t *testing.T) {
	cases := []struct {
		partition, ns, topic string
		want                 string
	}{
		{"", "", "topic", "@@/topic"},
		{"", "namespace", "topic1", "@@/namespace/topic1"},
		{"partition", "", "topic1", "@/partition@/topic1"},
		{"/my_partition", "name/space", "topic", "@/my_partition@/name/space/topic"},
		{"part/", "ns/", "topic/", "@/part@/ns/topic"},
	}
	for _, c := range cases {
		got, err := FullyQualifiedName(c.partition, c.ns, c.topic)
		if err != nil {
			t.Errorf("FullyQualifiedName(%q, %q, %q): %v", c.partition, c.ns, c.topic, err)
			continue
		}
		if got != c.want {
			t.Errorf("FullyQualifiedName(%q, %q, %q) = %q, want %q",
				c.partition, c.ns, c.topic, got, c.want)
		}
	}
}

func TestFullyQualifiedNameRejectsInvalid(t *testing.T) {
	if _, err := FullyQualifiedName("bad part", "", "topic"); err == nil {
		t.Error("expected error for invalid partition")
	}
	if _, err := FullyQualifiedName("", "bad@ns", "topic"); err == nil {
		t.Error("expected error for invalid namespace")
	}
	if _, err := FullyQualifiedName("", "", ""); err == nil {
		t.Error("expected error for empty topic")
	}
	// a topic of only slashes trims to nothing
	if _, err := FullyQualifiedName("", "", "///"); err == nil {
		t.Error("expected error for slash-only topic")
	}
}
