package indexes

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestKeySig(t *testing.T) {
	d := bson.D{{Key: "section_id", Value: 1}, {Key: "timestamp", Value: int32(-1)}}
	if got := keySig(d); got != "section_id:1, timestamp:-1" {
		t.Errorf("keySig = %q", got)
	}
}

func TestCollectionsAreNamed(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range collections {
		for _, m := range c.models {
			if m.Options == nil || m.Options.Name == nil {
				t.Errorf("%s: index %v has no name", c.name, m.Keys)
				continue
			}
			if seen[*m.Options.Name] {
				t.Errorf("duplicate index name %q", *m.Options.Name)
			}
			seen[*m.Options.Name] = true
		}
	}
}
