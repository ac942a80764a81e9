package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SyncTargets replaces fuzz.targets in the config file at path. The document is edited as a node tree, so comments,
// key order and keys unknown to FuzzConfig are preserved.
func SyncTargets(path string, targets []string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.WithStack(err)
	}

	var document yaml.Node
	if err = yaml.Unmarshal(b, &document); err != nil {
		return errors.Wrapf(err, "could not parse config file %s", path)
	}
	if document.Kind != yaml.DocumentNode || len(document.Content) == 0 || document.Content[0].Kind != yaml.MappingNode {
		return errors.Errorf("config file %s does not contain a mapping", path)
	}

	fuzzSection := findMappingValue(&document, "fuzz")
	if fuzzSection == nil {
		fuzzSection = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		root := document.Content[0]
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "fuzz"}, fuzzSection)
	} else if fuzzSection.Kind != yaml.MappingNode {
		return errors.Errorf("the fuzz section of %s is not a mapping", path)
	}

	targetsNode := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, target := range targets {
		targetsNode.Content = append(targetsNode.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: target})
	}

	replaced := false
	for i := 0; i+1 < len(fuzzSection.Content); i += 2 {
		if fuzzSection.Content[i].Value == "targets" {
			// Keep any comment attached to the previous value
			targetsNode.HeadComment = fuzzSection.Content[i+1].HeadComment
			targetsNode.LineComment = fuzzSection.Content[i+1].LineComment
			fuzzSection.Content[i+1] = targetsNode
			replaced = true
			break
		}
	}
	if !replaced {
		fuzzSection.Content = append(fuzzSection.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "targets", HeadComment: keyComments["targets"]},
			targetsNode,
		)
	}

	out, err := encodeNode(&document)
	if err != nil {
		return err
	}
	return errors.WithStack(os.WriteFile(path, out, 0644))
}
